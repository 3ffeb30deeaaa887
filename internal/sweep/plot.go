package sweep

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	errorColor     = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	toleranceColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// WritePlots renders one PNG per check into dir, creating it if needed, and
// returns the written paths. Checks without samples are skipped.
func WritePlots(report *Report, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create plot directory: %w", err)
	}

	var files []string
	for _, c := range report.Checks {
		if len(c.Series) == 0 {
			continue
		}

		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s (max %.3g)", c.Name, c.MaxError)
		p.X.Label.Text = c.XLabel
		p.Y.Label.Text = "error"
		p.Add(plotter.NewGrid())

		pts := make(plotter.XYs, len(c.Series))
		for i, s := range c.Series {
			pts[i] = plotter.XY{X: s.X, Y: s.Error}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return files, fmt.Errorf("failed to build %s line: %w", c.Name, err)
		}
		line.Color = errorColor
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add("error", line)

		tol := c.Tolerance
		limit := plotter.NewFunction(func(float64) float64 { return tol })
		limit.Color = toleranceColor
		limit.Width = vg.Points(1)
		limit.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(limit)
		p.Legend.Add("tolerance", limit)

		file := filepath.Join(dir, c.Name+".png")
		if err := p.Save(14*vg.Inch, 6*vg.Inch, file); err != nil {
			return files, fmt.Errorf("failed to save %s plot: %w", c.Name, err)
		}
		files = append(files, file)
	}
	return files, nil
}

// WriteHTML renders every check as an interactive line chart on a single
// page.
func WriteHTML(report *Report, w io.Writer) error {
	page := components.NewPage()
	page.SetPageTitle(fmt.Sprintf("Rotation sweep %s", report.RunID))

	for _, c := range report.Checks {
		data := make([]opts.LineData, len(c.Series))
		limit := make([]opts.LineData, len(c.Series))
		for i, s := range c.Series {
			data[i] = opts.LineData{Value: []interface{}{s.X, s.Error}}
			limit[i] = opts.LineData{Value: []interface{}{s.X, c.Tolerance}}
		}

		status := "passed"
		if !c.Passed {
			status = "FAILED"
		}
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "360px"}),
			charts.WithTitleOpts(opts.Title{Title: c.Name, Subtitle: fmt.Sprintf("%s: max error %.3g over %d samples", status, c.MaxError, c.Samples)}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
			charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: c.XLabel, NameLocation: "middle", NameGap: 25}),
			charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "error"}),
		)
		line.AddSeries("error", data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
		line.AddSeries("tolerance", limit, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
		page.AddCharts(line)
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render sweep page: %w", err)
	}
	return nil
}
