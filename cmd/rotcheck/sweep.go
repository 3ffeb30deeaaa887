package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/banshee-data/manifold/internal/monitoring"
	"github.com/banshee-data/manifold/internal/sweep"
)

var errChecksFailed = errors.New("sweep checks failed")

type sweepOptions struct {
	plotDir   string
	jsonPath  string
	htmlPath  string
	samples   int
	seed      int64
	tolerance float64
	checks    []string
}

func newSweepCmd(root *rootOptions) *cobra.Command {
	opts := &sweepOptions{}
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Measure the numerical accuracy of the conversions",
		Long: `Runs each self-check over a seeded grid of samples and reports the worst
error against the tolerance. Exits non-zero if any check fails.

Checks: ` + strings.Join(sweep.CheckNames(), ", "),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.plotDir, "plots", "", "Directory for PNG error plots (overrides plot_dir)")
	f.StringVar(&opts.jsonPath, "json", "", "Write the JSON report to this file")
	f.StringVar(&opts.htmlPath, "html", "", "Write an interactive HTML report to this file")
	f.IntVar(&opts.samples, "samples", 0, "Samples per check (overrides config)")
	f.Int64Var(&opts.seed, "seed", 0, "Random seed (overrides config)")
	f.Float64Var(&opts.tolerance, "tolerance", 0, "Pass threshold (overrides config)")
	f.StringSliceVar(&opts.checks, "check", nil, "Checks to run (overrides config; repeatable)")
	return cmd
}

func runSweep(cmd *cobra.Command, root *rootOptions, opts *sweepOptions) error {
	fileCfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	cfg := sweep.NewConfig(fileCfg)
	flags := cmd.Flags()
	if flags.Changed("samples") {
		cfg.Samples = opts.samples
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.seed
	}
	if flags.Changed("tolerance") {
		cfg.Tolerance = opts.tolerance
	}
	if flags.Changed("check") {
		cfg.Checks = opts.checks
	}
	plotDir := fileCfg.GetPlotDir()
	if flags.Changed("plots") {
		plotDir = opts.plotDir
	}

	report, err := sweep.Run(cfg)
	if err != nil {
		return err
	}
	if err := printReport(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	if opts.jsonPath != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		if err := os.WriteFile(opts.jsonPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		monitoring.Logf("wrote %s", opts.jsonPath)
	}
	if opts.htmlPath != "" {
		if err := writeHTML(report, opts.htmlPath); err != nil {
			return err
		}
		monitoring.Logf("wrote %s", opts.htmlPath)
	}
	if plotDir != "" {
		files, err := sweep.WritePlots(report, plotDir)
		if err != nil {
			return err
		}
		monitoring.Logf("wrote %d plots to %s", len(files), plotDir)
	}

	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%w: %s", errChecksFailed, strings.Join(failed, ", "))
	}
	return nil
}

func printReport(w io.Writer, report *sweep.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "CHECK\tSAMPLES\tMAX ERROR\tTOLERANCE\tRESULT\n")
	for _, c := range report.Checks {
		result := "ok"
		if !c.Passed {
			result = "FAIL"
		}
		fmt.Fprintf(tw, "%s\t%d\t%.3g\t%.3g\t%s\n", c.Name, c.Samples, c.MaxError, c.Tolerance, result)
	}
	return tw.Flush()
}

func writeHTML(report *sweep.Report, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create HTML report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close HTML report: %w", cerr)
		}
	}()
	return sweep.WriteHTML(report, f)
}
