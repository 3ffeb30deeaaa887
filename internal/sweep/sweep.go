// Package sweep runs numerical self-checks over the rotation conversions
// and the manifold state chart.
//
// Responsibilities: generating reproducible sample grids from a seed,
// measuring the worst error of each identity the conversions must satisfy,
// and rendering the per-sample error series as PNG plots or an HTML page.
//
// Key types: Config, Report, CheckResult.
package sweep

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/manifold/internal/config"
	"github.com/banshee-data/manifold/internal/monitoring"
	"github.com/banshee-data/manifold/internal/timeutil"
)

// clock stamps reports; tests replace it.
var clock timeutil.Clock = timeutil.RealClock{}

// Config selects and sizes the checks of a sweep.
type Config struct {
	Samples     int
	MaxAngle    float64
	PitchMargin float64
	Tolerance   float64
	Seed        int64
	// Checks lists check names to run; empty runs all of them.
	Checks []string
}

// NewConfig resolves a file-level SweepConfig into a Config, applying
// defaults for unset fields.
func NewConfig(c *config.SweepConfig) Config {
	return Config{
		Samples:     c.GetSamples(),
		MaxAngle:    c.GetMaxAngle(),
		PitchMargin: c.GetPitchMargin(),
		Tolerance:   c.GetTolerance(),
		Seed:        c.GetSeed(),
		Checks:      append([]string(nil), c.Checks...),
	}
}

// Point is one sample of a check: the swept coordinate and the error there.
type Point struct {
	X     float64 `json:"x"`
	Error float64 `json:"error"`
}

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Name      string  `json:"name"`
	XLabel    string  `json:"x_label"`
	Samples   int     `json:"samples"`
	MaxError  float64 `json:"max_error"`
	WorstX    float64 `json:"worst_x"`
	Tolerance float64 `json:"tolerance"`
	Passed    bool    `json:"passed"`
	// Elapsed is the wall time spent in the check.
	Elapsed time.Duration `json:"elapsed_ns"`
	Series  []Point       `json:"series"`
}

// Report collects the results of one Run.
type Report struct {
	RunID     uuid.UUID     `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Seed      int64         `json:"seed"`
	Checks    []CheckResult `json:"checks"`
}

// Failed returns the names of the checks that exceeded their tolerance.
func (r *Report) Failed() []string {
	var names []string
	for _, c := range r.Checks {
		if !c.Passed {
			names = append(names, c.Name)
		}
	}
	return names
}

// Validate reports whether cfg can drive a sweep.
func (cfg Config) Validate() error {
	if cfg.Samples < 1 {
		return fmt.Errorf("samples must be positive, got %d", cfg.Samples)
	}
	if !(cfg.MaxAngle > 0) {
		return fmt.Errorf("max angle must be positive, got %g", cfg.MaxAngle)
	}
	if !(cfg.PitchMargin > 0 && cfg.PitchMargin < math.Pi/2) {
		return fmt.Errorf("pitch margin must be in (0, π/2), got %g", cfg.PitchMargin)
	}
	if !(cfg.Tolerance > 0) {
		return fmt.Errorf("tolerance must be positive, got %g", cfg.Tolerance)
	}
	for _, name := range cfg.Checks {
		if _, ok := lookup(name); !ok {
			return fmt.Errorf("unknown check %q (known: %v)", name, CheckNames())
		}
	}
	return nil
}

// Run executes the configured checks in order and returns their results.
// Each check draws from its own source seeded with cfg.Seed, so a check's
// samples do not depend on which other checks run.
func Run(cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sweep config: %w", err)
	}

	selected := checks
	if len(cfg.Checks) > 0 {
		selected = make([]check, 0, len(cfg.Checks))
		for _, name := range cfg.Checks {
			c, _ := lookup(name)
			selected = append(selected, c)
		}
	}

	report := &Report{
		RunID:     uuid.New(),
		StartedAt: clock.Now(),
		Seed:      cfg.Seed,
	}
	monitoring.Logf("sweep %s: %d checks, %d samples each, seed %d", report.RunID, len(selected), cfg.Samples, cfg.Seed)

	for _, c := range selected {
		res := CheckResult{
			Name:      c.name,
			XLabel:    c.xLabel,
			Tolerance: cfg.Tolerance,
			Series:    make([]Point, 0, cfg.Samples),
		}
		rnd := rand.New(rand.NewSource(cfg.Seed))
		start := clock.Now()
		c.run(rnd, cfg, func(x, err float64) {
			if math.IsNaN(err) || math.IsInf(err, 0) {
				// Keep the report encodable as JSON.
				err = math.MaxFloat64
			}
			res.Series = append(res.Series, Point{X: x, Error: err})
			if len(res.Series) == 1 || err > res.MaxError {
				res.MaxError, res.WorstX = err, x
			}
		})
		res.Elapsed = clock.Since(start)
		res.Samples = len(res.Series)
		res.Passed = res.MaxError <= res.Tolerance
		report.Checks = append(report.Checks, res)

		status := "ok"
		if !res.Passed {
			status = "FAIL"
		}
		monitoring.Logf("%-20s %-4s max error %.3g (tolerance %.3g) in %v", res.Name, status, res.MaxError, res.Tolerance, res.Elapsed)
		monitoring.Debugf("%s: worst sample at %s = %g", res.Name, res.XLabel, res.WorstX)
	}

	report.Duration = clock.Since(report.StartedAt)
	return report, nil
}
