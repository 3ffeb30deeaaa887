package sweep

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/manifold/internal/config"
	"github.com/banshee-data/manifold/internal/monitoring"
	"github.com/banshee-data/manifold/internal/timeutil"
)

func quiet(t *testing.T) {
	orig := monitoring.Logf
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(orig) })
}

func testConfig() Config {
	cfg := NewConfig(config.MustLoadDefaultConfig())
	cfg.Samples = 200
	return cfg
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig(&config.SweepConfig{})
	assert.Equal(t, 500, cfg.Samples)
	assert.Equal(t, 3*math.Pi, cfg.MaxAngle)
	assert.Equal(t, 1e-9, cfg.Tolerance)
	assert.Empty(t, cfg.Checks)
	require.NoError(t, cfg.Validate())
}

func TestRunAllChecksPass(t *testing.T) {
	quiet(t)

	report, err := Run(testConfig())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, report.RunID)
	assert.False(t, report.StartedAt.IsZero())
	require.Len(t, report.Checks, len(CheckNames()))
	for i, c := range report.Checks {
		assert.Equal(t, CheckNames()[i], c.Name)
		assert.True(t, c.Passed, "%s: max error %g at %s = %g", c.Name, c.MaxError, c.XLabel, c.WorstX)
		assert.Equal(t, len(c.Series), c.Samples)
		assert.Greater(t, c.Samples, 0)
		assert.LessOrEqual(t, c.Samples, 200)
	}
	assert.Empty(t, report.Failed())
}

func TestRunUsesClock(t *testing.T) {
	quiet(t)

	start := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	orig := clock
	clock = timeutil.NewMockClock(start)
	t.Cleanup(func() { clock = orig })

	cfg := testConfig()
	cfg.Checks = []string{"rotvec_roundtrip"}
	report, err := Run(cfg)
	require.NoError(t, err)

	assert.Equal(t, start, report.StartedAt)
	assert.Zero(t, report.Duration)
	assert.Zero(t, report.Checks[0].Elapsed)
}

// steppingClock moves forward by step after every reading.
type steppingClock struct {
	*timeutil.MockClock
	step time.Duration
}

func (c steppingClock) Now() time.Time {
	now := c.MockClock.Now()
	c.Advance(c.step)
	return now
}

func TestRunTimesChecks(t *testing.T) {
	quiet(t)

	start := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	orig := clock
	clock = steppingClock{MockClock: timeutil.NewMockClock(start), step: time.Millisecond}
	t.Cleanup(func() { clock = orig })

	cfg := testConfig()
	cfg.Checks = []string{"rotvec_roundtrip", "ear_inverse"}
	report, err := Run(cfg)
	require.NoError(t, err)

	assert.Equal(t, start, report.StartedAt)
	for _, c := range report.Checks {
		assert.Equal(t, time.Millisecond, c.Elapsed, c.Name)
	}
	assert.Equal(t, 3*time.Millisecond, report.Duration)
}

func TestRunSelectedChecks(t *testing.T) {
	quiet(t)

	cfg := testConfig()
	cfg.Checks = []string{"state_chart", "ear_inverse"}
	report, err := Run(cfg)
	require.NoError(t, err)

	require.Len(t, report.Checks, 2)
	assert.Equal(t, "state_chart", report.Checks[0].Name)
	assert.Equal(t, "ear_inverse", report.Checks[1].Name)
}

func TestRunIsReproducible(t *testing.T) {
	quiet(t)

	cfg := testConfig()
	cfg.Checks = []string{"rpy_roundtrip"}
	a, err := Run(cfg)
	require.NoError(t, err)

	// The check's samples do not depend on which checks run before it.
	cfg.Checks = []string{"rotvec_wrap", "rpy_roundtrip"}
	b, err := Run(cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Checks[0].Series, b.Checks[1].Series)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestRunFailsBelowAchievableTolerance(t *testing.T) {
	quiet(t)

	cfg := testConfig()
	cfg.Tolerance = 1e-300
	cfg.Checks = []string{"ear_inverse", "rotmat_orthonormal"}
	report, err := Run(cfg)
	require.NoError(t, err)

	// Near gimbal lock E⁻¹E cannot be exactly I in floating point.
	assert.Contains(t, report.Failed(), "ear_inverse")
}

func TestEulerErrorGrowsTowardGimbalLock(t *testing.T) {
	quiet(t)

	cfg := testConfig()
	cfg.Checks = []string{"ear_inverse"}
	report, err := Run(cfg)
	require.NoError(t, err)

	c := report.Checks[0]
	limit := math.Pi/2 - cfg.PitchMargin
	assert.InDelta(t, -limit, c.Series[0].X, 1e-12)
	assert.InDelta(t, limit, c.Series[len(c.Series)-1].X, 1e-12)
	assert.Greater(t, math.Abs(c.WorstX), 1.0, "worst sample should be near ±π/2, got %g", c.WorstX)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	quiet(t)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero samples", func(c *Config) { c.Samples = 0 }},
		{"zero max angle", func(c *Config) { c.MaxAngle = 0 }},
		{"pitch margin too large", func(c *Config) { c.PitchMargin = 2 }},
		{"zero tolerance", func(c *Config) { c.Tolerance = 0 }},
		{"unknown check", func(c *Config) { c.Checks = []string{"quat_roundtrip"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := Run(cfg)
			assert.Error(t, err)
		})
	}
}

func TestSingleSample(t *testing.T) {
	quiet(t)

	cfg := testConfig()
	cfg.Samples = 1
	report, err := Run(cfg)
	require.NoError(t, err)
	for _, c := range report.Checks {
		assert.LessOrEqual(t, c.Samples, 1, c.Name)
		assert.True(t, c.Passed, c.Name)
	}
}

func TestReportJSON(t *testing.T) {
	quiet(t)

	cfg := testConfig()
	cfg.Samples = 5
	report, err := Run(cfg)
	require.NoError(t, err)

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.RunID, decoded.RunID)
	assert.Equal(t, report.Failed(), decoded.Failed())

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "run_id")
	assert.Contains(t, raw, "checks")
}

func TestWritePlots(t *testing.T) {
	quiet(t)

	cfg := testConfig()
	cfg.Samples = 20
	cfg.Checks = []string{"rotvec_roundtrip", "state_chart"}
	report, err := Run(cfg)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "plots")
	files, err := WritePlots(report, dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, f := range files {
		info, err := os.Stat(f)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
	assert.Equal(t, filepath.Join(dir, "state_chart.png"), files[1])
}

func TestWritePlotsSkipsEmptySeries(t *testing.T) {
	report := &Report{Checks: []CheckResult{{Name: "empty", Tolerance: 1}}}
	files, err := WritePlots(report, t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestWriteHTML(t *testing.T) {
	quiet(t)

	cfg := testConfig()
	cfg.Samples = 10
	cfg.Checks = []string{"ypr_roundtrip"}
	report, err := Run(cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(report, &buf))
	html := buf.String()
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "ypr_roundtrip")
	assert.Contains(t, html, report.RunID.String())
}
