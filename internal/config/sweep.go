package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the path to the canonical sweep defaults file.
const DefaultConfigPath = "config/sweep.defaults.json"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// SweepConfig holds the parameters of a numerical self-check sweep. Nil
// fields fall back to the defaults returned by the Get* methods, so partial
// files are safe.
type SweepConfig struct {
	// Samples per check.
	Samples *int `json:"samples,omitempty" yaml:"samples,omitempty"`
	// Largest rotation angle, in radians, fed to the wrap check.
	MaxAngle *float64 `json:"max_angle,omitempty" yaml:"max_angle,omitempty"`
	// Distance in radians the Euler sweeps keep from ±π/2 pitch.
	PitchMargin *float64 `json:"pitch_margin,omitempty" yaml:"pitch_margin,omitempty"`
	// Largest error a check may report and still pass.
	Tolerance *float64 `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
	Seed      *int64   `json:"seed,omitempty" yaml:"seed,omitempty"`
	// Checks to run; empty runs all of them.
	Checks  []string `json:"checks,omitempty" yaml:"checks,omitempty"`
	PlotDir *string  `json:"plot_dir,omitempty" yaml:"plot_dir,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }
func ptrInt64(v int64) *int64       { return &v }

// DefaultSweepConfig returns a SweepConfig with every field populated.
func DefaultSweepConfig() *SweepConfig {
	return &SweepConfig{
		Samples:     ptrInt(500),
		MaxAngle:    ptrFloat64(3 * math.Pi),
		PitchMargin: ptrFloat64(1e-3),
		Tolerance:   ptrFloat64(1e-9),
		Seed:        ptrInt64(1),
		PlotDir:     ptrString(""),
	}
}

// LoadSweepConfig loads a SweepConfig from a JSON or YAML file, chosen by
// extension. Unknown keys are rejected.
func LoadSweepConfig(path string) (*SweepConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	switch ext {
	case ".json", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &SweepConfig{}
	if ext == ".json" {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath,
// searching the current directory and its parents up to the repository
// root. Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *SweepConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,       // from cmd/rotcheck
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadSweepConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *SweepConfig) Validate() error {
	if c.Samples != nil && (*c.Samples < 1 || *c.Samples > 1_000_000) {
		return fmt.Errorf("samples must be between 1 and 1000000, got %d", *c.Samples)
	}
	if c.MaxAngle != nil && !(*c.MaxAngle > 0) {
		return fmt.Errorf("max_angle must be positive, got %g", *c.MaxAngle)
	}
	if c.PitchMargin != nil && !(*c.PitchMargin > 0 && *c.PitchMargin < math.Pi/2) {
		return fmt.Errorf("pitch_margin must be in (0, π/2), got %g", *c.PitchMargin)
	}
	if c.Tolerance != nil && !(*c.Tolerance > 0) {
		return fmt.Errorf("tolerance must be positive, got %g", *c.Tolerance)
	}
	for i, name := range c.Checks {
		if name == "" {
			return fmt.Errorf("checks[%d] is empty", i)
		}
	}
	return nil
}

// GetSamples returns the samples value or the default.
func (c *SweepConfig) GetSamples() int {
	if c.Samples == nil {
		return 500
	}
	return *c.Samples
}

// GetMaxAngle returns the max_angle value or the default of three half turns.
func (c *SweepConfig) GetMaxAngle() float64 {
	if c.MaxAngle == nil {
		return 3 * math.Pi
	}
	return *c.MaxAngle
}

// GetPitchMargin returns the pitch_margin value or the default.
func (c *SweepConfig) GetPitchMargin() float64 {
	if c.PitchMargin == nil {
		return 1e-3
	}
	return *c.PitchMargin
}

// GetTolerance returns the tolerance value or the default.
func (c *SweepConfig) GetTolerance() float64 {
	if c.Tolerance == nil {
		return 1e-9
	}
	return *c.Tolerance
}

// GetSeed returns the seed value or the default.
func (c *SweepConfig) GetSeed() int64 {
	if c.Seed == nil {
		return 1
	}
	return *c.Seed
}

// GetPlotDir returns the plot directory; empty disables plotting.
func (c *SweepConfig) GetPlotDir() string {
	if c.PlotDir == nil {
		return ""
	}
	return *c.PlotDir
}
