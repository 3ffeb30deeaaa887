package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/banshee-data/manifold/internal/config"
	"github.com/banshee-data/manifold/internal/monitoring"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

// newRootCmd builds the command tree. A fresh tree per call keeps flag
// state out of package globals.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "rotcheck",
		Short: "Rotation conversions and manifold chart self-checks",
		Long: `rotcheck converts between quaternions, rotation vectors, rotation matrices
and Euler angles, and sweeps the conversions and the composite state chart
for numerical accuracy.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				monitoring.UseZap(monitoring.NewZapLogger(zapcore.DebugLevel))
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Sweep config file (.json, .yaml or .yml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newSweepCmd(opts), newConvertCmd(), newVersionCmd())
	return cmd
}

// loadConfig reads the --config file, or returns an empty config whose
// getters supply the defaults.
func (o *rootOptions) loadConfig() (*config.SweepConfig, error) {
	if o.configPath == "" {
		return &config.SweepConfig{}, nil
	}
	return config.LoadSweepConfig(o.configPath)
}
