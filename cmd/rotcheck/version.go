package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/manifold/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of rotcheck",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String("rotcheck"))
		},
	}
}
