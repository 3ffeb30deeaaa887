// Command rotcheck exposes the rotation conversions and the sweep harness
// on the command line.
package main

import (
	"fmt"
	"os"

	"github.com/banshee-data/manifold/internal/monitoring"
)

func main() {
	err := newRootCmd().Execute()
	_ = monitoring.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
