// Package command implements the locctl CLI. It exercises the coordinate
// parsing, distance and nearest-point logic offline, and runs one-shot
// reverse geocoding lookups.
//
//	locctl parse "59.3293|18.0686"
//	locctl distance "59.3293|18.0686" "57.7089|11.9746"
//	locctl nearest "0|0" "10|10" "0.5|0.5"
//	locctl area "40.714224|-73.961452" [--key KEY] [-c ./config]
package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "locctl",
		Short: "Location tracker utilities",
		Long: `Location tracker utilities.

Coordinates are written as "latitude|longitude" in decimal degrees.
Quote them in the shell so the pipe is not interpreted.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newParseCmd(),
		newDistanceCmd(),
		newNearestCmd(),
		newAreaCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
