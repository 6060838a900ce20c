package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the jsontok version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "jsontok %s (commit %s, built %s, %s)\n",
				Version, GitCommit, BuildDate, runtime.Version())
			return err
		},
	}
}
