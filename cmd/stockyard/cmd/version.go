package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newVersionCommand(version Version) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "stockyard %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}
