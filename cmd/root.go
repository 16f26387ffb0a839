package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "qslpress",
	Short: "Turn amateur radio logs into printable QSL card labels",
	Long: `qslpress converts ADIF contact logs into QSL card labels.

Each contact is enriched with name and mailing address data looked up
from the FCC ULS amateur license database, then rendered as a label
image with an Intelligent Mail barcode, ready for a Brother QL label
printer or batch PNG export.

Run "qslpress import" first to build the local licensee registry, then
"qslpress process" to turn a log file into labels.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Running with no subcommand is a usage error.
		_ = cmd.Help()
		os.Exit(1)
	},
}

// Execute runs the root command and exits non-zero on any error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
