package commands

import (
	"context"
	"fmt"
	"os"

	"osmosis-chef/lib/telemetry"

	"github.com/spf13/cobra"
)

var debug *bool

func init() {
	debug = rootCmd.PersistentFlags().Bool("debug", false, "Log per-item crawl progress.")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*debug)
	}
}

var rootCmd = &cobra.Command{
	Use:   "osmosis-chef",
	Short: "osmosis-chef harvests the Open Osmosis channel into a database.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
