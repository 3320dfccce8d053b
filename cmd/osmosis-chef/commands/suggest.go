package commands

import (
	"fmt"

	"osmosis-chef/cmd/osmosis-chef/utils"
	"osmosis-chef/lib/configutil"
	"osmosis-chef/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(suggestCmd)
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Pairs unmapped assessment topics with their most similar playlist titles.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		kitchen, cleanup, err := createChef(cfg, false)
		if err != nil {
			serviceutil.Fatal("failed to initialize crawl pipeline", err)
		}
		defer cleanup()

		suggestions, err := kitchen.UnmappedSuggestions(ctx)
		if err != nil {
			serviceutil.Fatal("failed to collect suggestions", err)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"topic", "closest playlist", "correlation"})
		for _, s := range suggestions {
			t.AppendRow(table.Row{
				s.Assessment, s.Playlist, fmt.Sprintf("%.3f", s.Correlation),
			})
		}
		t.Render()
	},
}
