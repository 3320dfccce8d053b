package commands

import (
	"log/slog"
	"time"

	"osmosis-chef/cmd/osmosis-chef/utils"
	"osmosis-chef/internal/chef"
	"osmosis-chef/internal/store"
	"osmosis-chef/lib/configutil"
	"osmosis-chef/lib/sqliteutil"
	"osmosis-chef/lib/telemetry"
	"osmosis-chef/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

var harvestDb *string

func init() {
	harvestDb = harvestCmd.Flags().String("db", "channel.db", "The database to write the channel tree to.")
	rootCmd.AddCommand(harvestCmd)
}

var harvestCmd = &cobra.Command{
	Use:   "harvest [--db <path/to/channel.db>]",
	Short: "Harvests both sources and writes the assembled channel tree to a database.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		telemetry.InstrumentPerfStats(ctx)

		kitchen, cleanup, err := createChef(cfg, true)
		if err != nil {
			serviceutil.Fatal("failed to initialize crawl pipeline", err)
		}
		defer cleanup()

		t1 := time.Now()
		channel, reports, err := kitchen.BuildChannel(ctx)
		t2 := time.Now()
		if err != nil {
			serviceutil.Fatal("harvest aborted", err)
		}

		out, err := sqliteutil.OpenDB(store.Schema, *harvestDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer out.Close()

		err = store.Save(ctx, out, channel)
		if err != nil {
			serviceutil.Fatal("failed to save channel tree", err)
		}

		printReports(reports)
		slog.Info("harvest time", "seconds", t2.Sub(t1).Seconds())
	},
}

func printReports(reports []chef.TopicReport) {
	t := utils.NewTable()
	t.AppendHeader(table.Row{"topic", "items", "exercises", "merged", "error"})
	for _, report := range reports {
		errMsg := ""
		if report.Err != nil {
			errMsg = report.Err.Error()
		}
		t.AppendRow(table.Row{
			report.Topic, report.Items, report.Exercises, report.Merged, errMsg,
		})
	}
	t.Render()
}
