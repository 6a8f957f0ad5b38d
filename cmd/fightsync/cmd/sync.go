package cmd

import (
	"log/slog"
	"os"
	"time"

	"fightsync-backend/lib/telemetry"
	"fightsync-backend/services/fightsync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one incremental sync of events, fights, metadata, round stats and start times.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		tele, err := telemetry.SetupFromEnv(ctx, "cmd/fightsync")
		if err != nil {
			slog.Warn("telemetry setup failed", "err", err)
		} else {
			defer tele.Shutdown(ctx)
		}
		telemetry.InstrumentPerfStats(ctx)

		database := openDatabase()
		defer database.Close()

		service := fightsync.NewService(database, fightsync.Options{})

		start := time.Now()
		report := service.Run(ctx)
		elapsed := time.Since(start).Round(time.Millisecond)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetTitle("Sync summary (%s)", elapsed)
		t.AppendRows([]table.Row{
			{"New events", report.NewEvents},
			{"New fights", report.NewFights},
			{"Updated fights", report.UpdatedFights},
			{"Deleted fights", report.DeletedFights},
			{"Meta added", report.NewMeta},
			{"Round rows", report.NewRoundRows},
			{"Start times", report.UpdatedTimes},
			{"Failures", report.Failed},
		})
		t.Render()
	},
}
