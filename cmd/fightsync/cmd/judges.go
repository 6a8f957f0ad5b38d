package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"fightsync-backend/lib/telemetry"
	"fightsync-backend/services/judgesync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	judgesStartYear int
	judgesEndYear   int
	judgesYes       bool
)

func init() {
	judgesCmd.Flags().IntVar(&judgesStartYear, "start", 2010, "first year to scan")
	judgesCmd.Flags().IntVar(&judgesEndYear, "end", time.Now().Year(), "last year to scan")
	judgesCmd.Flags().BoolVar(&judgesYes, "yes", false, "skip the confirmation prompt")
	rootCmd.AddCommand(judgesCmd)
}

var judgesCmd = &cobra.Command{
	Use:   "judges",
	Short: "Backfill judge scorecards for the given year range.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		if !judgesYes {
			fmt.Printf("Start incremental judge scrape from %d to %d? (yes/no): ",
				judgesStartYear, judgesEndYear)
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if strings.TrimSpace(strings.ToLower(line)) != "yes" {
				fmt.Println("aborted")
				return
			}
		}

		tele, err := telemetry.SetupFromEnv(ctx, "cmd/fightsync")
		if err != nil {
			slog.Warn("telemetry setup failed", "err", err)
		} else {
			defer tele.Shutdown(ctx)
		}

		database := openDatabase()
		defer database.Close()

		service := judgesync.NewService(database, judgesync.Options{
			StartYear: judgesStartYear,
			EndYear:   judgesEndYear,
		})

		start := time.Now()
		report, err := service.Run(ctx)
		if err != nil {
			slog.Error("judge scan failed", "err", err)
		}
		elapsed := time.Since(start).Round(time.Millisecond)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetTitle("Judge scan summary (%s)", elapsed)
		t.AppendRows([]table.Row{
			{"Events checked", report.EventsChecked},
			{"Bouts processed", report.BoutsProcessed},
			{"Rows upserted", report.RowsUpserted},
			{"Failures", report.Failed},
			{"Stopped early", report.StoppedEarly},
		})
		t.Render()
	},
}
