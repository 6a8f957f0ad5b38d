package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"fightsync-backend/lib/configutil"
	configlibsql "fightsync-backend/lib/configutil/libsql"
	"fightsync-backend/lib/serviceutil"
	fightsyncdb "fightsync-backend/services/fightsync/db"
	judgesyncdb "fightsync-backend/services/judgesync/db"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fightsync",
	Short: "fightsync mirrors UFC events, fights, per-round stats and judge scorecards into a local database.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type Config struct {
	Database configlibsql.Struct `json:"database"`
}

func openDatabase() *sql.DB {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	database, err := cfg.Database.OpenDB(fightsyncdb.Schema + "\n" + judgesyncdb.Schema)
	if err != nil {
		serviceutil.Fatal("failed to open db", err)
	}
	return database
}
