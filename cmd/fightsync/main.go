package main

import (
	"log/slog"
	"os"
	"time"

	"fightsync-backend/cmd/fightsync/cmd"
	"fightsync-backend/lib/serviceutil"

	"github.com/lmittmann/tint"
)

func main() {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	cmd.ExecuteContext(serviceutil.SignalContext())
}
