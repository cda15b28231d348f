package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/myreport/reportcycle/internal/buildinfo"
	"github.com/myreport/reportcycle/internal/devstack"
	"github.com/myreport/reportcycle/internal/devstack/config"
	"github.com/myreport/reportcycle/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	app, err := devstack.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}
