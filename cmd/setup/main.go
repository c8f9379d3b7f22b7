package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/hospitaladmin/internal/client/config"
	"github.com/dmitrijs2005/hospitaladmin/internal/logging"
	"github.com/dmitrijs2005/hospitaladmin/internal/setup"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	opts := setup.ParseOptions()
	logger := logging.New(cfg.LogLevel, os.Stderr)

	app, err := setup.NewApp(cfg, opts, logger, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
