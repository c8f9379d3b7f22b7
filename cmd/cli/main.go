package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/hospitaladmin/internal/client/cli"
	"github.com/dmitrijs2005/hospitaladmin/internal/client/config"
	"github.com/dmitrijs2005/hospitaladmin/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, os.Stderr)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
