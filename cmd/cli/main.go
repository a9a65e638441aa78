package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/osp/internal/buildinfo"
	"github.com/dmitrijs2005/osp/internal/client/cli"
	"github.com/dmitrijs2005/osp/internal/client/config"
)

func main() {

	// a missing .env is fine
	_ = godotenv.Load()

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
