package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/osp/internal/buildinfo"
	"github.com/dmitrijs2005/osp/internal/server"
	"github.com/dmitrijs2005/osp/internal/server/config"
)

func main() {

	// a missing .env is fine
	_ = godotenv.Load()

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
