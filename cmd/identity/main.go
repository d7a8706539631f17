package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/recipebook/internal/identity"
	"github.com/dmitrijs2005/recipebook/internal/identity/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app := identity.NewApp(cfg)

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
