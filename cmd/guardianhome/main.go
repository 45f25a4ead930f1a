package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/IpsitaPrusty/smart-home-website/internal/app"
	"github.com/IpsitaPrusty/smart-home-website/internal/config"
)

func main() {
	// Optional local overrides; production relies on real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := app.Run(cfg); err != nil {
		log.Fatalf("app: %v", err)
	}
}
