package main

import (
	"restopos/config"
	"restopos/di"
	"restopos/helper"
	"restopos/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title RestoPOS API
// @version 1.0
// @description Restaurant point-of-sale backend.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http, cleanup := di.InitializeService()
	http.OnShutdown(cleanup)
	http.Serve()
}
