package main

import (
	"os"
	"restopos/config"
	"restopos/helper"
	"restopos/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

// usage: migrate up|down|step-up|drop|version
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action is required: up, down, step-up, drop or version")
	}

	action := os.Args[1]

	if err := helper.Runner(cfg, action); err != nil {
		log.Fatal().Err(err).Str("action", action).Msg("Migration failed")
	}
}
