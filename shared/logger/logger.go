package logger

import (
	"io"
	"os"
	"restopos/config"
	"restopos/shared/constant"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs the global zerolog logger. Production emits JSON lines, anything else a console writer.
func InitLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var output io.Writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	if cfg != nil && cfg.Server.Env == constant.ServerEnvProduction {
		output = os.Stdout
	}

	log.Logger = log.Output(output).With().Str("app", appName(cfg)).Logger()
	log.Trace().Msg("Zerolog initialized.")
}

func appName(cfg *config.Config) string {
	if cfg == nil || cfg.App.Name == "" {
		return "restopos"
	}

	return cfg.App.Name
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

func SetLogLevel(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || cfg.Server.LogLevel == "" {
		level = zerolog.InfoLevel
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no log level set up, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}
