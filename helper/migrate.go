package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"restopos/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const (
	ActionUp      = "up"
	ActionDown    = "down"
	ActionStepUp  = "step-up"
	ActionDrop    = "drop"
	ActionVersion = "version"
)

var ErrUnknownAction = errors.New("unknown migration action")

func getDBName(cfg *config.Config, baseName string) string {
	if cfg.DB.Postgres.Prefix != "" {
		return cfg.DB.Postgres.Prefix + baseName
	}

	return baseName
}

// DatabaseURL builds the write-side connection string golang-migrate expects.
func DatabaseURL(cfg *config.Config) string {
	write := cfg.DB.Postgres.Write

	query := url.Values{}
	query.Set("sslmode", write.SSLMode)
	query.Set("x-migrations-table", cfg.DB.Postgres.MigrationTable)

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(write.Username, write.Password),
		Host:     net.JoinHostPort(write.Host, write.Port),
		Path:     getDBName(cfg, write.Name),
		RawQuery: query.Encode(),
	}

	return u.String()
}

func getConnection(cfg *config.Config) (*migrate.Migrate, error) {
	mig, err := migrate.New(cfg.DB.Postgres.MigrationPath, DatabaseURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

// Runner applies one action against the write database.
func Runner(cfg *config.Config, action string) error {
	mig, err := getConnection(cfg)
	if err != nil {
		return err
	}

	defer mig.Close()

	switch action {
	case ActionUp:
		err = mig.Up()
	case ActionDown:
		err = mig.Steps(-1)
	case ActionStepUp:
		err = mig.Steps(1)
	case ActionDrop:
		err = mig.Drop()
	case ActionVersion:
		version, dirty, versionErr := mig.Version()
		if versionErr != nil && !errors.Is(versionErr, migrate.ErrNilVersion) {
			return fmt.Errorf("error reading migration version: %w", versionErr)
		}

		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current schema version")

		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migration %s: %w", action, err)
	}

	log.Info().Str("action", action).Msg("Database migration finished")

	return nil
}

func Up(cfg *config.Config) error {
	return Runner(cfg, ActionUp)
}

func StepUp(cfg *config.Config) error {
	return Runner(cfg, ActionStepUp)
}

func Down(cfg *config.Config) error {
	return Runner(cfg, ActionDown)
}

func Drop(cfg *config.Config) error {
	return Runner(cfg, ActionDrop)
}
