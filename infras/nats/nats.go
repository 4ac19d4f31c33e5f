package nats

//go:generate go run go.uber.org/mock/mockgen -source=./nats.go -destination=./mocks/nats_mock.go -package=mocks

import (
	"context"
	"fmt"
	"restopos/config"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

const (
	reconnectWait = 2 * time.Second
	maxReconnects = -1
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Close() error
}

type publisherImpl struct {
	conn *nats.Conn
}

// New connects to the configured NATS server and keeps reconnecting in the background.
func New(config *config.Config) Publisher {
	url := config.Broker.NATS.URL

	conn, err := nats.Connect(url,
		nats.Name(config.App.Name),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		log.Fatal().Err(err).Str("url", url).Msg("Failed to connect to NATS")
	}

	log.Info().Str("url", url).Msg("NATS client initialized")

	return &publisherImpl{conn: conn}
}

func (p *publisherImpl) Publish(_ context.Context, subject string, data []byte) error {
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to NATS: %w", err)
	}

	return nil
}

func (p *publisherImpl) Close() error {
	if err := p.conn.Drain(); err != nil {
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}

	return nil
}
