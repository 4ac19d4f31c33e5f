package di

import (
	"context"
	"restopos/config"
	"restopos/infras/kafka"
	"restopos/infras/nats"
	"restopos/infras/otel"
	"restopos/internal/domains/notification/hub"
	notification "restopos/internal/domains/notification/service"
	"restopos/internal/domains/notification/sink"
	"restopos/transport/http"
	"restopos/transport/http/middleware"
	"restopos/transport/http/router"
	"time"

	"github.com/rs/zerolog/log"
)

const otelFlushTimeout = 5 * time.Second

// ProvideBroadcaster always delivers to the in-process hub and adds a sink per enabled broker.
func ProvideBroadcaster(cfg *config.Config, tel otel.Otel, eventHub *hub.Hub) (notification.Broadcaster, func()) {
	sinks := []notification.Sink{eventHub}
	closers := map[string]func() error{}

	if cfg.Broker.Kafka.Enable {
		client := kafka.New(cfg)
		sinks = append(sinks, sink.NewKafka(client, cfg.Broker.Kafka.Topic))
		closers["kafka"] = client.Close
	}

	if cfg.Broker.NATS.Enable {
		publisher := nats.New(cfg)
		sinks = append(sinks, sink.NewNATS(publisher, cfg.Broker.NATS.Subject))
		closers["nats"] = publisher.Close
	}

	broadcaster := notification.New(tel, sinks...)

	cleanup := func() {
		broadcaster.Close()
		eventHub.Close()

		for name, closeFn := range closers {
			if err := closeFn(); err != nil {
				log.Error().Err(err).Str("sink", name).Msg("failed to close event sink")
			}
		}
	}

	return broadcaster, cleanup
}

// ProvideServer builds the HTTP server and flushes traces when it stops.
func ProvideServer(cfg *config.Config, r router.Router, appMiddleware middleware.AppMiddleware, tel otel.Otel) *http.HTTP {
	server := http.New(cfg, r, appMiddleware)

	server.OnShutdown(func() {
		ctx, cancel := context.WithTimeout(context.Background(), otelFlushTimeout)
		defer cancel()

		if err := tel.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("failed to flush traces")
		}
	})

	return server
}
