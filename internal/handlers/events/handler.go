package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"restopos/infras/otel"
	"restopos/internal/domains/notification/hub"
	"restopos/internal/domains/notification/model"
	"restopos/shared/constant"
	"restopos/shared/failure"
	gModel "restopos/shared/model"
	"restopos/shared/timezone"
	"restopos/transport/http/response"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	keepaliveInterval = 30 * time.Second
	retryMillis       = 2000
)

// Subscriptions is the part of the hub the stream endpoint needs.
type Subscriptions interface {
	Subscribe(role string) *hub.Subscriber
	Unsubscribe(id string)
}

type Handler struct {
	hub       Subscriptions
	otel      otel.Otel
	keepalive time.Duration
}

func New(hub Subscriptions, otel otel.Otel) Handler {
	return Handler{
		hub:       hub,
		otel:      otel,
		keepalive: keepaliveInterval,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/events", handler.Stream)
}

// Stream pushes domain events to the connected staff member.
// @Summary Live event stream
// @Description Server-sent events filtered by the caller's role. Browsers may pass the access token as ?token=.
// @Tags Events
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Failure 401 {object} response.Error
// @Router /v1/events [get]
// @Security BearerAuth
func (handler *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Stream")
	defer scope.End()

	flusher, ok := w.(http.Flusher)
	if !ok {
		err := failure.InternalError(errors.New("streaming unsupported"))
		scope.TraceError(err)
		log.Error().Err(err).Msg("response writer cannot flush")

		response.WithError(w, err)

		return
	}

	actor := gModel.ActorFromContext(ctx)
	sub := handler.hub.Subscribe(actor.Role)
	defer handler.hub.Unsubscribe(sub.ID)

	w.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeEventStream)
	w.Header().Set(constant.RequestHeaderCacheControl, "no-cache")
	w.Header().Set(constant.RequestHeaderConnection, "keep-alive")
	w.Header().Set(constant.RequestHeaderAccelBuffering, "no")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "retry: %d\n\n", retryMillis)

	connected := model.Envelope{
		Event:     model.EventStreamConnected,
		Data:      map[string]any{"subscriber_id": sub.ID, "groups": sub.Groups},
		Actor:     actor,
		Timestamp: timezone.Now(),
	}
	if err := writeEvent(w, connected); err != nil {
		log.Error().Err(err).Str("subscriber_id", sub.ID).Msg("failed to write connected event")

		return
	}

	flusher.Flush()

	ticker := time.NewTicker(handler.keepalive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("subscriber_id", sub.ID).Msg("event stream client disconnected")

			return
		case <-ticker.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case envelope, open := <-sub.Events:
			if !open {
				return
			}

			if err := writeEvent(w, envelope); err != nil {
				scope.TraceError(err)
				log.Error().Err(err).Str("subscriber_id", sub.ID).Str("event", envelope.Event).Msg("failed to write event")

				return
			}

			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, envelope model.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", envelope.Event, payload); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}
