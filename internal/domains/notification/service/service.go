package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"restopos/infras/otel"
	"restopos/internal/domains/notification/model"
	"restopos/shared/constant"
	gModel "restopos/shared/model"
	"restopos/shared/timezone"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const sendTimeout = 5 * time.Second

// Broadcaster pushes state changes to connected clients and downstream brokers.
// Publish never fails the caller; delivery errors are logged.
type Broadcaster interface {
	Publish(ctx context.Context, event string, data any, audiences ...string)
}

// Sink is one delivery channel for envelopes.
type Sink interface {
	Name() string
	Send(ctx context.Context, envelope model.Envelope) error
}

// QueueSize bounds the envelopes waiting for one sink. Publishing to a full queue drops
// the envelope for that sink only.
const QueueSize = 256

type delivery struct {
	ctx      context.Context
	envelope model.Envelope
}

// worker delivers to one sink in publish order.
type worker struct {
	sink  Sink
	queue chan delivery
}

func (w *worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for d := range w.queue {
		c, cancel := context.WithTimeout(d.ctx, sendTimeout)

		if err := w.sink.Send(c, d.envelope); err != nil {
			log.Error().Err(err).Str("sink", w.sink.Name()).Str("event", d.envelope.Event).Msg("failed to deliver event")
		}

		cancel()
	}
}

// Dispatcher fans envelopes out to its sinks, one ordered queue per sink.
type Dispatcher struct {
	workers []*worker
	otel    otel.Otel

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func New(otel otel.Otel, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{otel: otel}

	for _, sink := range sinks {
		if sink == nil {
			continue
		}

		w := &worker{sink: sink, queue: make(chan delivery, QueueSize)}
		d.workers = append(d.workers, w)

		d.wg.Add(1)

		go w.run(&d.wg)
	}

	return d
}

func (d *Dispatcher) Publish(ctx context.Context, event string, data any, audiences ...string) {
	ctx, scope := d.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
	defer scope.End()

	scope.SetAttribute("event", event)

	item := delivery{
		ctx: context.WithoutCancel(ctx),
		envelope: model.Envelope{
			Event:     event,
			Data:      data,
			Actor:     gModel.ActorFromContext(ctx),
			Timestamp: timezone.Now(),
			Audiences: audiences,
		},
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		log.Warn().Str("event", event).Msg("broadcaster closed, event dropped")

		return
	}

	for _, w := range d.workers {
		select {
		case w.queue <- item:
		default:
			scope.AddEvent("dropped for " + w.sink.Name())
			log.Warn().Str("sink", w.sink.Name()).Str("event", event).Msg("event queue full, event dropped")
		}
	}
}

// Close stops accepting events and waits for the queued ones to be delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()

	if d.closed {
		d.mu.Unlock()

		return
	}

	d.closed = true

	for _, w := range d.workers {
		close(w.queue)
	}

	d.mu.Unlock()

	d.wg.Wait()
}
