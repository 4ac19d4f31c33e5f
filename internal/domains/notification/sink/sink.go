package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"restopos/infras/kafka"
	"restopos/infras/nats"
	"restopos/internal/domains/notification/model"
	"strings"
)

// Kafka writes every envelope to one topic keyed by event name.
type Kafka struct {
	client kafka.Client
	topic  string
}

func NewKafka(client kafka.Client, topic string) *Kafka {
	return &Kafka{client: client, topic: topic}
}

func (k *Kafka) Name() string {
	return "kafka"
}

func (k *Kafka) Send(ctx context.Context, envelope model.Envelope) error {
	return k.client.SendMessages(ctx, k.topic, kafka.Message{ //nolint:wrapcheck
		Key:   envelope.Event,
		Value: envelope,
	})
}

// NATS publishes each envelope on <prefix>.<entity>.<action>, e.g. restopos.events.order.created.
type NATS struct {
	publisher nats.Publisher
	prefix    string
}

func NewNATS(publisher nats.Publisher, prefix string) *NATS {
	return &NATS{publisher: publisher, prefix: prefix}
}

func (n *NATS) Name() string {
	return "nats"
}

func (n *NATS) Send(ctx context.Context, envelope model.Envelope) error {
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	return n.publisher.Publish(ctx, Subject(n.prefix, envelope.Event), data) //nolint:wrapcheck
}

// Subject maps an event name such as "inventory:low_stock_alert" onto a NATS subject.
func Subject(prefix, event string) string {
	return prefix + "." + strings.ReplaceAll(event, ":", ".")
}
