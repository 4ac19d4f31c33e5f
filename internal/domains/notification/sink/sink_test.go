package sink_test

import (
	"context"
	"encoding/json"
	"errors"
	"restopos/infras/kafka"
	kafkaMocks "restopos/infras/kafka/mocks"
	natsMocks "restopos/infras/nats/mocks"
	"restopos/internal/domains/notification/model"
	"restopos/internal/domains/notification/sink"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestKafka_Send(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)

	envelope := model.Envelope{Event: model.EventOrderCreated, Data: map[string]string{"id": "o-1"}}

	client.EXPECT().
		SendMessages(gomock.Any(), "restopos.events", kafka.Message{Key: model.EventOrderCreated, Value: envelope}).
		Return(nil)

	s := sink.NewKafka(client, "restopos.events")

	assert.Equal(t, "kafka", s.Name())
	assert.NoError(t, s.Send(context.Background(), envelope))
}

func TestNATS_Send(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := natsMocks.NewMockPublisher(ctrl)

	envelope := model.Envelope{Event: model.EventInventoryLowStock, Audiences: []string{model.AudienceManager}}

	publisher.EXPECT().
		Publish(gomock.Any(), "restopos.events.inventory.low_stock_alert", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte) error {
			var decoded model.Envelope
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, model.EventInventoryLowStock, decoded.Event)

			return nil
		})

	publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("nats: connection closed"))

	s := sink.NewNATS(publisher, "restopos.events")

	assert.NoError(t, s.Send(context.Background(), envelope))
	assert.Error(t, s.Send(context.Background(), envelope))
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "pos.order.status_updated", sink.Subject("pos", model.EventOrderStatusUpdated))
}
