package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/pubsub"
)

type fakePublisher struct {
	channels []string
	events   []*pubsub.Event
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, channel string, event *pubsub.Event) error {
	if f.err != nil {
		return f.err
	}
	f.channels = append(f.channels, channel)
	f.events = append(f.events, event)
	return nil
}

type ackRecorder struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *ackRecorder) Ack(uint64, bool) error {
	a.acked = true
	return nil
}

func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *ackRecorder) Reject(uint64, bool) error { return nil }

func eventBody(t *testing.T, roomID string) []byte {
	t.Helper()
	event, err := pubsub.NewEvent(pubsub.EventMessageCreated, roomID, map[string]string{"body": "안녕하세요"})
	require.NoError(t, err)
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return data
}

func TestBridgeForwardsToParticipantChannel(t *testing.T) {
	pub := &fakePublisher{}
	b := &Bridge{pub: pub}
	ack := &ackRecorder{}

	b.handle(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		RoutingKey:   "chat.participant.user.user-1",
		Body:         eventBody(t, "room-1"),
	})

	require.Len(t, pub.channels, 1)
	assert.Equal(t, "chat:user:user-1", pub.channels[0])
	assert.Equal(t, "room-1", pub.events[0].RoomID)
	assert.True(t, ack.acked)

	b.handle(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		RoutingKey:   "chat.participant.salon.salon-1",
		Body:         eventBody(t, "room-1"),
	})
	assert.Equal(t, "chat:salon:salon-1", pub.channels[1])
}

func TestBridgeAcksUnknownRoutingKey(t *testing.T) {
	pub := &fakePublisher{}
	b := &Bridge{pub: pub}
	ack := &ackRecorder{}

	b.handle(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		RoutingKey:   "chat.participant.admin.x",
		Body:         eventBody(t, "room-1"),
	})

	assert.Empty(t, pub.channels)
	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
}

func TestBridgeAcksMalformedBody(t *testing.T) {
	pub := &fakePublisher{}
	b := &Bridge{pub: pub}
	ack := &ackRecorder{}

	b.handle(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		RoutingKey:   "chat.participant.user.user-1",
		Body:         []byte("{not json"),
	})

	assert.Empty(t, pub.channels)
	assert.True(t, ack.acked)
}

func TestBridgeRequeuesOnForwardFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("redis down")}
	b := &Bridge{pub: pub}
	ack := &ackRecorder{}

	b.handle(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		RoutingKey:   "chat.participant.user.user-1",
		Body:         eventBody(t, "room-1"),
	})

	assert.False(t, ack.acked)
	assert.True(t, ack.nacked)
	assert.True(t, ack.requeue)
}
