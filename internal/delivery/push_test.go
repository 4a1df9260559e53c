package delivery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncamp16-final-team1/IMJM-sub000/internal/domain"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/pubsub"
)

type fakeBusPublisher struct {
	channels []string
	events   []*pubsub.Event
	err      error
}

func (f *fakeBusPublisher) Publish(_ context.Context, channel string, event *pubsub.Event) error {
	if f.err != nil {
		return f.err
	}
	f.channels = append(f.channels, channel)
	f.events = append(f.events, event)
	return nil
}

func TestPushFanoutDeliversToBothChannels(t *testing.T) {
	pub := &fakeBusPublisher{}
	f := NewPushFanout(pub)

	msg := &domain.ChatMessageResponse{ID: "msg-1", ChatRoomID: "room-1", Body: "안녕하세요"}
	require.NoError(t, f.Deliver(context.Background(), testRoom(), msg))

	assert.Equal(t, []string{"chat:user:user-1", "chat:salon:salon-1"}, pub.channels)
	for _, event := range pub.events {
		assert.Equal(t, pubsub.EventMessageCreated, event.Type)
		assert.Equal(t, "room-1", event.RoomID)
	}
}

func TestPushFanoutPublishError(t *testing.T) {
	pub := &fakeBusPublisher{err: errors.New("redis down")}
	f := NewPushFanout(pub)

	err := f.Deliver(context.Background(), testRoom(), &domain.ChatMessageResponse{ID: "msg-1"})
	require.Error(t, err)
}

func TestPushFanoutEnsureParticipantsNoOp(t *testing.T) {
	f := NewPushFanout(&fakeBusPublisher{})
	assert.NoError(t, f.EnsureParticipants(context.Background(), testRoom()))
	assert.NoError(t, f.Close())
}
