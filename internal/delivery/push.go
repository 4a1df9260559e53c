package delivery

import (
	"context"
	"fmt"

	"github.com/ncamp16-final-team1/IMJM-sub000/internal/domain"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/pubsub"
)

// PushFanout delivers messages over the redis event bus to the participants'
// channels. Every chatd instance's hub subscribes to the chat channel pattern
// and forwards events to its connected WebSocket clients, so a message
// reaches a participant regardless of which instance holds the connection.
//
// No durability: a disconnected participant misses the push and recovers by
// re-fetching room history on reconnect.
type PushFanout struct {
	pub pubsub.Publisher
}

// NewPushFanout creates the direct-push strategy on the given event bus.
func NewPushFanout(pub pubsub.Publisher) *PushFanout {
	return &PushFanout{pub: pub}
}

// Deliver publishes the message event to both participant channels.
func (f *PushFanout) Deliver(ctx context.Context, room *domain.ChatRoom, msg *domain.ChatMessageResponse) error {
	event, err := pubsub.NewEvent(pubsub.EventMessageCreated, room.ID, msg)
	if err != nil {
		return fmt.Errorf("failed to build delivery event: %w", err)
	}

	if err := f.pub.Publish(ctx, pubsub.UserChannel(room.UserID), event); err != nil {
		return fmt.Errorf("failed to publish to user channel: %w", err)
	}
	if err := f.pub.Publish(ctx, pubsub.SalonChannel(room.SalonID), event); err != nil {
		return fmt.Errorf("failed to publish to salon channel: %w", err)
	}
	return nil
}

// EnsureParticipants is a no-op; push channels need no provisioning.
func (f *PushFanout) EnsureParticipants(context.Context, *domain.ChatRoom) error {
	return nil
}

// Close is a no-op; the event bus is owned by the caller.
func (f *PushFanout) Close() error {
	return nil
}
