package hub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/log"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/pubsub"
)

// Forwarder subscribes to the chat channel pattern on the event bus and
// forwards events to this instance's connected WebSocket clients. Together
// with the bus it makes push delivery work across chatd instances: the
// publisher does not know where a participant is connected.
type Forwarder struct {
	hub *Hub
	sub pubsub.Subscriber
}

// NewForwarder creates a forwarder feeding the given hub.
func NewForwarder(h *Hub, sub pubsub.Subscriber) *Forwarder {
	return &Forwarder{hub: h, sub: sub}
}

// Run forwards events until the context is cancelled.
func (f *Forwarder) Run(ctx context.Context) error {
	events, err := f.sub.SubscribePattern(ctx, pubsub.PatternAllChat)
	if err != nil {
		return fmt.Errorf("failed to subscribe to chat channels: %w", err)
	}

	log.L().Info().Str("pattern", pubsub.PatternAllChat).Msg("hub forwarder started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return fmt.Errorf("event bus subscription closed")
			}

			side, id, ok := pubsub.ParseChannel(event.Channel)
			if !ok {
				log.L().Warn().Str("channel", event.Channel).Msg("unexpected chat channel, skipping")
				continue
			}

			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			f.hub.SendRawToParticipant(side+":"+id, data)
		}
	}
}
