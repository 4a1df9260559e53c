package delivery

import (
	"context"

	"github.com/ncamp16-final-team1/IMJM-sub000/internal/domain"
)

// Strategy names accepted by the delivery.strategy config key.
const (
	StrategyPush  = "push"
	StrategyQueue = "queue"
)

// Fanout delivers a persisted message to both participants of a room.
// Exactly one strategy is active per deployment; delivery is best-effort and
// never affects the already-durable message.
type Fanout interface {
	// Deliver fans the message out to the room's user and salon addresses.
	Deliver(ctx context.Context, room *domain.ChatRoom, msg *domain.ChatMessageResponse) error

	// EnsureParticipants provisions transport resources for both
	// participants of the room. Idempotent; called on room creation.
	EnsureParticipants(ctx context.Context, room *domain.ChatRoom) error

	Close() error
}
