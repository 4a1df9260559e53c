package notification

import "context"

// Notification types understood by the platform's notification consumer.
const (
	TypeChat = "CHAT"

	// TitleNewMessage is the fixed title of chat notifications.
	TitleNewMessage = "새로운 메시지"
)

// Notification is one push/alert event for a participant.
type Notification struct {
	RecipientID string `json:"recipient_id"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Type        string `json:"type"`
	ReferenceID string `json:"reference_id"`
}

// Notifier emits notifications. Emission is fire-and-forget: failures are
// logged by implementations and never affect the chat transaction.
type Notifier interface {
	Notify(ctx context.Context, n *Notification) error
	Close() error
}
