package domain

import "time"

// SenderType identifies which side of a room authored a message.
type SenderType string

const (
	SenderUser  SenderType = "USER"
	SenderSalon SenderType = "SALON"
)

// Valid reports whether the sender type is one of the known values.
func (s SenderType) Valid() bool {
	return s == SenderUser || s == SenderSalon
}

// Opposite returns the other side of the room.
func (s SenderType) Opposite() SenderType {
	if s == SenderUser {
		return SenderSalon
	}
	return SenderUser
}

// TranslationStatus tracks the outcome of the translation attempt for a
// message. NONE and FAILED are terminal; a message is never re-translated.
type TranslationStatus string

const (
	TranslationNone      TranslationStatus = "NONE"
	TranslationCompleted TranslationStatus = "COMPLETED"
	TranslationFailed    TranslationStatus = "FAILED"
)

// ChatRoom is a conversation between exactly one user and one salon.
// At most one room exists per (user, salon) pair; it is created lazily on
// first contact and mutated only to bump LastMessageTime.
type ChatRoom struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	SalonID         string    `json:"salon_id"`
	CreatedAt       time.Time `json:"created_at"`
	LastMessageTime time.Time `json:"last_message_time"`
}

// ChatMessage is one entry in a room's append-only message log.
type ChatMessage struct {
	ID                string            `json:"id"`
	ChatRoomID        string            `json:"chat_room_id"`
	SenderType        SenderType        `json:"sender_type"`
	Body              string            `json:"body"`
	IsRead            bool              `json:"is_read"`
	SentAt            time.Time         `json:"sent_at"`
	TranslatedBody    *string           `json:"translated_body"`
	TranslationStatus TranslationStatus `json:"translation_status"`
}

// ChatPhoto is an attachment of a chat message.
type ChatPhoto struct {
	ID            string    `json:"id"`
	ChatMessageID string    `json:"chat_message_id"`
	PhotoURL      string    `json:"photo_url"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

// ChatMessageResponse is the delivery representation of a message. SenderID
// is resolved from room membership, never from caller input.
type ChatMessageResponse struct {
	ID                string            `json:"id"`
	ChatRoomID        string            `json:"chat_room_id"`
	SenderType        SenderType        `json:"sender_type"`
	SenderID          string            `json:"sender_id"`
	Body              string            `json:"body"`
	SentAt            time.Time         `json:"sent_at"`
	TranslatedBody    *string           `json:"translated_body"`
	TranslationStatus TranslationStatus `json:"translation_status"`
	Photos            []ChatPhoto       `json:"photos"`
}

// RoomSummary is a room list entry with conversation context.
type RoomSummary struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	SalonID         string    `json:"salon_id"`
	CreatedAt       time.Time `json:"created_at"`
	LastMessageTime time.Time `json:"last_message_time"`
	LastMessage     string    `json:"last_message"`
	UnreadCount     int64     `json:"unread_count"`
}

// SendMessageRequest carries a message submission.
type SendMessageRequest struct {
	SenderType SenderType `json:"sender_type" binding:"required"`
	Body       string     `json:"body"`
	PhotoURLs  []string   `json:"photo_urls"`
}

// TranslateRequest carries a diagnostic translation call. SourceLang may be
// empty, in which case the language is detected from the text.
type TranslateRequest struct {
	Text       string `json:"text" binding:"required"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang" binding:"required"`
}
