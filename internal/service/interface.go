package service

import (
	"context"

	"github.com/ncamp16-final-team1/IMJM-sub000/internal/domain"
)

// ChatService is the produced interface of the chat core.
type ChatService interface {
	// GetOrCreateRoom returns the room for a (user, salon) pair, creating it
	// on first contact. Safe under concurrent first contact from both sides.
	GetOrCreateRoom(ctx context.Context, userID, salonID string) (*domain.ChatRoom, error)

	// SendMessage persists a message with its translation outcome and photo
	// attachments, fans it out to both participants and emits a notification
	// to the non-sender.
	SendMessage(ctx context.Context, roomID string, req *domain.SendMessageRequest) (*domain.ChatMessageResponse, error)

	// ListMessages returns a room's full history ordered by sent time, each
	// message annotated with its photos.
	ListMessages(ctx context.Context, roomID string) ([]domain.ChatMessageResponse, error)

	// MarkRead marks all messages sent by the opposite side as read.
	MarkRead(ctx context.Context, roomID string, readerType domain.SenderType) error

	// CountUnread counts messages sent by the opposite side and not yet read.
	CountUnread(ctx context.Context, roomID string, viewerType domain.SenderType) (int64, error)

	ListRoomsForUser(ctx context.Context, userID string) ([]domain.RoomSummary, error)
	ListRoomsForSalon(ctx context.Context, salonID string) ([]domain.RoomSummary, error)

	// Translate is a diagnostic pass-through to the translation service.
	Translate(ctx context.Context, req *domain.TranslateRequest) (string, error)
}
