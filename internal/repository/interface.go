package repository

import (
	"context"
	"errors"

	"github.com/ncamp16-final-team1/IMJM-sub000/internal/domain"
)

var (
	ErrRoomNotFound  = errors.New("chat room not found")
	ErrCacheMiss     = errors.New("translation cache miss")
	ErrUserNotFound  = errors.New("user not found")
	ErrSalonNotFound = errors.New("salon not found")
)

// RoomRepository owns the (user, salon) -> room mapping.
type RoomRepository interface {
	// Create inserts a new room. When another caller created the same
	// (user, salon) room concurrently, the existing row is returned instead
	// of an error.
	Create(ctx context.Context, room *domain.ChatRoom) (*domain.ChatRoom, error)

	GetByID(ctx context.Context, id string) (*domain.ChatRoom, error)
	GetByParticipants(ctx context.Context, userID, salonID string) (*domain.ChatRoom, error)
	ListForUser(ctx context.Context, userID string) ([]domain.ChatRoom, error)
	ListForSalon(ctx context.Context, salonID string) ([]domain.ChatRoom, error)
}

// MessageRepository is the append-only message log with read tracking.
type MessageRepository interface {
	// Append persists the message, its photos and the room's last-message
	// timestamp as one atomic unit. Photo rows are created in slice order.
	Append(ctx context.Context, msg *domain.ChatMessage, photoURLs []string) ([]domain.ChatPhoto, error)

	// ListByRoom returns all messages of a room ordered by sent_at ascending.
	ListByRoom(ctx context.Context, roomID string) ([]domain.ChatMessage, error)

	// PhotosByMessageIDs batch-loads photos for the given messages, keyed by
	// message id, ordered by uploaded_at within each message.
	PhotosByMessageIDs(ctx context.Context, messageIDs []string) (map[string][]domain.ChatPhoto, error)

	// MarkRead bulk-sets is_read on all unread messages in the room sent by
	// the opposite side of readerType. Idempotent.
	MarkRead(ctx context.Context, roomID string, readerType domain.SenderType) error

	// CountUnread counts unread messages sent by the opposite side of
	// viewerType.
	CountUnread(ctx context.Context, roomID string, viewerType domain.SenderType) (int64, error)

	// LatestByRoom returns the newest message of a room, or nil when the
	// room has no messages yet.
	LatestByRoom(ctx context.Context, roomID string) (*domain.ChatMessage, error)
}

// CacheEntry is a translation cache lookup result.
type CacheEntry struct {
	TranslatedText string
	UseCount       int64
}

// TranslationCacheRepository is the persistent translation cache keyed by
// (source hash, source lang, target lang).
type TranslationCacheRepository interface {
	// Lookup returns the cached translation for the key. A hit increments
	// use_count and refreshes last_used_at. Misses return ErrCacheMiss.
	Lookup(ctx context.Context, sourceHash, sourceLang, targetLang string) (*CacheEntry, error)

	// Store writes a translation through to the cache. Losing a concurrent
	// insert race for the same key is not an error.
	Store(ctx context.Context, sourceHash, sourceLang, targetLang, sourceText, translatedText string) error
}

// UserDirectory resolves user participants.
type UserDirectory interface {
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
}

// SalonDirectory resolves salon participants.
type SalonDirectory interface {
	FindSalonByID(ctx context.Context, id string) (*domain.Salon, error)
}
