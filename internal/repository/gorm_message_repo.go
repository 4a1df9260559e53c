package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ncamp16-final-team1/IMJM-sub000/internal/domain"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/log"
)

// GormMessageRepository implements MessageRepository using GORM.
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GORM-based message repository.
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Append persists the message, its photo rows and the room's last-message
// timestamp in one transaction. The sent_at timestamp is assigned here, at
// persistence time, and is the sole ordering key within a room.
func (r *GormMessageRepository) Append(ctx context.Context, msg *domain.ChatMessage, photoURLs []string) ([]domain.ChatPhoto, error) {
	l := log.Ctx(ctx)

	msg.ID = uuid.New().String()
	msg.SentAt = time.Now()

	photoModels := make([]domain.ChatPhotoModel, len(photoURLs))
	for i, url := range photoURLs {
		photoModels[i] = domain.ChatPhotoModel{
			ID:            uuid.New().String(),
			ChatMessageID: msg.ID,
			PhotoURL:      url,
			UploadedAt:    msg.SentAt,
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(domain.ChatMessageToModel(msg)).Error; err != nil {
			return err
		}
		if len(photoModels) > 0 {
			if err := tx.Create(&photoModels).Error; err != nil {
				return err
			}
		}
		return tx.Model(&domain.ChatRoomModel{}).
			Where("id = ?", msg.ChatRoomID).
			Update("last_message_time", msg.SentAt).Error
	})
	if err != nil {
		l.Error().Err(err).Str(log.FieldRoomID, msg.ChatRoomID).Msg("failed to append chat message")
		return nil, err
	}

	photos := make([]domain.ChatPhoto, len(photoModels))
	for i := range photoModels {
		photos[i] = *photoModels[i].ToDomain()
	}

	l.Debug().
		Str(log.FieldMessageID, msg.ID).
		Str(log.FieldRoomID, msg.ChatRoomID).
		Int("photo_count", len(photos)).
		Msg("chat message appended")
	return photos, nil
}

// ListByRoom returns all messages of a room ordered by sent_at ascending.
func (r *GormMessageRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.ChatMessage, error) {
	var models []domain.ChatMessageModel
	result := r.db.WithContext(ctx).
		Where("chat_room_id = ?", roomID).
		Order("sent_at ASC").
		Find(&models)
	if result.Error != nil {
		log.Ctx(ctx).Error().Err(result.Error).Str(log.FieldRoomID, roomID).Msg("failed to list messages")
		return nil, result.Error
	}

	messages := make([]domain.ChatMessage, len(models))
	for i, model := range models {
		messages[i] = *model.ToDomain()
	}
	return messages, nil
}

// PhotosByMessageIDs batch-loads all photos of the given messages in a single
// query, keyed by message id.
func (r *GormMessageRepository) PhotosByMessageIDs(ctx context.Context, messageIDs []string) (map[string][]domain.ChatPhoto, error) {
	photos := make(map[string][]domain.ChatPhoto, len(messageIDs))
	if len(messageIDs) == 0 {
		return photos, nil
	}

	var models []domain.ChatPhotoModel
	result := r.db.WithContext(ctx).
		Where("chat_message_id IN ?", messageIDs).
		Order("uploaded_at ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		log.Ctx(ctx).Error().Err(result.Error).Msg("failed to batch-load chat photos")
		return nil, result.Error
	}

	for i := range models {
		p := models[i].ToDomain()
		photos[p.ChatMessageID] = append(photos[p.ChatMessageID], *p)
	}
	return photos, nil
}

// MarkRead bulk-sets is_read on unread messages sent by the opposite side.
// A second call matches no rows and is a no-op.
func (r *GormMessageRepository) MarkRead(ctx context.Context, roomID string, readerType domain.SenderType) error {
	result := r.db.WithContext(ctx).Model(&domain.ChatMessageModel{}).
		Where("chat_room_id = ? AND sender_type = ? AND is_read = ?",
			roomID, string(readerType.Opposite()), false).
		Update("is_read", true)
	if result.Error != nil {
		log.Ctx(ctx).Error().Err(result.Error).Str(log.FieldRoomID, roomID).Msg("failed to mark messages read")
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Ctx(ctx).Debug().
			Str(log.FieldRoomID, roomID).
			Int64("count", result.RowsAffected).
			Msg("messages marked read")
	}
	return nil
}

// CountUnread counts unread messages sent by the opposite side of viewerType.
func (r *GormMessageRepository) CountUnread(ctx context.Context, roomID string, viewerType domain.SenderType) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&domain.ChatMessageModel{}).
		Where("chat_room_id = ? AND sender_type = ? AND is_read = ?",
			roomID, string(viewerType.Opposite()), false).
		Count(&count)
	if result.Error != nil {
		log.Ctx(ctx).Error().Err(result.Error).Str(log.FieldRoomID, roomID).Msg("failed to count unread messages")
		return 0, result.Error
	}
	return count, nil
}

// LatestByRoom returns the newest message of a room, nil if none exist.
func (r *GormMessageRepository) LatestByRoom(ctx context.Context, roomID string) (*domain.ChatMessage, error) {
	var model domain.ChatMessageModel
	result := r.db.WithContext(ctx).
		Where("chat_room_id = ?", roomID).
		Order("sent_at DESC").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Ctx(ctx).Error().Err(result.Error).Str(log.FieldRoomID, roomID).Msg("failed to load latest message")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}
