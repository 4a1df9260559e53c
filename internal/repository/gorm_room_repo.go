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

// GormRoomRepository implements RoomRepository using GORM.
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GORM-based room repository.
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// Create inserts a new room. The unique index on (user_id, salon_id) is the
// arbiter under concurrent first contact: a duplicate-key failure means the
// other caller won, so the existing row is re-read and returned.
func (r *GormRoomRepository) Create(ctx context.Context, room *domain.ChatRoom) (*domain.ChatRoom, error) {
	l := log.Ctx(ctx)

	room.ID = uuid.New().String()
	now := time.Now()
	room.CreatedAt = now
	room.LastMessageTime = now

	model := domain.ChatRoomToModel(room)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			l.Debug().
				Str(log.FieldUserID, room.UserID).
				Str(log.FieldSalonID, room.SalonID).
				Msg("room created concurrently, returning existing row")
			return r.GetByParticipants(ctx, room.UserID, room.SalonID)
		}
		l.Error().Err(err).Msg("failed to create chat room in db")
		return nil, err
	}

	l.Debug().Str(log.FieldRoomID, room.ID).Msg("chat room created in db")
	return model.ToDomain(), nil
}

// GetByID retrieves a room by ID.
func (r *GormRoomRepository) GetByID(ctx context.Context, id string) (*domain.ChatRoom, error) {
	var model domain.ChatRoomModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		log.Ctx(ctx).Error().Err(result.Error).Str(log.FieldRoomID, id).Msg("failed to get room by id")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// GetByParticipants retrieves the room for a (user, salon) pair.
func (r *GormRoomRepository) GetByParticipants(ctx context.Context, userID, salonID string) (*domain.ChatRoom, error) {
	var model domain.ChatRoomModel
	result := r.db.WithContext(ctx).
		First(&model, "user_id = ? AND salon_id = ?", userID, salonID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		log.Ctx(ctx).Error().Err(result.Error).
			Str(log.FieldUserID, userID).
			Str(log.FieldSalonID, salonID).
			Msg("failed to get room by participants")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// ListForUser retrieves a user's rooms, most recent conversation first.
func (r *GormRoomRepository) ListForUser(ctx context.Context, userID string) ([]domain.ChatRoom, error) {
	return r.list(ctx, "user_id = ?", userID)
}

// ListForSalon retrieves a salon's rooms, most recent conversation first.
func (r *GormRoomRepository) ListForSalon(ctx context.Context, salonID string) ([]domain.ChatRoom, error) {
	return r.list(ctx, "salon_id = ?", salonID)
}

func (r *GormRoomRepository) list(ctx context.Context, query string, arg string) ([]domain.ChatRoom, error) {
	var models []domain.ChatRoomModel
	result := r.db.WithContext(ctx).
		Where(query, arg).
		Order("last_message_time DESC").
		Find(&models)
	if result.Error != nil {
		log.Ctx(ctx).Error().Err(result.Error).Msg("failed to list rooms from db")
		return nil, result.Error
	}

	rooms := make([]domain.ChatRoom, len(models))
	for i, model := range models {
		rooms[i] = *model.ToDomain()
	}
	return rooms, nil
}
