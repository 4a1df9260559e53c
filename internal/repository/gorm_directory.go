package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ncamp16-final-team1/IMJM-sub000/internal/domain"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/log"
)

// GormDirectory resolves users and salons from the platform tables. The chat
// core only reads; account lifecycle belongs to the booking platform.
type GormDirectory struct {
	db *gorm.DB
}

// NewGormDirectory creates a new GORM-backed participant directory.
func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

// FindUserByID resolves a user participant.
func (d *GormDirectory) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	var model domain.UserModel
	result := d.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		log.Ctx(ctx).Error().Err(result.Error).Str(log.FieldUserID, id).Msg("failed to find user")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// FindSalonByID resolves a salon participant.
func (d *GormDirectory) FindSalonByID(ctx context.Context, id string) (*domain.Salon, error) {
	var model domain.SalonModel
	result := d.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSalonNotFound
		}
		log.Ctx(ctx).Error().Err(result.Error).Str(log.FieldSalonID, id).Msg("failed to find salon")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}
