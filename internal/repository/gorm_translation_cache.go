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

// GormTranslationCache implements TranslationCacheRepository using GORM.
type GormTranslationCache struct {
	db *gorm.DB
}

// NewGormTranslationCache creates a new GORM-based translation cache.
func NewGormTranslationCache(db *gorm.DB) *GormTranslationCache {
	return &GormTranslationCache{db: db}
}

// Lookup returns the cached translation for (sourceHash, sourceLang,
// targetLang). A hit increments use_count and refreshes last_used_at.
func (c *GormTranslationCache) Lookup(ctx context.Context, sourceHash, sourceLang, targetLang string) (*CacheEntry, error) {
	var model domain.TranslationCacheModel
	result := c.db.WithContext(ctx).
		First(&model, "source_hash = ? AND source_lang = ? AND target_lang = ?",
			sourceHash, sourceLang, targetLang)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCacheMiss
		}
		log.Ctx(ctx).Error().Err(result.Error).Msg("failed to look up translation cache")
		return nil, result.Error
	}

	// Usage bookkeeping is best-effort; a failed update must not turn a
	// cache hit into a miss.
	err := c.db.WithContext(ctx).Model(&domain.TranslationCacheModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"use_count":    gorm.Expr("use_count + 1"),
			"last_used_at": time.Now(),
		}).Error
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to update translation cache usage")
	}

	return &CacheEntry{
		TranslatedText: model.TranslatedText,
		UseCount:       model.UseCount + 1,
	}, nil
}

// Store writes a translation through to the cache. A duplicate-key failure
// means a concurrent caller already stored the same key; that is not an error.
func (c *GormTranslationCache) Store(ctx context.Context, sourceHash, sourceLang, targetLang, sourceText, translatedText string) error {
	model := domain.TranslationCacheModel{
		ID:             uuid.New().String(),
		SourceHash:     sourceHash,
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
		SourceText:     sourceText,
		TranslatedText: translatedText,
		LastUsedAt:     time.Now(),
	}

	if err := c.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to store translation cache entry")
		return err
	}
	return nil
}
