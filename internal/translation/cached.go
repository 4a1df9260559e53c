package translation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/ncamp16-final-team1/IMJM-sub000/internal/metrics"
	"github.com/ncamp16-final-team1/IMJM-sub000/internal/repository"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/log"
)

// CachedTranslator consults the persistent translation cache before the
// downstream translator and writes results through on miss. Cache failures
// degrade to a direct call; they never fail the translation.
type CachedTranslator struct {
	cache repository.TranslationCacheRepository
	next  Translator
}

// NewCachedTranslator wraps next with the cache.
func NewCachedTranslator(cache repository.TranslationCacheRepository, next Translator) *CachedTranslator {
	return &CachedTranslator{cache: cache, next: next}
}

// Translate looks up (hash, sourceLang, targetLang) first and falls back to
// the downstream translator on miss.
func (t *CachedTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	hash := HashText(text)

	entry, err := t.cache.Lookup(ctx, hash, sourceLang, targetLang)
	if err == nil {
		metrics.TranslationCacheHits.Inc()
		return entry.TranslatedText, nil
	}
	if !errors.Is(err, repository.ErrCacheMiss) {
		log.Ctx(ctx).Warn().Err(err).Msg("translation cache lookup failed, calling translator directly")
	}
	metrics.TranslationCacheMisses.Inc()

	translated, err := t.next.Translate(ctx, text, sourceLang, targetLang)
	if err != nil {
		return "", err
	}

	if err := t.cache.Store(ctx, hash, sourceLang, targetLang, text, translated); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("translation cache write-through failed")
	}
	return translated, nil
}

// HashText returns the cache key hash of the source text.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
