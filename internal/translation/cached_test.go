package translation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncamp16-final-team1/IMJM-sub000/internal/repository"
)

type fakeCache struct {
	entries   map[string]string
	lookupErr error
	storeErr  error
	stored    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]string{}}
}

func cacheKey(hash, src, dst string) string { return hash + "|" + src + "|" + dst }

func (f *fakeCache) Lookup(_ context.Context, hash, src, dst string) (*repository.CacheEntry, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if text, ok := f.entries[cacheKey(hash, src, dst)]; ok {
		return &repository.CacheEntry{TranslatedText: text, UseCount: 1}, nil
	}
	return nil, repository.ErrCacheMiss
}

func (f *fakeCache) Store(_ context.Context, hash, src, dst, _, translated string) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.entries[cacheKey(hash, src, dst)] = translated
	f.stored++
	return nil
}

type stubTranslator struct {
	result string
	err    error
	calls  int
}

func (s *stubTranslator) Translate(_ context.Context, _, _, _ string) (string, error) {
	s.calls++
	return s.result, s.err
}

func TestCachedTranslatorHitSkipsDownstream(t *testing.T) {
	cache := newFakeCache()
	cache.entries[cacheKey(HashText("안녕하세요"), "ko", "en")] = "Hello"
	next := &stubTranslator{result: "should not be used"}

	tr := NewCachedTranslator(cache, next)
	result, err := tr.Translate(context.Background(), "안녕하세요", "ko", "en")
	require.NoError(t, err)
	assert.Equal(t, "Hello", result)
	assert.Zero(t, next.calls)
}

func TestCachedTranslatorMissWritesThrough(t *testing.T) {
	cache := newFakeCache()
	next := &stubTranslator{result: "Hello"}

	tr := NewCachedTranslator(cache, next)
	result, err := tr.Translate(context.Background(), "안녕하세요", "ko", "en")
	require.NoError(t, err)
	assert.Equal(t, "Hello", result)
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, 1, cache.stored)

	// Second call hits the cache.
	result, err = tr.Translate(context.Background(), "안녕하세요", "ko", "en")
	require.NoError(t, err)
	assert.Equal(t, "Hello", result)
	assert.Equal(t, 1, next.calls)
}

func TestCachedTranslatorLanguagePairIsPartOfKey(t *testing.T) {
	cache := newFakeCache()
	cache.entries[cacheKey(HashText("안녕하세요"), "ko", "en")] = "Hello"
	next := &stubTranslator{result: "Bonjour"}

	tr := NewCachedTranslator(cache, next)
	result, err := tr.Translate(context.Background(), "안녕하세요", "ko", "fr")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", result)
	assert.Equal(t, 1, next.calls)
}

func TestCachedTranslatorLookupErrorDegrades(t *testing.T) {
	cache := newFakeCache()
	cache.lookupErr = errors.New("connection refused")
	next := &stubTranslator{result: "Hello"}

	tr := NewCachedTranslator(cache, next)
	result, err := tr.Translate(context.Background(), "안녕하세요", "ko", "en")
	require.NoError(t, err)
	assert.Equal(t, "Hello", result)
}

func TestCachedTranslatorStoreErrorDoesNotFailTranslation(t *testing.T) {
	cache := newFakeCache()
	cache.storeErr = errors.New("connection refused")
	next := &stubTranslator{result: "Hello"}

	tr := NewCachedTranslator(cache, next)
	result, err := tr.Translate(context.Background(), "안녕하세요", "ko", "en")
	require.NoError(t, err)
	assert.Equal(t, "Hello", result)
}

func TestCachedTranslatorPropagatesTranslatorError(t *testing.T) {
	cache := newFakeCache()
	next := &stubTranslator{err: newError("안녕", "ko", "en", errors.New("boom"))}

	tr := NewCachedTranslator(cache, next)
	_, err := tr.Translate(context.Background(), "안녕", "ko", "en")
	require.Error(t, err)
	assert.Zero(t, cache.stored)
}
