package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncamp16-final-team1/IMJM-sub000/internal/domain"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/database"
)

func newTestDB(t *testing.T) *gormDB {
	t.Helper()
	db, err := database.New(&database.Config{
		Driver:   "sqlite",
		FilePath: filepath.Join(t.TempDir(), "chat_test.db") + "?_busy_timeout=5000",
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db,
		&domain.ChatRoomModel{},
		&domain.ChatMessageModel{},
		&domain.ChatPhotoModel{},
		&domain.TranslationCacheModel{},
		&domain.UserModel{},
		&domain.SalonModel{},
	))
	return &gormDB{
		rooms:    NewGormRoomRepository(db),
		messages: NewGormMessageRepository(db),
		cache:    NewGormTranslationCache(db),
		dir:      NewGormDirectory(db),
	}
}

type gormDB struct {
	rooms    *GormRoomRepository
	messages *GormMessageRepository
	cache    *GormTranslationCache
	dir      *GormDirectory
}

func mustCreateRoom(t *testing.T, db *gormDB, userID, salonID string) *domain.ChatRoom {
	t.Helper()
	room, err := db.rooms.Create(context.Background(), &domain.ChatRoom{UserID: userID, SalonID: salonID})
	require.NoError(t, err)
	return room
}

func mustAppend(t *testing.T, db *gormDB, roomID string, sender domain.SenderType, body string, photos ...string) *domain.ChatMessage {
	t.Helper()
	msg := &domain.ChatMessage{ChatRoomID: roomID, SenderType: sender, Body: body, TranslationStatus: domain.TranslationNone}
	_, err := db.messages.Append(context.Background(), msg, photos)
	require.NoError(t, err)
	return msg
}

func TestRoomCreateAssignsIDAndTimestamps(t *testing.T) {
	db := newTestDB(t)
	room := mustCreateRoom(t, db, "user-1", "salon-1")

	assert.NotEmpty(t, room.ID)
	assert.False(t, room.CreatedAt.IsZero())
	assert.Equal(t, room.CreatedAt, room.LastMessageTime)
}

func TestRoomCreateDuplicateReturnsExisting(t *testing.T) {
	db := newTestDB(t)
	first := mustCreateRoom(t, db, "user-1", "salon-1")

	// Losing the insert race surfaces as a duplicate key; the existing row
	// must come back instead of an error.
	second, err := db.rooms.Create(context.Background(), &domain.ChatRoom{UserID: "user-1", SalonID: "salon-1"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	rooms, err := db.rooms.ListForUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
}

func TestRoomCreateConcurrentFirstContact(t *testing.T) {
	db := newTestDB(t)

	type outcome struct {
		room *domain.ChatRoom
		err  error
	}

	start := make(chan struct{})
	results := make(chan outcome, 2)
	for i := 0; i < 2; i++ {
		go func() {
			<-start
			room, err := db.rooms.Create(context.Background(), &domain.ChatRoom{UserID: "user-1", SalonID: "salon-1"})
			results <- outcome{room: room, err: err}
		}()
	}
	close(start)

	var ids []string
	for i := 0; i < 2; i++ {
		out := <-results
		require.NoError(t, out.err)
		require.NotNil(t, out.room)
		ids = append(ids, out.room.ID)
	}

	// Both callers end up with the same room; the loser of the insert race
	// re-reads the winner's row.
	assert.Equal(t, ids[0], ids[1])
	rooms, err := db.rooms.ListForUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
}

func TestRoomSamePairDifferentDirectionIsDistinct(t *testing.T) {
	db := newTestDB(t)
	a := mustCreateRoom(t, db, "user-1", "salon-1")
	b := mustCreateRoom(t, db, "user-1", "salon-2")
	c := mustCreateRoom(t, db, "user-2", "salon-1")

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestRoomGetByParticipants(t *testing.T) {
	db := newTestDB(t)
	room := mustCreateRoom(t, db, "user-1", "salon-1")

	got, err := db.rooms.GetByParticipants(context.Background(), "user-1", "salon-1")
	require.NoError(t, err)
	assert.Equal(t, room.ID, got.ID)

	_, err = db.rooms.GetByParticipants(context.Background(), "user-1", "salon-9")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.rooms.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomListOrderedByLastMessage(t *testing.T) {
	db := newTestDB(t)
	older := mustCreateRoom(t, db, "user-1", "salon-1")
	newer := mustCreateRoom(t, db, "user-1", "salon-2")

	// A message in the older room bumps it above the newer one.
	time.Sleep(5 * time.Millisecond)
	mustAppend(t, db, older.ID, domain.SenderUser, "안녕하세요")

	rooms, err := db.rooms.ListForUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, older.ID, rooms[0].ID)
	assert.Equal(t, newer.ID, rooms[1].ID)
}

func TestAppendPersistsMessageAndBumpsRoom(t *testing.T) {
	db := newTestDB(t)
	room := mustCreateRoom(t, db, "user-1", "salon-1")

	time.Sleep(5 * time.Millisecond)
	msg := mustAppend(t, db, room.ID, domain.SenderUser, "내일 예약 가능한가요?")
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.SentAt.IsZero())

	got, err := db.rooms.GetByID(context.Background(), room.ID)
	require.NoError(t, err)
	assert.True(t, got.LastMessageTime.After(room.LastMessageTime))
}

func TestAppendWithPhotos(t *testing.T) {
	db := newTestDB(t)
	room := mustCreateRoom(t, db, "user-1", "salon-1")

	msg := &domain.ChatMessage{ChatRoomID: room.ID, SenderType: domain.SenderUser}
	photos, err := db.messages.Append(context.Background(), msg, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"})
	require.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Equal(t, "https://cdn.example.com/a.jpg", photos[0].PhotoURL)
	assert.Equal(t, msg.ID, photos[0].ChatMessageID)

	loaded, err := db.messages.PhotosByMessageIDs(context.Background(), []string{msg.ID})
	require.NoError(t, err)
	require.Len(t, loaded[msg.ID], 2)
	assert.Equal(t, "https://cdn.example.com/a.jpg", loaded[msg.ID][0].PhotoURL)
	assert.Equal(t, "https://cdn.example.com/b.jpg", loaded[msg.ID][1].PhotoURL)
}

func TestPhotosByMessageIDsEmptyInput(t *testing.T) {
	db := newTestDB(t)
	loaded, err := db.messages.PhotosByMessageIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestListByRoomOrdering(t *testing.T) {
	db := newTestDB(t)
	room := mustCreateRoom(t, db, "user-1", "salon-1")

	first := mustAppend(t, db, room.ID, domain.SenderUser, "첫번째")
	time.Sleep(5 * time.Millisecond)
	second := mustAppend(t, db, room.ID, domain.SenderSalon, "두번째")

	messages, err := db.messages.ListByRoom(context.Background(), room.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, first.ID, messages[0].ID)
	assert.Equal(t, second.ID, messages[1].ID)
}

func TestMarkReadOnlyOppositeSide(t *testing.T) {
	db := newTestDB(t)
	room := mustCreateRoom(t, db, "user-1", "salon-1")

	fromUser := mustAppend(t, db, room.ID, domain.SenderUser, "안녕하세요")
	fromSalon := mustAppend(t, db, room.ID, domain.SenderSalon, "안녕하세요 고객님")

	// The user reads the room: only the salon's message flips.
	require.NoError(t, db.messages.MarkRead(context.Background(), room.ID, domain.SenderUser))

	messages, err := db.messages.ListByRoom(context.Background(), room.ID)
	require.NoError(t, err)
	byID := map[string]domain.ChatMessage{}
	for _, m := range messages {
		byID[m.ID] = m
	}
	assert.False(t, byID[fromUser.ID].IsRead)
	assert.True(t, byID[fromSalon.ID].IsRead)

	// Idempotent.
	require.NoError(t, db.messages.MarkRead(context.Background(), room.ID, domain.SenderUser))
}

func TestCountUnread(t *testing.T) {
	db := newTestDB(t)
	room := mustCreateRoom(t, db, "user-1", "salon-1")

	mustAppend(t, db, room.ID, domain.SenderSalon, "하나")
	mustAppend(t, db, room.ID, domain.SenderSalon, "둘")
	mustAppend(t, db, room.ID, domain.SenderUser, "응답")

	userUnread, err := db.messages.CountUnread(context.Background(), room.ID, domain.SenderUser)
	require.NoError(t, err)
	assert.EqualValues(t, 2, userUnread)

	salonUnread, err := db.messages.CountUnread(context.Background(), room.ID, domain.SenderSalon)
	require.NoError(t, err)
	assert.EqualValues(t, 1, salonUnread)

	require.NoError(t, db.messages.MarkRead(context.Background(), room.ID, domain.SenderUser))
	userUnread, err = db.messages.CountUnread(context.Background(), room.ID, domain.SenderUser)
	require.NoError(t, err)
	assert.Zero(t, userUnread)
}

func TestLatestByRoom(t *testing.T) {
	db := newTestDB(t)
	room := mustCreateRoom(t, db, "user-1", "salon-1")

	latest, err := db.messages.LatestByRoom(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Nil(t, latest)

	mustAppend(t, db, room.ID, domain.SenderUser, "첫번째")
	time.Sleep(5 * time.Millisecond)
	second := mustAppend(t, db, room.ID, domain.SenderSalon, "두번째")

	latest, err = db.messages.LatestByRoom(context.Background(), room.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.ID, latest.ID)
}

func TestTranslationCacheMissThenHit(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.cache.Lookup(ctx, "hash-1", "ko", "en")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, db.cache.Store(ctx, "hash-1", "ko", "en", "안녕하세요", "Hello"))

	entry, err := db.cache.Lookup(ctx, "hash-1", "ko", "en")
	require.NoError(t, err)
	assert.Equal(t, "Hello", entry.TranslatedText)
	assert.EqualValues(t, 1, entry.UseCount)

	entry, err = db.cache.Lookup(ctx, "hash-1", "ko", "en")
	require.NoError(t, err)
	assert.EqualValues(t, 2, entry.UseCount)
}

func TestTranslationCacheKeyIncludesLanguagePair(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.cache.Store(ctx, "hash-1", "ko", "en", "안녕하세요", "Hello"))
	require.NoError(t, db.cache.Store(ctx, "hash-1", "ko", "fr", "안녕하세요", "Bonjour"))

	entry, err := db.cache.Lookup(ctx, "hash-1", "ko", "fr")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", entry.TranslatedText)

	_, err = db.cache.Lookup(ctx, "hash-1", "en", "ko")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestTranslationCacheDuplicateStoreIsNotError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.cache.Store(ctx, "hash-1", "ko", "en", "안녕하세요", "Hello"))
	require.NoError(t, db.cache.Store(ctx, "hash-1", "ko", "en", "안녕하세요", "Hello again"))

	// The first write wins.
	entry, err := db.cache.Lookup(ctx, "hash-1", "ko", "en")
	require.NoError(t, err)
	assert.Equal(t, "Hello", entry.TranslatedText)
}

func TestDirectoryLookups(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.dir.db.Create(&domain.UserModel{
		ID: "user-1", DisplayName: "Minji", Language: "en", NotificationEnabled: true,
	}).Error)
	require.NoError(t, db.dir.db.Create(&domain.SalonModel{ID: "salon-1", Name: "청담 헤어"}).Error)

	user, err := db.dir.FindUserByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "en", user.PreferredLanguage())

	salon, err := db.dir.FindSalonByID(ctx, "salon-1")
	require.NoError(t, err)
	assert.Equal(t, "청담 헤어", salon.DisplayName)

	_, err = db.dir.FindUserByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = db.dir.FindSalonByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrSalonNotFound)
}

func TestUserDefaultLanguage(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.dir.db.Create(&domain.UserModel{ID: "user-2", DisplayName: "지우"}).Error)

	user, err := db.dir.FindUserByID(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultLanguage, user.PreferredLanguage())
}
