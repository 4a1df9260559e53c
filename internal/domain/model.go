package domain

import "time"

// ChatRoomModel is the GORM model for the chat_rooms table.
type ChatRoomModel struct {
	ID              string    `gorm:"type:varchar(36);primaryKey"`
	UserID          string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_room_user_salon,priority:1"`
	SalonID         string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_room_user_salon,priority:2"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	LastMessageTime time.Time `gorm:"index;not null"`
}

// TableName specifies the table name for ChatRoomModel.
func (ChatRoomModel) TableName() string {
	return "chat_rooms"
}

// ToDomain converts ChatRoomModel to a domain ChatRoom.
func (m *ChatRoomModel) ToDomain() *ChatRoom {
	return &ChatRoom{
		ID:              m.ID,
		UserID:          m.UserID,
		SalonID:         m.SalonID,
		CreatedAt:       m.CreatedAt,
		LastMessageTime: m.LastMessageTime,
	}
}

// ChatRoomToModel converts a domain ChatRoom to ChatRoomModel.
func ChatRoomToModel(r *ChatRoom) *ChatRoomModel {
	return &ChatRoomModel{
		ID:              r.ID,
		UserID:          r.UserID,
		SalonID:         r.SalonID,
		CreatedAt:       r.CreatedAt,
		LastMessageTime: r.LastMessageTime,
	}
}

// ChatMessageModel is the GORM model for the chat_messages table.
type ChatMessageModel struct {
	ID                string    `gorm:"type:varchar(36);primaryKey"`
	ChatRoomID        string    `gorm:"type:varchar(36);index;not null"`
	SenderType        string    `gorm:"type:varchar(10);not null"`
	Body              string    `gorm:"type:text"`
	IsRead            bool      `gorm:"not null;default:false"`
	SentAt            time.Time `gorm:"index;not null"`
	TranslatedBody    *string   `gorm:"type:text"`
	TranslationStatus string    `gorm:"type:varchar(10);not null;default:'NONE'"`
}

// TableName specifies the table name for ChatMessageModel.
func (ChatMessageModel) TableName() string {
	return "chat_messages"
}

// ToDomain converts ChatMessageModel to a domain ChatMessage.
func (m *ChatMessageModel) ToDomain() *ChatMessage {
	return &ChatMessage{
		ID:                m.ID,
		ChatRoomID:        m.ChatRoomID,
		SenderType:        SenderType(m.SenderType),
		Body:              m.Body,
		IsRead:            m.IsRead,
		SentAt:            m.SentAt,
		TranslatedBody:    m.TranslatedBody,
		TranslationStatus: TranslationStatus(m.TranslationStatus),
	}
}

// ChatMessageToModel converts a domain ChatMessage to ChatMessageModel.
func ChatMessageToModel(msg *ChatMessage) *ChatMessageModel {
	return &ChatMessageModel{
		ID:                msg.ID,
		ChatRoomID:        msg.ChatRoomID,
		SenderType:        string(msg.SenderType),
		Body:              msg.Body,
		IsRead:            msg.IsRead,
		SentAt:            msg.SentAt,
		TranslatedBody:    msg.TranslatedBody,
		TranslationStatus: string(msg.TranslationStatus),
	}
}

// ChatPhotoModel is the GORM model for the chat_photos table.
type ChatPhotoModel struct {
	ID            string    `gorm:"type:varchar(36);primaryKey"`
	ChatMessageID string    `gorm:"type:varchar(36);index;not null"`
	PhotoURL      string    `gorm:"type:text;not null"`
	UploadedAt    time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for ChatPhotoModel.
func (ChatPhotoModel) TableName() string {
	return "chat_photos"
}

// ToDomain converts ChatPhotoModel to a domain ChatPhoto.
func (m *ChatPhotoModel) ToDomain() *ChatPhoto {
	return &ChatPhoto{
		ID:            m.ID,
		ChatMessageID: m.ChatMessageID,
		PhotoURL:      m.PhotoURL,
		UploadedAt:    m.UploadedAt,
	}
}

// TranslationCacheModel is the GORM model for the translation_cache table.
// One row per (source hash, language pair); a cache hit increments UseCount
// and refreshes LastUsedAt.
type TranslationCacheModel struct {
	ID             string    `gorm:"type:varchar(36);primaryKey"`
	SourceHash     string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_cache_hash_langs,priority:1"`
	SourceLang     string    `gorm:"type:varchar(10);not null;uniqueIndex:ux_cache_hash_langs,priority:2"`
	TargetLang     string    `gorm:"type:varchar(10);not null;uniqueIndex:ux_cache_hash_langs,priority:3"`
	SourceText     string    `gorm:"type:text;not null"`
	TranslatedText string    `gorm:"type:text;not null"`
	UseCount       int64     `gorm:"not null;default:0"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	LastUsedAt     time.Time `gorm:"not null"`
}

// TableName specifies the table name for TranslationCacheModel.
func (TranslationCacheModel) TableName() string {
	return "translation_cache"
}

// UserModel is the GORM model for the users table. Only the columns the chat
// core reads are mapped; the booking platform owns the rest of this table.
type UserModel struct {
	ID                  string `gorm:"type:varchar(36);primaryKey"`
	DisplayName         string `gorm:"type:varchar(100);not null"`
	Language            string `gorm:"type:varchar(10)"`
	NotificationEnabled bool   `gorm:"not null;default:true"`
}

// TableName specifies the table name for UserModel.
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts UserModel to a domain User.
func (m *UserModel) ToDomain() *User {
	return &User{
		ID:                  m.ID,
		DisplayName:         m.DisplayName,
		Language:            m.Language,
		NotificationEnabled: m.NotificationEnabled,
	}
}

// SalonModel is the GORM model for the salons table.
type SalonModel struct {
	ID   string `gorm:"type:varchar(36);primaryKey"`
	Name string `gorm:"type:varchar(100);not null"`
}

// TableName specifies the table name for SalonModel.
func (SalonModel) TableName() string {
	return "salons"
}

// ToDomain converts SalonModel to a domain Salon.
func (m *SalonModel) ToDomain() *Salon {
	return &Salon{
		ID:          m.ID,
		DisplayName: m.Name,
	}
}
