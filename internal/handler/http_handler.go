package handler

import (
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ncamp16-final-team1/IMJM-sub000/internal/domain"
	"github.com/ncamp16-final-team1/IMJM-sub000/internal/service"
	"github.com/ncamp16-final-team1/IMJM-sub000/internal/translation"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/log"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/response"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/storage"
)

// Handler exposes the chat service over HTTP.
type Handler struct {
	chat   service.ChatService
	photos storage.Storage
}

// NewHandler creates the HTTP handler.
func NewHandler(chat service.ChatService, photos storage.Storage) *Handler {
	return &Handler{chat: chat, photos: photos}
}

// RegisterRoutes registers all chat routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1/chat")
	{
		api.POST("/rooms", h.GetOrCreateRoom)
		api.GET("/rooms/user/:id", h.ListRoomsForUser)
		api.GET("/rooms/salon/:id", h.ListRoomsForSalon)
		api.GET("/rooms/:id/messages", h.ListMessages)
		api.POST("/rooms/:id/messages", h.SendMessage)
		api.PUT("/rooms/:id/read", h.MarkRead)
		api.GET("/rooms/:id/unread", h.CountUnread)
		api.POST("/photos", h.UploadPhoto)
		api.POST("/translate", h.Translate)
	}
}

type createRoomRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	SalonID string `json:"salon_id" binding:"required"`
}

// GetOrCreateRoom resolves or lazily creates the (user, salon) room.
func (h *Handler) GetOrCreateRoom(c *gin.Context) {
	ctx := c.Request.Context()

	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	room, err := h.chat.GetOrCreateRoom(ctx, req.UserID, req.SalonID)
	if err != nil {
		h.writeError(c, err, "failed to get or create room")
		return
	}
	response.Success(c, room)
}

// SendMessage submits a message to a room.
func (h *Handler) SendMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.chat.SendMessage(ctx, c.Param("id"), &req)
	if err != nil {
		h.writeError(c, err, "failed to send message")
		return
	}
	response.Created(c, msg)
}

// ListMessages returns the room's message history.
func (h *Handler) ListMessages(c *gin.Context) {
	messages, err := h.chat.ListMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to list messages")
		return
	}
	response.Success(c, messages)
}

type readRequest struct {
	ReaderType domain.SenderType `json:"reader_type" binding:"required"`
}

// MarkRead marks the opposite side's messages as read.
func (h *Handler) MarkRead(c *gin.Context) {
	var req readRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.chat.MarkRead(c.Request.Context(), c.Param("id"), req.ReaderType); err != nil {
		h.writeError(c, err, "failed to mark messages read")
		return
	}
	response.Success(c, gin.H{"marked": true})
}

// CountUnread returns the viewer's unread count for a room.
func (h *Handler) CountUnread(c *gin.Context) {
	viewerType := domain.SenderType(c.Query("viewer_type"))

	count, err := h.chat.CountUnread(c.Request.Context(), c.Param("id"), viewerType)
	if err != nil {
		h.writeError(c, err, "failed to count unread messages")
		return
	}
	response.Success(c, gin.H{"unread": count})
}

// ListRoomsForUser returns a user's rooms.
func (h *Handler) ListRoomsForUser(c *gin.Context) {
	rooms, err := h.chat.ListRoomsForUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to list rooms")
		return
	}
	response.Success(c, rooms)
}

// ListRoomsForSalon returns a salon's rooms.
func (h *Handler) ListRoomsForSalon(c *gin.Context) {
	rooms, err := h.chat.ListRoomsForSalon(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to list rooms")
		return
	}
	response.Success(c, rooms)
}

// UploadPhoto stores an attachment and returns its public URL for a
// subsequent SendMessage call.
func (h *Handler) UploadPhoto(c *gin.Context) {
	ctx := c.Request.Context()

	file, err := c.FormFile("photo")
	if err != nil {
		response.BadRequest(c, "photo file is required")
		return
	}
	if file.Size == 0 {
		response.BadRequest(c, "photo file is empty")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "failed to read photo file")
		return
	}
	defer src.Close()

	key := fmt.Sprintf("chat/%s/%s%s",
		time.Now().Format("2006/01/02"), uuid.New().String(), path.Ext(file.Filename))

	url, err := h.photos.Upload(ctx, key, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to upload chat photo")
		response.InternalError(c, "failed to upload photo")
		return
	}
	response.Created(c, gin.H{"photo_url": url})
}

// Translate is the diagnostic pass-through endpoint.
func (h *Handler) Translate(c *gin.Context) {
	ctx := c.Request.Context()

	var req domain.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	translated, err := h.chat.Translate(ctx, &req)
	if err != nil {
		var terr *translation.Error
		if errors.As(err, &terr) {
			response.Error(c, 502, "TRANSLATION_FAILED", terr.Error())
			return
		}
		h.writeError(c, err, "failed to translate")
		return
	}
	response.Success(c, gin.H{"translated": translated})
}

func (h *Handler) writeError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, "chat room not found")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, "user not found")
	case errors.Is(err, service.ErrSalonNotFound):
		response.NotFound(c, "salon not found")
	case errors.Is(err, service.ErrEmptyMessage), errors.Is(err, service.ErrInvalidSender):
		response.BadRequest(c, err.Error())
	default:
		log.Ctx(c.Request.Context()).Error().Err(err).Msg(msg)
		response.InternalError(c, msg)
	}
}
