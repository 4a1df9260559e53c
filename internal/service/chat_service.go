package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncamp16-final-team1/IMJM-sub000/internal/delivery"
	"github.com/ncamp16-final-team1/IMJM-sub000/internal/domain"
	"github.com/ncamp16-final-team1/IMJM-sub000/internal/metrics"
	"github.com/ncamp16-final-team1/IMJM-sub000/internal/notification"
	"github.com/ncamp16-final-team1/IMJM-sub000/internal/repository"
	"github.com/ncamp16-final-team1/IMJM-sub000/internal/translation"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/log"
)

var (
	ErrRoomNotFound  = errors.New("chat room not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrSalonNotFound = errors.New("salon not found")
	ErrEmptyMessage  = errors.New("message needs a body or at least one photo")
	ErrInvalidSender = errors.New("sender type must be USER or SALON")
)

// chatService implements ChatService.
type chatService struct {
	rooms      repository.RoomRepository
	messages   repository.MessageRepository
	users      repository.UserDirectory
	salons     repository.SalonDirectory
	translator translation.Translator
	fanout     delivery.Fanout
	notifier   notification.Notifier

	translationTimeout time.Duration
	strategy           string
}

// NewChatService creates the chat orchestrator.
func NewChatService(
	rooms repository.RoomRepository,
	messages repository.MessageRepository,
	users repository.UserDirectory,
	salons repository.SalonDirectory,
	translator translation.Translator,
	fanout delivery.Fanout,
	notifier notification.Notifier,
	translationTimeout time.Duration,
	strategy string,
) ChatService {
	if translationTimeout <= 0 {
		translationTimeout = 10 * time.Second
	}
	return &chatService{
		rooms:              rooms,
		messages:           messages,
		users:              users,
		salons:             salons,
		translator:         translator,
		fanout:             fanout,
		notifier:           notifier,
		translationTimeout: translationTimeout,
		strategy:           strategy,
	}
}

// GetOrCreateRoom returns the (user, salon) room, creating it on first
// contact. The repository resolves concurrent creation races through the
// unique constraint on the pair.
func (s *chatService) GetOrCreateRoom(ctx context.Context, userID, salonID string) (*domain.ChatRoom, error) {
	room, err := s.rooms.GetByParticipants(ctx, userID, salonID)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, repository.ErrRoomNotFound) {
		return nil, err
	}

	if _, err := s.users.FindUserByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if _, err := s.salons.FindSalonByID(ctx, salonID); err != nil {
		if errors.Is(err, repository.ErrSalonNotFound) {
			return nil, ErrSalonNotFound
		}
		return nil, err
	}

	room, err = s.rooms.Create(ctx, &domain.ChatRoom{UserID: userID, SalonID: salonID})
	if err != nil {
		return nil, err
	}

	// Provision delivery resources for both participants. Best-effort: the
	// declarations are retried implicitly on the next room creation and the
	// room itself is already durable.
	if err := s.fanout.EnsureParticipants(ctx, room); err != nil {
		log.Ctx(ctx).Warn().Err(err).
			Str(log.FieldRoomID, room.ID).
			Msg("failed to provision delivery resources")
	}

	return room, nil
}

// SendMessage runs the send pipeline: resolve room, translate when the
// participants' languages differ, persist atomically, fan out, notify.
func (s *chatService) SendMessage(ctx context.Context, roomID string, req *domain.SendMessageRequest) (*domain.ChatMessageResponse, error) {
	l := log.Ctx(ctx)

	if !req.SenderType.Valid() {
		return nil, ErrInvalidSender
	}
	if req.Body == "" && len(req.PhotoURLs) == 0 {
		return nil, ErrEmptyMessage
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	user, err := s.users.FindUserByID(ctx, room.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	salon, err := s.salons.FindSalonByID(ctx, room.SalonID)
	if err != nil {
		if errors.Is(err, repository.ErrSalonNotFound) {
			return nil, ErrSalonNotFound
		}
		return nil, err
	}

	// Salons operate in Korean; the user side speaks their stored preference.
	senderLang, recipientLang := domain.DefaultLanguage, user.PreferredLanguage()
	if req.SenderType == domain.SenderUser {
		senderLang, recipientLang = recipientLang, senderLang
	}

	msg := &domain.ChatMessage{
		ChatRoomID:        room.ID,
		SenderType:        req.SenderType,
		Body:              req.Body,
		TranslationStatus: domain.TranslationNone,
	}

	if senderLang != recipientLang && req.Body != "" {
		translated, err := s.translate(ctx, req.Body, senderLang, recipientLang)
		if err != nil {
			// Translation never blocks delivery; the message goes out
			// untranslated and the UI falls back to the original text.
			msg.TranslationStatus = domain.TranslationFailed
			metrics.TranslationFailures.Inc()
			l.Warn().Err(err).
				Str(log.FieldRoomID, room.ID).
				Str(log.FieldSourceLang, senderLang).
				Str(log.FieldTargetLang, recipientLang).
				Msg("translation failed, delivering original text")
		} else {
			msg.TranslationStatus = domain.TranslationCompleted
			msg.TranslatedBody = &translated
		}
	}

	photos, err := s.messages.Append(ctx, msg, req.PhotoURLs)
	if err != nil {
		return nil, err
	}
	metrics.MessagesSent.Inc()

	resp := s.toResponse(room, msg, photos)

	// The message is durable from here on; delivery and notification are
	// best-effort side channels.
	if err := s.fanout.Deliver(ctx, room, resp); err != nil {
		metrics.DeliveryFailures.WithLabelValues(s.strategy).Inc()
		l.Error().Err(err).
			Str(log.FieldMessageID, msg.ID).
			Str(log.FieldRoomID, room.ID).
			Msg("fan-out delivery failed")
	}

	s.notifyRecipient(ctx, room, user, salon, resp)

	return resp, nil
}

func (s *chatService) translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.translationTimeout)
	defer cancel()
	return s.translator.Translate(ctx, text, sourceLang, targetLang)
}

// notifyRecipient emits the new-message notification to whichever
// participant did not send the message.
func (s *chatService) notifyRecipient(ctx context.Context, room *domain.ChatRoom, user *domain.User, salon *domain.Salon, msg *domain.ChatMessageResponse) {
	var recipientID, senderName string
	if msg.SenderType == domain.SenderUser {
		recipientID = room.SalonID
		senderName = user.DisplayName
	} else {
		recipientID = room.UserID
		senderName = salon.DisplayName

		// Recipient is the user side; honour their notification preference.
		if !user.NotificationEnabled {
			return
		}
	}
	if recipientID == msg.SenderID {
		return
	}

	n := &notification.Notification{
		RecipientID: recipientID,
		Title:       notification.TitleNewMessage,
		Body:        fmt.Sprintf("%s: %s", senderName, notification.Preview(msg.Body, len(msg.Photos) > 0)),
		Type:        notification.TypeChat,
		ReferenceID: room.ID,
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		log.Ctx(ctx).Warn().Err(err).
			Str(log.FieldRoomID, room.ID).
			Msg("failed to emit chat notification")
	}
}

// ListMessages returns the full room history with photos batch-loaded.
func (s *chatService) ListMessages(ctx context.Context, roomID string) ([]domain.ChatMessageResponse, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	messages, err := s.messages.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(messages))
	for i := range messages {
		ids[i] = messages[i].ID
	}
	photosByMsg, err := s.messages.PhotosByMessageIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.ChatMessageResponse, len(messages))
	for i := range messages {
		responses[i] = *s.toResponse(room, &messages[i], photosByMsg[messages[i].ID])
	}
	return responses, nil
}

// MarkRead marks the opposite side's messages read. Idempotent.
func (s *chatService) MarkRead(ctx context.Context, roomID string, readerType domain.SenderType) error {
	if !readerType.Valid() {
		return ErrInvalidSender
	}
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return ErrRoomNotFound
		}
		return err
	}
	return s.messages.MarkRead(ctx, roomID, readerType)
}

// CountUnread counts the opposite side's unread messages.
func (s *chatService) CountUnread(ctx context.Context, roomID string, viewerType domain.SenderType) (int64, error) {
	if !viewerType.Valid() {
		return 0, ErrInvalidSender
	}
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return 0, ErrRoomNotFound
		}
		return 0, err
	}
	return s.messages.CountUnread(ctx, roomID, viewerType)
}

// ListRoomsForUser returns the user's rooms with conversation context.
func (s *chatService) ListRoomsForUser(ctx context.Context, userID string) ([]domain.RoomSummary, error) {
	rooms, err := s.rooms.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.summaries(ctx, rooms, domain.SenderUser)
}

// ListRoomsForSalon returns the salon's rooms with conversation context.
func (s *chatService) ListRoomsForSalon(ctx context.Context, salonID string) ([]domain.RoomSummary, error) {
	rooms, err := s.rooms.ListForSalon(ctx, salonID)
	if err != nil {
		return nil, err
	}
	return s.summaries(ctx, rooms, domain.SenderSalon)
}

func (s *chatService) summaries(ctx context.Context, rooms []domain.ChatRoom, viewerType domain.SenderType) ([]domain.RoomSummary, error) {
	summaries := make([]domain.RoomSummary, len(rooms))
	for i := range rooms {
		room := &rooms[i]

		last, err := s.messages.LatestByRoom(ctx, room.ID)
		if err != nil {
			return nil, err
		}
		unread, err := s.messages.CountUnread(ctx, room.ID, viewerType)
		if err != nil {
			return nil, err
		}

		summary := domain.RoomSummary{
			ID:              room.ID,
			UserID:          room.UserID,
			SalonID:         room.SalonID,
			CreatedAt:       room.CreatedAt,
			LastMessageTime: room.LastMessageTime,
			UnreadCount:     unread,
		}
		if last != nil {
			summary.LastMessage = last.Body
		}
		summaries[i] = summary
	}
	return summaries, nil
}

// Translate is the diagnostic pass-through. The source language is detected
// from the text when omitted.
func (s *chatService) Translate(ctx context.Context, req *domain.TranslateRequest) (string, error) {
	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = translation.DetectLanguage(req.Text)
	}
	if sourceLang == "" {
		sourceLang = domain.DefaultLanguage
	}
	if sourceLang == req.TargetLang {
		return req.Text, nil
	}
	return s.translate(ctx, req.Text, sourceLang, req.TargetLang)
}

func (s *chatService) toResponse(room *domain.ChatRoom, msg *domain.ChatMessage, photos []domain.ChatPhoto) *domain.ChatMessageResponse {
	senderID := room.SalonID
	if msg.SenderType == domain.SenderUser {
		senderID = room.UserID
	}
	if photos == nil {
		photos = []domain.ChatPhoto{}
	}

	return &domain.ChatMessageResponse{
		ID:                msg.ID,
		ChatRoomID:        msg.ChatRoomID,
		SenderType:        msg.SenderType,
		SenderID:          senderID,
		Body:              msg.Body,
		SentAt:            msg.SentAt,
		TranslatedBody:    msg.TranslatedBody,
		TranslationStatus: msg.TranslationStatus,
		Photos:            photos,
	}
}
