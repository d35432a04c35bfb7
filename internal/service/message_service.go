package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"unimarket/internal/models"
	"unimarket/internal/observability"
	"unimarket/internal/repository"
)

// EventPublisher pushes real-time events toward a user's connected clients.
// The REST write path never depends on delivery succeeding.
type EventPublisher interface {
	PublishUser(ctx context.Context, userID uint, payload string) error
}

// PresenceChecker reports whether a user currently has a realtime connection.
type PresenceChecker interface {
	IsOnline(userID uint) bool
}

type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	publisher   EventPublisher
	presence    PresenceChecker
}

type SendMessageInput struct {
	SenderID   uint
	ReceiverID uint
	Content    string
	// Via labels the delivery path for metrics: "rest" or "ws"
	Via string
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	publisher EventPublisher,
	presence PresenceChecker,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		presence:    presence,
	}
}

const maxMessageLen = 2000

// SendMessage persists the message, then fans it out to the receiver's
// connected clients. Persistence is authoritative; fan-out is best-effort.
func (s *MessageService) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Message content is required")
	}
	if len(content) > maxMessageLen {
		return nil, models.NewValidationError("Message too long (max 2000 characters)")
	}
	if in.SenderID == in.ReceiverID {
		return nil, models.NewValidationError("Cannot message yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, in.ReceiverID); err != nil {
		return nil, err
	}

	message := &models.Message{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Content:    content,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	via := in.Via
	if via == "" {
		via = "rest"
	}
	observability.MessagesSentTotal.WithLabelValues(via).Inc()

	s.publish(ctx, in.ReceiverID, "message:new", message)
	return message, nil
}

func (s *MessageService) GetThread(ctx context.Context, userID, partnerID uint, limit, offset int) ([]models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, partnerID); err != nil {
		return nil, err
	}
	return s.messageRepo.GetThread(ctx, userID, partnerID, limit, offset)
}

func (s *MessageService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.messageRepo.UnreadCount(ctx, userID)
}

// Conversations returns the user's conversation summaries with each partner's
// current presence stamped on. Presence is read after the cached summaries so
// the flag is never stale.
func (s *MessageService) Conversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	conversations, err := s.messageRepo.Conversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.presence != nil {
		for i := range conversations {
			conversations[i].IsOnline = s.presence.IsOnline(conversations[i].Partner.ID)
		}
	}
	return conversations, nil
}

// MarkThreadRead marks everything the partner sent to the user as read and
// notifies the partner so open clients can update their read receipts.
func (s *MessageService) MarkThreadRead(ctx context.Context, userID, partnerID uint) (int64, error) {
	affected, err := s.messageRepo.MarkReadFrom(ctx, partnerID, userID)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		s.publish(ctx, partnerID, "messages:read", map[string]uint{"readerId": userID})
	}
	return affected, nil
}

func (s *MessageService) publish(ctx context.Context, userID uint, event string, data any) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{"type": event, "data": data})
	if err != nil {
		return
	}
	if err := s.publisher.PublishUser(ctx, userID, string(payload)); err != nil {
		slog.WarnContext(ctx, "realtime publish failed", "event", event, "user_id", userID, "error", err)
	}
}
