package repository

import (
	"context"
	"errors"
	"time"

	"unimarket/internal/cache"
	"unimarket/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines persistence operations for direct messages.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetThread(ctx context.Context, userID, partnerID uint, limit, offset int) ([]models.Message, error)
	UnreadCount(ctx context.Context, receiverID uint) (int64, error)
	Conversations(ctx context.Context, userID uint) ([]models.Conversation, error)
	MarkReadFrom(ctx context.Context, senderID, receiverID uint) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a new MessageRepository implementation.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUnread(ctx, message.ReceiverID)
	cache.Invalidate(ctx, cache.ConversationsKey(message.SenderID))
	return nil
}

// GetThread returns the messages between two users in chronological order.
func (r *messageRepository) GetThread(ctx context.Context, userID, partnerID uint, limit, offset int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	var messages []models.Message
	err := readDB(r.db).WithContext(ctx).
		Preload("Sender").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, partnerID, partnerID, userID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

// UnreadCount is the total number of unread messages addressed to the user.
// Cached briefly; message writes and read transitions invalidate it.
func (r *messageRepository) UnreadCount(ctx context.Context, receiverID uint) (int64, error) {
	var count int64
	err := cache.Aside(ctx, cache.UnreadCountKey(receiverID), &count, cache.UnreadTTL, func() error {
		return readDB(r.db).WithContext(ctx).
			Model(&models.Message{}).
			Where("receiver_id = ? AND is_read = ?", receiverID, false).
			Count(&count).Error
	})
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// Conversations folds the user's message history into one summary per partner:
// the latest message plus the number of unread messages from that partner.
// Cached briefly under the same invalidation as the unread badge.
func (r *messageRepository) Conversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := cache.Aside(ctx, cache.ConversationsKey(userID), &conversations, cache.UnreadTTL, func() error {
		var fetchErr error
		conversations, fetchErr = r.loadConversations(ctx, userID)
		return fetchErr
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, models.NewInternalError(err)
	}
	if conversations == nil {
		conversations = []models.Conversation{}
	}
	return conversations, nil
}

func (r *messageRepository) loadConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	var messages []models.Message
	err := readDB(r.db).WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	order := make([]uint, 0)
	latest := make(map[uint]models.Message)
	unread := make(map[uint]int64)
	for _, m := range messages {
		partnerID := m.SenderID
		if partnerID == userID {
			partnerID = m.ReceiverID
		}
		if _, seen := latest[partnerID]; !seen {
			latest[partnerID] = m
			order = append(order, partnerID)
		}
		if m.ReceiverID == userID && !m.IsRead {
			unread[partnerID]++
		}
	}

	if len(order) == 0 {
		return []models.Conversation{}, nil
	}

	var partners []models.User
	if err := readDB(r.db).WithContext(ctx).Where("id IN ?", order).Find(&partners).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	partnerByID := make(map[uint]models.User, len(partners))
	for _, p := range partners {
		partnerByID[p.ID] = p
	}

	conversations := make([]models.Conversation, 0, len(order))
	for _, partnerID := range order {
		partner, ok := partnerByID[partnerID]
		if !ok {
			continue
		}
		last := latest[partnerID]
		conversations = append(conversations, models.Conversation{
			Partner:     partner,
			LastMessage: last,
			UnreadCount: unread[partnerID],
			UpdatedAt:   last.CreatedAt,
		})
	}
	return conversations, nil
}

// MarkReadFrom flips every unread message from sender to receiver to read.
// Returns the number of rows transitioned.
func (r *messageRepository) MarkReadFrom(ctx context.Context, senderID, receiverID uint) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Updates(map[string]any{"is_read": true, "read_at": now})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		cache.InvalidateUnread(ctx, receiverID)
	}
	return result.RowsAffected, nil
}
