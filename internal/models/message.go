package models

import "time"

// Message is a direct message between two users. Messages are never deleted;
// the unread flag flips exactly once, from false to true via ReadAt.
type Message struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	SenderID   uint       `gorm:"not null;index" json:"senderId"`
	Sender     *User      `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	ReceiverID uint       `gorm:"not null;index" json:"receiverId"`
	Receiver   *User      `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	IsRead     bool       `gorm:"default:false" json:"isRead"`
	ReadAt     *time.Time `json:"readAt,omitempty"`
	CreatedAt  time.Time  `gorm:"index" json:"createdAt"`
}

// Conversation summarizes a user's message thread with one partner.
// Computed from messages at query time; never persisted.
type Conversation struct {
	Partner     User      `json:"partner"`
	LastMessage Message   `json:"lastMessage"`
	UnreadCount int64     `json:"unreadCount"`
	UpdatedAt   time.Time `json:"updatedAt"`
	// IsOnline reflects the partner's realtime presence at response time.
	// It is stamped by the service layer, never stored.
	IsOnline bool `json:"isOnline"`
}
