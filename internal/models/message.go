package models

import "time"

// Message represents a direct chat message between two users.
type Message struct {
	ID         int       `db:"id" json:"id"`
	Content    string    `db:"content" json:"content"`
	FromUserID int       `db:"from_user_id" json:"from_user"`
	ToUserID   int       `db:"to_user_id" json:"to_user"`
	IsRead     bool      `db:"is_read" json:"is_read"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// InboundFrame is what a client sends over its chat channel. Content must be
// present but may be empty.
type InboundFrame struct {
	Content *string `json:"content" validate:"required"`
	ToUser  int    `json:"to_user" validate:"required,gt=0"`
}

// DeliveryFrame is pushed to a connected recipient.
type DeliveryFrame struct {
	ID       int    `json:"id"`
	FromUser int    `json:"from_user"`
	Content  string `json:"content"`
	ToUser   int    `json:"to_user"`
}

// HistoryEntry is one element of the history response.
type HistoryEntry struct {
	ID       int    `json:"id"`
	Content  string `json:"content"`
	FromUser int    `json:"from_user"`
	ToUser   int    `json:"to_user"`
	IsRead   bool   `json:"is_read"`
}

func (m Message) DeliveryFrame() DeliveryFrame {
	return DeliveryFrame{ID: m.ID, FromUser: m.FromUserID, Content: m.Content, ToUser: m.ToUserID}
}

func (m Message) HistoryEntry() HistoryEntry {
	return HistoryEntry{ID: m.ID, Content: m.Content, FromUser: m.FromUserID, ToUser: m.ToUserID, IsRead: m.IsRead}
}
