package models

import (
	"time"

	"github.com/jackc/pgx/v5"
)

// Message is a direct message between two users
type Message struct {
	ID          int64     `json:"id"`
	SenderID    int64     `json:"senderId"`
	RecipientID int64     `json:"recipientId"`
	Body        string    `json:"body"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`

	SenderName string `json:"senderName,omitempty"`
}

// SendMessageRequest is the payload for sending a direct message
type SendMessageRequest struct {
	RecipientID int64  `json:"recipientId" binding:"required"`
	Body        string `json:"body" binding:"required,min=1,max=5000"`
}

// ConversationResponse is the response for a message thread
type ConversationResponse struct {
	Messages []*Message `json:"messages"`
	Total    int        `json:"total"`
}

// ConversationSummary is one entry in the conversation list: the partner,
// the latest message in the thread and how many of their messages are unread
type ConversationSummary struct {
	PartnerID   int64     `json:"partnerId"`
	PartnerName string    `json:"partnerName"`
	LastMessage string    `json:"lastMessage"`
	LastAt      time.Time `json:"lastAt"`
	UnreadCount int64     `json:"unreadCount"`
}

// ConversationListResponse is the response for the conversation list
type ConversationListResponse struct {
	Conversations []*ConversationSummary `json:"conversations"`
	Total         int                    `json:"total"`
}

// ScanMessage scans a single PostgreSQL row into a Message struct
// Expected columns: id, sender_id, recipient_id, body, is_read, created_at
func ScanMessage(row pgx.Row) (*Message, error) {
	var m Message

	err := row.Scan(
		&m.ID,
		&m.SenderID,
		&m.RecipientID,
		&m.Body,
		&m.IsRead,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// ScanMessages scans multiple PostgreSQL rows into a slice of Message structs
func ScanMessages(rows pgx.Rows) ([]*Message, error) {
	defer rows.Close()

	messages := []*Message{}
	for rows.Next() {
		message, err := ScanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
