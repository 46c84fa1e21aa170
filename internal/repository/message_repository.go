package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mentorconnect/mentorconnect-api/internal/models"
)

// MessageRepository handles direct message data access
type MessageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{
		pool: pool,
	}
}

// Create inserts a message
func (r *MessageRepository) Create(ctx context.Context, senderID, recipientID int64, body string) (*models.Message, error) {
	query := `
		INSERT INTO messages (sender_id, recipient_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, sender_id, recipient_id, body, is_read, created_at
	`

	message, err := models.ScanMessage(r.pool.QueryRow(ctx, query, senderID, recipientID, body))
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return message, nil
}

// GetConversation fetches the two-way thread between two users, oldest first
func (r *MessageRepository) GetConversation(ctx context.Context, userID, otherID int64) ([]*models.Message, error) {
	query := `
		SELECT m.id, m.sender_id, m.recipient_id, m.body, m.is_read, m.created_at, u.name AS sender_name
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE (m.sender_id = $1 AND m.recipient_id = $2)
			OR (m.sender_id = $2 AND m.recipient_id = $1)
		ORDER BY m.created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		var m models.Message

		err := rows.Scan(
			&m.ID,
			&m.SenderID,
			&m.RecipientID,
			&m.Body,
			&m.IsRead,
			&m.CreatedAt,
			&m.SenderName,
		)
		if err != nil {
			return nil, err
		}

		messages = append(messages, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

// ListConversations fetches the user's conversation partners with the latest
// message and unread count per partner, newest first
func (r *MessageRepository) ListConversations(ctx context.Context, userID int64) ([]*models.ConversationSummary, error) {
	query := `
		WITH threads AS (
			SELECT DISTINCT ON (partner_id)
				CASE WHEN m.sender_id = $1 THEN m.recipient_id ELSE m.sender_id END AS partner_id,
				m.body,
				m.created_at
			FROM messages m
			WHERE m.sender_id = $1 OR m.recipient_id = $1
			ORDER BY partner_id, m.created_at DESC
		)
		SELECT t.partner_id, u.name, t.body, t.created_at,
			(SELECT count(*) FROM messages
				WHERE recipient_id = $1 AND sender_id = t.partner_id AND is_read = FALSE)
		FROM threads t
		JOIN users u ON u.id = t.partner_id
		ORDER BY t.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	conversations := []*models.ConversationSummary{}
	for rows.Next() {
		var c models.ConversationSummary

		err := rows.Scan(
			&c.PartnerID,
			&c.PartnerName,
			&c.LastMessage,
			&c.LastAt,
			&c.UnreadCount,
		)
		if err != nil {
			return nil, err
		}

		conversations = append(conversations, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return conversations, nil
}

// MarkRead marks all messages from otherID to userID as read
func (r *MessageRepository) MarkRead(ctx context.Context, userID, otherID int64) error {
	query := `
		UPDATE messages SET is_read = TRUE
		WHERE recipient_id = $1 AND sender_id = $2 AND is_read = FALSE
	`

	if _, err := r.pool.Exec(ctx, query, userID, otherID); err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}

	return nil
}
