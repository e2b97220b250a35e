package repositories

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"course-service/internal/models"
)

const messageColumns = `id, content, from_user_id, to_user_id, is_read, created_at`

const conversationQuery = `SELECT ` + messageColumns + `
        FROM messages
        WHERE (from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)
        ORDER BY created_at ASC, id ASC`

// MessageRepository defines interactions for direct messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, fromUserID int, toUserID int, content string) (models.Message, error)
	GetConversation(ctx context.Context, userA int, userB int) ([]models.Message, error)
	ReadConversation(ctx context.Context, readerID int, otherID int) ([]models.Message, error)
	CountUnread(ctx context.Context, userID int) (int, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage stores an unread message.
func (r *MessageRepo) CreateMessage(ctx context.Context, fromUserID int, toUserID int, content string) (models.Message, error) {
	now := time.Now().UTC()
	var id int
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`INSERT INTO messages (content, from_user_id, to_user_id, is_read, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?) RETURNING id`), content, fromUserID, toUserID, false, now, now).Scan(&id)
	if err != nil {
		return models.Message{}, errors.Wrap(err, "insert message")
	}
	return models.Message{
		ID:         id,
		Content:    content,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		CreatedAt:  now,
	}, nil
}

// GetConversation returns the messages exchanged between two users, oldest first.
func (r *MessageRepo) GetConversation(ctx context.Context, userA int, userB int) ([]models.Message, error) {
	msgs := []models.Message{}
	err := r.db.SelectContext(ctx, &msgs, r.db.Rebind(conversationQuery), userA, userB, userB, userA)
	return msgs, errors.Wrap(err, "select conversation")
}

// ReadConversation flags the reader's incoming messages as read and returns the
// conversation, both inside one transaction.
func (r *MessageRepo) ReadConversation(ctx context.Context, readerID int, otherID int) (msgs []models.Message, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin read conversation")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, tx.Rebind(`UPDATE messages SET is_read = ?, updated_at = ?
        WHERE from_user_id = ? AND to_user_id = ? AND is_read = ?`), true, time.Now().UTC(), otherID, readerID, false); err != nil {
		return nil, errors.Wrap(err, "mark messages read")
	}

	msgs = []models.Message{}
	if err = tx.SelectContext(ctx, &msgs, tx.Rebind(conversationQuery), readerID, otherID, otherID, readerID); err != nil {
		return nil, errors.Wrap(err, "select conversation")
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit read conversation")
	}
	return msgs, nil
}

// CountUnread returns how many messages addressed to the user are still unread.
func (r *MessageRepo) CountUnread(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, r.db.Rebind(`SELECT COUNT(*) FROM messages WHERE to_user_id = ? AND is_read = ?`), userID, false)
	return count, errors.Wrap(err, "count unread")
}
