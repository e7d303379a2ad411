package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mentorloop/mentorloop-api/internal/models"
)

// MessageRepository manages persistence for direct chat messages.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository constructs a MessageRepository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a message.
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO messages (id, sender_id, receiver_id, body, created_at)
		VALUES (:id, :sender_id, :receiver_id, :body, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, message); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// ListConversation returns messages exchanged between two users in
// chronological order with total count.
func (r *MessageRepository) ListConversation(ctx context.Context, userA, userB string, page, pageSize int) ([]models.Message, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	base := `FROM messages WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)`
	query := fmt.Sprintf(`SELECT id, sender_id, receiver_id, body, read_at, created_at %s ORDER BY created_at ASC LIMIT %d OFFSET %d`, base, pageSize, offset)

	var messages []models.Message
	if err := r.db.SelectContext(ctx, &messages, query, userA, userB); err != nil {
		return nil, 0, fmt.Errorf("list conversation: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, userA, userB); err != nil {
		return nil, 0, fmt.Errorf("count conversation: %w", err)
	}
	return messages, total, nil
}

// MarkRead stamps every unread message sent to the reader in the
// conversation.
func (r *MessageRepository) MarkRead(ctx context.Context, readerID, otherID string, at time.Time) error {
	const query = `UPDATE messages SET read_at = $3 WHERE receiver_id = $1 AND sender_id = $2 AND read_at IS NULL`
	if _, err := r.db.ExecContext(ctx, query, readerID, otherID, at); err != nil {
		return fmt.Errorf("mark messages read: %w", err)
	}
	return nil
}
