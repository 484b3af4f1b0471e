package repositories

import (
	"context"

	"rideshare/internal/domain"
	"rideshare/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

type MessageRepo struct {
	DB sqlx.ExtContext
}

func (r MessageRepo) Insert(ctx context.Context, conversationID, senderID domain.ID, body string) (domain.ID, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO messages (conversation_id, sender_id, body)
		VALUES (?, ?, ?)`, conversationID, senderID, body)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return domain.ID(id), err
}

// List pages forward through a conversation by id.
func (r MessageRepo) List(ctx context.Context, conversationID domain.ID, page domain.Pagination) ([]models.Message, error) {
	out := []models.Message{}
	err := sqlx.SelectContext(ctx, r.DB, &out, `
		SELECT id, conversation_id, sender_id, body, created_at
		FROM messages
		WHERE conversation_id=? AND id>?
		ORDER BY id ASC
		LIMIT ?`, conversationID, page.AfterID, page.Limit)
	return out, err
}
