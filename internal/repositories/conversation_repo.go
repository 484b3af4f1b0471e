package repositories

import (
	"context"
	"database/sql"
	"errors"

	"rideshare/internal/domain"
	"rideshare/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

type ConversationRepo struct {
	DB sqlx.ExtContext
}

// Upsert returns the id of the conversation for the canonical pair, creating
// it when missing. LAST_INSERT_ID(id) makes MySQL report the existing row's
// id on a duplicate key, so concurrent first contacts converge on one row.
func (r ConversationRepo) Upsert(ctx context.Context, user1, user2 domain.ID) (domain.ID, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO conversations (user1_id, user2_id)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`, user1, user2)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return domain.ID(id), err
}

func (r ConversationRepo) GetByID(ctx context.Context, id domain.ID) (models.Conversation, error) {
	var c models.Conversation
	err := sqlx.GetContext(ctx, r.DB, &c, `SELECT id, user1_id, user2_id, created_at FROM conversations WHERE id=? LIMIT 1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, domain.NotFoundError{Resource: "conversation", Err: err}
	}
	return c, err
}

func (r ConversationRepo) ListByUser(ctx context.Context, userID domain.ID) ([]models.Conversation, error) {
	out := []models.Conversation{}
	err := sqlx.SelectContext(ctx, r.DB, &out, `
		SELECT id, user1_id, user2_id, created_at
		FROM conversations
		WHERE user1_id=? OR user2_id=?
		ORDER BY id DESC`, userID, userID)
	return out, err
}
