package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intdb "rideshare/internal/db"
	"rideshare/internal/domain"
	"rideshare/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct {
	DB sqlx.ExtContext
}

const userColumns = `id, name, email, phone, password_hash, role, created_at`

func (r UserRepo) Create(ctx context.Context, u models.User) (domain.ID, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (name, email, phone, password_hash, role)
		VALUES (?, ?, ?, ?, ?)`,
		strings.TrimSpace(u.Name), strings.ToLower(strings.TrimSpace(u.Email)), strings.TrimSpace(u.Phone), u.PasswordHash, u.Role)
	if err != nil {
		if intdb.IsMySQLError(err, intdb.ErrDupEntry) {
			return 0, domain.ConflictError{Resource: "user", Msg: "email already registered", Err: err}
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	return domain.ID(id), err
}

func (r UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := sqlx.GetContext(ctx, r.DB, &u, `SELECT `+userColumns+` FROM users WHERE email=? LIMIT 1`, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	return u, err
}

func (r UserRepo) GetByID(ctx context.Context, id domain.ID) (models.User, error) {
	var u models.User
	err := sqlx.GetContext(ctx, r.DB, &u, `SELECT `+userColumns+` FROM users WHERE id=? LIMIT 1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	return u, err
}
