package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { _ = raw.Close() })
	return sqlx.NewDb(raw, "mysql"), mock
}

func TestWithTxCommits(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE rides`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := WithTx(context.Background(), db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(context.Background(), `UPDATE rides SET available_seats = 1 WHERE id = 1`)
		return err
	})
	if err != nil {
		t.Fatalf("WithTx error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWithTxRollsBackAndKeepsError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	sentinel := errors.New("stop")
	err := WithTx(context.Background(), db, func(tx *sqlx.Tx) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIsMySQLError(t *testing.T) {
	dup := &mysql.MySQLError{Number: ErrDupEntry, Message: "Duplicate entry"}
	if !IsMySQLError(dup, ErrDupEntry) {
		t.Fatalf("expected duplicate entry match")
	}
	if IsMySQLError(dup, ErrNoReferencedRow) || IsMySQLError(errors.New("x"), ErrDupEntry) {
		t.Fatalf("unexpected match")
	}
}

func TestEnsureSchemaCreatesMissingTables(t *testing.T) {
	db, mock := newMock(t)
	for range schema {
		mock.ExpectQuery(`information_schema.tables`).WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
		mock.ExpectExec(`CREATE TABLE`).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("EnsureSchema error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
