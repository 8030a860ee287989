package repository

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet(), "Unmet database expectations")
		db.Close()
	})

	return db, mock
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraint}
}

func foreignKeyViolation() error {
	return &pgconn.PgError{Code: pgForeignKeyViolation}
}
