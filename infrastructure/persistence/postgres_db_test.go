package persistence

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"streamhub/domain/repository"
	"streamhub/infrastructure/configuration"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresDSN(t *testing.T) {
	cfg := configuration.Db{Name: "streamhub", Host: "db", Port: "5432", User: "app", Password: "p@ss"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/streamhub?sslmode=disable", postgresDSN(cfg))

	cfg.SSLMode = "require"
	cfg.Password = ""
	assert.Equal(t, "postgres://app@db:5432/streamhub?sslmode=require", postgresDSN(cfg))
}

func TestPqErr(t *testing.T) {
	assert.NoError(t, pqErr(nil))
	assert.ErrorIs(t, pqErr(sql.ErrNoRows), repository.ErrNotFound)
	assert.ErrorIs(t, pqErr(&pq.Error{Code: pqUniqueViolation}), repository.ErrConflict)
	assert.ErrorIs(t, pqErr(&pq.Error{Code: pqForeignKeyViolation}), repository.ErrNotFound)

	other := errors.New("connection reset")
	assert.Equal(t, other, pqErr(other))
}

func TestEnsureSchema_AddsMissingColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for _, ddl := range schemaDDL {
		mock.ExpectExec(regexp.QuoteMeta(ddl)).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectQuery(regexp.QuoteMeta(`FROM information_schema.columns`)).
		WithArgs("users", "cover_image_public_id").
		WillReturnRows(sqlmock.NewRows([]string{"one"}))
	mock.ExpectExec(regexp.QuoteMeta(`ALTER TABLE users ADD COLUMN cover_image_public_id`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM information_schema.columns`)).
		WithArgs("videos", "is_published").
		WillReturnRows(sqlmock.NewRows([]string{"one"}).AddRow(1))

	require.NoError(t, EnsureSchema(db))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema_StopsOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(schemaDDL[0])).WillReturnError(errors.New("permission denied"))

	err = EnsureSchema(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	require.NoError(t, mock.ExpectationsWereMet())
}
