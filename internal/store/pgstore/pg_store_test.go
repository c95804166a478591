package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talenthub/portal-backend/config"
	"github.com/talenthub/portal-backend/internal/store"
)

type record struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func setupStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

func TestStore_Create(t *testing.T) {
	s, mock := setupStore(t)
	ctx := context.Background()

	t.Run("inserts document", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO documents`).
			WithArgs("leave_requests", "r1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(ctx, "leave_requests", "r1", record{ID: "r1", Status: "Pending"}))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate id conflicts", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO documents`).
			WithArgs("leave_requests", "r1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Create(ctx, "leave_requests", "r1", record{ID: "r1"})
		assert.ErrorIs(t, err, store.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database failure is a persistence error", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO documents`).
			WillReturnError(errors.New("connection reset"))

		err := s.Create(ctx, "leave_requests", "r2", record{ID: "r2"})
		assert.ErrorIs(t, err, store.ErrPersistence)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_Get(t *testing.T) {
	s, mock := setupStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT data FROM documents WHERE collection = \$1 AND id = \$2`).
		WithArgs("leave_requests", "r1").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{"id":"r1","status":"Pending"}`)))

	var got record
	require.NoError(t, s.Get(ctx, "leave_requests", "r1", &got))
	assert.Equal(t, record{ID: "r1", Status: "Pending"}, got)

	mock.ExpectQuery(`SELECT data FROM documents`).
		WithArgs("leave_requests", "missing").
		WillReturnError(sql.ErrNoRows)

	assert.ErrorIs(t, s.Get(ctx, "leave_requests", "missing", &got), store.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Query(t *testing.T) {
	s, mock := setupStore(t)

	mock.ExpectQuery(`SELECT data FROM documents\s+WHERE collection = \$1 AND data @> \$2::jsonb`).
		WithArgs("it_tickets", []byte(`{"status":"Open"}`)).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).
			AddRow([]byte(`{"id":"t1","status":"Open"}`)).
			AddRow([]byte(`{"id":"t2","status":"Open"}`)))

	var got []record
	require.NoError(t, s.Query(context.Background(), "it_tickets", []store.Filter{store.Eq("status", "Open")}, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "t2", got[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpdateIf(t *testing.T) {
	ctx := context.Background()
	cond := store.Eq("status", "Pending")
	fields := map[string]any{"status": "Approved"}

	t.Run("condition holds", func(t *testing.T) {
		s, mock := setupStore(t)
		mock.ExpectExec(`UPDATE documents`).
			WithArgs("leave_requests", "r1", []byte(`{"status":"Approved"}`), []byte(`{"status":"Pending"}`)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.UpdateIf(ctx, "leave_requests", "r1", cond, fields))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("condition failed", func(t *testing.T) {
		s, mock := setupStore(t)
		mock.ExpectExec(`UPDATE documents`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("leave_requests", "r1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		assert.ErrorIs(t, s.UpdateIf(ctx, "leave_requests", "r1", cond, fields), store.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing document", func(t *testing.T) {
		s, mock := setupStore(t)
		mock.ExpectExec(`UPDATE documents`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		assert.ErrorIs(t, s.UpdateIf(ctx, "leave_requests", "r1", cond, fields), store.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_UpdateAndDelete(t *testing.T) {
	s, mock := setupStore(t)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE documents`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.Update(ctx, "users", "u1", map[string]any{"bio": "x"}), store.ErrNotFound)

	mock.ExpectExec(`DELETE FROM documents`).
		WithArgs("announcements", "a1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Delete(ctx, "announcements", "a1"))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDSN(t *testing.T) {
	dsn := DSN(&config.DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "n"})
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=disable", dsn)
}
