package importlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func TestInsertAssignsIDAndCreatedAt(t *testing.T) {
	store, mock := newMockStore(t)

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO import_runs").
		WithArgs(sqlmock.AnyArg(), "owner-1", "leads.csv", 8, 2, pq.Array([]string{"phone", "database"})).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	rec := &Record{
		OwnerID:     "owner-1",
		Filename:    "leads.csv",
		Success:     8,
		Failed:      2,
		ErrorFields: []string{"phone", "database"},
	}
	require.NoError(t, store.Insert(context.Background(), rec))
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, created, rec.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertWrapsDBError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO import_runs").
		WillReturnError(errors.New("connection refused"))

	err := store.Insert(context.Background(), &Record{OwnerID: "owner-1", Filename: "x.csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "importlog: insert failed")
}

func TestListByOwner(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "owner_id", "filename", "success_count", "failed_count", "error_fields", "created_at"}).
		AddRow("run-2", "owner-1", "b.csv", 5, 0, pq.Array([]string{}), time.Now()).
		AddRow("run-1", "owner-1", "a.csv", 3, 1, pq.Array([]string{"email"}), time.Now().Add(-time.Hour))
	mock.ExpectQuery("SELECT id, owner_id, filename").
		WithArgs("owner-1", 20).
		WillReturnRows(rows)

	out, err := store.ListByOwner(context.Background(), "owner-1", 20)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "run-2", out[0].ID)
	assert.Equal(t, []string{}, out[0].ErrorFields)
	assert.Equal(t, []string{"email"}, out[1].ErrorFields)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByOwnerClampsLimit(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, owner_id, filename").
		WithArgs("owner-1", 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "filename", "success_count", "failed_count", "error_fields", "created_at"}))

	out, err := store.ListByOwner(context.Background(), "owner-1", 5000)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNilStoreIsNoOp(t *testing.T) {
	var store *Store

	require.NoError(t, store.Insert(context.Background(), &Record{OwnerID: "owner-1"}))
	out, err := store.ListByOwner(context.Background(), "owner-1", 10)
	require.NoError(t, err)
	assert.Empty(t, out)
}
