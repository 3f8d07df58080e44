package txlog

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/dmitrijs2005/paystream/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE tx_journal (
  id TEXT PRIMARY KEY, operation_id TEXT NOT NULL, operation TEXT NOT NULL, step TEXT NOT NULL,
  hash TEXT NOT NULL DEFAULT '', status TEXT NOT NULL, error TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL, updated_at INTEGER NOT NULL);`)
	require.NoError(t, err)
	return db
}

func record(id, op, step string, at time.Time) models.TxRecord {
	return models.TxRecord{
		Id: id, OperationId: op, Operation: "deposit", Step: step,
		Status: models.TxPending, CreatedAt: at, UpdatedAt: at,
	}
}

func TestInsertAndRecent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, r.Insert(ctx, record("a", "op1", "grant", t0)))
	require.NoError(t, r.Insert(ctx, record("b", "op1", "action", t0.Add(time.Second))))
	require.NoError(t, r.Insert(ctx, record("c", "op2", "action", t0.Add(2*time.Second))))

	recent, err := r.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].Id)
	assert.Equal(t, "b", recent[1].Id)
	assert.Equal(t, t0.Add(2*time.Second), recent[0].CreatedAt)

	steps, err := r.Operation(ctx, "op1")
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "grant", steps[0].Step)
	assert.Equal(t, "action", steps[1].Step)
}

func TestInsert_DuplicateID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, r.Insert(ctx, record("a", "op", "action", now)))
	err := r.Insert(ctx, record("a", "op", "action", now))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert journal record")
}

func TestUpdateStatus(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, r.Insert(ctx, record("a", "op", "action", t0)))

	require.NoError(t, r.UpdateStatus(ctx, "a", "0xabc", models.TxFailed, "reverted", t0.Add(time.Minute)))

	got, err := r.Operation(ctx, "op")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.TxFailed, got[0].Status)
	assert.Equal(t, "0xabc", got[0].Hash)
	assert.Equal(t, "reverted", got[0].Error)
	assert.Equal(t, t0.Add(time.Minute), got[0].UpdatedAt)

	err = r.UpdateStatus(ctx, "missing", "", models.TxConfirmed, "", t0)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestRecent_DefaultLimitAndClosedDB(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	recent, err := r.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, recent)

	require.NoError(t, db.Close())
	_, err = r.Recent(ctx, 5)
	require.Error(t, err)
}
