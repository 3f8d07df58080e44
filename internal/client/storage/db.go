// Package storage opens the local SQLite database of the dashboard and
// wires its repositories.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/paystream/internal/client/migrations"
	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/dmitrijs2005/paystream/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/paystream/internal/client/repositories/txlog"
	"github.com/dmitrijs2005/paystream/internal/dbx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

type Repositories struct {
	DB       *sql.DB
	Metadata metadata.Repository
	Journal  txlog.Repository
}

// Close releases the database handle.
func (r *Repositories) Close() error {
	return r.DB.Close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// InitDatabase opens dsn, migrates it to the latest schema and returns the
// repositories over it.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One writer keeps ":memory:" databases coherent and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		DB:       db,
		Metadata: metadata.NewSQLiteRepository(db),
		Journal:  txlog.NewSQLiteRepository(db),
	}, nil
}

// SaveSnapshot caches v as the latest snapshot of view for identity and
// records identity as the last session, in one transaction.
func (r *Repositories) SaveSnapshot(ctx context.Context, identity common.Address, view models.ViewMode, v any, savedAt time.Time) error {
	return dbx.WithTx(ctx, r.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		cache := metadata.NewCache(metadata.NewSQLiteRepository(tx))
		if err := cache.Put(ctx, metadata.SnapshotKey(view, identity), v, savedAt); err != nil {
			return err
		}
		return cache.Remember(ctx, identity)
	})
}

// LoadSnapshot reads the snapshot cached by SaveSnapshot into v.
func (r *Repositories) LoadSnapshot(ctx context.Context, identity common.Address, view models.ViewMode, v any) (time.Time, bool, error) {
	return metadata.NewCache(r.Metadata).Fetch(ctx, metadata.SnapshotKey(view, identity), v)
}
