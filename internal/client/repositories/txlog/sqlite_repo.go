package txlog

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/dmitrijs2005/paystream/internal/common"
	"github.com/dmitrijs2005/paystream/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, rec models.TxRecord) error {
	query := `INSERT INTO tx_journal (id, operation_id, operation, step, hash, status, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.Id, rec.OperationId, rec.Operation, rec.Step, rec.Hash, string(rec.Status), rec.Error,
		rec.CreatedAt.UnixNano(), rec.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert journal record: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateStatus(ctx context.Context, id, hash string, status models.TxStatus, errText string, at time.Time) error {
	query := `UPDATE tx_journal SET hash = ?, status = ?, error = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, hash, string(status), errText, at.UnixNano(), id)
	if err != nil {
		return fmt.Errorf("failed to update journal record: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("journal record %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]models.TxRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, operation_id, operation, step, hash, status, error, created_at, updated_at
		FROM tx_journal ORDER BY created_at DESC, rowid DESC LIMIT ?`
	return r.query(ctx, query, limit)
}

func (r *SQLiteRepository) Operation(ctx context.Context, operationID string) ([]models.TxRecord, error) {
	query := `SELECT id, operation_id, operation, step, hash, status, error, created_at, updated_at
		FROM tx_journal WHERE operation_id = ? ORDER BY created_at, rowid`
	return r.query(ctx, query, operationID)
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.TxRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select journal records: %w", err)
	}
	defer rows.Close()

	var result []models.TxRecord
	for rows.Next() {
		var (
			rec              models.TxRecord
			status           string
			created, updated int64
		)
		if err := rows.Scan(&rec.Id, &rec.OperationId, &rec.Operation, &rec.Step, &rec.Hash,
			&status, &rec.Error, &created, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan journal record: %w", err)
		}
		rec.Status = models.TxStatus(status)
		rec.CreatedAt = time.Unix(0, created).UTC()
		rec.UpdatedAt = time.Unix(0, updated).UTC()
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal records: %w", err)
	}
	return result, nil
}
