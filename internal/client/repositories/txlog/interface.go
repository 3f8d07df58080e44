package txlog

import (
	"context"
	"time"

	"github.com/dmitrijs2005/paystream/internal/client/models"
)

// Repository persists journal records.
type Repository interface {
	// Insert stores a new record. Ids must be unique.
	Insert(ctx context.Context, rec models.TxRecord) error

	// UpdateStatus sets the hash, status and error text of record id.
	// It returns common.ErrNotFound for an unknown id.
	UpdateStatus(ctx context.Context, id, hash string, status models.TxStatus, errText string, at time.Time) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]models.TxRecord, error)

	// Operation returns the records of one operation in submission order.
	Operation(ctx context.Context, operationID string) ([]models.TxRecord, error)
}
