package models

import "time"

// TxStatus is the lifecycle state of a journaled transaction.
type TxStatus string

const (
	TxPending   TxStatus = "pending"
	TxConfirmed TxStatus = "confirmed"
	TxFailed    TxStatus = "failed"
)

// TxRecord is one step of an orchestrated write as kept in the local journal.
type TxRecord struct {
	Id string

	// OperationId groups the steps of one grant-then-act sequence.
	OperationId string

	// Operation is the logical action ("deposit", "requestOffRamp").
	Operation string

	// Step is "grant" or "action".
	Step string

	// Hash is the submitted transaction hash, empty if submission failed.
	Hash string

	Status TxStatus

	// Error carries the failure text for TxFailed records.
	Error string

	CreatedAt time.Time
	UpdatedAt time.Time
}
