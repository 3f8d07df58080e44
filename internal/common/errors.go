// Package common defines shared constants and sentinel errors used across
// the PayStream dashboard. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Session establishment errors. These are the only errors that block
	// the dashboard as a whole.
	ErrConnection      = errors.New("wallet connection unavailable")
	ErrNetworkMismatch = errors.New("wrong network")

	// ErrRead marks a failed ledger read. A snapshot fetch that hits it is
	// abandoned and the previous snapshot stays on display.
	ErrRead = errors.New("ledger read failed")

	// ErrValidation marks a locally enforced bound. It never reaches the ledger.
	ErrValidation = errors.New("validation error")

	// ErrTransaction marks a rejected write or a failed confirmation.
	ErrTransaction = errors.New("transaction failed")

	// Access errors.
	ErrNotPermitted = errors.New("not permitted in current view")
	ErrLocked       = errors.New("view locked")

	ErrNotFound   = errors.New("not found")
	ErrStaleFetch = errors.New("stale fetch discarded")

	// Sub-workflow errors.
	ErrBonusNotMatured  = errors.New("bonus not yet released")
	ErrBonusClaimed     = errors.New("bonus already claimed")
	ErrAlreadyProcessed = errors.New("request already processed")
)
