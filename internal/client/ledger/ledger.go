// Package ledger is the typed client of the PayStream payroll contract and
// its token.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract split by capability: PrivilegedReader,
//     Reader, Writer, Token and Confirmer, composed into Ledger.
//  2. A go-ethereum implementation (EVMLedger) that packs calls with the
//     contract ABI, decodes outputs into models records, submits writes with
//     the session signer and polls receipts for confirmation.
//
// # Error Handling
//
// Failed reads wrap common.ErrRead, rejected writes and failed receipts wrap
// common.ErrTransaction, and writes without a connected signer wrap
// common.ErrConnection. Match them with errors.Is.
//
// Writes return the transaction hash as soon as the node accepts it; call
// WaitConfirmed to block until it is mined.
package ledger

import (
	"context"
	"math/big"
	"time"

	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/ethereum/go-ethereum/common"
)

// PrivilegedReader reads the two privileged addresses of the contract.
type PrivilegedReader interface {
	Admin(ctx context.Context) (common.Address, error)
	PlatformOwner(ctx context.Context) (common.Address, error)
}

// Reader is the complete read surface of the contract.
type Reader interface {
	PrivilegedReader

	OffRampEnabled(ctx context.Context) (bool, error)
	YieldRateBps(ctx context.Context) (uint16, error)
	PlatformFeePercent(ctx context.Context) (uint8, error)
	DefaultTaxPercent(ctx context.Context) (uint8, error)
	ExchangeRate(ctx context.Context, currency models.Currency) (*big.Int, error)

	// Dashboard fills the aggregate fields of the snapshot only; the global
	// flags are separate reads.
	Dashboard(ctx context.Context) (models.DashboardSnapshot, error)

	EmployeeAt(ctx context.Context, index uint64) (common.Address, error)
	SalaryInfo(ctx context.Context, employee common.Address) (models.SalaryInfo, error)
	Stream(ctx context.Context, employee common.Address) (models.StreamInfo, error)
	YieldInfo(ctx context.Context, employee common.Address) (models.YieldInfo, error)
	BonusInfo(ctx context.Context, employee common.Address) (models.BonusInfo, error)

	ScheduledBonusCount(ctx context.Context, employee common.Address) (uint64, error)
	ScheduledBonus(ctx context.Context, employee common.Address, index uint64) (models.ScheduledBonus, error)
	OffRampCount(ctx context.Context, employee common.Address) (uint64, error)
	OffRampRequest(ctx context.Context, employee common.Address, index uint64) (models.OffRampRequest, error)
}

// Writer is the write surface of the contract, grouped by the role the
// ledger expects to call it.
type Writer interface {
	// Admin.
	Deposit(ctx context.Context, amount *big.Int) (common.Hash, error)
	StartStream(ctx context.Context, employee common.Address, ratePerSecond *big.Int) (common.Hash, error)
	UpdateSalary(ctx context.Context, employee common.Address, ratePerSecond *big.Int) (common.Hash, error)
	PauseStream(ctx context.Context, employee common.Address) (common.Hash, error)
	ResumeStream(ctx context.Context, employee common.Address) (common.Hash, error)
	TerminateEmployee(ctx context.Context, employee common.Address) (common.Hash, error)
	UpdateTax(ctx context.Context, employee common.Address, percent uint8) (common.Hash, error)
	CollectTax(ctx context.Context) (common.Hash, error)
	ScheduleBonus(ctx context.Context, employee common.Address, amount *big.Int, release time.Time) (common.Hash, error)
	CancelScheduledBonus(ctx context.Context, employee common.Address, index uint64) (common.Hash, error)
	DistributeYield(ctx context.Context, employee common.Address) (common.Hash, error)
	UpdateExchangeRate(ctx context.Context, currency models.Currency, rate *big.Int) (common.Hash, error)
	ToggleOffRamp(ctx context.Context) (common.Hash, error)
	ProcessOffRamp(ctx context.Context, employee common.Address, index uint64) (common.Hash, error)

	// Owner.
	CollectPlatformFees(ctx context.Context) (common.Hash, error)
	UpdatePlatformFee(ctx context.Context, percent uint8) (common.Hash, error)
	UpdateYieldRate(ctx context.Context, bps uint16) (common.Hash, error)

	// Employee.
	WithdrawSalary(ctx context.Context) (common.Hash, error)
	ClaimYield(ctx context.Context) (common.Hash, error)
	ClaimScheduledBonus(ctx context.Context, index uint64) (common.Hash, error)
	RequestOffRamp(ctx context.Context, amount *big.Int, currency models.Currency) (common.Hash, error)
}

// Token is the payroll token surface used by grant-then-act sequences.
type Token interface {
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
	BalanceOf(ctx context.Context, account common.Address) (*big.Int, error)
	Approve(ctx context.Context, spender common.Address, amount *big.Int) (common.Hash, error)
	// Mint is the test-only faucet of the token.
	Mint(ctx context.Context, to common.Address, amount *big.Int) (common.Hash, error)
}

// Confirmer waits for a submitted transaction to be mined successfully.
type Confirmer interface {
	WaitConfirmed(ctx context.Context, hash common.Hash) error
}

// Ledger is everything the dashboard needs from the chain.
type Ledger interface {
	Reader
	Writer
	Token
	Confirmer

	// Spender is the contract address token allowances are granted to.
	Spender() common.Address

	// Ping checks that the node answers.
	Ping(ctx context.Context) error
}
