package services

import (
	"context"
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/paystream/internal/client/ledger"
	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/dmitrijs2005/paystream/internal/client/repositories/txlog"
	"github.com/dmitrijs2005/paystream/internal/clock"
	"github.com/dmitrijs2005/paystream/internal/common"
	"github.com/dmitrijs2005/paystream/internal/logging"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

const (
	StepGrant  = "grant"
	StepAction = "action"
)

// Operation is one named ledger write.
type Operation struct {
	Name   string
	Submit func(ctx context.Context) (ethcommon.Hash, error)
}

// Grant is the token allowance a grant-then-act operation needs.
type Grant struct {
	Owner  ethcommon.Address
	Amount *big.Int
}

// Refresh re-reads whatever view an operation affected.
type Refresh func(ctx context.Context) error

// Result describes a completed operation.
type Result struct {
	OperationID string
	Granted     bool
	GrantHash   ethcommon.Hash
	Hash        ethcommon.Hash
	// RefreshErr is set when the write confirmed but the follow-up refresh
	// failed. The write still counts as a success.
	RefreshErr error
}

// TxLedger is what the orchestrator needs from the ledger.
type TxLedger interface {
	ledger.Confirmer
	Allowance(ctx context.Context, owner, spender ethcommon.Address) (*big.Int, error)
	Approve(ctx context.Context, spender ethcommon.Address, amount *big.Int) (ethcommon.Hash, error)
	Spender() ethcommon.Address
}

// Orchestrator submits writes, waits for their confirmation and journals
// every step. It neither queues nor deduplicates; callers serialize.
type Orchestrator struct {
	ledger  TxLedger
	journal txlog.Repository
	clock   clock.Clock
	log     logging.Logger
}

// NewOrchestrator creates an orchestrator. journal may be nil.
func NewOrchestrator(l TxLedger, journal txlog.Repository, clk clock.Clock, log logging.Logger) *Orchestrator {
	return &Orchestrator{ledger: l, journal: journal, clock: clk, log: log}
}

// Execute submits op, waits until it is mined and then runs refresh.
func (o *Orchestrator) Execute(ctx context.Context, op Operation, refresh Refresh) (Result, error) {
	res := Result{OperationID: uuid.NewString()}
	hash, err := o.step(ctx, res.OperationID, op.Name, StepAction, op.Submit)
	res.Hash = hash
	if err != nil {
		return res, err
	}
	res.RefreshErr = o.refresh(ctx, op.Name, refresh)
	return res, nil
}

// GrantThenAct makes sure the ledger may spend grant.Amount of the owner's
// tokens before submitting op. When the current allowance is short it
// approves exactly grant.Amount and waits for that to confirm first. A
// confirmed grant is not undone if op later fails.
func (o *Orchestrator) GrantThenAct(ctx context.Context, grant Grant, op Operation, refresh Refresh) (Result, error) {
	if err := ValidateAmount(op.Name+" amount", grant.Amount); err != nil {
		return Result{}, err
	}
	res := Result{OperationID: uuid.NewString()}
	spender := o.ledger.Spender()

	allowance, err := o.ledger.Allowance(ctx, grant.Owner, spender)
	if err != nil {
		return res, fmt.Errorf("%w: allowance for %s: %w", common.ErrRead, op.Name, err)
	}
	if allowance.Cmp(grant.Amount) < 0 {
		amount := new(big.Int).Set(grant.Amount)
		hash, err := o.step(ctx, res.OperationID, op.Name, StepGrant, func(ctx context.Context) (ethcommon.Hash, error) {
			return o.ledger.Approve(ctx, spender, amount)
		})
		res.GrantHash = hash
		if err != nil {
			return res, fmt.Errorf("grant for %s: %w", op.Name, err)
		}
		res.Granted = true
	} else {
		o.log.Debug(ctx, "allowance covers amount, skipping grant", "operation", op.Name, "allowance", allowance.String())
	}

	hash, err := o.step(ctx, res.OperationID, op.Name, StepAction, op.Submit)
	res.Hash = hash
	if err != nil {
		return res, err
	}
	res.RefreshErr = o.refresh(ctx, op.Name, refresh)
	return res, nil
}

func (o *Orchestrator) step(ctx context.Context, opID, name, step string, submit func(context.Context) (ethcommon.Hash, error)) (ethcommon.Hash, error) {
	rec := models.TxRecord{
		Id:          uuid.NewString(),
		OperationId: opID,
		Operation:   name,
		Step:        step,
		Status:      models.TxPending,
		CreatedAt:   o.clock.Now(),
	}
	rec.UpdatedAt = rec.CreatedAt

	hash, err := submit(ctx)
	if err != nil {
		rec.Status, rec.Error = models.TxFailed, err.Error()
		o.record(ctx, rec)
		return ethcommon.Hash{}, fmt.Errorf("%s %s: %w", name, step, asTxError(err))
	}
	rec.Hash = hash.Hex()
	o.record(ctx, rec)
	o.log.Info(ctx, "transaction submitted", "operation", name, "step", step, "hash", rec.Hash)

	if err := o.ledger.WaitConfirmed(ctx, hash); err != nil {
		o.updateStatus(ctx, rec, models.TxFailed, err.Error())
		return hash, fmt.Errorf("%s %s: %w", name, step, asTxError(err))
	}
	o.updateStatus(ctx, rec, models.TxConfirmed, "")
	o.log.Info(ctx, "transaction confirmed", "operation", name, "step", step, "hash", rec.Hash)
	return hash, nil
}

func (o *Orchestrator) refresh(ctx context.Context, name string, refresh Refresh) error {
	if refresh == nil {
		return nil
	}
	if err := refresh(ctx); err != nil {
		o.log.Warn(ctx, "refresh after confirmed write failed", "operation", name, "error", err)
		return err
	}
	return nil
}

func (o *Orchestrator) record(ctx context.Context, rec models.TxRecord) {
	if o.journal == nil {
		return
	}
	if err := o.journal.Insert(ctx, rec); err != nil {
		o.log.Warn(ctx, "journal insert failed", "operation", rec.Operation, "error", err)
	}
}

func (o *Orchestrator) updateStatus(ctx context.Context, rec models.TxRecord, status models.TxStatus, errText string) {
	if o.journal == nil {
		return
	}
	if err := o.journal.UpdateStatus(ctx, rec.Id, rec.Hash, status, errText, o.clock.Now()); err != nil {
		o.log.Warn(ctx, "journal update failed", "operation", rec.Operation, "error", err)
	}
}

// asTxError makes sure a write failure matches ErrTransaction unless it is
// already a connection or validation failure.
func asTxError(err error) error {
	if errorsIsAny(err, common.ErrTransaction, common.ErrConnection, common.ErrValidation) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrTransaction, err)
}
