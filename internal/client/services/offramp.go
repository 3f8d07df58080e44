package services

import (
	"context"
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/paystream/internal/client/ledger"
	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/dmitrijs2005/paystream/internal/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// OffRampManager runs fiat conversion requests.
type OffRampManager struct {
	ledger  ledger.Ledger
	orch    *Orchestrator
	refresh Refresh
}

func NewOffRampManager(l ledger.Ledger, orch *Orchestrator, refresh Refresh) *OffRampManager {
	return &OffRampManager{ledger: l, orch: orch, refresh: refresh}
}

// Load lists the requests of employee. Requests are never deleted.
func (m *OffRampManager) Load(ctx context.Context, employee ethcommon.Address) ([]models.OffRampRequest, error) {
	list, err := LoadOffRamps(ctx, m.ledger, employee)
	if err != nil {
		return nil, fmt.Errorf("%w: off-ramps of %s: %w", common.ErrRead, employee.Hex(), err)
	}
	return list, nil
}

// Request converts amount of the employee's tokens into currency. The
// ledger is granted exactly amount first when the allowance is short.
func (m *OffRampManager) Request(ctx context.Context, employee ethcommon.Address, amount *big.Int, currency models.Currency) (Result, error) {
	if err := ValidateAmount("off-ramp amount", amount); err != nil {
		return Result{}, err
	}
	return m.orch.GrantThenAct(ctx, Grant{Owner: employee, Amount: amount}, Operation{
		Name: "requestOffRamp",
		Submit: func(ctx context.Context) (ethcommon.Hash, error) {
			return m.ledger.RequestOffRamp(ctx, amount, currency)
		},
	}, m.refresh)
}

// Process marks a pending request as paid out. Only the admin and owner
// views may process requests.
func (m *OffRampManager) Process(ctx context.Context, view models.ViewMode, employee ethcommon.Address, index uint64) (Result, error) {
	if view != models.AdminView && view != models.OwnerView {
		return Result{}, fmt.Errorf("%w: processing off-ramps needs the admin or owner view", common.ErrNotPermitted)
	}
	req, err := m.ledger.OffRampRequest(ctx, employee, index)
	if err != nil {
		return Result{}, fmt.Errorf("%w: off-ramp %d: %w", common.ErrRead, index, err)
	}
	if !req.Exists {
		return Result{}, fmt.Errorf("off-ramp %d: %w", index, common.ErrNotFound)
	}
	if req.Processed {
		return Result{}, fmt.Errorf("off-ramp %d: %w", index, common.ErrAlreadyProcessed)
	}
	return m.orch.Execute(ctx, Operation{
		Name: "processOffRamp",
		Submit: func(ctx context.Context) (ethcommon.Hash, error) {
			return m.ledger.ProcessOffRamp(ctx, employee, index)
		},
	}, m.refresh)
}
