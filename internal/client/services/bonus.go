package services

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/dmitrijs2005/paystream/internal/client/ledger"
	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/dmitrijs2005/paystream/internal/clock"
	"github.com/dmitrijs2005/paystream/internal/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// BonusActions lists the controls offered for one bonus.
type BonusActions struct {
	Cancel bool
	Claim  bool
}

// ActionsFor reports the controls of b at now. Claimed bonuses are
// terminal and offer nothing.
func ActionsFor(b models.ScheduledBonus, now time.Time) BonusActions {
	if !b.Exists || b.Claimed {
		return BonusActions{}
	}
	return BonusActions{Cancel: true, Claim: b.Matured(now)}
}

// BonusManager runs the scheduled-bonus workflow of one employee.
type BonusManager struct {
	ledger   ledger.Ledger
	orch     *Orchestrator
	clock    clock.Clock
	employee ethcommon.Address
	refresh  Refresh

	mu      sync.Mutex
	bonuses []models.ScheduledBonus
}

// NewBonusManager scopes a manager to employee. refresh, if set, runs after
// the bonus list is reloaded following a confirmed write.
func NewBonusManager(l ledger.Ledger, orch *Orchestrator, clk clock.Clock, employee ethcommon.Address, refresh Refresh) *BonusManager {
	return &BonusManager{ledger: l, orch: orch, clock: clk, employee: employee, refresh: refresh}
}

func (m *BonusManager) Employee() ethcommon.Address { return m.employee }

// Load enumerates the employee's live bonuses.
func (m *BonusManager) Load(ctx context.Context) ([]models.ScheduledBonus, error) {
	list, err := LoadBonuses(ctx, m.ledger, m.employee)
	if err != nil {
		return nil, fmt.Errorf("%w: bonuses of %s: %w", common.ErrRead, m.employee.Hex(), err)
	}
	m.mu.Lock()
	m.bonuses = list
	m.mu.Unlock()
	return list, nil
}

// Bonuses returns the list from the last Load.
func (m *BonusManager) Bonuses() []models.ScheduledBonus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ScheduledBonus(nil), m.bonuses...)
}

// Actions reports the controls of b right now.
func (m *BonusManager) Actions(b models.ScheduledBonus) BonusActions {
	return ActionsFor(b, m.clock.Now())
}

// Schedule releases amount to the employee after delay, truncated to whole
// seconds.
func (m *BonusManager) Schedule(ctx context.Context, amount *big.Int, delay time.Duration) (Result, error) {
	if err := ValidateAmount("bonus amount", amount); err != nil {
		return Result{}, err
	}
	if delay < 0 {
		return Result{}, fmt.Errorf("%w: bonus delay must not be negative", common.ErrValidation)
	}
	release := time.Unix(m.clock.Now().Unix()+int64(delay/time.Second), 0).UTC()
	return m.orch.Execute(ctx, Operation{
		Name: "scheduleBonus",
		Submit: func(ctx context.Context) (ethcommon.Hash, error) {
			return m.ledger.ScheduleBonus(ctx, m.employee, amount, release)
		},
	}, m.reload)
}

// Cancel withdraws an unclaimed bonus.
func (m *BonusManager) Cancel(ctx context.Context, index uint64) (Result, error) {
	if _, err := m.lookup(ctx, index); err != nil {
		return Result{}, err
	}
	return m.orch.Execute(ctx, Operation{
		Name: "cancelScheduledBonus",
		Submit: func(ctx context.Context) (ethcommon.Hash, error) {
			return m.ledger.CancelScheduledBonus(ctx, m.employee, index)
		},
	}, m.reload)
}

// Claim collects a released bonus. Only the employee may call it.
func (m *BonusManager) Claim(ctx context.Context, index uint64) (Result, error) {
	b, err := m.lookup(ctx, index)
	if err != nil {
		return Result{}, err
	}
	if now := m.clock.Now(); !b.Matured(now) {
		return Result{}, fmt.Errorf("%w: bonus %d releases at %s", common.ErrBonusNotMatured, index, b.ReleaseTime.Format(time.RFC3339))
	}
	return m.orch.Execute(ctx, Operation{
		Name: "claimScheduledBonus",
		Submit: func(ctx context.Context) (ethcommon.Hash, error) {
			return m.ledger.ClaimScheduledBonus(ctx, index)
		},
	}, m.reload)
}

// lookup reads slot index fresh from the ledger and rejects vacated and
// claimed slots.
func (m *BonusManager) lookup(ctx context.Context, index uint64) (models.ScheduledBonus, error) {
	b, err := m.ledger.ScheduledBonus(ctx, m.employee, index)
	if err != nil {
		return models.ScheduledBonus{}, fmt.Errorf("%w: bonus %d: %w", common.ErrRead, index, err)
	}
	if !b.Exists {
		return b, fmt.Errorf("bonus %d: %w", index, common.ErrNotFound)
	}
	if b.Claimed {
		return b, fmt.Errorf("bonus %d: %w", index, common.ErrBonusClaimed)
	}
	return b, nil
}

func (m *BonusManager) reload(ctx context.Context) error {
	if _, err := m.Load(ctx); err != nil {
		return err
	}
	if m.refresh != nil {
		return m.refresh(ctx)
	}
	return nil
}
