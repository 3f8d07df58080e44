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

// SettingsPanel holds the independent global settings of the ledger. Each
// update is a single write followed by a refresh.
type SettingsPanel struct {
	ledger  ledger.Writer
	orch    *Orchestrator
	refresh Refresh
}

func NewSettingsPanel(l ledger.Writer, orch *Orchestrator, refresh Refresh) *SettingsPanel {
	return &SettingsPanel{ledger: l, orch: orch, refresh: refresh}
}

func (p *SettingsPanel) ToggleOffRamp(ctx context.Context) (Result, error) {
	return p.orch.Execute(ctx, Operation{Name: "toggleOffRamp", Submit: p.ledger.ToggleOffRamp}, p.refresh)
}

func (p *SettingsPanel) SetYieldRate(ctx context.Context, bps int) (Result, error) {
	if err := ValidateYieldRateBps(bps); err != nil {
		return Result{}, err
	}
	return p.orch.Execute(ctx, Operation{
		Name: "updateYieldRate",
		Submit: func(ctx context.Context) (ethcommon.Hash, error) {
			return p.ledger.UpdateYieldRate(ctx, uint16(bps))
		},
	}, p.refresh)
}

func (p *SettingsPanel) SetExchangeRate(ctx context.Context, currency models.Currency, rate *big.Int) (Result, error) {
	if err := ValidateAmount("exchange rate", rate); err != nil {
		return Result{}, err
	}
	return p.orch.Execute(ctx, Operation{
		Name: "updateExchangeRate",
		Submit: func(ctx context.Context) (ethcommon.Hash, error) {
			return p.ledger.UpdateExchangeRate(ctx, currency, rate)
		},
	}, p.refresh)
}

// SetPlatformFee is only available in the owner view.
func (p *SettingsPanel) SetPlatformFee(ctx context.Context, view models.ViewMode, percent int) (Result, error) {
	if view != models.OwnerView {
		return Result{}, fmt.Errorf("%w: platform fee is set from the owner view", common.ErrNotPermitted)
	}
	if err := ValidatePlatformFeePercent(percent); err != nil {
		return Result{}, err
	}
	return p.orch.Execute(ctx, Operation{
		Name: "updatePlatformFee",
		Submit: func(ctx context.Context) (ethcommon.Hash, error) {
			return p.ledger.UpdatePlatformFee(ctx, uint8(percent))
		},
	}, p.refresh)
}
