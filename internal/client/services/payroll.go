package services

import (
	"context"
	"math/big"

	"github.com/dmitrijs2005/paystream/internal/client/ledger"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Payroll groups the treasury and stream actions of the three dashboards.
type Payroll struct {
	ledger ledger.Ledger
	orch   *Orchestrator
}

func NewPayroll(l ledger.Ledger, orch *Orchestrator) *Payroll {
	return &Payroll{ledger: l, orch: orch}
}

func (p *Payroll) single(ctx context.Context, name string, submit func(context.Context) (ethcommon.Hash, error), refresh Refresh) (Result, error) {
	return p.orch.Execute(ctx, Operation{Name: name, Submit: submit}, refresh)
}

// Deposit funds the treasury from the admin's tokens.
func (p *Payroll) Deposit(ctx context.Context, from ethcommon.Address, amount *big.Int, refresh Refresh) (Result, error) {
	if err := ValidateAmount("deposit amount", amount); err != nil {
		return Result{}, err
	}
	return p.orch.GrantThenAct(ctx, Grant{Owner: from, Amount: amount}, Operation{
		Name: "deposit",
		Submit: func(ctx context.Context) (ethcommon.Hash, error) {
			return p.ledger.Deposit(ctx, amount)
		},
	}, refresh)
}

// Mint calls the test token's faucet.
func (p *Payroll) Mint(ctx context.Context, to ethcommon.Address, amount *big.Int, refresh Refresh) (Result, error) {
	if err := ValidateAmount("mint amount", amount); err != nil {
		return Result{}, err
	}
	return p.single(ctx, "mint", func(ctx context.Context) (ethcommon.Hash, error) {
		return p.ledger.Mint(ctx, to, amount)
	}, refresh)
}

func (p *Payroll) StartStream(ctx context.Context, employee ethcommon.Address, rate *big.Int, refresh Refresh) (Result, error) {
	if err := ValidateAmount("salary rate", rate); err != nil {
		return Result{}, err
	}
	return p.single(ctx, "startStream", func(ctx context.Context) (ethcommon.Hash, error) {
		return p.ledger.StartStream(ctx, employee, rate)
	}, refresh)
}

func (p *Payroll) UpdateSalary(ctx context.Context, employee ethcommon.Address, rate *big.Int, refresh Refresh) (Result, error) {
	if err := ValidateAmount("salary rate", rate); err != nil {
		return Result{}, err
	}
	return p.single(ctx, "updateSalary", func(ctx context.Context) (ethcommon.Hash, error) {
		return p.ledger.UpdateSalary(ctx, employee, rate)
	}, refresh)
}

func (p *Payroll) Pause(ctx context.Context, employee ethcommon.Address, refresh Refresh) (Result, error) {
	return p.single(ctx, "pauseStream", func(ctx context.Context) (ethcommon.Hash, error) {
		return p.ledger.PauseStream(ctx, employee)
	}, refresh)
}

func (p *Payroll) Resume(ctx context.Context, employee ethcommon.Address, refresh Refresh) (Result, error) {
	return p.single(ctx, "resumeStream", func(ctx context.Context) (ethcommon.Hash, error) {
		return p.ledger.ResumeStream(ctx, employee)
	}, refresh)
}

func (p *Payroll) Terminate(ctx context.Context, employee ethcommon.Address, refresh Refresh) (Result, error) {
	return p.single(ctx, "terminateEmployee", func(ctx context.Context) (ethcommon.Hash, error) {
		return p.ledger.TerminateEmployee(ctx, employee)
	}, refresh)
}

// UpdateTax rejects percentages above the ceiling before touching the ledger.
func (p *Payroll) UpdateTax(ctx context.Context, employee ethcommon.Address, percent int, refresh Refresh) (Result, error) {
	if err := ValidateTaxPercent(percent); err != nil {
		return Result{}, err
	}
	return p.single(ctx, "updateTax", func(ctx context.Context) (ethcommon.Hash, error) {
		return p.ledger.UpdateTax(ctx, employee, uint8(percent))
	}, refresh)
}

func (p *Payroll) CollectTax(ctx context.Context, refresh Refresh) (Result, error) {
	return p.single(ctx, "collectTax", p.ledger.CollectTax, refresh)
}

func (p *Payroll) DistributeYield(ctx context.Context, employee ethcommon.Address, refresh Refresh) (Result, error) {
	return p.single(ctx, "distributeYield", func(ctx context.Context) (ethcommon.Hash, error) {
		return p.ledger.DistributeYield(ctx, employee)
	}, refresh)
}

func (p *Payroll) CollectPlatformFees(ctx context.Context, refresh Refresh) (Result, error) {
	return p.single(ctx, "collectPlatformFees", p.ledger.CollectPlatformFees, refresh)
}

func (p *Payroll) Withdraw(ctx context.Context, refresh Refresh) (Result, error) {
	return p.single(ctx, "withdrawSalary", p.ledger.WithdrawSalary, refresh)
}

func (p *Payroll) ClaimYield(ctx context.Context, refresh Refresh) (Result, error) {
	return p.single(ctx, "claimYield", p.ledger.ClaimYield, refresh)
}
