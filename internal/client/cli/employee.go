package cli

import (
	"context"

	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/dmitrijs2005/paystream/internal/client/services"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

func (a *App) withdraw(ctx context.Context, _ []string) error {
	return a.run("withdrawSalary", func() (services.Result, error) {
		return a.payroll.Withdraw(ctx, a.refresh)
	})
}

func (a *App) claimYield(ctx context.Context, _ []string) error {
	return a.run("claimYield", func() (services.Result, error) {
		return a.payroll.ClaimYield(ctx, a.refresh)
	})
}

func (a *App) claimBonus(ctx context.Context, args []string) error {
	s, err := a.currentSession()
	if err != nil {
		return err
	}
	index, err := argIndex(args, 0)
	if err != nil {
		return err
	}
	m := a.bonusManager(s.Identity)
	if err := a.run("claimScheduledBonus", func() (services.Result, error) {
		return m.Claim(ctx, index)
	}); err != nil {
		return err
	}
	renderBonuses(a.out, m.Bonuses(), a.clock.Now())
	return nil
}

func (a *App) requestOffRamp(ctx context.Context, args []string) error {
	s, err := a.currentSession()
	if err != nil {
		return err
	}
	amount, err := argTokens(args, 0)
	if err != nil {
		return err
	}
	currency := models.CurrencyINR
	if len(args) > 1 {
		if currency, err = models.ParseCurrency(args[1]); err != nil {
			return err
		}
	}
	return a.run("requestOffRamp", func() (services.Result, error) {
		return a.offRamps.Request(ctx, s.Identity, amount, currency)
	})
}

// subject is the employee a list command is about: the argument in the
// privileged views, the connected identity otherwise.
func (a *App) subject(args []string) (ethcommon.Address, error) {
	s, err := a.currentSession()
	if err != nil {
		return ethcommon.Address{}, err
	}
	if !s.Privileged() {
		return s.Identity, nil
	}
	return argAddress(args, 0)
}

func (a *App) bonuses(ctx context.Context, args []string) error {
	addr, err := a.subject(args)
	if err != nil {
		return err
	}
	list, err := a.bonusManager(addr).Load(ctx)
	if err != nil {
		return err
	}
	renderBonuses(a.out, list, a.clock.Now())
	return nil
}

func (a *App) listOffRamps(ctx context.Context, args []string) error {
	addr, err := a.subject(args)
	if err != nil {
		return err
	}
	list, err := a.offRamps.Load(ctx, addr)
	if err != nil {
		return err
	}
	renderOffRamps(a.out, list)
	return nil
}
