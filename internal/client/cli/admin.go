package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/paystream/internal/client/services"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// faucetAmount is what mint hands out when no amount is given.
const faucetAmount = "10000"

func (a *App) deposit(ctx context.Context, args []string) error {
	s, err := a.currentSession()
	if err != nil {
		return err
	}
	amount, err := argTokens(args, 0)
	if err != nil {
		return err
	}
	return a.run("deposit", func() (services.Result, error) {
		return a.payroll.Deposit(ctx, s.Identity, amount, a.refresh)
	})
}

// mint calls the test token faucet for the connected identity.
func (a *App) mint(ctx context.Context, args []string) error {
	s, err := a.currentSession()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{faucetAmount}
	}
	amount, err := argTokens(args, 0)
	if err != nil {
		return err
	}
	return a.run("mint", func() (services.Result, error) {
		return a.payroll.Mint(ctx, s.Identity, amount, nil)
	})
}

func (a *App) startStream(ctx context.Context, args []string) error {
	addr, err := argAddress(args, 0)
	if err != nil {
		return err
	}
	rate, err := argTokens(args, 1)
	if err != nil {
		return err
	}
	return a.run("startStream", func() (services.Result, error) {
		return a.payroll.StartStream(ctx, addr, rate, a.refresh)
	})
}

func (a *App) updateSalary(ctx context.Context, args []string) error {
	addr, err := argAddress(args, 0)
	if err != nil {
		return err
	}
	rate, err := argTokens(args, 1)
	if err != nil {
		return err
	}
	return a.run("updateSalary", func() (services.Result, error) {
		return a.payroll.UpdateSalary(ctx, addr, rate, a.refresh)
	})
}

func (a *App) pause(ctx context.Context, args []string) error {
	addr, err := argAddress(args, 0)
	if err != nil {
		return err
	}
	return a.run("pauseStream", func() (services.Result, error) {
		return a.payroll.Pause(ctx, addr, a.refresh)
	})
}

func (a *App) resume(ctx context.Context, args []string) error {
	addr, err := argAddress(args, 0)
	if err != nil {
		return err
	}
	return a.run("resumeStream", func() (services.Result, error) {
		return a.payroll.Resume(ctx, addr, a.refresh)
	})
}

func (a *App) terminate(ctx context.Context, args []string) error {
	addr, err := argAddress(args, 0)
	if err != nil {
		return err
	}
	ok, err := Confirm(a.reader, fmt.Sprintf("Terminate %s? This cannot be undone.", addr.Hex()), a.out)
	if err != nil {
		return err
	}
	if !ok {
		a.println("Cancelled.")
		return nil
	}
	return a.run("terminateEmployee", func() (services.Result, error) {
		return a.payroll.Terminate(ctx, addr, a.refresh)
	})
}

func (a *App) updateTax(ctx context.Context, args []string) error {
	addr, err := argAddress(args, 0)
	if err != nil {
		return err
	}
	percent, err := argInt(args, 1)
	if err != nil {
		return err
	}
	return a.run("updateTax", func() (services.Result, error) {
		return a.payroll.UpdateTax(ctx, addr, percent, a.refresh)
	})
}

func (a *App) collectTax(ctx context.Context, _ []string) error {
	return a.run("collectTax", func() (services.Result, error) {
		return a.payroll.CollectTax(ctx, a.refresh)
	})
}

func (a *App) distributeYield(ctx context.Context, args []string) error {
	addr, err := argAddress(args, 0)
	if err != nil {
		return err
	}
	return a.run("distributeYield", func() (services.Result, error) {
		return a.payroll.DistributeYield(ctx, addr, a.refresh)
	})
}

func (a *App) scheduleBonus(ctx context.Context, args []string) error {
	addr, err := argAddress(args, 0)
	if err != nil {
		return err
	}
	amount, err := argTokens(args, 1)
	if err != nil {
		return err
	}
	delay, err := argDelay(args, 2)
	if err != nil {
		return err
	}
	m := a.bonusManager(addr)
	if err := a.run("scheduleBonus", func() (services.Result, error) {
		return m.Schedule(ctx, amount, delay)
	}); err != nil {
		return err
	}
	renderBonuses(a.out, m.Bonuses(), a.clock.Now())
	return nil
}

func (a *App) cancelBonus(ctx context.Context, args []string) error {
	addr, err := argAddress(args, 0)
	if err != nil {
		return err
	}
	index, err := argIndex(args, 1)
	if err != nil {
		return err
	}
	m := a.bonusManager(addr)
	if err := a.run("cancelScheduledBonus", func() (services.Result, error) {
		return m.Cancel(ctx, index)
	}); err != nil {
		return err
	}
	renderBonuses(a.out, m.Bonuses(), a.clock.Now())
	return nil
}

func (a *App) bonusManager(employee ethcommon.Address) *services.BonusManager {
	return services.NewBonusManager(a.ledger, a.orch, a.clock, employee, a.refresh)
}

func (a *App) run(op string, fn func() (services.Result, error)) error {
	res, err := fn()
	if err != nil {
		return err
	}
	a.report(op, res)
	return nil
}
