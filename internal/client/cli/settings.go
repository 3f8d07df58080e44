package cli

import (
	"context"

	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/dmitrijs2005/paystream/internal/client/services"
)

func (a *App) toggleOffRamp(ctx context.Context, _ []string) error {
	return a.run("toggleOffRamp", func() (services.Result, error) {
		return a.settings.ToggleOffRamp(ctx)
	})
}

func (a *App) exchangeRate(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	currency, err := models.ParseCurrency(args[0])
	if err != nil {
		return err
	}
	rate, err := argInteger(args, 1)
	if err != nil {
		return err
	}
	return a.run("updateExchangeRate", func() (services.Result, error) {
		return a.settings.SetExchangeRate(ctx, currency, rate)
	})
}

func (a *App) yieldRate(ctx context.Context, args []string) error {
	bps, err := argInt(args, 0)
	if err != nil {
		return err
	}
	return a.run("updateYieldRate", func() (services.Result, error) {
		return a.settings.SetYieldRate(ctx, bps)
	})
}

func (a *App) platformFee(ctx context.Context, args []string) error {
	s, err := a.currentSession()
	if err != nil {
		return err
	}
	percent, err := argInt(args, 0)
	if err != nil {
		return err
	}
	return a.run("updatePlatformFee", func() (services.Result, error) {
		return a.settings.SetPlatformFee(ctx, s.View, percent)
	})
}

func (a *App) collectFees(ctx context.Context, _ []string) error {
	return a.run("collectPlatformFees", func() (services.Result, error) {
		return a.payroll.CollectPlatformFees(ctx, a.refresh)
	})
}

func (a *App) processOffRamp(ctx context.Context, args []string) error {
	s, err := a.currentSession()
	if err != nil {
		return err
	}
	addr, err := argAddress(args, 0)
	if err != nil {
		return err
	}
	index, err := argIndex(args, 1)
	if err != nil {
		return err
	}
	if err := a.run("processOffRamp", func() (services.Result, error) {
		return a.offRamps.Process(ctx, s.View, addr, index)
	}); err != nil {
		return err
	}
	list, err := a.offRamps.Load(ctx, addr)
	if err != nil {
		return err
	}
	renderOffRamps(a.out, list)
	return nil
}
