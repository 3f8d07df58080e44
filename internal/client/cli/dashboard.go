package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/dmitrijs2005/paystream/internal/client/services"
	"github.com/dmitrijs2005/paystream/internal/common"
)

// refresh re-reads the dashboard of the current session. It is also the
// Refresh hook every write runs after confirmation.
func (a *App) refresh(ctx context.Context) error {
	s, err := a.currentSession()
	if err != nil {
		return err
	}

	switch s.Dashboard() {
	case models.DashboardAdmin, models.DashboardOwner:
		if s.OwnerLocked() {
			return nil
		}
		snap, err := a.fetcher.RefreshAdmin(ctx)
		if err != nil {
			return err
		}
		a.cache(ctx, s, snap, snap.FetchedAt)

	case models.DashboardEmployee:
		snap, err := a.fetcher.RefreshEmployee(ctx, s.Identity)
		if err != nil {
			return err
		}
		if snap.HasStream() {
			a.estimator.Reset(snap.Salary.GrossEarned, snap.Salary.RatePerSecond, snap.Salary.Active, snap.Salary.Paused)
		} else {
			a.estimator.Stop()
		}
		a.cache(ctx, s, snap, snap.FetchedAt)
	}
	return nil
}

func (a *App) cache(ctx context.Context, s models.Session, v any, at time.Time) {
	if a.store == nil {
		return
	}
	if err := a.store.SaveSnapshot(ctx, s.Identity, s.View, v, at); err != nil {
		a.log.Warn(ctx, "failed to cache snapshot", "view", s.View, "error", err)
	}
}

// refreshAndShow refreshes and renders. A failed read is reported and the
// retained snapshot is rendered instead; it does not fail the command.
func (a *App) refreshAndShow(ctx context.Context) error {
	if err := a.refresh(ctx); err != nil {
		switch {
		case errors.Is(err, common.ErrStaleFetch):
		case errors.Is(err, common.ErrRead):
			a.printf("Ledger read failed, showing the last snapshot: %v\n", err)
		default:
			return err
		}
	}
	return a.show(ctx, nil)
}

func (a *App) refreshCmd(ctx context.Context, _ []string) error {
	return a.refreshAndShow(ctx)
}

// show renders the dashboard of the current session without reading the
// ledger. Without an in-memory snapshot it falls back to the local cache.
func (a *App) show(ctx context.Context, _ []string) error {
	s, err := a.currentSession()
	if err != nil {
		return err
	}

	switch s.Dashboard() {
	case models.DashboardAdmin:
		snap, fresh, at, ok := a.adminSnapshot(ctx, s)
		if !ok {
			a.println("No dashboard data yet. Run refresh.")
			return nil
		}
		a.staleNotice(fresh, at)
		renderAdmin(a.out, snap)

	case models.DashboardOwner:
		if s.OwnerLocked() {
			a.println("Owner view is locked. Run unlock.")
			return nil
		}
		snap, fresh, at, ok := a.adminSnapshot(ctx, s)
		if !ok {
			a.println("No dashboard data yet. Run refresh.")
			return nil
		}
		a.staleNotice(fresh, at)
		renderOwner(a.out, snap)

	case models.DashboardEmployee:
		snap, fresh, at, ok := a.employeeSnapshot(ctx, s)
		if !ok {
			a.println("No dashboard data yet. Run refresh.")
			return nil
		}
		a.staleNotice(fresh, at)
		live := a.estimator.Value()
		if !fresh {
			live = nil
		}
		renderEmployee(a.out, snap, live, a.clock.Now())

	default:
		return fmt.Errorf("%w: role %s cannot display the %s view", common.ErrNotPermitted, s.Role, s.View)
	}
	return nil
}

func (a *App) staleNotice(fresh bool, at time.Time) {
	if !fresh {
		a.printf("[%s] cached snapshot from %s\n", a.Mode(), at.Format(time.RFC3339))
	}
}

func (a *App) adminSnapshot(ctx context.Context, s models.Session) (services.AdminSnapshot, bool, time.Time, bool) {
	if snap, ok := a.fetcher.Admin(); ok {
		return snap, true, snap.FetchedAt, true
	}
	var snap services.AdminSnapshot
	at, ok := a.loadCached(ctx, s, &snap)
	return snap, false, at, ok
}

func (a *App) employeeSnapshot(ctx context.Context, s models.Session) (services.EmployeeSnapshot, bool, time.Time, bool) {
	if snap, ok := a.fetcher.Employee(); ok && snap.Identity == s.Identity {
		return snap, true, snap.FetchedAt, true
	}
	var snap services.EmployeeSnapshot
	at, ok := a.loadCached(ctx, s, &snap)
	return snap, false, at, ok
}

func (a *App) loadCached(ctx context.Context, s models.Session, v any) (time.Time, bool) {
	if a.store == nil {
		return time.Time{}, false
	}
	at, ok, err := a.store.LoadSnapshot(ctx, s.Identity, s.View, v)
	if err != nil {
		a.log.Warn(ctx, "failed to load cached snapshot", "view", s.View, "error", err)
		return time.Time{}, false
	}
	return at, ok
}

// watch prints the live estimate for the next n ticks.
func (a *App) watch(ctx context.Context, args []string) error {
	n := 5
	if len(args) > 0 {
		v, err := argInt(args, 0)
		if err != nil {
			return err
		}
		n = v
	}
	if !a.estimator.Running() {
		a.printf("Earned: %s (not streaming)\n", models.FormatToken(a.estimator.Value()))
		return nil
	}
	select {
	case <-a.ticks:
	default:
	}
	for i := 0; i < n; i++ {
		select {
		case v := <-a.ticks:
			a.printf("Earned: %s (estimate)\n", models.FormatToken(v))
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
