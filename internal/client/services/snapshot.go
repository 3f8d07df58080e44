package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/paystream/internal/client/ledger"
	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/dmitrijs2005/paystream/internal/clock"
	"github.com/dmitrijs2005/paystream/internal/common"
	"github.com/dmitrijs2005/paystream/internal/logging"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// AdminSnapshot is the admin and owner dashboard state.
type AdminSnapshot struct {
	Dashboard models.DashboardSnapshot `json:"dashboard"`
	Employees []models.EmployeeRecord  `json:"employees"`
	FetchedAt time.Time                `json:"fetched_at"`
}

// EmployeeSnapshot is the employee dashboard state. Salary is nil when the
// identity has no stream record at all.
type EmployeeSnapshot struct {
	Identity  ethcommon.Address       `json:"identity"`
	Salary    *models.SalaryInfo      `json:"salary,omitempty"`
	Yield     models.YieldInfo        `json:"yield"`
	Bonus     models.BonusInfo        `json:"bonus"`
	Bonuses   []models.ScheduledBonus `json:"bonuses"`
	FetchedAt time.Time               `json:"fetched_at"`
}

// HasStream reports whether a salary record was found.
func (s EmployeeSnapshot) HasStream() bool { return s.Salary != nil }

// MaxEmployees bounds the employee table a single admin refresh reads.
const MaxEmployees = 10000

// SnapshotFetcher runs the reads of one view and keeps the latest snapshot
// per view. Each refresh takes a sequence number; only the newest refresh
// of a view may commit.
type SnapshotFetcher struct {
	reader      ledger.Reader
	clock       clock.Clock
	log         logging.Logger
	concurrency int

	mu          sync.Mutex
	adminSeq    uint64
	employeeSeq uint64
	admin       *AdminSnapshot
	employee    *EmployeeSnapshot
}

// NewSnapshotFetcher creates a fetcher issuing at most concurrency
// per-employee reads at a time.
func NewSnapshotFetcher(reader ledger.Reader, clk clock.Clock, log logging.Logger, concurrency int) *SnapshotFetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &SnapshotFetcher{reader: reader, clock: clk, log: log, concurrency: concurrency}
}

// Admin returns the last committed admin snapshot.
func (f *SnapshotFetcher) Admin() (AdminSnapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.admin == nil {
		return AdminSnapshot{}, false
	}
	return *f.admin, true
}

// Employee returns the last committed employee snapshot.
func (f *SnapshotFetcher) Employee() (EmployeeSnapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.employee == nil {
		return EmployeeSnapshot{}, false
	}
	return *f.employee, true
}

// Invalidate drops both snapshots and turns every in-flight refresh stale.
// Call it when the identity or the view changes.
func (f *SnapshotFetcher) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adminSeq++
	f.employeeSeq++
	f.admin = nil
	f.employee = nil
}

// RefreshAdmin fetches the aggregate dashboard and the employee table. On
// any read failure the previous snapshot is kept and an ErrRead is returned.
func (f *SnapshotFetcher) RefreshAdmin(ctx context.Context) (AdminSnapshot, error) {
	f.mu.Lock()
	f.adminSeq++
	seq := f.adminSeq
	f.mu.Unlock()

	snap, err := f.fetchAdmin(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if seq != f.adminSeq {
		f.log.Debug(ctx, "discarding stale admin snapshot", "seq", seq, "latest", f.adminSeq)
		return f.retainedAdminLocked(), common.ErrStaleFetch
	}
	if err != nil {
		f.log.Warn(ctx, "admin refresh failed, keeping previous snapshot", "error", err)
		return f.retainedAdminLocked(), fmt.Errorf("%w: admin snapshot: %w", common.ErrRead, err)
	}
	f.admin = &snap
	return snap, nil
}

func (f *SnapshotFetcher) retainedAdminLocked() AdminSnapshot {
	if f.admin == nil {
		return AdminSnapshot{}
	}
	return *f.admin
}

func (f *SnapshotFetcher) fetchAdmin(ctx context.Context) (AdminSnapshot, error) {
	dash, err := f.reader.Dashboard(ctx)
	if err != nil {
		return AdminSnapshot{}, err
	}

	if dash.EmployeeCount > MaxEmployees {
		return AdminSnapshot{}, fmt.Errorf("ledger reports %d employees, limit is %d", dash.EmployeeCount, MaxEmployees)
	}

	employees := make([]models.EmployeeRecord, dash.EmployeeCount)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	g.Go(func() (err error) {
		dash.OffRampEnabled, err = f.reader.OffRampEnabled(gctx)
		return err
	})
	g.Go(func() (err error) {
		dash.YieldRateBps, err = f.reader.YieldRateBps(gctx)
		return err
	})
	g.Go(func() (err error) {
		dash.PlatformFeePercent, err = f.reader.PlatformFeePercent(gctx)
		return err
	})
	g.Go(func() (err error) {
		dash.DefaultTaxPercent, err = f.reader.DefaultTaxPercent(gctx)
		return err
	})
	g.Go(func() (err error) {
		dash.INRRate, err = f.reader.ExchangeRate(gctx, models.CurrencyINR)
		return err
	})
	for i := range employees {
		g.Go(func() error {
			rec, err := f.fetchEmployeeRecord(gctx, uint64(i))
			if err != nil {
				return err
			}
			employees[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return AdminSnapshot{}, err
	}

	return AdminSnapshot{Dashboard: dash, Employees: employees, FetchedAt: f.clock.Now()}, nil
}

func (f *SnapshotFetcher) fetchEmployeeRecord(ctx context.Context, index uint64) (models.EmployeeRecord, error) {
	addr, err := f.reader.EmployeeAt(ctx, index)
	if err != nil {
		return models.EmployeeRecord{}, fmt.Errorf("employee %d: %w", index, err)
	}
	info, err := f.reader.SalaryInfo(ctx, addr)
	if err != nil {
		return models.EmployeeRecord{}, fmt.Errorf("salary of %s: %w", addr.Hex(), err)
	}
	stream, err := f.reader.Stream(ctx, addr)
	if err != nil {
		return models.EmployeeRecord{}, fmt.Errorf("stream of %s: %w", addr.Hex(), err)
	}
	return models.EmployeeRecord{
		Index:         index,
		Address:       addr,
		RatePerSecond: info.RatePerSecond,
		GrossEarned:   info.GrossEarned,
		Active:        info.Active,
		Paused:        info.Paused,
		TaxPercent:    stream.TaxPercent,
	}, nil
}

// RefreshEmployee fetches the employee view of identity. A failed salary
// read for an identity without a known stream commits an empty snapshot
// instead of failing; any other failure keeps the previous snapshot.
func (f *SnapshotFetcher) RefreshEmployee(ctx context.Context, identity ethcommon.Address) (EmployeeSnapshot, error) {
	f.mu.Lock()
	f.employeeSeq++
	seq := f.employeeSeq
	f.mu.Unlock()

	snap, salaryErr, err := f.fetchEmployee(ctx, identity)

	f.mu.Lock()
	defer f.mu.Unlock()
	if seq != f.employeeSeq {
		f.log.Debug(ctx, "discarding stale employee snapshot", "seq", seq, "latest", f.employeeSeq)
		return f.retainedEmployeeLocked(), common.ErrStaleFetch
	}
	if salaryErr != nil {
		prev := f.employee
		if prev == nil || prev.Identity != identity || prev.Salary == nil {
			f.log.Info(ctx, "no stream found for identity", "identity", identity.Hex(), "error", salaryErr)
			empty := EmployeeSnapshot{Identity: identity, FetchedAt: f.clock.Now()}
			f.employee = &empty
			return empty, nil
		}
		err = salaryErr
	}
	if err != nil {
		f.log.Warn(ctx, "employee refresh failed, keeping previous snapshot", "identity", identity.Hex(), "error", err)
		return f.retainedEmployeeLocked(), fmt.Errorf("%w: employee snapshot: %w", common.ErrRead, err)
	}
	f.employee = &snap
	return snap, nil
}

func (f *SnapshotFetcher) retainedEmployeeLocked() EmployeeSnapshot {
	if f.employee == nil {
		return EmployeeSnapshot{}
	}
	return *f.employee
}

// fetchEmployee separates a failed salary read from the other failures.
func (f *SnapshotFetcher) fetchEmployee(ctx context.Context, identity ethcommon.Address) (snap EmployeeSnapshot, salaryErr, err error) {
	info, salaryErr := f.reader.SalaryInfo(ctx, identity)
	if salaryErr != nil {
		return EmployeeSnapshot{}, salaryErr, nil
	}

	snap = EmployeeSnapshot{Identity: identity, Salary: &info}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Yield, err = f.reader.YieldInfo(gctx, identity)
		return err
	})
	g.Go(func() (err error) {
		snap.Bonus, err = f.reader.BonusInfo(gctx, identity)
		return err
	})
	g.Go(func() (err error) {
		snap.Bonuses, err = LoadBonuses(gctx, f.reader, identity)
		return err
	})
	if err := g.Wait(); err != nil {
		return EmployeeSnapshot{}, nil, err
	}
	snap.FetchedAt = f.clock.Now()
	return snap, nil, nil
}

// LoadBonuses enumerates the scheduled bonuses of employee in index order,
// skipping vacated slots.
func LoadBonuses(ctx context.Context, reader ledger.Reader, employee ethcommon.Address) ([]models.ScheduledBonus, error) {
	n, err := reader.ScheduledBonusCount(ctx, employee)
	if err != nil {
		return nil, fmt.Errorf("bonus count: %w", err)
	}
	out := make([]models.ScheduledBonus, 0, n)
	for i := uint64(0); i < n; i++ {
		b, err := reader.ScheduledBonus(ctx, employee, i)
		if err != nil {
			return nil, fmt.Errorf("bonus %d: %w", i, err)
		}
		if b.Exists {
			out = append(out, b)
		}
	}
	return out, nil
}

// LoadOffRamps enumerates the off-ramp requests of employee in index order.
func LoadOffRamps(ctx context.Context, reader ledger.Reader, employee ethcommon.Address) ([]models.OffRampRequest, error) {
	n, err := reader.OffRampCount(ctx, employee)
	if err != nil {
		return nil, fmt.Errorf("off-ramp count: %w", err)
	}
	out := make([]models.OffRampRequest, 0, n)
	for i := uint64(0); i < n; i++ {
		r, err := reader.OffRampRequest(ctx, employee, i)
		if err != nil {
			return nil, fmt.Errorf("off-ramp %d: %w", i, err)
		}
		if r.Exists {
			out = append(out, r)
		}
	}
	return out, nil
}
