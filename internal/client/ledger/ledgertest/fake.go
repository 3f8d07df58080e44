// Package ledgertest provides an in-memory ledger.Ledger for tests.
package ledgertest

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/dmitrijs2005/paystream/internal/client/ledger"
	"github.com/dmitrijs2005/paystream/internal/client/models"
	pscommon "github.com/dmitrijs2005/paystream/internal/common"
	"github.com/ethereum/go-ethereum/common"
)

// Call is one recorded invocation. Method is the Go method name.
type Call struct {
	Method string
	Args   []any
}

type employee struct {
	listed   bool
	salary   models.SalaryInfo
	tax      uint8
	start    time.Time
	yield    models.YieldInfo
	bonus    models.BonusInfo
	bonuses  []models.ScheduledBonus
	offRamps []models.OffRampRequest
}

// Fake is a goroutine-safe in-memory ledger. Writes apply immediately and
// are attributed to Sender.
type Fake struct {
	mu sync.Mutex

	admin   common.Address
	owner   common.Address
	spender common.Address
	sender  common.Address

	dashboard      models.DashboardSnapshot
	offRampEnabled bool
	yieldRateBps   uint16
	platformFee    uint8
	defaultTax     uint8
	rates          map[models.Currency]*big.Int

	order      []common.Address
	employees  map[common.Address]*employee
	allowances map[[2]common.Address]*big.Int
	balances   map[common.Address]*big.Int

	calls       []Call
	errs        map[string]error
	confirmErrs map[string]error
	gates       map[string]chan struct{}
	hashes      map[common.Hash]string
	nonce       uint64
}

var _ ledger.Ledger = (*Fake)(nil)

// New returns an empty ledger whose spender is a fixed contract address.
func New() *Fake {
	return &Fake{
		spender:     common.HexToAddress("0x000000000000000000000000000000000000c0de"),
		defaultTax:  10,
		rates:       map[models.Currency]*big.Int{},
		employees:   map[common.Address]*employee{},
		allowances:  map[[2]common.Address]*big.Int{},
		balances:    map[common.Address]*big.Int{},
		errs:        map[string]error{},
		confirmErrs: map[string]error{},
		gates:       map[string]chan struct{}{},
		hashes:      map[common.Hash]string{},
	}
}

// SetPrivileged sets the admin and owner addresses.
func (f *Fake) SetPrivileged(admin, owner common.Address) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.admin, f.owner = admin, owner
}

// SetSender sets the identity writes are attributed to.
func (f *Fake) SetSender(addr common.Address) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sender = addr
}

// SetDashboard sets the aggregate figures. Counts are derived from the
// registered employees.
func (f *Fake) SetDashboard(s models.DashboardSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dashboard = s
}

func (f *Fake) SetFlags(offRamp bool, yieldBps uint16, feePercent uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offRampEnabled, f.yieldRateBps, f.platformFee = offRamp, yieldBps, feePercent
}

// AddEmployee registers addr with the given salary info.
func (f *Fake) AddEmployee(addr common.Address, info models.SalaryInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := f.employeeLocked(addr)
	e.listed = true
	e.salary = normalizeSalary(info)
}

func (f *Fake) SetYield(addr common.Address, y models.YieldInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.employeeLocked(addr).yield = y
}

func (f *Fake) SetBonusInfo(addr common.Address, b models.BonusInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.employeeLocked(addr).bonus = b
}

func (f *Fake) AddBonus(addr common.Address, b models.ScheduledBonus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := f.employeeLocked(addr)
	b.Index = uint64(len(e.bonuses))
	e.bonuses = append(e.bonuses, b)
}

func (f *Fake) AddOffRamp(addr common.Address, r models.OffRampRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := f.employeeLocked(addr)
	r.Index = uint64(len(e.offRamps))
	e.offRamps = append(e.offRamps, r)
}

func (f *Fake) SetAllowance(owner, spender common.Address, amount *big.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allowances[[2]common.Address{owner, spender}] = new(big.Int).Set(amount)
}

// SetError makes every later call of method fail with err. A nil err clears it.
func (f *Fake) SetError(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, method)
		return
	}
	f.errs[method] = err
}

// SetConfirmError makes WaitConfirmed fail for transactions submitted by method.
func (f *Fake) SetConfirmError(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmErrs[method] = err
}

// Block parks every call of method until release is called or the caller's
// context is done.
func (f *Fake) Block(method string) (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gates[method] = gate
	f.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.gates, method)
			f.mu.Unlock()
			close(gate)
		})
	}
}

// Calls returns a copy of the recorded calls in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Methods returns the recorded method names, optionally filtered to the
// given set.
func (f *Fake) Methods(only ...string) []string {
	keep := map[string]bool{}
	for _, m := range only {
		keep[m] = true
	}
	var out []string
	for _, c := range f.Calls() {
		if len(keep) == 0 || keep[c.Method] {
			out = append(out, c.Method)
		}
	}
	return out
}

// Count reports how many times method was called.
func (f *Fake) Count(method string) int {
	return len(f.Methods(method))
}

// Salary returns the stored salary info of addr.
func (f *Fake) Salary(addr common.Address) models.SalaryInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.employeeLocked(addr).salary
}

// Bonuses returns the stored bonus slots of addr.
func (f *Fake) Bonuses(addr common.Address) []models.ScheduledBonus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ScheduledBonus(nil), f.employeeLocked(addr).bonuses...)
}

// OffRamps returns the stored off-ramp requests of addr.
func (f *Fake) OffRamps(addr common.Address) []models.OffRampRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.OffRampRequest(nil), f.employeeLocked(addr).offRamps...)
}

func (f *Fake) OffRampFlag() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offRampEnabled
}

func (f *Fake) enter(ctx context.Context, method string, args ...any) error {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Method: method, Args: args})
	gate := f.gates[method]
	err := f.errs[method]
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *Fake) employeeLocked(addr common.Address) *employee {
	e, ok := f.employees[addr]
	if !ok {
		e = &employee{salary: normalizeSalary(models.SalaryInfo{}), tax: f.defaultTax}
		f.employees[addr] = e
		f.order = append(f.order, addr)
	}
	return e
}

func (f *Fake) lookupLocked(addr common.Address) (*employee, bool) {
	e, ok := f.employees[addr]
	return e, ok
}

func normalizeSalary(s models.SalaryInfo) models.SalaryInfo {
	for _, p := range []**big.Int{&s.GrossEarned, &s.NetEarned, &s.TaxAmount, &s.PlatformFee, &s.TotalWithdrawn, &s.RatePerSecond} {
		if *p == nil {
			*p = new(big.Int)
		}
	}
	return s
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

func (f *Fake) Spender() common.Address { return f.spender }

func (f *Fake) Ping(ctx context.Context) error { return f.enter(ctx, "Ping") }

func (f *Fake) Admin(ctx context.Context) (common.Address, error) {
	if err := f.enter(ctx, "Admin"); err != nil {
		return common.Address{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.admin, nil
}

func (f *Fake) PlatformOwner(ctx context.Context) (common.Address, error) {
	if err := f.enter(ctx, "PlatformOwner"); err != nil {
		return common.Address{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.owner, nil
}

func (f *Fake) OffRampEnabled(ctx context.Context) (bool, error) {
	if err := f.enter(ctx, "OffRampEnabled"); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offRampEnabled, nil
}

func (f *Fake) YieldRateBps(ctx context.Context) (uint16, error) {
	if err := f.enter(ctx, "YieldRateBps"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.yieldRateBps, nil
}

func (f *Fake) PlatformFeePercent(ctx context.Context) (uint8, error) {
	if err := f.enter(ctx, "PlatformFeePercent"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.platformFee, nil
}

func (f *Fake) DefaultTaxPercent(ctx context.Context) (uint8, error) {
	if err := f.enter(ctx, "DefaultTaxPercent"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.defaultTax, nil
}

func (f *Fake) ExchangeRate(ctx context.Context, currency models.Currency) (*big.Int, error) {
	if err := f.enter(ctx, "ExchangeRate", currency); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return orZero(f.rates[currency]), nil
}

func (f *Fake) Dashboard(ctx context.Context) (models.DashboardSnapshot, error) {
	if err := f.enter(ctx, "Dashboard"); err != nil {
		return models.DashboardSnapshot{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.dashboard
	s.Treasury = orZero(s.Treasury)
	s.TaxVault = orZero(s.TaxVault)
	s.PlatformFeeVault = orZero(s.PlatformFeeVault)
	s.TotalYield = orZero(s.TotalYield)
	s.YieldLiability = orZero(s.YieldLiability)
	s.ContractBalance = orZero(s.ContractBalance)
	s.EmployeeCount, s.ActiveCount = 0, 0
	for _, addr := range f.order {
		if !f.registeredLocked(addr) {
			continue
		}
		s.EmployeeCount++
		if f.employees[addr].salary.Active {
			s.ActiveCount++
		}
	}
	return s, nil
}

// registeredLocked reports whether addr was added or had a stream started.
// Entries created implicitly by bonus or off-ramp slots do not count.
func (f *Fake) registeredLocked(addr common.Address) bool {
	return f.employees[addr].listed
}

func (f *Fake) registeredListLocked() []common.Address {
	var out []common.Address
	for _, addr := range f.order {
		if f.registeredLocked(addr) {
			out = append(out, addr)
		}
	}
	return out
}

func (f *Fake) EmployeeAt(ctx context.Context, index uint64) (common.Address, error) {
	if err := f.enter(ctx, "EmployeeAt", index); err != nil {
		return common.Address{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.registeredListLocked()
	if index >= uint64(len(list)) {
		return common.Address{}, fmt.Errorf("%w: employee index %d out of range", pscommon.ErrRead, index)
	}
	return list[index], nil
}

func (f *Fake) SalaryInfo(ctx context.Context, addr common.Address) (models.SalaryInfo, error) {
	if err := f.enter(ctx, "SalaryInfo", addr); err != nil {
		return models.SalaryInfo{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.lookupLocked(addr); ok {
		return e.salary, nil
	}
	return normalizeSalary(models.SalaryInfo{}), nil
}

func (f *Fake) Stream(ctx context.Context, addr common.Address) (models.StreamInfo, error) {
	if err := f.enter(ctx, "Stream", addr); err != nil {
		return models.StreamInfo{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.lookupLocked(addr)
	if !ok {
		return models.StreamInfo{RatePerSecond: new(big.Int), Withdrawn: new(big.Int)}, nil
	}
	return models.StreamInfo{
		RatePerSecond: orZero(e.salary.RatePerSecond),
		StartTime:     e.start,
		TaxPercent:    e.tax,
		Active:        e.salary.Active,
		Paused:        e.salary.Paused,
		Withdrawn:     orZero(e.salary.TotalWithdrawn),
	}, nil
}

func (f *Fake) YieldInfo(ctx context.Context, addr common.Address) (models.YieldInfo, error) {
	if err := f.enter(ctx, "YieldInfo", addr); err != nil {
		return models.YieldInfo{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var y models.YieldInfo
	if e, ok := f.lookupLocked(addr); ok {
		y = e.yield
	}
	return models.YieldInfo{Pending: orZero(y.Pending), Claimable: orZero(y.Claimable)}, nil
}

func (f *Fake) BonusInfo(ctx context.Context, addr common.Address) (models.BonusInfo, error) {
	if err := f.enter(ctx, "BonusInfo", addr); err != nil {
		return models.BonusInfo{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var b models.BonusInfo
	if e, ok := f.lookupLocked(addr); ok {
		b = e.bonus
	}
	return models.BonusInfo{Pending: orZero(b.Pending), Claimable: orZero(b.Claimable)}, nil
}

func (f *Fake) ScheduledBonusCount(ctx context.Context, addr common.Address) (uint64, error) {
	if err := f.enter(ctx, "ScheduledBonusCount", addr); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.lookupLocked(addr); ok {
		return uint64(len(e.bonuses)), nil
	}
	return 0, nil
}

func (f *Fake) ScheduledBonus(ctx context.Context, addr common.Address, index uint64) (models.ScheduledBonus, error) {
	if err := f.enter(ctx, "ScheduledBonus", addr, index); err != nil {
		return models.ScheduledBonus{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.lookupLocked(addr)
	if !ok || index >= uint64(len(e.bonuses)) {
		return models.ScheduledBonus{}, fmt.Errorf("%w: bonus %d out of range", pscommon.ErrRead, index)
	}
	b := e.bonuses[index]
	b.Amount = orZero(b.Amount)
	return b, nil
}

func (f *Fake) OffRampCount(ctx context.Context, addr common.Address) (uint64, error) {
	if err := f.enter(ctx, "OffRampCount", addr); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.lookupLocked(addr); ok {
		return uint64(len(e.offRamps)), nil
	}
	return 0, nil
}

func (f *Fake) OffRampRequest(ctx context.Context, addr common.Address, index uint64) (models.OffRampRequest, error) {
	if err := f.enter(ctx, "OffRampRequest", addr, index); err != nil {
		return models.OffRampRequest{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.lookupLocked(addr)
	if !ok || index >= uint64(len(e.offRamps)) {
		return models.OffRampRequest{}, fmt.Errorf("%w: off-ramp %d out of range", pscommon.ErrRead, index)
	}
	r := e.offRamps[index]
	r.Amount = orZero(r.Amount)
	return r, nil
}

func (f *Fake) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	if err := f.enter(ctx, "Allowance", owner, spender); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return orZero(f.allowances[[2]common.Address{owner, spender}]), nil
}

func (f *Fake) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	if err := f.enter(ctx, "BalanceOf", account); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return orZero(f.balances[account]), nil
}

// submit records the call, applies mutate under the lock and issues a hash.
// A non-nil error from mutate rejects the write.
func (f *Fake) submit(ctx context.Context, method string, mutate func() error, args ...any) (common.Hash, error) {
	if err := f.enter(ctx, method, args...); err != nil {
		return common.Hash{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if mutate != nil {
		if err := mutate(); err != nil {
			return common.Hash{}, fmt.Errorf("%w: %s: %w", pscommon.ErrTransaction, method, err)
		}
	}
	f.nonce++
	hash := common.BigToHash(new(big.Int).SetUint64(f.nonce))
	f.hashes[hash] = method
	return hash, nil
}

// spendLocked consumes amount of the sender's allowance to the contract.
func (f *Fake) spendLocked(amount *big.Int) error {
	key := [2]common.Address{f.sender, f.spender}
	allow := orZero(f.allowances[key])
	if allow.Cmp(amount) < 0 {
		return fmt.Errorf("insufficient allowance: have %s want %s", allow, amount)
	}
	f.allowances[key] = allow.Sub(allow, amount)
	return nil
}

func (f *Fake) WaitConfirmed(ctx context.Context, hash common.Hash) error {
	if err := f.enter(ctx, "WaitConfirmed", hash); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	method, ok := f.hashes[hash]
	if !ok {
		return fmt.Errorf("%w: unknown transaction %s", pscommon.ErrTransaction, hash.Hex())
	}
	if err := f.confirmErrs[method]; err != nil {
		return err
	}
	return nil
}

func (f *Fake) Approve(ctx context.Context, spender common.Address, amount *big.Int) (common.Hash, error) {
	return f.submit(ctx, "Approve", func() error {
		f.allowances[[2]common.Address{f.sender, spender}] = new(big.Int).Set(amount)
		return nil
	}, spender, amount)
}

func (f *Fake) Mint(ctx context.Context, to common.Address, amount *big.Int) (common.Hash, error) {
	return f.submit(ctx, "Mint", func() error {
		f.balances[to] = new(big.Int).Add(orZero(f.balances[to]), amount)
		return nil
	}, to, amount)
}

func (f *Fake) Deposit(ctx context.Context, amount *big.Int) (common.Hash, error) {
	return f.submit(ctx, "Deposit", func() error {
		if err := f.spendLocked(amount); err != nil {
			return err
		}
		f.dashboard.Treasury = new(big.Int).Add(orZero(f.dashboard.Treasury), amount)
		return nil
	}, amount)
}

func (f *Fake) StartStream(ctx context.Context, addr common.Address, rate *big.Int) (common.Hash, error) {
	return f.submit(ctx, "StartStream", func() error {
		e := f.employeeLocked(addr)
		e.listed = true
		e.salary.RatePerSecond = new(big.Int).Set(rate)
		e.salary.Active, e.salary.Paused = true, false
		return nil
	}, addr, rate)
}

func (f *Fake) UpdateSalary(ctx context.Context, addr common.Address, rate *big.Int) (common.Hash, error) {
	return f.submit(ctx, "UpdateSalary", func() error {
		e, ok := f.lookupLocked(addr)
		if !ok {
			return fmt.Errorf("no stream for %s", addr.Hex())
		}
		e.salary.RatePerSecond = new(big.Int).Set(rate)
		return nil
	}, addr, rate)
}

func (f *Fake) PauseStream(ctx context.Context, addr common.Address) (common.Hash, error) {
	return f.submit(ctx, "PauseStream", func() error {
		e, ok := f.lookupLocked(addr)
		if !ok || !e.salary.Active {
			return fmt.Errorf("stream not active")
		}
		e.salary.Paused = true
		return nil
	}, addr)
}

func (f *Fake) ResumeStream(ctx context.Context, addr common.Address) (common.Hash, error) {
	return f.submit(ctx, "ResumeStream", func() error {
		e, ok := f.lookupLocked(addr)
		if !ok || !e.salary.Paused {
			return fmt.Errorf("stream not paused")
		}
		e.salary.Paused = false
		return nil
	}, addr)
}

func (f *Fake) TerminateEmployee(ctx context.Context, addr common.Address) (common.Hash, error) {
	return f.submit(ctx, "TerminateEmployee", func() error {
		e, ok := f.lookupLocked(addr)
		if !ok {
			return fmt.Errorf("no stream for %s", addr.Hex())
		}
		e.salary.Active, e.salary.Paused = false, false
		return nil
	}, addr)
}

func (f *Fake) UpdateTax(ctx context.Context, addr common.Address, percent uint8) (common.Hash, error) {
	return f.submit(ctx, "UpdateTax", func() error {
		f.employeeLocked(addr).tax = percent
		return nil
	}, addr, percent)
}

func (f *Fake) CollectTax(ctx context.Context) (common.Hash, error) {
	return f.submit(ctx, "CollectTax", func() error {
		f.dashboard.TaxVault = new(big.Int)
		return nil
	})
}

func (f *Fake) ScheduleBonus(ctx context.Context, addr common.Address, amount *big.Int, release time.Time) (common.Hash, error) {
	return f.submit(ctx, "ScheduleBonus", func() error {
		e := f.employeeLocked(addr)
		e.bonuses = append(e.bonuses, models.ScheduledBonus{
			Index:       uint64(len(e.bonuses)),
			Amount:      new(big.Int).Set(amount),
			ReleaseTime: release,
			Exists:      true,
		})
		return nil
	}, addr, amount, release)
}

func (f *Fake) CancelScheduledBonus(ctx context.Context, addr common.Address, index uint64) (common.Hash, error) {
	return f.submit(ctx, "CancelScheduledBonus", func() error {
		e, ok := f.lookupLocked(addr)
		if !ok || index >= uint64(len(e.bonuses)) || !e.bonuses[index].Exists {
			return fmt.Errorf("no bonus %d", index)
		}
		if e.bonuses[index].Claimed {
			return fmt.Errorf("bonus %d claimed", index)
		}
		e.bonuses[index].Exists = false
		return nil
	}, addr, index)
}

func (f *Fake) DistributeYield(ctx context.Context, addr common.Address) (common.Hash, error) {
	return f.submit(ctx, "DistributeYield", nil, addr)
}

func (f *Fake) UpdateExchangeRate(ctx context.Context, currency models.Currency, rate *big.Int) (common.Hash, error) {
	return f.submit(ctx, "UpdateExchangeRate", func() error {
		f.rates[currency] = new(big.Int).Set(rate)
		return nil
	}, currency, rate)
}

func (f *Fake) ToggleOffRamp(ctx context.Context) (common.Hash, error) {
	return f.submit(ctx, "ToggleOffRamp", func() error {
		f.offRampEnabled = !f.offRampEnabled
		return nil
	})
}

func (f *Fake) ProcessOffRamp(ctx context.Context, addr common.Address, index uint64) (common.Hash, error) {
	return f.submit(ctx, "ProcessOffRamp", func() error {
		e, ok := f.lookupLocked(addr)
		if !ok || index >= uint64(len(e.offRamps)) {
			return fmt.Errorf("no request %d", index)
		}
		if e.offRamps[index].Processed {
			return fmt.Errorf("request %d already processed", index)
		}
		e.offRamps[index].Processed = true
		return nil
	}, addr, index)
}

func (f *Fake) CollectPlatformFees(ctx context.Context) (common.Hash, error) {
	return f.submit(ctx, "CollectPlatformFees", func() error {
		f.dashboard.PlatformFeeVault = new(big.Int)
		return nil
	})
}

func (f *Fake) UpdatePlatformFee(ctx context.Context, percent uint8) (common.Hash, error) {
	return f.submit(ctx, "UpdatePlatformFee", func() error {
		f.platformFee = percent
		return nil
	}, percent)
}

func (f *Fake) UpdateYieldRate(ctx context.Context, bps uint16) (common.Hash, error) {
	return f.submit(ctx, "UpdateYieldRate", func() error {
		f.yieldRateBps = bps
		return nil
	}, bps)
}

func (f *Fake) WithdrawSalary(ctx context.Context) (common.Hash, error) {
	return f.submit(ctx, "WithdrawSalary", nil)
}

func (f *Fake) ClaimYield(ctx context.Context) (common.Hash, error) {
	return f.submit(ctx, "ClaimYield", nil)
}

func (f *Fake) ClaimScheduledBonus(ctx context.Context, index uint64) (common.Hash, error) {
	return f.submit(ctx, "ClaimScheduledBonus", func() error {
		e, ok := f.lookupLocked(f.sender)
		if !ok || index >= uint64(len(e.bonuses)) || !e.bonuses[index].Exists {
			return fmt.Errorf("no bonus %d", index)
		}
		if e.bonuses[index].Claimed {
			return fmt.Errorf("bonus %d claimed", index)
		}
		e.bonuses[index].Claimed = true
		return nil
	}, index)
}

func (f *Fake) RequestOffRamp(ctx context.Context, amount *big.Int, currency models.Currency) (common.Hash, error) {
	return f.submit(ctx, "RequestOffRamp", func() error {
		if !f.offRampEnabled {
			return fmt.Errorf("off-ramp disabled")
		}
		if err := f.spendLocked(amount); err != nil {
			return err
		}
		e := f.employeeLocked(f.sender)
		e.offRamps = append(e.offRamps, models.OffRampRequest{
			Index:    uint64(len(e.offRamps)),
			Amount:   new(big.Int).Set(amount),
			Currency: currency,
			Exists:   true,
		})
		return nil
	}, amount, currency)
}
