package ledger

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/paystream/internal/clock"
	"github.com/dmitrijs2005/paystream/internal/client/models"
	pscommon "github.com/dmitrijs2005/paystream/internal/common"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/time/rate"
)

// Backend is the subset of the Ethereum RPC the ledger client needs.
type Backend interface {
	bind.ContractBackend
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Dial opens an RPC connection to the ledger node.
func Dial(ctx context.Context, endpoint string) (*ethclient.Client, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: rpc endpoint required", pscommon.ErrConnection)
	}
	client, err := ethclient.DialContext(ctx, trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", pscommon.ErrConnection, trimmed, err)
	}
	return client, nil
}

// Option configures an EVMLedger.
type Option func(*EVMLedger)

// WithRateLimit caps outgoing RPC requests per second. Zero disables it.
func WithRateLimit(perSecond float64) Option {
	return func(l *EVMLedger) {
		if perSecond > 0 {
			l.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithPollInterval sets the receipt polling interval of WaitConfirmed.
func WithPollInterval(d time.Duration) Option {
	return func(l *EVMLedger) {
		if d > 0 {
			l.pollInterval = d
		}
	}
}

// WithClock replaces the wall clock used while polling receipts.
func WithClock(c clock.Clock) Option {
	return func(l *EVMLedger) { l.clock = c }
}

// EVMLedger implements Ledger over go-ethereum.
type EVMLedger struct {
	backend      Backend
	address      common.Address
	tokenAddress common.Address
	payStream    *bind.BoundContract
	token        *bind.BoundContract
	limiter      *rate.Limiter
	pollInterval time.Duration
	clock        clock.Clock

	mu     sync.RWMutex
	signer *bind.TransactOpts
}

var _ Ledger = (*EVMLedger)(nil)

// NewEVMLedger binds the payroll contract at address and its token at
// tokenAddress.
func NewEVMLedger(backend Backend, address, tokenAddress common.Address, opts ...Option) *EVMLedger {
	l := &EVMLedger{
		backend:      backend,
		address:      address,
		tokenAddress: tokenAddress,
		payStream:    bind.NewBoundContract(address, payStreamABI, backend, backend, backend),
		token:        bind.NewBoundContract(tokenAddress, tokenABI, backend, backend, backend),
		pollInterval: 2 * time.Second,
		clock:        clock.Real(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetSigner installs the transactor of the connected wallet. Passing nil
// detaches it, after which every write fails with ErrConnection.
func (l *EVMLedger) SetSigner(signer *bind.TransactOpts) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.signer = signer
}

func (l *EVMLedger) Spender() common.Address { return l.address }

func (l *EVMLedger) Ping(ctx context.Context) error {
	if err := l.wait(ctx); err != nil {
		return err
	}
	if _, err := l.backend.HeaderByNumber(ctx, nil); err != nil {
		return fmt.Errorf("%w: %w", pscommon.ErrConnection, err)
	}
	return nil
}

func (l *EVMLedger) wait(ctx context.Context) error {
	if l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}

func (l *EVMLedger) call(ctx context.Context, parsed abi.ABI, to common.Address, method string, args ...any) (*decoder, error) {
	if err := l.wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", pscommon.ErrRead, method, err)
	}
	input, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: pack %s: %w", pscommon.ErrRead, method, err)
	}
	out, err := l.backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", pscommon.ErrRead, method, err)
	}
	values, err := parsed.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("%w: unpack %s: %w", pscommon.ErrRead, method, err)
	}
	return &decoder{method: method, values: values}, nil
}

func (l *EVMLedger) read(ctx context.Context, method string, args ...any) (*decoder, error) {
	return l.call(ctx, payStreamABI, l.address, method, args...)
}

func (l *EVMLedger) Admin(ctx context.Context) (common.Address, error) {
	d, err := l.read(ctx, "hr")
	if err != nil {
		return common.Address{}, err
	}
	v := d.address(0)
	return v, d.err
}

func (l *EVMLedger) PlatformOwner(ctx context.Context) (common.Address, error) {
	d, err := l.read(ctx, "platformOwner")
	if err != nil {
		return common.Address{}, err
	}
	v := d.address(0)
	return v, d.err
}

func (l *EVMLedger) OffRampEnabled(ctx context.Context) (bool, error) {
	d, err := l.read(ctx, "offRampEnabled")
	if err != nil {
		return false, err
	}
	v := d.boolean(0)
	return v, d.err
}

func (l *EVMLedger) YieldRateBps(ctx context.Context) (uint16, error) {
	d, err := l.read(ctx, "yieldRateBps")
	if err != nil {
		return 0, err
	}
	v := d.uint16(0)
	return v, d.err
}

func (l *EVMLedger) PlatformFeePercent(ctx context.Context) (uint8, error) {
	d, err := l.read(ctx, "platformFeePercent")
	if err != nil {
		return 0, err
	}
	v := d.uint8(0)
	return v, d.err
}

func (l *EVMLedger) DefaultTaxPercent(ctx context.Context) (uint8, error) {
	d, err := l.read(ctx, "defaultTaxPercent")
	if err != nil {
		return 0, err
	}
	v := d.uint8(0)
	return v, d.err
}

func (l *EVMLedger) ExchangeRate(ctx context.Context, currency models.Currency) (*big.Int, error) {
	d, err := l.read(ctx, "exchangeRates", uint8(currency))
	if err != nil {
		return nil, err
	}
	v := d.big(0)
	return v, d.err
}

func (l *EVMLedger) Dashboard(ctx context.Context) (models.DashboardSnapshot, error) {
	d, err := l.read(ctx, "getHRDashboard")
	if err != nil {
		return models.DashboardSnapshot{}, err
	}
	s := models.DashboardSnapshot{
		Treasury:         d.big(0),
		TaxVault:         d.big(1),
		PlatformFeeVault: d.big(2),
		TotalYield:       d.big(3),
		YieldLiability:   d.big(4),
		EmployeeCount:    d.count(5),
		ActiveCount:      d.count(6),
		ContractBalance:  d.big(7),
	}
	return s, d.err
}

func (l *EVMLedger) EmployeeAt(ctx context.Context, index uint64) (common.Address, error) {
	d, err := l.read(ctx, "employeeList", new(big.Int).SetUint64(index))
	if err != nil {
		return common.Address{}, err
	}
	v := d.address(0)
	return v, d.err
}

func (l *EVMLedger) SalaryInfo(ctx context.Context, employee common.Address) (models.SalaryInfo, error) {
	d, err := l.read(ctx, "getEmployeeSalaryInfo", employee)
	if err != nil {
		return models.SalaryInfo{}, err
	}
	s := models.SalaryInfo{
		GrossEarned:    d.big(0),
		NetEarned:      d.big(1),
		TaxAmount:      d.big(2),
		PlatformFee:    d.big(3),
		TotalWithdrawn: d.big(4),
		RatePerSecond:  d.big(5),
		Active:         d.boolean(6),
		Paused:         d.boolean(7),
	}
	return s, d.err
}

func (l *EVMLedger) Stream(ctx context.Context, employee common.Address) (models.StreamInfo, error) {
	d, err := l.read(ctx, "streams", employee)
	if err != nil {
		return models.StreamInfo{}, err
	}
	s := models.StreamInfo{
		RatePerSecond: d.big(0),
		StartTime:     d.unix(1),
		LastClaimTime: d.unix(2),
		TaxPercent:    d.uint8(3),
		Active:        d.boolean(4),
		Paused:        d.boolean(5),
		Withdrawn:     d.big(6),
	}
	return s, d.err
}

func (l *EVMLedger) YieldInfo(ctx context.Context, employee common.Address) (models.YieldInfo, error) {
	d, err := l.read(ctx, "getEmployeeYieldInfo", employee)
	if err != nil {
		return models.YieldInfo{}, err
	}
	y := models.YieldInfo{Pending: d.big(0), Claimable: d.big(1)}
	return y, d.err
}

func (l *EVMLedger) BonusInfo(ctx context.Context, employee common.Address) (models.BonusInfo, error) {
	d, err := l.read(ctx, "getEmployeeBonusInfo", employee)
	if err != nil {
		return models.BonusInfo{}, err
	}
	b := models.BonusInfo{Pending: d.big(0), Claimable: d.big(1)}
	return b, d.err
}

func (l *EVMLedger) ScheduledBonusCount(ctx context.Context, employee common.Address) (uint64, error) {
	d, err := l.read(ctx, "getScheduledBonusCount", employee)
	if err != nil {
		return 0, err
	}
	v := d.count(0)
	return v, d.err
}

func (l *EVMLedger) ScheduledBonus(ctx context.Context, employee common.Address, index uint64) (models.ScheduledBonus, error) {
	d, err := l.read(ctx, "getScheduledBonus", employee, new(big.Int).SetUint64(index))
	if err != nil {
		return models.ScheduledBonus{}, err
	}
	b := models.ScheduledBonus{
		Index:       index,
		Amount:      d.big(0),
		ReleaseTime: d.unix(1),
		Claimed:     d.boolean(2),
		Exists:      d.boolean(3),
	}
	return b, d.err
}

func (l *EVMLedger) OffRampCount(ctx context.Context, employee common.Address) (uint64, error) {
	d, err := l.read(ctx, "getOffRampCount", employee)
	if err != nil {
		return 0, err
	}
	v := d.count(0)
	return v, d.err
}

func (l *EVMLedger) OffRampRequest(ctx context.Context, employee common.Address, index uint64) (models.OffRampRequest, error) {
	d, err := l.read(ctx, "getOffRampRequest", employee, new(big.Int).SetUint64(index))
	if err != nil {
		return models.OffRampRequest{}, err
	}
	r := models.OffRampRequest{
		Index:     index,
		Amount:    d.big(0),
		Timestamp: d.unix(1),
		Currency:  models.Currency(d.uint8(2)),
		Processed: d.boolean(3),
		Exists:    d.boolean(4),
	}
	return r, d.err
}

func (l *EVMLedger) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	d, err := l.call(ctx, tokenABI, l.tokenAddress, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	v := d.big(0)
	return v, d.err
}

func (l *EVMLedger) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	d, err := l.call(ctx, tokenABI, l.tokenAddress, "balanceOf", account)
	if err != nil {
		return nil, err
	}
	v := d.big(0)
	return v, d.err
}

// decoder converts unpacked ABI values into Go types. The first mismatch is
// kept in err and later accessors return zero values.
type decoder struct {
	method string
	values []any
	err    error
}

func (d *decoder) at(i int) (any, bool) {
	if d.err != nil {
		return nil, false
	}
	if i >= len(d.values) {
		d.err = fmt.Errorf("%w: %s: missing output %d", pscommon.ErrRead, d.method, i)
		return nil, false
	}
	return d.values[i], true
}

func (d *decoder) mismatch(i int, want string) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s: output %d is %T, want %s", pscommon.ErrRead, d.method, i, d.values[i], want)
	}
}

func (d *decoder) big(i int) *big.Int {
	raw, ok := d.at(i)
	if !ok {
		return new(big.Int)
	}
	v, ok := raw.(*big.Int)
	if !ok || v == nil {
		d.mismatch(i, "*big.Int")
		return new(big.Int)
	}
	return v
}

func (d *decoder) count(i int) uint64 {
	v := d.big(i)
	if !v.IsUint64() {
		if d.err == nil {
			d.err = fmt.Errorf("%w: %s: output %d overflows uint64", pscommon.ErrRead, d.method, i)
		}
		return 0
	}
	return v.Uint64()
}

func (d *decoder) unix(i int) time.Time {
	secs := d.count(i)
	if secs == 0 {
		return time.Time{}
	}
	return time.Unix(int64(secs), 0).UTC()
}

func (d *decoder) boolean(i int) bool {
	raw, ok := d.at(i)
	if !ok {
		return false
	}
	v, ok := raw.(bool)
	if !ok {
		d.mismatch(i, "bool")
	}
	return v
}

func (d *decoder) uint8(i int) uint8 {
	raw, ok := d.at(i)
	if !ok {
		return 0
	}
	v, ok := raw.(uint8)
	if !ok {
		d.mismatch(i, "uint8")
	}
	return v
}

func (d *decoder) uint16(i int) uint16 {
	raw, ok := d.at(i)
	if !ok {
		return 0
	}
	v, ok := raw.(uint16)
	if !ok {
		d.mismatch(i, "uint16")
	}
	return v
}

func (d *decoder) address(i int) common.Address {
	raw, ok := d.at(i)
	if !ok {
		return common.Address{}
	}
	v, ok := raw.(common.Address)
	if !ok {
		d.mismatch(i, "address")
	}
	return v
}
