package cli

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/paystream/internal/client/config"
	"github.com/dmitrijs2005/paystream/internal/client/ledger/ledgertest"
	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/dmitrijs2005/paystream/internal/client/storage"
	"github.com/dmitrijs2005/paystream/internal/client/wallet"
	"github.com/dmitrijs2005/paystream/internal/clock"
	"github.com/dmitrijs2005/paystream/internal/common"
	"github.com/dmitrijs2005/paystream/internal/cryptox"
	"github.com/ethereum/go-ethereum/crypto"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeChain struct{ id *big.Int }

func (c fakeChain) ChainID(context.Context) (*big.Int, error) { return c.id, nil }

var (
	otherAddr = ethcommon.HexToAddress("0x00000000000000000000000000000000000000aa")
	empAddr   = ethcommon.HexToAddress("0x00000000000000000000000000000000000000e1")
)

type testEnv struct {
	app      *App
	fake     *ledgertest.Fake
	clk      *clock.FakeClock
	out      *bytes.Buffer
	store    *storage.Repositories
	identity ethcommon.Address
}

type envOption func(*config.Config, *int64)

func withChain(id int64) envOption {
	return func(_ *config.Config, chain *int64) { *chain = id }
}

func withUnlockHash(hash string) envOption {
	return func(c *config.Config, _ *int64) { c.OwnerUnlockHash = hash }
}

func openStore(t *testing.T) *storage.Repositories {
	t.Helper()
	store, err := storage.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "dashboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestEnv(t *testing.T, fake *ledgertest.Fake, store *storage.Repositories, input string, opts ...envOption) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	chain := cfg.ChainID
	for _, o := range opts {
		o(cfg, &chain)
	}

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	w := wallet.New(key, fakeChain{id: big.NewInt(chain)})
	identity := w.Address()
	fake.SetSender(identity)

	env := &testEnv{
		fake:     fake,
		clk:      clock.Fake(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)),
		out:      &bytes.Buffer{},
		store:    store,
		identity: identity,
	}
	env.app = New(Deps{
		Config:     cfg,
		Ledger:     fake,
		OpenWallet: func(context.Context) (wallet.Wallet, error) { return w, nil },
		Store:      store,
		Clock:      env.clk,
		In:         strings.NewReader(input),
		Out:        env.out,
	})
	t.Cleanup(func() { _ = env.app.Close() })
	return env
}

func (e *testEnv) exec(t *testing.T, line string) error {
	t.Helper()
	fields := strings.Fields(line)
	return e.app.Exec(context.Background(), fields[0], fields[1:])
}

func tokens(s string) *big.Int {
	v, err := models.ParseToken(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestConnect_AdminDashboard(t *testing.T) {
	fake := ledgertest.New()
	env := newTestEnv(t, fake, nil, "")
	fake.SetPrivileged(env.identity, otherAddr)
	fake.SetDashboard(models.DashboardSnapshot{Treasury: tokens("500")})
	fake.AddEmployee(empAddr, models.SalaryInfo{RatePerSecond: tokens("0.001"), Active: true})

	require.NoError(t, env.exec(t, "connect"))

	out := env.out.String()
	assert.Contains(t, out, "Role: admin, view: admin")
	assert.Contains(t, out, "500.0000")
	assert.Contains(t, out, empAddr.Hex())
	assert.Contains(t, out, "streaming")
	assert.Regexp(t, `Default tax\s+10%`, out)
	assert.Contains(t, env.app.Commands(), "deposit")
	assert.NotContains(t, env.app.Commands(), "withdraw")
	assert.Contains(t, env.app.getStatus(), "admin")
}

func TestConnect_WrongNetwork(t *testing.T) {
	fake := ledgertest.New()
	env := newTestEnv(t, fake, nil, "", withChain(1))

	err := env.exec(t, "connect")
	require.ErrorIs(t, err, common.ErrNetworkMismatch)
	assert.Contains(t, env.out.String(), "Wrong network")
	assert.NotContains(t, env.app.Commands(), "show")
	assert.Equal(t, 0, fake.Count("Admin"))
}

func TestExec_Gating(t *testing.T) {
	fake := ledgertest.New()
	fake.SetPrivileged(otherAddr, otherAddr)
	env := newTestEnv(t, fake, nil, "")

	assert.ErrorIs(t, env.exec(t, "show"), common.ErrConnection)
	assert.ErrorIs(t, env.exec(t, "nope"), errUnknownCommand)

	require.NoError(t, env.exec(t, "connect"))
	assert.Contains(t, env.out.String(), "No salary stream found")

	assert.ErrorIs(t, env.exec(t, "deposit 10"), common.ErrNotPermitted)
	assert.ErrorIs(t, env.exec(t, "switch admin"), common.ErrNotPermitted)
	assert.Equal(t, 0, fake.Count("Deposit"))
}

func TestExec_UsageLine(t *testing.T) {
	fake := ledgertest.New()
	env := newTestEnv(t, fake, nil, "")
	fake.SetPrivileged(env.identity, otherAddr)
	require.NoError(t, env.exec(t, "connect"))

	err := env.exec(t, "tax")
	require.Error(t, err)
	assert.Equal(t, "usage: tax <address> <percent>", err.Error())
}

func TestOwnerView_LockAndUnlock(t *testing.T) {
	fake := ledgertest.New()
	fake.SetFlags(true, 300, 5)
	env := newTestEnv(t, fake, nil, "")
	fake.SetPrivileged(otherAddr, env.identity)

	require.NoError(t, env.exec(t, "connect"))
	assert.Contains(t, env.out.String(), "Owner view is locked")
	assert.ErrorIs(t, env.exec(t, "fee 5"), common.ErrLocked)
	assert.Equal(t, 0, fake.Count("Dashboard"), "a locked owner view reads nothing")

	require.NoError(t, env.exec(t, "unlock"))
	out := env.out.String()
	assert.Contains(t, out, "Owner view unlocked.")
	assert.Contains(t, out, "Platform fee")

	require.NoError(t, env.exec(t, "fee 7"))
	assert.Equal(t, 1, fake.Count("UpdatePlatformFee"))

	assert.ErrorIs(t, env.exec(t, "fee 11"), common.ErrValidation)
	assert.Equal(t, 1, fake.Count("UpdatePlatformFee"))
}

func TestOwnerView_UnlockSecret(t *testing.T) {
	hash, err := cryptox.HashSecret([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	old := readPassword
	t.Cleanup(func() { readPassword = old })
	secret := "wrong"
	readPassword = func(int) ([]byte, error) { return []byte(secret), nil }

	fake := ledgertest.New()
	env := newTestEnv(t, fake, nil, "", withUnlockHash(hash))
	fake.SetPrivileged(otherAddr, env.identity)
	require.NoError(t, env.exec(t, "connect"))

	assert.ErrorIs(t, env.exec(t, "unlock"), common.ErrLocked)
	assert.Contains(t, env.app.getStatus(), "owner locked")

	secret = "s3cret"
	require.NoError(t, env.exec(t, "unlock"))
	assert.NotContains(t, env.app.getStatus(), "locked")
}

func TestDeposit_GrantsThenJournals(t *testing.T) {
	fake := ledgertest.New()
	store := openStore(t)
	env := newTestEnv(t, fake, store, "")
	fake.SetPrivileged(env.identity, otherAddr)
	require.NoError(t, env.exec(t, "connect"))

	require.NoError(t, env.exec(t, "deposit 100"))
	assert.Equal(t, []string{"Approve", "Deposit"}, fake.Methods("Approve", "Deposit"))
	out := env.out.String()
	assert.Contains(t, out, "deposit: allowance granted")
	assert.Contains(t, out, "deposit: confirmed")

	env.out.Reset()
	require.NoError(t, env.exec(t, "history"))
	hist := env.out.String()
	assert.Contains(t, hist, "grant")
	assert.Contains(t, hist, "action")
	assert.Contains(t, hist, string(models.TxConfirmed))
}

func TestTax_OutOfRangeNeverSubmits(t *testing.T) {
	fake := ledgertest.New()
	env := newTestEnv(t, fake, nil, "")
	fake.SetPrivileged(env.identity, otherAddr)
	fake.AddEmployee(empAddr, models.SalaryInfo{RatePerSecond: tokens("0.001"), Active: true})
	require.NoError(t, env.exec(t, "connect"))

	assert.ErrorIs(t, env.exec(t, "tax "+empAddr.Hex()+" 51"), common.ErrValidation)
	assert.Equal(t, 0, fake.Count("UpdateTax"))

	require.NoError(t, env.exec(t, "tax "+empAddr.Hex()+" 50"))
	assert.Equal(t, 1, fake.Count("UpdateTax"))
}

func TestTerminate_AsksFirst(t *testing.T) {
	fake := ledgertest.New()
	env := newTestEnv(t, fake, nil, "n\ny\n")
	fake.SetPrivileged(env.identity, otherAddr)
	fake.AddEmployee(empAddr, models.SalaryInfo{RatePerSecond: tokens("0.001"), Active: true})
	require.NoError(t, env.exec(t, "connect"))

	require.NoError(t, env.exec(t, "terminate "+empAddr.Hex()))
	assert.Contains(t, env.out.String(), "Cancelled.")
	assert.Equal(t, 0, fake.Count("TerminateEmployee"))

	require.NoError(t, env.exec(t, "terminate "+empAddr.Hex()))
	assert.Equal(t, 1, fake.Count("TerminateEmployee"))
	assert.False(t, fake.Salary(empAddr).Active)
}

func TestShow_FallsBackToCachedSnapshot(t *testing.T) {
	store := openStore(t)

	fake := ledgertest.New()
	fake.SetDashboard(models.DashboardSnapshot{Treasury: tokens("42")})
	first := newTestEnv(t, fake, store, "")
	fake.SetPrivileged(first.identity, otherAddr)
	require.NoError(t, first.exec(t, "connect"))

	// A second dashboard with the same identity but a failing node.
	var out bytes.Buffer
	second := New(Deps{
		Config:     first.app.config,
		Ledger:     fake,
		OpenWallet: first.app.openWallet,
		Store:      store,
		Clock:      first.clk,
		Out:        &out,
		In:         strings.NewReader(""),
	})
	t.Cleanup(func() { _ = second.Close() })
	fake.SetError("Dashboard", errors.New("node unreachable"))

	require.NoError(t, second.Exec(context.Background(), "connect", nil))
	assert.Contains(t, out.String(), "Ledger read failed")
	assert.Contains(t, out.String(), "cached snapshot from")
	assert.Contains(t, out.String(), "42.0000")
}

func TestEmployee_WatchAndWithdraw(t *testing.T) {
	fake := ledgertest.New()
	fake.SetPrivileged(otherAddr, otherAddr)
	env := newTestEnv(t, fake, nil, "")
	fake.AddEmployee(env.identity, models.SalaryInfo{
		GrossEarned:   tokens("10"),
		RatePerSecond: tokens("1"),
		Active:        true,
	})
	require.NoError(t, env.exec(t, "connect"))
	assert.Contains(t, env.out.String(), "streaming")
	assert.Contains(t, env.app.Commands(), "watch")

	done := make(chan error, 1)
	go func() { done <- env.app.Exec(context.Background(), "watch", []string{"2"}) }()

	var watchErr error
	require.Eventually(t, func() bool {
		env.clk.Advance(time.Second)
		select {
		case watchErr = <-done:
			return true
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, watchErr)
	assert.Equal(t, 2, strings.Count(env.out.String(), "(estimate)"))

	require.NoError(t, env.exec(t, "withdraw"))
	assert.Equal(t, 1, fake.Count("WithdrawSalary"))
}

func TestEmployee_WatchWhenPaused(t *testing.T) {
	fake := ledgertest.New()
	env := newTestEnv(t, fake, nil, "")
	fake.SetPrivileged(otherAddr, otherAddr)
	fake.AddEmployee(env.identity, models.SalaryInfo{
		GrossEarned:   tokens("3"),
		RatePerSecond: tokens("1"),
		Active:        true,
		Paused:        true,
	})
	require.NoError(t, env.exec(t, "connect"))
	assert.Contains(t, env.out.String(), "paused")

	env.out.Reset()
	require.NoError(t, env.exec(t, "watch"))
	assert.Equal(t, "Earned: 3.0000 (not streaming)\n", env.out.String())
}

func TestOnlineStatusWatcher(t *testing.T) {
	fake := ledgertest.New()
	env := newTestEnv(t, fake, nil, "")
	fake.SetError("Ping", errors.New("dial tcp: refused"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go env.app.StartOnlineStatusWatcher(ctx, time.Second)

	require.Eventually(t, func() bool {
		env.clk.Advance(time.Second)
		return env.app.Mode() == ModeOffline
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, env.app.getStatus(), "offline")

	fake.SetError("Ping", nil)
	require.Eventually(t, func() bool {
		env.clk.Advance(time.Second)
		return env.app.Mode() == ModeOnline
	}, 5*time.Second, 10*time.Millisecond)
}

func TestEstimator_StopsOnSessionChange(t *testing.T) {
	fake := ledgertest.New()
	fake.SetPrivileged(otherAddr, otherAddr)
	env := newTestEnv(t, fake, nil, "")
	fake.AddEmployee(env.identity, models.SalaryInfo{
		GrossEarned:   tokens("1"),
		RatePerSecond: tokens("1"),
		Active:        true,
	})
	ctx := context.Background()

	require.NoError(t, env.exec(t, "connect"))
	require.True(t, env.app.estimator.Running())

	require.NoError(t, env.exec(t, "disconnect"))
	assert.False(t, env.app.estimator.Running(), "disconnect")

	require.NoError(t, env.exec(t, "connect"))
	require.True(t, env.app.estimator.Running())

	fake.SetPrivileged(env.identity, env.identity)
	role, err := env.app.roles.Resolve(ctx)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdminOwner, role)
	assert.False(t, env.app.estimator.Running(), "role change")

	env.app.estimator.Reset(tokens("1"), tokens("1"), true, false)
	require.True(t, env.app.estimator.Running())
	require.NoError(t, env.exec(t, "switch owner"))
	assert.False(t, env.app.estimator.Running(), "view change")
}

func TestHashSecret(t *testing.T) {
	oldRead, oldCost := readPassword, secretCost
	t.Cleanup(func() { readPassword, secretCost = oldRead, oldCost })
	secretCost = bcrypt.MinCost

	answers := []string{"s3cret", "s3cret", "s3cret", "other"}
	readPassword = func(int) ([]byte, error) {
		next := answers[0]
		answers = answers[1:]
		return []byte(next), nil
	}

	env := newTestEnv(t, ledgertest.New(), nil, "")
	require.NoError(t, env.exec(t, "hash-secret"))

	var hash string
	for _, line := range strings.Split(env.out.String(), "\n") {
		if strings.HasPrefix(line, "$2") {
			hash = line
		}
	}
	require.NotEmpty(t, hash)
	ok, err := cryptox.VerifySecret(hash, []byte("s3cret"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, env.out.String(), "PAYSTREAM_OWNER_UNLOCK_HASH")

	assert.ErrorIs(t, env.exec(t, "hash-secret"), common.ErrValidation)
}

func TestLastSession(t *testing.T) {
	store := openStore(t)
	fake := ledgertest.New()
	fake.SetPrivileged(otherAddr, otherAddr)

	first := newTestEnv(t, fake, store, "")
	first.app.lastSession(context.Background())
	assert.Empty(t, first.out.String())

	require.NoError(t, first.exec(t, "connect"))

	second := newTestEnv(t, fake, store, "")
	second.app.lastSession(context.Background())
	assert.Equal(t, "Last session: "+first.identity.Hex()+"\n", second.out.String())
}

func TestHistory_ByOperation(t *testing.T) {
	fake := ledgertest.New()
	env := newTestEnv(t, fake, openStore(t), "")
	fake.SetPrivileged(env.identity, otherAddr)
	require.NoError(t, env.exec(t, "connect"))
	require.NoError(t, env.exec(t, "deposit 5"))

	m := regexp.MustCompile(`deposit: confirmed \(0x[0-9a-f]+\), operation ([0-9a-f-]{36})`).FindStringSubmatch(env.out.String())
	require.Len(t, m, 2)

	env.out.Reset()
	require.NoError(t, env.exec(t, "history "+m[1]))
	lines := strings.Split(strings.TrimSpace(env.out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "grant")
	assert.Contains(t, lines[2], "action")

	assert.ErrorIs(t, env.exec(t, "history no-such-op"), common.ErrNotFound)
}
