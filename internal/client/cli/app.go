package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/paystream/internal/client/config"
	"github.com/dmitrijs2005/paystream/internal/client/ledger"
	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/dmitrijs2005/paystream/internal/client/repositories/txlog"
	"github.com/dmitrijs2005/paystream/internal/client/services"
	"github.com/dmitrijs2005/paystream/internal/client/session"
	"github.com/dmitrijs2005/paystream/internal/client/storage"
	"github.com/dmitrijs2005/paystream/internal/client/wallet"
	"github.com/dmitrijs2005/paystream/internal/clock"
	"github.com/dmitrijs2005/paystream/internal/common"
	"github.com/dmitrijs2005/paystream/internal/filex"
	"github.com/dmitrijs2005/paystream/internal/logging"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// WalletOpener produces the wallet capability a connect command uses.
type WalletOpener func(ctx context.Context) (wallet.Wallet, error)

// signerSetter is implemented by ledgers that sign with the connected wallet.
type signerSetter interface {
	SetSigner(*bind.TransactOpts)
}

// Deps are the collaborators of an App. Store and Closer are optional.
type Deps struct {
	Config     *config.Config
	Ledger     ledger.Ledger
	OpenWallet WalletOpener
	Store      *storage.Repositories
	Clock      clock.Clock
	Log        logging.Logger
	In         io.Reader
	Out        io.Writer
	Closer     io.Closer
}

type App struct {
	config     *config.Config
	ledger     ledger.Ledger
	openWallet WalletOpener
	store      *storage.Repositories
	clock      clock.Clock
	log        logging.Logger
	reader     *bufio.Reader
	out        io.Writer
	closer     io.Closer

	session   *session.Holder
	roles     *services.RoleResolver
	fetcher   *services.SnapshotFetcher
	estimator *services.Estimator
	orch      *services.Orchestrator
	payroll   *services.Payroll
	settings  *services.SettingsPanel
	offRamps  *services.OffRampManager

	commands map[string]command
	ticks    chan *big.Int

	mu   sync.Mutex
	mode Mode
}

// New wires the dashboard services around d.
func New(d Deps) *App {
	if d.Clock == nil {
		d.Clock = clock.Real()
	}
	if d.Log == nil {
		d.Log = logging.Nop()
	}
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}

	a := &App{
		config:     d.Config,
		ledger:     d.Ledger,
		openWallet: d.OpenWallet,
		store:      d.Store,
		clock:      d.Clock,
		log:        d.Log,
		reader:     bufio.NewReader(d.In),
		out:        d.Out,
		closer:     d.Closer,
		ticks:      make(chan *big.Int, 1),
		mode:       ModeOnline,
	}

	a.session = session.NewHolder(big.NewInt(d.Config.ChainID), d.Config.OwnerUnlockHash, d.Log.With("component", "session"))
	a.roles = services.NewRoleResolver(d.Ledger, a.session, d.Log.With("component", "roles"))
	a.fetcher = services.NewSnapshotFetcher(d.Ledger, d.Clock, d.Log.With("component", "snapshot"), d.Config.ReadConcurrency)
	a.estimator = services.NewEstimator(d.Clock, d.Config.TickInterval)
	a.estimator.SetObserver(a.onTick)

	var journal txlog.Repository
	if d.Store != nil {
		journal = d.Store.Journal
	}
	a.orch = services.NewOrchestrator(d.Ledger, journal, d.Clock, d.Log.With("component", "orchestrator"))
	a.payroll = services.NewPayroll(d.Ledger, a.orch)
	a.settings = services.NewSettingsPanel(d.Ledger, a.orch, a.refresh)
	a.offRamps = services.NewOffRampManager(d.Ledger, a.orch, a.refresh)

	a.session.OnChange(func(models.Session, bool) {
		a.fetcher.Invalidate()
		a.estimator.Stop()
	})
	a.commands = a.buildCommands()
	return a
}

// NewApp builds the production dashboard: the local database, a dialed
// ledger node and a keystore-backed wallet opener.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	dbPath, err := filex.EnsureParentDir(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("prepare database dir: %w", err)
	}
	store, err := storage.InitDatabase(ctx, dbPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	client, err := ledger.Dial(ctx, cfg.RPCURL)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	l := ledger.NewEVMLedger(client,
		ethcommon.HexToAddress(cfg.LedgerAddress),
		ethcommon.HexToAddress(cfg.TokenAddress),
		ledger.WithRateLimit(cfg.RPCRateLimit),
		ledger.WithPollInterval(cfg.ConfirmPollInterval),
	)

	a := New(Deps{
		Config: cfg,
		Ledger: l,
		Store:  store,
		Log:    log,
		Closer: closerFunc(func() error {
			client.Close()
			return store.Close()
		}),
	})
	a.openWallet = func(ctx context.Context) (wallet.Wallet, error) {
		pw, err := GetPassword(a.out)
		if err != nil {
			return nil, err
		}
		defer common.WipeByteArray(pw)
		return wallet.Open(cfg.KeystorePath, pw, client)
	}
	return a, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Run starts the reachability watcher and blocks in the REPL until the
// user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "PayStream dashboard (type 'help' for commands)")
	a.lastSession(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
	return a.Close()
}

// Close stops the estimator and releases the database and node handles.
func (a *App) Close() error {
	a.estimator.Stop()
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		a.log.Info(ctx, "switched connectivity mode", "mode", mode)
	}
}

// StartOnlineStatusWatcher pings the ledger node every interval and flips
// the app between online and offline mode. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := a.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.ledger.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ctx, ModeOffline)
			} else {
				a.setMode(ctx, ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

// getStatus renders the prompt status: identity, view and mode.
func (a *App) getStatus() string {
	parts := []string{}
	if s, ok := a.session.Current(); ok {
		view := string(s.View)
		if s.OwnerLocked() {
			view += " locked"
		}
		parts = append(parts, models.ShortAddress(s.Identity), view)
	}
	parts = append(parts, string(a.Mode()))
	return "(" + strings.Join(parts, " ") + ")"
}

// onTick runs on the estimator goroutine and keeps only the newest value.
func (a *App) onTick(v *big.Int, _ uint64) {
	select {
	case a.ticks <- v:
	default:
		select {
		case <-a.ticks:
		default:
		}
		select {
		case a.ticks <- v:
		default:
		}
	}
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) currentSession() (models.Session, error) {
	s, ok := a.session.Current()
	if !ok {
		return models.Session{}, fmt.Errorf("%w: run connect first", common.ErrConnection)
	}
	return s, nil
}

func (a *App) report(op string, res services.Result) {
	if res.Granted {
		a.printf("%s: allowance granted (%s)\n", op, res.GrantHash.Hex())
	}
	a.printf("%s: confirmed (%s), operation %s\n", op, res.Hash.Hex(), res.OperationID)
	if res.RefreshErr != nil {
		a.printf("%s: refresh failed, the dashboard may be out of date: %v\n", op, res.RefreshErr)
	}
}

var errNoWallet = errors.New("no wallet configured")
