// Package session holds the single connected session of the dashboard.
//
// The Holder is the only writer of models.Session. Every other component
// reads copies via Current or receives them through OnChange callbacks.
package session

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/dmitrijs2005/paystream/internal/client/wallet"
	"github.com/dmitrijs2005/paystream/internal/common"
	"github.com/dmitrijs2005/paystream/internal/cryptox"
	"github.com/dmitrijs2005/paystream/internal/logging"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Listener receives the session after every change. connected is false
// after a disconnect, in which case s is the zero value.
type Listener func(s models.Session, connected bool)

type Holder struct {
	chainID    *big.Int
	unlockHash string
	log        logging.Logger

	mu        sync.RWMutex
	current   *models.Session
	listeners []Listener
}

// NewHolder creates a disconnected holder that accepts wallets attached to
// chainID. unlockHash is an optional bcrypt hash gating the owner view.
func NewHolder(chainID *big.Int, unlockHash string, log logging.Logger) *Holder {
	return &Holder{chainID: new(big.Int).Set(chainID), unlockHash: unlockHash, log: log}
}

// OnChange registers fn to be called after every session change.
func (h *Holder) OnChange(fn Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// Connect establishes a session for w. A wallet on the wrong network is
// rejected and any existing session is dropped.
func (h *Holder) Connect(ctx context.Context, w wallet.Wallet) (models.Session, error) {
	if w == nil {
		return models.Session{}, fmt.Errorf("%w: no wallet", common.ErrConnection)
	}
	network, err := w.ChainID(ctx)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", common.ErrConnection, err)
	}
	if network.Cmp(h.chainID) != 0 {
		h.Disconnect()
		return models.Session{}, fmt.Errorf("%w: connected to %s, want %s", common.ErrNetworkMismatch, network, h.chainID)
	}

	s := models.Session{
		Identity: w.Address(),
		Network:  new(big.Int).Set(network),
		Role:     models.RoleEmployee,
		View:     models.EmployeeView,
	}
	h.commit(&s)
	h.log.Info(ctx, "session connected", "identity", s.Identity.Hex(), "network", network.String())
	return copySession(s), nil
}

// Disconnect drops the session. It is a no-op when not connected.
func (h *Holder) Disconnect() {
	h.mu.RLock()
	connected := h.current != nil
	h.mu.RUnlock()
	if connected {
		h.commit(nil)
	}
}

// Current returns a copy of the session and whether one is connected.
func (h *Holder) Current() (models.Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return models.Session{}, false
	}
	return copySession(*h.current), true
}

// SetRole records the resolved role of identity and moves to its default
// view. It reports false, without changing anything, if the session has
// since moved to another identity.
func (h *Holder) SetRole(identity ethcommon.Address, role models.Role) bool {
	_, err := h.update(func(s *models.Session) error {
		if s.Identity != identity {
			return common.ErrStaleFetch
		}
		if s.Role != role {
			s.Role = role
			s.View = role.DefaultView()
			s.DevUnlocked = false
		}
		return nil
	})
	return err == nil
}

// SwitchView moves to v. Only roles that allow v may select it, and leaving
// the owner view locks it again.
func (h *Holder) SwitchView(v models.ViewMode) (models.Session, error) {
	return h.update(func(s *models.Session) error {
		if !s.Role.Allows(v) {
			return fmt.Errorf("%w: role %s cannot select %s view", common.ErrNotPermitted, s.Role, v)
		}
		if s.View != v {
			s.View = v
			s.DevUnlocked = false
		}
		return nil
	})
}

// Unlock opens the owner view for this session. The ledger must have
// confirmed the owner role; a configured secret hash must also match.
func (h *Holder) Unlock(secret []byte) error {
	s, ok := h.Current()
	if !ok {
		return fmt.Errorf("%w: not connected", common.ErrConnection)
	}
	if err := checkUnlockable(s); err != nil {
		return err
	}
	if s.DevUnlocked {
		return nil
	}
	if h.unlockHash != "" {
		match, err := cryptox.VerifySecret(h.unlockHash, secret)
		if err != nil {
			return fmt.Errorf("%w: %w", common.ErrLocked, err)
		}
		if !match {
			return fmt.Errorf("%w: secret does not match", common.ErrLocked)
		}
	}

	_, err := h.update(func(cur *models.Session) error {
		if cur.Identity != s.Identity {
			return fmt.Errorf("%w: session changed during unlock", common.ErrLocked)
		}
		if err := checkUnlockable(*cur); err != nil {
			return err
		}
		cur.DevUnlocked = true
		return nil
	})
	return err
}

func checkUnlockable(s models.Session) error {
	if !s.Role.IsOwner() {
		return fmt.Errorf("%w: %s is not the platform owner", common.ErrNotPermitted, s.Identity.Hex())
	}
	if s.View != models.OwnerView {
		return fmt.Errorf("%w: switch to the owner view first", common.ErrNotPermitted)
	}
	return nil
}

// RequiresSecret reports whether Unlock checks a secret.
func (h *Holder) RequiresSecret() bool { return h.unlockHash != "" }

// update applies fn to a copy of the connected session and stores it when
// fn succeeds and changed something.
func (h *Holder) update(fn func(s *models.Session) error) (models.Session, error) {
	h.mu.Lock()
	if h.current == nil {
		h.mu.Unlock()
		return models.Session{}, fmt.Errorf("%w: not connected", common.ErrConnection)
	}
	before := *h.current
	next := before
	if err := fn(&next); err != nil {
		h.mu.Unlock()
		return copySession(before), err
	}
	if next == before {
		h.mu.Unlock()
		return copySession(next), nil
	}
	h.current = &next
	listeners := append([]Listener(nil), h.listeners...)
	h.mu.Unlock()

	h.notify(listeners, &next)
	return copySession(next), nil
}

func (h *Holder) commit(s *models.Session) {
	h.mu.Lock()
	h.current = s
	listeners := append([]Listener(nil), h.listeners...)
	h.mu.Unlock()
	h.notify(listeners, s)
}

func (h *Holder) notify(listeners []Listener, s *models.Session) {
	var snapshot models.Session
	if s != nil {
		snapshot = copySession(*s)
	}
	for _, fn := range listeners {
		fn(snapshot, s != nil)
	}
}

func copySession(s models.Session) models.Session {
	if s.Network != nil {
		s.Network = new(big.Int).Set(s.Network)
	}
	return s
}
