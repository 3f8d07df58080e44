package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/paystream/internal/client/config"
	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/dmitrijs2005/paystream/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/paystream/internal/client/wallet"
	"github.com/dmitrijs2005/paystream/internal/common"
	"github.com/dmitrijs2005/paystream/internal/cryptox"
	"github.com/ethereum/go-ethereum/accounts/keystore"
)

// keystoreCost is a test seam for the scrypt parameters of keygen.
var keystoreCost = struct{ N, P int }{keystore.StandardScryptN, keystore.StandardScryptP}

// secretCost is a test seam for the bcrypt cost of hash-secret.
var secretCost = cryptox.SecretCost

func (a *App) connect(ctx context.Context, _ []string) error {
	if a.openWallet == nil {
		return fmt.Errorf("%w: %w", common.ErrConnection, errNoWallet)
	}
	w, err := a.openWallet(ctx)
	if err != nil {
		if errors.Is(err, common.ErrConnection) {
			return err
		}
		return fmt.Errorf("%w: %w", common.ErrConnection, err)
	}

	s, err := a.session.Connect(ctx, w)
	if err != nil {
		if errors.Is(err, common.ErrNetworkMismatch) {
			a.printf("Wrong network: switch the wallet to chain %d and connect again.\n", a.config.ChainID)
		}
		return err
	}
	if setter, ok := a.ledger.(signerSetter); ok {
		opts, err := w.Transactor(s.Network)
		if err != nil {
			a.session.Disconnect()
			return fmt.Errorf("%w: transactor: %w", common.ErrConnection, err)
		}
		setter.SetSigner(opts)
	}
	a.printf("Connected as %s\n", s.Identity.Hex())

	if _, err := a.roles.Resolve(ctx); err != nil {
		a.log.Warn(ctx, "role resolution failed", "error", err)
		a.println("Could not read ledger roles, keeping the previous role.")
	}
	s, _ = a.session.Current()
	a.printf("Role: %s, view: %s\n", s.Role, s.View)

	if a.store != nil {
		if err := metadata.NewCache(a.store.Metadata).Remember(ctx, s.Identity); err != nil {
			a.log.Warn(ctx, "failed to remember identity", "error", err)
		}
	}
	return a.refreshAndShow(ctx)
}

func (a *App) disconnect(ctx context.Context, _ []string) error {
	a.session.Disconnect()
	if setter, ok := a.ledger.(signerSetter); ok {
		setter.SetSigner(nil)
	}
	a.println("Disconnected.")
	return nil
}

func (a *App) status(ctx context.Context, _ []string) error {
	s, err := a.currentSession()
	if err != nil {
		return err
	}
	a.printf("Identity: %s\nNetwork:  %s\nRole:     %s\nView:     %s\nMode:     %s\n",
		s.Identity.Hex(), s.Network, s.Role, s.View, a.Mode())
	if s.View == models.OwnerView {
		a.printf("Unlocked: %t\n", s.DevUnlocked)
	}

	balance, err := a.ledger.BalanceOf(ctx, s.Identity)
	if err != nil {
		a.log.Warn(ctx, "balance read failed", "error", err)
		return nil
	}
	allowance, err := a.ledger.Allowance(ctx, s.Identity, a.ledger.Spender())
	if err != nil {
		a.log.Warn(ctx, "allowance read failed", "error", err)
		return nil
	}
	a.printf("Balance:  %s\nGranted:  %s\n", models.FormatToken(balance), models.FormatToken(allowance))
	return nil
}

func (a *App) switchView(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	view := models.ViewMode(strings.ToLower(args[0]))
	s, err := a.session.SwitchView(view)
	if err != nil {
		return err
	}
	if s.OwnerLocked() {
		a.println("Owner view is locked. Run unlock.")
		return nil
	}
	return a.refreshAndShow(ctx)
}

func (a *App) unlock(ctx context.Context, _ []string) error {
	var secret []byte
	if a.session.RequiresSecret() {
		var err error
		secret, err = GetSecret(a.out, "Owner unlock secret")
		if err != nil {
			return err
		}
		defer common.WipeByteArray(secret)
	}
	if err := a.session.Unlock(secret); err != nil {
		return err
	}
	a.println("Owner view unlocked.")
	return a.refreshAndShow(ctx)
}

// keygen writes a fresh encrypted key to the configured keystore path.
func (a *App) keygen(ctx context.Context, _ []string) error {
	path := a.config.KeystorePath
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("keystore %s already exists", path)
	}

	pw, err := GetSecret(a.out, "New keystore passphrase")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	again, err := GetSecret(a.out, "Repeat passphrase")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(again)
	if len(pw) == 0 || !bytes.Equal(pw, again) {
		return fmt.Errorf("%w: passphrases are empty or do not match", common.ErrValidation)
	}

	addr, err := wallet.Create(path, pw, keystoreCost.N, keystoreCost.P)
	if err != nil {
		return err
	}
	a.log.Info(ctx, "keystore created", "path", path, "address", addr.Hex())
	a.printf("Created %s for %s\n", path, addr.Hex())
	return nil
}

// history lists recent journal records, or the steps of one operation
// when given an operation id.
func (a *App) history(ctx context.Context, args []string) error {
	if a.store == nil {
		return errors.New("no local journal")
	}
	limit := 10
	if len(args) > 0 {
		if _, err := strconv.Atoi(args[0]); err != nil {
			recs, err := a.store.Journal.Operation(ctx, args[0])
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				return fmt.Errorf("%w: operation %s", common.ErrNotFound, args[0])
			}
			renderHistory(a.out, recs)
			return nil
		}
		n, err := argInt(args, 0)
		if err != nil {
			return err
		}
		limit = n
	}
	recs, err := a.store.Journal.Recent(ctx, limit)
	if err != nil {
		return err
	}
	renderHistory(a.out, recs)
	return nil
}

// hashSecret prints a bcrypt hash for the owner unlock secret, ready for
// the owner_unlock_hash setting.
func (a *App) hashSecret(ctx context.Context, _ []string) error {
	secret, err := GetSecret(a.out, "Owner unlock secret")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(secret)
	again, err := GetSecret(a.out, "Repeat secret")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(again)
	if len(secret) == 0 || !bytes.Equal(secret, again) {
		return fmt.Errorf("%w: secrets are empty or do not match", common.ErrValidation)
	}

	hash, err := cryptox.HashSecret(secret, secretCost)
	if err != nil {
		return err
	}
	a.printf("%s\nSet it as owner_unlock_hash in the config file or %s_OWNER_UNLOCK_HASH.\n", hash, config.EnvPrefix)
	return nil
}

// lastSession prints the identity of the previous session, if the store
// remembers one.
func (a *App) lastSession(ctx context.Context) {
	if a.store == nil {
		return
	}
	addr, ok, err := metadata.NewCache(a.store.Metadata).LastIdentity(ctx)
	if err != nil {
		a.log.Warn(ctx, "failed to read last identity", "error", err)
		return
	}
	if ok {
		a.printf("Last session: %s\n", addr.Hex())
	}
}
