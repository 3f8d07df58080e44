package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/paystream/internal/client/ledger"
	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/dmitrijs2005/paystream/internal/common"
	"github.com/dmitrijs2005/paystream/internal/logging"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// ResolveRole maps identity onto a role given the ledger's admin and owner
// addresses. Addresses compare as 20-byte values, so hex letter case never
// matters.
func ResolveRole(identity, admin, owner ethcommon.Address) models.Role {
	isAdmin := identity == admin
	isOwner := identity == owner
	switch {
	case isAdmin && isOwner:
		return models.RoleAdminOwner
	case isAdmin:
		return models.RoleAdmin
	case isOwner:
		return models.RoleOwner
	default:
		return models.RoleEmployee
	}
}

// RoleSink is the part of the session holder the resolver writes to.
type RoleSink interface {
	Current() (models.Session, bool)
	SetRole(identity ethcommon.Address, role models.Role) bool
}

// RoleResolver applies the ledger-reported role to the current session.
type RoleResolver struct {
	reader ledger.PrivilegedReader
	sink   RoleSink
	log    logging.Logger
}

func NewRoleResolver(reader ledger.PrivilegedReader, sink RoleSink, log logging.Logger) *RoleResolver {
	return &RoleResolver{reader: reader, sink: sink, log: log}
}

// Resolve reads both privileged addresses and stores the resulting role.
// When a read fails the session keeps its previous role and the error is
// returned for diagnostics. A result that arrives after the identity
// changed is dropped with ErrStaleFetch.
func (r *RoleResolver) Resolve(ctx context.Context) (models.Role, error) {
	s, ok := r.sink.Current()
	if !ok {
		return "", fmt.Errorf("%w: not connected", common.ErrConnection)
	}

	var admin, owner ethcommon.Address
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		admin, err = r.reader.Admin(gctx)
		return err
	})
	g.Go(func() (err error) {
		owner, err = r.reader.PlatformOwner(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		r.log.Warn(ctx, "role resolution failed, keeping previous role", "identity", s.Identity.Hex(), "role", s.Role, "error", err)
		return s.Role, fmt.Errorf("%w: resolve role: %w", common.ErrRead, err)
	}

	role := ResolveRole(s.Identity, admin, owner)
	if !r.sink.SetRole(s.Identity, role) {
		r.log.Debug(ctx, "discarding role for previous identity", "identity", s.Identity.Hex())
		return role, common.ErrStaleFetch
	}
	r.log.Info(ctx, "role resolved", "identity", s.Identity.Hex(), "role", role)
	return role, nil
}
