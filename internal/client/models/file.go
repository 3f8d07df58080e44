package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Role is what the ledger says a connected identity may do.
type Role string

const (
	RoleEmployee   Role = "employee"
	RoleAdmin      Role = "admin"
	RoleOwner      Role = "owner"
	RoleAdminOwner Role = "admin+owner"
)

// ViewMode selects one of the three dashboards.
type ViewMode string

const (
	EmployeeView ViewMode = "employee"
	AdminView    ViewMode = "admin"
	OwnerView    ViewMode = "owner"
)

// DefaultView is the view a freshly resolved role lands on.
func (r Role) DefaultView() ViewMode {
	switch r {
	case RoleAdmin, RoleAdminOwner:
		return AdminView
	case RoleOwner:
		return OwnerView
	default:
		return EmployeeView
	}
}

// Allows reports whether the role may display view v.
func (r Role) Allows(v ViewMode) bool {
	switch r {
	case RoleAdminOwner:
		return v == AdminView || v == OwnerView
	case RoleAdmin:
		return v == AdminView
	case RoleOwner:
		return v == OwnerView
	case RoleEmployee:
		return v == EmployeeView
	}
	return false
}

// CanToggle reports whether the role may switch between admin and owner views.
func (r Role) CanToggle() bool { return r == RoleAdminOwner }

// IsOwner reports whether the ledger confirmed the platform-owner capability.
func (r Role) IsOwner() bool { return r == RoleOwner || r == RoleAdminOwner }

// Session is the connected identity plus what the dashboard derived from it.
// Consumers get copies; only the session holder mutates the original.
type Session struct {
	Identity    common.Address
	Network     *big.Int
	Role        Role
	View        ViewMode
	DevUnlocked bool
}

// Privileged reports whether the current view is an admin or owner view.
func (s Session) Privileged() bool {
	return s.View == AdminView || s.View == OwnerView
}

// OwnerLocked reports whether the owner dashboard is selected but not yet
// unlocked for this session.
func (s Session) OwnerLocked() bool {
	return s.View == OwnerView && !s.DevUnlocked
}

// DashboardKind is the dashboard variant a session renders.
type DashboardKind int

const (
	DashboardNone DashboardKind = iota
	DashboardEmployee
	DashboardAdmin
	DashboardOwner
)

// Dashboard maps the role and view pair onto the dashboard to render.
// Pairs the role does not allow render nothing.
func (s Session) Dashboard() DashboardKind {
	if !s.Role.Allows(s.View) {
		return DashboardNone
	}
	switch s.View {
	case AdminView:
		return DashboardAdmin
	case OwnerView:
		return DashboardOwner
	default:
		return DashboardEmployee
	}
}
