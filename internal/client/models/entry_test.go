package models

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTerminated(t *testing.T) {
	tests := []struct {
		name   string
		active bool
		rate   *big.Int
		want   bool
	}{
		{"inactive zero rate never started", false, big.NewInt(0), false},
		{"inactive nil rate never started", false, nil, false},
		{"inactive positive rate terminated", false, big.NewInt(1), true},
		{"active positive rate streaming", true, big.NewInt(5), false},
		{"active zero rate", true, big.NewInt(0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTerminated(tt.active, tt.rate))
		})
	}
}

func TestSalaryInfo_States(t *testing.T) {
	never := SalaryInfo{RatePerSecond: big.NewInt(0)}
	assert.True(t, never.NeverStarted())
	assert.False(t, never.Terminated())
	assert.False(t, never.Streaming())

	terminated := SalaryInfo{RatePerSecond: big.NewInt(10), GrossEarned: big.NewInt(0)}
	assert.True(t, terminated.Terminated())
	assert.False(t, terminated.NeverStarted())

	paused := SalaryInfo{RatePerSecond: big.NewInt(10), Active: true, Paused: true}
	assert.False(t, paused.Streaming())
	assert.False(t, paused.Terminated())
}

func TestEmployeeRecord_Terminated(t *testing.T) {
	rec := EmployeeRecord{Address: common.HexToAddress("0x01"), RatePerSecond: big.NewInt(3)}
	assert.True(t, rec.Terminated())
	rec.Active = true
	assert.False(t, rec.Terminated())
}

func TestScheduledBonus_Matured(t *testing.T) {
	release := time.Unix(1_700_000_000, 0)
	b := ScheduledBonus{ReleaseTime: release}

	assert.False(t, b.Matured(release.Add(-time.Second)))
	assert.True(t, b.Matured(release))
	assert.True(t, b.Matured(release.Add(time.Hour)))
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency("inr")
	require.NoError(t, err)
	assert.Equal(t, CurrencyINR, c)

	c, err = ParseCurrency("2")
	require.NoError(t, err)
	assert.Equal(t, Currency(2), c)
	assert.Equal(t, "FIAT-2", c.String())

	_, err = ParseCurrency("doubloons")
	require.Error(t, err)
	_, err = ParseCurrency("0")
	require.Error(t, err)
}

func TestRole_Views(t *testing.T) {
	assert.Equal(t, AdminView, RoleAdminOwner.DefaultView())
	assert.Equal(t, AdminView, RoleAdmin.DefaultView())
	assert.Equal(t, OwnerView, RoleOwner.DefaultView())
	assert.Equal(t, EmployeeView, RoleEmployee.DefaultView())

	assert.True(t, RoleAdminOwner.Allows(OwnerView))
	assert.True(t, RoleAdminOwner.Allows(AdminView))
	assert.False(t, RoleAdminOwner.Allows(EmployeeView))
	assert.False(t, RoleAdmin.Allows(OwnerView))
	assert.False(t, RoleOwner.Allows(AdminView))
	assert.False(t, RoleEmployee.Allows(AdminView))

	assert.True(t, RoleAdminOwner.CanToggle())
	assert.False(t, RoleAdmin.CanToggle())
	assert.True(t, RoleOwner.IsOwner())
	assert.False(t, RoleAdmin.IsOwner())
}

func TestSession_OwnerLocked(t *testing.T) {
	s := Session{View: OwnerView}
	assert.True(t, s.OwnerLocked())
	s.DevUnlocked = true
	assert.False(t, s.OwnerLocked())
	assert.False(t, Session{View: AdminView}.OwnerLocked())
}

func TestSession_Dashboard(t *testing.T) {
	tests := []struct {
		role Role
		view ViewMode
		want DashboardKind
	}{
		{RoleEmployee, EmployeeView, DashboardEmployee},
		{RoleAdmin, AdminView, DashboardAdmin},
		{RoleOwner, OwnerView, DashboardOwner},
		{RoleAdminOwner, AdminView, DashboardAdmin},
		{RoleAdminOwner, OwnerView, DashboardOwner},
		{RoleEmployee, AdminView, DashboardNone},
		{RoleAdmin, OwnerView, DashboardNone},
		{"", "", DashboardNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Session{Role: tt.role, View: tt.view}.Dashboard(), "%s/%s", tt.role, tt.view)
	}
}

func TestParseAddress(t *testing.T) {
	lower, err := ParseAddress("0xabcdef0123456789abcdef0123456789abcdef01")
	require.NoError(t, err)
	upper, err := ParseAddress(" 0xABCDEF0123456789ABCDEF0123456789ABCDEF01 ")
	require.NoError(t, err)
	assert.Equal(t, lower, upper)

	_, err = ParseAddress("0x123")
	require.Error(t, err)

	assert.Equal(t, "0x1234…5678", ShortAddress(common.HexToAddress("0x1234000000000000000000000000000000005678")))
}
