// Package models defines the normalized ledger records, session state and
// local journal entries used by the dashboard.
package models

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DashboardSnapshot is the aggregate admin/owner view of the ledger.
// It is immutable once fetched and replaced wholesale on refresh.
type DashboardSnapshot struct {
	Treasury           *big.Int `json:"treasury"`
	TaxVault           *big.Int `json:"tax_vault"`
	PlatformFeeVault   *big.Int `json:"platform_fee_vault"`
	TotalYield         *big.Int `json:"total_yield"`
	YieldLiability     *big.Int `json:"yield_liability"`
	EmployeeCount      uint64   `json:"employee_count"`
	ActiveCount        uint64   `json:"active_count"`
	ContractBalance    *big.Int `json:"contract_balance"`
	OffRampEnabled     bool     `json:"off_ramp_enabled"`
	YieldRateBps       uint16   `json:"yield_rate_bps"`
	PlatformFeePercent uint8    `json:"platform_fee_percent"`
	DefaultTaxPercent  uint8    `json:"default_tax_percent"`
	INRRate            *big.Int `json:"inr_rate"`
}

// EmployeeRecord is one row of the admin employee table.
type EmployeeRecord struct {
	Index         uint64         `json:"index"`
	Address       common.Address `json:"address"`
	RatePerSecond *big.Int       `json:"rate_per_second"`
	GrossEarned   *big.Int       `json:"gross_earned"`
	Active        bool           `json:"active"`
	Paused        bool           `json:"paused"`
	TaxPercent    uint8          `json:"tax_percent"`
}

// Terminated applies the termination rule to the record.
func (e EmployeeRecord) Terminated() bool { return IsTerminated(e.Active, e.RatePerSecond) }

// SalaryInfo is the ledger's salary breakdown for one employee.
type SalaryInfo struct {
	GrossEarned    *big.Int `json:"gross_earned"`
	NetEarned      *big.Int `json:"net_earned"`
	TaxAmount      *big.Int `json:"tax_amount"`
	PlatformFee    *big.Int `json:"platform_fee"`
	TotalWithdrawn *big.Int `json:"total_withdrawn"`
	RatePerSecond  *big.Int `json:"rate_per_second"`
	Active         bool     `json:"active"`
	Paused         bool     `json:"paused"`
}

// Streaming reports whether the stream accrues right now.
func (s SalaryInfo) Streaming() bool { return s.Active && !s.Paused }

// Terminated applies the termination rule to the salary info.
func (s SalaryInfo) Terminated() bool { return IsTerminated(s.Active, s.RatePerSecond) }

// NeverStarted reports an inactive stream that never had a rate.
func (s SalaryInfo) NeverStarted() bool { return !s.Active && isZero(s.RatePerSecond) }

// StreamInfo is the raw stream metadata slot for one employee.
type StreamInfo struct {
	RatePerSecond *big.Int  `json:"rate_per_second"`
	StartTime     time.Time `json:"start_time"`
	LastClaimTime time.Time `json:"last_claim_time"`
	TaxPercent    uint8     `json:"tax_percent"`
	Active        bool      `json:"active"`
	Paused        bool      `json:"paused"`
	Withdrawn     *big.Int  `json:"withdrawn"`
}

// YieldInfo holds the yield figures for one employee.
type YieldInfo struct {
	Pending   *big.Int `json:"pending"`
	Claimable *big.Int `json:"claimable"`
}

// BonusInfo holds the bonus totals for one employee.
type BonusInfo struct {
	Pending   *big.Int `json:"pending"`
	Claimable *big.Int `json:"claimable"`
}

// ScheduledBonus is one bonus slot. Slots with Exists=false are vacated
// tombstones; indices above them remain valid.
type ScheduledBonus struct {
	Index       uint64    `json:"index"`
	Amount      *big.Int  `json:"amount"`
	ReleaseTime time.Time `json:"release_time"`
	Claimed     bool      `json:"claimed"`
	Exists      bool      `json:"exists"`
}

// Matured reports whether the bonus may be claimed at now.
func (b ScheduledBonus) Matured(now time.Time) bool { return !now.Before(b.ReleaseTime) }

// OffRampRequest is one fiat conversion request of an employee.
type OffRampRequest struct {
	Index     uint64    `json:"index"`
	Amount    *big.Int  `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
	Currency  Currency  `json:"currency"`
	Processed bool      `json:"processed"`
	Exists    bool      `json:"exists"`
}

// IsTerminated is the termination rule: a stream is terminated iff it is
// inactive and its last known rate is non-zero. Inactive with a zero rate
// means it never started.
func IsTerminated(active bool, rate *big.Int) bool {
	return !active && !isZero(rate)
}

func isZero(v *big.Int) bool { return v == nil || v.Sign() == 0 }

// Currency is the ledger's fiat currency code.
type Currency uint8

const CurrencyINR Currency = 1

var currencyNames = map[Currency]string{
	CurrencyINR: "INR",
}

func (c Currency) String() string {
	if name, ok := currencyNames[c]; ok {
		return name
	}
	return fmt.Sprintf("FIAT-%d", uint8(c))
}

// ParseCurrency accepts a known name (case-insensitive) or a numeric code.
func ParseCurrency(s string) (Currency, error) {
	s = strings.TrimSpace(s)
	for code, name := range currencyNames {
		if strings.EqualFold(name, s) {
			return code, nil
		}
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("unknown currency %q", s)
	}
	return Currency(n), nil
}
