package models

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/dmitrijs2005/paystream/internal/common"
)

var ErrInvalidAmount = errors.New("invalid amount")

// FormatUnits renders a base-unit amount with the given number of fractional
// digits, truncating the rest. A nil amount renders as zero.
func FormatUnits(v *big.Int, decimals, places int) string {
	if v == nil {
		v = new(big.Int)
	}
	if places > decimals {
		places = decimals
	}

	neg := v.Sign() < 0
	abs := new(big.Int).Abs(v)

	base := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(abs, base, new(big.Int))

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(whole.String())
	if places > 0 {
		digits := frac.String()
		digits = strings.Repeat("0", decimals-len(digits)) + digits
		b.WriteByte('.')
		b.WriteString(digits[:places])
	}
	return b.String()
}

// FormatToken renders a token amount the way the dashboard shows balances.
func FormatToken(v *big.Int) string {
	return FormatUnits(v, common.TokenDecimals, 4)
}

// ParseUnits converts a non-negative decimal string into base units without
// any floating point step. More fractional digits than decimals is an error.
func ParseUnits(s string, decimals int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > decimals {
		return nil, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, decimals)
	}
	if !allDigits(whole) || !allDigits(frac) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	v, ok := new(big.Int).SetString(whole+frac+strings.Repeat("0", decimals-len(frac)), 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return v, nil
}

// ParseToken parses a token amount typed by the user.
func ParseToken(s string) (*big.Int, error) {
	return ParseUnits(s, common.TokenDecimals)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
