package services

import (
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/paystream/internal/common"
)

// ValidateTaxPercent enforces the ledger's tax ceiling locally.
func ValidateTaxPercent(p int) error {
	if p < 0 || p > common.MaxTaxPercent {
		return fmt.Errorf("%w: tax percent %d outside 0..%d", common.ErrValidation, p, common.MaxTaxPercent)
	}
	return nil
}

// ValidatePlatformFeePercent enforces the ledger's platform fee ceiling locally.
func ValidatePlatformFeePercent(p int) error {
	if p < 0 || p > common.MaxPlatformFeePercent {
		return fmt.Errorf("%w: platform fee percent %d outside 0..%d", common.ErrValidation, p, common.MaxPlatformFeePercent)
	}
	return nil
}

// ValidateAmount requires a strictly positive amount.
func ValidateAmount(name string, v *big.Int) error {
	if v == nil || v.Sign() <= 0 {
		return fmt.Errorf("%w: %s must be positive", common.ErrValidation, name)
	}
	return nil
}

// ValidateYieldRateBps bounds the yield rate at 100%.
func ValidateYieldRateBps(bps int) error {
	if bps < 0 || bps > 10_000 {
		return fmt.Errorf("%w: yield rate %d bps outside 0..10000", common.ErrValidation, bps)
	}
	return nil
}
