package common

// Ledger-side bounds mirrored locally before submission.
const (
	MaxTaxPercent         = 50
	MaxPlatformFeePercent = 10
)

// TokenDecimals is the number of fractional digits of the payroll token.
const TokenDecimals = 18

// DefaultChainID is the HeLa testnet chain the PayStream contract lives on.
const DefaultChainID = 666888

// WipeByteArray overwrites b with zeros. Use it for passphrases once they
// have been consumed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
