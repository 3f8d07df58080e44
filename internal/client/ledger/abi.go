package ledger

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// PayStreamABI is the method surface of the PayStream payroll contract.
const PayStreamABI = `[
	{"type":"function","name":"hr","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"platformOwner","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"offRampEnabled","inputs":[],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"},
	{"type":"function","name":"yieldRateBps","inputs":[],"outputs":[{"name":"","type":"uint16"}],"stateMutability":"view"},
	{"type":"function","name":"platformFeePercent","inputs":[],"outputs":[{"name":"","type":"uint8"}],"stateMutability":"view"},
	{"type":"function","name":"defaultTaxPercent","inputs":[],"outputs":[{"name":"","type":"uint8"}],"stateMutability":"view"},
	{"type":"function","name":"exchangeRates","inputs":[{"name":"currencyCode","type":"uint8"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"getHRDashboard","inputs":[],"outputs":[{"name":"treasury","type":"uint256"},{"name":"totalTax","type":"uint256"},{"name":"totalPlatformFees","type":"uint256"},{"name":"totalYield","type":"uint256"},{"name":"liability","type":"uint256"},{"name":"employeeCount","type":"uint256"},{"name":"activeCount","type":"uint256"},{"name":"contractBal","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"getEmployeeSalaryInfo","inputs":[{"name":"employee","type":"address"}],"outputs":[{"name":"grossEarned","type":"uint256"},{"name":"netEarned","type":"uint256"},{"name":"taxAmount","type":"uint256"},{"name":"platformFee","type":"uint256"},{"name":"totalWithdrawn","type":"uint256"},{"name":"salaryPerSecond","type":"uint256"},{"name":"isActive","type":"bool"},{"name":"isPaused","type":"bool"}],"stateMutability":"view"},
	{"type":"function","name":"getEmployeeYieldInfo","inputs":[{"name":"employee","type":"address"}],"outputs":[{"name":"yieldPending","type":"uint256"},{"name":"yieldClaimable","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"getEmployeeBonusInfo","inputs":[{"name":"employee","type":"address"}],"outputs":[{"name":"pendingBonuses","type":"uint256"},{"name":"claimableBonuses","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"employeeList","inputs":[{"name":"index","type":"uint256"}],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"streams","inputs":[{"name":"employee","type":"address"}],"outputs":[{"name":"salaryPerSecond","type":"uint256"},{"name":"startTime","type":"uint48"},{"name":"lastClaimTime","type":"uint48"},{"name":"taxPercent","type":"uint8"},{"name":"active","type":"bool"},{"name":"paused","type":"bool"},{"name":"withdrawn","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"getScheduledBonusCount","inputs":[{"name":"employee","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"getScheduledBonus","inputs":[{"name":"employee","type":"address"},{"name":"index","type":"uint256"}],"outputs":[{"name":"amount","type":"uint256"},{"name":"releaseTime","type":"uint48"},{"name":"claimed","type":"bool"},{"name":"exists","type":"bool"}],"stateMutability":"view"},
	{"type":"function","name":"getOffRampCount","inputs":[{"name":"employee","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"getOffRampRequest","inputs":[{"name":"employee","type":"address"},{"name":"index","type":"uint256"}],"outputs":[{"name":"amount","type":"uint256"},{"name":"timestamp","type":"uint48"},{"name":"currencyCode","type":"uint8"},{"name":"processed","type":"bool"},{"name":"exists","type":"bool"}],"stateMutability":"view"},
	{"type":"function","name":"deposit","inputs":[{"name":"amount","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"startStream","inputs":[{"name":"employee","type":"address"},{"name":"salaryPerSecond","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"updateSalary","inputs":[{"name":"employee","type":"address"},{"name":"newRate","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"terminateEmployee","inputs":[{"name":"employee","type":"address"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"pauseStream","inputs":[{"name":"employee","type":"address"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"resumeStream","inputs":[{"name":"employee","type":"address"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"updateTax","inputs":[{"name":"employee","type":"address"},{"name":"newTaxPercent","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"collectTax","inputs":[],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"scheduleBonus","inputs":[{"name":"employee","type":"address"},{"name":"amount","type":"uint256"},{"name":"releaseTime","type":"uint48"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"cancelScheduledBonus","inputs":[{"name":"employee","type":"address"},{"name":"bonusIndex","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"distributeYield","inputs":[{"name":"employee","type":"address"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"updateExchangeRate","inputs":[{"name":"currencyCode","type":"uint8"},{"name":"rate","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"toggleOffRamp","inputs":[],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"processOffRamp","inputs":[{"name":"employee","type":"address"},{"name":"requestIndex","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"collectPlatformFees","inputs":[],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"updatePlatformFee","inputs":[{"name":"newFeePercent","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"updateYieldRate","inputs":[{"name":"newRateBps","type":"uint16"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"withdrawSalary","inputs":[],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"claimYield","inputs":[],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"claimScheduledBonus","inputs":[{"name":"bonusIndex","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"requestOffRamp","inputs":[{"name":"amount","type":"uint256"},{"name":"currencyCode","type":"uint8"}],"outputs":[],"stateMutability":"nonpayable"}
]`

// TokenABI is the ERC-20 subset of the payroll token, plus its test faucet.
const TokenABI = `[
	{"type":"function","name":"balanceOf","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"decimals","inputs":[],"outputs":[{"name":"","type":"uint8"}],"stateMutability":"view"},
	{"type":"function","name":"symbol","inputs":[],"outputs":[{"name":"","type":"string"}],"stateMutability":"view"},
	{"type":"function","name":"approve","inputs":[{"name":"spender","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"allowance","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"transfer","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"mint","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"}
]`

var (
	payStreamABI = mustParseABI(PayStreamABI)
	tokenABI     = mustParseABI(TokenABI)
)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic("ledger: invalid ABI: " + err.Error())
	}
	return parsed
}
