package cli

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/dmitrijs2005/paystream/internal/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// errUsage makes Exec print the usage line of the command.
var errUsage = errors.New("usage")

func argAddress(args []string, i int) (ethcommon.Address, error) {
	if i >= len(args) {
		return ethcommon.Address{}, errUsage
	}
	addr, err := models.ParseAddress(args[i])
	if err != nil {
		return ethcommon.Address{}, fmt.Errorf("%w: %w", common.ErrValidation, err)
	}
	return addr, nil
}

func argTokens(args []string, i int) (*big.Int, error) {
	if i >= len(args) {
		return nil, errUsage
	}
	v, err := models.ParseToken(args[i])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrValidation, err)
	}
	return v, nil
}

func argInt(args []string, i int) (int, error) {
	if i >= len(args) {
		return 0, errUsage
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", common.ErrValidation, args[i])
	}
	return n, nil
}

func argIndex(args []string, i int) (uint64, error) {
	if i >= len(args) {
		return 0, errUsage
	}
	n, err := strconv.ParseUint(args[i], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an index", common.ErrValidation, args[i])
	}
	return n, nil
}

// argInteger parses a raw base-unit integer such as an exchange rate.
func argInteger(args []string, i int) (*big.Int, error) {
	if i >= len(args) {
		return nil, errUsage
	}
	v, ok := new(big.Int).SetString(args[i], 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an integer", common.ErrValidation, args[i])
	}
	return v, nil
}

// argDelay accepts a Go duration ("90m", "2h30m") or a bare number of minutes.
func argDelay(args []string, i int) (time.Duration, error) {
	if i >= len(args) {
		return 0, errUsage
	}
	if n, err := strconv.Atoi(args[i]); err == nil {
		return time.Duration(n) * time.Minute, nil
	}
	d, err := time.ParseDuration(args[i])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a delay", common.ErrValidation, args[i])
	}
	return d, nil
}
