package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/dmitrijs2005/paystream/internal/client/models"
	pscommon "github.com/dmitrijs2005/paystream/internal/common"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

func (l *EVMLedger) currentSigner() *bind.TransactOpts {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.signer
}

func (l *EVMLedger) transact(ctx context.Context, contract *bind.BoundContract, method string, args ...any) (common.Hash, error) {
	signer := l.currentSigner()
	if signer == nil {
		return common.Hash{}, fmt.Errorf("%w: %s: no wallet signer attached", pscommon.ErrConnection, method)
	}
	if err := l.wait(ctx); err != nil {
		return common.Hash{}, fmt.Errorf("%w: %s: %w", pscommon.ErrTransaction, method, err)
	}
	opts := *signer
	opts.Context = ctx
	tx, err := contract.Transact(&opts, method, args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %s: %w", pscommon.ErrTransaction, method, err)
	}
	return tx.Hash(), nil
}

func (l *EVMLedger) write(ctx context.Context, method string, args ...any) (common.Hash, error) {
	return l.transact(ctx, l.payStream, method, args...)
}

func u256(v uint64) *big.Int { return new(big.Int).SetUint64(v) }

func (l *EVMLedger) Deposit(ctx context.Context, amount *big.Int) (common.Hash, error) {
	return l.write(ctx, "deposit", amount)
}

func (l *EVMLedger) StartStream(ctx context.Context, employee common.Address, ratePerSecond *big.Int) (common.Hash, error) {
	return l.write(ctx, "startStream", employee, ratePerSecond)
}

func (l *EVMLedger) UpdateSalary(ctx context.Context, employee common.Address, ratePerSecond *big.Int) (common.Hash, error) {
	return l.write(ctx, "updateSalary", employee, ratePerSecond)
}

func (l *EVMLedger) PauseStream(ctx context.Context, employee common.Address) (common.Hash, error) {
	return l.write(ctx, "pauseStream", employee)
}

func (l *EVMLedger) ResumeStream(ctx context.Context, employee common.Address) (common.Hash, error) {
	return l.write(ctx, "resumeStream", employee)
}

func (l *EVMLedger) TerminateEmployee(ctx context.Context, employee common.Address) (common.Hash, error) {
	return l.write(ctx, "terminateEmployee", employee)
}

func (l *EVMLedger) UpdateTax(ctx context.Context, employee common.Address, percent uint8) (common.Hash, error) {
	return l.write(ctx, "updateTax", employee, u256(uint64(percent)))
}

func (l *EVMLedger) CollectTax(ctx context.Context) (common.Hash, error) {
	return l.write(ctx, "collectTax")
}

func (l *EVMLedger) ScheduleBonus(ctx context.Context, employee common.Address, amount *big.Int, release time.Time) (common.Hash, error) {
	return l.write(ctx, "scheduleBonus", employee, amount, big.NewInt(release.Unix()))
}

func (l *EVMLedger) CancelScheduledBonus(ctx context.Context, employee common.Address, index uint64) (common.Hash, error) {
	return l.write(ctx, "cancelScheduledBonus", employee, u256(index))
}

func (l *EVMLedger) DistributeYield(ctx context.Context, employee common.Address) (common.Hash, error) {
	return l.write(ctx, "distributeYield", employee)
}

func (l *EVMLedger) UpdateExchangeRate(ctx context.Context, currency models.Currency, rate *big.Int) (common.Hash, error) {
	return l.write(ctx, "updateExchangeRate", uint8(currency), rate)
}

func (l *EVMLedger) ToggleOffRamp(ctx context.Context) (common.Hash, error) {
	return l.write(ctx, "toggleOffRamp")
}

func (l *EVMLedger) ProcessOffRamp(ctx context.Context, employee common.Address, index uint64) (common.Hash, error) {
	return l.write(ctx, "processOffRamp", employee, u256(index))
}

func (l *EVMLedger) CollectPlatformFees(ctx context.Context) (common.Hash, error) {
	return l.write(ctx, "collectPlatformFees")
}

func (l *EVMLedger) UpdatePlatformFee(ctx context.Context, percent uint8) (common.Hash, error) {
	return l.write(ctx, "updatePlatformFee", u256(uint64(percent)))
}

func (l *EVMLedger) UpdateYieldRate(ctx context.Context, bps uint16) (common.Hash, error) {
	return l.write(ctx, "updateYieldRate", bps)
}

func (l *EVMLedger) WithdrawSalary(ctx context.Context) (common.Hash, error) {
	return l.write(ctx, "withdrawSalary")
}

func (l *EVMLedger) ClaimYield(ctx context.Context) (common.Hash, error) {
	return l.write(ctx, "claimYield")
}

func (l *EVMLedger) ClaimScheduledBonus(ctx context.Context, index uint64) (common.Hash, error) {
	return l.write(ctx, "claimScheduledBonus", u256(index))
}

func (l *EVMLedger) RequestOffRamp(ctx context.Context, amount *big.Int, currency models.Currency) (common.Hash, error) {
	return l.write(ctx, "requestOffRamp", amount, uint8(currency))
}

func (l *EVMLedger) Approve(ctx context.Context, spender common.Address, amount *big.Int) (common.Hash, error) {
	return l.transact(ctx, l.token, "approve", spender, amount)
}

func (l *EVMLedger) Mint(ctx context.Context, to common.Address, amount *big.Int) (common.Hash, error) {
	return l.transact(ctx, l.token, "mint", to, amount)
}

// WaitConfirmed polls for the receipt of hash until it is mined or ctx is
// done. A mined but reverted transaction fails with ErrTransaction.
func (l *EVMLedger) WaitConfirmed(ctx context.Context, hash common.Hash) error {
	for {
		receipt, err := l.receipt(ctx, hash)
		switch {
		case err != nil:
			return err
		case receipt != nil:
			if receipt.Status != types.ReceiptStatusSuccessful {
				return fmt.Errorf("%w: transaction %s reverted", pscommon.ErrTransaction, hash.Hex())
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: waiting for %s: %w", pscommon.ErrTransaction, hash.Hex(), ctx.Err())
		case <-l.clock.After(l.pollInterval):
		}
	}
}

// receipt returns nil, nil while the transaction is still pending.
func (l *EVMLedger) receipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	if err := l.wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: waiting for %s: %w", pscommon.ErrTransaction, hash.Hex(), err)
	}
	receipt, err := l.backend.TransactionReceipt(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: fetch receipt %s: %w", pscommon.ErrTransaction, hash.Hex(), err)
	}
	return receipt, nil
}
