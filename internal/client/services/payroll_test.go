package services

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/dmitrijs2005/paystream/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayroll_Deposit(t *testing.T) {
	h := newHarness(t)
	h.ledger.SetSender(hrAddr)
	p := NewPayroll(h.ledger, h.orch)

	res, err := p.Deposit(context.Background(), hrAddr, tokens(t, "1000"), nil)
	require.NoError(t, err)
	assert.True(t, res.Granted)

	dash, err := h.ledger.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tokens(t, "1000").String(), dash.Treasury.String())
}

func TestPayroll_StreamLifecycle(t *testing.T) {
	h := newHarness(t)
	p := NewPayroll(h.ledger, h.orch)
	ctx := context.Background()

	_, err := p.StartStream(ctx, alice, big.NewInt(3), nil)
	require.NoError(t, err)
	assert.True(t, h.ledger.Salary(alice).Streaming())

	_, err = p.Pause(ctx, alice, nil)
	require.NoError(t, err)
	assert.True(t, h.ledger.Salary(alice).Paused)

	_, err = p.Resume(ctx, alice, nil)
	require.NoError(t, err)

	_, err = p.UpdateSalary(ctx, alice, big.NewInt(4), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), h.ledger.Salary(alice).RatePerSecond.Int64())

	_, err = p.Terminate(ctx, alice, nil)
	require.NoError(t, err)
	assert.True(t, h.ledger.Salary(alice).Terminated())

	_, err = p.Resume(ctx, alice, nil)
	require.ErrorIs(t, err, common.ErrTransaction)
}

func TestPayroll_UpdateTax(t *testing.T) {
	tests := []struct {
		percent int
		wantErr bool
	}{
		{0, false},
		{50, false},
		{51, true},
		{-1, true},
	}
	for _, tt := range tests {
		h := newHarness(t)
		p := NewPayroll(h.ledger, h.orch)
		_, err := p.UpdateTax(context.Background(), alice, tt.percent, nil)
		if tt.wantErr {
			require.ErrorIs(t, err, common.ErrValidation, "percent %d", tt.percent)
			assert.Zero(t, h.ledger.Count("UpdateTax"))
			continue
		}
		require.NoError(t, err)
		s, err := h.ledger.Stream(context.Background(), alice)
		require.NoError(t, err)
		assert.Equal(t, uint8(tt.percent), s.TaxPercent)
	}
}

func TestPayroll_RateValidation(t *testing.T) {
	h := newHarness(t)
	p := NewPayroll(h.ledger, h.orch)
	_, err := p.StartStream(context.Background(), alice, big.NewInt(0), nil)
	require.ErrorIs(t, err, common.ErrValidation)
	_, err = p.Mint(context.Background(), alice, nil, nil)
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Empty(t, h.ledger.Calls())
}

func TestPayroll_SingleWrites(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		method string
		run    func(p *Payroll) (Result, error)
	}{
		{"CollectTax", func(p *Payroll) (Result, error) { return p.CollectTax(ctx, nil) }},
		{"CollectPlatformFees", func(p *Payroll) (Result, error) { return p.CollectPlatformFees(ctx, nil) }},
		{"DistributeYield", func(p *Payroll) (Result, error) { return p.DistributeYield(ctx, alice, nil) }},
		{"WithdrawSalary", func(p *Payroll) (Result, error) { return p.Withdraw(ctx, nil) }},
		{"ClaimYield", func(p *Payroll) (Result, error) { return p.ClaimYield(ctx, nil) }},
		{"Mint", func(p *Payroll) (Result, error) { return p.Mint(ctx, alice, big.NewInt(1), nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			h := newHarness(t)
			_, err := tt.run(NewPayroll(h.ledger, h.orch))
			require.NoError(t, err)
			assert.Equal(t, []string{tt.method, "WaitConfirmed"}, h.ledger.Methods())

			h.ledger.SetError(tt.method, errors.New("rejected"))
			_, err = tt.run(NewPayroll(h.ledger, h.orch))
			require.ErrorIs(t, err, common.ErrTransaction)
		})
	}
}
