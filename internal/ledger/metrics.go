package ledger

import (
	"context"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/pisfinance/pis-vault/internal/observability/metrics"
)

type ledgerWithMetrics struct {
	ledger Ledger
}

func NewLedgerWithMetrics(l Ledger) Ledger {
	return &ledgerWithMetrics{ledger: l}
}

func (l *ledgerWithMetrics) Address() common.Address { return l.ledger.Address() }
func (l *ledgerWithMetrics) Symbol() string          { return l.ledger.Symbol() }
func (l *ledgerWithMetrics) Decimals() uint8         { return l.ledger.Decimals() }
func (l *ledgerWithMetrics) RevertTo(cp int)         { l.ledger.RevertTo(cp) }
func (l *ledgerWithMetrics) Commit(cp int)           { l.ledger.Commit(cp) }

func (l *ledgerWithMetrics) Checkpoint(ctx context.Context) (context.Context, int) {
	return l.ledger.Checkpoint(ctx)
}

func (l *ledgerWithMetrics) TotalSupply(ctx context.Context) (sdkmath.Int, error) {
	return runLedgerMethodWithMetrics(l.ledger.Symbol(), "TotalSupply", func() (sdkmath.Int, error) {
		return l.ledger.TotalSupply(ctx)
	})
}

func (l *ledgerWithMetrics) BalanceOf(ctx context.Context, owner common.Address) (sdkmath.Int, error) {
	return runLedgerMethodWithMetrics(l.ledger.Symbol(), "BalanceOf", func() (sdkmath.Int, error) {
		return l.ledger.BalanceOf(ctx, owner)
	})
}

func (l *ledgerWithMetrics) Allowance(ctx context.Context, owner, spender common.Address) (sdkmath.Int, error) {
	return runLedgerMethodWithMetrics(l.ledger.Symbol(), "Allowance", func() (sdkmath.Int, error) {
		return l.ledger.Allowance(ctx, owner, spender)
	})
}

func (l *ledgerWithMetrics) Approve(ctx context.Context, owner, spender common.Address, amount sdkmath.Int) error {
	_, err := runLedgerMethodWithMetrics(l.ledger.Symbol(), "Approve", func() (struct{}, error) {
		return struct{}{}, l.ledger.Approve(ctx, owner, spender, amount)
	})
	return err
}

func (l *ledgerWithMetrics) Transfer(ctx context.Context, from, to common.Address, amount sdkmath.Int) error {
	_, err := runLedgerMethodWithMetrics(l.ledger.Symbol(), "Transfer", func() (struct{}, error) {
		return struct{}{}, l.ledger.Transfer(ctx, from, to, amount)
	})
	return err
}

func (l *ledgerWithMetrics) TransferFrom(ctx context.Context, spender, from, to common.Address, amount sdkmath.Int) error {
	_, err := runLedgerMethodWithMetrics(l.ledger.Symbol(), "TransferFrom", func() (struct{}, error) {
		return struct{}{}, l.ledger.TransferFrom(ctx, spender, from, to, amount)
	})
	return err
}

func runLedgerMethodWithMetrics[T any](token, method string, f func() (T, error)) (T, error) {
	startTime := time.Now()
	v, err := f()
	duration := time.Since(startTime)

	metrics.RecordLedgerLatency(duration, token, method, err != nil)
	return v, err
}
