package services

import (
	"math/big"
	"sync"
	"time"

	"github.com/dmitrijs2005/paystream/internal/clock"
)

// Estimator extrapolates the live "earned so far" figure between ledger
// refreshes. While armed, every tick adds exactly one rate to the value.
// The figure is an estimate only and is overwritten by every Reset.
type Estimator struct {
	clock    clock.Clock
	interval time.Duration

	mu       sync.Mutex
	value    *big.Int
	gen      uint64
	ticker   *clock.Ticker
	stop     chan struct{}
	ticks    uint64
	observer func(value *big.Int, ticks uint64)
}

// NewEstimator creates a stopped estimator ticking every interval once armed.
func NewEstimator(clk clock.Clock, interval time.Duration) *Estimator {
	if interval <= 0 {
		interval = time.Second
	}
	return &Estimator{clock: clk, interval: interval, value: new(big.Int)}
}

// SetObserver registers fn to be called after every tick with a copy of
// the new value and the number of ticks since the last Reset. fn runs on
// the ticker goroutine and must not call back into the estimator.
func (e *Estimator) SetObserver(fn func(value *big.Int, ticks uint64)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observer = fn
}

// Reset replaces the estimate with the authoritative gross value and arms
// the ticker iff the stream is active and not paused.
func (e *Estimator) Reset(gross, rate *big.Int, active, paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
	e.value = new(big.Int)
	if gross != nil {
		e.value.Set(gross)
	}
	e.ticks = 0
	if !active || paused {
		return
	}

	step := new(big.Int)
	if rate != nil {
		step.Set(rate)
	}
	ticker := e.clock.NewTicker(e.interval)
	stop := make(chan struct{})
	e.ticker, e.stop = ticker, stop
	go e.run(e.gen, step, ticker, stop)
}

// Stop tears the ticker down and keeps the current value.
func (e *Estimator) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Estimator) stopLocked() {
	e.gen++
	if e.ticker != nil {
		e.ticker.Stop()
		close(e.stop)
		e.ticker, e.stop = nil, nil
	}
}

// Value returns a copy of the current estimate.
func (e *Estimator) Value() *big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return new(big.Int).Set(e.value)
}

// Running reports whether the ticker is armed.
func (e *Estimator) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticker != nil
}

// Ticks returns the number of ticks applied since the last Reset.
func (e *Estimator) Ticks() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticks
}

func (e *Estimator) run(gen uint64, rate *big.Int, ticker *clock.Ticker, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.mu.Lock()
			if e.gen != gen {
				e.mu.Unlock()
				return
			}
			e.value.Add(e.value, rate)
			e.ticks++
			value, ticks, observer := new(big.Int).Set(e.value), e.ticks, e.observer
			e.mu.Unlock()

			if observer != nil {
				observer(value, ticks)
			}
		}
	}
}
