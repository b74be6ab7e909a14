package service

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/deqrypt/deqrypt.go/backend"
	"github.com/ziflex/lecho/v3"
)

// RatesCache keeps the latest successful price snapshot plus the one before
// it, refreshed on a fixed timer. The previous snapshot feeds short-horizon
// change display; on the very first success it is seeded equal to the new
// snapshot so deltas start at zero instead of being undefined.
type RatesCache struct {
	backend  *backend.Client
	symbols  []string
	interval time.Duration
	logger   *lecho.Logger

	mu    sync.RWMutex
	rates map[string]backend.TokenRate
	prev  map[string]backend.TokenRate

	stop chan struct{}
	once sync.Once
}

func NewRatesCache(client *backend.Client, symbols []string, interval time.Duration, logger *lecho.Logger) *RatesCache {
	return &RatesCache{
		backend:  client,
		symbols:  symbols,
		interval: interval,
		logger:   logger,
		rates:    map[string]backend.TokenRate{},
		prev:     map[string]backend.TokenRate{},
		stop:     make(chan struct{}),
	}
}

// Start launches the refresh loop. The loop stops when ctx is cancelled or
// Stop is called; either way no further snapshot writes happen after that.
func (rc *RatesCache) Start(ctx context.Context) {
	go func() {
		rc.refresh(ctx)
		ticker := time.NewTicker(rc.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-rc.stop:
				return
			case <-ticker.C:
				rc.refresh(ctx)
			}
		}
	}()
}

// Stop is idempotent and safe to call from teardown paths.
func (rc *RatesCache) Stop() {
	rc.once.Do(func() { close(rc.stop) })
}

func (rc *RatesCache) refresh(ctx context.Context) {
	var fetched map[string]backend.TokenRate
	operation := func() error {
		rates, err := rc.backend.Rates(ctx, rc.symbols)
		if err != nil {
			return err
		}
		fetched = rates
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		rc.logger.Errorf("Failed to refresh token rates: %v", err)
		return
	}
	select {
	case <-rc.stop:
		// A fetch that completes after Stop must not write a snapshot.
		return
	default:
	}
	rc.mu.Lock()
	if len(rc.rates) > 0 {
		rc.prev = rc.rates
	} else {
		rc.prev = fetched
	}
	rc.rates = fetched
	rc.mu.Unlock()
}

// Snapshot returns the current and previous rate maps. The maps are
// replaced wholesale on refresh, never mutated, so they are safe to read.
func (rc *RatesCache) Snapshot() (rates, prev map[string]backend.TokenRate) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.rates, rc.prev
}

// ChangeSinceLast reports the percentage move of a symbol's USD price since
// the previous snapshot.
func (rc *RatesCache) ChangeSinceLast(symbol string) float64 {
	rates, prev := rc.Snapshot()
	current, ok := rates[symbol]
	if !ok {
		return 0
	}
	before, ok := prev[symbol]
	if !ok || before.PriceUSD == 0 {
		return 0
	}
	return (current.PriceUSD - before.PriceUSD) / before.PriceUSD * 100
}
