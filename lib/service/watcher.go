package service

import (
	"context"
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/deqrypt/deqrypt.go/common"
	"github.com/deqrypt/deqrypt.go/evm"
)

// WatchOptions configures one invoice watch session. Zero Interval and
// MaxAttempts fall back to the service configuration.
type WatchOptions struct {
	Interval    time.Duration
	MaxAttempts int
	OnPaid      func(*Invoice)
	OnCancelled func(*Invoice)
	OnError     func(error)
}

// InvoiceWatcher is the handle for one watch session. Stop is idempotent
// and guarantees that no callback fires afterwards, including for a query
// already in flight when Stop is called. Callbacks may call Stop themselves
// to end the session early.
type InvoiceWatcher struct {
	stop chan struct{}
	once sync.Once
}

func (w *InvoiceWatcher) Stop() {
	w.once.Do(func() { close(w.stop) })
}

// deliver invokes fn unless the watcher has been stopped. All deliveries
// run on the watcher goroutine and the stop check happens right before fn,
// so a result whose query was in flight at Stop time is discarded instead
// of delivered. Stop never blocks, so fn is free to call it.
func (w *InvoiceWatcher) deliver(fn func()) bool {
	select {
	case <-w.stop:
		return false
	default:
	}
	if fn != nil {
		fn()
	}
	return true
}

// WatchInvoiceStatus polls the invoice until it reaches a terminal state.
// From pending, exactly one terminal callback fires: OnPaid, OnCancelled,
// or OnError with a timeout once MaxAttempts ticks have passed. A transient
// query failure invokes OnError without consuming the session. One watcher
// per invoice is the caller's responsibility; the session itself imposes no
// uniqueness.
func (svc *DeqryptService) WatchInvoiceStatus(ctx context.Context, invoiceID *big.Int, opts WatchOptions) *InvoiceWatcher {
	interval := opts.Interval
	if interval <= 0 {
		interval = svc.PollInterval()
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = svc.MaxPollAttempts()
	}
	watcher := &InvoiceWatcher{stop: make(chan struct{})}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		attempts := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-watcher.stop:
				return
			case <-ticker.C:
			}

			invoice, err := svc.GetInvoice(ctx, invoiceID)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				// Transient failures must not abort monitoring.
				watcher.deliver(func() {
					if opts.OnError != nil {
						opts.OnError(err)
					}
				})
			} else {
				switch invoice.Status {
				case common.InvoiceStatusPaid:
					if watcher.deliver(func() {
						if opts.OnPaid != nil {
							opts.OnPaid(invoice)
						}
					}) {
						watcher.Stop()
					}
					return
				case common.InvoiceStatusCancelled:
					if watcher.deliver(func() {
						if opts.OnCancelled != nil {
							opts.OnCancelled(invoice)
						}
					}) {
						watcher.Stop()
					}
					return
				}
			}

			attempts++
			if attempts >= maxAttempts {
				if watcher.deliver(func() {
					if opts.OnError != nil {
						opts.OnError(evm.NewError(evm.KindTimeout, "invoice watch timed out after "+strconv.Itoa(maxAttempts)+" attempts"))
					}
				}) {
					watcher.Stop()
				}
				return
			}
		}
	}()

	return watcher
}
