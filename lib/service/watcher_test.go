package service

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/deqrypt/deqrypt.go/common"
	"github.com/deqrypt/deqrypt.go/evm"
	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

// scriptedStatuses serves getInvoice with a fixed status sequence, repeating
// the last entry once exhausted.
func scriptedStatuses(statuses ...uint8) func(to gethcommon.Address, method string, args []interface{}) ([]interface{}, error) {
	var mu sync.Mutex
	index := 0
	return func(to gethcommon.Address, method string, args []interface{}) ([]interface{}, error) {
		mu.Lock()
		defer mu.Unlock()
		record := pendingRecord(1, 100000000)
		record.Status = statuses[index]
		if record.Status == common.ChainStatusPaid {
			record.Payer = testSigner
			record.PaidAt = big.NewInt(1700000100)
		}
		if index < len(statuses)-1 {
			index++
		}
		return []interface{}{record}, nil
	}
}

func TestWatcherFiresOnPaidExactlyOnce(t *testing.T) {
	fake := &fakeEvm{signer: testSigner}
	svc := newTestService(fake)
	fake.callFn = scriptedStatuses(common.ChainStatusPending, common.ChainStatusPending, common.ChainStatusPaid)

	var paidCount, errorCount int32
	done := make(chan struct{})
	svc.WatchInvoiceStatus(context.Background(), big.NewInt(1), WatchOptions{
		Interval:    5 * time.Millisecond,
		MaxAttempts: 50,
		OnPaid: func(invoice *Invoice) {
			atomic.AddInt32(&paidCount, 1)
			assert.Equal(t, common.InvoiceStatusPaid, invoice.Status)
			assert.Equal(t, testSigner.Hex(), invoice.Payer)
			close(done)
		},
		OnError: func(err error) { atomic.AddInt32(&errorCount, 1) },
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never reported paid")
	}
	// the session is consumed, no further callbacks may arrive
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&paidCount))
	assert.Equal(t, int32(0), atomic.LoadInt32(&errorCount))
}

func TestWatcherFiresOnCancelled(t *testing.T) {
	fake := &fakeEvm{signer: testSigner}
	svc := newTestService(fake)
	fake.callFn = scriptedStatuses(common.ChainStatusPending, common.ChainStatusCancelled)

	done := make(chan string, 1)
	svc.WatchInvoiceStatus(context.Background(), big.NewInt(1), WatchOptions{
		Interval:    5 * time.Millisecond,
		MaxAttempts: 50,
		OnCancelled: func(invoice *Invoice) { done <- invoice.Status },
	})

	select {
	case status := <-done:
		assert.Equal(t, common.InvoiceStatusCancelled, status)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never reported cancelled")
	}
}

func TestWatcherTimesOutAfterMaxAttempts(t *testing.T) {
	fake := &fakeEvm{signer: testSigner}
	svc := newTestService(fake)
	fake.callFn = scriptedStatuses(common.ChainStatusPending)

	var errorCount int32
	done := make(chan error, 1)
	svc.WatchInvoiceStatus(context.Background(), big.NewInt(1), WatchOptions{
		Interval:    5 * time.Millisecond,
		MaxAttempts: 5,
		OnPaid:      func(invoice *Invoice) { t.Error("unexpected OnPaid") },
		OnError: func(err error) {
			atomic.AddInt32(&errorCount, 1)
			done <- err
		},
	})

	select {
	case err := <-done:
		assert.Equal(t, evm.KindTimeout, evm.KindOf(err))
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never timed out")
	}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&errorCount))
}

func TestWatcherSurvivesTransientErrors(t *testing.T) {
	fake := &fakeEvm{signer: testSigner}
	svc := newTestService(fake)
	var mu sync.Mutex
	calls := 0
	fake.callFn = func(to gethcommon.Address, method string, args []interface{}) ([]interface{}, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return nil, evm.NewError(evm.KindNetworkError, "rpc hiccup")
		}
		record := pendingRecord(1, 100000000)
		record.Status = common.ChainStatusPaid
		return []interface{}{record}, nil
	}

	var transientErrs int32
	done := make(chan struct{})
	svc.WatchInvoiceStatus(context.Background(), big.NewInt(1), WatchOptions{
		Interval:    5 * time.Millisecond,
		MaxAttempts: 50,
		OnPaid:      func(invoice *Invoice) { close(done) },
		OnError:     func(err error) { atomic.AddInt32(&transientErrs, 1) },
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never recovered from the transient error")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&transientErrs))
}

func TestWatcherStopSuppressesCallbacks(t *testing.T) {
	fake := &fakeEvm{signer: testSigner}
	svc := newTestService(fake)
	fake.callFn = scriptedStatuses(common.ChainStatusPaid)

	watcher := svc.WatchInvoiceStatus(context.Background(), big.NewInt(1), WatchOptions{
		Interval:    50 * time.Millisecond,
		MaxAttempts: 50,
		OnPaid:      func(invoice *Invoice) { t.Error("callback after Stop") },
		OnError:     func(err error) { t.Error("callback after Stop") },
	})
	watcher.Stop()
	// Stop is idempotent
	watcher.Stop()

	time.Sleep(150 * time.Millisecond)
}

func TestWatcherStopFromInsideCallback(t *testing.T) {
	fake := &fakeEvm{signer: testSigner}
	svc := newTestService(fake)
	fake.callFn = func(to gethcommon.Address, method string, args []interface{}) ([]interface{}, error) {
		return nil, evm.NewError(evm.KindNetworkError, "rpc hiccup")
	}

	var errorCount int32
	ready := make(chan struct{})
	stopped := make(chan struct{})
	var watcher *InvoiceWatcher
	watcher = svc.WatchInvoiceStatus(context.Background(), big.NewInt(1), WatchOptions{
		Interval:    5 * time.Millisecond,
		MaxAttempts: 50,
		OnError: func(err error) {
			<-ready
			if atomic.AddInt32(&errorCount, 1) == 1 {
				watcher.Stop()
				close(stopped)
			}
		},
	})
	close(ready)

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop from inside the callback never returned")
	}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&errorCount))
}

func TestWatcherStopFromPaidCallback(t *testing.T) {
	fake := &fakeEvm{signer: testSigner}
	svc := newTestService(fake)
	fake.callFn = scriptedStatuses(common.ChainStatusPending, common.ChainStatusPaid)

	ready := make(chan struct{})
	done := make(chan struct{})
	var watcher *InvoiceWatcher
	watcher = svc.WatchInvoiceStatus(context.Background(), big.NewInt(1), WatchOptions{
		Interval:    5 * time.Millisecond,
		MaxAttempts: 50,
		OnPaid: func(invoice *Invoice) {
			<-ready
			watcher.Stop()
			close(done)
		},
	})
	close(ready)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("OnPaid calling Stop never completed")
	}
}

func TestWatcherContextCancellation(t *testing.T) {
	fake := &fakeEvm{signer: testSigner}
	svc := newTestService(fake)
	fake.callFn = scriptedStatuses(common.ChainStatusPending)

	ctx, cancel := context.WithCancel(context.Background())
	var callbacks int32
	svc.WatchInvoiceStatus(ctx, big.NewInt(1), WatchOptions{
		Interval:    5 * time.Millisecond,
		MaxAttempts: 1000,
		OnPaid:      func(invoice *Invoice) { atomic.AddInt32(&callbacks, 1) },
		OnError:     func(err error) { atomic.AddInt32(&callbacks, 1) },
	})
	cancel()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&callbacks))
}
