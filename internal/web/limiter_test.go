package web

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestParseGateAcquireRelease(t *testing.T) {
	gate := newParseGate(2, time.Second)
	ctx := context.Background()

	if got := gate.available(); got != 2 {
		t.Errorf("initial available = %d, want 2", got)
	}

	if err := gate.acquire(ctx); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if err := gate.acquire(ctx); err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if got := gate.activeCount(); got != 2 {
		t.Errorf("active = %d, want 2", got)
	}
	if got := gate.available(); got != 0 {
		t.Errorf("available = %d, want 0", got)
	}

	gate.release()
	gate.release()
	if got := gate.activeCount(); got != 0 {
		t.Errorf("active after release = %d, want 0", got)
	}
}

func TestParseGateBusyTimeout(t *testing.T) {
	gate := newParseGate(1, 50*time.Millisecond)
	ctx := context.Background()

	if err := gate.acquire(ctx); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer gate.release()

	start := time.Now()
	err := gate.acquire(ctx)
	if err != errParseBusy {
		t.Errorf("err = %v, want errParseBusy", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("rejected too fast: %v", elapsed)
	}
}

func TestParseGateContextCancel(t *testing.T) {
	gate := newParseGate(1, 5*time.Second)
	if err := gate.acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer gate.release()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- gate.acquire(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != context.Canceled {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Error("acquire did not return after cancellation")
	}
}

func TestParseGateConcurrentBound(t *testing.T) {
	const slots = 3
	gate := newParseGate(slots, time.Second)

	var wg sync.WaitGroup
	var mu sync.Mutex
	maxObserved := 0

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := gate.acquire(context.Background()); err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			defer gate.release()

			mu.Lock()
			if n := gate.activeCount(); n > maxObserved {
				maxObserved = n
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
		}()
	}
	wg.Wait()

	if maxObserved > slots {
		t.Errorf("observed %d concurrent holders, cap is %d", maxObserved, slots)
	}
	if got := gate.activeCount(); got != 0 {
		t.Errorf("final active = %d, want 0", got)
	}
}

func TestParseGateDrain(t *testing.T) {
	gate := newParseGate(2, time.Second)
	ctx := context.Background()

	if err := gate.acquire(ctx); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	drainDone := make(chan error, 1)
	go func() { drainDone <- gate.drain(context.Background()) }()

	select {
	case <-drainDone:
		t.Fatal("drain returned while a slot was held")
	case <-time.After(80 * time.Millisecond):
	}

	gate.release()

	select {
	case err := <-drainDone:
		if err != nil {
			t.Errorf("drain: %v", err)
		}
	case <-time.After(time.Second):
		t.Error("drain did not finish after release")
	}
}

func TestParseGateDefaults(t *testing.T) {
	gate := newParseGate(0, 0)
	if got := cap(gate.slots); got != defaultParseSlots {
		t.Errorf("slots = %d, want %d", got, defaultParseSlots)
	}
	if gate.maxWait != defaultQueueWait {
		t.Errorf("maxWait = %v, want %v", gate.maxWait, defaultQueueWait)
	}
}
