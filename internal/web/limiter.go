package web

import (
	"context"
	"errors"
	"sync"
	"time"
)

// errParseBusy is returned when every parse slot is occupied and the queue
// wait expires. The handler maps it to 429 with a Retry-After hint.
var errParseBusy = errors.New("all parse slots are busy")

const (
	defaultParseSlots = 5
	defaultQueueWait  = 10 * time.Second
)

// parseGate bounds concurrent parse requests with a semaphore. Decoding a
// workbook buffers the whole upload, so unbounded parallelism is a memory
// problem long before it is a CPU one. Requests that cannot get a slot
// within maxWait fail with errParseBusy.
type parseGate struct {
	slots   chan struct{}
	maxWait time.Duration

	mu     sync.Mutex
	active int
}

func newParseGate(slots int, maxWait time.Duration) *parseGate {
	if slots <= 0 {
		slots = defaultParseSlots
	}
	if maxWait <= 0 {
		maxWait = defaultQueueWait
	}
	return &parseGate{
		slots:   make(chan struct{}, slots),
		maxWait: maxWait,
	}
}

// acquire waits up to maxWait for a slot. A nil return must be paired with
// exactly one release.
func (g *parseGate) acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, g.maxWait)
	defer cancel()

	select {
	case g.slots <- struct{}{}:
		g.mu.Lock()
		g.active++
		g.mu.Unlock()
		return nil
	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errParseBusy
	}
}

func (g *parseGate) release() {
	g.mu.Lock()
	g.active--
	g.mu.Unlock()
	<-g.slots
}

func (g *parseGate) activeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

func (g *parseGate) available() int {
	return cap(g.slots) - len(g.slots)
}

// drain blocks until every in-flight parse finishes or ctx expires. Used by
// graceful shutdown so responses in progress are not cut off.
func (g *parseGate) drain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if g.activeCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
