package cache

import (
	"context"
	"sync"
	"time"
)

// InMemoryPollThrottle admits at most one provider poll per order per
// interval within a single process
type InMemoryPollThrottle struct {
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	next      map[string]time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryPollThrottle creates a throttle and starts its cleanup goroutine
func NewInMemoryPollThrottle(interval time.Duration) *InMemoryPollThrottle {
	t := &InMemoryPollThrottle{
		interval: interval,
		now:      time.Now,
		next:     make(map[string]time.Time),
		stopChan: make(chan struct{}),
	}
	t.wg.Add(1)
	go t.cleanupLoop()
	return t
}

// Allow reports whether a poll for orderID may go out now and, if so,
// reserves the slot until the interval elapses
func (t *InMemoryPollThrottle) Allow(_ context.Context, orderID string) (bool, error) {
	if t.interval <= 0 {
		return true, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if until, ok := t.next[orderID]; ok && now.Before(until) {
		return false, nil
	}
	t.next[orderID] = now.Add(t.interval)
	return true, nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (t *InMemoryPollThrottle) Close() error {
	t.closeOnce.Do(func() {
		close(t.stopChan)
		t.wg.Wait()
	})
	return nil
}

func (t *InMemoryPollThrottle) cleanupLoop() {
	defer t.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopChan:
			return
		case <-ticker.C:
			t.cleanup()
		}
	}
}

func (t *InMemoryPollThrottle) cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for orderID, until := range t.next {
		if !now.Before(until) {
			delete(t.next, orderID)
		}
	}
}

// Size returns the number of tracked orders
func (t *InMemoryPollThrottle) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.next)
}
