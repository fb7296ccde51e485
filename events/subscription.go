package events

import (
	"context"
	"sync"
)

// Subscription is a handle on a stream of notifications. Events carry
// no payload; subscribers re-read current state from the emitting
// service.
type Subscription struct {
	ch     chan struct{}
	mgr    *SubscriptionManager
	cancel context.CancelFunc
	once   sync.Once
}

// Chan returns a read-only channel for self-handling events
func (s *Subscription) Chan() <-chan struct{} { return s.ch }

// Cancel unsubscribes and closes the channel. Safe for repeated calls.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.mgr.unsubscribe(s.ch)
	})
}

// Watch runs cb on every event until parentCtx finishes, then cancels
// the subscription. When callNow is true cb runs once immediately.
func (s *Subscription) Watch(parentCtx context.Context, cb func(), callNow bool) *Subscription {
	ctx, cancel := context.WithCancel(parentCtx)
	s.cancel = cancel

	if callNow {
		cb()
	}

	go func() {
		defer s.Cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.ch:
				cb()
			}
		}
	}()

	return s
}

// SubscriptionManager fans notifications out to subscribers without
// blocking the emitter: a subscriber that has not drained its channel
// simply misses intermediate events.
type SubscriptionManager struct {
	mu          sync.RWMutex
	subscribers map[chan struct{}]struct{}
}

// NewSubscriptionManager creates an empty manager
func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{
		subscribers: make(map[chan struct{}]struct{}),
	}
}

// Subscribe registers a new subscriber
func (m *SubscriptionManager) Subscribe() *Subscription {
	ch := make(chan struct{}, 1)

	m.mu.Lock()
	m.subscribers[ch] = struct{}{}
	m.mu.Unlock()

	return &Subscription{ch: ch, mgr: m}
}

func (m *SubscriptionManager) unsubscribe(ch chan struct{}) {
	m.mu.Lock()
	if _, ok := m.subscribers[ch]; ok {
		delete(m.subscribers, ch)
		close(ch)
	}
	m.mu.Unlock()
}

// Emit notifies all subscribers, skipping any whose buffer is full
func (m *SubscriptionManager) Emit(ctx context.Context) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for sub := range m.subscribers {
		select {
		case <-ctx.Done():
			return
		case sub <- struct{}{}:
		default:
		}
	}
}
