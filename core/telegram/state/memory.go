package state

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dunyajewellery/catalogbot/core/logger"
)

const defaultSweepInterval = time.Minute

// MemoryOptions configures an in-memory store.
type MemoryOptions struct {
	// IdleTimeout drops sessions not written for this long; 0 keeps them forever.
	IdleTimeout time.Duration
	// SweepInterval controls how often Run scans for idle sessions.
	SweepInterval time.Duration
	// OnExpire is called for every session dropped by idle expiry.
	OnExpire func(userID int64)
	// Now overrides the clock in tests.
	Now func() time.Time
}

type memoryEntry[T any] struct {
	session T
	touched time.Time
}

// Memory is a process-local Store with optional idle expiry.
type Memory[T any] struct {
	mu      sync.Mutex
	entries map[int64]memoryEntry[T]
	opts    MemoryOptions
}

// NewMemory constructs an empty in-memory store.
func NewMemory[T any](opts MemoryOptions) *Memory[T] {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = defaultSweepInterval
	}
	return &Memory[T]{
		entries: make(map[int64]memoryEntry[T]),
		opts:    opts,
	}
}

// Get returns the live session for userID. Expired sessions are treated as absent.
func (m *Memory[T]) Get(userID int64) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	e, ok := m.entries[userID]
	if !ok {
		return zero, false
	}
	if m.expired(e, m.opts.Now()) {
		delete(m.entries, userID)
		m.notifyExpired(userID)
		return zero, false
	}
	return e.session, true
}

// Set stores session for userID and resets its idle clock.
func (m *Memory[T]) Set(userID int64, session T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[userID] = memoryEntry[T]{session: session, touched: m.opts.Now()}
}

// Clear removes the session for userID.
func (m *Memory[T]) Clear(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[userID]
	delete(m.entries, userID)
	return ok
}

// Len reports the number of stored sessions, including ones not yet swept.
func (m *Memory[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Sweep drops every idle session and returns how many were removed.
func (m *Memory[T]) Sweep() int {
	if m.opts.IdleTimeout <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.opts.Now()
	removed := 0
	for id, e := range m.entries {
		if m.expired(e, now) {
			delete(m.entries, id)
			m.notifyExpired(id)
			removed++
		}
	}
	return removed
}

// Run sweeps idle sessions periodically until ctx is done.
func (m *Memory[T]) Run(ctx context.Context) {
	if m.opts.IdleTimeout <= 0 {
		return
	}
	ticker := time.NewTicker(m.opts.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				logger.Debug(ctx, logger.ComponentStore, "session.sweep",
					slog.Int("count", n),
					slog.Int("pending_count", m.Len()),
				)
			}
		}
	}
}

func (m *Memory[T]) expired(e memoryEntry[T], now time.Time) bool {
	return m.opts.IdleTimeout > 0 && now.Sub(e.touched) >= m.opts.IdleTimeout
}

// notifyExpired runs with m.mu held; OnExpire must not call back into the store.
func (m *Memory[T]) notifyExpired(userID int64) {
	if m.opts.OnExpire != nil {
		m.opts.OnExpire(userID)
	}
}
