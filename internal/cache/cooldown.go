package cache

import (
	"context"
	"sync"
	"time"
)

// CooldownStore tracks per-user claim cooldowns. Stamped only by the claim
// arbiter, and only on terminal consuming outcomes.
type CooldownStore interface {
	// Remaining returns how long until the user may claim again
	// (zero when no cooldown is active).
	Remaining(ctx context.Context, discordID string) (time.Duration, error)

	// Stamp starts the cooldown for the user.
	Stamp(ctx context.Context, discordID string) error

	Close() error
}

// MemoryCooldownStore is the in-process fallback when Redis is unavailable.
type MemoryCooldownStore struct {
	mu       sync.RWMutex
	lastSeen map[string]time.Time // discord_id -> last claim time
	cooldown time.Duration
	now      func() time.Time
}

// NewMemoryCooldownStore creates an in-memory cooldown store.
func NewMemoryCooldownStore(cooldown time.Duration) *MemoryCooldownStore {
	return &MemoryCooldownStore{
		lastSeen: make(map[string]time.Time),
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Remaining returns the time left on the user's cooldown.
func (s *MemoryCooldownStore) Remaining(_ context.Context, discordID string) (time.Duration, error) {
	s.mu.RLock()
	last, ok := s.lastSeen[discordID]
	s.mu.RUnlock()

	if !ok {
		return 0, nil
	}

	remaining := s.cooldown - s.now().Sub(last)
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

// Stamp starts the cooldown for the user.
func (s *MemoryCooldownStore) Stamp(_ context.Context, discordID string) error {
	s.mu.Lock()
	s.lastSeen[discordID] = s.now()
	s.mu.Unlock()
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryCooldownStore) Close() error {
	return nil
}
