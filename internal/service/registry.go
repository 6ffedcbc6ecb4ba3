package service

import (
	"sync"
	"time"
)

// LiveSpawn is an ephemeral record of a character waiting to be claimed.
// It lives only in the SpawnRegistry and is lost on restart; no claim is
// finalized until persistence succeeds, so that loss is safe.
type LiveSpawn struct {
	SpawnID     string // announcement message ID
	CharacterID int64
	GuildID     string
	ChannelID   string
	SpawnedAt   time.Time
	ExpiresAt   time.Time
	claimed     bool
}

// AcquireResult is the outcome of an attempt to lock a spawn for claiming.
type AcquireResult int

const (
	AcquireNotFound AcquireResult = iota
	AcquireExpired
	AcquireAlreadyClaimed
	AcquireOK
)

type registryEntry struct {
	spawn LiveSpawn
	timer *time.Timer
}

// SpawnRegistry is the process-wide table of live spawns. Entries are
// evicted by a per-entry timer when the claim window passes, and lazily on
// Acquire; whichever fires first governs.
type SpawnRegistry struct {
	mu          sync.Mutex
	spawns      map[string]*registryEntry
	claimWindow time.Duration
	now         func() time.Time
	closed      bool
}

// NewSpawnRegistry creates a registry whose entries expire after claimWindow.
func NewSpawnRegistry(claimWindow time.Duration) *SpawnRegistry {
	return &SpawnRegistry{
		spawns:      make(map[string]*registryEntry),
		claimWindow: claimWindow,
		now:         time.Now,
	}
}

// Insert registers a new live spawn and schedules its eviction.
func (r *SpawnRegistry) Insert(spawnID string, characterID int64, guildID, channelID string) LiveSpawn {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	spawn := LiveSpawn{
		SpawnID:     spawnID,
		CharacterID: characterID,
		GuildID:     guildID,
		ChannelID:   channelID,
		SpawnedAt:   now,
		ExpiresAt:   now.Add(r.claimWindow),
	}

	// Re-registering an ID must not leave the old entry's timer armed, or it
	// would evict the replacement early.
	if prev, ok := r.spawns[spawnID]; ok && prev.timer != nil {
		prev.timer.Stop()
	}

	entry := &registryEntry{spawn: spawn}
	if !r.closed {
		entry.timer = time.AfterFunc(r.claimWindow, func() {
			r.evict(spawnID)
		})
	}
	r.spawns[spawnID] = entry

	return spawn
}

// Acquire looks up a spawn and, if it is live and unclaimed, marks it
// claimed in the same critical section. At most one caller per spawn ever
// gets AcquireOK; everyone else observes a rejection. There is no I/O here:
// the check and the flag-set are atomic with respect to other claim signals.
func (r *SpawnRegistry) Acquire(spawnID string) (LiveSpawn, AcquireResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.spawns[spawnID]
	if !ok {
		return LiveSpawn{}, AcquireNotFound
	}

	// Lazy expiry check, in case the eviction timer hasn't fired yet.
	if r.now().After(entry.spawn.ExpiresAt) {
		r.removeLocked(spawnID, entry)
		return entry.spawn, AcquireExpired
	}

	if entry.spawn.claimed {
		return entry.spawn, AcquireAlreadyClaimed
	}

	entry.spawn.claimed = true
	return entry.spawn, AcquireOK
}

// Release undoes a claim lock so another claimant can win the spawn.
// Called for rejections that are about the claimant, not the spawn
// (cooldown, daily quota) and for errors mid-claim.
func (r *SpawnRegistry) Release(spawnID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.spawns[spawnID]; ok {
		entry.spawn.claimed = false
	}
}

// Consume removes a spawn after a terminal outcome (claim or duplicate).
func (r *SpawnRegistry) Consume(spawnID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.spawns[spawnID]; ok {
		r.removeLocked(spawnID, entry)
	}
}

// Get returns a copy of the spawn, if it is still registered.
func (r *SpawnRegistry) Get(spawnID string) (LiveSpawn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.spawns[spawnID]
	if !ok {
		return LiveSpawn{}, false
	}
	return entry.spawn, true
}

// Len returns the number of live spawns.
func (r *SpawnRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.spawns)
}

// Close stops all eviction timers.
func (r *SpawnRegistry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for id, entry := range r.spawns {
		r.removeLocked(id, entry)
	}
	return nil
}

func (r *SpawnRegistry) evict(spawnID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.spawns[spawnID]; ok {
		r.removeLocked(spawnID, entry)
	}
}

func (r *SpawnRegistry) removeLocked(spawnID string, entry *registryEntry) {
	if entry.timer != nil {
		entry.timer.Stop()
	}
	delete(r.spawns, spawnID)
}
