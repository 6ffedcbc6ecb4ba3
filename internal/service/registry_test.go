package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegistryAcquireUnknownSpawn(t *testing.T) {
	r := NewSpawnRegistry(15 * time.Minute)
	defer r.Close()

	_, res := r.Acquire("nope")
	require.Equal(t, AcquireNotFound, res)
}

func TestRegistryAcquireMarksClaimed(t *testing.T) {
	r := NewSpawnRegistry(15 * time.Minute)
	defer r.Close()

	r.Insert("spawn-1", 7, "guild", "channel")

	spawn, res := r.Acquire("spawn-1")
	require.Equal(t, AcquireOK, res)
	require.Equal(t, int64(7), spawn.CharacterID)

	_, res = r.Acquire("spawn-1")
	require.Equal(t, AcquireAlreadyClaimed, res)
}

func TestRegistryReleaseAllowsReacquire(t *testing.T) {
	r := NewSpawnRegistry(15 * time.Minute)
	defer r.Close()

	r.Insert("spawn-1", 7, "guild", "channel")

	_, res := r.Acquire("spawn-1")
	require.Equal(t, AcquireOK, res)

	r.Release("spawn-1")

	_, res = r.Acquire("spawn-1")
	require.Equal(t, AcquireOK, res)
}

func TestRegistryConsumeRemoves(t *testing.T) {
	r := NewSpawnRegistry(15 * time.Minute)
	defer r.Close()

	r.Insert("spawn-1", 7, "guild", "channel")
	require.Equal(t, 1, r.Len())

	r.Consume("spawn-1")
	require.Equal(t, 0, r.Len())

	_, res := r.Acquire("spawn-1")
	require.Equal(t, AcquireNotFound, res)
}

func TestRegistryLazyExpiry(t *testing.T) {
	r := NewSpawnRegistry(15 * time.Minute)
	defer r.Close()

	r.Insert("spawn-1", 7, "guild", "channel")

	// Jump past the claim window without waiting for the eviction timer.
	r.now = func() time.Time { return time.Now().Add(16 * time.Minute) }

	_, res := r.Acquire("spawn-1")
	require.Equal(t, AcquireExpired, res)
	require.Equal(t, 0, r.Len(), "expired entry must be evicted")
}

func TestRegistryExpiryAppliesEvenWhenClaimed(t *testing.T) {
	r := NewSpawnRegistry(15 * time.Minute)
	defer r.Close()

	r.Insert("spawn-1", 7, "guild", "channel")
	_, res := r.Acquire("spawn-1")
	require.Equal(t, AcquireOK, res)

	r.now = func() time.Time { return time.Now().Add(16 * time.Minute) }

	_, res = r.Acquire("spawn-1")
	require.Equal(t, AcquireExpired, res)
}

func TestRegistryTimerEviction(t *testing.T) {
	r := NewSpawnRegistry(20 * time.Millisecond)
	defer r.Close()

	r.Insert("spawn-1", 7, "guild", "channel")

	require.Eventually(t, func() bool {
		return r.Len() == 0
	}, time.Second, 5*time.Millisecond, "timer should evict the spawn")
}

func TestRegistryReinsertDisarmsOldTimer(t *testing.T) {
	r := NewSpawnRegistry(100 * time.Millisecond)
	defer r.Close()

	r.Insert("spawn-1", 7, "guild", "channel")
	time.Sleep(60 * time.Millisecond)

	// Re-register the same ID; the first entry's timer fires at ~100ms and
	// must not evict the replacement, which lives until ~160ms.
	r.Insert("spawn-1", 8, "guild", "channel")
	time.Sleep(60 * time.Millisecond)

	spawn, ok := r.Get("spawn-1")
	require.True(t, ok, "replacement entry must survive the old timer")
	require.Equal(t, int64(8), spawn.CharacterID)

	require.Eventually(t, func() bool {
		return r.Len() == 0
	}, time.Second, 5*time.Millisecond, "replacement entry still expires on its own timer")
}

func TestRegistryConcurrentAcquireSingleWinner(t *testing.T) {
	r := NewSpawnRegistry(15 * time.Minute)
	defer r.Close()

	r.Insert("spawn-1", 7, "guild", "channel")

	const attempts = 64
	var wg sync.WaitGroup
	results := make(chan AcquireResult, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, res := r.Acquire("spawn-1")
			results <- res
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for res := range results {
		if res == AcquireOK {
			winners++
		} else {
			require.Equal(t, AcquireAlreadyClaimed, res)
		}
	}
	require.Equal(t, 1, winners, "exactly one claimant may win the race")
}
