package service

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"gacha-collector-bot/internal/config"
	"gacha-collector-bot/internal/repository"
)

// SpawnChannel is a destination the bot can announce spawns in.
type SpawnChannel struct {
	GuildID   string
	ChannelID string
}

// ChannelSource enumerates eligible spawn destinations, one per guild,
// restricted to channels where the bot can post and react.
type ChannelSource interface {
	EligibleChannels() []SpawnChannel
}

// Spawner periodically spawns a weighted-random character in one guild once
// the spawn cooldown has elapsed.
type Spawner struct {
	characters repository.CharacterRepository
	registry   *SpawnRegistry
	notifier   Notifier
	channels   ChannelSource

	checkInterval time.Duration
	spawnCooldown time.Duration
	rng           *rand.Rand

	mu        sync.Mutex
	lastSpawn time.Time

	stop     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewSpawner creates a new spawn scheduler.
func NewSpawner(
	characters repository.CharacterRepository,
	registry *SpawnRegistry,
	notifier Notifier,
	channels ChannelSource,
	cfg config.GachaConfig,
) *Spawner {
	return &Spawner{
		characters:    characters,
		registry:      registry,
		notifier:      notifier,
		channels:      channels,
		checkInterval: cfg.SpawnCheckInterval,
		spawnCooldown: cfg.SpawnCooldown,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		lastSpawn:     time.Now(),
		stop:          make(chan struct{}),
		now:           time.Now,
	}
}

// Start launches the background spawn loop.
func (s *Spawner) Start() {
	go s.run()
	log.Printf("[Spawner] Started: check every %v, spawn cooldown %v", s.checkInterval, s.spawnCooldown)
}

// Stop halts the spawn loop.
func (s *Spawner) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

func (s *Spawner) run() {
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(context.Background())
		case <-s.stop:
			return
		}
	}
}

// tick spawns in at most one guild per cooldown period. The last-spawn
// timestamp is reset even when no eligible channel was found, matching the
// scheduler contract: a failed scan still consumes the period.
func (s *Spawner) tick(ctx context.Context) {
	now := s.now()

	s.mu.Lock()
	due := now.Sub(s.lastSpawn) >= s.spawnCooldown
	s.mu.Unlock()

	if !due {
		return
	}

	for _, ch := range s.channels.EligibleChannels() {
		if _, err := s.Spawn(ctx, ch); err != nil {
			log.Printf("[Spawner] Error spawning in guild %s: %v", ch.GuildID, err)
			continue
		}
		break
	}

	s.mu.Lock()
	s.lastSpawn = now
	s.mu.Unlock()
}

// Spawn selects a weighted-random character and announces it in the given
// channel. Also the entry point for the privileged manual spawn trigger.
func (s *Spawner) Spawn(ctx context.Context, ch SpawnChannel) (LiveSpawn, error) {
	characters, err := s.characters.ListAll(ctx)
	if err != nil {
		return LiveSpawn{}, err
	}
	if len(characters) == 0 {
		return LiveSpawn{}, errors.New("no characters available to spawn")
	}

	// rand.Rand isn't goroutine-safe; Spawn is reachable from both the
	// scheduler loop and the manual trigger.
	s.mu.Lock()
	character := pickCharacter(characters, s.rng)
	s.mu.Unlock()

	spawnID, err := s.notifier.AnnounceSpawn(ctx, ch.ChannelID, &character)
	if err != nil {
		return LiveSpawn{}, err
	}

	spawn := s.registry.Insert(spawnID, character.ID, ch.GuildID, ch.ChannelID)
	log.Printf("[Spawner] Spawned %s in channel %s (expires %v)",
		character.Name, ch.ChannelID, spawn.ExpiresAt.Format(time.RFC3339))

	return spawn, nil
}
