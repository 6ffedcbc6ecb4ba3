package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCooldownStore keeps claim cooldowns in Redis so they survive restarts
// and are shared when the bot runs sharded. Each cooldown is a key with a
// TTL equal to the cooldown duration; expiry means the user may claim again.
type RedisCooldownStore struct {
	client    *redis.Client
	cooldown  time.Duration
	keyPrefix string
}

// RedisCooldownConfig holds configuration for the Redis cooldown store.
type RedisCooldownConfig struct {
	Addr      string        // Redis address (e.g., "127.0.0.1:6379")
	Password  string        // Redis password (empty if none)
	DB        int           // Redis database number (use different DB per app)
	Cooldown  time.Duration // Per-user claim cooldown
	KeyPrefix string        // Optional custom key prefix
}

// NewRedisCooldownStore connects to Redis and verifies the connection.
func NewRedisCooldownStore(cfg RedisCooldownConfig) (*RedisCooldownStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	keyPrefix := cfg.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "gacha:claim:cooldown"
	}

	log.Printf("[RedisCooldownStore] Connected to Redis DB:%d, prefix:%s, cooldown: %v",
		cfg.DB, keyPrefix, cfg.Cooldown)

	return &RedisCooldownStore{
		client:    client,
		cooldown:  cfg.Cooldown,
		keyPrefix: keyPrefix,
	}, nil
}

func (s *RedisCooldownStore) key(discordID string) string {
	return s.keyPrefix + ":" + discordID
}

// Remaining returns the TTL left on the user's cooldown key.
func (s *RedisCooldownStore) Remaining(ctx context.Context, discordID string) (time.Duration, error) {
	ttl, err := s.client.TTL(ctx, s.key(discordID)).Result()
	if err != nil {
		return 0, err
	}
	// TTL returns negative durations for missing keys or keys without expiry.
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

// Stamp starts the cooldown by setting the key with the cooldown as TTL.
func (s *RedisCooldownStore) Stamp(ctx context.Context, discordID string) error {
	return s.client.Set(ctx, s.key(discordID), time.Now().UTC().Unix(), s.cooldown).Err()
}

// Close releases the Redis connection.
func (s *RedisCooldownStore) Close() error {
	return s.client.Close()
}
