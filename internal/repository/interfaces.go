package repository

import (
	"context"
	"time"

	"gacha-collector-bot/internal/domain"
)

// UserRepository defines user data access methods.
// Every call is atomic; callers must not assume cross-call transactions.
type UserRepository interface {
	GetByDiscordID(ctx context.Context, discordID string) (*domain.User, error)
	Create(ctx context.Context, discordID, username, globalName string) (*domain.User, error)

	// ResetDailyClaims zeroes the daily counter and stamps the reset time.
	ResetDailyClaims(ctx context.Context, userID int64, resetAt time.Time) error

	// ApplyClaim records a successful claim: dailyClaims+1, totalCharacters+1,
	// kakera+claimValue.
	ApplyClaim(ctx context.Context, userID int64, claimValue int) error

	// AddKakera awards currency without touching claim counters
	// (duplicate compensation).
	AddKakera(ctx context.Context, userID int64, amount int) error

	Count(ctx context.Context) (int64, error)
}

// CharacterRepository defines read-only catalog access plus one-time seeding.
type CharacterRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Character, error)
	ListAll(ctx context.Context) ([]domain.Character, error)
	Count(ctx context.Context) (int64, error)
	Seed(ctx context.Context, characters []domain.Character) error
}

// CollectionRepository defines ownership record access methods.
type CollectionRepository interface {
	// Exists reports whether the user already owns the character.
	Exists(ctx context.Context, userID, characterID int64) (bool, error)

	// Create inserts a new ownership record. The UNIQUE(user_id, character_id)
	// constraint is the durable backstop against double ownership.
	Create(ctx context.Context, userID, characterID int64, claimNumber int) error

	CountByUser(ctx context.Context, userID int64) (int64, error)
	Count(ctx context.Context) (int64, error)
}
