package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gacha-collector-bot/internal/domain"
)

// MySQLUserRepository implements UserRepository using MySQL.
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQL user repository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

const userColumns = `id, discord_id, username, global_name, daily_claims,
	last_claim_reset, total_characters, kakera, wishlist_slots, created_at, updated_at`

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var globalName sql.NullString
	err := row.Scan(
		&u.ID, &u.DiscordID, &u.Username, &globalName, &u.DailyClaims,
		&u.LastClaimReset, &u.TotalCharacters, &u.Kakera, &u.WishlistSlots,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.GlobalName = globalName.String
	return &u, nil
}

// GetByDiscordID finds a user by their Discord snowflake ID.
func (r *MySQLUserRepository) GetByDiscordID(ctx context.Context, discordID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE discord_id = ? LIMIT 1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, discordID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Create registers a new user with default stats and returns the stored row.
func (r *MySQLUserRepository) Create(ctx context.Context, discordID, username, globalName string) (*domain.User, error) {
	query := `
		INSERT INTO users (discord_id, username, global_name)
		VALUES (?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, discordID, username, globalName); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return r.GetByDiscordID(ctx, discordID)
}

// ResetDailyClaims zeroes the daily counter and stamps the reset time.
func (r *MySQLUserRepository) ResetDailyClaims(ctx context.Context, userID int64, resetAt time.Time) error {
	query := `
		UPDATE users
		SET daily_claims = 0, last_claim_reset = ?, updated_at = ?
		WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, resetAt, time.Now().UTC(), userID); err != nil {
		return fmt.Errorf("failed to reset daily claims: %w", err)
	}

	return nil
}

// ApplyClaim records a successful claim in a single atomic update.
func (r *MySQLUserRepository) ApplyClaim(ctx context.Context, userID int64, claimValue int) error {
	query := `
		UPDATE users
		SET daily_claims = daily_claims + 1,
		    total_characters = total_characters + 1,
		    kakera = kakera + ?,
		    updated_at = ?
		WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, claimValue, time.Now().UTC(), userID); err != nil {
		return fmt.Errorf("failed to apply claim: %w", err)
	}

	return nil
}

// AddKakera awards currency without touching claim counters.
func (r *MySQLUserRepository) AddKakera(ctx context.Context, userID int64, amount int) error {
	query := `UPDATE users SET kakera = kakera + ?, updated_at = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, amount, time.Now().UTC(), userID); err != nil {
		return fmt.Errorf("failed to add kakera: %w", err)
	}

	return nil
}

// Count returns the number of registered users.
func (r *MySQLUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
