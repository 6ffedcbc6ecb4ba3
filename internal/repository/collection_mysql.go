package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// MySQLCollectionRepository implements CollectionRepository using MySQL.
type MySQLCollectionRepository struct {
	db *sql.DB
}

// NewMySQLCollectionRepository creates a new MySQL collection repository.
func NewMySQLCollectionRepository(db *sql.DB) *MySQLCollectionRepository {
	return &MySQLCollectionRepository{db: db}
}

// Exists reports whether the user already owns the character.
func (r *MySQLCollectionRepository) Exists(ctx context.Context, userID, characterID int64) (bool, error) {
	query := `SELECT COUNT(*) FROM collections WHERE user_id = ? AND character_id = ?`

	var count int
	err := r.db.QueryRowContext(ctx, query, userID, characterID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check ownership: %w", err)
	}

	return count > 0, nil
}

// Create inserts a new ownership record.
func (r *MySQLCollectionRepository) Create(ctx context.Context, userID, characterID int64, claimNumber int) error {
	query := `
		INSERT INTO collections (user_id, character_id, claimed_at, claim_number)
		VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, userID, characterID, time.Now().UTC(), claimNumber)
	if err != nil {
		return fmt.Errorf("failed to create ownership record: %w", err)
	}

	return nil
}

// CountByUser returns how many characters the user owns.
func (r *MySQLCollectionRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM collections WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count owned characters: %w", err)
	}
	return count, nil
}

// Count returns the total number of ownership records.
func (r *MySQLCollectionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM collections`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count collections: %w", err)
	}
	return count, nil
}
