package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"gacha-collector-bot/internal/domain"
)

// MySQLCharacterRepository implements CharacterRepository using MySQL.
type MySQLCharacterRepository struct {
	db *sql.DB
}

// NewMySQLCharacterRepository creates a new MySQL character repository.
func NewMySQLCharacterRepository(db *sql.DB) *MySQLCharacterRepository {
	return &MySQLCharacterRepository{db: db}
}

// GetByID returns a single catalog entry.
func (r *MySQLCharacterRepository) GetByID(ctx context.Context, id int64) (*domain.Character, error) {
	query := `
		SELECT id, name, series, rarity, image_url, description, gender, tags, claim_value
		FROM characters WHERE id = ? LIMIT 1`

	var c domain.Character
	var imageURL, description, gender sql.NullString
	var tagsJSON []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Series, &c.Rarity,
		&imageURL, &description, &gender, &tagsJSON, &c.ClaimValue,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	c.ImageURL = imageURL.String
	c.Description = description.String
	c.Gender = gender.String
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &c.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode character tags: %w", err)
		}
	}

	return &c, nil
}

// ListAll returns the full catalog, used by the spawner's weighted draw.
func (r *MySQLCharacterRepository) ListAll(ctx context.Context) ([]domain.Character, error) {
	query := `
		SELECT id, name, series, rarity, image_url, description, gender, tags, claim_value
		FROM characters ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	defer rows.Close()

	var characters []domain.Character
	for rows.Next() {
		var c domain.Character
		var imageURL, description, gender sql.NullString
		var tagsJSON []byte

		if err := rows.Scan(
			&c.ID, &c.Name, &c.Series, &c.Rarity,
			&imageURL, &description, &gender, &tagsJSON, &c.ClaimValue,
		); err != nil {
			return nil, fmt.Errorf("failed to scan character: %w", err)
		}

		c.ImageURL = imageURL.String
		c.Description = description.String
		c.Gender = gender.String
		if len(tagsJSON) > 0 {
			if err := json.Unmarshal(tagsJSON, &c.Tags); err != nil {
				return nil, fmt.Errorf("failed to decode character tags: %w", err)
			}
		}

		characters = append(characters, c)
	}

	return characters, rows.Err()
}

// Count returns the catalog size.
func (r *MySQLCharacterRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM characters`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count characters: %w", err)
	}
	return count, nil
}

// Seed inserts the given catalog entries. Intended for first-run population
// when Count reports an empty catalog.
func (r *MySQLCharacterRepository) Seed(ctx context.Context, characters []domain.Character) error {
	query := `
		INSERT INTO characters (name, series, rarity, image_url, description, gender, tags, claim_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	for _, c := range characters {
		tagsJSON, err := json.Marshal(c.Tags)
		if err != nil {
			return fmt.Errorf("failed to encode tags for %s: %w", c.Name, err)
		}

		_, err = r.db.ExecContext(ctx, query,
			c.Name, c.Series, c.Rarity, c.ImageURL, c.Description, c.Gender,
			tagsJSON, c.ClaimValue,
		)
		if err != nil {
			return fmt.Errorf("failed to seed character %s: %w", c.Name, err)
		}
	}

	return nil
}
