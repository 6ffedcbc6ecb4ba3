package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"gacha-collector-bot/internal/domain"
)

// schema holds the table definitions. The UNIQUE key on collections is the
// durable guarantee that a (user, character) pair is owned at most once,
// independent of the in-memory claim lock.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		discord_id VARCHAR(20) NOT NULL UNIQUE,
		username VARCHAR(100) NOT NULL,
		global_name VARCHAR(100),
		daily_claims INT NOT NULL DEFAULT 0,
		last_claim_reset TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		total_characters INT NOT NULL DEFAULT 0,
		kakera INT NOT NULL DEFAULT 0,
		wishlist_slots INT NOT NULL DEFAULT 3,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	) CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS characters (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		series VARCHAR(255) NOT NULL,
		rarity INT NOT NULL,
		image_url TEXT,
		description TEXT,
		gender VARCHAR(20),
		tags JSON,
		claim_value INT NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	) CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS collections (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		character_id BIGINT NOT NULL,
		claimed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		claim_number INT,
		UNIQUE KEY uniq_user_character (user_id, character_id),
		FOREIGN KEY (user_id) REFERENCES users(id),
		FOREIGN KEY (character_id) REFERENCES characters(id)
	) CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci`,
}

// InitSchema creates the tables if they don't exist.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// sampleCharacters is the starter catalog, inserted on first run.
var sampleCharacters = []domain.Character{
	{
		Name: "Nezuko Kamado", Series: "Demon Slayer", Rarity: 4,
		ImageURL:    "https://i.imgur.com/placeholder1.jpg",
		Description: "The demon sister of Tanjiro Kamado",
		Gender:      "Female",
		Tags:        []string{"demon", "cute", "protective"},
		ClaimValue:  50,
	},
	{
		Name: "Miku Hatsune", Series: "Vocaloid", Rarity: 5,
		ImageURL:    "https://i.imgur.com/placeholder2.jpg",
		Description: "The world's most famous virtual singer",
		Gender:      "Female",
		Tags:        []string{"vocaloid", "music", "twin-tails"},
		ClaimValue:  100,
	},
	{
		Name: "Zero Two", Series: "Darling in the FranXX", Rarity: 5,
		ImageURL:    "https://i.imgur.com/placeholder3.jpg",
		Description: "The oni girl with pink hair and horns",
		Gender:      "Female",
		Tags:        []string{"oni", "pilot", "darling"},
		ClaimValue:  90,
	},
	{
		Name: "Rem", Series: "Re:Zero", Rarity: 4,
		ImageURL:    "https://i.imgur.com/placeholder4.jpg",
		Description: "The blue-haired maid of Roswaal Manor",
		Gender:      "Female",
		Tags:        []string{"maid", "oni", "loyal"},
		ClaimValue:  75,
	},
	{
		Name: "Asuka Langley", Series: "Neon Genesis Evangelion", Rarity: 4,
		ImageURL:    "https://i.imgur.com/placeholder5.jpg",
		Description: "The fiery Eva pilot",
		Gender:      "Female",
		Tags:        []string{"pilot", "tsundere", "eva"},
		ClaimValue:  80,
	},
}

// SeedCharacters populates the catalog with the sample set if it is empty.
func SeedCharacters(ctx context.Context, repo CharacterRepository) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Printf("[Schema] Seeding %d sample characters", len(sampleCharacters))
	return repo.Seed(ctx, sampleCharacters)
}
