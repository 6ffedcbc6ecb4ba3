package domain

import (
	"time"
)

// User holds a Discord user's bot stats.
type User struct {
	ID              int64     `json:"id"`
	DiscordID       string    `json:"discord_id"`
	Username        string    `json:"username"`
	GlobalName      string    `json:"global_name"`
	DailyClaims     int       `json:"daily_claims"`
	LastClaimReset  time.Time `json:"last_claim_reset"`
	TotalCharacters int       `json:"total_characters"`
	Kakera          int       `json:"kakera"` // In-game currency
	WishlistSlots   int       `json:"wishlist_slots"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Character is an immutable catalog entry. Rarity runs 1-5.
type Character struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Series      string   `json:"series"`
	Rarity      int      `json:"rarity"`
	ImageURL    string   `json:"image_url"`
	Description string   `json:"description"`
	Gender      string   `json:"gender"`
	Tags        []string `json:"tags"`
	ClaimValue  int      `json:"claim_value"` // Kakera awarded on claim
}

// Collection links a user to a character they claimed.
type Collection struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	CharacterID int64     `json:"character_id"`
	ClaimedAt   time.Time `json:"claimed_at"`
	ClaimNumber int       `json:"claim_number"` // Sequential per user
}

// Common errors
var (
	ErrNotFound = &CustomError{Code: "NOT_FOUND", Message: "Resource not found"}
)

// CustomError represents a custom error.
type CustomError struct {
	Code    string
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}
