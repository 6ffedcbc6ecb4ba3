package service

import (
	"context"

	"gacha-collector-bot/internal/domain"
)

// Notifier sends user-facing outcome messages. Implementations post to the
// chat platform; failures on outcome messages are logged, not retried.
type Notifier interface {
	// AnnounceSpawn posts the spawn announcement and returns an opaque
	// reference (the message ID) that becomes the spawn key.
	AnnounceSpawn(ctx context.Context, channelID string, character *domain.Character) (string, error)

	// SendOutcome posts a short-lived status message to the channel.
	// Fire-and-forget.
	SendOutcome(ctx context.Context, channelID, message string)

	// SendClaimEmbed posts the permanent claim-success announcement.
	// Fire-and-forget.
	SendClaimEmbed(ctx context.Context, channelID, username string, character *domain.Character, claimNumber int)
}
