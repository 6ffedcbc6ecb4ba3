package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"gacha-collector-bot/internal/domain"

	"github.com/bwmarrin/discordgo"
)

// outcomeTTL is how long transient outcome messages stay before deletion.
const outcomeTTL = 5 * time.Second

// placeholderImage marks seed entries without real art; never embedded.
const placeholderImage = "https://i.imgur.com/placeholder1.jpg"

// Announcer implements service.Notifier over the Discord session.
type Announcer struct {
	session *discordgo.Session
}

// NewAnnouncer creates a notifier backed by the given session.
func NewAnnouncer(session *discordgo.Session) *Announcer {
	return &Announcer{session: session}
}

func rarityStars(rarity int) string {
	return strings.Repeat("⭐", rarity)
}

func rarityColor(rarity int) int {
	switch rarity {
	case 5:
		return 0xFFD700
	case 4:
		return 0x9932CC
	default:
		return 0x00BFFF
	}
}

// AnnounceSpawn posts the spawn embed, reacts with the claim emoji and
// returns the message ID as the spawn reference.
func (a *Announcer) AnnounceSpawn(_ context.Context, channelID string, character *domain.Character) (string, error) {
	embed := &discordgo.MessageEmbed{
		Title: "🎲 A character has appeared!",
		Description: fmt.Sprintf("**%s**\nFrom: %s\nRarity: %s",
			character.Name, character.Series, rarityStars(character.Rarity)),
		Color:     rarityColor(character.Rarity),
		Footer:    &discordgo.MessageEmbedFooter{Text: "React with 💖 to claim!"},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if character.ImageURL != "" && character.ImageURL != placeholderImage {
		embed.Image = &discordgo.MessageEmbedImage{URL: character.ImageURL}
	}

	msg, err := a.session.ChannelMessageSendEmbed(channelID, embed)
	if err != nil {
		return "", fmt.Errorf("failed to announce spawn: %w", err)
	}

	if err := a.session.MessageReactionAdd(channelID, msg.ID, claimEmoji); err != nil {
		log.Printf("[Announcer] Failed to seed claim reaction on %s: %v", msg.ID, err)
	}

	return msg.ID, nil
}

// SendOutcome posts a transient status message and deletes it shortly after.
func (a *Announcer) SendOutcome(_ context.Context, channelID, message string) {
	msg, err := a.session.ChannelMessageSend(channelID, message)
	if err != nil {
		log.Printf("[Announcer] Failed to send outcome message: %v", err)
		return
	}

	time.AfterFunc(outcomeTTL, func() {
		if err := a.session.ChannelMessageDelete(channelID, msg.ID); err != nil {
			log.Printf("[Announcer] Failed to delete outcome message %s: %v", msg.ID, err)
		}
	})
}

// SendClaimEmbed posts the permanent claim-success announcement.
func (a *Announcer) SendClaimEmbed(_ context.Context, channelID, username string, character *domain.Character, claimNumber int) {
	embed := &discordgo.MessageEmbed{
		Title: "💖 Character Claimed!",
		Description: fmt.Sprintf("**%s** claimed **%s**!\n\nFrom: %s\nRarity: %s\nKakera: +%d\nClaim #%d",
			username, character.Name, character.Series,
			rarityStars(character.Rarity), character.ClaimValue, claimNumber),
		Color:     0x00FF00,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if character.ImageURL != "" && character.ImageURL != placeholderImage {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: character.ImageURL}
	}

	if _, err := a.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.Printf("[Announcer] Failed to send claim embed: %v", err)
	}
}
