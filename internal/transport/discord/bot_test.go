package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *discordgo.Session {
	t.Helper()

	state := discordgo.NewState()
	state.User = &discordgo.User{ID: "bot-self", Username: "gacha-bot", Bot: true}
	return &discordgo.Session{State: state}
}

func reactionFrom(user *discordgo.User, emoji string) *discordgo.MessageReactionAdd {
	return &discordgo.MessageReactionAdd{
		MessageReaction: &discordgo.MessageReaction{
			UserID:    user.ID,
			MessageID: "msg-1",
			ChannelID: "c1",
			GuildID:   "g1",
			Emoji:     discordgo.Emoji{Name: emoji},
		},
		Member: &discordgo.Member{User: user},
	}
}

func TestReactionClaimantFromHuman(t *testing.T) {
	s := newTestSession(t)
	r := reactionFrom(&discordgo.User{ID: "u1", Username: "alice", GlobalName: "Alice"}, claimEmoji)

	claimant, ok := reactionClaimant(s, r)
	require.True(t, ok)
	require.Equal(t, "u1", claimant.DiscordID)
	require.Equal(t, "alice", claimant.Username)
	require.Equal(t, "Alice", claimant.GlobalName)
	require.Equal(t, "c1", claimant.ChannelID)
}

func TestReactionClaimantIgnoresWrongEmoji(t *testing.T) {
	s := newTestSession(t)
	r := reactionFrom(&discordgo.User{ID: "u1", Username: "alice"}, "👍")

	_, ok := reactionClaimant(s, r)
	require.False(t, ok)
}

func TestReactionClaimantIgnoresSelf(t *testing.T) {
	s := newTestSession(t)
	r := reactionFrom(s.State.User, claimEmoji)

	_, ok := reactionClaimant(s, r)
	require.False(t, ok)
}

func TestReactionClaimantIgnoresOtherBots(t *testing.T) {
	s := newTestSession(t)
	r := reactionFrom(&discordgo.User{ID: "u2", Username: "other-bot", Bot: true}, claimEmoji)

	_, ok := reactionClaimant(s, r)
	require.False(t, ok)
}
