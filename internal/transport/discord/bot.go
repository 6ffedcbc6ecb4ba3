package discord

import (
	"context"
	"log"

	"gacha-collector-bot/internal/service"

	"github.com/bwmarrin/discordgo"
)

// claimEmoji is the reaction users race with.
const claimEmoji = "💖"

// Bot wraps the Discord gateway session. It feeds claim signals into the
// arbiter and enumerates spawn destinations for the scheduler.
type Bot struct {
	Session *discordgo.Session
}

// NewBot creates a gateway session with the intents the bot needs.
func NewBot(token string) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions

	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("[Discord] Logged in as %s#%s, serving %d guilds",
			r.User.Username, r.User.Discriminator, len(r.Guilds))
	})

	return &Bot{Session: session}, nil
}

// Open connects to the gateway.
func (b *Bot) Open() error {
	return b.Session.Open()
}

// Close disconnects from the gateway.
func (b *Bot) Close() error {
	return b.Session.Close()
}

// HandleClaims registers the reaction handler that turns 💖 reactions into
// claim signals.
func (b *Bot) HandleClaims(claims *service.ClaimService) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		claimant, ok := reactionClaimant(s, r)
		if !ok {
			return
		}

		if _, err := claims.Claim(context.Background(), r.MessageID, claimant); err != nil {
			log.Printf("[Discord] Claim error for %s on %s: %v", r.UserID, r.MessageID, err)
		}
	})
}

// reactionClaimant turns a reaction event into a claimant. Reactions from
// bot accounts (our own included) and reactions with the wrong emoji carry
// no claim signal.
func reactionClaimant(s *discordgo.Session, r *discordgo.MessageReactionAdd) (service.Claimant, bool) {
	if s.State != nil && s.State.User != nil && r.UserID == s.State.User.ID {
		return service.Claimant{}, false
	}
	if r.Emoji.Name != claimEmoji {
		return service.Claimant{}, false
	}

	claimant := service.Claimant{
		DiscordID: r.UserID,
		ChannelID: r.ChannelID,
	}
	if r.Member != nil && r.Member.User != nil {
		if r.Member.User.Bot {
			return service.Claimant{}, false
		}
		claimant.Username = r.Member.User.Username
		claimant.GlobalName = r.Member.User.GlobalName
	} else if u, err := s.User(r.UserID); err == nil {
		if u.Bot {
			return service.Claimant{}, false
		}
		claimant.Username = u.Username
		claimant.GlobalName = u.GlobalName
	}
	return claimant, true
}

// EligibleChannels returns one postable text channel per guild, implementing
// service.ChannelSource. A guild with no channel the bot can post and react
// in is skipped.
func (b *Bot) EligibleChannels() []service.SpawnChannel {
	state := b.Session.State
	if state == nil || state.User == nil {
		return nil
	}

	var out []service.SpawnChannel
	for _, guild := range state.Guilds {
		for _, ch := range guild.Channels {
			if ch.Type != discordgo.ChannelTypeGuildText {
				continue
			}
			perms, err := state.UserChannelPermissions(state.User.ID, ch.ID)
			if err != nil {
				continue
			}
			if perms&discordgo.PermissionSendMessages == 0 ||
				perms&discordgo.PermissionAddReactions == 0 {
				continue
			}
			out = append(out, service.SpawnChannel{GuildID: guild.ID, ChannelID: ch.ID})
			break
		}
	}
	return out
}
