package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"gacha-collector-bot/internal/cache"
	"gacha-collector-bot/internal/config"
	"gacha-collector-bot/internal/domain"
	"gacha-collector-bot/internal/repository"
)

// Claimant identifies who reacted to a spawn, and where.
type Claimant struct {
	DiscordID  string
	Username   string
	GlobalName string
	ChannelID  string
}

// Mention formats the claimant as a Discord mention.
func (c Claimant) Mention() string {
	return "<@" + c.DiscordID + ">"
}

// ClaimOutcome is the terminal result of a claim signal.
type ClaimOutcome int

const (
	// OutcomeIgnored means the reference wasn't a live spawn (stale reaction).
	OutcomeIgnored ClaimOutcome = iota
	OutcomeExpired
	OutcomeAlreadyClaimed
	OutcomeCooldown
	OutcomeDailyLimit
	OutcomeDuplicate
	OutcomeClaimed
	OutcomeFailed
)

// ClaimService arbitrates claim signals: exactly one signal per spawn may
// reach a consuming outcome (claim or duplicate), everyone else is rejected.
type ClaimService struct {
	users       repository.UserRepository
	characters  repository.CharacterRepository
	collections repository.CollectionRepository
	registry    *SpawnRegistry
	cooldowns   cache.CooldownStore
	notifier    Notifier

	dailyClaimLimit int
	duplicateKakera int

	now func() time.Time
}

// NewClaimService creates a new claim service.
func NewClaimService(
	users repository.UserRepository,
	characters repository.CharacterRepository,
	collections repository.CollectionRepository,
	registry *SpawnRegistry,
	cooldowns cache.CooldownStore,
	notifier Notifier,
	cfg config.GachaConfig,
) *ClaimService {
	return &ClaimService{
		users:           users,
		characters:      characters,
		collections:     collections,
		registry:        registry,
		cooldowns:       cooldowns,
		notifier:        notifier,
		dailyClaimLimit: cfg.DailyClaimLimit,
		duplicateKakera: cfg.DuplicateKakera,
		now:             time.Now,
	}
}

// Claim processes one claim signal for the given spawn reference.
//
// The registry acquire is the race gate: the claimed flag is set before any
// persistence I/O, so no two signals for the same spawn can both proceed.
// Rejections that are about the claimant (cooldown, daily quota) release the
// flag so the spawn stays winnable by someone else; expiry, claim and
// duplicate outcomes consume the spawn. Errors always release the flag.
func (s *ClaimService) Claim(ctx context.Context, spawnID string, claimant Claimant) (ClaimOutcome, error) {
	spawn, res := s.registry.Acquire(spawnID)
	switch res {
	case AcquireNotFound:
		// Reaction on something that isn't a live spawn. Not an error.
		return OutcomeIgnored, nil
	case AcquireExpired:
		s.notifier.SendOutcome(ctx, claimant.ChannelID, "⏰ This character spawn has expired!")
		return OutcomeExpired, nil
	case AcquireAlreadyClaimed:
		s.notifier.SendOutcome(ctx, claimant.ChannelID,
			fmt.Sprintf("😢 %s, this character has already been claimed!", claimant.Mention()))
		return OutcomeAlreadyClaimed, nil
	}

	// We hold the claim lock from here on. Every exit that doesn't consume
	// the spawn must release it, including panics.
	consumed := false
	defer func() {
		if !consumed {
			s.registry.Release(spawnID)
		}
	}()

	remaining, err := s.cooldowns.Remaining(ctx, claimant.DiscordID)
	if err != nil {
		// Fail open: the cooldown store is an optimistic guard, not the
		// system of record.
		log.Printf("[ClaimService] cooldown check failed for %s: %v", claimant.DiscordID, err)
		remaining = 0
	}
	if remaining > 0 {
		s.notifier.SendOutcome(ctx, claimant.ChannelID,
			fmt.Sprintf("⏰ %s, please wait %d seconds before claiming again!",
				claimant.Mention(), int(math.Ceil(remaining.Seconds()))))
		return OutcomeCooldown, nil
	}

	user, err := s.getOrCreateUser(ctx, claimant)
	if err != nil {
		s.reportFailure(ctx, claimant.ChannelID)
		return OutcomeFailed, err
	}

	// Lazy daily reset: the counter is reset on the first claim attempt of
	// a new UTC day rather than by a scheduled job.
	now := s.now().UTC()
	midnight := now.Truncate(24 * time.Hour)
	if user.LastClaimReset.Before(midnight) {
		if err := s.users.ResetDailyClaims(ctx, user.ID, now); err != nil {
			s.reportFailure(ctx, claimant.ChannelID)
			return OutcomeFailed, err
		}
		user.DailyClaims = 0
	}

	if user.DailyClaims >= s.dailyClaimLimit {
		s.notifier.SendOutcome(ctx, claimant.ChannelID,
			fmt.Sprintf("📅 %s, you've reached your daily claim limit (%d/%d)! Try again tomorrow.",
				claimant.Mention(), s.dailyClaimLimit, s.dailyClaimLimit))
		return OutcomeDailyLimit, nil
	}

	owned, err := s.collections.Exists(ctx, user.ID, spawn.CharacterID)
	if err != nil {
		s.reportFailure(ctx, claimant.ChannelID)
		return OutcomeFailed, err
	}

	if owned {
		// Duplicate is an alternate success: the spawn is consumed, the
		// claimant gets kakera compensation, and no second ownership row
		// is ever written.
		if err := s.users.AddKakera(ctx, user.ID, s.duplicateKakera); err != nil {
			s.reportFailure(ctx, claimant.ChannelID)
			return OutcomeFailed, err
		}

		s.registry.Consume(spawnID)
		consumed = true
		s.stampCooldown(ctx, claimant.DiscordID)

		s.notifier.SendOutcome(ctx, claimant.ChannelID,
			fmt.Sprintf("🔄 %s, you already own this character! You received %d kakera instead.",
				claimant.Mention(), s.duplicateKakera))
		return OutcomeDuplicate, nil
	}

	character, err := s.characters.GetByID(ctx, spawn.CharacterID)
	if err != nil {
		s.reportFailure(ctx, claimant.ChannelID)
		return OutcomeFailed, err
	}

	claimNumber := user.TotalCharacters + 1
	if err := s.collections.Create(ctx, user.ID, character.ID, claimNumber); err != nil {
		s.reportFailure(ctx, claimant.ChannelID)
		return OutcomeFailed, err
	}
	if err := s.users.ApplyClaim(ctx, user.ID, character.ClaimValue); err != nil {
		s.reportFailure(ctx, claimant.ChannelID)
		return OutcomeFailed, err
	}

	s.stampCooldown(ctx, claimant.DiscordID)
	s.registry.Consume(spawnID)
	consumed = true

	s.notifier.SendClaimEmbed(ctx, claimant.ChannelID, claimant.Username, character, claimNumber)
	log.Printf("[ClaimService] %s claimed %s (claim #%d)", claimant.Username, character.Name, claimNumber)

	return OutcomeClaimed, nil
}

func (s *ClaimService) getOrCreateUser(ctx context.Context, claimant Claimant) (*domain.User, error) {
	user, err := s.users.GetByDiscordID(ctx, claimant.DiscordID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	globalName := claimant.GlobalName
	if globalName == "" {
		globalName = claimant.Username
	}

	user, err = s.users.Create(ctx, claimant.DiscordID, claimant.Username, globalName)
	if err != nil {
		return nil, err
	}
	log.Printf("[ClaimService] New user registered: %s (%s)", claimant.Username, claimant.DiscordID)
	return user, nil
}

func (s *ClaimService) stampCooldown(ctx context.Context, discordID string) {
	if err := s.cooldowns.Stamp(ctx, discordID); err != nil {
		log.Printf("[ClaimService] failed to stamp cooldown for %s: %v", discordID, err)
	}
}

func (s *ClaimService) reportFailure(ctx context.Context, channelID string) {
	s.notifier.SendOutcome(ctx, channelID,
		"❌ An error occurred while claiming the character. Please try again.")
}
