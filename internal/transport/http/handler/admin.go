package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"gacha-collector-bot/internal/repository"
	"gacha-collector-bot/internal/service"
	"gacha-collector-bot/internal/transport/http/response"
	"gacha-collector-bot/pkg/apierror"

	"github.com/go-chi/chi/v5"
)

// AdminHandler exposes operator endpoints: stats, user inspection and the
// privileged manual spawn trigger.
type AdminHandler struct {
	users       repository.UserRepository
	characters  repository.CharacterRepository
	collections repository.CollectionRepository
	registry    *service.SpawnRegistry
	spawner     *service.Spawner
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	users repository.UserRepository,
	characters repository.CharacterRepository,
	collections repository.CollectionRepository,
	registry *service.SpawnRegistry,
	spawner *service.Spawner,
) *AdminHandler {
	return &AdminHandler{
		users:       users,
		characters:  characters,
		collections: collections,
		registry:    registry,
		spawner:     spawner,
	}
}

// StatsResponse holds the admin dashboard counters.
type StatsResponse struct {
	Users       int64     `json:"users"`
	Characters  int64     `json:"characters"`
	Collections int64     `json:"collections"`
	LiveSpawns  int       `json:"live_spawns"`
	Timestamp   time.Time `json:"timestamp"`
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.users.Count(ctx)
	if err != nil {
		response.Error(w, err)
		return
	}
	characters, err := h.characters.Count(ctx)
	if err != nil {
		response.Error(w, err)
		return
	}
	collections, err := h.collections.Count(ctx)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, StatsResponse{
		Users:       users,
		Characters:  characters,
		Collections: collections,
		LiveSpawns:  h.registry.Len(),
		Timestamp:   time.Now().UTC(),
	})
}

// GetUser handles GET /api/v1/admin/users/{discord_id}
// Returns the stored user row plus their owned-character count. Note the
// daily_claims counter is reset lazily, so it may read stale between a
// midnight boundary and the user's next claim; last_claim_reset shows when
// it was last reset.
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	discordID := chi.URLParam(r, "discord_id")
	if discordID == "" {
		response.Error(w, apierror.BadRequest("discord_id is required"))
		return
	}

	user, err := h.users.GetByDiscordID(r.Context(), discordID)
	if err != nil {
		response.Error(w, err)
		return
	}

	owned, err := h.collections.CountByUser(r.Context(), user.ID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"user":             user,
		"characters_owned": owned,
	})
}

// SpawnRequest is the force-spawn request body.
type SpawnRequest struct {
	GuildID   string `json:"guild_id"`
	ChannelID string `json:"channel_id"`
}

// ForceSpawn handles POST /api/v1/admin/spawn
// Privileged manual spawn trigger; bypasses the scheduler's cooldown.
func (h *AdminHandler) ForceSpawn(w http.ResponseWriter, r *http.Request) {
	var req SpawnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.ChannelID == "" {
		response.Error(w, apierror.BadRequest("channel_id is required"))
		return
	}

	spawn, err := h.spawner.Spawn(r.Context(), service.SpawnChannel{
		GuildID:   req.GuildID,
		ChannelID: req.ChannelID,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"spawn_id":     spawn.SpawnID,
		"character_id": spawn.CharacterID,
		"channel_id":   spawn.ChannelID,
		"expires_at":   spawn.ExpiresAt,
	})
}
