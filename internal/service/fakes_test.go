package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gacha-collector-bot/internal/domain"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User // discord_id -> user
	nextID int64

	getErr   error
	applyErr error
	resetErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) put(u *domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u.ID = f.nextID
	f.users[u.DiscordID] = u
}

func (f *fakeUserRepo) GetByDiscordID(_ context.Context, discordID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[discordID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) Create(_ context.Context, discordID, username, globalName string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u := &domain.User{
		ID:             f.nextID,
		DiscordID:      discordID,
		Username:       username,
		GlobalName:     globalName,
		LastClaimReset: time.Now().UTC(),
		WishlistSlots:  3,
	}
	f.users[discordID] = u
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) byID(userID int64) *domain.User {
	for _, u := range f.users {
		if u.ID == userID {
			return u
		}
	}
	return nil
}

func (f *fakeUserRepo) ResetDailyClaims(_ context.Context, userID int64, resetAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resetErr != nil {
		return f.resetErr
	}
	if u := f.byID(userID); u != nil {
		u.DailyClaims = 0
		u.LastClaimReset = resetAt
	}
	return nil
}

func (f *fakeUserRepo) ApplyClaim(_ context.Context, userID int64, claimValue int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyErr != nil {
		return f.applyErr
	}
	if u := f.byID(userID); u != nil {
		u.DailyClaims++
		u.TotalCharacters++
		u.Kakera += claimValue
	}
	return nil
}

func (f *fakeUserRepo) AddKakera(_ context.Context, userID int64, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u := f.byID(userID); u != nil {
		u.Kakera += amount
	}
	return nil
}

func (f *fakeUserRepo) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

// fakeCharacterRepo is an in-memory CharacterRepository.
type fakeCharacterRepo struct {
	mu         sync.Mutex
	characters map[int64]domain.Character

	listErr error
	getErr  error
}

func newFakeCharacterRepo(characters ...domain.Character) *fakeCharacterRepo {
	f := &fakeCharacterRepo{characters: make(map[int64]domain.Character)}
	for _, c := range characters {
		f.characters[c.ID] = c
	}
	return f
}

func (f *fakeCharacterRepo) GetByID(_ context.Context, id int64) (*domain.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.characters[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (f *fakeCharacterRepo) ListAll(context.Context) ([]domain.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Character, 0, len(f.characters))
	for _, c := range f.characters {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCharacterRepo) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.characters)), nil
}

func (f *fakeCharacterRepo) Seed(_ context.Context, characters []domain.Character) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range characters {
		c.ID = int64(i + 1)
		f.characters[c.ID] = c
	}
	return nil
}

type ownershipKey struct {
	userID      int64
	characterID int64
}

// fakeCollectionRepo is an in-memory CollectionRepository.
type fakeCollectionRepo struct {
	mu    sync.Mutex
	owned map[ownershipKey]int // key -> claim number
	exErr error
	crErr error
}

func newFakeCollectionRepo() *fakeCollectionRepo {
	return &fakeCollectionRepo{owned: make(map[ownershipKey]int)}
}

func (f *fakeCollectionRepo) Exists(_ context.Context, userID, characterID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.exErr != nil {
		return false, f.exErr
	}
	_, ok := f.owned[ownershipKey{userID, characterID}]
	return ok, nil
}

func (f *fakeCollectionRepo) Create(_ context.Context, userID, characterID int64, claimNumber int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.crErr != nil {
		return f.crErr
	}
	key := ownershipKey{userID, characterID}
	if _, ok := f.owned[key]; ok {
		return fmt.Errorf("duplicate ownership record for user %d character %d", userID, characterID)
	}
	f.owned[key] = claimNumber
	return nil
}

func (f *fakeCollectionRepo) CountByUser(_ context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for key := range f.owned {
		if key.userID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeCollectionRepo) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.owned)), nil
}

// fakeNotifier records outcome messages and hands out sequential spawn IDs.
type fakeNotifier struct {
	mu        sync.Mutex
	nextID    int
	announced []string // channel IDs announced to
	outcomes  []string
	claims    []string // usernames from claim embeds

	announceErr map[string]error // channelID -> error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{announceErr: make(map[string]error)}
}

func (f *fakeNotifier) AnnounceSpawn(_ context.Context, channelID string, _ *domain.Character) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.announceErr[channelID]; err != nil {
		return "", err
	}
	f.nextID++
	f.announced = append(f.announced, channelID)
	return fmt.Sprintf("msg-%d", f.nextID), nil
}

func (f *fakeNotifier) SendOutcome(_ context.Context, _, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, message)
}

func (f *fakeNotifier) SendClaimEmbed(_ context.Context, _, username string, _ *domain.Character, _ int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claims = append(f.claims, username)
}

func (f *fakeNotifier) lastOutcome() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.outcomes) == 0 {
		return ""
	}
	return f.outcomes[len(f.outcomes)-1]
}

// fakeChannelSource returns a fixed set of spawn destinations.
type fakeChannelSource struct {
	channels []SpawnChannel
}

func (f *fakeChannelSource) EligibleChannels() []SpawnChannel {
	return f.channels
}
