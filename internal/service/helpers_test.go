package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/chngmn/Quizly-server/internal/events"
	"github.com/chngmn/Quizly-server/internal/repository"
	"github.com/chngmn/Quizly-server/internal/repository/memory"
	"golang.org/x/crypto/bcrypt"
)

type fakeProvider struct {
	tokens      *ProviderTokens
	profile     *ProviderProfile
	exchangeErr error
	profileErr  error
	unlinkErr   error
	unlinked    []string
}

func (p *fakeProvider) Exchange(_ context.Context, code string) (*ProviderTokens, error) {
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	return p.tokens, nil
}

func (p *fakeProvider) FetchProfile(_ context.Context, accessToken string) (*ProviderProfile, error) {
	if p.profileErr != nil {
		return nil, p.profileErr
	}
	return p.profile, nil
}

func (p *fakeProvider) Unlink(_ context.Context, subjectID string) error {
	p.unlinked = append(p.unlinked, subjectID)
	return p.unlinkErr
}

func disabledPublisher(t *testing.T) *events.EventPublisher {
	t.Helper()
	p, err := events.NewEventPublisher("", "")
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	return p
}

func newTestUserService(t *testing.T) (*UserService, *memory.DB, *fakeProvider) {
	t.Helper()
	db := memory.NewDB()
	provider := &fakeProvider{
		tokens:  &ProviderTokens{AccessToken: "access", RefreshToken: "refresh-1"},
		profile: &ProviderProfile{ID: "777", Nickname: "kakao-nick", ProfileImage: "http://img/1.png"},
	}
	s := NewUserService(db.Users(), newTestJWTService(), provider, disabledPublisher(t))
	s.bcryptCost = bcrypt.MinCost
	return s, db, provider
}

func newTestCache() *repository.RedisRepo {
	return repository.NewRedisRepo(nil, 0)
}

func assertKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected error of kind %v, got %v", kind, err)
	}
}

// memCache is a Cache backed by a map, for asserting hits and invalidation.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func (c *memCache) SaveStructCached(_ context.Context, key string, model any) error {
	raw, err := json.Marshal(model)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memCache) GetStructCached(_ context.Context, key string, model any) (bool, error) {
	c.mu.Lock()
	raw, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, model)
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}
