package jwt

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers revoked tokens by hash until they expire
type RevocationStore interface {
	Revoke(ctx context.Context, tokenHash string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}

type memoryRevocationStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewMemoryRevocationStore() RevocationStore {
	return &memoryRevocationStore{revoked: make(map[string]time.Time)}
}

func (s *memoryRevocationStore) Revoke(_ context.Context, tokenHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for hash, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, hash)
		}
	}
	s.revoked[tokenHash] = expiresAt
	return nil
}

func (s *memoryRevocationStore) IsRevoked(_ context.Context, tokenHash string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exp, ok := s.revoked[tokenHash]
	return ok && exp.After(time.Now()), nil
}

type redisRevocationStore struct {
	client *redis.Client
	prefix string
}

// NewRedisRevocationStore shares revocations between API instances
func NewRedisRevocationStore(client *redis.Client, prefix string) RevocationStore {
	return &redisRevocationStore{client: client, prefix: prefix + "revoked_token:"}
}

func (s *redisRevocationStore) Revoke(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, s.prefix+tokenHash, 1, ttl).Err()
}

func (s *redisRevocationStore) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	err := s.client.Get(ctx, s.prefix+tokenHash).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
