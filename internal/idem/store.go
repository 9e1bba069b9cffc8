package idem

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "idempotency:"
	lockPrefix = "idempotency:lock:"

	defaultTTL = 24 * time.Hour
	lockTTL    = 10 * time.Second
)

// Response is a completed HTTP exchange recorded for replay.
type Response struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// Store records completed responses in Redis so a retry with the same
// Idempotency-Key replays the original outcome instead of moving money
// twice.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore returns a new Store.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// Get returns the recorded response for key, or nil on miss.
func (s *Store) Get(ctx context.Context, key string) (*Response, error) {
	b, err := s.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var resp Response
	if err := json.Unmarshal(b, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Set records a response under key.
func (s *Store) Set(ctx context.Context, key string, status int, body []byte) error {
	b, err := json.Marshal(Response{Status: status, Body: body})
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyPrefix+key, b, s.ttl).Err()
}

// Lock marks key as in flight. Returns false when another request holds it.
// The lock expires on its own so a crashed request cannot wedge the key.
func (s *Store) Lock(ctx context.Context, key string) (bool, error) {
	return s.rdb.SetNX(ctx, lockPrefix+key, "processing", lockTTL).Result()
}

// Unlock releases the in-flight mark.
func (s *Store) Unlock(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, lockPrefix+key).Err()
}
