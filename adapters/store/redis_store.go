package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/layer-3/faucet/core"
	"github.com/layer-3/faucet/ports"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis implementation of the ChallengeStore interface.
// It lets several server instances share outstanding challenges.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a new Redis store. Keys expire after challengeTTL
// plus grace so Redis reaps abandoned challenges even if no sweep runs, while
// a challenge just past its TTL is still found and reported as expired.
func NewRedisStore(client *redis.Client, challengeTTL, grace time.Duration) ports.ChallengeStore {
	if grace < 0 {
		grace = 0
	}
	return &RedisStore{
		client: client,
		prefix: "faucet:challenge:",
		ttl:    challengeTTL + grace,
	}
}

// Put stores the challenge as JSON with the configured expiry
func (s *RedisStore) Put(ctx context.Context, challenge *core.Challenge) error {
	payload, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("failed to marshal challenge: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+challenge.Nonce, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store challenge: %w", err)
	}

	return nil
}

// Get loads the challenge stored under nonce
func (s *RedisStore) Get(ctx context.Context, nonce string) (*core.Challenge, error) {
	payload, err := s.client.Get(ctx, s.prefix+nonce).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}

	var challenge core.Challenge
	if err := json.Unmarshal(payload, &challenge); err != nil {
		return nil, fmt.Errorf("failed to unmarshal challenge: %w", err)
	}

	return &challenge, nil
}

// Delete removes the key; DEL is atomic so only one caller sees a count of 1
func (s *RedisStore) Delete(ctx context.Context, nonce string) (bool, error) {
	n, err := s.client.Del(ctx, s.prefix+nonce).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete challenge: %w", err)
	}

	return n > 0, nil
}

// SweepExpired scans the challenge keys and removes those older than ttl
func (s *RedisStore) SweepExpired(ctx context.Context, now time.Time, ttl time.Duration) (int, error) {
	removed := 0

	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		payload, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return removed, fmt.Errorf("failed to load challenge: %w", err)
		}

		var challenge core.Challenge
		if err := json.Unmarshal(payload, &challenge); err != nil || challenge.Expired(now, ttl) {
			n, err := s.client.Del(ctx, key).Result()
			if err != nil {
				return removed, fmt.Errorf("failed to delete challenge: %w", err)
			}
			removed += int(n)
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("failed to scan challenges: %w", err)
	}

	return removed, nil
}
