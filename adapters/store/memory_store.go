package store

import (
	"context"
	"sync"
	"time"

	"github.com/layer-3/faucet/core"
	"github.com/layer-3/faucet/ports"
)

// MemoryStore is an in-memory implementation of the ChallengeStore interface.
// Entries do not survive a restart; clients simply request a new challenge.
type MemoryStore struct {
	challenges map[string]core.Challenge
	mu         sync.Mutex
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() ports.ChallengeStore {
	return &MemoryStore{
		challenges: make(map[string]core.Challenge),
	}
}

// Put stores a challenge under its nonce
func (s *MemoryStore) Put(ctx context.Context, challenge *core.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.challenges[challenge.Nonce] = *challenge
	return nil
}

// Get returns a copy of the challenge stored under nonce
func (s *MemoryStore) Get(ctx context.Context, nonce string) (*core.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	challenge, ok := s.challenges[nonce]
	if !ok {
		return nil, core.ErrChallengeNotFound
	}
	return &challenge, nil
}

// Delete removes the challenge and reports whether it was present
func (s *MemoryStore) Delete(ctx context.Context, nonce string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.challenges[nonce]; !ok {
		return false, nil
	}
	delete(s.challenges, nonce)
	return true, nil
}

// SweepExpired removes challenges older than ttl
func (s *MemoryStore) SweepExpired(ctx context.Context, now time.Time, ttl time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for nonce, challenge := range s.challenges {
		if challenge.Expired(now, ttl) {
			delete(s.challenges, nonce)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of outstanding challenges
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.challenges)
}
