package ports

import (
	"context"
	"time"

	"github.com/layer-3/faucet/core"
)

// ChallengeStore holds outstanding sign-in challenges keyed by nonce
type ChallengeStore interface {
	// Put stores the challenge, replacing any entry with the same nonce.
	Put(ctx context.Context, challenge *core.Challenge) error
	// Get returns core.ErrChallengeNotFound when the nonce is unknown.
	Get(ctx context.Context, nonce string) (*core.Challenge, error)
	// Delete removes the nonce and reports whether this call removed it.
	// Of several concurrent callers at most one observes true.
	Delete(ctx context.Context, nonce string) (bool, error)
	// SweepExpired removes every challenge older than ttl at now.
	SweepExpired(ctx context.Context, now time.Time, ttl time.Duration) (int, error)
}
