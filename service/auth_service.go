package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/layer-3/faucet/core"
	"github.com/layer-3/faucet/internal/log"
	"github.com/layer-3/faucet/ports"
)

const (
	DefaultChallengeTTL  = 10 * time.Minute
	DefaultSessionTTL    = 24 * time.Hour
	DefaultSweepInterval = 5 * time.Minute
)

// AuthOptions holds the fields embedded in every challenge and the lifetimes
type AuthOptions struct {
	Domain       string
	URI          string
	Statement    string
	Version      string
	ChainID      int64
	ChallengeTTL time.Duration
	SessionTTL   time.Duration
}

// AuthService handles sign-in-with-Ethereum business logic
type AuthService struct {
	tokenizer ports.Tokenizer
	store     ports.ChallengeStore
	verifier  ports.SignatureVerifier
	eventPub  ports.EventPublisher

	opts AuthOptions
	now  func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	tokenizer ports.Tokenizer,
	store ports.ChallengeStore,
	verifier ports.SignatureVerifier,
	eventPub ports.EventPublisher,
	opts AuthOptions,
) *AuthService {
	if opts.Version == "" {
		opts.Version = "1"
	}
	if opts.ChallengeTTL <= 0 {
		opts.ChallengeTTL = DefaultChallengeTTL
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}

	return &AuthService{
		tokenizer: tokenizer,
		store:     store,
		verifier:  verifier,
		eventPub:  eventPub,
		opts:      opts,
		now:       time.Now,
	}
}

// WithClock replaces the time source, used by tests to move past TTLs
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// CreateChallenge builds and stores a new challenge for address
func (s *AuthService) CreateChallenge(ctx context.Context, address string) (*core.Challenge, error) {
	if !core.ValidAddress(address) {
		return nil, core.ErrInvalidAddress
	}

	nonce, err := generateNonce()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	challenge := &core.Challenge{
		Nonce:     nonce,
		Address:   core.ChecksumAddress(address),
		Domain:    s.opts.Domain,
		URI:       s.opts.URI,
		Version:   s.opts.Version,
		Statement: s.opts.Statement,
		ChainID:   s.opts.ChainID,
		IssuedAt:  s.now().UTC().Truncate(time.Millisecond),
	}

	if err := s.store.Put(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to store challenge: %w", err)
	}

	log.Info(ctx).Str("address", challenge.Address).Msg("challenge issued")
	return challenge, nil
}

// Verify consumes the challenge for nonce if signature is valid and returns
// the authenticated identity. A nonce yields at most one success.
func (s *AuthService) Verify(ctx context.Context, nonce, signature string) (core.Identity, error) {
	challenge, err := s.store.Get(ctx, nonce)
	if err != nil {
		return core.Identity{}, err
	}

	if challenge.Expired(s.now(), s.opts.ChallengeTTL) {
		if _, err := s.store.Delete(ctx, nonce); err != nil {
			return core.Identity{}, fmt.Errorf("failed to delete expired challenge: %w", err)
		}
		return core.Identity{}, core.ErrChallengeExpired
	}

	// A failed attempt leaves the challenge in place until it expires.
	if err := s.verifier.Verify(challenge.Message(), signature, challenge.Address); err != nil {
		return core.Identity{}, err
	}

	consumed, err := s.store.Delete(ctx, nonce)
	if err != nil {
		return core.Identity{}, fmt.Errorf("failed to consume challenge: %w", err)
	}
	if !consumed {
		// A concurrent verification consumed it first.
		return core.Identity{}, core.ErrChallengeNotFound
	}

	return core.Identity{
		Address: core.NormalizeAddress(challenge.Address),
		ChainID: challenge.ChainID,
	}, nil
}

// IssueToken mints a bearer credential for a verified identity
func (s *AuthService) IssueToken(identity core.Identity) (string, *core.Session, error) {
	now := s.now()
	session := &core.Session{
		ID:        uuid.New().String(),
		Address:   core.NormalizeAddress(identity.Address),
		ChainID:   identity.ChainID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.opts.SessionTTL),
	}

	token, err := s.tokenizer.SessionToToken(session)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create token: %w", err)
	}

	return token, session, nil
}

// SignIn exchanges a signed challenge for a bearer credential
func (s *AuthService) SignIn(ctx context.Context, nonce, signature string) (string, *core.Session, error) {
	identity, err := s.Verify(ctx, nonce, signature)
	if err != nil {
		log.Warn(ctx).Err(err).Msg("sign-in rejected")
		return "", nil, err
	}

	token, session, err := s.IssueToken(identity)
	if err != nil {
		return "", nil, err
	}

	if err := s.eventPub.PublishSignIn(ctx, session.Address, session.ChainID); err != nil {
		// The credential is already minted, the event is best effort.
		log.Warn(ctx).Err(err).Msg("failed to publish sign-in event")
	}

	log.Info(ctx).Str("address", session.Address).Msg("wallet signed in")
	return token, session, nil
}

// ValidateToken verifies a bearer credential and returns its session
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*core.Session, error) {
	if token == "" {
		return nil, core.ErrMissingCredential
	}

	session, err := s.tokenizer.TokenToSession(token)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredential) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidCredential, err)
	}

	return session, nil
}

// SweepExpired removes every challenge older than the challenge TTL
func (s *AuthService) SweepExpired(ctx context.Context) (int, error) {
	return s.store.SweepExpired(ctx, s.now(), s.opts.ChallengeTTL)
}

// RunSweeper sweeps expired challenges every interval until ctx is done
func (s *AuthService) RunSweeper(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			removed, err := s.SweepExpired(ctx)
			if err != nil {
				log.Error(ctx).Err(err).Msg("challenge sweep failed")
				continue
			}
			log.Debug(ctx).Int("removed", removed).Msg("challenge sweep finished")
		}
	}
}

// generateNonce returns 128 random bits, hex encoded
func generateNonce() (string, error) {
	nonceBytes := make([]byte, 16)
	if _, err := rand.Read(nonceBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(nonceBytes), nil
}
