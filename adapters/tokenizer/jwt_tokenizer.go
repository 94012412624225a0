package tokenizer

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/layer-3/faucet/core"
	"github.com/layer-3/faucet/ports"
)

const AudienceAccess = "faucet:access"

// JWTTokenizer implements the Tokenizer interface using HS256 JWTs
type JWTTokenizer struct {
	secret []byte
	now    func() time.Time
}

// Option configures a JWTTokenizer
type Option func(*JWTTokenizer)

// WithClock overrides the time source used when validating expiry
func WithClock(now func() time.Time) Option {
	return func(j *JWTTokenizer) {
		j.now = now
	}
}

// NewJWTTokenizer creates a new JWT tokenizer. An empty secret is a
// configuration error and is reported as core.ErrMisconfigured.
func NewJWTTokenizer(secret []byte, opts ...Option) (ports.Tokenizer, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: JWT secret is required", core.ErrMisconfigured)
	}

	j := &JWTTokenizer{secret: secret, now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// SessionToToken signs the session into a bearer token
func (j *JWTTokenizer) SessionToToken(session *core.Session) (string, error) {
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.Address,
			ID:        session.ID,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			Audience:  jwt.ClaimStrings{AudienceAccess},
		},
		Address: session.Address,
		ChainID: session.ChainID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// TokenToSession verifies the token and returns the embedded session
func (j *JWTTokenizer) TokenToSession(tokenStr string) (*core.Session, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	},
		jwt.WithAudience(AudienceAccess),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidCredential, err)
	}

	if !token.Valid {
		return nil, core.ErrInvalidCredential
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || claims.Address == "" {
		return nil, fmt.Errorf("%w: invalid claims", core.ErrInvalidCredential)
	}

	session := &core.Session{
		ID:        claims.ID,
		Address:   claims.Address,
		ChainID:   claims.ChainID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}

	return session, nil
}
