package core

import "errors"

var (
	// Validation failures, the caller may retry with corrected input.
	ErrInvalidAddress = errors.New("invalid ethereum address")
	ErrInvalidRequest = errors.New("invalid request")

	// Authentication failures, the client must restart the challenge flow.
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrChallengeExpired  = errors.New("challenge expired")
	ErrInvalidSignature  = errors.New("invalid signature")

	// Authorization failures, the client must re-authenticate.
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid or expired credential")
	ErrForbidden         = errors.New("forbidden")

	ErrAlreadyClaimed = errors.New("address already claimed")
	ErrMisconfigured  = errors.New("server misconfigured")
	ErrUpstream       = errors.New("upstream failure")
)
