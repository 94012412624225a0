package ports

import "github.com/layer-3/faucet/core"

// Tokenizer converts between sessions and bearer credentials
type Tokenizer interface {
	SessionToToken(session *core.Session) (string, error)
	TokenToSession(token string) (*core.Session, error)
}

// SignatureVerifier checks that signature over message was produced by address
type SignatureVerifier interface {
	Verify(message, signature, address string) error
}
