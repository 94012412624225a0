package core

import (
	"fmt"
	"strings"
	"time"
)

// IssuedAtLayout is the timestamp layout embedded in the challenge text.
const IssuedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Challenge represents an outstanding sign-in attempt
type Challenge struct {
	Nonce     string    `json:"nonce"`     // Random token, lookup key
	Address   string    `json:"address"`   // EIP-55 checksummed address of the wallet
	Domain    string    `json:"domain"`    // Host requesting the signature
	URI       string    `json:"uri"`       // Resource the session is for
	Version   string    `json:"version"`   // Message version, always "1"
	Statement string    `json:"statement"` // Human readable assertion
	ChainID   int64     `json:"chainId"`   // EIP-155 chain the session is bound to
	IssuedAt  time.Time `json:"issuedAt"`  // When the challenge was created
}

// Message renders the EIP-4361 text the wallet signs. The output depends
// only on the challenge fields, so it can be rebuilt at verification time.
func (c *Challenge) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s wants you to sign in with your Ethereum account:\n", c.Domain)
	b.WriteString(c.Address)
	b.WriteString("\n\n")
	if c.Statement != "" {
		b.WriteString(c.Statement)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "URI: %s\n", c.URI)
	fmt.Fprintf(&b, "Version: %s\n", c.Version)
	fmt.Fprintf(&b, "Chain ID: %d\n", c.ChainID)
	fmt.Fprintf(&b, "Nonce: %s\n", c.Nonce)
	fmt.Fprintf(&b, "Issued At: %s", c.IssuedAt.UTC().Format(IssuedAtLayout))
	return b.String()
}

// Expired reports whether the challenge is older than ttl at now.
func (c *Challenge) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.IssuedAt) > ttl
}

// Session represents an authenticated wallet session carried by a bearer credential
type Session struct {
	ID        string    // Unique credential identifier
	Address   string    // Lower-cased Ethereum address of the user
	ChainID   int64     // Chain the wallet signed in on
	IssuedAt  time.Time // When the credential was minted
	ExpiresAt time.Time // When the credential stops being accepted
}

// Identity is the authenticated principal attached to a request.
type Identity struct {
	Address string `json:"address"`
	ChainID int64  `json:"chainId"`
}

// Identity returns the principal embedded in the session.
func (s *Session) Identity() Identity {
	return Identity{Address: s.Address, ChainID: s.ChainID}
}
