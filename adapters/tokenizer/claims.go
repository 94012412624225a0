package tokenizer

import "github.com/golang-jwt/jwt/v5"

// AccessClaims combines standard claims with the wallet identity
type AccessClaims struct {
	jwt.RegisteredClaims
	Address string `json:"address"`
	ChainID int64  `json:"chainId"`
}
