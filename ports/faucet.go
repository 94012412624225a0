package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// TokenInfo describes the ERC-20 token distributed by the faucet.
type TokenInfo struct {
	Name        string          `json:"name"`
	Symbol      string          `json:"symbol"`
	Decimals    uint8           `json:"decimals"`
	TotalSupply decimal.Decimal `json:"totalSupply"`
}

// Faucet is the on-chain faucet contract
type Faucet interface {
	// Claim relays one claim transaction and returns its hash once mined.
	Claim(ctx context.Context) (string, error)
	HasClaimed(ctx context.Context, address string) (bool, error)
	BalanceOf(ctx context.Context, address string) (decimal.Decimal, error)
	Users(ctx context.Context) ([]string, error)
	FaucetAmount(ctx context.Context) (decimal.Decimal, error)
	TokenInfo(ctx context.Context) (*TokenInfo, error)
	ContractAddress() string
}
