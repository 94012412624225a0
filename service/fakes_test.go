package service

import (
	"context"
	"errors"
	"sync"

	"github.com/layer-3/faucet/ports"
	"github.com/shopspring/decimal"
)

type recordingPublisher struct {
	mu      sync.Mutex
	signIns []string
	claims  []string
	err     error
}

func (p *recordingPublisher) PublishSignIn(ctx context.Context, address string, chainID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signIns = append(p.signIns, address)
	return p.err
}

func (p *recordingPublisher) PublishClaim(ctx context.Context, address string, txHash string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.claims = append(p.claims, txHash)
	return p.err
}

type fakeFaucet struct {
	mu       sync.Mutex
	claimed  map[string]bool
	users    []string
	claimErr error
	readErr  error
	claims   int
}

func newFakeFaucet(users ...string) *fakeFaucet {
	return &fakeFaucet{claimed: map[string]bool{}, users: users}
}

func (f *fakeFaucet) Claim(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimErr != nil {
		return "", f.claimErr
	}
	f.claims++
	return "0xfeed", nil
}

func (f *fakeFaucet) HasClaimed(ctx context.Context, address string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return false, f.readErr
	}
	return f.claimed[address], nil
}

func (f *fakeFaucet) BalanceOf(ctx context.Context, address string) (decimal.Decimal, error) {
	if f.readErr != nil {
		return decimal.Zero, f.readErr
	}
	return decimal.RequireFromString("100"), nil
}

func (f *fakeFaucet) Users(ctx context.Context) ([]string, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.users, nil
}

func (f *fakeFaucet) FaucetAmount(ctx context.Context) (decimal.Decimal, error) {
	if f.readErr != nil {
		return decimal.Zero, f.readErr
	}
	return decimal.RequireFromString("100"), nil
}

func (f *fakeFaucet) TokenInfo(ctx context.Context) (*ports.TokenInfo, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return &ports.TokenInfo{Name: "Faucet Token", Symbol: "FCT", Decimals: 18, TotalSupply: decimal.RequireFromString("1000000")}, nil
}

func (f *fakeFaucet) ContractAddress() string {
	return "0x5FbDB2315678afecb367f032d93F642f64180aa3"
}

var errRPC = errors.New("rpc unavailable")
