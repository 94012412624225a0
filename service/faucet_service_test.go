package service

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/layer-3/faucet/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wallet = "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"

func newFaucetFixture(users ...string) (*FaucetService, *fakeFaucet, *recordingPublisher) {
	f := newFakeFaucet(users...)
	pub := &recordingPublisher{}
	return NewFaucetService(f, pub, 11155111, "Sepolia"), f, pub
}

func makeUsers(n int) []string {
	users := make([]string, n)
	for i := range users {
		users[i] = fmt.Sprintf("0x%040d", i)
	}
	return users
}

func TestFaucetClaim(t *testing.T) {
	svc, f, pub := newFaucetFixture()
	identity := core.Identity{Address: wallet, ChainID: 11155111}

	txHash, err := svc.Claim(context.Background(), identity)
	require.NoError(t, err)
	assert.Equal(t, "0xfeed", txHash)
	assert.Equal(t, 1, f.claims)
	assert.Equal(t, []string{"0xfeed"}, pub.claims)
}

func TestFaucetClaimAlreadyClaimed(t *testing.T) {
	svc, f, pub := newFaucetFixture()
	f.claimed[wallet] = true

	_, err := svc.Claim(context.Background(), core.Identity{Address: wallet})
	assert.ErrorIs(t, err, core.ErrAlreadyClaimed)
	assert.Zero(t, f.claims)
	assert.Empty(t, pub.claims)
}

func TestFaucetClaimUpstreamFailure(t *testing.T) {
	svc, f, _ := newFaucetFixture()
	f.claimErr = errRPC

	_, err := svc.Claim(context.Background(), core.Identity{Address: wallet})
	assert.ErrorIs(t, err, core.ErrUpstream)

	f.claimErr = nil
	f.readErr = errRPC
	_, err = svc.Claim(context.Background(), core.Identity{Address: wallet})
	assert.ErrorIs(t, err, core.ErrUpstream)
	assert.Zero(t, f.claims)
}

func TestFaucetStatus(t *testing.T) {
	svc, f, _ := newFaucetFixture(makeUsers(15)...)
	f.claimed[wallet] = true
	identity := core.Identity{Address: wallet}

	status, err := svc.Status(context.Background(), identity, wallet)
	require.NoError(t, err)
	assert.True(t, status.HasClaimed)
	assert.Equal(t, "100", status.Balance.String())
	assert.Equal(t, "100", status.FaucetAmount.String())
	assert.Equal(t, 15, status.TotalUsers)
	assert.Equal(t, makeUsers(15)[5:], status.Users)
	assert.Equal(t, "FCT", status.TokenInfo.Symbol)
}

func TestFaucetStatusAccess(t *testing.T) {
	svc, f, _ := newFaucetFixture()
	identity := core.Identity{Address: wallet}
	ctx := context.Background()

	_, err := svc.Status(ctx, identity, "0x123")
	assert.ErrorIs(t, err, core.ErrInvalidAddress)

	_, err = svc.Status(ctx, identity, "0x5FbDB2315678afecb367f032d93F642f64180aa3")
	assert.ErrorIs(t, err, core.ErrForbidden)

	_, err = svc.Status(ctx, identity, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	assert.NoError(t, err)

	f.readErr = errRPC
	_, err = svc.Status(ctx, identity, wallet)
	assert.ErrorIs(t, err, core.ErrUpstream)
}

func TestFaucetInfo(t *testing.T) {
	svc, _, _ := newFaucetFixture(makeUsers(3)...)

	info, err := svc.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, info.TotalUsers)
	assert.Equal(t, int64(11155111), info.ChainID)
	assert.Equal(t, "Sepolia", info.NetworkName)
	assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", info.ContractAddress)
	assert.Equal(t, "Faucet Token", info.TokenInfo.Name)
}

func TestFaucetUsers(t *testing.T) {
	all := makeUsers(25)
	svc, _, _ := newFaucetFixture(all...)
	ctx := context.Background()

	tests := []struct {
		name        string
		page, limit int
		first       string
		count       int
		wantPage    int
		wantLimit   int
	}{
		{name: "defaults", page: 0, limit: 0, first: all[24], count: 10, wantPage: 1, wantLimit: 10},
		{name: "second page", page: 2, limit: 10, first: all[14], count: 10, wantPage: 2, wantLimit: 10},
		{name: "partial last page", page: 3, limit: 10, first: all[4], count: 5, wantPage: 3, wantLimit: 10},
		{name: "past the end", page: 9, limit: 10, count: 0, wantPage: 9, wantLimit: 10},
		{name: "custom limit", page: 1, limit: 25, first: all[24], count: 25, wantPage: 1, wantLimit: 25},
		{name: "huge page", page: 1 << 62, limit: 4, count: 0, wantPage: 1 << 62, wantLimit: 4},
		{name: "limit capped", page: 1, limit: math.MaxInt, first: all[24], count: 25, wantPage: 1, wantLimit: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.Users(ctx, tt.page, tt.limit)
			require.NoError(t, err)
			require.Len(t, page.Users, tt.count)
			if tt.count > 0 {
				assert.Equal(t, tt.first, page.Users[0])
			}
			assert.Equal(t, tt.wantPage, page.Pagination.Page)
			assert.Equal(t, tt.wantLimit, page.Pagination.Limit)
			assert.Equal(t, 25, page.Pagination.Total)
		})
	}

	page, err := svc.Users(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Pagination.TotalPages)
}
