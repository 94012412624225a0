package service

import (
	"context"
	"fmt"

	"github.com/layer-3/faucet/core"
	"github.com/layer-3/faucet/internal/log"
	"github.com/layer-3/faucet/ports"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	recentUsers      = 10
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// FaucetStatus is the per-address view of the faucet
type FaucetStatus struct {
	Address      string           `json:"address"`
	HasClaimed   bool             `json:"hasClaimed"`
	Balance      decimal.Decimal  `json:"balance"`
	FaucetAmount decimal.Decimal  `json:"faucetAmount"`
	TotalUsers   int              `json:"totalUsers"`
	Users        []string         `json:"users"`
	TokenInfo    *ports.TokenInfo `json:"tokenInfo"`
}

// FaucetInfo is the public summary of the faucet
type FaucetInfo struct {
	FaucetAmount    decimal.Decimal  `json:"faucetAmount"`
	TokenInfo       *ports.TokenInfo `json:"tokenInfo"`
	TotalUsers      int              `json:"totalUsers"`
	ContractAddress string           `json:"contractAddress"`
	ChainID         int64            `json:"chainId"`
	NetworkName     string           `json:"networkName"`
}

// Pagination describes one page of a list
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// UserPage is one page of faucet users, newest first
type UserPage struct {
	Users      []string   `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// FaucetService relays faucet operations to the contract on behalf of authenticated wallets
type FaucetService struct {
	faucet      ports.Faucet
	eventPub    ports.EventPublisher
	chainID     int64
	networkName string
}

// NewFaucetService creates a new faucet service
func NewFaucetService(faucet ports.Faucet, eventPub ports.EventPublisher, chainID int64, networkName string) *FaucetService {
	return &FaucetService{
		faucet:      faucet,
		eventPub:    eventPub,
		chainID:     chainID,
		networkName: networkName,
	}
}

// Claim relays a claim for the authenticated identity. No retry is attempted.
func (s *FaucetService) Claim(ctx context.Context, identity core.Identity) (string, error) {
	claimed, err := s.faucet.HasClaimed(ctx, identity.Address)
	if err != nil {
		return "", upstream(err)
	}
	if claimed {
		return "", core.ErrAlreadyClaimed
	}

	txHash, err := s.faucet.Claim(ctx)
	if err != nil {
		return "", upstream(err)
	}

	log.Info(ctx).Str("address", identity.Address).Str("tx_hash", txHash).Msg("claim relayed")

	if err := s.eventPub.PublishClaim(ctx, identity.Address, txHash); err != nil {
		log.Warn(ctx).Err(err).Msg("failed to publish claim event")
	}

	return txHash, nil
}

// Status returns the faucet state for address, which must belong to identity
func (s *FaucetService) Status(ctx context.Context, identity core.Identity, address string) (*FaucetStatus, error) {
	if !core.ValidAddress(address) {
		return nil, core.ErrInvalidAddress
	}
	if !core.SameAddress(identity.Address, address) {
		return nil, core.ErrForbidden
	}

	status := &FaucetStatus{Address: address}
	var users []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		status.HasClaimed, err = s.faucet.HasClaimed(gctx, address)
		return err
	})
	g.Go(func() (err error) {
		status.Balance, err = s.faucet.BalanceOf(gctx, address)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.faucet.Users(gctx)
		return err
	})
	g.Go(func() (err error) {
		status.FaucetAmount, err = s.faucet.FaucetAmount(gctx)
		return err
	})
	g.Go(func() (err error) {
		status.TokenInfo, err = s.faucet.TokenInfo(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, upstream(err)
	}

	status.TotalUsers = len(users)
	status.Users = lastN(users, recentUsers)
	return status, nil
}

// Info returns the public faucet summary
func (s *FaucetService) Info(ctx context.Context) (*FaucetInfo, error) {
	info := &FaucetInfo{
		ContractAddress: s.faucet.ContractAddress(),
		ChainID:         s.chainID,
		NetworkName:     s.networkName,
	}
	var users []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		info.FaucetAmount, err = s.faucet.FaucetAmount(gctx)
		return err
	})
	g.Go(func() (err error) {
		info.TokenInfo, err = s.faucet.TokenInfo(gctx)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.faucet.Users(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, upstream(err)
	}

	info.TotalUsers = len(users)
	return info, nil
}

// Users returns one page of claimers, newest first. Non-positive page or
// limit fall back to the first page of ten, limit is capped at 100.
func (s *FaucetService) Users(ctx context.Context, page, limit int) (*UserPage, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	all, err := s.faucet.Users(ctx)
	if err != nil {
		return nil, upstream(err)
	}

	reversed := make([]string, len(all))
	for i, u := range all {
		reversed[len(all)-1-i] = u
	}

	totalPages := (len(all) + limit - 1) / limit
	users := []string{}
	// Compare pages before multiplying so huge page numbers cannot overflow.
	if page-1 < totalPages {
		offset := (page - 1) * limit
		end := offset + limit
		if end > len(reversed) {
			end = len(reversed)
		}
		users = reversed[offset:end]
	}

	return &UserPage{
		Users: users,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      len(all),
			TotalPages: totalPages,
		},
	}, nil
}

func lastN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}

func upstream(err error) error {
	return fmt.Errorf("%w: %v", core.ErrUpstream, err)
}
