package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/layer-3/faucet/core"
	"github.com/layer-3/faucet/ports"
	"github.com/shopspring/decimal"
)

// Backend is the part of an Ethereum client the contract binding needs.
// *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// FaucetContract implements the Faucet interface on top of the deployed contract
type FaucetContract struct {
	address  common.Address
	backend  Backend
	contract *bind.BoundContract
	signer   *bind.TransactOpts
	decimals int32
}

// NewFaucetContract binds the contract at address. Claims are sent from the
// relayer account controlled by key.
func NewFaucetContract(backend Backend, address string, key *ecdsa.PrivateKey, chainID int64) (ports.Faucet, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: invalid contract address %q", core.ErrMisconfigured, address)
	}
	if key == nil {
		return nil, fmt.Errorf("%w: relayer key is required", core.ErrMisconfigured)
	}

	parsed, err := abi.JSON(strings.NewReader(FaucetTokenABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
	}

	signer, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(chainID))
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}

	addr := common.HexToAddress(address)
	return &FaucetContract{
		address:  addr,
		backend:  backend,
		contract: bind.NewBoundContract(addr, parsed, backend, backend, backend),
		signer:   signer,
		decimals: 18,
	}, nil
}

// ParsePrivateKey decodes a hex encoded secp256k1 key, with or without 0x prefix
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid private key", core.ErrMisconfigured)
	}
	return key, nil
}

// Claim sends claimTokens and waits for the receipt
func (c *FaucetContract) Claim(ctx context.Context) (string, error) {
	opts := *c.signer
	opts.Context = ctx

	tx, err := c.contract.Transact(&opts, "claimTokens")
	if err != nil {
		return "", fmt.Errorf("failed to send claim transaction: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return "", fmt.Errorf("failed to wait for claim transaction %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", fmt.Errorf("claim transaction %s reverted", receipt.TxHash.Hex())
	}

	return receipt.TxHash.Hex(), nil
}

// HasClaimed reports whether address already received tokens
func (c *FaucetContract) HasClaimed(ctx context.Context, address string) (bool, error) {
	out, err := c.call(ctx, "hasAddressClaimed", common.HexToAddress(address))
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// BalanceOf returns the token balance of address in whole tokens
func (c *FaucetContract) BalanceOf(ctx context.Context, address string) (decimal.Decimal, error) {
	out, err := c.call(ctx, "balanceOf", common.HexToAddress(address))
	if err != nil {
		return decimal.Zero, err
	}
	return FormatUnits(*abi.ConvertType(out[0], new(*big.Int)).(**big.Int), c.decimals), nil
}

// Users returns every address that claimed, oldest first
func (c *FaucetContract) Users(ctx context.Context) ([]string, error) {
	out, err := c.call(ctx, "getFaucetUsers")
	if err != nil {
		return nil, err
	}

	addrs := *abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address)
	users := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		users = append(users, addr.Hex())
	}
	return users, nil
}

// FaucetAmount returns the allotment per claim in whole tokens
func (c *FaucetContract) FaucetAmount(ctx context.Context) (decimal.Decimal, error) {
	out, err := c.call(ctx, "getFaucetAmount")
	if err != nil {
		return decimal.Zero, err
	}
	return FormatUnits(*abi.ConvertType(out[0], new(*big.Int)).(**big.Int), c.decimals), nil
}

// TokenInfo reads the ERC-20 metadata
func (c *FaucetContract) TokenInfo(ctx context.Context) (*ports.TokenInfo, error) {
	name, err := c.call(ctx, "name")
	if err != nil {
		return nil, err
	}
	symbol, err := c.call(ctx, "symbol")
	if err != nil {
		return nil, err
	}
	decimals, err := c.call(ctx, "decimals")
	if err != nil {
		return nil, err
	}
	supply, err := c.call(ctx, "totalSupply")
	if err != nil {
		return nil, err
	}

	return &ports.TokenInfo{
		Name:        *abi.ConvertType(name[0], new(string)).(*string),
		Symbol:      *abi.ConvertType(symbol[0], new(string)).(*string),
		Decimals:    *abi.ConvertType(decimals[0], new(uint8)).(*uint8),
		TotalSupply: FormatUnits(*abi.ConvertType(supply[0], new(*big.Int)).(**big.Int), c.decimals),
	}, nil
}

// ContractAddress returns the checksummed contract address
func (c *FaucetContract) ContractAddress() string {
	return c.address.Hex()
}

func (c *FaucetContract) call(ctx context.Context, method string, params ...interface{}) ([]interface{}, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, params...); err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty result from %s", method)
	}
	return out, nil
}

// FormatUnits converts an integer amount in base units to whole tokens.
func FormatUnits(amount *big.Int, decimals int32) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -decimals)
}
