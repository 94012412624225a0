package chain

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/layer-3/faucet/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaucetTokenABI(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(FaucetTokenABI))
	require.NoError(t, err)

	for _, method := range []string{
		"claimTokens", "hasAddressClaimed", "balanceOf", "getFaucetUsers",
		"getFaucetAmount", "name", "symbol", "decimals", "totalSupply",
	} {
		assert.Contains(t, parsed.Methods, method)
	}

	data, err := parsed.Pack("hasAddressClaimed", common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"))
	require.NoError(t, err)
	assert.Len(t, data, 4+32)
}

func TestFormatUnits(t *testing.T) {
	wei, ok := new(big.Int).SetString("1500000000000000000", 10)
	require.True(t, ok)

	assert.Equal(t, "1.5", FormatUnits(wei, 18).String())
	assert.Equal(t, "100", FormatUnits(new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18)), 18).String())
	assert.Equal(t, "0", FormatUnits(nil, 18).String())
}

func TestParsePrivateKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := common.Bytes2Hex(crypto.FromECDSA(key))

	parsed, err := ParsePrivateKey("0x" + hexKey)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), crypto.PubkeyToAddress(parsed.PublicKey))

	_, err = ParsePrivateKey("not-a-key")
	assert.ErrorIs(t, err, core.ErrMisconfigured)
}

func TestNewFaucetContractValidation(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	_, err = NewFaucetContract(nil, "0x1234", key, 11155111)
	assert.ErrorIs(t, err, core.ErrMisconfigured)

	_, err = NewFaucetContract(nil, "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", nil, 11155111)
	assert.ErrorIs(t, err, core.ErrMisconfigured)
}
