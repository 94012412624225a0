package verifier

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/layer-3/faucet/core"
	"github.com/layer-3/faucet/ports"
)

// PersonalSignVerifier checks EIP-191 personal_sign signatures, which is
// what wallets produce for EIP-4361 sign-in messages.
type PersonalSignVerifier struct{}

// NewPersonalSignVerifier creates a new verifier
func NewPersonalSignVerifier() ports.SignatureVerifier {
	return PersonalSignVerifier{}
}

// Verify recovers the signer of message and compares it with address
func (PersonalSignVerifier) Verify(message, signatureStr, addressStr string) error {
	if !common.IsHexAddress(addressStr) {
		return fmt.Errorf("malformed address: %w", core.ErrInvalidSignature)
	}

	decodedSig, err := hexutil.Decode(signatureStr)
	if err != nil {
		return fmt.Errorf("failed to decode signature: %w", core.ErrInvalidSignature)
	}
	if len(decodedSig) != crypto.SignatureLength {
		return fmt.Errorf("signature must be 65 bytes: %w", core.ErrInvalidSignature)
	}

	// Wallets emit v as 27/28, go-ethereum expects 0/1.
	sig := make([]byte, crypto.SignatureLength)
	copy(sig, decodedSig)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	if sig[crypto.RecoveryIDOffset] > 1 {
		return fmt.Errorf("invalid recovery id: %w", core.ErrInvalidSignature)
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return fmt.Errorf("failed to recover signer: %w", core.ErrInvalidSignature)
	}

	if crypto.PubkeyToAddress(*pub) != common.HexToAddress(addressStr) {
		return fmt.Errorf("signer mismatch: %w", core.ErrInvalidSignature)
	}

	return nil
}
