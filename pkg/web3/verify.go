package web3

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"nomadlink/pkg/errors"
)

// personalHash applies the EIP-191 personal-message envelope before hashing,
// matching what wallets do for personal_sign. Recovering against the raw
// keccak of the message would never match a wallet-produced signature.
func personalHash(message string) []byte {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	return crypto.Keccak256([]byte(prefixed))
}

// RecoverAddress recovers the checksummed address that signed message with a
// personal_sign signature (0x-prefixed, 65 bytes). It performs no comparison
// against a claimed address; that policy belongs to the caller.
func RecoverAddress(message, signature string) (string, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return "", errors.Wrap(errors.ErrSignatureInvalid, err.Error())
	}
	if len(sig) != crypto.SignatureLength {
		return "", errors.Wrapf(errors.ErrSignatureInvalid, "signature length %d", len(sig))
	}

	// Wallets emit V as 27/28; go-ethereum expects 0/1.
	recovery := make([]byte, crypto.SignatureLength)
	copy(recovery, sig)
	if recovery[crypto.RecoveryIDOffset] >= 27 {
		recovery[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(personalHash(message), recovery)
	if err != nil {
		return "", errors.Wrap(errors.ErrSignatureInvalid, err.Error())
	}
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}

// SameAddress compares two addresses case-insensitively.
func SameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}
