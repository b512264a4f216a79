package web3

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signPersonal(t *testing.T, message string, keyHex string) (addr string, sig string) {
	t.Helper()
	key, err := crypto.HexToECDSA(keyHex)
	require.NoError(t, err)

	raw, err := crypto.Sign(personalHash(message), key)
	require.NoError(t, err)
	// Present the signature the way wallets do.
	raw[crypto.RecoveryIDOffset] += 27

	return crypto.PubkeyToAddress(key.PublicKey).Hex(), hexutil.Encode(raw)
}

const testKey = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

func TestRecoverAddress(t *testing.T) {
	message := "Sign this message to login: abc123"
	addr, sig := signPersonal(t, message, testKey)

	recovered, err := RecoverAddress(message, sig)
	require.NoError(t, err)
	assert.Equal(t, addr, recovered)
}

func TestRecoverAddressWrongMessage(t *testing.T) {
	addr, sig := signPersonal(t, "Sign this message to login: abc123", testKey)

	recovered, err := RecoverAddress("Sign this message to login: other", sig)
	require.NoError(t, err)
	assert.NotEqual(t, addr, recovered)
}

func TestRecoverAddressMalformed(t *testing.T) {
	_, err := RecoverAddress("msg", "not-hex")
	assert.Error(t, err)

	_, err = RecoverAddress("msg", "0xdeadbeef")
	assert.Error(t, err)
}

func TestSameAddress(t *testing.T) {
	assert.True(t, SameAddress("0xABCdef0123", "0xabcDEF0123"))
	assert.False(t, SameAddress("0xaa", "0xbb"))
}
