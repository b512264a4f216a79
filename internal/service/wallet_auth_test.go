package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomadlink/internal/models"
	"nomadlink/pkg/errors"
	"nomadlink/pkg/util"
)

func newTestWallet(t *testing.T) (keyHex, address string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return hexutil.Encode(crypto.FromECDSA(key))[2:], crypto.PubkeyToAddress(key.PublicKey).Hex()
}

func signMessage(t *testing.T, keyHex, message string) string {
	t.Helper()
	key, err := crypto.HexToECDSA(keyHex)
	require.NoError(t, err)

	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	sig, err := crypto.Sign(crypto.Keccak256([]byte(prefixed)), key)
	require.NoError(t, err)
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig)
}

func TestIssueNonceCreatesAccount(t *testing.T) {
	resetSignals(t)
	db := newTestDB(t)
	svc := NewWalletAuthService(db, newTestIssuer())
	ctx := context.Background()

	_, address := newTestWallet(t)

	result, err := svc.IssueNonce(ctx, address)
	require.NoError(t, err)
	assert.Len(t, result.Nonce, 32)
	assert.Equal(t, fmt.Sprintf("Sign this message to login: %s", result.Nonce), result.Message)

	var user models.User
	require.NoError(t, db.Where("wallet_address = ?", strings.ToLower(address)).First(&user).Error)
	assert.Equal(t, strings.ToLower(address), user.WalletAddress)
	assert.NotEmpty(t, user.Username)
	require.NotNil(t, user.Nonce)
	assert.Equal(t, result.Nonce, *user.Nonce)
	assert.NotNil(t, user.NonceIssuedAt)
}

func TestIssueNonceEmptyWallet(t *testing.T) {
	resetSignals(t)
	svc := NewWalletAuthService(newTestDB(t), newTestIssuer())

	_, err := svc.IssueNonce(context.Background(), "  ")
	assert.Equal(t, errors.CodeValidation, errors.GetCode(err))
}

func TestSecondNonceInvalidatesFirst(t *testing.T) {
	resetSignals(t)
	db := newTestDB(t)
	svc := NewWalletAuthService(db, newTestIssuer())
	ctx := context.Background()

	keyHex, address := newTestWallet(t)

	first, err := svc.IssueNonce(ctx, address)
	require.NoError(t, err)
	_, err = svc.IssueNonce(ctx, address)
	require.NoError(t, err)

	sig := signMessage(t, keyHex, first.Message)
	_, err = svc.Authenticate(ctx, address, sig, first.Message)
	assert.ErrorIs(t, err, errors.ErrNonceMismatch)
}

func TestAuthenticateSuccess(t *testing.T) {
	resetSignals(t)
	db := newTestDB(t)
	svc := NewWalletAuthService(db, newTestIssuer())
	ctx := context.Background()

	keyHex, address := newTestWallet(t)
	nonce, err := svc.IssueNonce(ctx, address)
	require.NoError(t, err)

	sig := signMessage(t, keyHex, nonce.Message)
	result, err := svc.Authenticate(ctx, address, sig, nonce.Message)
	require.NoError(t, err)

	assert.Equal(t, strings.ToLower(address), result.WalletAddress)
	assert.NotEmpty(t, result.Tokens.Access)
	assert.NotEmpty(t, result.Tokens.Refresh)

	// The nonce cell is cleared and the consumption recorded.
	var user models.User
	require.NoError(t, db.Where("wallet_address = ?", strings.ToLower(address)).First(&user).Error)
	assert.Nil(t, user.Nonce)
	assert.Nil(t, user.NonceIssuedAt)
	assert.NotNil(t, user.LastNonceConsumedAt)

	// A consumed nonce cannot be replayed.
	_, err = svc.Authenticate(ctx, address, sig, nonce.Message)
	assert.ErrorIs(t, err, errors.ErrNonceMismatch)
}

func TestAuthenticateUnknownAccount(t *testing.T) {
	resetSignals(t)
	svc := NewWalletAuthService(newTestDB(t), newTestIssuer())

	_, err := svc.Authenticate(context.Background(), "0xdeadbeef", "0x00", "msg")
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)
}

func TestAuthenticateExpiredNonce(t *testing.T) {
	resetSignals(t)
	db := newTestDB(t)
	svc := NewWalletAuthService(db, newTestIssuer())
	ctx := context.Background()

	keyHex, address := newTestWallet(t)
	nonce, err := svc.IssueNonce(ctx, address)
	require.NoError(t, err)
	sig := signMessage(t, keyHex, nonce.Message)

	// Step past the TTL; a valid signature must report expiry, not a
	// signature failure.
	svc.now = func() time.Time { return time.Now().Add(5*time.Minute + time.Second) }
	_, err = svc.Authenticate(ctx, address, sig, nonce.Message)
	assert.ErrorIs(t, err, errors.ErrNonceExpired)
}

func TestAuthenticateWrongKeyLeavesNonceValid(t *testing.T) {
	resetSignals(t)
	db := newTestDB(t)
	svc := NewWalletAuthService(db, newTestIssuer())
	ctx := context.Background()

	keyHex, address := newTestWallet(t)
	otherKeyHex, _ := newTestWallet(t)

	nonce, err := svc.IssueNonce(ctx, address)
	require.NoError(t, err)

	wrongSig := signMessage(t, otherKeyHex, nonce.Message)
	_, err = svc.Authenticate(ctx, address, wrongSig, nonce.Message)
	assert.ErrorIs(t, err, errors.ErrAddressMismatch)

	// Only success consumes the nonce: a correct retry within the TTL works.
	rightSig := signMessage(t, keyHex, nonce.Message)
	_, err = svc.Authenticate(ctx, address, rightSig, nonce.Message)
	assert.NoError(t, err)
}

func TestAuthenticateMalformedSignature(t *testing.T) {
	resetSignals(t)
	svc := NewWalletAuthService(newTestDB(t), newTestIssuer())
	ctx := context.Background()

	_, address := newTestWallet(t)
	nonce, err := svc.IssueNonce(ctx, address)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, address, "0x1234", nonce.Message)
	assert.ErrorIs(t, err, errors.ErrSignatureInvalid)
}

func TestConcurrentAuthenticateConsumesOnce(t *testing.T) {
	resetSignals(t)
	db := newTestDB(t)
	svc := NewWalletAuthService(db, newTestIssuer())
	ctx := context.Background()

	keyHex, address := newTestWallet(t)
	nonce, err := svc.IssueNonce(ctx, address)
	require.NoError(t, err)
	sig := signMessage(t, keyHex, nonce.Message)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Authenticate(ctx, address, sig, nonce.Message)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, errors.ErrNonceMismatch)
		}
	}
	assert.Equal(t, 1, successes, "exactly one request may consume the nonce")
}

func TestSweepExpiredNonces(t *testing.T) {
	resetSignals(t)
	db := newTestDB(t)
	svc := NewWalletAuthService(db, newTestIssuer())
	ctx := context.Background()

	_, address := newTestWallet(t)
	_, err := svc.IssueNonce(ctx, address)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	n, err := svc.SweepExpiredNonces(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var user models.User
	require.NoError(t, db.Where("wallet_address = ?", strings.ToLower(address)).First(&user).Error)
	assert.Nil(t, user.Nonce)
}

func TestUsernameGenerationEmitsSignal(t *testing.T) {
	resetSignals(t)
	db := newTestDB(t)
	svc := NewWalletAuthService(db, newTestIssuer())

	created := make(chan *models.User, 1)
	util.Sig().Connect(models.SigUserCreate, func(sender any, params ...any) {
		created <- sender.(*models.User)
	})

	_, address := newTestWallet(t)
	_, err := svc.IssueNonce(context.Background(), address)
	require.NoError(t, err)

	select {
	case user := <-created:
		assert.Equal(t, strings.ToLower(address), user.WalletAddress)
	default:
		t.Fatal("expected a user-created signal")
	}
}
