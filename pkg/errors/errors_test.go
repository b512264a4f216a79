package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCodeWalksWrappers(t *testing.T) {
	assert.Equal(t, CodeNonceMismatch, GetCode(ErrNonceMismatch))
	assert.Equal(t, CodeNonceMismatch, GetCode(Wrap(ErrNonceMismatch, "consume nonce")))
	assert.Equal(t, CodeNonceMismatch, GetCode(Wrap(Wrap(ErrNonceMismatch, "inner"), "outer")))
	assert.Equal(t, 0, GetCode(New("plain")))
	assert.Equal(t, 0, GetCode(nil))
}

func TestIsThroughWrap(t *testing.T) {
	err := Wrap(ErrSignatureInvalid, "recover address")
	assert.True(t, Is(err, ErrSignatureInvalid))
	assert.False(t, Is(err, ErrNonceExpired))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "nonce mismatch", ErrNonceMismatch.Error())
	assert.Equal(t, "store alert", Wrap(New("db down"), "store alert").Error())
}
