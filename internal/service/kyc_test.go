package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomadlink/internal/models"
	"nomadlink/pkg/errors"
)

// memDocStore keeps documents in a map for tests.
type memDocStore struct {
	objects map[string][]byte
}

func newMemDocStore() *memDocStore {
	return &memDocStore{objects: make(map[string][]byte)}
}

func (m *memDocStore) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memDocStore) Read(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, errors.New("no object " + key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memDocStore) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func TestKYCGetOrCreate(t *testing.T) {
	resetSignals(t)
	db := newTestDB(t)
	svc := NewKYCService(db, newMemDocStore())
	user := seedUser(t, db, "0xaaa")
	ctx := context.Background()

	kyc, err := svc.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.KYCLevel1, kyc.Level)
	assert.Equal(t, models.KYCPending, kyc.ReviewStatus)
	assert.False(t, kyc.IsVerified)

	again, err := svc.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, kyc.ID, again.ID)
}

func TestKYCUpdateDocumentsAndPromotion(t *testing.T) {
	resetSignals(t)
	db := newTestDB(t)
	docs := newMemDocStore()
	svc := NewKYCService(db, docs)
	user := seedUser(t, db, "0xaaa")
	ctx := context.Background()

	name := "Ada Wanderer"
	kyc, err := svc.Update(ctx, user.ID, KYCUpdate{
		FullName: &name,
		IDDocument: &Upload{
			Filename:    "passport.PDF",
			ContentType: "application/pdf",
			Size:        4,
			Reader:      strings.NewReader("%PDF"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.KYCLevel1, kyc.Level, "one document keeps level 1")
	require.NotNil(t, kyc.IDDocumentKey)
	assert.Contains(t, docs.objects, *kyc.IDDocumentKey)

	kyc, err = svc.Update(ctx, user.ID, KYCUpdate{
		Selfie: &Upload{
			Filename:    "selfie.jpg",
			ContentType: "image/jpeg",
			Size:        3,
			Reader:      strings.NewReader("jpg"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.KYCLevel2, kyc.Level, "both documents promote to level 2")
	require.NotNil(t, kyc.FullName)
	assert.Equal(t, name, *kyc.FullName)
}

func TestKYCUpdateRejectsBadUploads(t *testing.T) {
	resetSignals(t)
	db := newTestDB(t)
	svc := NewKYCService(db, newMemDocStore())
	user := seedUser(t, db, "0xaaa")
	ctx := context.Background()

	_, err := svc.Update(ctx, user.ID, KYCUpdate{
		IDDocument: &Upload{Filename: "passport.png", ContentType: "image/png", Reader: strings.NewReader("x")},
	})
	assert.Equal(t, errors.CodeValidation, errors.GetCode(err))

	_, err = svc.Update(ctx, user.ID, KYCUpdate{
		Selfie: &Upload{Filename: "selfie.pdf", ContentType: "application/pdf", Reader: strings.NewReader("x")},
	})
	assert.Equal(t, errors.CodeValidation, errors.GetCode(err))

	badType := "student-card"
	_, err = svc.Update(ctx, user.ID, KYCUpdate{IDType: &badType})
	assert.Equal(t, errors.CodeValidation, errors.GetCode(err))
}

func TestKYCVerify(t *testing.T) {
	resetSignals(t)
	db := newTestDB(t)
	svc := NewKYCService(db, newMemDocStore())
	user := seedUser(t, db, "0xaaa")
	ctx := context.Background()

	reviewedAt := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return reviewedAt }

	_, err := svc.Verify(ctx, user.ID, models.KYCApproved)
	assert.ErrorIs(t, err, errors.ErrKYCNotFound)

	_, err = svc.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)

	kyc, err := svc.Verify(ctx, user.ID, models.KYCApproved)
	require.NoError(t, err)
	assert.True(t, kyc.IsVerified)
	assert.Equal(t, models.KYCApproved, kyc.ReviewStatus)
	require.NotNil(t, kyc.ReviewedAt)
	assert.True(t, kyc.ReviewedAt.Equal(reviewedAt))

	kyc, err = svc.Verify(ctx, user.ID, models.KYCRejected)
	require.NoError(t, err)
	assert.False(t, kyc.IsVerified)

	_, err = svc.Verify(ctx, user.ID, "maybe")
	assert.Equal(t, errors.CodeValidation, errors.GetCode(err))
}
