package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"nomadlink/internal/models"
	"nomadlink/pkg/token"
	"nomadlink/pkg/util"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := util.OpenDatabase(&gorm.Config{}, "", "file::memory:")
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Serialize writers so concurrent tests exercise the nonce CAS rather
	// than sqlite's single-writer lock.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.EmergencyAlert{}, &models.Booking{}, &models.KYC{}))
	return db
}

func newTestIssuer() *token.Issuer {
	return token.NewIssuer("test-secret", time.Hour, 24*time.Hour)
}

func seedUser(t *testing.T, db *gorm.DB, wallet string) *models.User {
	t.Helper()
	user := &models.User{WalletAddress: wallet, Username: "user-" + wallet, IsActive: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

func strptr(s string) *string { return &s }

func resetSignals(t *testing.T) {
	t.Helper()
	util.Sig().Reset()
	t.Cleanup(util.Sig().Reset)
}
