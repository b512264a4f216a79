package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"nomadlink/internal/models"
	"nomadlink/pkg/errors"
	"nomadlink/pkg/token"
	"nomadlink/pkg/util"
	"nomadlink/pkg/web3"
)

const (
	challengeFormat    = "Sign this message to login: %s"
	nonceTTL           = 5 * time.Minute
	nonceBytes         = 16 // 32 hex chars
	usernameAttempts   = 5
	usernameSlugMaxLen = 20
)

// NonceResult is what the nonce endpoint returns: the full challenge to sign
// plus the raw nonce.
type NonceResult struct {
	Message string `json:"message"`
	Nonce   string `json:"nonce"`
}

// AuthResult is a successful wallet sign-in.
type AuthResult struct {
	Tokens        token.Pair
	WalletAddress string
	Username      string
}

// WalletAuthService drives the nonce lifecycle: issue, verify, consume.
type WalletAuthService struct {
	db     *gorm.DB
	tokens *token.Issuer
	now    func() time.Time
}

func NewWalletAuthService(db *gorm.DB, tokens *token.Issuer) *WalletAuthService {
	return &WalletAuthService{db: db, tokens: tokens, now: time.Now}
}

// IssueNonce creates (or finds) the account for the wallet and installs a
// fresh nonce, unconditionally replacing any outstanding one.
func (s *WalletAuthService) IssueNonce(ctx context.Context, walletAddress string) (*NonceResult, error) {
	wallet := strings.ToLower(strings.TrimSpace(walletAddress))
	if wallet == "" {
		return nil, errors.WithCode(errors.CodeValidation, "wallet address is required")
	}

	user, err := s.getOrCreateUser(ctx, wallet)
	if err != nil {
		return nil, err
	}

	nonce, err := generateNonce()
	if err != nil {
		return nil, errors.Wrap(err, "generate nonce")
	}

	now := s.now()
	if err := s.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"nonce":           nonce,
		"nonce_issued_at": now,
	}).Error; err != nil {
		return nil, errors.Wrap(err, "store nonce")
	}

	return &NonceResult{
		Message: fmt.Sprintf(challengeFormat, nonce),
		Nonce:   nonce,
	}, nil
}

// Authenticate validates the signed challenge and atomically consumes the
// nonce. Exactly one of two concurrent calls with the same valid signature
// can succeed: consumption is a conditional update keyed on the nonce value,
// so the loser sees zero rows affected.
func (s *WalletAuthService) Authenticate(ctx context.Context, walletAddress, signature, originalMessage string) (*AuthResult, error) {
	wallet := strings.ToLower(strings.TrimSpace(walletAddress))

	var user models.User
	if err := s.db.WithContext(ctx).Where("wallet_address = ?", wallet).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrAccountNotFound
		}
		return nil, errors.Wrap(err, "lookup account")
	}

	if user.Nonce == nil || fmt.Sprintf(challengeFormat, *user.Nonce) != originalMessage {
		return nil, errors.ErrNonceMismatch
	}
	if user.NonceIssuedAt == nil || s.now().Sub(*user.NonceIssuedAt) > nonceTTL {
		return nil, errors.ErrNonceExpired
	}

	recovered, err := web3.RecoverAddress(originalMessage, signature)
	if err != nil {
		return nil, errors.ErrSignatureInvalid
	}
	if !web3.SameAddress(recovered, wallet) {
		// Nonce stays valid: only a successful sign-in clears it.
		return nil, errors.ErrAddressMismatch
	}

	res := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND nonce = ?", user.ID, *user.Nonce).
		Updates(map[string]interface{}{
			"nonce":                  nil,
			"nonce_issued_at":        nil,
			"last_nonce_consumed_at": s.now(),
		})
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "consume nonce")
	}
	if res.RowsAffected == 0 {
		// Lost the race: another request consumed this nonce first.
		return nil, errors.ErrNonceMismatch
	}

	pair, err := s.tokens.IssuePair(user.ID, user.WalletAddress)
	if err != nil {
		return nil, errors.Wrap(err, "issue tokens")
	}
	return &AuthResult{Tokens: pair, WalletAddress: user.WalletAddress, Username: user.Username}, nil
}

// SweepExpiredNonces clears nonces older than the TTL. Housekeeping only;
// Authenticate re-checks the TTL regardless. Safe to run from any process.
func (s *WalletAuthService) SweepExpiredNonces(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-nonceTTL)
	res := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("nonce IS NOT NULL AND nonce_issued_at < ?", cutoff).
		Updates(map[string]interface{}{"nonce": nil, "nonce_issued_at": nil})
	return res.RowsAffected, res.Error
}

func (s *WalletAuthService) getOrCreateUser(ctx context.Context, wallet string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("wallet_address = ?", wallet).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "lookup account")
	}

	username, err := s.generateUsername(ctx, wallet)
	if err != nil {
		return nil, err
	}

	user = models.User{
		WalletAddress: wallet,
		Username:      username,
		IsActive:      true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, errors.Wrap(err, "create account")
	}
	util.Sig().Emit(models.SigUserCreate, &user)
	return &user, nil
}

// generateUsername derives a unique username from the wallet address:
// slug prefix plus a short random suffix, retried a fixed number of times.
func (s *WalletAuthService) generateUsername(ctx context.Context, wallet string) (string, error) {
	base := slugify(wallet)
	if len(base) > usernameSlugMaxLen {
		base = base[:usernameSlugMaxLen]
	}
	for i := 0; i < usernameAttempts; i++ {
		candidate := fmt.Sprintf("%s-%s", base, uuid.New().String()[:6])
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("username = ?", candidate).Count(&count).Error; err != nil {
			return "", errors.Wrap(err, "check username")
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", errors.ErrUsernameGeneration
}

func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func generateNonce() (string, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
