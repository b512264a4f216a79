package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"nomadlink/internal/models"
	"nomadlink/pkg/errors"
	"nomadlink/pkg/token"
	"nomadlink/pkg/util"
)

// RegisterInput is an explicit email/password registration.
type RegisterInput struct {
	WalletAddress string  `json:"wallet_address" binding:"required"`
	Username      string  `json:"username"`
	Email         *string `json:"email"`
	Password      string  `json:"password" binding:"required,min=8"`
}

// AccountService covers classic registration and password login; wallet
// sign-in lives in WalletAuthService.
type AccountService struct {
	db     *gorm.DB
	tokens *token.Issuer
}

func NewAccountService(db *gorm.DB, tokens *token.Issuer) *AccountService {
	return &AccountService{db: db, tokens: tokens}
}

// Register creates an account with a password and returns it with a token pair.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, token.Pair, error) {
	wallet := strings.ToLower(strings.TrimSpace(in.WalletAddress))
	if wallet == "" {
		return nil, token.Pair{}, errors.WithCode(errors.CodeValidation, "wallet address is required")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("wallet_address = ?", wallet).Count(&count).Error; err != nil {
		return nil, token.Pair{}, errors.Wrap(err, "check account")
	}
	if count > 0 {
		return nil, token.Pair{}, errors.ErrDuplicateAccount
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		username = wallet
		if len(username) > usernameSlugMaxLen {
			username = username[:usernameSlugMaxLen]
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, token.Pair{}, errors.Wrap(err, "hash password")
	}

	user := models.User{
		WalletAddress: wallet,
		Username:      username,
		Email:         in.Email,
		Password:      string(hash),
		IsActive:      true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, token.Pair{}, errors.Wrap(err, "create account")
	}
	util.Sig().Emit(models.SigUserCreate, &user)

	pair, err := s.tokens.IssuePair(user.ID, user.WalletAddress)
	if err != nil {
		return nil, token.Pair{}, errors.Wrap(err, "issue tokens")
	}
	return &user, pair, nil
}

// Login authenticates by wallet address or email plus password.
func (s *AccountService) Login(ctx context.Context, identifier, password string) (*models.User, token.Pair, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))

	var user models.User
	err := s.db.WithContext(ctx).Where("wallet_address = ?", identifier).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = s.db.WithContext(ctx).Where("email = ?", identifier).First(&user).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, token.Pair{}, errors.ErrInvalidCredentials
		}
		return nil, token.Pair{}, errors.Wrap(err, "lookup account")
	}

	if !user.IsActive || user.Password == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, token.Pair{}, errors.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.ID, user.WalletAddress)
	if err != nil {
		return nil, token.Pair{}, errors.Wrap(err, "issue tokens")
	}
	return &user, pair, nil
}

// GetByID returns the account or ErrAccountNotFound.
func (s *AccountService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrAccountNotFound
		}
		return nil, errors.Wrap(err, "lookup account")
	}
	return &user, nil
}
