package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"gorm.io/gorm"

	"nomadlink/internal/models"
	"nomadlink/pkg/errors"
	"nomadlink/pkg/storage"
)

// KYCUpdate carries the submission fields. Document uploads are optional and
// incremental: a user may submit the ID document and the selfie separately.
type KYCUpdate struct {
	FullName    *string
	DateOfBirth *time.Time
	IDType      *string

	IDDocument *Upload
	Selfie     *Upload
}

// Upload is one incoming file.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type KYCService struct {
	db   *gorm.DB
	docs storage.DocumentStore
	now  func() time.Time
}

func NewKYCService(db *gorm.DB, docs storage.DocumentStore) *KYCService {
	return &KYCService{db: db, docs: docs, now: time.Now}
}

// GetOrCreate returns the user's KYC record, creating an empty one on first
// access.
func (s *KYCService) GetOrCreate(ctx context.Context, userID uint) (*models.KYC, error) {
	var kyc models.KYC
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&kyc).Error
	if err == nil {
		return &kyc, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "lookup kyc")
	}

	kyc = models.KYC{UserID: userID, IDType: models.IDTypePassport, Level: models.KYCLevel1, ReviewStatus: models.KYCPending}
	if err := s.db.WithContext(ctx).Create(&kyc).Error; err != nil {
		return nil, errors.Wrap(err, "create kyc")
	}
	return &kyc, nil
}

// Update applies a submission: stores any uploaded documents, updates the
// profile fields and promotes the level when both documents are present.
func (s *KYCService) Update(ctx context.Context, userID uint, in KYCUpdate) (*models.KYC, error) {
	kyc, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.IDType != nil {
		if !models.ValidIDType(*in.IDType) {
			return nil, errors.WithCodef(errors.CodeValidation, "invalid id_type %q", *in.IDType)
		}
		kyc.IDType = *in.IDType
	}
	if in.FullName != nil {
		kyc.FullName = in.FullName
	}
	if in.DateOfBirth != nil {
		kyc.DateOfBirth = in.DateOfBirth
	}

	if in.IDDocument != nil {
		if strings.ToLower(path.Ext(in.IDDocument.Filename)) != ".pdf" {
			return nil, errors.WithCode(errors.CodeValidation, "only PDF files are allowed for the id document")
		}
		key := fmt.Sprintf("kyc/%d/id-document.pdf", userID)
		if err := s.docs.Put(ctx, key, "application/pdf", in.IDDocument.Reader, in.IDDocument.Size); err != nil {
			return nil, errors.Wrap(err, "store id document")
		}
		kyc.IDDocumentKey = &key
	}
	if in.Selfie != nil {
		if !strings.HasPrefix(in.Selfie.ContentType, "image/") {
			return nil, errors.WithCode(errors.CodeValidation, "selfie must be an image")
		}
		key := fmt.Sprintf("kyc/%d/selfie%s", userID, strings.ToLower(path.Ext(in.Selfie.Filename)))
		if err := s.docs.Put(ctx, key, in.Selfie.ContentType, in.Selfie.Reader, in.Selfie.Size); err != nil {
			return nil, errors.Wrap(err, "store selfie")
		}
		kyc.SelfieKey = &key
	}

	if kyc.IDDocumentKey != nil && kyc.SelfieKey != nil {
		kyc.Level = models.KYCLevel2
	} else {
		kyc.Level = models.KYCLevel1
	}

	if err := s.db.WithContext(ctx).Save(kyc).Error; err != nil {
		return nil, errors.Wrap(err, "save kyc")
	}
	return kyc, nil
}

// Verify is the admin review: approve or reject, stamping the review time.
func (s *KYCService) Verify(ctx context.Context, userID uint, reviewStatus string) (*models.KYC, error) {
	if reviewStatus != models.KYCApproved && reviewStatus != models.KYCRejected {
		return nil, errors.WithCode(errors.CodeValidation, "invalid review_status")
	}

	var kyc models.KYC
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&kyc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrKYCNotFound
		}
		return nil, errors.Wrap(err, "lookup kyc")
	}

	now := s.now()
	kyc.ReviewStatus = reviewStatus
	kyc.IsVerified = reviewStatus == models.KYCApproved
	kyc.ReviewedAt = &now
	if err := s.db.WithContext(ctx).Save(&kyc).Error; err != nil {
		return nil, errors.Wrap(err, "save kyc review")
	}
	return &kyc, nil
}
