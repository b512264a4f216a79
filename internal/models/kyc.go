package models

import "time"

const (
	KYCLevel1 = "level_1"
	KYCLevel2 = "level_2"

	KYCPending  = "pending"
	KYCApproved = "approved"
	KYCRejected = "rejected"
)

// ID document categories.
const (
	IDTypePassport      = "passport"
	IDTypeNationalID    = "national_id"
	IDTypeDriverLicense = "driver_license"
	IDTypeOther         = "other"
)

func ValidIDType(t string) bool {
	switch t {
	case IDTypePassport, IDTypeNationalID, IDTypeDriverLicense, IDTypeOther:
		return true
	}
	return false
}

// KYC is the per-user identity verification record. Document contents live in
// the object store; only the keys are kept here. Level is promoted to level_2
// when both documents are present.
type KYC struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"uniqueIndex;not null" json:"user"`
	FullName    *string    `gorm:"size:255" json:"full_name,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	IDType      string     `gorm:"size:50;default:passport" json:"id_type"`

	IDDocumentKey *string `gorm:"size:512" json:"id_document,omitempty"`
	SelfieKey     *string `gorm:"size:512" json:"selfie_photo,omitempty"`

	Level        string     `gorm:"size:20;default:level_1" json:"level"`
	ReviewStatus string     `gorm:"size:20;default:pending" json:"review_status,omitempty"`
	IsVerified   bool       `gorm:"default:false" json:"is_verified"`
	SubmittedAt  time.Time  `gorm:"autoCreateTime" json:"submitted_at"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
}
