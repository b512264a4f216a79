package models

import "time"

// Signals emitted by the services; listeners subscribe via util.Sig().
const (
	SigUserCreate    = "user.create"
	SigAlertCreated  = "alert.created"
	SigAlertResolved = "alert.resolved"
)

// User is an account identified by its wallet address. WalletAddress is
// stored canonical lowercase; Password may be empty for passwordless wallet
// users.
type User struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	WalletAddress string  `gorm:"size:255;uniqueIndex;not null" json:"wallet_address"`
	Username      string  `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Email         *string `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	Password      string  `gorm:"size:255" json:"-"`

	// Web3 login state: a single-slot nonce cell per account.
	Nonce               *string    `gorm:"size:100" json:"-"`
	NonceIssuedAt       *time.Time `json:"-"`
	LastNonceConsumedAt *time.Time `json:"-"`

	IsActive   bool      `gorm:"default:true" json:"is_active"`
	IsStaff    bool      `gorm:"default:false" json:"is_staff"`
	DateJoined time.Time `gorm:"autoCreateTime" json:"date_joined"`

	Alerts   []EmergencyAlert `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Bookings []Booking        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
