package models

import "time"

// Alert categories.
const (
	AlertTypeMedical  = "medical"
	AlertTypeThreat   = "threat"
	AlertTypeAccident = "accident"
	AlertTypeLost     = "lost"
	AlertTypeOther    = "other"
)

// ValidAlertType reports whether t is one of the closed alert categories.
func ValidAlertType(t string) bool {
	switch t {
	case AlertTypeMedical, AlertTypeThreat, AlertTypeAccident, AlertTypeLost, AlertTypeOther:
		return true
	}
	return false
}

// EmergencyAlert is a distress record owned by a user. IsResolved is never
// reverted once set; TriggeredAt is server-assigned.
type EmergencyAlert struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user"`
	Message     *string   `gorm:"size:255" json:"message,omitempty"`
	AlertType   string    `gorm:"size:20;default:other" json:"alert_type"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	IsResolved  bool      `gorm:"default:false" json:"is_resolved"`
	TriggeredAt time.Time `gorm:"autoCreateTime;index" json:"triggered_at"`
}
