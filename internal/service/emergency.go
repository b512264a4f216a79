package service

import (
	"context"

	"gorm.io/gorm"

	"nomadlink/internal/models"
	"nomadlink/pkg/errors"
	"nomadlink/pkg/metrics"
	"nomadlink/pkg/util"
)

// TriggerInput is the alert submission payload.
type TriggerInput struct {
	Message   *string  `json:"message"`
	AlertType string   `json:"alert_type"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// EmergencyService persists alerts and emits the signals the broadcast
// listeners react to. Persistence is strict; everything downstream of the
// signal is best-effort.
type EmergencyService struct {
	db *gorm.DB
}

func NewEmergencyService(db *gorm.DB) *EmergencyService {
	return &EmergencyService{db: db}
}

// Trigger validates and stores a new alert for the user, then emits
// SigAlertCreated.
func (s *EmergencyService) Trigger(ctx context.Context, user *models.User, in TriggerInput) (*models.EmergencyAlert, error) {
	if in.AlertType == "" {
		in.AlertType = models.AlertTypeOther
	}
	if !models.ValidAlertType(in.AlertType) {
		return nil, errors.WithCodef(errors.CodeValidation, "invalid alert_type %q", in.AlertType)
	}
	if in.Message != nil && len(*in.Message) > 255 {
		return nil, errors.WithCode(errors.CodeValidation, "message too long")
	}
	if (in.Latitude == nil) != (in.Longitude == nil) {
		return nil, errors.WithCode(errors.CodeValidation, "latitude and longitude must be provided together")
	}

	alert := models.EmergencyAlert{
		UserID:    user.ID,
		Message:   in.Message,
		AlertType: in.AlertType,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	}
	if err := s.db.WithContext(ctx).Create(&alert).Error; err != nil {
		return nil, errors.Wrap(err, "store alert")
	}

	metrics.AlertTriggered()
	util.Sig().Emit(models.SigAlertCreated, &alert, user)
	return &alert, nil
}

// Mine lists the user's alerts newest first, optionally filtered on
// resolution state.
func (s *EmergencyService) Mine(ctx context.Context, userID uint, resolved *bool) ([]models.EmergencyAlert, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if resolved != nil {
		q = q.Where("is_resolved = ?", *resolved)
	}

	var alerts []models.EmergencyAlert
	if err := q.Order("triggered_at DESC").Find(&alerts).Error; err != nil {
		return nil, errors.Wrap(err, "list alerts")
	}
	return alerts, nil
}

// Resolve marks an alert resolved. Resolving an already-resolved alert is an
// idempotent success and does not re-emit notifications.
func (s *EmergencyService) Resolve(ctx context.Context, alertID uint) (*models.EmergencyAlert, error) {
	var alert models.EmergencyAlert
	if err := s.db.WithContext(ctx).First(&alert, alertID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrAlertNotFound
		}
		return nil, errors.Wrap(err, "lookup alert")
	}

	if alert.IsResolved {
		return &alert, nil
	}

	// Owner lookup happens before the update so a failure here cannot leave
	// a resolved alert behind an error response.
	var owner models.User
	if err := s.db.WithContext(ctx).First(&owner, alert.UserID).Error; err != nil {
		return nil, errors.Wrap(err, "lookup alert owner")
	}

	if err := s.db.WithContext(ctx).Model(&alert).Update("is_resolved", true).Error; err != nil {
		return nil, errors.Wrap(err, "resolve alert")
	}
	alert.IsResolved = true

	metrics.AlertResolved()
	util.Sig().Emit(models.SigAlertResolved, &alert, &owner)
	return &alert, nil
}
