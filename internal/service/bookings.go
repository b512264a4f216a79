package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"nomadlink/internal/models"
	"nomadlink/pkg/errors"
)

// BookingInput is the booking creation payload. Dates use YYYY-MM-DD.
type BookingInput struct {
	Destination string `json:"destination" binding:"required"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
}

type BookingService struct {
	db *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

// Create stores a pending booking for the user.
func (s *BookingService) Create(ctx context.Context, userID uint, in BookingInput) (*models.Booking, error) {
	start, err := time.Parse("2006-01-02", in.StartDate)
	if err != nil {
		return nil, errors.WithCode(errors.CodeValidation, "invalid start_date")
	}
	end, err := time.Parse("2006-01-02", in.EndDate)
	if err != nil {
		return nil, errors.WithCode(errors.CodeValidation, "invalid end_date")
	}
	if end.Before(start) {
		return nil, errors.WithCode(errors.CodeValidation, "end_date before start_date")
	}

	booking := models.Booking{
		UserID:      userID,
		Destination: in.Destination,
		StartDate:   start,
		EndDate:     end,
		Status:      models.BookingPending,
	}
	if err := s.db.WithContext(ctx).Create(&booking).Error; err != nil {
		return nil, errors.Wrap(err, "store booking")
	}
	return &booking, nil
}

// ListMine returns the user's bookings newest first.
func (s *BookingService) ListMine(ctx context.Context, userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, errors.Wrap(err, "list bookings")
	}
	return bookings, nil
}
