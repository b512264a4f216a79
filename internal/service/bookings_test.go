package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomadlink/internal/models"
	"nomadlink/pkg/errors"
)

func TestCreateBooking(t *testing.T) {
	resetSignals(t)
	db := newTestDB(t)
	svc := NewBookingService(db)
	user := seedUser(t, db, "0xaaa")

	booking, err := svc.Create(context.Background(), user.ID, BookingInput{
		Destination: "Lisbon",
		StartDate:   "2026-09-10",
		EndDate:     "2026-09-17",
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Equal(t, "Lisbon", booking.Destination)
	assert.Equal(t, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), booking.StartDate)
}

func TestCreateBookingValidation(t *testing.T) {
	resetSignals(t)
	db := newTestDB(t)
	svc := NewBookingService(db)
	user := seedUser(t, db, "0xaaa")
	ctx := context.Background()

	_, err := svc.Create(ctx, user.ID, BookingInput{Destination: "Lisbon", StartDate: "not-a-date", EndDate: "2026-09-17"})
	assert.Equal(t, errors.CodeValidation, errors.GetCode(err))

	_, err = svc.Create(ctx, user.ID, BookingInput{Destination: "Lisbon", StartDate: "2026-09-17", EndDate: "2026-09-10"})
	assert.Equal(t, errors.CodeValidation, errors.GetCode(err))

	// Single-day stays are allowed.
	_, err = svc.Create(ctx, user.ID, BookingInput{Destination: "Lisbon", StartDate: "2026-09-10", EndDate: "2026-09-10"})
	assert.NoError(t, err)
}

func TestListMineScopedToUser(t *testing.T) {
	resetSignals(t)
	db := newTestDB(t)
	svc := NewBookingService(db)
	ctx := context.Background()
	user := seedUser(t, db, "0xaaa")
	other := seedUser(t, db, "0xbbb")

	_, err := svc.Create(ctx, user.ID, BookingInput{Destination: "Lisbon", StartDate: "2026-09-10", EndDate: "2026-09-17"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, other.ID, BookingInput{Destination: "Hanoi", StartDate: "2026-10-01", EndDate: "2026-10-05"})
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Lisbon", mine[0].Destination)
}
