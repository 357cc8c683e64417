package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBooking_Overlaps(t *testing.T) {
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	booking := &Booking{
		StartAt: start,
		EndAt:   start.Add(time.Hour),
	}

	// Пересечение внутри интервала
	assert.True(t, booking.Overlaps(start.Add(30*time.Minute), start.Add(90*time.Minute)))
	assert.True(t, booking.Overlaps(start.Add(-30*time.Minute), start.Add(30*time.Minute)))
	assert.True(t, booking.Overlaps(start, start.Add(time.Hour)))

	// Касание границ пересечением не считается
	assert.False(t, booking.Overlaps(start.Add(time.Hour), start.Add(2*time.Hour)))
	assert.False(t, booking.Overlaps(start.Add(-time.Hour), start))
}

func TestBooking_StatusPredicates(t *testing.T) {
	confirmed := &Booking{Status: StatusConfirmed}
	assert.True(t, confirmed.IsConfirmed())
	assert.False(t, confirmed.IsTerminal())
	assert.True(t, confirmed.CanBeCancelled())
	assert.True(t, confirmed.CanBeMoved())

	for _, status := range []BookingStatus{StatusCancelled, StatusCompleted, StatusNoShow} {
		b := &Booking{Status: status}
		assert.True(t, b.IsTerminal(), string(status))
		assert.False(t, b.CanBeCancelled(), string(status))
		assert.False(t, b.CanBeMoved(), string(status))
	}
}

func TestBooking_ReminderSent(t *testing.T) {
	b := &Booking{Reminder24hSent: true, Reminder2hSent: false}
	assert.True(t, b.ReminderSent(Reminder24h))
	assert.False(t, b.ReminderSent(Reminder2h))
}

func TestFinalPrice(t *testing.T) {
	base := decimal.NewFromInt(3500)
	multiplier := decimal.RequireFromString("1.20")

	price := FinalPrice(base, multiplier)
	assert.Equal(t, "4200.00", price.StringFixed(2))

	// Округление до 2 знаков, половина вверх
	price = FinalPrice(decimal.RequireFromString("1000.05"), decimal.RequireFromString("1.15"))
	assert.Equal(t, "1150.06", price.StringFixed(2))

	price = FinalPrice(decimal.NewFromInt(1500), decimal.NewFromInt(1))
	assert.Equal(t, "1500.00", price.StringFixed(2))
}
