package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
)

// ReminderThreshold fixed lead time before a booking at which a reminder is due
type ReminderThreshold string

const (
	Reminder24h ReminderThreshold = "24h"
	Reminder2h  ReminderThreshold = "2h"
)

// Booking represents a confirmed reservation of one post for a time interval
type Booking struct {
	ID            int64
	UserID        int64
	ServiceID     int64
	VehicleTypeID int64

	// PostNumber номер поста (1..maxPosts), назначается при резервировании
	PostNumber int
	StartAt    time.Time
	EndAt      time.Time // = StartAt + service duration, фиксируется при создании

	FinalPrice decimal.Decimal // = basePrice * multiplier, зафиксирована при создании
	Status     BookingStatus

	// Snapshot данных услуги на момент бронирования
	ServiceName string

	Reminder24hSent bool
	Reminder2hSent  bool

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsConfirmed returns true if the booking is still active
func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

// IsTerminal returns true for cancelled, completed and no-show bookings.
// Terminal bookings are immutable: no moves, no status changes, no reminders.
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted || b.Status == StatusNoShow
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed
}

// CanBeMoved returns true if the booking can be rescheduled
func (b *Booking) CanBeMoved() bool {
	return b.Status == StatusConfirmed
}

// Overlaps reports whether [b.StartAt, b.EndAt) intersects [start, end).
// Boundary touch is not an overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartAt.Before(end) && b.EndAt.After(start)
}

// ReminderSent returns the sent flag for the given threshold
func (b *Booking) ReminderSent(threshold ReminderThreshold) bool {
	if threshold == Reminder24h {
		return b.Reminder24hSent
	}
	return b.Reminder2hSent
}

// BookingNote append-only admin annotation attached to a booking
type BookingNote struct {
	ID        int64
	BookingID int64
	AdminID   int64
	Text      string
	CreatedAt time.Time
}

// BookingStats aggregate counters for the admin dashboard
type BookingStats struct {
	Total     int64
	Confirmed int64
	Cancelled int64
	Completed int64
	NoShow    int64
	Revenue   decimal.Decimal // сумма FinalPrice завершенных бронирований
}
