package booking_notes

import (
	"context"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

type BookingService interface {
	AddNote(ctx context.Context, bookingID, adminID int64, text string) (*domain.BookingNote, error)
	ListNotes(ctx context.Context, bookingID int64, limit int) ([]*domain.BookingNote, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
