package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus, limit int) ([]*domain.Booking, error)
	ListForDay(ctx context.Context, dayStart, dayEnd time.Time, limit int) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
	AddNote(ctx context.Context, note *domain.BookingNote) (*domain.BookingNote, error)
	ListNotes(ctx context.Context, bookingID int64, limit int) ([]*domain.BookingNote, error)
	Stats(ctx context.Context) (*domain.BookingStats, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
