package get_day_bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

type BookingService interface {
	ListForDay(ctx context.Context, day time.Time, limit int) ([]*domain.Booking, error)
	Stats(ctx context.Context) (*domain.BookingStats, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
