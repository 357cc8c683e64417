package update_booking_status

import (
	"context"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

type BookingService interface {
	MarkCompleted(ctx context.Context, id int64) (*domain.Booking, error)
	MarkNoShow(ctx context.Context, id int64) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
