package move_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Reschedule(ctx context.Context, id int64, start, end time.Time, postNumber int) error
}

// ScheduleService интерфейс сервиса расписания и доступности
type ScheduleService interface {
	WindowFor(ctx context.Context, day time.Time) (*domain.DayWindow, error)
	HasActiveBlocks(ctx context.Context, start, end time.Time) (bool, error)
	OverlappingConfirmed(ctx context.Context, start, end time.Time, excludeID *int64) ([]*domain.Booking, error)
	MaxPosts() int
	Location() *time.Location
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
