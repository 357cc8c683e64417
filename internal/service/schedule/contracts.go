package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// ScheduleRepository интерфейс репозитория недельного расписания и блокировок
type ScheduleRepository interface {
	ActiveRuleForWeekday(ctx context.Context, dayOfWeek int) (*domain.WeeklyScheduleRule, error)
	CreateRule(ctx context.Context, rule *domain.WeeklyScheduleRule) (*domain.WeeklyScheduleRule, error)
	ListRules(ctx context.Context) ([]*domain.WeeklyScheduleRule, error)
	CreateBlock(ctx context.Context, block *domain.BlockedRange) (*domain.BlockedRange, error)
	DeactivateBlock(ctx context.Context, id int64) error
	ActiveBlocksIn(ctx context.Context, start, end time.Time) ([]*domain.BlockedRange, error)
	ListActiveBlocks(ctx context.Context, limit int) ([]*domain.BlockedRange, error)
}

// BookingRepository интерфейс репозитория бронирований (только пересечения)
type BookingRepository interface {
	GetOverlapping(ctx context.Context, start, end time.Time, excludeID *int64) ([]*domain.Booking, error)
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
