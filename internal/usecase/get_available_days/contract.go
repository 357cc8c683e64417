package get_available_days

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// CatalogService интерфейс сервиса каталога
type CatalogService interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// ScheduleService интерфейс сервиса расписания и доступности
type ScheduleService interface {
	AvailableDays(ctx context.Context, startDay time.Time, durationMinutes, horizonDays int, excludeID *int64) ([]time.Time, error)
	Location() *time.Location
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
