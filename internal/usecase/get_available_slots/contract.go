package get_available_slots

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
	AvailableSlots(ctx context.Context, day time.Time, durationMinutes int, excludeID *int64, limit int) ([]time.Time, error)
	Location() *time.Location
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
