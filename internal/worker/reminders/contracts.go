package reminders

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	DueForReminder(ctx context.Context, threshold domain.ReminderThreshold, from, to time.Time) ([]*domain.Booking, error)
	MarkReminderSent(ctx context.Context, id int64, threshold domain.ReminderThreshold) error
}

// Notifier интерфейс доставки сообщений пользователям
type Notifier interface {
	SendMessage(ctx context.Context, recipientID int64, text string) error
}

// MetricsCollector интерфейс метрик свипа (nil допустим)
type MetricsCollector interface {
	ObserveReminderSent(threshold, status string)
	ObserveReminderSweep(duration time.Duration)
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
