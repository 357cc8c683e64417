package manage_schedule

import (
	"context"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

type ScheduleService interface {
	ListRules(ctx context.Context) ([]*domain.WeeklyScheduleRule, error)
	SetWeekdayRule(ctx context.Context, dayOfWeek int, openTime, closeTime types.TimeString) (*domain.WeeklyScheduleRule, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
