package manage_blocks

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

type ScheduleService interface {
	CloseRange(ctx context.Context, start, end time.Time, actorID int64, note *string) (*domain.BlockedRange, error)
	ReopenRange(ctx context.Context, blockID int64) error
	ListActiveBlocks(ctx context.Context, limit int) ([]*domain.BlockedRange, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
