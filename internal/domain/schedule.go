package domain

import (
	"time"

	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// WeeklyScheduleRule one row of the recurring weekly schedule.
// DayOfWeek: 0 = Monday ... 6 = Sunday.
// При нескольких активных правилах на один день авторитетно последнее созданное.
type WeeklyScheduleRule struct {
	ID        int64
	DayOfWeek int
	OpenTime  types.TimeString
	CloseTime types.TimeString
	IsActive  bool
	CreatedAt time.Time
}

// BlockedRange ad-hoc closure overriding the weekly schedule for an interval
type BlockedRange struct {
	ID        int64
	StartAt   time.Time
	EndAt     time.Time
	IsActive  bool
	Note      *string
	CreatedBy *int64 // ID администратора, создавшего блокировку
	CreatedAt time.Time
}

// Overlaps reports whether the blocked range intersects [start, end)
func (b *BlockedRange) Overlaps(start, end time.Time) bool {
	return b.StartAt.Before(end) && b.EndAt.After(start)
}

// DayWindow resolved open window for one calendar date (absolute timestamps)
type DayWindow struct {
	OpenAt  time.Time
	CloseAt time.Time
}

// Contains reports whether [start, end) lies entirely within the window
func (w DayWindow) Contains(start, end time.Time) bool {
	return !start.Before(w.OpenAt) && !end.After(w.CloseAt)
}

// WeekdayIndex converts time.Weekday (Sunday=0) to the schedule convention (Monday=0)
func WeekdayIndex(d time.Weekday) int {
	if d == time.Sunday {
		return 6
	}
	return int(d) - 1
}
