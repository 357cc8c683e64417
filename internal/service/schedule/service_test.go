package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-DetailingService/pkg/txmanager"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// --- Mocks ---

type mockScheduleRepo struct {
	activeRuleFn       func(ctx context.Context, dayOfWeek int) (*domain.WeeklyScheduleRule, error)
	createRuleFn       func(ctx context.Context, rule *domain.WeeklyScheduleRule) (*domain.WeeklyScheduleRule, error)
	listRulesFn        func(ctx context.Context) ([]*domain.WeeklyScheduleRule, error)
	createBlockFn      func(ctx context.Context, block *domain.BlockedRange) (*domain.BlockedRange, error)
	deactivateBlockFn  func(ctx context.Context, id int64) error
	activeBlocksInFn   func(ctx context.Context, start, end time.Time) ([]*domain.BlockedRange, error)
	listActiveBlocksFn func(ctx context.Context, limit int) ([]*domain.BlockedRange, error)
}

func (m *mockScheduleRepo) ActiveRuleForWeekday(ctx context.Context, dayOfWeek int) (*domain.WeeklyScheduleRule, error) {
	if m.activeRuleFn != nil {
		return m.activeRuleFn(ctx, dayOfWeek)
	}
	return nil, scheduleRepo.ErrRuleNotFound
}

func (m *mockScheduleRepo) CreateRule(ctx context.Context, rule *domain.WeeklyScheduleRule) (*domain.WeeklyScheduleRule, error) {
	return m.createRuleFn(ctx, rule)
}

func (m *mockScheduleRepo) ListRules(ctx context.Context) ([]*domain.WeeklyScheduleRule, error) {
	return m.listRulesFn(ctx)
}

func (m *mockScheduleRepo) CreateBlock(ctx context.Context, block *domain.BlockedRange) (*domain.BlockedRange, error) {
	return m.createBlockFn(ctx, block)
}

func (m *mockScheduleRepo) DeactivateBlock(ctx context.Context, id int64) error {
	return m.deactivateBlockFn(ctx, id)
}

func (m *mockScheduleRepo) ActiveBlocksIn(ctx context.Context, start, end time.Time) ([]*domain.BlockedRange, error) {
	if m.activeBlocksInFn != nil {
		return m.activeBlocksInFn(ctx, start, end)
	}
	return nil, nil
}

func (m *mockScheduleRepo) ListActiveBlocks(ctx context.Context, limit int) ([]*domain.BlockedRange, error) {
	return m.listActiveBlocksFn(ctx, limit)
}

type mockBookingRepo struct {
	getOverlappingFn func(ctx context.Context, start, end time.Time, excludeID *int64) ([]*domain.Booking, error)
}

func (m *mockBookingRepo) GetOverlapping(ctx context.Context, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
	if m.getOverlappingFn != nil {
		return m.getOverlappingFn(ctx, start, end, excludeID)
	}
	return nil, nil
}

type stubTime struct {
	now time.Time
}

func (s *stubTime) Now() time.Time { return s.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newTestService(schedRepo *mockScheduleRepo, bookRepo *mockBookingRepo, maxPosts int, now time.Time) *Service {
	svc := NewService(schedRepo, bookRepo, time.UTC, maxPosts, nopLogger{})
	svc.timeProvider = &stubTime{now: now}
	return svc
}

// 2026-09-01 - вторник, 2026-09-05 - суббота
var (
	testTuesday  = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	testSaturday = time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	longAgo      = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
)

// --- WindowFor ---

func TestWindowFor_FallbackWeekday(t *testing.T) {
	svc := newTestService(&mockScheduleRepo{}, &mockBookingRepo{}, 2, longAgo)

	window, err := svc.WindowFor(context.Background(), testTuesday)
	require.NoError(t, err)

	// Будни без правила: 00:00 до полуночи следующего дня
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), window.OpenAt)
	assert.Equal(t, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), window.CloseAt)
}

func TestWindowFor_FallbackWeekend(t *testing.T) {
	svc := newTestService(&mockScheduleRepo{}, &mockBookingRepo{}, 2, longAgo)

	window, err := svc.WindowFor(context.Background(), testSaturday)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 9, 5, 9, 0, 0, 0, time.UTC), window.OpenAt)
	assert.Equal(t, time.Date(2026, 9, 5, 23, 0, 0, 0, time.UTC), window.CloseAt)
}

func TestWindowFor_RuleOverridesFallback(t *testing.T) {
	schedRepo := &mockScheduleRepo{
		activeRuleFn: func(ctx context.Context, dayOfWeek int) (*domain.WeeklyScheduleRule, error) {
			assert.Equal(t, 1, dayOfWeek) // вторник = 1
			return &domain.WeeklyScheduleRule{
				DayOfWeek: dayOfWeek,
				OpenTime:  "10:00",
				CloseTime: "19:00",
				IsActive:  true,
			}, nil
		},
	}
	svc := newTestService(schedRepo, &mockBookingRepo{}, 2, longAgo)

	window, err := svc.WindowFor(context.Background(), testTuesday)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), window.OpenAt)
	assert.Equal(t, time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC), window.CloseAt)
}

func TestWindowFor_MidnightClose(t *testing.T) {
	schedRepo := &mockScheduleRepo{
		activeRuleFn: func(ctx context.Context, dayOfWeek int) (*domain.WeeklyScheduleRule, error) {
			return &domain.WeeklyScheduleRule{
				DayOfWeek: dayOfWeek,
				OpenTime:  "08:00",
				CloseTime: "23:59",
				IsActive:  true,
			}, nil
		},
	}
	svc := newTestService(schedRepo, &mockBookingRepo{}, 2, longAgo)

	window, err := svc.WindowFor(context.Background(), testSaturday)
	require.NoError(t, err)

	// "23:59" означает открыто до полуночи следующего дня
	assert.Equal(t, time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC), window.CloseAt)
}

func TestWindowFor_EmptyWindow(t *testing.T) {
	schedRepo := &mockScheduleRepo{
		activeRuleFn: func(ctx context.Context, dayOfWeek int) (*domain.WeeklyScheduleRule, error) {
			return &domain.WeeklyScheduleRule{
				DayOfWeek: dayOfWeek,
				OpenTime:  "20:00",
				CloseTime: "10:00",
				IsActive:  true,
			}, nil
		},
	}
	svc := newTestService(schedRepo, &mockBookingRepo{}, 2, longAgo)

	_, err := svc.WindowFor(context.Background(), testTuesday)
	assert.ErrorIs(t, err, ErrEmptyWindow)
}

// --- AvailableSlots ---

func TestAvailableSlots_HourBoundaries(t *testing.T) {
	// Суббота 09:00-23:00, услуга 120 минут: старты 09:00..21:00
	svc := newTestService(&mockScheduleRepo{}, &mockBookingRepo{}, 2, longAgo)

	slots, err := svc.AvailableSlots(context.Background(), testSaturday, 120, nil, 0)
	require.NoError(t, err)

	require.Len(t, slots, 13)
	assert.Equal(t, time.Date(2026, 9, 5, 9, 0, 0, 0, time.UTC), slots[0])
	assert.Equal(t, time.Date(2026, 9, 5, 21, 0, 0, 0, time.UTC), slots[12])
	for _, slot := range slots {
		assert.Zero(t, slot.Minute())
	}
}

func TestAvailableSlots_SkipsPastCandidates(t *testing.T) {
	now := time.Date(2026, 9, 5, 12, 30, 0, 0, time.UTC)
	svc := newTestService(&mockScheduleRepo{}, &mockBookingRepo{}, 2, now)

	slots, err := svc.AvailableSlots(context.Background(), testSaturday, 60, nil, 0)
	require.NoError(t, err)

	require.NotEmpty(t, slots)
	assert.Equal(t, time.Date(2026, 9, 5, 13, 0, 0, 0, time.UTC), slots[0])
}

func TestAvailableSlots_ExcludesBlockedRanges(t *testing.T) {
	block := &domain.BlockedRange{
		StartAt:  time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC),
		EndAt:    time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC),
		IsActive: true,
	}
	schedRepo := &mockScheduleRepo{
		activeBlocksInFn: func(ctx context.Context, start, end time.Time) ([]*domain.BlockedRange, error) {
			if block.Overlaps(start, end) {
				return []*domain.BlockedRange{block}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(schedRepo, &mockBookingRepo{}, 2, longAgo)

	slots, err := svc.AvailableSlots(context.Background(), testSaturday, 60, nil, 0)
	require.NoError(t, err)

	for _, slot := range slots {
		assert.False(t, block.Overlaps(slot, slot.Add(time.Hour)), "slot %s overlaps block", slot)
	}
	assert.NotContains(t, slots, time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC))
	assert.NotContains(t, slots, time.Date(2026, 9, 5, 11, 0, 0, 0, time.UTC))
	assert.Contains(t, slots, time.Date(2026, 9, 5, 9, 0, 0, 0, time.UTC))
	assert.Contains(t, slots, time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC))
}

func TestAvailableSlots_FullPoolHidesSlot(t *testing.T) {
	taken := &domain.Booking{
		PostNumber: 1,
		StartAt:    time.Date(2026, 9, 5, 14, 0, 0, 0, time.UTC),
		EndAt:      time.Date(2026, 9, 5, 15, 0, 0, 0, time.UTC),
		Status:     domain.StatusConfirmed,
	}
	bookRepo := &mockBookingRepo{
		getOverlappingFn: func(ctx context.Context, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
			if taken.Overlaps(start, end) {
				return []*domain.Booking{taken}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(&mockScheduleRepo{}, bookRepo, 1, longAgo)

	slots, err := svc.AvailableSlots(context.Background(), testSaturday, 60, nil, 0)
	require.NoError(t, err)

	assert.NotContains(t, slots, taken.StartAt)
	// Касание границ не конфликтует
	assert.Contains(t, slots, time.Date(2026, 9, 5, 13, 0, 0, 0, time.UTC))
	assert.Contains(t, slots, time.Date(2026, 9, 5, 15, 0, 0, 0, time.UTC))
}

func TestAvailableSlots_SecondPostKeepsSlotOpen(t *testing.T) {
	taken := &domain.Booking{
		PostNumber: 1,
		StartAt:    time.Date(2026, 9, 5, 14, 0, 0, 0, time.UTC),
		EndAt:      time.Date(2026, 9, 5, 15, 0, 0, 0, time.UTC),
		Status:     domain.StatusConfirmed,
	}
	bookRepo := &mockBookingRepo{
		getOverlappingFn: func(ctx context.Context, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
			if taken.Overlaps(start, end) {
				return []*domain.Booking{taken}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(&mockScheduleRepo{}, bookRepo, 2, longAgo)

	slots, err := svc.AvailableSlots(context.Background(), testSaturday, 60, nil, 0)
	require.NoError(t, err)

	assert.Contains(t, slots, taken.StartAt)
}

func TestAvailableSlots_EmptyWindowMeansNoSlots(t *testing.T) {
	schedRepo := &mockScheduleRepo{
		activeRuleFn: func(ctx context.Context, dayOfWeek int) (*domain.WeeklyScheduleRule, error) {
			return &domain.WeeklyScheduleRule{
				DayOfWeek: dayOfWeek,
				OpenTime:  "20:00",
				CloseTime: "10:00",
				IsActive:  true,
			}, nil
		},
	}
	svc := newTestService(schedRepo, &mockBookingRepo{}, 2, longAgo)

	// Чтение с неконсистентным правилом не падает, просто нет доступности
	slots, err := svc.AvailableSlots(context.Background(), testTuesday, 60, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailableSlots_LimitStopsEnumeration(t *testing.T) {
	svc := newTestService(&mockScheduleRepo{}, &mockBookingRepo{}, 2, longAgo)

	slots, err := svc.AvailableSlots(context.Background(), testSaturday, 60, nil, 1)
	require.NoError(t, err)
	assert.Len(t, slots, 1)
}

// --- AvailableDays ---

func TestAvailableDays_FiltersDaysWithoutSlots(t *testing.T) {
	// Блокировка всей субботы исключает день из выдачи целиком
	blockStart := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	block := &domain.BlockedRange{
		StartAt:  blockStart,
		EndAt:    blockStart.AddDate(0, 0, 1),
		IsActive: true,
	}
	schedRepo := &mockScheduleRepo{
		activeBlocksInFn: func(ctx context.Context, start, end time.Time) ([]*domain.BlockedRange, error) {
			if block.Overlaps(start, end) {
				return []*domain.BlockedRange{block}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(schedRepo, &mockBookingRepo{}, 2, longAgo)

	days, err := svc.AvailableDays(context.Background(), testTuesday, 60, 7, nil)
	require.NoError(t, err)

	assert.Len(t, days, 6)
	assert.NotContains(t, days, testSaturday)
}

// --- LowestFreePost ---

func TestLowestFreePost(t *testing.T) {
	assert.Equal(t, 1, LowestFreePost(nil, 3))
	assert.Equal(t, 2, LowestFreePost([]*domain.Booking{{PostNumber: 1}}, 3))
	assert.Equal(t, 1, LowestFreePost([]*domain.Booking{{PostNumber: 2}}, 3))
	assert.Equal(t, 3, LowestFreePost([]*domain.Booking{{PostNumber: 1}, {PostNumber: 2}}, 3))
	assert.Equal(t, 0, LowestFreePost([]*domain.Booking{{PostNumber: 1}, {PostNumber: 2}, {PostNumber: 3}}, 3))
	assert.Equal(t, 0, LowestFreePost([]*domain.Booking{{PostNumber: 1}}, 1))
}

// --- SetWeekdayRule ---

func TestSetWeekdayRule_Success(t *testing.T) {
	schedRepo := &mockScheduleRepo{
		createRuleFn: func(ctx context.Context, rule *domain.WeeklyScheduleRule) (*domain.WeeklyScheduleRule, error) {
			rule.ID = 42
			assert.True(t, rule.IsActive)
			return rule, nil
		},
	}
	svc := newTestService(schedRepo, &mockBookingRepo{}, 2, longAgo)

	rule, err := svc.SetWeekdayRule(context.Background(), 0, "10:00", "19:00")
	require.NoError(t, err)
	assert.Equal(t, int64(42), rule.ID)
	assert.Equal(t, types.TimeString("10:00"), rule.OpenTime)
}

func TestSetWeekdayRule_MidnightCloseAllowed(t *testing.T) {
	schedRepo := &mockScheduleRepo{
		createRuleFn: func(ctx context.Context, rule *domain.WeeklyScheduleRule) (*domain.WeeklyScheduleRule, error) {
			rule.ID = 1
			return rule, nil
		},
	}
	svc := newTestService(schedRepo, &mockBookingRepo{}, 2, longAgo)

	_, err := svc.SetWeekdayRule(context.Background(), 3, "00:00", "23:59")
	assert.NoError(t, err)
}

func TestSetWeekdayRule_Invalid(t *testing.T) {
	svc := newTestService(&mockScheduleRepo{}, &mockBookingRepo{}, 2, longAgo)

	_, err := svc.SetWeekdayRule(context.Background(), 7, "10:00", "19:00")
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = svc.SetWeekdayRule(context.Background(), 0, "25:00", "19:00")
	assert.ErrorIs(t, err, ErrInvalidRule)

	// close <= open без особого значения "23:59"
	_, err = svc.SetWeekdayRule(context.Background(), 0, "19:00", "10:00")
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = svc.SetWeekdayRule(context.Background(), 0, "10:00", "10:00")
	assert.ErrorIs(t, err, ErrInvalidRule)
}

// --- Blocks ---

func TestCloseRange_InvalidRange(t *testing.T) {
	svc := newTestService(&mockScheduleRepo{}, &mockBookingRepo{}, 2, longAgo)

	start := time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC)
	_, err := svc.CloseRange(context.Background(), start, start, 1, nil)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestReopenRange_NotFound(t *testing.T) {
	schedRepo := &mockScheduleRepo{
		deactivateBlockFn: func(ctx context.Context, id int64) error {
			return scheduleRepo.ErrBlockNotFound
		},
	}
	svc := newTestService(schedRepo, &mockBookingRepo{}, 2, longAgo)

	err := svc.ReopenRange(context.Background(), 99)
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestIsSlotAvailable_RepoErrorPropagates(t *testing.T) {
	bookRepo := &mockBookingRepo{
		getOverlappingFn: func(ctx context.Context, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newTestService(&mockScheduleRepo{}, bookRepo, 2, longAgo)

	start := time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC)
	_, err := svc.IsSlotAvailable(context.Background(), start, 60, nil)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestOverlappingConfirmed_ConflictPassthrough(t *testing.T) {
	// Сентинел конкурентного доступа не оборачивается в ErrInternal:
	// движок резервирования различает его после транзакции
	bookRepo := &mockBookingRepo{
		getOverlappingFn: func(ctx context.Context, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
			return nil, txmanager.ClassifyPgError(&pq.Error{Code: "55P03"})
		},
	}
	svc := newTestService(&mockScheduleRepo{}, bookRepo, 2, longAgo)

	start := time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC)
	_, err := svc.OverlappingConfirmed(context.Background(), start, start.Add(time.Hour), nil)
	assert.ErrorIs(t, err, txmanager.ErrLockNotAvailable)
	assert.NotErrorIs(t, err, ErrInternal)
}
