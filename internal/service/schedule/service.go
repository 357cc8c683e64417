package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-DetailingService/pkg/txmanager"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// Service календарь рабочих окон и движок доступности.
// Разрешает окно работы для любой даты из недельного расписания,
// перечисляет свободные слоты и управляет блокировками интервалов.
type Service struct {
	scheduleRepo ScheduleRepository
	bookingRepo  BookingRepository
	loc          *time.Location
	maxPosts     int
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	bookingRepo BookingRepository,
	loc *time.Location,
	maxPosts int,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		bookingRepo:  bookingRepo,
		loc:          loc,
		maxPosts:     maxPosts,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// MaxPosts возвращает размер пула постов
func (s *Service) MaxPosts() int {
	return s.maxPosts
}

// Location возвращает часовой пояс сервиса
func (s *Service) Location() *time.Location {
	return s.loc
}

// WindowFor разрешает рабочее окно для календарной даты day (в часовом поясе сервиса).
//
// Правило для дня недели берется из недельного расписания (при дубликатах
// авторитетно последнее созданное). Если правила нет, применяется fallback:
// будни 00:00-24:00, выходные 09:00-23:00.
//
// Время закрытия 23:59 трактуется как полночь следующего дня ("открыто до
// полуночи"). Окно с close <= open считается ошибкой конфигурации (ErrEmptyWindow).
func (s *Service) WindowFor(ctx context.Context, day time.Time) (*domain.DayWindow, error) {
	day = day.In(s.loc)
	dayOfWeek := domain.WeekdayIndex(day.Weekday())

	openTime := domain.FallbackWeekdayOpen
	closeTime := domain.FallbackWeekdayClose
	if dayOfWeek >= 5 {
		openTime = domain.FallbackWeekendOpen
		closeTime = domain.FallbackWeekendClose
	}

	rule, err := s.scheduleRepo.ActiveRuleForWeekday(ctx, dayOfWeek)
	if err != nil && !errors.Is(err, scheduleRepo.ErrRuleNotFound) {
		return nil, fmt.Errorf("%w: WindowFor - get rule: %v", ErrInternal, err)
	}
	if rule != nil {
		openTime = rule.OpenTime
		closeTime = rule.CloseTime
	}

	year, month, dayNum := day.Date()
	openAt := time.Date(year, month, dayNum, openTime.Hour(), openTime.Minute(), 0, 0, s.loc)

	var closeAt time.Time
	if closeTime.Hour() == 23 && closeTime.Minute() == 59 {
		// "23:59" означает открыто до полуночи следующего календарного дня
		closeAt = time.Date(year, month, dayNum, 0, 0, 0, 0, s.loc).AddDate(0, 0, 1)
	} else {
		closeAt = time.Date(year, month, dayNum, closeTime.Hour(), closeTime.Minute(), 0, 0, s.loc)
	}

	if !closeAt.After(openAt) {
		s.logger.Warn("WindowFor: empty window for day=%s (open=%s, close=%s)",
			day.Format(domain.DateFormat), openTime, closeTime)
		return nil, ErrEmptyWindow
	}

	return &domain.DayWindow{OpenAt: openAt, CloseAt: closeAt}, nil
}

// IsSlotAvailable проверяет доступность слота [start, start+duration):
// интервал целиком внутри рабочего окна, без активных блокировок и с числом
// пересекающихся подтвержденных бронирований строго меньше maxPosts.
//
// excludeID исключает собственное бронирование при проверке переноса.
// Это advisory-проверка: результат может устареть к моменту коммита,
// финальная проверка выполняется движком резервирования под блокировкой.
func (s *Service) IsSlotAvailable(ctx context.Context, start time.Time, durationMinutes int, excludeID *int64) (bool, error) {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	window, err := s.WindowFor(ctx, start.In(s.loc))
	if err != nil {
		if errors.Is(err, ErrEmptyWindow) {
			return false, nil
		}
		return false, err
	}

	if !window.Contains(start, end) {
		return false, nil
	}

	blocks, err := s.scheduleRepo.ActiveBlocksIn(ctx, start, end)
	if err != nil {
		return false, fmt.Errorf("%w: IsSlotAvailable - get blocks: %v", ErrInternal, err)
	}
	if len(blocks) > 0 {
		return false, nil
	}

	overlaps, err := s.bookingRepo.GetOverlapping(ctx, start, end, excludeID)
	if err != nil {
		return false, fmt.Errorf("%w: IsSlotAvailable - get overlapping bookings: %v", ErrInternal, err)
	}

	return len(overlaps) < s.maxPosts, nil
}

// AvailableSlots перечисляет доступные времена начала на дату day.
//
// Кандидаты идут по границам часов начиная с открытия (округленного вверх до
// часа), пока кандидат + длительность помещается в окно. Кандидаты в прошлом
// пропускаются. limit > 0 останавливает перебор после limit найденных слотов.
func (s *Service) AvailableSlots(ctx context.Context, day time.Time, durationMinutes int, excludeID *int64, limit int) ([]time.Time, error) {
	window, err := s.WindowFor(ctx, day)
	if err != nil {
		if errors.Is(err, ErrEmptyWindow) {
			return []time.Time{}, nil
		}
		return nil, err
	}

	now := s.timeProvider.Now().In(s.loc)
	duration := time.Duration(durationMinutes) * time.Minute

	// Обнуляем минуты в локальном времени: слоты начинаются на границе часа
	openLocal := window.OpenAt.In(s.loc)
	year, month, dayNum := openLocal.Date()
	cursor := time.Date(year, month, dayNum, openLocal.Hour(), 0, 0, 0, s.loc)
	if cursor.Before(window.OpenAt) {
		cursor = cursor.Add(time.Hour)
	}

	slots := make([]time.Time, 0)
	for !cursor.Add(duration).After(window.CloseAt) {
		if !cursor.Before(now) {
			available, err := s.IsSlotAvailable(ctx, cursor, durationMinutes, excludeID)
			if err != nil {
				return nil, err
			}
			if available {
				slots = append(slots, cursor)
				if limit > 0 && len(slots) >= limit {
					break
				}
			}
		}
		cursor = cursor.Add(domain.SlotStepMinutes * time.Minute)
	}

	return slots, nil
}

// AvailableDays проходит horizonDays календарных дней начиная со startDay и
// оставляет дни хотя бы с одним доступным слотом. Чистое чтение, без блокировок.
func (s *Service) AvailableDays(ctx context.Context, startDay time.Time, durationMinutes, horizonDays int, excludeID *int64) ([]time.Time, error) {
	days := make([]time.Time, 0)

	for offset := 0; offset < horizonDays; offset++ {
		day := startDay.AddDate(0, 0, offset)
		slots, err := s.AvailableSlots(ctx, day, durationMinutes, excludeID, 1)
		if err != nil {
			return nil, err
		}
		if len(slots) > 0 {
			days = append(days, day)
		}
	}

	return days, nil
}

// HasActiveBlocks возвращает true, если интервал [start, end) пересекает
// активную блокировку
func (s *Service) HasActiveBlocks(ctx context.Context, start, end time.Time) (bool, error) {
	blocks, err := s.scheduleRepo.ActiveBlocksIn(ctx, start, end)
	if err != nil {
		return false, fmt.Errorf("%w: HasActiveBlocks - get blocks: %v", ErrInternal, err)
	}
	return len(blocks) > 0, nil
}

// OverlappingConfirmed получает подтвержденные бронирования, пересекающие
// [start, end). Внутри транзакции строки блокируются FOR UPDATE (см. репозиторий).
//
// Ошибки конкурентного доступа пробрасываются без оборачивания: движок
// резервирования различает их по сентинелам txmanager.
func (s *Service) OverlappingConfirmed(ctx context.Context, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
	overlaps, err := s.bookingRepo.GetOverlapping(ctx, start, end, excludeID)
	if err != nil {
		if txmanager.IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: OverlappingConfirmed - get overlapping bookings: %v", ErrInternal, err)
	}
	return overlaps, nil
}

// LowestFreePost возвращает наименьший номер поста в 1..maxPosts, не занятый
// ни одним из переданных бронирований, или 0, если свободных постов нет.
// Детерминированный выбор наименьшего номера делает назначение постов
// стабильным и проверяемым.
func LowestFreePost(overlaps []*domain.Booking, maxPosts int) int {
	used := make(map[int]bool, len(overlaps))
	for _, booking := range overlaps {
		used[booking.PostNumber] = true
	}
	for post := 1; post <= maxPosts; post++ {
		if !used[post] {
			return post
		}
	}
	return 0
}

// ListRules получает все правила недельного расписания
func (s *Service) ListRules(ctx context.Context) ([]*domain.WeeklyScheduleRule, error) {
	rules, err := s.scheduleRepo.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRules - list rules: %v", ErrInternal, err)
	}
	return rules, nil
}

// SetWeekdayRule создает правило расписания для дня недели (0 = понедельник).
// Прежние правила дня не удаляются: при разрешении окна авторитетно
// последнее созданное активное правило.
func (s *Service) SetWeekdayRule(ctx context.Context, dayOfWeek int, openTime, closeTime types.TimeString) (*domain.WeeklyScheduleRule, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, fmt.Errorf("%w: dayOfWeek must be in 0..6", ErrInvalidRule)
	}
	if err := openTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid open time: %v", ErrInvalidRule, err)
	}
	if err := closeTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid close time: %v", ErrInvalidRule, err)
	}
	// "23:59" допустимо как "до полуночи", иначе close должен быть позже open
	if !(closeTime.Hour() == 23 && closeTime.Minute() == 59) && !openTime.IsBefore(closeTime) {
		return nil, fmt.Errorf("%w: close time must be after open time", ErrInvalidRule)
	}

	created, err := s.scheduleRepo.CreateRule(ctx, &domain.WeeklyScheduleRule{
		DayOfWeek: dayOfWeek,
		OpenTime:  openTime,
		CloseTime: closeTime,
		IsActive:  true,
	})
	if err != nil {
		s.logger.Error("SetWeekdayRule: failed to create rule for day=%d: %v", dayOfWeek, err)
		return nil, fmt.Errorf("%w: SetWeekdayRule - create rule: %v", ErrInternal, err)
	}

	s.logger.Info("SetWeekdayRule: rule id=%d created, day=%d, window=%s-%s",
		created.ID, dayOfWeek, openTime, closeTime)
	return created, nil
}

// CloseRange создает блокировку интервала [start, end)
func (s *Service) CloseRange(ctx context.Context, start, end time.Time, actorID int64, note *string) (*domain.BlockedRange, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end must be after start", ErrInvalidRange)
	}

	block := &domain.BlockedRange{
		StartAt:   start,
		EndAt:     end,
		IsActive:  true,
		Note:      note,
		CreatedBy: &actorID,
	}

	created, err := s.scheduleRepo.CreateBlock(ctx, block)
	if err != nil {
		s.logger.Error("CloseRange: failed to create block: %v", err)
		return nil, fmt.Errorf("%w: CloseRange - create block: %v", ErrInternal, err)
	}

	s.logger.Info("CloseRange: block id=%d created by admin=%d, range=%s..%s",
		created.ID, actorID, start.Format(time.RFC3339), end.Format(time.RFC3339))
	return created, nil
}

// ReopenRange снимает блокировку по ID
func (s *Service) ReopenRange(ctx context.Context, blockID int64) error {
	err := s.scheduleRepo.DeactivateBlock(ctx, blockID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrBlockNotFound) {
			return ErrBlockNotFound
		}
		s.logger.Error("ReopenRange: failed to deactivate block id=%d: %v", blockID, err)
		return fmt.Errorf("%w: ReopenRange - deactivate block: %v", ErrInternal, err)
	}

	s.logger.Info("ReopenRange: block id=%d deactivated", blockID)
	return nil
}

// ListActiveBlocks получает активные блокировки, ближайшие первыми
func (s *Service) ListActiveBlocks(ctx context.Context, limit int) ([]*domain.BlockedRange, error) {
	blocks, err := s.scheduleRepo.ListActiveBlocks(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveBlocks - list blocks: %v", ErrInternal, err)
	}
	return blocks, nil
}
