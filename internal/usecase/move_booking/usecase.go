package move_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-DetailingService/internal/service/schedule"
	"github.com/m04kA/SMC-DetailingService/pkg/txmanager"
)

// UseCase use case для переноса бронирования на другой слот.
// Длительность и цена сохраняются, пост назначается заново на новом
// интервале, флаги отправленных напоминаний сбрасываются.
type UseCase struct {
	bookingRepo  BookingRepository
	schedule     ScheduleService
	txManager    TransactionManager
	timeProvider TimeProvider
	horizonDays  int
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleService ScheduleService,
	txManager TransactionManager,
	horizonDays int,
	logger Logger,
) *UseCase {
	if horizonDays <= 0 {
		horizonDays = domain.DefaultHorizonDays
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		schedule:     scheduleService,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		horizonDays:  horizonDays,
		logger:       logger,
	}
}

// Execute выполняет use case переноса бронирования
// Использует сериализуемую транзакцию для предотвращения гонки данных
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("MoveBooking: booking=%d, user=%d, date=%s, time=%s",
		req.BookingID, req.UserID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("MoveBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("MoveBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("MoveBooking: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 4. Проверяем владельца (UserID = 0 означает администратора)
	if req.UserID != 0 && booking.UserID != req.UserID {
		uc.logger.Warn("MoveBooking: booking id=%d belongs to user=%d, not user=%d",
			req.BookingID, booking.UserID, req.UserID)
		return nil, ErrNotOwner
	}

	// 5. Переносить можно только подтвержденное бронирование
	if !booking.CanBeMoved() {
		uc.logger.Warn("MoveBooking: booking id=%d cannot be moved, status=%s", req.BookingID, booking.Status)
		return nil, ErrInvalidState
	}

	// 6. Валидация новой даты
	loc := uc.schedule.Location()
	if err := validateDate(req.Date.In(loc), now.In(loc), uc.horizonDays); err != nil {
		uc.logger.Warn("MoveBooking: date validation failed: %v", err)
		return nil, err
	}

	// 7. Новый интервал с сохранением исходной длительности
	duration := booking.EndAt.Sub(booking.StartAt)
	localDate := req.Date.In(loc)
	startAt := time.Date(localDate.Year(), localDate.Month(), localDate.Day(),
		req.StartTime.Hour(), req.StartTime.Minute(), 0, 0, loc)
	endAt := startAt.Add(duration)

	if startAt.Before(now) {
		uc.logger.Warn("MoveBooking: slot start %s is in the past", startAt.Format(time.RFC3339))
		return nil, ErrSlotInPast
	}

	// 8. Финальная проверка и перенос в сериализуемой транзакции.
	// Собственное бронирование исключается из подсчета занятости:
	// перенос внутри того же интервала не конфликтует сам с собой.
	excludeID := booking.ID
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Рабочее окно дня
		window, err := uc.schedule.WindowFor(txCtx, startAt)
		if err != nil {
			if errors.Is(err, schedule.ErrEmptyWindow) {
				uc.logger.Warn("MoveBooking: empty working window for %s", localDate.Format(domain.DateFormat))
				return ErrScheduleMisconfigured
			}
			uc.logger.Error("MoveBooking: failed to resolve window: %v", err)
			return fmt.Errorf("%w: failed to resolve window: %v", ErrInternal, err)
		}
		if !window.Contains(startAt, endAt) {
			uc.logger.Warn("MoveBooking: slot %s..%s outside window %s..%s",
				startAt.Format(time.RFC3339), endAt.Format(time.RFC3339),
				window.OpenAt.Format(time.RFC3339), window.CloseAt.Format(time.RFC3339))
			return ErrOutsideWorkingHours
		}

		// 8.2. Активные блокировки интервала
		blocked, err := uc.schedule.HasActiveBlocks(txCtx, startAt, endAt)
		if err != nil {
			uc.logger.Error("MoveBooking: failed to check blocks: %v", err)
			return fmt.Errorf("%w: failed to check blocks: %v", ErrInternal, err)
		}
		if blocked {
			uc.logger.Warn("MoveBooking: range %s..%s is blocked",
				startAt.Format(time.RFC3339), endAt.Format(time.RFC3339))
			return ErrRangeBlocked
		}

		// 8.3. Пересекающиеся подтвержденные бронирования без собственного
		overlaps, err := uc.schedule.OverlappingConfirmed(txCtx, startAt, endAt, &excludeID)
		if err != nil {
			// Ошибка конкурентного доступа возвращается как есть:
			// после транзакции она превратится в "слот занят"
			if txmanager.IsConflict(err) {
				return err
			}
			uc.logger.Error("MoveBooking: failed to get overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to get overlapping bookings: %v", ErrInternal, err)
		}

		// 8.4. Проверяем вместимость и назначаем пост заново
		maxPosts := uc.schedule.MaxPosts()
		if len(overlaps) >= maxPosts {
			uc.logger.Warn("MoveBooking: slot not available, %d/%d posts taken", len(overlaps), maxPosts)
			return ErrSlotNotAvailable
		}

		postNumber := schedule.LowestFreePost(overlaps, maxPosts)
		if postNumber == 0 {
			uc.logger.Warn("MoveBooking: no free post, %d/%d posts taken", len(overlaps), maxPosts)
			return ErrSlotNotAvailable
		}

		uc.logger.Info("MoveBooking: slot available, assigning post %d (%d/%d taken)",
			postNumber, len(overlaps), maxPosts)

		// 8.5. Переносим: новый интервал, новый пост, сброс флагов напоминаний.
		// Статусный предикат репозитория закрывает гонку с отменой: бронирование,
		// ставшее терминальным после проверки на шаге 5, не переносится
		if err := uc.bookingRepo.Reschedule(txCtx, booking.ID, startAt, endAt, postNumber); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				uc.logger.Warn("MoveBooking: booking id=%d left confirmed status concurrently", booking.ID)
				return ErrInvalidState
			}
			if txmanager.IsConflict(err) {
				return err
			}
			uc.logger.Error("MoveBooking: failed to reschedule booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to reschedule booking: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if txmanager.IsConflict(err) {
			uc.logger.Warn("MoveBooking: concurrent reservation conflict: %v", err)
			return nil, ErrSlotNotAvailable
		}
		return nil, err
	}

	// 9. Перечитываем бронирование после коммита
	moved, err := uc.bookingRepo.GetByID(ctx, booking.ID)
	if err != nil {
		uc.logger.Error("MoveBooking: failed to reload booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to reload booking: %v", ErrInternal, err)
	}

	uc.logger.Info("MoveBooking: successfully moved booking id=%d to %s, post=%d",
		moved.ID, moved.StartAt.Format(time.RFC3339), moved.PostNumber)

	return toResponse(moved), nil
}
