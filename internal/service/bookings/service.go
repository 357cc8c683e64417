package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/booking"
)

// Service жизненный цикл бронирования: статусные переходы и заметки.
//
// Переходы разрешены только из Confirmed: Cancelled, Completed и NoShow
// терминальны, после них бронирование неизменяемо (ни переносов, ни
// напоминаний). Заметки можно добавлять в любом статусе.
type Service struct {
	bookingRepo BookingRepository
	loc         *time.Location
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, loc *time.Location, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		loc:         loc,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}
	return booking, nil
}

// GetUserBookings получает бронирования пользователя, опционально по статусу
func (s *Service) GetUserBookings(ctx context.Context, userID int64, status *domain.BookingStatus, limit int) ([]*domain.Booking, error) {
	bookings, err := s.bookingRepo.GetByUserID(ctx, userID, status, limit)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}
	return bookings, nil
}

// ListForDay получает бронирования на календарный день day
func (s *Service) ListForDay(ctx context.Context, day time.Time, limit int) ([]*domain.Booking, error) {
	local := day.In(s.loc)
	year, month, dayNum := local.Date()
	dayStart := time.Date(year, month, dayNum, 0, 0, 0, 0, s.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	bookings, err := s.bookingRepo.ListForDay(ctx, dayStart, dayEnd, limit)
	if err != nil {
		s.logger.Error("ListForDay: repository error for day=%s: %v", local.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: ListForDay - repository error: %v", ErrInternal, err)
	}
	return bookings, nil
}

// Cancel отменяет подтвержденное бронирование с указанием причины.
// userID != 0 требует, чтобы бронирование принадлежало этому пользователю
// (0 означает администратора). Вызов для бронирования в любом другом статусе —
// ошибка вызывающей стороны (ErrInvalidState), а не no-op.
func (s *Service) Cancel(ctx context.Context, id, userID int64, reason string) (*domain.Booking, error) {
	s.logger.Info("Cancel: cancelling booking id=%d", id)

	reason = strings.TrimSpace(reason)
	if len(reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason too long", ErrInvalidInput)
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if userID != 0 && booking.UserID != userID {
		s.logger.Warn("Cancel: booking id=%d belongs to user=%d, not user=%d", id, booking.UserID, userID)
		return nil, ErrAccessDenied
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", id, booking.Status)
		return nil, fmt.Errorf("%w: cannot cancel booking in status %s", ErrInvalidState, booking.Status)
	}

	if err := s.bookingRepo.Cancel(ctx, id, reason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		// Статус успел измениться между проверкой и UPDATE:
		// терминальное бронирование неизменяемо
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("Cancel: booking id=%d left confirmed status concurrently", id)
			return nil, fmt.Errorf("%w: booking status changed concurrently", ErrInvalidState)
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: booking id=%d cancelled, reason=%q", id, reason)
	return s.GetByID(ctx, id)
}

// MarkCompleted переводит подтвержденное бронирование в Completed.
// Используется для учета выручки.
func (s *Service) MarkCompleted(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.transition(ctx, id, domain.StatusCompleted)
}

// MarkNoShow переводит подтвержденное бронирование в NoShow
func (s *Service) MarkNoShow(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.transition(ctx, id, domain.StatusNoShow)
}

func (s *Service) transition(ctx context.Context, id int64, target domain.BookingStatus) (*domain.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !booking.IsConfirmed() {
		s.logger.Warn("transition: booking id=%d not confirmed, status=%s, target=%s", id, booking.Status, target)
		return nil, fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidState, booking.Status, target)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, id, target); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("transition: booking id=%d left confirmed status concurrently, target=%s", id, target)
			return nil, fmt.Errorf("%w: booking status changed concurrently", ErrInvalidState)
		}
		s.logger.Error("transition: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: transition - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("transition: booking id=%d moved to status=%s", id, target)
	return s.GetByID(ctx, id)
}

// AddNote добавляет заметку администратора к бронированию.
// Заметки append-only и допустимы в любом статусе.
func (s *Service) AddNote(ctx context.Context, bookingID, adminID int64, text string) (*domain.BookingNote, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: note text is required", ErrInvalidInput)
	}
	if len(text) > domain.MaxNoteLength {
		return nil, fmt.Errorf("%w: note text too long", ErrInvalidInput)
	}

	// Проверяем существование бронирования
	if _, err := s.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}

	note, err := s.bookingRepo.AddNote(ctx, &domain.BookingNote{
		BookingID: bookingID,
		AdminID:   adminID,
		Text:      text,
	})
	if err != nil {
		s.logger.Error("AddNote: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: AddNote - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddNote: note id=%d added to booking id=%d by admin=%d", note.ID, bookingID, adminID)
	return note, nil
}

// ListNotes получает заметки бронирования, новые первыми
func (s *Service) ListNotes(ctx context.Context, bookingID int64, limit int) ([]*domain.BookingNote, error) {
	notes, err := s.bookingRepo.ListNotes(ctx, bookingID, limit)
	if err != nil {
		s.logger.Error("ListNotes: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: ListNotes - repository error: %v", ErrInternal, err)
	}
	return notes, nil
}

// Stats возвращает агрегированную статистику бронирований
func (s *Service) Stats(ctx context.Context) (*domain.BookingStats, error) {
	stats, err := s.bookingRepo.Stats(ctx)
	if err != nil {
		s.logger.Error("Stats: repository error: %v", err)
		return nil, fmt.Errorf("%w: Stats - repository error: %v", ErrInternal, err)
	}
	return stats, nil
}
