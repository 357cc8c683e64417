package move_booking

import (
	"fmt"
	"time"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.UserID < 0 {
		return fmt.Errorf("%w: userID must not be negative", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.StartTime.Minute() != 0 {
		return fmt.Errorf("%w: slot must start on the hour", ErrInvalidTimeSlot)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом и внутри горизонта бронирования
func validateDate(bookingDate, now time.Time, horizonDays int) error {
	dateOnly := time.Date(bookingDate.Year(), bookingDate.Month(), bookingDate.Day(), 0, 0, 0, 0, bookingDate.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if dateOnly.Before(nowOnly) {
		return ErrInvalidDate
	}

	if horizonDays > 0 {
		maxDate := nowOnly.AddDate(0, 0, horizonDays)
		if dateOnly.After(maxDate) {
			return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, horizonDays)
		}
	}

	return nil
}
