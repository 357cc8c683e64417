package move_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("move_booking: booking not found")

	// ErrNotOwner возвращается, когда бронирование принадлежит другому пользователю
	ErrNotOwner = errors.New("move_booking: booking belongs to another user")

	// ErrInvalidState возвращается при попытке переноса не-подтвержденного бронирования
	ErrInvalidState = errors.New("move_booking: booking cannot be moved in its current state")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("move_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата за пределами горизонта бронирования
	ErrDateTooFarInFuture = errors.New("move_booking: date is too far in the future")

	// ErrSlotInPast возвращается, когда новое время начала уже прошло
	ErrSlotInPast = errors.New("move_booking: slot start time is in the past")

	// ErrOutsideWorkingHours возвращается, когда слот не помещается в рабочее окно дня
	ErrOutsideWorkingHours = errors.New("move_booking: slot is outside working hours")

	// ErrRangeBlocked возвращается, когда интервал пересекает активную блокировку
	ErrRangeBlocked = errors.New("move_booking: time range is blocked")

	// ErrSlotNotAvailable возвращается, когда все посты на новом интервале заняты
	ErrSlotNotAvailable = errors.New("move_booking: slot is not available")

	// ErrInvalidTimeSlot возвращается, когда время начала не на границе часа
	ErrInvalidTimeSlot = errors.New("move_booking: invalid time slot")

	// ErrScheduleMisconfigured возвращается при пустом рабочем окне (close <= open)
	ErrScheduleMisconfigured = errors.New("move_booking: schedule is misconfigured for this day")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("move_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("move_booking: internal error")
)
