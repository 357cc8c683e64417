package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrVehicleTypeNotFound возвращается, когда тип кузова не найден или неактивен
	ErrVehicleTypeNotFound = errors.New("create_booking: vehicle type not found")

	// ErrInvalidDate возвращается при дате бронирования в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата за пределами горизонта бронирования
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrSlotInPast возвращается, когда время начала слота уже прошло
	ErrSlotInPast = errors.New("create_booking: slot start time is in the past")

	// ErrOutsideWorkingHours возвращается, когда слот не помещается в рабочее окно дня
	ErrOutsideWorkingHours = errors.New("create_booking: slot is outside working hours")

	// ErrRangeBlocked возвращается, когда интервал пересекает активную блокировку
	ErrRangeBlocked = errors.New("create_booking: time range is blocked")

	// ErrSlotNotAvailable возвращается, когда все посты на интервале заняты
	// (в том числе при проигрыше конкурентной гонки за слот)
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidTimeSlot возвращается, когда время начала не на границе часа
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrScheduleMisconfigured возвращается при пустом рабочем окне (close <= open).
	// Ошибка конфигурации расписания, а не занятости.
	ErrScheduleMisconfigured = errors.New("create_booking: schedule is misconfigured for this day")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
