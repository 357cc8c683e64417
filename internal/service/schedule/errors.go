package schedule

import "errors"

var (
	// ErrEmptyWindow возвращается, когда правило расписания дает пустое окно
	// (close <= open). Такое правило считается ошибкой конфигурации и не
	// исправляется молча.
	ErrEmptyWindow = errors.New("schedule.service: schedule rule produces an empty window")

	// ErrBlockNotFound возвращается, когда блокировка не найдена
	ErrBlockNotFound = errors.New("schedule.service: blocked range not found")

	// ErrInvalidRange возвращается при некорректном интервале блокировки
	ErrInvalidRange = errors.New("schedule.service: invalid time range")

	// ErrInvalidRule возвращается при некорректном правиле недельного расписания
	ErrInvalidRule = errors.New("schedule.service: invalid weekly schedule rule")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule.service: internal error")
)
