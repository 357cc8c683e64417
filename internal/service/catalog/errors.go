package catalog

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("catalog.service: service not found")

	// ErrVehicleTypeNotFound возвращается, когда тип кузова не найден
	ErrVehicleTypeNotFound = errors.New("catalog.service: vehicle type not found")

	// ErrDuplicateName возвращается при нарушении уникальности имени
	ErrDuplicateName = errors.New("catalog.service: name already exists")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("catalog.service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("catalog.service: internal error")
)
