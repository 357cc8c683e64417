package catalog

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("catalog.repository: service not found")

	// ErrVehicleTypeNotFound возвращается, когда тип кузова не найден
	ErrVehicleTypeNotFound = errors.New("catalog.repository: vehicle type not found")

	// ErrDuplicateName возвращается при нарушении уникальности имени типа кузова
	ErrDuplicateName = errors.New("catalog.repository: duplicate name")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
