package get_catalog

import (
	"context"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

type CatalogService interface {
	ListActiveServices(ctx context.Context) ([]*domain.Service, error)
	ListActiveVehicleTypes(ctx context.Context) ([]*domain.VehicleType, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
