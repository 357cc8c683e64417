package manage_catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

type CatalogService interface {
	ListServices(ctx context.Context) ([]*domain.Service, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	CreateService(ctx context.Context, name, description string, durationMinutes int, basePrice decimal.Decimal) (*domain.Service, error)
	UpdateService(ctx context.Context, service *domain.Service) error
	SetServiceActive(ctx context.Context, id int64, active bool) error
	ListVehicleTypes(ctx context.Context) ([]*domain.VehicleType, error)
	GetVehicleType(ctx context.Context, id int64) (*domain.VehicleType, error)
	CreateVehicleType(ctx context.Context, name string, priceMultiplier decimal.Decimal) (*domain.VehicleType, error)
	UpdateVehicleType(ctx context.Context, vt *domain.VehicleType) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
