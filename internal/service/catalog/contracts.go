package catalog

import (
	"context"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	ListServices(ctx context.Context, activeOnly bool) ([]*domain.Service, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	CreateService(ctx context.Context, service *domain.Service) (*domain.Service, error)
	UpdateService(ctx context.Context, service *domain.Service) error
	ListVehicleTypes(ctx context.Context, activeOnly bool) ([]*domain.VehicleType, error)
	GetVehicleType(ctx context.Context, id int64) (*domain.VehicleType, error)
	CreateVehicleType(ctx context.Context, vt *domain.VehicleType) (*domain.VehicleType, error)
	UpdateVehicleType(ctx context.Context, vt *domain.VehicleType) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
