package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/catalog"
)

// Service каталог услуг и типов кузова.
// Клиентские операции видят только активные позиции; деактивация скрывает
// позицию из выбора, не трогая существующие бронирования (цена и имя услуги
// зафиксированы в бронировании снапшотом).
type Service struct {
	catalogRepo CatalogRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(catalogRepo CatalogRepository, logger Logger) *Service {
	return &Service{
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// ListActiveServices получает активные услуги для выбора клиентом
func (s *Service) ListActiveServices(ctx context.Context) ([]*domain.Service, error) {
	services, err := s.catalogRepo.ListServices(ctx, true)
	if err != nil {
		s.logger.Error("ListActiveServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListActiveServices - repository error: %v", ErrInternal, err)
	}
	return services, nil
}

// ListServices получает все услуги, включая неактивные (для администратора)
func (s *Service) ListServices(ctx context.Context) ([]*domain.Service, error) {
	services, err := s.catalogRepo.ListServices(ctx, false)
	if err != nil {
		s.logger.Error("ListServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %v", ErrInternal, err)
	}
	return services, nil
}

// GetService получает услугу по ID
func (s *Service) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	service, err := s.catalogRepo.GetService(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetService: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetService - repository error: %v", ErrInternal, err)
	}
	return service, nil
}

// CreateService создает услугу
func (s *Service) CreateService(ctx context.Context, name, description string, durationMinutes int, basePrice decimal.Decimal) (*domain.Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: service name is required", ErrInvalidInput)
	}
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	if basePrice.IsNegative() {
		return nil, fmt.Errorf("%w: base price must not be negative", ErrInvalidInput)
	}

	created, err := s.catalogRepo.CreateService(ctx, &domain.Service{
		Name:            name,
		Description:     strings.TrimSpace(description),
		DurationMinutes: durationMinutes,
		BasePrice:       basePrice,
		IsActive:        true,
	})
	if err != nil {
		s.logger.Error("CreateService: repository error for name=%q: %v", name, err)
		return nil, fmt.Errorf("%w: CreateService - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateService: service id=%d created, name=%q", created.ID, created.Name)
	return created, nil
}

// UpdateService обновляет услугу целиком
func (s *Service) UpdateService(ctx context.Context, service *domain.Service) error {
	service.Name = strings.TrimSpace(service.Name)
	if service.Name == "" {
		return fmt.Errorf("%w: service name is required", ErrInvalidInput)
	}
	if service.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	if service.BasePrice.IsNegative() {
		return fmt.Errorf("%w: base price must not be negative", ErrInvalidInput)
	}

	err := s.catalogRepo.UpdateService(ctx, service)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return ErrServiceNotFound
		}
		s.logger.Error("UpdateService: repository error for id=%d: %v", service.ID, err)
		return fmt.Errorf("%w: UpdateService - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateService: service id=%d updated", service.ID)
	return nil
}

// SetServiceActive включает или скрывает услугу из клиентского выбора
func (s *Service) SetServiceActive(ctx context.Context, id int64, active bool) error {
	service, err := s.GetService(ctx, id)
	if err != nil {
		return err
	}

	service.IsActive = active
	if err := s.catalogRepo.UpdateService(ctx, service); err != nil {
		s.logger.Error("SetServiceActive: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: SetServiceActive - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetServiceActive: service id=%d active=%v", id, active)
	return nil
}

// ListActiveVehicleTypes получает активные типы кузова для выбора клиентом
func (s *Service) ListActiveVehicleTypes(ctx context.Context) ([]*domain.VehicleType, error) {
	vehicleTypes, err := s.catalogRepo.ListVehicleTypes(ctx, true)
	if err != nil {
		s.logger.Error("ListActiveVehicleTypes: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListActiveVehicleTypes - repository error: %v", ErrInternal, err)
	}
	return vehicleTypes, nil
}

// ListVehicleTypes получает все типы кузова, включая неактивные
func (s *Service) ListVehicleTypes(ctx context.Context) ([]*domain.VehicleType, error) {
	vehicleTypes, err := s.catalogRepo.ListVehicleTypes(ctx, false)
	if err != nil {
		s.logger.Error("ListVehicleTypes: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListVehicleTypes - repository error: %v", ErrInternal, err)
	}
	return vehicleTypes, nil
}

// GetVehicleType получает тип кузова по ID
func (s *Service) GetVehicleType(ctx context.Context, id int64) (*domain.VehicleType, error) {
	vt, err := s.catalogRepo.GetVehicleType(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrVehicleTypeNotFound) {
			return nil, ErrVehicleTypeNotFound
		}
		s.logger.Error("GetVehicleType: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetVehicleType - repository error: %v", ErrInternal, err)
	}
	return vt, nil
}

// CreateVehicleType создает тип кузова с множителем цены
func (s *Service) CreateVehicleType(ctx context.Context, name string, priceMultiplier decimal.Decimal) (*domain.VehicleType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: vehicle type name is required", ErrInvalidInput)
	}
	if !priceMultiplier.IsPositive() {
		return nil, fmt.Errorf("%w: price multiplier must be positive", ErrInvalidInput)
	}

	created, err := s.catalogRepo.CreateVehicleType(ctx, &domain.VehicleType{
		Name:            name,
		PriceMultiplier: priceMultiplier,
		IsActive:        true,
	})
	if err != nil {
		if errors.Is(err, catalogRepo.ErrDuplicateName) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
		s.logger.Error("CreateVehicleType: repository error for name=%q: %v", name, err)
		return nil, fmt.Errorf("%w: CreateVehicleType - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateVehicleType: vehicle type id=%d created, name=%q", created.ID, created.Name)
	return created, nil
}

// UpdateVehicleType обновляет тип кузова целиком
func (s *Service) UpdateVehicleType(ctx context.Context, vt *domain.VehicleType) error {
	vt.Name = strings.TrimSpace(vt.Name)
	if vt.Name == "" {
		return fmt.Errorf("%w: vehicle type name is required", ErrInvalidInput)
	}
	if !vt.PriceMultiplier.IsPositive() {
		return fmt.Errorf("%w: price multiplier must be positive", ErrInvalidInput)
	}

	err := s.catalogRepo.UpdateVehicleType(ctx, vt)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrVehicleTypeNotFound) {
			return ErrVehicleTypeNotFound
		}
		if errors.Is(err, catalogRepo.ErrDuplicateName) {
			return fmt.Errorf("%w: %s", ErrDuplicateName, vt.Name)
		}
		s.logger.Error("UpdateVehicleType: repository error for id=%d: %v", vt.ID, err)
		return fmt.Errorf("%w: UpdateVehicleType - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateVehicleType: vehicle type id=%d updated", vt.ID)
	return nil
}
