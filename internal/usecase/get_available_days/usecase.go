package get_available_days

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	catalogService "github.com/m04kA/SMC-DetailingService/internal/service/catalog"
)

// UseCase use case для подбора дней с хотя бы одним доступным слотом
type UseCase struct {
	catalog      CatalogService
	schedule     ScheduleService
	timeProvider TimeProvider
	horizonDays  int
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(catalog CatalogService, scheduleService ScheduleService, horizonDays int, logger Logger) *UseCase {
	if horizonDays <= 0 {
		horizonDays = domain.DefaultHorizonDays
	}
	return &UseCase{
		catalog:      catalog,
		schedule:     scheduleService,
		timeProvider: &RealTimeProvider{},
		horizonDays:  horizonDays,
		logger:       logger,
	}
}

// Execute выполняет use case подбора доступных дней начиная с сегодняшнего
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	// 2. Получаем услугу
	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogService.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableDays: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableDays: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("GetAvailableDays: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 3. Перебираем горизонт начиная с сегодняшней даты в часовом поясе сервиса
	horizon := uc.horizonDays
	if req.HorizonDays > 0 && req.HorizonDays < horizon {
		horizon = req.HorizonDays
	}

	loc := uc.schedule.Location()
	now := uc.timeProvider.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	days, err := uc.schedule.AvailableDays(ctx, today, service.DurationMinutes, horizon, req.ExcludeBookingID)
	if err != nil {
		uc.logger.Error("GetAvailableDays: failed to list days: %v", err)
		return nil, fmt.Errorf("%w: failed to list days: %v", ErrInternal, err)
	}

	return &Response{Days: days}, nil
}
