package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	catalogService "github.com/m04kA/SMC-DetailingService/internal/service/catalog"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// UseCase use case для получения доступных слотов на дату.
// Чистое чтение: результат advisory, к моменту создания бронирования слот
// может быть занят конкурентом.
type UseCase struct {
	catalog  CatalogService
	schedule ScheduleService
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(catalog CatalogService, scheduleService ScheduleService, logger Logger) *UseCase {
	return &UseCase{
		catalog:  catalog,
		schedule: scheduleService,
		logger:   logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// 2. Получаем услугу: длительность определяет размер слота
	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogService.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 3. Перечисляем доступные времена начала
	slots, err := uc.schedule.AvailableSlots(ctx, req.Date, service.DurationMinutes, req.ExcludeBookingID, 0)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots for %s: %v",
			req.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	// 4. Конвертируем в локальные HH:MM
	loc := uc.schedule.Location()
	result := make([]types.TimeString, 0, len(slots))
	for _, slot := range slots {
		result = append(result, types.NewTimeString(slot.In(loc)))
	}

	return &Response{Date: req.Date, Slots: result}, nil
}
