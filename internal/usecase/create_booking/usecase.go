package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	catalogService "github.com/m04kA/SMC-DetailingService/internal/service/catalog"
	"github.com/m04kA/SMC-DetailingService/internal/service/schedule"
	"github.com/m04kA/SMC-DetailingService/pkg/txmanager"
)

// UseCase use case для создания бронирования.
// Резервирует слот и назначает пост атомарно: финальная проверка вместимости
// и выбор поста выполняются в сериализуемой транзакции под блокировкой
// пересекающихся бронирований (FOR UPDATE).
type UseCase struct {
	bookingRepo  BookingRepository
	catalog      CatalogService
	schedule     ScheduleService
	txManager    TransactionManager
	timeProvider TimeProvider
	horizonDays  int
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalog CatalogService,
	scheduleService ScheduleService,
	txManager TransactionManager,
	horizonDays int,
	logger Logger,
) *UseCase {
	if horizonDays <= 0 {
		horizonDays = domain.DefaultHorizonDays
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalog:      catalog,
		schedule:     scheduleService,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		horizonDays:  horizonDays,
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию для предотвращения гонки данных
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, service=%d, vehicleType=%d, date=%s, time=%s",
		req.UserID, req.ServiceID, req.VehicleTypeID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogService.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 4. Получаем тип кузова
	vehicleType, err := uc.catalog.GetVehicleType(ctx, req.VehicleTypeID)
	if err != nil {
		if errors.Is(err, catalogService.ErrVehicleTypeNotFound) {
			uc.logger.Warn("CreateBooking: vehicle type id=%d not found", req.VehicleTypeID)
			return nil, ErrVehicleTypeNotFound
		}
		uc.logger.Error("CreateBooking: failed to get vehicle type id=%d: %v", req.VehicleTypeID, err)
		return nil, fmt.Errorf("%w: failed to get vehicle type: %v", ErrInternal, err)
	}
	if !vehicleType.IsActive {
		uc.logger.Warn("CreateBooking: vehicle type id=%d is inactive", req.VehicleTypeID)
		return nil, ErrVehicleTypeNotFound
	}

	// 5. Валидация даты: не в прошлом и внутри горизонта бронирования
	loc := uc.schedule.Location()
	if err := validateDate(req.Date.In(loc), now.In(loc), uc.horizonDays); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 6. Вычисляем интервал слота в часовом поясе сервиса
	localDate := req.Date.In(loc)
	startAt := time.Date(localDate.Year(), localDate.Month(), localDate.Day(),
		req.StartTime.Hour(), req.StartTime.Minute(), 0, 0, loc)
	endAt := startAt.Add(time.Duration(service.DurationMinutes) * time.Minute)

	if startAt.Before(now) {
		uc.logger.Warn("CreateBooking: slot start %s is in the past", startAt.Format(time.RFC3339))
		return nil, ErrSlotInPast
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 7. Финальная проверка и резервирование в сериализуемой транзакции.
	// Все чтения ниже идут через транзакционный executor из контекста,
	// пересекающиеся бронирования блокируются FOR UPDATE.
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Рабочее окно дня
		window, err := uc.schedule.WindowFor(txCtx, startAt)
		if err != nil {
			if errors.Is(err, schedule.ErrEmptyWindow) {
				uc.logger.Warn("CreateBooking: empty working window for %s", localDate.Format(domain.DateFormat))
				return ErrScheduleMisconfigured
			}
			uc.logger.Error("CreateBooking: failed to resolve window: %v", err)
			return fmt.Errorf("%w: failed to resolve window: %v", ErrInternal, err)
		}
		if !window.Contains(startAt, endAt) {
			uc.logger.Warn("CreateBooking: slot %s..%s outside window %s..%s",
				startAt.Format(time.RFC3339), endAt.Format(time.RFC3339),
				window.OpenAt.Format(time.RFC3339), window.CloseAt.Format(time.RFC3339))
			return ErrOutsideWorkingHours
		}

		// 7.2. Активные блокировки интервала
		blocked, err := uc.schedule.HasActiveBlocks(txCtx, startAt, endAt)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check blocks: %v", err)
			return fmt.Errorf("%w: failed to check blocks: %v", ErrInternal, err)
		}
		if blocked {
			uc.logger.Warn("CreateBooking: range %s..%s is blocked",
				startAt.Format(time.RFC3339), endAt.Format(time.RFC3339))
			return ErrRangeBlocked
		}

		// 7.3. Пересекающиеся подтвержденные бронирования с блокировкой строк
		overlaps, err := uc.schedule.OverlappingConfirmed(txCtx, startAt, endAt, nil)
		if err != nil {
			// Ошибка конкурентного доступа возвращается как есть:
			// после транзакции она превратится в "слот занят"
			if txmanager.IsConflict(err) {
				return err
			}
			uc.logger.Error("CreateBooking: failed to get overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to get overlapping bookings: %v", ErrInternal, err)
		}

		// 7.4. Проверяем вместимость пула постов
		maxPosts := uc.schedule.MaxPosts()
		if len(overlaps) >= maxPosts {
			uc.logger.Warn("CreateBooking: slot not available, %d/%d posts taken", len(overlaps), maxPosts)
			return ErrSlotNotAvailable
		}

		// 7.5. Назначаем наименьший свободный пост
		postNumber := schedule.LowestFreePost(overlaps, maxPosts)
		if postNumber == 0 {
			uc.logger.Warn("CreateBooking: no free post, %d/%d posts taken", len(overlaps), maxPosts)
			return ErrSlotNotAvailable
		}

		uc.logger.Info("CreateBooking: slot available, assigning post %d (%d/%d taken)",
			postNumber, len(overlaps), maxPosts)

		// 7.6. Создаем бронирование со снапшотом цены и названия услуги
		booking := &domain.Booking{
			UserID:        req.UserID,
			ServiceID:     req.ServiceID,
			VehicleTypeID: req.VehicleTypeID,
			PostNumber:    postNumber,
			StartAt:       startAt,
			EndAt:         endAt,
			FinalPrice:    domain.FinalPrice(service.BasePrice, vehicleType.PriceMultiplier),
			Status:        domain.StatusConfirmed,
			ServiceName:   service.Name,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if txmanager.IsConflict(err) {
				return err
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Проигрыш гонки за слот выглядит для клиента как занятый слот
		if txmanager.IsConflict(err) {
			uc.logger.Warn("CreateBooking: concurrent reservation conflict: %v", err)
			return nil, ErrSlotNotAvailable
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, post=%d, price=%s",
		result.ID, result.PostNumber, result.FinalPrice.StringFixed(2))

	return toResponse(result), nil
}
