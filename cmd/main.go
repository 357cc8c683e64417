package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookingNotesHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/booking_notes"
	cancelBookingHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/create_booking"
	getAvailableDaysHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/get_available_days"
	getAvailableSlotsHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/get_booking"
	getCatalogHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/get_catalog"
	getDayBookingsHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/get_day_bookings"
	getUserBookingsHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/get_user_bookings"
	manageBlocksHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/manage_blocks"
	manageCatalogHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/manage_catalog"
	manageScheduleHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/manage_schedule"
	moveBookingHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/move_booking"
	updateBookingStatusHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-DetailingService/internal/api/middleware"
	"github.com/m04kA/SMC-DetailingService/internal/config"
	bookingRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/schedule"
	notifyGateClient "github.com/m04kA/SMC-DetailingService/internal/integrations/notifygate"
	bookingsService "github.com/m04kA/SMC-DetailingService/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-DetailingService/internal/service/catalog"
	scheduleService "github.com/m04kA/SMC-DetailingService/internal/service/schedule"
	createBookingUC "github.com/m04kA/SMC-DetailingService/internal/usecase/create_booking"
	getAvailableDaysUC "github.com/m04kA/SMC-DetailingService/internal/usecase/get_available_days"
	getAvailableSlotsUC "github.com/m04kA/SMC-DetailingService/internal/usecase/get_available_slots"
	moveBookingUC "github.com/m04kA/SMC-DetailingService/internal/usecase/move_booking"
	remindersWorker "github.com/m04kA/SMC-DetailingService/internal/worker/reminders"
	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingService/pkg/logger"
	"github.com/m04kA/SMC-DetailingService/pkg/metrics"
	"github.com/m04kA/SMC-DetailingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-DetailingService...")
	log.Info("Configuration loaded from config.toml")

	// Часовой пояс сервиса: все окна расписания и слоты считаются в нем
	loc, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load timezone: %v", err)
	}
	log.Info("Booking engine: timezone=%s, posts=%d, horizon=%d days",
		loc, cfg.Booking.MaxPosts, cfg.Booking.HorizonDays)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Оборачиваем подключение: при выключенных метриках collector == nil,
	// обертка прозрачна и горутина сбора статистики пула не запускается
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	if cfg.Metrics.Enabled {
		log.Info("Database metrics collection started")
	}

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)

	txMgr := txmanager.NewTransactionManager(wrappedDB, cfg.Database.LockTimeout)

	// Сидируем дефолтное недельное расписание (no-op, если правила уже есть)
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := scheduleRepository.SeedDefaults(seedCtx); err != nil {
		seedCancel()
		log.Fatal("Failed to seed default schedule: %v", err)
	}
	seedCancel()

	// Инициализируем сервисы
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		bookingRepository,
		loc,
		cfg.Booking.MaxPosts,
		log,
	)
	bookingSvc := bookingsService.NewService(bookingRepository, loc, log)
	catalogSvc := catalogService.NewService(catalogRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		catalogSvc,
		scheduleSvc,
		txMgr,
		cfg.Booking.HorizonDays,
		log,
	)
	moveBookingUseCase := moveBookingUC.NewUseCase(
		bookingRepository,
		scheduleSvc,
		txMgr,
		cfg.Booking.HorizonDays,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(catalogSvc, scheduleSvc, log)
	getAvailableDaysUseCase := getAvailableDaysUC.NewUseCase(catalogSvc, scheduleSvc, cfg.Booking.HorizonDays, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	moveBooking := moveBookingHandler.NewHandler(moveBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAvailableDays := getAvailableDaysHandler.NewHandler(getAvailableDaysUseCase, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	bookingNotes := bookingNotesHandler.NewHandler(bookingSvc, log)
	getDayBookings := getDayBookingsHandler.NewHandler(bookingSvc, log)
	manageBlocks := manageBlocksHandler.NewHandler(scheduleSvc, log)
	manageSchedule := manageScheduleHandler.NewHandler(scheduleSvc, log)
	getCatalog := getCatalogHandler.NewHandler(catalogSvc, log)
	manageCatalog := manageCatalogHandler.NewHandler(catalogSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог услуг и типов кузова
	api.HandleFunc("/services", getCatalog.HandleServices).Methods(http.MethodGet)
	api.HandleFunc("/vehicle-types", getCatalog.HandleVehicleTypes).Methods(http.MethodGet)

	// Доступные дни и слоты
	api.HandleFunc("/available-days", getAvailableDays.Handle).Methods(http.MethodGet)
	api.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Перенос бронирования на другой слот
	protected.HandleFunc("/bookings/{bookingId}/move", moveBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Администрирование (для администраторов детейлинг-центра) ---
	// Завершение / неявка
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// Заметки к бронированию
	protected.HandleFunc("/bookings/{bookingId}/notes", bookingNotes.HandleAdd).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/notes", bookingNotes.HandleList).Methods(http.MethodGet)

	// Бронирования за день и сводная статистика
	protected.HandleFunc("/admin/bookings", getDayBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/admin/stats", getDayBookings.HandleStats).Methods(http.MethodGet)

	// Блокировки интервалов
	protected.HandleFunc("/admin/blocks", manageBlocks.HandleCreate).Methods(http.MethodPost)
	protected.HandleFunc("/admin/blocks", manageBlocks.HandleList).Methods(http.MethodGet)
	protected.HandleFunc("/admin/blocks/{blockId}", manageBlocks.HandleDelete).Methods(http.MethodDelete)

	// Недельное расписание
	protected.HandleFunc("/admin/schedule", manageSchedule.HandleList).Methods(http.MethodGet)
	protected.HandleFunc("/admin/schedule", manageSchedule.HandleSetRule).Methods(http.MethodPost)

	// Управление каталогом
	protected.HandleFunc("/admin/services", manageCatalog.HandleListServices).Methods(http.MethodGet)
	protected.HandleFunc("/admin/services", manageCatalog.HandleCreateService).Methods(http.MethodPost)
	protected.HandleFunc("/admin/services/{serviceId}", manageCatalog.HandleUpdateService).Methods(http.MethodPut)
	protected.HandleFunc("/admin/services/{serviceId}/active", manageCatalog.HandleSetServiceActive).Methods(http.MethodPatch)
	protected.HandleFunc("/admin/vehicle-types", manageCatalog.HandleListVehicleTypes).Methods(http.MethodGet)
	protected.HandleFunc("/admin/vehicle-types", manageCatalog.HandleCreateVehicleType).Methods(http.MethodPost)
	protected.HandleFunc("/admin/vehicle-types/{vehicleTypeId}", manageCatalog.HandleUpdateVehicleType).Methods(http.MethodPut)

	// Воркер напоминаний
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	if cfg.Reminders.Enabled {
		notifier := notifyGateClient.NewClient(
			cfg.NotifyGate.URL,
			time.Duration(cfg.NotifyGate.Timeout)*time.Second,
			log,
		)
		log.Info("NotifyGate client initialized (url=%s, timeout=%ds)",
			cfg.NotifyGate.URL, cfg.NotifyGate.Timeout)

		var workerMetrics remindersWorker.MetricsCollector
		if metricsCollector != nil {
			workerMetrics = metricsCollector
		}

		reminderWorker := remindersWorker.NewWorker(
			bookingRepository,
			notifier,
			loc,
			time.Duration(cfg.Reminders.IntervalMinutes)*time.Minute,
			time.Duration(cfg.Reminders.ToleranceMinutes)*time.Minute,
			workerMetrics,
			log,
		)
		go reminderWorker.Run(workerCtx)
	} else {
		log.Info("Reminders worker disabled")
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем воркер и сбор метрик connection pool
	workerCancel()
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
