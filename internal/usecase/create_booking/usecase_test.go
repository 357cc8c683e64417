package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/internal/service/schedule"
	"github.com/m04kA/SMC-DetailingService/pkg/txmanager"
)

// --- Mocks ---

type mockBookingRepo struct {
	createFn func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	return m.createFn(ctx, booking)
}

type mockCatalog struct {
	service     *domain.Service
	vehicleType *domain.VehicleType
}

func (m *mockCatalog) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	return m.service, nil
}

func (m *mockCatalog) GetVehicleType(ctx context.Context, id int64) (*domain.VehicleType, error) {
	return m.vehicleType, nil
}

type mockSchedule struct {
	windowFn   func(ctx context.Context, day time.Time) (*domain.DayWindow, error)
	blockedFn  func(ctx context.Context, start, end time.Time) (bool, error)
	overlapsFn func(ctx context.Context, start, end time.Time, excludeID *int64) ([]*domain.Booking, error)
	maxPosts   int
}

func (m *mockSchedule) WindowFor(ctx context.Context, day time.Time) (*domain.DayWindow, error) {
	if m.windowFn != nil {
		return m.windowFn(ctx, day)
	}
	// Дефолтное окно 09:00-23:00 дня day
	local := day.In(time.UTC)
	open := time.Date(local.Year(), local.Month(), local.Day(), 9, 0, 0, 0, time.UTC)
	return &domain.DayWindow{OpenAt: open, CloseAt: open.Add(14 * time.Hour)}, nil
}

func (m *mockSchedule) HasActiveBlocks(ctx context.Context, start, end time.Time) (bool, error) {
	if m.blockedFn != nil {
		return m.blockedFn(ctx, start, end)
	}
	return false, nil
}

func (m *mockSchedule) OverlappingConfirmed(ctx context.Context, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
	if m.overlapsFn != nil {
		return m.overlapsFn(ctx, start, end, excludeID)
	}
	return nil, nil
}

func (m *mockSchedule) MaxPosts() int            { return m.maxPosts }
func (m *mockSchedule) Location() *time.Location { return time.UTC }

type mockTxManager struct {
	err error
}

func (m *mockTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(ctx)
}

type stubTime struct {
	now time.Time
}

func (s *stubTime) Now() time.Time { return s.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// --- Fixtures ---

var testNow = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

func testService() *domain.Service {
	return &domain.Service{
		ID:              1,
		Name:            "Полировка кузова",
		DurationMinutes: 120,
		BasePrice:       decimal.NewFromInt(3500),
		IsActive:        true,
	}
}

func testVehicleType() *domain.VehicleType {
	return &domain.VehicleType{
		ID:              2,
		Name:            "Кроссовер",
		PriceMultiplier: decimal.RequireFromString("1.20"),
		IsActive:        true,
	}
}

func validRequest() *Request {
	return &Request{
		UserID:        100,
		ServiceID:     1,
		VehicleTypeID: 2,
		Date:          time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		StartTime:     "10:00",
	}
}

func newTestUseCase(repo *mockBookingRepo, sched *mockSchedule, tx *mockTxManager) *UseCase {
	uc := NewUseCase(repo, &mockCatalog{service: testService(), vehicleType: testVehicleType()}, sched, tx, 14, nopLogger{})
	uc.timeProvider = &stubTime{now: testNow}
	return uc
}

// --- Tests ---

func TestCreateBooking_Success(t *testing.T) {
	var created *domain.Booking
	repo := &mockBookingRepo{
		createFn: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
			booking.ID = 7
			created = booking
			return booking, nil
		},
	}
	uc := newTestUseCase(repo, &mockSchedule{maxPosts: 2}, &mockTxManager{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, 1, resp.PostNumber)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, "Полировка кузова", resp.ServiceName)

	// Интервал: 10:00 + 120 минут
	assert.Equal(t, time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC), resp.StartAt)
	assert.Equal(t, time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC), resp.EndAt)

	// Цена зафиксирована: 3500 * 1.20 = 4200.00
	assert.Equal(t, "4200.00", resp.FinalPrice.StringFixed(2))
}

func TestCreateBooking_AssignsLowestFreePost(t *testing.T) {
	occupied := &domain.Booking{ID: 3, PostNumber: 1, Status: domain.StatusConfirmed}
	repo := &mockBookingRepo{
		createFn: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
			booking.ID = 8
			return booking, nil
		},
	}
	sched := &mockSchedule{
		maxPosts: 2,
		overlapsFn: func(ctx context.Context, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
			assert.Nil(t, excludeID)
			return []*domain.Booking{occupied}, nil
		},
	}
	uc := newTestUseCase(repo, sched, &mockTxManager{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.PostNumber)
}

func TestCreateBooking_PoolFull(t *testing.T) {
	sched := &mockSchedule{
		maxPosts: 1,
		overlapsFn: func(ctx context.Context, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
			return []*domain.Booking{{ID: 3, PostNumber: 1}}, nil
		},
	}
	repo := &mockBookingRepo{
		createFn: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
			t.Fatal("Create must not be called when the pool is full")
			return nil, nil
		},
	}
	uc := newTestUseCase(repo, sched, &mockTxManager{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestCreateBooking_ConcurrentConflictLooksLikeTakenSlot(t *testing.T) {
	for _, txErr := range []error{txmanager.ErrLockNotAvailable, txmanager.ErrSerializationConflict} {
		uc := newTestUseCase(&mockBookingRepo{}, &mockSchedule{maxPosts: 2}, &mockTxManager{err: txErr})

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	}
}

func TestCreateBooking_LockTimeoutDuringOverlapScan(t *testing.T) {
	// Ошибка драйвера классифицируется репозиторием и доходит до клиента
	// как занятый слот, а не как internal error
	driverErr := txmanager.ClassifyPgError(&pq.Error{Code: "55P03"})
	sched := &mockSchedule{
		maxPosts: 2,
		overlapsFn: func(ctx context.Context, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
			return nil, driverErr
		},
	}
	repo := &mockBookingRepo{
		createFn: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
			t.Fatal("Create must not be called when the overlap scan fails")
			return nil, nil
		},
	}
	uc := newTestUseCase(repo, sched, &mockTxManager{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.NotErrorIs(t, err, ErrInternal)
}

func TestCreateBooking_SerializationFailureOnInsert(t *testing.T) {
	repo := &mockBookingRepo{
		createFn: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
			return nil, txmanager.ClassifyPgError(&pq.Error{Code: "40001"})
		},
	}
	uc := newTestUseCase(repo, &mockSchedule{maxPosts: 2}, &mockTxManager{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.NotErrorIs(t, err, ErrInternal)
}

func TestCreateBooking_InactiveService(t *testing.T) {
	service := testService()
	service.IsActive = false

	uc := NewUseCase(
		&mockBookingRepo{},
		&mockCatalog{service: service, vehicleType: testVehicleType()},
		&mockSchedule{maxPosts: 2},
		&mockTxManager{},
		14,
		nopLogger{},
	)
	uc.timeProvider = &stubTime{now: testNow}

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestCreateBooking_SlotNotOnHourBoundary(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, &mockSchedule{maxPosts: 2}, &mockTxManager{})

	req := validRequest()
	req.StartTime = "10:30"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestCreateBooking_DateValidation(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, &mockSchedule{maxPosts: 2}, &mockTxManager{})

	req := validRequest()
	req.Date = testNow.AddDate(0, 0, -1)
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)

	req = validRequest()
	req.Date = testNow.AddDate(0, 0, 15)
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestCreateBooking_SlotInPast(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, &mockSchedule{maxPosts: 2}, &mockTxManager{})

	// Сегодняшний день, но слот раньше текущего времени (now = 09:00,
	// валидация даты проходит, отсекается именно время)
	uc.timeProvider = &stubTime{now: time.Date(2026, 9, 5, 11, 0, 0, 0, time.UTC)}
	req := validRequest()

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotInPast)
}

func TestCreateBooking_BlockedRange(t *testing.T) {
	sched := &mockSchedule{
		maxPosts: 2,
		blockedFn: func(ctx context.Context, start, end time.Time) (bool, error) {
			return true, nil
		},
	}
	uc := newTestUseCase(&mockBookingRepo{}, sched, &mockTxManager{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrRangeBlocked)
}

func TestCreateBooking_OutsideWorkingHours(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, &mockSchedule{maxPosts: 2}, &mockTxManager{})

	// Окно 09:00-23:00, услуга 120 минут: старт 22:00 вылезает за закрытие
	req := validRequest()
	req.StartTime = "22:00"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestCreateBooking_MisconfiguredSchedule(t *testing.T) {
	sched := &mockSchedule{
		maxPosts: 2,
		windowFn: func(ctx context.Context, day time.Time) (*domain.DayWindow, error) {
			return nil, schedule.ErrEmptyWindow
		},
	}
	uc := newTestUseCase(&mockBookingRepo{}, sched, &mockTxManager{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrScheduleMisconfigured)
}

func TestCreateBooking_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, &mockSchedule{maxPosts: 2}, &mockTxManager{})

	req := validRequest()
	req.UserID = 0
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.StartTime = ""
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
