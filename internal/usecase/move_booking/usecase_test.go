package move_booking

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-DetailingService/pkg/txmanager"
)

// --- Mocks ---

type rescheduleCall struct {
	id         int64
	start, end time.Time
	postNumber int
}

type mockBookingRepo struct {
	bookings     map[int64]*domain.Booking
	rescheduled  *rescheduleCall
	rescheduleFn func(ctx context.Context, id int64, start, end time.Time, postNumber int) error
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, ok := m.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}

func (m *mockBookingRepo) Reschedule(ctx context.Context, id int64, start, end time.Time, postNumber int) error {
	if m.rescheduleFn != nil {
		return m.rescheduleFn(ctx, id, start, end, postNumber)
	}
	m.rescheduled = &rescheduleCall{id: id, start: start, end: end, postNumber: postNumber}
	if booking, ok := m.bookings[id]; ok {
		booking.StartAt = start
		booking.EndAt = end
		booking.PostNumber = postNumber
		booking.Reminder24hSent = false
		booking.Reminder2hSent = false
	}
	return nil
}

type mockSchedule struct {
	overlapsFn func(ctx context.Context, start, end time.Time, excludeID *int64) ([]*domain.Booking, error)
	maxPosts   int
}

func (m *mockSchedule) WindowFor(ctx context.Context, day time.Time) (*domain.DayWindow, error) {
	local := day.In(time.UTC)
	open := time.Date(local.Year(), local.Month(), local.Day(), 9, 0, 0, 0, time.UTC)
	return &domain.DayWindow{OpenAt: open, CloseAt: open.Add(14 * time.Hour)}, nil
}

func (m *mockSchedule) HasActiveBlocks(ctx context.Context, start, end time.Time) (bool, error) {
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

func confirmedBooking() *domain.Booking {
	start := time.Date(2026, 9, 3, 10, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:              5,
		UserID:          100,
		ServiceID:       1,
		VehicleTypeID:   2,
		PostNumber:      1,
		StartAt:         start,
		EndAt:           start.Add(2 * time.Hour),
		FinalPrice:      decimal.RequireFromString("4200.00"),
		Status:          domain.StatusConfirmed,
		ServiceName:     "Полировка кузова",
		Reminder24hSent: true,
		Reminder2hSent:  true,
	}
}

func validRequest() *Request {
	return &Request{
		BookingID: 5,
		UserID:    100,
		Date:      time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC),
		StartTime: "15:00",
	}
}

func newTestUseCase(repo *mockBookingRepo, sched *mockSchedule, tx *mockTxManager) *UseCase {
	uc := NewUseCase(repo, sched, tx, 14, nopLogger{})
	uc.timeProvider = &stubTime{now: testNow}
	return uc
}

// --- Tests ---

func TestMoveBooking_Success(t *testing.T) {
	repo := &mockBookingRepo{bookings: map[int64]*domain.Booking{5: confirmedBooking()}}
	sched := &mockSchedule{
		maxPosts: 2,
		overlapsFn: func(ctx context.Context, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
			// Собственное бронирование исключается из подсчета занятости
			require.NotNil(t, excludeID)
			assert.Equal(t, int64(5), *excludeID)
			return nil, nil
		},
	}
	uc := newTestUseCase(repo, sched, &mockTxManager{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, repo.rescheduled)

	// Длительность сохраняется: 2 часа от нового старта
	assert.Equal(t, time.Date(2026, 9, 6, 15, 0, 0, 0, time.UTC), repo.rescheduled.start)
	assert.Equal(t, time.Date(2026, 9, 6, 17, 0, 0, 0, time.UTC), repo.rescheduled.end)

	// Цена не пересчитывается, флаги напоминаний сброшены
	assert.Equal(t, "4200.00", resp.FinalPrice.StringFixed(2))
	assert.False(t, repo.bookings[5].Reminder24hSent)
	assert.False(t, repo.bookings[5].Reminder2hSent)
}

func TestMoveBooking_ReassignsPost(t *testing.T) {
	repo := &mockBookingRepo{bookings: map[int64]*domain.Booking{5: confirmedBooking()}}
	sched := &mockSchedule{
		maxPosts: 2,
		overlapsFn: func(ctx context.Context, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
			return []*domain.Booking{{ID: 9, PostNumber: 1, Status: domain.StatusConfirmed}}, nil
		},
	}
	uc := newTestUseCase(repo, sched, &mockTxManager{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.PostNumber)
}

func TestMoveBooking_NotOwner(t *testing.T) {
	repo := &mockBookingRepo{bookings: map[int64]*domain.Booking{5: confirmedBooking()}}
	uc := newTestUseCase(repo, &mockSchedule{maxPosts: 2}, &mockTxManager{})

	req := validRequest()
	req.UserID = 200

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestMoveBooking_AdminBypassesOwnership(t *testing.T) {
	repo := &mockBookingRepo{bookings: map[int64]*domain.Booking{5: confirmedBooking()}}
	uc := newTestUseCase(repo, &mockSchedule{maxPosts: 2}, &mockTxManager{})

	req := validRequest()
	req.UserID = 0 // администратор

	_, err := uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestMoveBooking_TerminalStatus(t *testing.T) {
	cancelled := confirmedBooking()
	cancelled.Status = domain.StatusCancelled

	repo := &mockBookingRepo{bookings: map[int64]*domain.Booking{5: cancelled}}
	uc := newTestUseCase(repo, &mockSchedule{maxPosts: 2}, &mockTxManager{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestMoveBooking_NotFound(t *testing.T) {
	repo := &mockBookingRepo{bookings: map[int64]*domain.Booking{}}
	uc := newTestUseCase(repo, &mockSchedule{maxPosts: 2}, &mockTxManager{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestMoveBooking_TargetSlotTaken(t *testing.T) {
	repo := &mockBookingRepo{bookings: map[int64]*domain.Booking{5: confirmedBooking()}}
	sched := &mockSchedule{
		maxPosts: 1,
		overlapsFn: func(ctx context.Context, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
			return []*domain.Booking{{ID: 9, PostNumber: 1, Status: domain.StatusConfirmed}}, nil
		},
	}
	uc := newTestUseCase(repo, sched, &mockTxManager{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Nil(t, repo.rescheduled)
}

func TestMoveBooking_ConcurrentConflict(t *testing.T) {
	repo := &mockBookingRepo{bookings: map[int64]*domain.Booking{5: confirmedBooking()}}
	uc := newTestUseCase(repo, &mockSchedule{maxPosts: 2}, &mockTxManager{err: txmanager.ErrSerializationConflict})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestMoveBooking_LockTimeoutDuringOverlapScan(t *testing.T) {
	// Ошибка драйвера классифицируется репозиторием и доходит до клиента
	// как занятый слот, а не как internal error
	repo := &mockBookingRepo{bookings: map[int64]*domain.Booking{5: confirmedBooking()}}
	sched := &mockSchedule{
		maxPosts: 2,
		overlapsFn: func(ctx context.Context, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
			return nil, txmanager.ClassifyPgError(&pq.Error{Code: "55P03"})
		},
	}
	uc := newTestUseCase(repo, sched, &mockTxManager{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.NotErrorIs(t, err, ErrInternal)
	assert.Nil(t, repo.rescheduled)
}

func TestMoveBooking_CancelledConcurrently(t *testing.T) {
	// Бронирование стало терминальным между проверкой статуса и переносом:
	// статусный предикат репозитория не находит строку
	repo := &mockBookingRepo{
		bookings: map[int64]*domain.Booking{5: confirmedBooking()},
		rescheduleFn: func(ctx context.Context, id int64, start, end time.Time, postNumber int) error {
			return bookingRepo.ErrStatusConflict
		},
	}
	uc := newTestUseCase(repo, &mockSchedule{maxPosts: 2}, &mockTxManager{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestMoveBooking_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, &mockSchedule{maxPosts: 2}, &mockTxManager{})

	req := validRequest()
	req.BookingID = 0
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.StartTime = "15:30"
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}
