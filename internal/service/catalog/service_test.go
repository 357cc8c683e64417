package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/catalog"
)

// --- Mock CatalogRepository ---

type mockRepo struct {
	listServicesFn      func(ctx context.Context, activeOnly bool) ([]*domain.Service, error)
	getServiceFn        func(ctx context.Context, id int64) (*domain.Service, error)
	createServiceFn     func(ctx context.Context, service *domain.Service) (*domain.Service, error)
	updateServiceFn     func(ctx context.Context, service *domain.Service) error
	listVehicleTypesFn  func(ctx context.Context, activeOnly bool) ([]*domain.VehicleType, error)
	getVehicleTypeFn    func(ctx context.Context, id int64) (*domain.VehicleType, error)
	createVehicleTypeFn func(ctx context.Context, vt *domain.VehicleType) (*domain.VehicleType, error)
	updateVehicleTypeFn func(ctx context.Context, vt *domain.VehicleType) error
}

func (m *mockRepo) ListServices(ctx context.Context, activeOnly bool) ([]*domain.Service, error) {
	return m.listServicesFn(ctx, activeOnly)
}

func (m *mockRepo) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	return m.getServiceFn(ctx, id)
}

func (m *mockRepo) CreateService(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	return m.createServiceFn(ctx, service)
}

func (m *mockRepo) UpdateService(ctx context.Context, service *domain.Service) error {
	return m.updateServiceFn(ctx, service)
}

func (m *mockRepo) ListVehicleTypes(ctx context.Context, activeOnly bool) ([]*domain.VehicleType, error) {
	return m.listVehicleTypesFn(ctx, activeOnly)
}

func (m *mockRepo) GetVehicleType(ctx context.Context, id int64) (*domain.VehicleType, error) {
	return m.getVehicleTypeFn(ctx, id)
}

func (m *mockRepo) CreateVehicleType(ctx context.Context, vt *domain.VehicleType) (*domain.VehicleType, error) {
	return m.createVehicleTypeFn(ctx, vt)
}

func (m *mockRepo) UpdateVehicleType(ctx context.Context, vt *domain.VehicleType) error {
	return m.updateVehicleTypeFn(ctx, vt)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// --- Tests ---

func TestListActiveServices_PassesActiveFlag(t *testing.T) {
	repo := &mockRepo{
		listServicesFn: func(ctx context.Context, activeOnly bool) ([]*domain.Service, error) {
			assert.True(t, activeOnly)
			return []*domain.Service{{ID: 1, Name: "Комплексная мойка"}}, nil
		},
	}
	svc := NewService(repo, nopLogger{})

	services, err := svc.ListActiveServices(context.Background())
	require.NoError(t, err)
	assert.Len(t, services, 1)
}

func TestCreateService_Success(t *testing.T) {
	repo := &mockRepo{
		createServiceFn: func(ctx context.Context, service *domain.Service) (*domain.Service, error) {
			service.ID = 10
			assert.True(t, service.IsActive)
			return service, nil
		},
	}
	svc := NewService(repo, nopLogger{})

	created, err := svc.CreateService(context.Background(), "  Полировка кузова  ", "описание", 300, decimal.NewFromInt(15000))
	require.NoError(t, err)

	assert.Equal(t, int64(10), created.ID)
	assert.Equal(t, "Полировка кузова", created.Name)
}

func TestCreateService_Validation(t *testing.T) {
	svc := NewService(&mockRepo{}, nopLogger{})

	_, err := svc.CreateService(context.Background(), "   ", "", 60, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateService(context.Background(), "Мойка", "", 0, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateService(context.Background(), "Мойка", "", 60, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetService_NotFound(t *testing.T) {
	repo := &mockRepo{
		getServiceFn: func(ctx context.Context, id int64) (*domain.Service, error) {
			return nil, catalogRepo.ErrServiceNotFound
		},
	}
	svc := NewService(repo, nopLogger{})

	_, err := svc.GetService(context.Background(), 99)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestSetServiceActive_TogglesFlag(t *testing.T) {
	service := &domain.Service{ID: 1, Name: "Мойка", DurationMinutes: 60, BasePrice: decimal.NewFromInt(1500), IsActive: true}
	var updated *domain.Service
	repo := &mockRepo{
		getServiceFn: func(ctx context.Context, id int64) (*domain.Service, error) {
			copied := *service
			return &copied, nil
		},
		updateServiceFn: func(ctx context.Context, s *domain.Service) error {
			updated = s
			return nil
		},
	}
	svc := NewService(repo, nopLogger{})

	err := svc.SetServiceActive(context.Background(), 1, false)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.False(t, updated.IsActive)
}

func TestCreateVehicleType_Success(t *testing.T) {
	repo := &mockRepo{
		createVehicleTypeFn: func(ctx context.Context, vt *domain.VehicleType) (*domain.VehicleType, error) {
			vt.ID = 3
			return vt, nil
		},
	}
	svc := NewService(repo, nopLogger{})

	created, err := svc.CreateVehicleType(context.Background(), "Внедорожник", decimal.RequireFromString("1.40"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.True(t, created.IsActive)
}

func TestCreateVehicleType_DuplicateName(t *testing.T) {
	repo := &mockRepo{
		createVehicleTypeFn: func(ctx context.Context, vt *domain.VehicleType) (*domain.VehicleType, error) {
			return nil, catalogRepo.ErrDuplicateName
		},
	}
	svc := NewService(repo, nopLogger{})

	_, err := svc.CreateVehicleType(context.Background(), "Седан", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestCreateVehicleType_MultiplierMustBePositive(t *testing.T) {
	svc := NewService(&mockRepo{}, nopLogger{})

	_, err := svc.CreateVehicleType(context.Background(), "Седан", decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateVehicleType_NotFound(t *testing.T) {
	repo := &mockRepo{
		updateVehicleTypeFn: func(ctx context.Context, vt *domain.VehicleType) error {
			return catalogRepo.ErrVehicleTypeNotFound
		},
	}
	svc := NewService(repo, nopLogger{})

	err := svc.UpdateVehicleType(context.Background(), &domain.VehicleType{ID: 9, Name: "Минивэн", PriceMultiplier: decimal.NewFromInt(2)})
	assert.ErrorIs(t, err, ErrVehicleTypeNotFound)
}
