package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingService/pkg/psqlbuilder"
)

const pgCodeUniqueViolation = "23505"

// Repository репозиторий каталога услуг и типов кузова
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListServices получает услуги. При activeOnly возвращает только активные,
// отсортированные по имени; полный список сортируется по дате создания.
func (r *Repository) ListServices(ctx context.Context, activeOnly bool) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"name",
		"description",
		"duration_minutes",
		"base_price",
		"is_active",
		"created_at",
		"updated_at",
	).From("services")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true}).OrderBy("name ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("created_at DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		var service domain.Service
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&service.ID,
			&service.Name,
			&service.Description,
			&service.DurationMinutes,
			&service.BasePrice,
			&service.IsActive,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListServices - scan row: %v", ErrScanRow, err)
		}

		service.CreatedAt = createdAt.Time
		service.UpdatedAt = updatedAt.Time
		services = append(services, &service)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListServices - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"description",
		"duration_minutes",
		"base_price",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.Name,
		&service.Description,
		&service.DurationMinutes,
		&service.BasePrice,
		&service.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time

	return &service, nil
}

// CreateService создает услугу
func (r *Repository) CreateService(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("services").
		Columns("name", "description", "duration_minutes", "base_price", "is_active").
		Values(service.Name, service.Description, service.DurationMinutes, service.BasePrice, service.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateService - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&service.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateService - execute insert: %v", ErrExecQuery, err)
	}

	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time

	return service, nil
}

// UpdateService обновляет услугу целиком
func (r *Repository) UpdateService(ctx context.Context, service *domain.Service) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("services").
		Set("name", service.Name).
		Set("description", service.Description).
		Set("duration_minutes", service.DurationMinutes).
		Set("base_price", service.BasePrice).
		Set("is_active", service.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": service.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateService - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateService - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateService - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrServiceNotFound
	}

	return nil
}

// ListVehicleTypes получает типы кузова, по имени
func (r *Repository) ListVehicleTypes(ctx context.Context, activeOnly bool) ([]*domain.VehicleType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"name",
		"price_multiplier",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("vehicle_types").
		OrderBy("name ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListVehicleTypes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListVehicleTypes - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	vehicleTypes := make([]*domain.VehicleType, 0)
	for rows.Next() {
		var vt domain.VehicleType
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&vt.ID,
			&vt.Name,
			&vt.PriceMultiplier,
			&vt.IsActive,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListVehicleTypes - scan row: %v", ErrScanRow, err)
		}

		vt.CreatedAt = createdAt.Time
		vt.UpdatedAt = updatedAt.Time
		vehicleTypes = append(vehicleTypes, &vt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListVehicleTypes - rows error: %v", ErrScanRow, err)
	}

	return vehicleTypes, nil
}

// GetVehicleType получает тип кузова по ID
func (r *Repository) GetVehicleType(ctx context.Context, id int64) (*domain.VehicleType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"price_multiplier",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("vehicle_types").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetVehicleType - build select query: %v", ErrBuildQuery, err)
	}

	var vt domain.VehicleType
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&vt.ID,
		&vt.Name,
		&vt.PriceMultiplier,
		&vt.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrVehicleTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetVehicleType - scan vehicle type: %v", ErrScanRow, err)
	}

	vt.CreatedAt = createdAt.Time
	vt.UpdatedAt = updatedAt.Time

	return &vt, nil
}

// CreateVehicleType создает тип кузова. Имя уникально.
func (r *Repository) CreateVehicleType(ctx context.Context, vt *domain.VehicleType) (*domain.VehicleType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("vehicle_types").
		Columns("name", "price_multiplier", "is_active").
		Values(vt.Name, vt.PriceMultiplier, vt.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateVehicleType - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&vt.ID, &createdAt, &updatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == pgCodeUniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, vt.Name)
		}
		return nil, fmt.Errorf("%w: CreateVehicleType - execute insert: %v", ErrExecQuery, err)
	}

	vt.CreatedAt = createdAt.Time
	vt.UpdatedAt = updatedAt.Time

	return vt, nil
}

// UpdateVehicleType обновляет тип кузова целиком
func (r *Repository) UpdateVehicleType(ctx context.Context, vt *domain.VehicleType) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("vehicle_types").
		Set("name", vt.Name).
		Set("price_multiplier", vt.PriceMultiplier).
		Set("is_active", vt.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": vt.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateVehicleType - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == pgCodeUniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicateName, vt.Name)
		}
		return fmt.Errorf("%w: UpdateVehicleType - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateVehicleType - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrVehicleTypeNotFound
	}

	return nil
}
