package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingService/pkg/psqlbuilder"
)

// Repository репозиторий недельного расписания и блокировок
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// ActiveRuleForWeekday получает действующее правило для дня недели (0=Пн .. 6=Вс).
// При дубликатах авторитетно последнее созданное правило (ORDER BY id DESC),
// это документированное поведение, на которое завязаны клиентские данные.
func (r *Repository) ActiveRuleForWeekday(ctx context.Context, dayOfWeek int) (*domain.WeeklyScheduleRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"day_of_week",
		"open_time",
		"close_time",
		"is_active",
		"created_at",
	).
		From("work_schedule").
		Where(squirrel.Eq{"day_of_week": dayOfWeek, "is_active": true}).
		OrderBy("id DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ActiveRuleForWeekday - build select query: %v", ErrBuildQuery, err)
	}

	var rule domain.WeeklyScheduleRule
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rule.ID,
		&rule.DayOfWeek,
		&rule.OpenTime,
		&rule.CloseTime,
		&rule.IsActive,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: ActiveRuleForWeekday - scan rule: %v", ErrScanRow, err)
	}

	rule.CreatedAt = createdAt.Time

	return &rule, nil
}

// CreateRule создает правило расписания для дня недели
func (r *Repository) CreateRule(ctx context.Context, rule *domain.WeeklyScheduleRule) (*domain.WeeklyScheduleRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("work_schedule").
		Columns("day_of_week", "open_time", "close_time", "is_active").
		Values(rule.DayOfWeek, rule.OpenTime, rule.CloseTime, rule.IsActive).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateRule - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateRule - execute insert: %v", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time

	return rule, nil
}

// SeedDefaults заполняет расписание по умолчанию, если таблица пуста:
// будни 00:00-23:59 (до полуночи), выходные 09:00-23:00
func (r *Repository) SeedDefaults(ctx context.Context) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	countQuery, countArgs, err := psqlbuilder.Select("COUNT(*)").From("work_schedule").ToSql()
	if err != nil {
		return fmt.Errorf("%w: SeedDefaults - build count query: %v", ErrBuildQuery, err)
	}

	var count int64
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&count); err != nil {
		return fmt.Errorf("%w: SeedDefaults - scan count: %v", ErrScanRow, err)
	}
	if count > 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("work_schedule").
		Columns("day_of_week", "open_time", "close_time", "is_active")

	for day := 0; day < 7; day++ {
		open, close := domain.FallbackWeekdayOpen, domain.FallbackWeekdayClose
		if day >= 5 {
			open, close = domain.FallbackWeekendOpen, domain.FallbackWeekendClose
		}
		insertBuilder = insertBuilder.Values(day, open, close, true)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: SeedDefaults - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SeedDefaults - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListRules получает все правила расписания
func (r *Repository) ListRules(ctx context.Context) ([]*domain.WeeklyScheduleRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"day_of_week",
		"open_time",
		"close_time",
		"is_active",
		"created_at",
	).
		From("work_schedule").
		OrderBy("day_of_week ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListRules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.WeeklyScheduleRule, 0)
	for rows.Next() {
		var rule domain.WeeklyScheduleRule
		var createdAt sql.NullTime

		err := rows.Scan(
			&rule.ID,
			&rule.DayOfWeek,
			&rule.OpenTime,
			&rule.CloseTime,
			&rule.IsActive,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListRules - scan row: %v", ErrScanRow, err)
		}

		rule.CreatedAt = createdAt.Time
		rules = append(rules, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListRules - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

// CreateBlock создает блокировку интервала
func (r *Repository) CreateBlock(ctx context.Context, block *domain.BlockedRange) (*domain.BlockedRange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocked_ranges").
		Columns("start_at", "end_at", "is_active", "note", "created_by").
		Values(block.StartAt, block.EndAt, block.IsActive, block.Note, block.CreatedBy).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlock - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&block.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateBlock - execute insert: %v", ErrExecQuery, err)
	}

	block.CreatedAt = createdAt.Time

	return block, nil
}

// DeactivateBlock снимает блокировку. Запись сохраняется для истории.
func (r *Repository) DeactivateBlock(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("blocked_ranges").
		Set("is_active", false).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeactivateBlock - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeactivateBlock - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeactivateBlock - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockNotFound
	}

	return nil
}

// ActiveBlocksIn получает активные блокировки, пересекающие интервал [start, end)
func (r *Repository) ActiveBlocksIn(ctx context.Context, start, end time.Time) ([]*domain.BlockedRange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"start_at",
		"end_at",
		"is_active",
		"note",
		"created_by",
		"created_at",
	).
		From("blocked_ranges").
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.Lt{"start_at": end}).
		Where(squirrel.Gt{"end_at": start}).
		OrderBy("start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ActiveBlocksIn - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ActiveBlocksIn - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBlocks(rows)
}

// ListActiveBlocks получает активные блокировки, ближайшие первыми
func (r *Repository) ListActiveBlocks(ctx context.Context, limit int) ([]*domain.BlockedRange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"start_at",
		"end_at",
		"is_active",
		"note",
		"created_by",
		"created_at",
	).
		From("blocked_ranges").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("start_at ASC")

	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveBlocks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveBlocks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBlocks(rows)
}

func (r *Repository) scanBlocks(rows *sql.Rows) ([]*domain.BlockedRange, error) {
	blocks := make([]*domain.BlockedRange, 0)

	for rows.Next() {
		var block domain.BlockedRange
		var createdAt sql.NullTime

		err := rows.Scan(
			&block.ID,
			&block.StartAt,
			&block.EndAt,
			&block.IsActive,
			&block.Note,
			&block.CreatedBy,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBlocks - scan row: %v", ErrScanRow, err)
		}

		block.CreatedAt = createdAt.Time
		blocks = append(blocks, &block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBlocks - rows error: %v", ErrScanRow, err)
	}

	return blocks, nil
}
