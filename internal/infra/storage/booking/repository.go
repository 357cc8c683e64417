package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-DetailingService/pkg/txmanager"
)

// bookingColumns полный набор колонок таблицы bookings
var bookingColumns = []string{
	"id",
	"user_id",
	"service_id",
	"vehicle_type_id",
	"post_number",
	"start_at",
	"end_at",
	"final_price",
	"status",
	"service_name",
	"reminder_24h_sent",
	"reminder_2h_sent",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями и заметками администраторов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Вызывается только движком резервирования внутри сериализуемой транзакции:
// бронирование никогда не пишется без post_number, final_price и статуса.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_id",
			"service_id",
			"vehicle_type_id",
			"post_number",
			"start_at",
			"end_at",
			"final_price",
			"status",
			"service_name",
			"reminder_24h_sent",
			"reminder_2h_sent",
		).
		Values(
			booking.UserID,
			booking.ServiceID,
			booking.VehicleTypeID,
			booking.PostNumber,
			booking.StartAt,
			booking.EndAt,
			booking.FinalPrice,
			booking.Status,
			booking.ServiceName,
			booking.Reminder24hSent,
			booking.Reminder2hSent,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, wrapExecError("Create", "execute insert", err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetOverlapping получает подтвержденные бронирования, пересекающие интервал [start, end).
// Граничное касание пересечением не считается (строгие неравенства).
//
// Внутри транзакции запрос выполняется с FOR UPDATE: это range-блокировка
// критической секции резервирования. Блокируются только строки пересекающего
// интервала, поэтому непересекающиеся диапазоны не конкурируют.
func (r *Repository) GetOverlapping(ctx context.Context, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where(squirrel.Lt{"start_at": end}).
		Where(squirrel.Gt{"end_at": start}).
		OrderBy("post_number ASC")

	// Исключаем собственное бронирование при переносе
	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapExecError("GetOverlapping", "execute query", err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByUserID получает бронирования пользователя.
// Опционально фильтрует по статусу; limit <= 0 означает без ограничения.
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus, limit int) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("start_at ASC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}
	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// ListForDay получает бронирования, начинающиеся в интервале [dayStart, dayEnd),
// отсортированные по времени начала. Используется админским списком "на сегодня".
func (r *Repository) ListForDay(ctx context.Context, dayStart, dayEnd time.Time, limit int) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.GtOrEq{"start_at": dayStart}).
		Where(squirrel.Lt{"start_at": dayEnd}).
		OrderBy("start_at ASC")

	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListForDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// UpdateStatus переводит подтвержденное бронирование в новый статус.
// Статусный предикат в WHERE делает переход атомарным: терминальное
// бронирование не перезаписывается, даже если вызывающий код прочитал
// устаревший статус. Ноль затронутых строк означает ErrStatusConflict.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "UpdateStatus", ErrStatusConflict)
}

// Cancel отменяет бронирование с указанием причины.
// Физическое удаление не поддерживается: отмена сохраняет историю.
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Cancel", ErrStatusConflict)
}

// Reschedule переносит бронирование на новый интервал с новым постом.
// Оба флага напоминаний сбрасываются: перенесенное бронирование заново
// зарабатывает свои напоминания. Переносится только подтвержденное
// бронирование (статусный предикат в WHERE), иначе ErrStatusConflict.
func (r *Repository) Reschedule(ctx context.Context, id int64, start, end time.Time, postNumber int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("start_at", start).
		Set("end_at", end).
		Set("post_number", postNumber).
		Set("reminder_24h_sent", false).
		Set("reminder_2h_sent", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Reschedule", ErrStatusConflict)
}

// MarkReminderSent устанавливает флаг отправки напоминания.
// Флаг монотонный: переход только false -> true.
func (r *Repository) MarkReminderSent(ctx context.Context, id int64, threshold domain.ReminderThreshold) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	column := "reminder_2h_sent"
	if threshold == domain.Reminder24h {
		column = "reminder_24h_sent"
	}

	query, args, err := psqlbuilder.Update("bookings").
		Set(column, true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "MarkReminderSent", ErrBookingNotFound)
}

// DueForReminder получает подтвержденные бронирования с неотправленным напоминанием,
// начинающиеся в интервале [from, to)
func (r *Repository) DueForReminder(ctx context.Context, threshold domain.ReminderThreshold, from, to time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	column := "reminder_2h_sent"
	if threshold == domain.Reminder24h {
		column = "reminder_24h_sent"
	}

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where(squirrel.Eq{column: false}).
		Where(squirrel.GtOrEq{"start_at": from}).
		Where(squirrel.Lt{"start_at": to}).
		OrderBy("start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: DueForReminder - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: DueForReminder - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// Stats возвращает агрегированную статистику по бронированиям.
// Revenue считается по завершенным бронированиям.
func (r *Repository) Stats(ctx context.Context) (*domain.BookingStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE status = 'confirmed')",
		"COUNT(*) FILTER (WHERE status = 'cancelled')",
		"COUNT(*) FILTER (WHERE status = 'completed')",
		"COUNT(*) FILTER (WHERE status = 'no_show')",
		"COALESCE(SUM(final_price) FILTER (WHERE status = 'completed'), 0)",
	).
		From("bookings").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Stats - build select query: %v", ErrBuildQuery, err)
	}

	var stats domain.BookingStats
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&stats.Total,
		&stats.Confirmed,
		&stats.Cancelled,
		&stats.Completed,
		&stats.NoShow,
		&stats.Revenue,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Stats - scan stats: %v", ErrScanRow, err)
	}

	return &stats, nil
}

// AddNote добавляет заметку администратора к бронированию.
// Заметки append-only: обновление и удаление не поддерживаются.
func (r *Repository) AddNote(ctx context.Context, note *domain.BookingNote) (*domain.BookingNote, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_notes").
		Columns("booking_id", "admin_id", "text").
		Values(note.BookingID, note.AdminID, note.Text).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AddNote - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&note.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: AddNote - execute insert: %v", ErrExecQuery, err)
	}

	note.CreatedAt = createdAt.Time

	return note, nil
}

// ListNotes получает заметки бронирования, новые первыми
func (r *Repository) ListNotes(ctx context.Context, bookingID int64, limit int) ([]*domain.BookingNote, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "booking_id", "admin_id", "text", "created_at").
		From("booking_notes").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("created_at DESC")

	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListNotes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListNotes - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	notes := make([]*domain.BookingNote, 0)
	for rows.Next() {
		var note domain.BookingNote
		var createdAt sql.NullTime

		if err := rows.Scan(&note.ID, &note.BookingID, &note.AdminID, &note.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListNotes - scan row: %v", ErrScanRow, err)
		}

		note.CreatedAt = createdAt.Time
		notes = append(notes, &note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListNotes - rows error: %v", ErrScanRow, err)
	}

	return notes, nil
}

// execExpectingRow выполняет UPDATE и возвращает zeroRowsErr при нуле затронутых строк
func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, method string, zeroRowsErr error) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapExecError(method, "execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	if rowsAffected == 0 {
		return zeroRowsErr
	}

	return nil
}

// wrapExecError классифицирует ошибки конкурентного доступа до оборачивания.
// Сентинелы txmanager (lock_timeout, конфликт сериализации) должны пережить
// все слои: проигравший гонку за слот получает "слот занят", а не internal error.
func wrapExecError(method, step string, err error) error {
	if classified := txmanager.ClassifyPgError(err); classified != err {
		return classified
	}
	return fmt.Errorf("%w: %s - %s: %v", ErrExecQuery, method, step, err)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ServiceID,
		&booking.VehicleTypeID,
		&booking.PostNumber,
		&booking.StartAt,
		&booking.EndAt,
		&booking.FinalPrice,
		&booking.Status,
		&booking.ServiceName,
		&booking.Reminder24hSent,
		&booking.Reminder2hSent,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
