// Package txmanager управление транзакциями PostgreSQL.
// Активная транзакция передается вниз по стеку через context (см. pkg/dbmetrics).
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
)

// Коды ошибок PostgreSQL
const (
	pgCodeLockNotAvailable     = "55P03" // lock_timeout истек
	pgCodeSerializationFailure = "40001" // конфликт сериализации
)

var (
	// ErrLockNotAvailable возвращается, когда блокировку строк не удалось получить
	// за отведенный lock_timeout. Вызывающий код трактует это как занятый слот,
	// а не как internal error.
	ErrLockNotAvailable = errors.New("txmanager: lock not available within timeout")

	// ErrSerializationConflict возвращается при конфликте сериализуемых транзакций
	ErrSerializationConflict = errors.New("txmanager: serialization conflict")

	// ErrBeginTx возвращается при ошибке начала транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается при ошибке коммита транзакции
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")
)

// TxBeginner интерфейс для начала транзакций (*dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функции внутри транзакций
type TransactionManager struct {
	db          TxBeginner
	lockTimeout string // значение для SET LOCAL lock_timeout, например "3s"
}

// NewTransactionManager создает transaction manager.
// lockTimeout ограничивает ожидание row-level блокировок внутри транзакции:
// заблокированная конкурентом строка не должна вешать запрос навсегда.
func NewTransactionManager(db TxBeginner, lockTimeout string) *TransactionManager {
	if lockTimeout == "" {
		lockTimeout = "3s"
	}
	return &TransactionManager{db: db, lockTimeout: lockTimeout}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{}, fn)
}

// DoSerializable выполняет fn в сериализуемой транзакции.
// Используется для критических секций резервирования слотов.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	if !opts.ReadOnly {
		// SET LOCAL действует до конца транзакции
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%s'", m.lockTimeout)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: failed to set lock_timeout: %v", ErrBeginTx, err)
		}
	}

	txCtx := dbmetrics.WithExecutor(ctx, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return ClassifyPgError(err)
	}

	// Конфликт сериализации часто обнаруживается только на коммите,
	// поэтому классифицируем голую ошибку драйвера до оборачивания
	if err := tx.Commit(); err != nil {
		if classified := ClassifyPgError(err); classified != err {
			return classified
		}
		return fmt.Errorf("%w: %v", ErrCommitTx, err)
	}

	return nil
}

// ClassifyPgError заменяет известные коды ошибок PostgreSQL на сентинелы пакета,
// сохраняя исходную ошибку в тексте.
//
// Репозитории обязаны вызывать ее на голой ошибке драйвера до оборачивания
// через %v: после %v цепочка errors.As до *pq.Error теряется.
func ClassifyPgError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch string(pqErr.Code) {
	case pgCodeLockNotAvailable:
		return fmt.Errorf("%w: %v", ErrLockNotAvailable, err)
	case pgCodeSerializationFailure:
		return fmt.Errorf("%w: %v", ErrSerializationConflict, err)
	default:
		return err
	}
}

// IsConflict сообщает, что ошибка вызвана конкурентным доступом к строкам:
// истекший lock_timeout или конфликт сериализуемых транзакций.
// Вызывающий код трактует такие ошибки как занятый слот.
func IsConflict(err error) bool {
	return errors.Is(err, ErrLockNotAvailable) || errors.Is(err, ErrSerializationConflict)
}
