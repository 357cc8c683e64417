package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
)

// --- Fakes ---

type fakeResult struct{}

func (fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (fakeResult) RowsAffected() (int64, error) { return 1, nil }

type fakeTx struct {
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return fakeResult{}, nil
}

func (t *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeDB struct {
	tx       *fakeTx
	beginErr error
}

func (d *fakeDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	return d.tx, nil
}

// --- ClassifyPgError ---

func TestClassifyPgError_LockTimeout(t *testing.T) {
	err := ClassifyPgError(&pq.Error{Code: "55P03"})
	assert.ErrorIs(t, err, ErrLockNotAvailable)
}

func TestClassifyPgError_SerializationFailure(t *testing.T) {
	err := ClassifyPgError(&pq.Error{Code: "40001"})
	assert.ErrorIs(t, err, ErrSerializationConflict)
}

func TestClassifyPgError_OtherCodesUnchanged(t *testing.T) {
	original := &pq.Error{Code: "23505"}
	assert.Equal(t, error(original), ClassifyPgError(original))
}

func TestClassifyPgError_PlainErrorUnchanged(t *testing.T) {
	original := errors.New("connection reset")
	assert.Equal(t, original, ClassifyPgError(original))
}

func TestIsConflict(t *testing.T) {
	assert.True(t, IsConflict(ClassifyPgError(&pq.Error{Code: "55P03"})))
	assert.True(t, IsConflict(ClassifyPgError(&pq.Error{Code: "40001"})))
	assert.False(t, IsConflict(errors.New("connection reset")))
	assert.False(t, IsConflict(nil))
}

// --- run ---

func TestDoSerializable_Success(t *testing.T) {
	tx := &fakeTx{}
	manager := NewTransactionManager(&fakeDB{tx: tx}, "3s")

	called := false
	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		called = true
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestDoSerializable_CommitConflictClassified(t *testing.T) {
	// Конфликт сериализации, обнаруженный на коммите, должен дойти до
	// вызывающего кода сентинелом, а не общей ошибкой коммита
	tx := &fakeTx{commitErr: &pq.Error{Code: "40001"}}
	manager := NewTransactionManager(&fakeDB{tx: tx}, "3s")

	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	assert.ErrorIs(t, err, ErrSerializationConflict)
	assert.NotErrorIs(t, err, ErrCommitTx)
}

func TestDoSerializable_CommitErrorWrapped(t *testing.T) {
	tx := &fakeTx{commitErr: errors.New("connection reset")}
	manager := NewTransactionManager(&fakeDB{tx: tx}, "3s")

	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	assert.ErrorIs(t, err, ErrCommitTx)
}

func TestDoSerializable_FnErrorRollsBackAndClassifies(t *testing.T) {
	tx := &fakeTx{}
	manager := NewTransactionManager(&fakeDB{tx: tx}, "3s")

	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		return &pq.Error{Code: "55P03"}
	})

	assert.ErrorIs(t, err, ErrLockNotAvailable)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func TestDoSerializable_BeginError(t *testing.T) {
	manager := NewTransactionManager(&fakeDB{beginErr: errors.New("too many connections")}, "3s")

	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		t.Fatal("fn must not be called when BeginTx fails")
		return nil
	})

	assert.ErrorIs(t, err, ErrBeginTx)
}
