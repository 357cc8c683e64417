package booking

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-DetailingService/pkg/txmanager"
)

func TestWrapExecError_LockTimeoutBecomesSentinel(t *testing.T) {
	err := wrapExecError("GetOverlapping", "execute query", &pq.Error{Code: "55P03"})

	// Сентинел txmanager сохраняется в цепочке: проигравший гонку получит
	// "слот занят", а не internal error
	assert.ErrorIs(t, err, txmanager.ErrLockNotAvailable)
	assert.NotErrorIs(t, err, ErrExecQuery)
}

func TestWrapExecError_SerializationConflictBecomesSentinel(t *testing.T) {
	err := wrapExecError("Create", "execute insert", &pq.Error{Code: "40001"})

	assert.ErrorIs(t, err, txmanager.ErrSerializationConflict)
	assert.NotErrorIs(t, err, ErrExecQuery)
}

func TestWrapExecError_PlainErrorWrapped(t *testing.T) {
	err := wrapExecError("GetOverlapping", "execute query", errors.New("connection reset"))

	assert.ErrorIs(t, err, ErrExecQuery)
	assert.Contains(t, err.Error(), "GetOverlapping - execute query")
}

func TestWrapExecError_OtherPgCodesWrapped(t *testing.T) {
	err := wrapExecError("Create", "execute insert", &pq.Error{Code: "23505"})

	assert.ErrorIs(t, err, ErrExecQuery)
}
