package create_booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	createBooking "github.com/m04kA/SMC-DetailingService/internal/usecase/create_booking"
)

type mockUseCase struct {
	executeFn func(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error)
}

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	return m.executeFn(ctx, req)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func doRequest(t *testing.T, h *Handler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func validBody() map[string]interface{} {
	return map[string]interface{}{
		"userId":        100,
		"serviceId":     1,
		"vehicleTypeId": 2,
		"date":          "2026-09-05",
		"startTime":     "10:00",
	}
}

func TestHandle_Created(t *testing.T) {
	start := time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC)
	useCase := &mockUseCase{
		executeFn: func(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
			assert.Equal(t, int64(100), req.UserID)
			assert.Equal(t, "2026-09-05", req.Date.Format("2006-01-02"))
			return &createBooking.Response{
				ID:          7,
				UserID:      req.UserID,
				PostNumber:  1,
				StartAt:     start,
				EndAt:       start.Add(2 * time.Hour),
				FinalPrice:  decimal.RequireFromString("4200.00"),
				Status:      "confirmed",
				ServiceName: "Полировка кузова",
			}, nil
		},
	}
	h := NewHandler(useCase, nopLogger{})

	rec := doRequest(t, h, validBody())
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "4200.00", resp.FinalPrice)
	assert.Equal(t, "confirmed", resp.Status)
}

func TestHandle_SlotNotAvailable(t *testing.T) {
	useCase := &mockUseCase{
		executeFn: func(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
			return nil, createBooking.ErrSlotNotAvailable
		},
	}
	h := NewHandler(useCase, nopLogger{})

	rec := doRequest(t, h, validBody())
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandle_ServiceNotFound(t *testing.T) {
	useCase := &mockUseCase{
		executeFn: func(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
			return nil, createBooking.ErrServiceNotFound
		},
	}
	h := NewHandler(useCase, nopLogger{})

	rec := doRequest(t, h, validBody())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandle_BadDateFormat(t *testing.T) {
	useCase := &mockUseCase{
		executeFn: func(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
			t.Fatal("use case must not be called on parse failure")
			return nil, nil
		},
	}
	h := NewHandler(useCase, nopLogger{})

	body := validBody()
	body["date"] = "05.09.2026"
	rec := doRequest(t, h, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_UnknownFieldRejected(t *testing.T) {
	h := NewHandler(&mockUseCase{}, nopLogger{})

	body := validBody()
	body["unexpected"] = true
	rec := doRequest(t, h, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_InternalError(t *testing.T) {
	useCase := &mockUseCase{
		executeFn: func(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
			return nil, createBooking.ErrInternal
		},
	}
	h := NewHandler(useCase, nopLogger{})

	rec := doRequest(t, h, validBody())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
