package get_available_days

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/domain"
	getAvailableDays "github.com/m04kA/SMC-DetailingService/internal/usecase/get_available_days"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidExcludeID = "некорректный ID исключаемого бронирования"
	msgServiceNotFound  = "услуга не найдена"
)

type Handler struct {
	useCase GetAvailableDaysUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableDaysUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// DaysResponse HTTP response model
type DaysResponse struct {
	Days []string `json:"days"` // ["2026-08-25", ...]
}

// Handle GET /api/v1/available-days?serviceId=1[&excludeBookingId=5]
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	serviceID, err := strconv.ParseInt(query.Get("serviceId"), 10, 64)
	if err != nil || serviceID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	var excludeID *int64
	if raw := query.Get("excludeBookingId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			handlers.RespondBadRequest(w, msgInvalidExcludeID)
			return
		}
		excludeID = &parsed
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableDays.Request{
		ServiceID:        serviceID,
		ExcludeBookingID: excludeID,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableDays.ErrServiceNotFound):
			h.logger.Warn("GET /available-days - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableDays.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidServiceID)

		default:
			h.logger.Error("GET /available-days - Failed to get days: service_id=%d, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	days := make([]string, 0, len(result.Days))
	for _, day := range result.Days {
		days = append(days, day.Format(domain.DateFormat))
	}

	h.logger.Info("GET /available-days - Days retrieved: service_id=%d, count=%d", serviceID, len(days))
	handlers.RespondJSON(w, http.StatusOK, DaysResponse{Days: days})
}
