package get_day_bookings

import (
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/internal/service/bookings/models"
)

const (
	msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"
)

// defaultLimit ограничение размера выборки за день
const defaultLimit = 200

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/bookings?date=2026-08-25
// Без параметра date возвращает бронирования на сегодня.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		day = parsed
	}

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= defaultLimit {
			limit = parsed
		}
	}

	result, err := h.service.ListForDay(r.Context(), day, limit)
	if err != nil {
		h.logger.Error("GET /admin/bookings - Failed to list bookings: date=%s, error=%v",
			day.Format(domain.DateFormat), err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/bookings - Bookings retrieved: date=%s, count=%d",
		day.Format(domain.DateFormat), len(result))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBookingList(result))
}

// HandleStats GET /api/v1/admin/stats
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/stats - Failed to get stats: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, models.FromDomainStats(stats))
}
