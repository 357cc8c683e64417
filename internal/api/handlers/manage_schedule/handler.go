package manage_schedule

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/internal/service/schedule"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgInvalidRule        = "некорректное правило расписания"
)

// SetRuleRequest HTTP request model
type SetRuleRequest struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0 = понедельник ... 6 = воскресенье
	OpenTime  string `json:"openTime"`  // "09:00"
	CloseTime string `json:"closeTime"` // "23:00", "23:59" = до полуночи
}

// RuleResponse HTTP response model
type RuleResponse struct {
	ID        int64  `json:"id"`
	DayOfWeek int    `json:"dayOfWeek"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
}

// FromDomainRule конвертирует domain.WeeklyScheduleRule в RuleResponse
func FromDomainRule(r *domain.WeeklyScheduleRule) *RuleResponse {
	return &RuleResponse{
		ID:        r.ID,
		DayOfWeek: r.DayOfWeek,
		OpenTime:  r.OpenTime.String(),
		CloseTime: r.CloseTime.String(),
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleList GET /api/v1/admin/schedule
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	rules, err := h.service.ListRules(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/schedule - Failed to list rules: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	result := make([]*RuleResponse, len(rules))
	for i, rule := range rules {
		result[i] = FromDomainRule(rule)
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleSetRule POST /api/v1/admin/schedule
func (h *Handler) HandleSetRule(w http.ResponseWriter, r *http.Request) {
	var req SetRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	openTime, err := types.NewTimeStringFromString(req.OpenTime)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	closeTime, err := types.NewTimeStringFromString(req.CloseTime)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	rule, err := h.service.SetWeekdayRule(r.Context(), req.DayOfWeek, openTime, closeTime)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidRule) {
			h.logger.Warn("POST /admin/schedule - Invalid rule: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRule)
			return
		}
		h.logger.Error("POST /admin/schedule - Failed to create rule: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/schedule - Rule created: rule_id=%d, day=%d", rule.ID, rule.DayOfWeek)
	handlers.RespondJSON(w, http.StatusCreated, FromDomainRule(rule))
}
