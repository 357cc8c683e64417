package manage_blocks

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/service/schedule"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTimestamp   = "некорректный формат времени, ожидается RFC3339"
	msgInvalidRange       = "конец интервала должен быть позже начала"
	msgInvalidBlockID     = "некорректный ID блокировки"
	msgBlockNotFound      = "блокировка не найдена"
)

// blocksLimit максимум блокировок в ответе списка
const blocksLimit = 100

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

// HandleCreate POST /api/v1/admin/blocks
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTimestamp)
		return
	}

	endAt, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTimestamp)
		return
	}

	block, err := h.service.CloseRange(r.Context(), startAt, endAt, req.AdminID, req.Note)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidRange) {
			h.logger.Warn("POST /admin/blocks - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)
			return
		}
		h.logger.Error("POST /admin/blocks - Failed to create block: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/blocks - Block created: block_id=%d, admin_id=%d", block.ID, req.AdminID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomainBlock(block))
}

// HandleDelete DELETE /api/v1/admin/blocks/{blockId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	blockID, err := strconv.ParseInt(mux.Vars(r)["blockId"], 10, 64)
	if err != nil || blockID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	if err := h.service.ReopenRange(r.Context(), blockID); err != nil {
		if errors.Is(err, schedule.ErrBlockNotFound) {
			h.logger.Warn("DELETE /admin/blocks/{id} - Block not found: block_id=%d", blockID)
			handlers.RespondNotFound(w, msgBlockNotFound)
			return
		}
		h.logger.Error("DELETE /admin/blocks/{id} - Failed to deactivate block: block_id=%d, error=%v",
			blockID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /admin/blocks/{id} - Block deactivated: block_id=%d", blockID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}

// HandleList GET /api/v1/admin/blocks
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.service.ListActiveBlocks(r.Context(), blocksLimit)
	if err != nil {
		h.logger.Error("GET /admin/blocks - Failed to list blocks: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainBlockList(blocks))
}
