package booking_notes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/service/bookings"
	"github.com/m04kA/SMC-DetailingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "бронирование не найдено"
	msgInvalidNote        = "текст заметки обязателен и ограничен 500 символами"
)

// notesLimit максимум заметок в ответе списка
const notesLimit = 100

// AddNoteRequest HTTP request model
type AddNoteRequest struct {
	AdminID int64  `json:"adminId"`
	Text    string `json:"text"`
}

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

// HandleAdd POST /api/v1/bookings/{bookingId}/notes
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req AddNoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/notes - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	note, err := h.service.AddNote(r.Context(), bookingID, req.AdminID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/notes - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/notes - Invalid note: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidNote)

		default:
			h.logger.Error("POST /bookings/{id}/notes - Failed to add note: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/notes - Note added: booking_id=%d, note_id=%d", bookingID, note.ID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainNote(note))
}

// HandleList GET /api/v1/bookings/{bookingId}/notes
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	notes, err := h.service.ListNotes(r.Context(), bookingID, notesLimit)
	if err != nil {
		h.logger.Error("GET /bookings/{id}/notes - Failed to list notes: booking_id=%d, error=%v",
			bookingID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, models.FromDomainNoteList(notes))
}
