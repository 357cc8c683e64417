package move_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	moveBooking "github.com/m04kA/SMC-DetailingService/internal/usecase/move_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgBookingNotFound    = "бронирование не найдено"
	msgNotOwner           = "бронирование принадлежит другому пользователю"
	msgInvalidState       = "бронирование нельзя перенести в текущем статусе"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgRangeBlocked       = "выбранный интервал закрыт для записи"
	msgInvalidBookingDate = "некорректная дата бронирования"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgSlotInPast         = "время слота уже прошло"
	msgOutsideHours       = "слот вне рабочих часов"
	msgInvalidTimeSlot    = "некорректный временной слот"
	msgScheduleBroken     = "расписание на выбранный день настроено некорректно"
)

type Handler struct {
	useCase MoveBookingUseCase
	logger  Logger
}

func NewHandler(useCase MoveBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/move
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req MoveBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/%d/move - Invalid request body: %v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/%d/move - Failed to parse request: %v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, moveBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/%d/move - Booking not found", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, moveBooking.ErrNotOwner):
			h.logger.Warn("PATCH /bookings/%d/move - Not owner: user_id=%d", bookingID, req.UserID)
			handlers.RespondForbidden(w, msgNotOwner)

		case errors.Is(err, moveBooking.ErrInvalidState):
			h.logger.Warn("PATCH /bookings/%d/move - Invalid state", bookingID)
			handlers.RespondConflict(w, msgInvalidState)

		case errors.Is(err, moveBooking.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /bookings/%d/move - Slot not available", bookingID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, moveBooking.ErrRangeBlocked):
			h.logger.Warn("PATCH /bookings/%d/move - Range blocked", bookingID)
			handlers.RespondConflict(w, msgRangeBlocked)

		case errors.Is(err, moveBooking.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, moveBooking.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, moveBooking.ErrSlotInPast):
			handlers.RespondBadRequest(w, msgSlotInPast)

		case errors.Is(err, moveBooking.ErrOutsideWorkingHours):
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, moveBooking.ErrInvalidTimeSlot):
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, moveBooking.ErrScheduleMisconfigured):
			h.logger.Error("PATCH /bookings/%d/move - Schedule misconfigured: %v", bookingID, err)
			handlers.RespondConflict(w, msgScheduleBroken)

		case errors.Is(err, moveBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /bookings/%d/move - Failed to move booking: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/%d/move - Booking moved successfully: post=%d, start=%s",
		bookingID, result.PostNumber, result.StartAt)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
