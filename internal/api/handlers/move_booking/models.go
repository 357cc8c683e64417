package move_booking

import (
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	moveBooking "github.com/m04kA/SMC-DetailingService/internal/usecase/move_booking"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// MoveBookingRequest HTTP request model
type MoveBookingRequest struct {
	UserID    int64  `json:"userId"`
	Date      string `json:"date"`      // "2026-08-25"
	StartTime string `json:"startTime"` // "10:00"
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"userId"`
	ServiceID     int64  `json:"serviceId"`
	VehicleTypeID int64  `json:"vehicleTypeId"`
	PostNumber    int    `json:"postNumber"`
	StartAt       string `json:"startAt"`
	EndAt         string `json:"endAt"`
	FinalPrice    string `json:"finalPrice"`
	Status        string `json:"status"`
	ServiceName   string `json:"serviceName"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *MoveBookingRequest) ToUseCaseRequest(bookingID int64) (*moveBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &moveBooking.Request{
		BookingID: bookingID,
		UserID:    r.UserID,
		Date:      date,
		StartTime: startTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *moveBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.ID,
		UserID:        resp.UserID,
		ServiceID:     resp.ServiceID,
		VehicleTypeID: resp.VehicleTypeID,
		PostNumber:    resp.PostNumber,
		StartAt:       resp.StartAt.Format(time.RFC3339),
		EndAt:         resp.EndAt.Format(time.RFC3339),
		FinalPrice:    resp.FinalPrice.StringFixed(2),
		Status:        resp.Status,
		ServiceName:   resp.ServiceName,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
