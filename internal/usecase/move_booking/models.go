package move_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID int64            // ID переносимого бронирования
	UserID    int64            // ID пользователя-владельца (0 для администратора)
	Date      time.Time        // Новая дата (без времени)
	StartTime types.TimeString // Новое время начала слота
}

// Response модель ответа с перенесенным бронированием
type Response struct {
	ID            int64
	UserID        int64
	ServiceID     int64
	VehicleTypeID int64
	PostNumber    int // пост назначается заново на новом интервале
	StartAt       time.Time
	EndAt         time.Time
	FinalPrice    decimal.Decimal // цена не пересчитывается при переносе
	Status        string
	ServiceName   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:            b.ID,
		UserID:        b.UserID,
		ServiceID:     b.ServiceID,
		VehicleTypeID: b.VehicleTypeID,
		PostNumber:    b.PostNumber,
		StartAt:       b.StartAt,
		EndAt:         b.EndAt,
		FinalPrice:    b.FinalPrice,
		Status:        string(b.Status),
		ServiceName:   b.ServiceName,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
