package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID        int64            // ID пользователя (Telegram ID)
	ServiceID     int64            // ID услуги
	VehicleTypeID int64            // ID типа кузова
	Date          time.Time        // Дата бронирования (без времени)
	StartTime     types.TimeString // Время начала слота (например, "10:00")
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64
	UserID        int64
	ServiceID     int64
	VehicleTypeID int64
	PostNumber    int       // назначенный пост (1..maxPosts)
	StartAt       time.Time
	EndAt         time.Time
	FinalPrice    decimal.Decimal // basePrice * multiplier, зафиксирована
	Status        string
	ServiceName   string // snapshot названия услуги
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
