package models

import (
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// BookingResponse представление бронирования для API слоя
type BookingResponse struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	ServiceID       int64   `json:"serviceId"`
	VehicleTypeID   int64   `json:"vehicleTypeId"`
	PostNumber      int     `json:"postNumber"`
	StartAt         string  `json:"startAt"`
	EndAt           string  `json:"endAt"`
	FinalPrice      string  `json:"finalPrice"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName"`
	Reminder24hSent bool    `json:"reminder24hSent"`
	Reminder2hSent  bool    `json:"reminder2hSent"`
	CancelReason    *string `json:"cancellationReason,omitempty"`
	CancelledAt     *string `json:"cancelledAt,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// NoteResponse представление заметки администратора
type NoteResponse struct {
	ID        int64  `json:"id"`
	BookingID int64  `json:"bookingId"`
	AdminID   int64  `json:"adminId"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// StatsResponse агрегированная статистика бронирований
type StatsResponse struct {
	Total     int64  `json:"total"`
	Confirmed int64  `json:"confirmed"`
	Cancelled int64  `json:"cancelled"`
	Completed int64  `json:"completed"`
	NoShow    int64  `json:"noShow"`
	Revenue   string `json:"revenue"`
}

// FromDomainBooking конвертирует domain.Booking в BookingResponse
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:              b.ID,
		UserID:          b.UserID,
		ServiceID:       b.ServiceID,
		VehicleTypeID:   b.VehicleTypeID,
		PostNumber:      b.PostNumber,
		StartAt:         b.StartAt.Format(time.RFC3339),
		EndAt:           b.EndAt.Format(time.RFC3339),
		FinalPrice:      b.FinalPrice.StringFixed(2),
		Status:          string(b.Status),
		ServiceName:     b.ServiceName,
		Reminder24hSent: b.Reminder24hSent,
		Reminder2hSent:  b.Reminder2hSent,
		CancelReason:    b.CancellationReason,
	}

	if b.CancelledAt != nil {
		cancelled := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelled
	}

	resp.CreatedAt = b.CreatedAt.Format(time.RFC3339)
	resp.UpdatedAt = b.UpdatedAt.Format(time.RFC3339)

	return resp
}

// FromDomainBookingList конвертирует список бронирований
func FromDomainBookingList(bookings []*domain.Booking) []*BookingResponse {
	result := make([]*BookingResponse, len(bookings))
	for i, b := range bookings {
		result[i] = FromDomainBooking(b)
	}
	return result
}

// FromDomainNote конвертирует domain.BookingNote в NoteResponse
func FromDomainNote(n *domain.BookingNote) *NoteResponse {
	return &NoteResponse{
		ID:        n.ID,
		BookingID: n.BookingID,
		AdminID:   n.AdminID,
		Text:      n.Text,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}

// FromDomainNoteList конвертирует список заметок
func FromDomainNoteList(notes []*domain.BookingNote) []*NoteResponse {
	result := make([]*NoteResponse, len(notes))
	for i, n := range notes {
		result[i] = FromDomainNote(n)
	}
	return result
}

// FromDomainStats конвертирует domain.BookingStats в StatsResponse
func FromDomainStats(s *domain.BookingStats) *StatsResponse {
	return &StatsResponse{
		Total:     s.Total,
		Confirmed: s.Confirmed,
		Cancelled: s.Cancelled,
		Completed: s.Completed,
		NoShow:    s.NoShow,
		Revenue:   s.Revenue.StringFixed(2),
	}
}
