package cancel_booking

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	UserID             int64   `json:"userId"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// Reason возвращает причину отмены, пустая строка при отсутствии
func (r *CancelBookingRequest) Reason() string {
	if r.CancellationReason == nil {
		return ""
	}
	return *r.CancellationReason
}
