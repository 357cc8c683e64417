package get_available_days

import "time"

// Request модель запроса дней с доступными слотами
type Request struct {
	ServiceID        int64  // ID услуги (определяет длительность слота)
	HorizonDays      int    // глубина перебора, 0 = значение по умолчанию
	ExcludeBookingID *int64 // исключить собственное бронирование при переносе
}

// Response модель ответа со списком дат, на которых есть хотя бы один слот
type Response struct {
	Days []time.Time
}
