package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// Request модель запроса доступных слотов на дату
type Request struct {
	ServiceID        int64     // ID услуги (определяет длительность слота)
	Date             time.Time // Дата (без времени)
	ExcludeBookingID *int64    // исключить собственное бронирование при переносе
}

// Response модель ответа со списком доступных времен начала
type Response struct {
	Date  time.Time          // Запрошенная дата
	Slots []types.TimeString // Времена начала в часовом поясе сервиса, по возрастанию
}
