package notifygate

// sendMessageRequest тело запроса на отправку сообщения
type sendMessageRequest struct {
	RecipientID int64  `json:"recipient_id"`
	Text        string `json:"text"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
