package notifygate

import "errors"

var (
	// ErrRecipientNotFound возвращается, когда получатель неизвестен шлюзу
	ErrRecipientNotFound = errors.New("notifygate client: recipient not found")

	// ErrUnavailable возвращается при недоступности шлюза (сеть, timeout)
	ErrUnavailable = errors.New("notifygate client: service unavailable")

	// ErrInvalidResponse возвращается при некорректном ответе от шлюза
	ErrInvalidResponse = errors.New("notifygate client: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifygate client: internal error")
)
