package identityservice

import "errors"

var (
	// ErrProfileNotFound возвращается, когда у пользователя нет профиля
	ErrProfileNotFound = errors.New("user has no profile")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("identityservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("identityservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что IdentityService недоступен и бронирование создается
	// без денормализованных данных клиента
	ErrServiceDegraded = errors.New("identityservice unavailable: graceful degradation applied")
)
