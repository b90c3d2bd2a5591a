// Package transport содержит авторизованный HTTP-транспорт и протокол
// обновления токенов.
package transport

import "errors"

// Таксономия ошибок авторизационного слоя.
// Вызывающий код никогда не видит сырой 401 для восстановимого запроса:
// наружу выходят только невосстановимые ошибки авторизации.
var (
	// ErrUnauthorized - токен доступа отсутствует, истек или недействителен,
	// и повтор запроса также завершился отказом в авторизации.
	ErrUnauthorized = errors.New("request unauthorized")

	// ErrNoRefreshToken - токен обновления отсутствует в хранилище.
	ErrNoRefreshToken = errors.New("no refresh token stored")

	// ErrRefreshFailed - обмен токена обновления отклонен или не удался.
	ErrRefreshFailed = errors.New("token refresh failed")

	// ErrSessionExpired - сессия разобрана после неудачного обновления.
	ErrSessionExpired = errors.New("session expired")

	// ErrBodyNotReplayable - тело запроса невозможно отправить повторно.
	ErrBodyNotReplayable = errors.New("request body is not replayable")
)
