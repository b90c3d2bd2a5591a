// Package dto содержит объекты передачи данных удаленного API.
package dto

// LoginRequest содержит учетные данные для входа.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest содержит данные для регистрации пользователя.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// TokenResponse содержит пару токенов, возвращаемую сервером.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
}

// LogoutRequest содержит данные для отзыва токена на сервере.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
