package transport

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expiresWithin сообщает, истекает ли токен доступа в пределах leeway от now.
// Токен только инспектируется, подпись не проверяется - валидация остается
// за сервером. Нечитаемый токен или токен без exp считаются неистекающими.
func expiresWithin(accessToken string, leeway time.Duration, now time.Time) bool {
	parser := jwt.NewParser()

	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}

	return !claims.ExpiresAt.Time.After(now.Add(leeway))
}
