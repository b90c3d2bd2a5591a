// Package entities содержит доменные сущности клиентского ядра.
package entities

// TokenPair - пара токенов текущей сессии.
// Инвариант: оба токена присутствуют либо оба отсутствуют.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// IsEmpty сообщает, что пара токенов отсутствует.
func (p TokenPair) IsEmpty() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}

// IsComplete сообщает, что присутствуют оба токена.
func (p TokenPair) IsComplete() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}
