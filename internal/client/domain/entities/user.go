package entities

import "time"

// User - проекция пользователя, полученная от удаленного API.
// Локально не изменяется, обновляется только повторным запросом.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}
