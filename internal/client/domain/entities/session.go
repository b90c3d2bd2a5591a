package entities

// SessionStatus - статус сессии процесса.
type SessionStatus int

// Возможные статусы сессии. В любой момент наблюдения действует ровно один.
const (
	SessionLoading SessionStatus = iota
	SessionAnonymous
	SessionAuthenticated
)

// String возвращает строковое представление статуса.
func (s SessionStatus) String() string {
	switch s {
	case SessionLoading:
		return "loading"
	case SessionAnonymous:
		return "anonymous"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session - состояние аутентификации процесса.
// User не равен nil тогда и только тогда, когда Status = SessionAuthenticated.
type Session struct {
	Status SessionStatus
	User   *User
}

// IsAdmin сообщает, аутентифицирован ли администратор.
func (s Session) IsAdmin() bool {
	return s.Status == SessionAuthenticated && s.User != nil && s.User.IsAdmin
}
