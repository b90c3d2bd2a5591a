// Package authz содержит таблицу решений авторизации маршрутов.
package authz

import (
	"subtrak/internal/client/domain/entities"
	"subtrak/internal/client/ports/nav"
)

// Requirement - требование доступа, объявляемое экраном.
type Requirement int

// Поддерживаемые требования доступа.
const (
	Public Requirement = iota
	GuestOnly
	Authenticated
	Admin
)

// String возвращает строковое представление требования.
func (r Requirement) String() string {
	switch r {
	case Public:
		return "public"
	case GuestOnly:
		return "guest-only"
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// Verdict - вид решения.
type Verdict int

// Возможные виды решений.
const (
	// Allow - экран может быть отрисован.
	Allow Verdict = iota
	// Defer - сессия еще loading: отрисовать индикатор загрузки
	// и переоценить после разрешения.
	Defer
	// Redirect - перейти на Decision.Target.
	Redirect
)

// Decision - результат оценки требования против сессии.
type Decision struct {
	Verdict Verdict
	Target  string
}

// allow, defer и redirect - готовые решения таблицы.
var (
	decisionAllow         = Decision{Verdict: Allow}
	decisionDefer         = Decision{Verdict: Defer}
	decisionRedirectLogin = Decision{Verdict: Redirect, Target: nav.PathLogin}
	decisionRedirectHome  = Decision{Verdict: Redirect, Target: nav.PathHome}
)

// Decide - чистая функция политики авторизации. Полная таблица:
//
//	требование    | anonymous        | loading | authenticated | admin
//	public        | Allow            | Allow   | Allow         | Allow
//	guest-only    | Allow            | Defer   | Redirect(/)   | Redirect(/)
//	authenticated | Redirect(/login) | Defer   | Allow         | Allow
//	admin         | Redirect(/login) | Defer   | Redirect(/)   | Allow
func Decide(session entities.Session, requirement Requirement) Decision {
	if requirement == Public {
		return decisionAllow
	}

	switch session.Status {
	case entities.SessionLoading:
		return decisionDefer

	case entities.SessionAnonymous:
		if requirement == GuestOnly {
			return decisionAllow
		}
		return decisionRedirectLogin

	case entities.SessionAuthenticated:
		switch requirement {
		case GuestOnly:
			return decisionRedirectHome
		case Admin:
			if session.IsAdmin() {
				return decisionAllow
			}
			return decisionRedirectHome
		default:
			return decisionAllow
		}

	default:
		return decisionRedirectLogin
	}
}
