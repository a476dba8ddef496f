package session

import "github.com/dmitrijs2005/brainswap/internal/client/models"

type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
)

func (s State) String() string {
	if s == StateAuthenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Reason tells why an Event was published.
type Reason string

const (
	ReasonStartup        Reason = "startup"
	ReasonLogin          Reason = "login"
	ReasonRegister       Reason = "register"
	ReasonLogout         Reason = "logout"
	ReasonStorage        Reason = "storage"
	ReasonTokenMissing   Reason = "token-missing"
	ReasonTokenMalformed Reason = "token-malformed"
	ReasonTokenExpired   Reason = "token-expired"
	ReasonUnauthorized   Reason = "unauthorized"
	ReasonUnavailable    Reason = "unavailable"
	ReasonProfile        Reason = "profile"
)

// Event is delivered to subscribers after every state transition and every
// profile refresh. Message carries a user-facing banner, if any. Profile is
// a private copy of the cached profile at publication time.
type Event struct {
	State   State
	Reason  Reason
	Message string
	Profile *models.User
}
