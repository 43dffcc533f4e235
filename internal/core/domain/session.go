package domain

// SessionKind discriminates SessionState.
type SessionKind int

const (
	SessionLoading SessionKind = iota
	SessionAuthenticated
	SessionAnonymous
)

func (k SessionKind) String() string {
	switch k {
	case SessionLoading:
		return "loading"
	case SessionAuthenticated:
		return "authenticated"
	case SessionAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// SessionState is the lifecycle of a browser session:
// loading -> authenticated(user) | anonymous.
//
// The zero value is Loading. Authenticated states always carry a user and
// the other kinds never do; build values with the constructors below.
type SessionState struct {
	kind SessionKind
	user *User
}

func Loading() SessionState { return SessionState{kind: SessionLoading} }

func Anonymous() SessionState { return SessionState{kind: SessionAnonymous} }

func Authenticated(u User) SessionState {
	return SessionState{kind: SessionAuthenticated, user: &u}
}

func (s SessionState) Kind() SessionKind { return s.kind }

// User returns the authenticated user, or false for the other kinds.
func (s SessionState) User() (User, bool) {
	if s.kind != SessionAuthenticated || s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

func (s SessionState) IsLoading() bool { return s.kind == SessionLoading }

func (s SessionState) IsAnonymous() bool { return s.kind == SessionAnonymous }

// HasRole reports whether the session is authenticated with role r.
func (s SessionState) HasRole(r Role) bool {
	u, ok := s.User()
	return ok && u.Role == r
}
