package session

// Identity describes the authenticated user as returned by the backend.
// Credential is an opaque bearer string; the client never inspects it.
type Identity struct {
	Username   string `json:"username"`
	Email      string `json:"email,omitempty"`
	Credential string `json:"credential,omitempty"`
}

// Session is the current identity or its absence. The zero value is the
// absent session. A Session is either fully absent or fully populated;
// no partially written identity is ever observable.
type Session struct {
	identity *Identity
}

// Authenticated wraps an identity in a present Session.
func Authenticated(id Identity) Session {
	return Session{identity: &id}
}

// Present reports whether an identity is established.
func (s Session) Present() bool {
	return s.identity != nil
}

// Identity returns the session's identity and whether one is present.
func (s Session) Identity() (Identity, bool) {
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// Username returns the identity's username, or "" for an absent session.
func (s Session) Username() string {
	if s.identity == nil {
		return ""
	}
	return s.identity.Username
}

// Credential returns the identity's bearer credential, or "" when absent.
func (s Session) Credential() string {
	if s.identity == nil {
		return ""
	}
	return s.identity.Credential
}

// Equal reports whether two sessions hold the same identity state.
func (s Session) Equal(other Session) bool {
	if (s.identity == nil) != (other.identity == nil) {
		return false
	}
	if s.identity == nil {
		return true
	}
	return *s.identity == *other.identity
}
