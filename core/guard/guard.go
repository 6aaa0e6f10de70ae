// Package guard decides whether a view may be shown for the current session.
//
// Decide is a pure function and never fails; it returns a decision value the
// caller turns into rendering or a redirect. Callers holding a view open for
// longer than one command must re-run Decide on every session notification,
// so that a logout in another process evicts a guarded view here.
package guard

import "github.com/inklet/inklet/core/session"

// Decision is the outcome of an access check.
type Decision int

const (
	// Render allows the view to be shown.
	Render Decision = iota
	// RedirectLogin sends an unauthenticated visitor to the login screen.
	RedirectLogin
	// RedirectHome keeps an authenticated identity off login and register screens.
	RedirectHome
)

// String returns a human-readable decision name.
func (d Decision) String() string {
	switch d {
	case Render:
		return "render"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Decide applies the route's authentication requirement to the session:
// a guarded view without a session redirects to login, an auth screen with a
// session redirects home, everything else renders.
func Decide(requireAuth bool, s session.Session) Decision {
	switch {
	case requireAuth && !s.Present():
		return RedirectLogin
	case !requireAuth && s.Present():
		return RedirectHome
	default:
		return Render
	}
}

// Route describes one navigable view. Guarded routes consult Decide with
// their RequireAuth flag; unguarded routes (public reads) always render.
type Route struct {
	Name        string
	Guarded     bool
	RequireAuth bool
}

// Decide evaluates the route against the session.
func (r Route) Decide(s session.Session) Decision {
	if !r.Guarded {
		return Render
	}
	return Decide(r.RequireAuth, s)
}
