// Package authz decides whether the current identity may mutate a resource.
//
// The rule is author ownership: a resource may be edited or deleted only by
// the identity that created it. The decision is a pure function of the
// session and the resource's owner; it holds no state and never fails.
// Hiding a mutation control in the UI is a usability affordance, not the
// authorization boundary — callers must re-check here immediately before
// issuing the mutation.
package authz

import "github.com/inklet/inklet/core/session"

// Resource is anything with an owning identity.
type Resource interface {
	// AuthorUsername returns the username of the identity that created the
	// resource, or "" when the resource predates author tracking.
	AuthorUsername() string
}

// CanMutate reports whether the session's identity may edit or delete r.
// An absent session may never mutate. Resources without a recorded author
// predate author tracking and remain mutable by any authenticated identity,
// so old data does not become permanently frozen.
func CanMutate(s session.Session, r Resource) bool {
	if !s.Present() {
		return false
	}
	author := r.AuthorUsername()
	if author == "" {
		return true
	}
	return s.Username() == author
}
