package blog

import "errors"

var (
	// ErrAuthRequired is returned when a mutation is attempted without a
	// session. No network call is made; the caller should send the user to
	// the login screen.
	ErrAuthRequired = errors.New("authentication required")
	// ErrSessionExpired is returned when the backend rejects the credential.
	// The session is already cleared when this error surfaces.
	ErrSessionExpired = errors.New("session expired, log in again")
	// ErrForbidden is returned when a session is present but may not mutate
	// this specific post. The session is left untouched.
	ErrForbidden = errors.New("not allowed to modify this post")
	// ErrUnavailable is returned for transport failures unrelated to
	// authentication: network errors, malformed responses, backend crashes.
	// Retrying is a user decision; the client never retries on its own.
	ErrUnavailable = errors.New("blog service unavailable")

	// ErrNilStore is returned when constructing a Client without a session store.
	ErrNilStore = errors.New("session store is required")

	// Validation errors, caught before any network call.
	ErrMissingCredentials = errors.New("email and password are required")
	ErrMissingUsername    = errors.New("username is required")
	ErrMissingTitle       = errors.New("post title is required")
	ErrMissingBody        = errors.New("post body is required")
	ErrMissingID          = errors.New("post id is required")
)

// RequestError carries the failure message from the backend's response
// envelope. It is user-visible and implies no session change.
type RequestError struct {
	Message string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}
