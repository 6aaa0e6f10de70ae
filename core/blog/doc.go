// Package blog implements the API client for the blog backend: public reads
// of posts plus session-gated create, edit and delete. The backend answers
// every call with a {success, message, data} envelope; envelope failures
// surface as *RequestError, auth failures as the sentinel errors in
// errors.go, and everything else as ErrUnavailable.
package blog
