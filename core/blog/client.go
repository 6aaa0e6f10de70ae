package blog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inklet/inklet/core/authz"
	"github.com/inklet/inklet/core/session"
	"github.com/inklet/inklet/pkg/logger"
)

// DefaultBaseURL matches the backend's development address.
const DefaultBaseURL = "http://localhost:5000"

const defaultTimeout = 15 * time.Second

// Client talks to the blog backend. Reads (List, Get) need no session;
// mutations (Create, Edit, Delete) require one and re-check the ownership
// policy against the server's copy of the post before issuing the call.
//
// The client never retries and never mutates the session except on one
// path: a 401 response clears the store, forcing re-authentication.
type Client struct {
	baseURL string
	http    *http.Client
	store   *session.Store
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the backend address. A trailing slash is stripped.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger configures structured logging for the client.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a Client bound to the given session store.
func New(store *session.Store, opts ...Option) (*Client, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		store:   store,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Login authenticates against the backend and, on success, persists the
// returned identity in the session store.
func (c *Client) Login(ctx context.Context, email, password string) (session.Identity, error) {
	if email == "" || password == "" {
		return session.Identity{}, ErrMissingCredentials
	}

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return session.Identity{}, errors.Join(ErrUnavailable, err)
	}

	env, err := c.do(ctx, http.MethodPost, "/api/login", bytes.NewReader(body), "application/json", false)
	if err != nil {
		return session.Identity{}, err
	}

	id, err := decode[session.Identity](env)
	if err != nil {
		return session.Identity{}, err
	}
	if err := c.store.Set(id); err != nil {
		return session.Identity{}, err
	}
	return id, nil
}

// Register creates an account and, on success, persists the returned
// identity in the session store.
func (c *Client) Register(ctx context.Context, username, email, password string) (session.Identity, error) {
	if username == "" {
		return session.Identity{}, ErrMissingUsername
	}
	if email == "" || password == "" {
		return session.Identity{}, ErrMissingCredentials
	}

	body, err := json.Marshal(map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return session.Identity{}, errors.Join(ErrUnavailable, err)
	}

	env, err := c.do(ctx, http.MethodPost, "/api/register", bytes.NewReader(body), "application/json", false)
	if err != nil {
		return session.Identity{}, err
	}

	id, err := decode[session.Identity](env)
	if err != nil {
		return session.Identity{}, err
	}
	if err := c.store.Set(id); err != nil {
		return session.Identity{}, err
	}
	return id, nil
}

// Logout discards the local session. The credential is opaque to the client
// and the backend holds no server-side session to revoke.
func (c *Client) Logout() error {
	return c.store.Clear()
}

// List fetches all posts. No session required.
func (c *Client) List(ctx context.Context) ([]Post, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/blogs", nil, "", false)
	if err != nil {
		return nil, err
	}
	return decode[[]Post](env)
}

// Get fetches a single post. No session required.
func (c *Client) Get(ctx context.Context, id ID) (Post, error) {
	if id == "" {
		return Post{}, ErrMissingID
	}
	env, err := c.do(ctx, http.MethodGet, "/api/blog/"+url.PathEscape(string(id)), nil, "", false)
	if err != nil {
		return Post{}, err
	}
	return decode[Post](env)
}

// Create publishes a new post and returns the server's copy of it.
func (c *Client) Create(ctx context.Context, d Draft, att *Attachment) (Post, error) {
	if err := c.requireSession(); err != nil {
		return Post{}, err
	}
	if err := d.validate(); err != nil {
		return Post{}, err
	}

	body, contentType, err := encodeDraft(d, att)
	if err != nil {
		return Post{}, err
	}

	env, err := c.do(ctx, http.MethodPost, "/api/submit", body, contentType, true)
	if err != nil {
		return Post{}, err
	}
	return decode[Post](env)
}

// Edit updates a post and returns the server's copy. Callers must replace
// their local draft with the returned post: the server may normalize fields.
func (c *Client) Edit(ctx context.Context, id ID, d Draft, att *Attachment) (Post, error) {
	if err := c.requireSession(); err != nil {
		return Post{}, err
	}
	if id == "" {
		return Post{}, ErrMissingID
	}
	if err := d.validate(); err != nil {
		return Post{}, err
	}
	if err := c.authorize(ctx, id); err != nil {
		return Post{}, err
	}

	body, contentType, err := encodeDraft(d, att)
	if err != nil {
		return Post{}, err
	}

	env, err := c.do(ctx, http.MethodPut, "/api/blog/"+url.PathEscape(string(id))+"/edit", body, contentType, true)
	if err != nil {
		return Post{}, err
	}
	return decode[Post](env)
}

// Delete removes a post. Deleting an already deleted identifier surfaces
// the backend's failure message; repeated deletes are not silently ignored.
func (c *Client) Delete(ctx context.Context, id ID) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	if id == "" {
		return ErrMissingID
	}
	if err := c.authorize(ctx, id); err != nil {
		return err
	}

	_, err := c.do(ctx, http.MethodDelete, "/api/blog/"+url.PathEscape(string(id)), nil, "", true)
	return err
}

func (c *Client) requireSession() error {
	if !c.store.Current().Present() {
		return ErrAuthRequired
	}
	return nil
}

// authorize re-checks the ownership policy against the server's copy of the
// post. On denial the mutation request is never issued.
func (c *Client) authorize(ctx context.Context, id ID) error {
	post, err := c.Get(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanMutate(c.store.Current(), post) {
		return ErrForbidden
	}
	return nil
}

// envelope is the backend's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, authed bool) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed {
		if cred := c.store.Current().Credential(); cred != "" {
			req.Header.Set("Authorization", cred)
		}
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	defer res.Body.Close()

	c.log.Debug("api call",
		logger.Component("blog"),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", res.StatusCode),
		logger.Duration(time.Since(start)))

	switch res.StatusCode {
	case http.StatusUnauthorized:
		// The sole path by which an expired credential forces re-authentication.
		if clearErr := c.store.Clear(); clearErr != nil {
			c.log.Warn("failed to clear expired session",
				logger.Component("blog"), logger.Error(clearErr))
		}
		return nil, ErrSessionExpired
	case http.StatusForbidden:
		return nil, ErrForbidden
	}

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return nil, &RequestError{Message: msg}
	}
	return &env, nil
}

func decode[T any](env *envelope) (T, error) {
	var v T
	if len(env.Data) == 0 {
		return v, errors.Join(ErrUnavailable, errors.New("response envelope has no data"))
	}
	if err := json.Unmarshal(env.Data, &v); err != nil {
		return v, errors.Join(ErrUnavailable, err)
	}
	return v, nil
}

// encodeDraft picks the request encoding: multipart form data when a file
// rides along, plain urlencoded fields otherwise.
func encodeDraft(d Draft, att *Attachment) (io.Reader, string, error) {
	if att == nil {
		form := url.Values{}
		form.Set("title", d.Title)
		form.Set("body", d.Body)
		return strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", nil
	}

	name := att.Name
	if name == "" {
		name = "upload"
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("title", d.Title); err != nil {
		return nil, "", errors.Join(ErrUnavailable, err)
	}
	if err := mw.WriteField("body", d.Body); err != nil {
		return nil, "", errors.Join(ErrUnavailable, err)
	}
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, "", errors.Join(ErrUnavailable, err)
	}
	if _, err := io.Copy(part, att.Reader); err != nil {
		return nil, "", errors.Join(ErrUnavailable, err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", errors.Join(ErrUnavailable, err)
	}
	return &buf, mw.FormDataContentType(), nil
}
