package blog

import (
	"bytes"
	"encoding/json"
	"io"
	"time"
)

// ID is an opaque, stable post identifier. The backend serializes it as a
// JSON number; older API revisions used strings. Both decode to the string
// form, which is what the request paths need anyway.
type ID string

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (id *ID) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = ID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*id = ID(s)
	return nil
}

// Time decodes the backend's loosely formatted timestamps. Several layouts
// coexist across API revisions; an unrecognized value decodes to the zero
// time rather than failing the whole post.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
}

// UnmarshalJSON implements lenient timestamp decoding.
func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return nil
}

// Post is one blog entry as the backend returns it. ID is immutable once
// created and Author, once present, never changes; the client treats both
// as read-only.
type Post struct {
	ID            ID     `json:"id"`
	Title         string `json:"title"`
	Body          string `json:"body"`
	ImageFilename string `json:"image_filename,omitempty"`
	Author        string `json:"author,omitempty"`
	CreatedAt     Time   `json:"created_date"`
	UpdatedAt     Time   `json:"update_date"`
}

// AuthorUsername implements authz.Resource.
func (p Post) AuthorUsername() string {
	return p.Author
}

// Draft holds the caller-editable fields of a post.
type Draft struct {
	Title string
	Body  string
}

func (d Draft) validate() error {
	if d.Title == "" {
		return ErrMissingTitle
	}
	if d.Body == "" {
		return ErrMissingBody
	}
	return nil
}

// Attachment is an optional image uploaded alongside a draft.
type Attachment struct {
	Name   string
	Reader io.Reader
}
