package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inklet/inklet/core/authz"
	"github.com/inklet/inklet/core/session"
)

type ownedBy string

func (o ownedBy) AuthorUsername() string { return string(o) }

func TestCanMutate(t *testing.T) {
	t.Parallel()

	alice := session.Authenticated(session.Identity{Username: "alice"})
	bob := session.Authenticated(session.Identity{Username: "bob"})

	tests := []struct {
		name    string
		session session.Session
		author  string
		want    bool
	}{
		{"author may mutate own post", alice, "alice", true},
		{"other identity may not mutate", bob, "alice", false},
		{"absent session may never mutate", session.Session{}, "alice", false},
		{"absent session may not mutate untracked post", session.Session{}, "", false},
		{"any identity may mutate untracked post", bob, "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, authz.CanMutate(tt.session, ownedBy(tt.author)))
		})
	}
}
