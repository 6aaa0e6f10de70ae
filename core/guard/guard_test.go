package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inklet/inklet/core/guard"
	"github.com/inklet/inklet/core/session"
)

func TestDecide(t *testing.T) {
	t.Parallel()

	absent := session.Session{}
	present := session.Authenticated(session.Identity{Username: "alice"})

	tests := []struct {
		name        string
		requireAuth bool
		session     session.Session
		want        guard.Decision
	}{
		{"guarded view without session redirects to login", true, absent, guard.RedirectLogin},
		{"guarded view with session renders", true, present, guard.Render},
		{"auth screen with session redirects home", false, present, guard.RedirectHome},
		{"auth screen without session renders", false, absent, guard.Render},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, guard.Decide(tt.requireAuth, tt.session))
		})
	}
}

func TestDecide_ReactsToSessionChange(t *testing.T) {
	t.Parallel()

	// Login then guarded navigation: the same check flips once the store holds
	// an identity, and flips back after a clear.
	store, err := session.New(t.TempDir() + "/session.json")
	assert.NoError(t, err)

	assert.Equal(t, guard.RedirectLogin, guard.Decide(true, store.Current()))

	assert.NoError(t, store.Set(session.Identity{Username: "alice"}))
	assert.Equal(t, guard.Render, guard.Decide(true, store.Current()))

	assert.NoError(t, store.Clear())
	assert.Equal(t, guard.RedirectLogin, guard.Decide(true, store.Current()))
}

func TestRoute_Decide(t *testing.T) {
	t.Parallel()

	present := session.Authenticated(session.Identity{Username: "alice"})

	public := guard.Route{Name: "list"}
	assert.Equal(t, guard.Render, public.Decide(session.Session{}))
	assert.Equal(t, guard.Render, public.Decide(present))

	create := guard.Route{Name: "create", Guarded: true, RequireAuth: true}
	assert.Equal(t, guard.RedirectLogin, create.Decide(session.Session{}))
	assert.Equal(t, guard.Render, create.Decide(present))

	login := guard.Route{Name: "login", Guarded: true, RequireAuth: false}
	assert.Equal(t, guard.Render, login.Decide(session.Session{}))
	assert.Equal(t, guard.RedirectHome, login.Decide(present))
}

func TestDecision_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "render", guard.Render.String())
	assert.Equal(t, "redirect-login", guard.RedirectLogin.String())
	assert.Equal(t, "redirect-home", guard.RedirectHome.String())
	assert.Equal(t, "unknown", guard.Decision(42).String())
}
