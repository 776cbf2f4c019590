package auth

import (
	"context"
	"sync"

	"github.com/tavolo/tavolo/pkg/event"
	"github.com/tavolo/tavolo/pkg/store"
)

// Snapshot is an immutable view of the auth state. Views read snapshots;
// only the container's action set mutates the underlying state.
type Snapshot struct {
	User            *User
	Token           string
	IsAuthenticated bool
	IsLoading       bool
	Err             string
}

// Role returns the current role, or "" when unauthenticated.
func (s Snapshot) Role() Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// LandingRoute resolves where this session should land: the role's
// dashboard/home when authenticated, the login page otherwise.
func (s Snapshot) LandingRoute() string {
	if !s.IsAuthenticated || s.User == nil {
		return RouteLogin
	}
	return LandingRoute(s.User.Role)
}

// ─── Actions ──────────────────────────────────────────────────────────────────

// action is the closed set of state transitions. Every mutation of the
// container goes through reduce with one of these.
type action interface{ isAction() }

type hydrated struct {
	user  *User
	token string
}
type loginStart struct{}
type loginSuccess struct {
	user  User
	token string
}
type loginFailure struct{ msg string }
type loggedOut struct{}
type userUpdated struct{ user User }
type errorCleared struct{}

func (hydrated) isAction()     {}
func (loginStart) isAction()   {}
func (loginSuccess) isAction() {}
func (loginFailure) isAction() {}
func (loggedOut) isAction()    {}
func (userUpdated) isAction()  {}
func (errorCleared) isAction() {}

// reduce is a pure function from state + action to the next state.
func reduce(s Snapshot, a action) Snapshot {
	switch a := a.(type) {
	case hydrated:
		if a.user != nil && a.token != "" {
			return Snapshot{User: a.user, Token: a.token, IsAuthenticated: true}
		}
		return Snapshot{}
	case loginStart:
		s.IsLoading = true
		s.Err = ""
		return s
	case loginSuccess:
		return Snapshot{User: &a.user, Token: a.token, IsAuthenticated: true}
	case loginFailure:
		// The error message survives until explicitly cleared.
		return Snapshot{Err: a.msg}
	case loggedOut:
		return Snapshot{}
	case userUpdated:
		if !s.IsAuthenticated {
			return s
		}
		s.User = &a.user
		return s
	case errorCleared:
		s.Err = ""
		return s
	}
	return s
}

// ─── Container ────────────────────────────────────────────────────────────────

// Container is the process-wide auth state machine. It is built
// explicitly and injected, never reached through package globals, so
// tests can run isolated instances.
type Container struct {
	mu    sync.Mutex
	state Snapshot
	svc   *Service
	store store.Store
}

// NewContainer returns a container in the loading state. Call Hydrate
// before serving reads.
func NewContainer(svc *Service, s store.Store) *Container {
	return &Container{
		state: Snapshot{IsLoading: true},
		svc:   svc,
		store: s,
	}
}

// Hydrate reads any persisted session from the store and settles the
// container into authenticated or unauthenticated.
func (c *Container) Hydrate() {
	var token string
	var user User

	if c.store.Get(store.KeyAuthToken, &token) && token != "" &&
		c.store.Get(store.KeyAuthUser, &user) && user.ID != "" {
		c.dispatch(hydrated{user: &user, token: token})
		return
	}
	c.dispatch(hydrated{})
}

// Login runs the full login transition: start, service call, then
// success or failure. The returned error carries the same message that
// is retained in the snapshot.
func (c *Container) Login(ctx context.Context, cred Credentials) error {
	c.dispatch(loginStart{})

	sess, err := c.svc.Login(ctx, cred)
	if err != nil {
		c.dispatch(loginFailure{msg: err.Error()})
		return err
	}

	c.dispatch(loginSuccess{user: sess.User, token: sess.Token})
	event.Fire(event.LoggedIn, sess.User)
	return nil
}

// Logout always ends unauthenticated with local state cleared, whatever
// the remote call does.
func (c *Container) Logout(ctx context.Context) {
	c.mu.Lock()
	token := c.state.Token
	c.mu.Unlock()

	c.svc.Logout(ctx, token)
	c.dispatch(loggedOut{})
	event.Fire(event.LoggedOut, nil)
}

// UpdateUser merges partial profile changes into the current user record
// without touching the authentication state. No-op when unauthenticated.
func (c *Container) UpdateUser(partial ProfileForm) {
	c.mu.Lock()
	snap := c.state
	c.mu.Unlock()

	if !snap.IsAuthenticated || snap.User == nil {
		return
	}

	merged := *snap.User
	if partial.Name != "" {
		merged.Name = partial.Name
	}
	if partial.Phone != "" {
		merged.Phone = partial.Phone
	}
	if partial.Email != "" {
		merged.Email = partial.Email
	}
	c.dispatch(userUpdated{user: merged})
}

// ClearError drops a retained login failure message.
func (c *Container) ClearError() {
	c.dispatch(errorCleared{})
}

// Snapshot returns the current state. The pointer fields are never
// mutated after dispatch, so the copy is safe to hand out.
func (c *Container) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Container) dispatch(a action) {
	c.mu.Lock()
	c.state = reduce(c.state, a)
	c.mu.Unlock()
}
