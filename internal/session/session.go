// Package session manages the signed-in identity: bootstrapping from a
// persisted token, credential sign-in/sign-up, and sign-out with cache
// teardown.
package session

import (
	"context"

	"github.com/Anshpatel2434/Demaze-task/internal/credential"
	"github.com/Anshpatel2434/Demaze-task/internal/gateway"
	"github.com/Anshpatel2434/Demaze-task/internal/model"
)

// Authenticator is the credential exchange surface. The remote gateway
// implements it; the local gateway has no passwords and does not.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (token string, err error)
	SignUp(ctx context.Context, email, password string) (token string, err error)
}

// TokenStore persists the access token between runs. The default goes
// through the system keyring.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// keyringTokens is the keyring-backed TokenStore.
type keyringTokens struct{}

func (keyringTokens) Load() (string, error) {
	return credential.Get(credential.SessionTokenKey)
}

func (keyringTokens) Save(token string) error {
	return credential.Set(credential.SessionTokenKey, token)
}

func (keyringTokens) Clear() error {
	return credential.Delete(credential.SessionTokenKey)
}

// Session is the resolved identity for this run.
type Session struct {
	UserID  string
	Profile model.UserProfile
}

// IsAdmin reports whether the signed-in user may manage projects.
func (s Session) IsAdmin() bool { return s.Profile.IsAdmin }

// Manager resolves and tears down sessions. Cache owners register their
// clear functions so sign-out leaves no data from the previous identity
// behind.
type Manager struct {
	gw     gateway.Gateway
	auth   Authenticator
	tokens TokenStore

	clearers []func()
}

// NewManager creates a manager over the given gateway. auth may be nil
// for gateways with ambient identity (the local one).
func NewManager(gw gateway.Gateway, auth Authenticator) *Manager {
	return &Manager{gw: gw, auth: auth, tokens: keyringTokens{}}
}

// Tokens overrides the token store, for tests.
func (m *Manager) Tokens(ts TokenStore) { m.tokens = ts }

// OnSignOut registers a teardown hook invoked after every sign-out.
func (m *Manager) OnSignOut(clear func()) {
	m.clearers = append(m.clearers, clear)
}

// Bootstrap resolves the current identity, or nil when signed out. A
// resolvable user id without a profile row is an inconsistency surfaced
// as an error rather than a half-usable session.
func (m *Manager) Bootstrap(ctx context.Context) (*Session, error) {
	userID, err := m.gw.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, nil
	}

	profile, err := m.gw.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, &gateway.Error{
			Op:      "bootstrap session",
			Message: "signed-in user has no profile",
		}
	}

	return &Session{UserID: userID, Profile: *profile}, nil
}

// SignIn exchanges credentials for a session, persisting the token for
// the next run.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if m.auth == nil {
		return nil, &gateway.Error{Op: "sign in", Message: "gateway does not support credential sign-in"}
	}

	token, err := m.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	// Persisting the token is best-effort; a keyring failure costs a
	// re-login next run, not this session.
	_ = m.tokens.Save(token)

	return m.Bootstrap(ctx)
}

// SignUp registers a new identity. When the gateway issues a session
// immediately the new user is signed in; otherwise nil is returned and
// the caller should prompt for sign-in after confirmation.
func (m *Manager) SignUp(ctx context.Context, email, password string) (*Session, error) {
	if m.auth == nil {
		return nil, &gateway.Error{Op: "sign up", Message: "gateway does not support credential sign-up"}
	}

	token, err := m.auth.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}
	_ = m.tokens.Save(token)

	return m.Bootstrap(ctx)
}

// SignOut terminates the session, forgets the persisted token, and runs
// every registered cache teardown.
func (m *Manager) SignOut(ctx context.Context) error {
	err := m.gw.SignOut(ctx)
	_ = m.tokens.Clear()
	for _, clear := range m.clearers {
		clear()
	}
	return err
}
