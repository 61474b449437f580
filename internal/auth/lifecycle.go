package auth

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/coworkhq/cowork/internal/api"
	"github.com/coworkhq/cowork/internal/models"
	"github.com/coworkhq/cowork/internal/session"
)

// State is the session lifecycle state
type State int

const (
	StateUnauthenticated State = iota
	StateRestoring
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateRestoring:
		return "restoring"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unauthenticated"
}

// Lifecycle owns sign-in, sign-up, restore-on-start and sign-out,
// coordinating the session store and the API client. It starts in
// Restoring when a persisted token exists, so dependent UI can hold off
// rendering protected content until restoration resolves.
type Lifecycle struct {
	api   *api.Client
	store *session.Store

	mu    sync.Mutex
	state State
}

// NewLifecycle creates the lifecycle over an API client and session store
func NewLifecycle(client *api.Client, store *session.Store) *Lifecycle {
	l := &Lifecycle{api: client, store: store}
	if store.Get().Token != "" {
		l.state = StateRestoring
	}
	return l
}

// State returns the current lifecycle state
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// User returns the cached profile, nil when not authenticated
func (l *Lifecycle) User() *models.User {
	return l.store.Get().User
}

func (l *Lifecycle) setState(s State) {
	l.mu.Lock()
	prev := l.state
	l.state = s
	l.mu.Unlock()
	if prev != s {
		log.WithFields(log.Fields{"from": prev, "to": s}).Info("session state")
	}
}

// Restore validates the persisted token against the profile endpoint.
// Any failure purges the token and lands in Unauthenticated.
func (l *Lifecycle) Restore(ctx context.Context) (*models.User, error) {
	token := l.store.Get().Token
	if token == "" {
		l.setState(StateUnauthenticated)
		return nil, nil
	}

	user, err := l.api.Me(ctx)
	if err != nil {
		// The 401 path already cleared the store; clear again for the
		// network/expired cases so the stale token never survives.
		if cerr := l.store.Clear(); cerr != nil {
			log.WithError(cerr).Warn("purging stale token")
		}
		l.setState(StateUnauthenticated)
		return nil, err
	}

	if err := l.store.Set(token, user); err != nil {
		return nil, err
	}
	l.setState(StateAuthenticated)
	return user, nil
}

// Login exchanges credentials for a token, then fetches the profile.
// Both must succeed; if the profile fetch fails the token is purged and
// the session stays Unauthenticated.
func (l *Lifecycle) Login(ctx context.Context, loginID, password string) (*models.User, error) {
	resp, err := l.api.Login(ctx, api.LoginRequest{LoginID: loginID, Password: password})
	if err != nil {
		return nil, err
	}
	if err := l.store.Set(resp.AccessToken, nil); err != nil {
		return nil, err
	}

	user, err := l.api.Me(ctx)
	if err != nil {
		if cerr := l.store.Clear(); cerr != nil {
			log.WithError(cerr).Warn("purging token after failed profile fetch")
		}
		l.setState(StateUnauthenticated)
		return nil, err
	}

	if err := l.store.Set(resp.AccessToken, user); err != nil {
		return nil, err
	}
	l.setState(StateAuthenticated)
	return user, nil
}

// Signup registers a new account. Not a state transition: the account
// still has to log in explicitly.
func (l *Lifecycle) Signup(ctx context.Context, loginID, password, nickname string) error {
	return l.api.Signup(ctx, api.SignupRequest{LoginID: loginID, Password: password, Nickname: nickname})
}

// Logout clears the session. Always succeeds locally.
func (l *Lifecycle) Logout() {
	if err := l.store.Clear(); err != nil {
		log.WithError(err).Warn("clearing session on logout")
	}
	l.setState(StateUnauthenticated)
}

// Invalidate records a forced teardown after the gateway handled a 401.
// The store is already cleared by then; this only settles the state.
func (l *Lifecycle) Invalidate() {
	l.setState(StateUnauthenticated)
}
