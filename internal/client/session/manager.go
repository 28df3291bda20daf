package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/mindeducation/internal/client/api"
	"github.com/dmitrijs2005/mindeducation/internal/client/models"
	"github.com/dmitrijs2005/mindeducation/internal/client/notify"
	"github.com/dmitrijs2005/mindeducation/internal/client/storage"
	"github.com/dmitrijs2005/mindeducation/internal/client/validation"
	"github.com/dmitrijs2005/mindeducation/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionChanged   = errors.New("session changed while the request was in flight")
)

const (
	msgSignInFailed  = "Could not sign in to your account."
	msgSignedIn      = "Signed in."
	msgSaveFailed    = "Could not save some information, try signing in again."
	msgRemoveFailed  = "Could not remove some information."
	msgRefreshFailed = "Could not update some information, try signing in again."
)

// CredentialStore is the part of storage.Repository the manager uses.
type CredentialStore interface {
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, keys ...string) error
}

// AuthAPI is the part of the remote API the manager calls.
type AuthAPI interface {
	Login(ctx context.Context, req api.LoginRequest) (string, error)
	GetUser(ctx context.Context) (*models.User, error)
}

// Params holds the manager dependencies. Store and API are required.
type Params struct {
	Store      CredentialStore
	API        AuthAPI
	Context    *SessionContext
	Notifier   notify.Notifier
	Logger     logging.Logger
	Registerer prometheus.Registerer
}

// Manager owns the session state and keeps the store and SessionContext in
// step with it.
type Manager struct {
	store    CredentialStore
	api      AuthAPI
	sc       *SessionContext
	notifier notify.Notifier
	logger   logging.Logger
	metrics  *metrics

	mu         sync.Mutex
	state      State
	generation uint64
	observers  []observer
	nextID     int

	// storeMu serializes store writes with SignOut's removal. Taken before mu.
	storeMu sync.Mutex

	ready chan struct{}
}

type observer struct {
	id int
	fn func(State)
}

// NewManager builds the manager and starts restoring the saved session in
// the background. ctx bounds the restore only.
func NewManager(ctx context.Context, p Params) *Manager {
	m := &Manager{
		store:    p.Store,
		api:      p.API,
		sc:       p.Context,
		notifier: p.Notifier,
		logger:   p.Logger,
		metrics:  newMetrics(p.Registerer),
		state:    State{Loading: true},
		ready:    make(chan struct{}),
	}
	if m.sc == nil {
		m.sc = NewSessionContext()
	}
	if m.notifier == nil {
		m.notifier = notify.Multi{}
	}
	if m.logger == nil {
		m.logger = logging.Discard()
	}

	go m.restore(ctx)
	return m
}

// Ready is closed once the boot-time restore has finished.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

// WaitReady blocks until the restore finishes or ctx is done.
func (m *Manager) WaitReady(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns a snapshot of the current session.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every transition.
// fn runs on the goroutine that caused the transition and must not block.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.observers = append(m.observers, observer{id: id, fn: fn})
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, o := range m.observers {
			if o.id == id {
				m.observers = append(m.observers[:i], m.observers[i+1:]...)
				return
			}
		}
	}
}

// restore runs once, from NewManager. A sign-in or sign-out that completed
// while the store was being read wins over the saved session.
func (m *Manager) restore(ctx context.Context) {
	token, user := m.loadSaved(ctx)

	m.mu.Lock()
	if token != "" && m.generation == 0 {
		m.sc.Bind(token)
		m.state.Token = token
		m.state.User = user
	}
	m.state.Loading = false
	snap := m.snapshotLocked()
	m.mu.Unlock()

	close(m.ready)
	m.logger.Info(ctx, "session restored", "authenticated", snap.Authenticated())
	m.emit(snap)
}

// loadSaved never fails: anything unreadable counts as "not signed in".
func (m *Manager) loadSaved(ctx context.Context) (string, *models.User) {
	raw, ok, err := m.store.Load(ctx, storage.KeyToken)
	if err != nil {
		m.metrics.persistenceFailures.WithLabelValues("load_token").Inc()
		m.logger.Warn(ctx, "failed to load saved token", "error", err)
		return "", nil
	}
	if !ok {
		return "", nil
	}

	var token string
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		m.logger.Warn(ctx, "saved token is not valid JSON", "error", err)
		return "", nil
	}
	if token == "" {
		return "", nil
	}

	raw, ok, err = m.store.Load(ctx, storage.KeyUser)
	if err != nil {
		m.metrics.persistenceFailures.WithLabelValues("load_user").Inc()
		m.logger.Warn(ctx, "failed to load cached user", "error", err)
		return token, nil
	}
	if !ok {
		return token, nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		m.logger.Warn(ctx, "cached user is not valid JSON", "error", err)
		return token, nil
	}
	return token, &user
}

// SignIn validates creds, logs in remotely and binds the returned token.
// Validation problems come back as *validation.Error before any request is
// made; remote failures are returned wrapped and leave the state untouched.
func (m *Manager) SignIn(ctx context.Context, creds models.Credentials) (string, error) {
	if err := validation.Login(creds); err != nil {
		return "", err
	}

	identifier := strings.TrimSpace(creds.Identifier)
	token, err := m.api.Login(ctx, api.LoginRequest{EmailOrCpf: identifier, Password: creds.Password})
	if err != nil {
		m.metrics.signIns.WithLabelValues("failure").Inc()
		m.logger.Warn(ctx, "sign in failed", "identifier", identifier, "error", err)
		m.notifier.Notify(notify.Error("Error", msgSignInFailed))
		return "", fmt.Errorf("sign in: %w", err)
	}

	m.mu.Lock()
	m.sc.Bind(token)
	m.state.Token = token
	m.state.User = nil
	m.generation++
	gen := m.generation
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.metrics.signIns.WithLabelValues("success").Inc()
	m.logger.Info(ctx, "signed in", "identifier", identifier, "token", Redact(token))
	m.emit(snap)

	m.persist(ctx, gen, "save_token", storage.KeyToken, token)
	m.notifier.Notify(notify.Success("Success", msgSignedIn))

	return token, nil
}

// SignOut drops the session: the in-memory state and the request header are
// cleared first, then the saved token and profile are removed. A failed
// removal is reported to the user but does not restore the session.
func (m *Manager) SignOut(ctx context.Context) {
	m.mu.Lock()
	m.generation++
	m.sc.Clear()
	m.state.Token = ""
	m.state.User = nil
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.emit(snap)
	m.metrics.signOuts.Inc()

	m.storeMu.Lock()
	err := m.store.Remove(ctx, storage.KeyToken, storage.KeyUser)
	m.storeMu.Unlock()
	if err != nil {
		m.metrics.persistenceFailures.WithLabelValues("remove").Inc()
		m.logger.Error(ctx, "failed to remove saved credentials", "error", err)
		m.notifier.Notify(notify.Error("Error", msgRemoveFailed))
		return
	}
	m.logger.Info(ctx, "signed out")
}

// RefreshUser replaces the cached profile with the server's copy. userID is
// informational; the server derives the user from the token.
func (m *Manager) RefreshUser(ctx context.Context, userID models.UserID) error {
	m.mu.Lock()
	if m.state.Token == "" {
		m.mu.Unlock()
		return ErrNotAuthenticated
	}
	gen := m.generation
	m.mu.Unlock()

	user, err := m.api.GetUser(ctx)
	if err != nil {
		m.logger.Warn(ctx, "failed to refresh user", "user_id", userID, "error", err)
		m.notifier.Notify(notify.Error("Error", msgRefreshFailed))
		return fmt.Errorf("refresh user: %w", err)
	}
	if userID != "" && user.ID != "" && user.ID != userID {
		m.logger.Warn(ctx, "server returned a different user", "requested", userID, "got", user.ID)
	}

	m.mu.Lock()
	if m.generation != gen || m.state.Token == "" {
		m.mu.Unlock()
		m.metrics.staleRefreshes.Inc()
		m.logger.Debug(ctx, "dropping stale user refresh", "user_id", userID)
		return ErrSessionChanged
	}
	m.state.User = user.Clone()
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.emit(snap)

	m.persist(ctx, gen, "save_user", storage.KeyUser, user)
	return nil
}

// persist stores value JSON-encoded, best effort. Nothing is written when
// the session has moved past gen. A new token also drops the previous
// account's cached profile.
func (m *Manager) persist(ctx context.Context, gen uint64, op, key string, value any) {
	b, err := json.Marshal(value)
	if err != nil {
		m.logger.Error(ctx, "failed to encode credential", "key", key, "error", err)
		return
	}

	m.storeMu.Lock()
	defer m.storeMu.Unlock()

	if !m.isGeneration(gen) {
		m.logger.Debug(ctx, "skipping stale credential write", "key", key)
		return
	}

	if err := m.store.Save(ctx, key, string(b)); err != nil {
		m.metrics.persistenceFailures.WithLabelValues(op).Inc()
		m.logger.Error(ctx, "failed to persist credential", "key", key, "error", err)
		m.notifier.Notify(notify.Error("Error", msgSaveFailed))
		return
	}

	if key == storage.KeyToken {
		if err := m.store.Remove(ctx, storage.KeyUser); err != nil {
			m.metrics.persistenceFailures.WithLabelValues("remove_user").Inc()
			m.logger.Warn(ctx, "failed to drop cached user", "error", err)
		}
	}
}

func (m *Manager) isGeneration(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation == gen
}

func (m *Manager) snapshotLocked() State {
	return State{
		Loading: m.state.Loading,
		Token:   m.state.Token,
		User:    m.state.User.Clone(),
	}
}

func (m *Manager) emit(s State) {
	m.mu.Lock()
	obs := make([]observer, len(m.observers))
	copy(obs, m.observers)
	m.mu.Unlock()

	for _, o := range obs {
		o.fn(s)
	}
}
