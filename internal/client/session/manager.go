package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/brainswap/internal/client/client"
	"github.com/dmitrijs2005/brainswap/internal/client/models"
	"github.com/dmitrijs2005/brainswap/internal/logging"
)

const DefaultCheckInterval = 2 * time.Second

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrAlreadyStarted   = errors.New("session manager already started")
)

// API is the part of the backend the session needs.
type API interface {
	Login(ctx context.Context, req models.LoginRequest) (string, error)
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// Manager owns the session: the token, its decoded claims, the cached
// profile, and the background checks that end the session when the stored
// token disappears, stops parsing or expires.
//
// Transitions and event delivery are serialized by opMu, so subscribers see
// events in transition order. A subscriber must not call Login, Register,
// Logout, Check, RefreshProfile or HandleError from inside its callback.
type Manager struct {
	store     Store
	api       API
	log       logging.Logger
	interval  time.Duration
	now       func() time.Time
	watchPath string

	opMu sync.Mutex

	mu      sync.RWMutex
	state   State
	token   string
	claims  Claims
	profile *models.User

	subsMu  sync.Mutex
	subs    map[int]func(Event)
	nextSub int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type Option func(*Manager)

func WithCheckInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.interval = d
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithStorageWatch makes the manager re-check the session whenever the
// storage file at path (or its -wal/-journal companions) changes.
func WithStorageWatch(path string) Option {
	return func(m *Manager) { m.watchPath = path }
}

func NewManager(store Store, api API, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		api:      api,
		log:      logging.Nop(),
		interval: DefaultCheckInterval,
		now:      time.Now,
		subs:     make(map[int]func(Event)),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Start restores the session from storage, fetches the profile when a valid
// token was found, and launches the background checks. Stop ends them.
func (m *Manager) Start(ctx context.Context) error {
	m.opMu.Lock()
	if m.cancel != nil {
		m.opMu.Unlock()
		return ErrAlreadyStarted
	}

	tok, err := m.store.Token(ctx)
	if err != nil {
		m.opMu.Unlock()
		return fmt.Errorf("failed to read session token: %w", err)
	}

	authenticated := false
	if tok != "" {
		claims, reason := m.evaluate(tok)
		if reason != "" {
			m.log.Info(ctx, "stored session discarded", "reason", reason)
			_ = m.invalidateLocked(ctx, reason, "")
		} else {
			m.setAuthenticated(tok, claims)
			authenticated = true
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.publish(m.event(ReasonStartup, ""))
	m.opMu.Unlock()

	if authenticated {
		if _, err := m.RefreshProfile(ctx); err != nil {
			m.log.Warn(ctx, "profile fetch failed", "error", err)
		}
	}

	m.wg.Add(1)
	go m.poll(runCtx)

	if m.watchPath != "" {
		w, err := newStorageWatcher(m.watchPath)
		if err != nil {
			m.log.Warn(ctx, "storage watch disabled", "path", m.watchPath, "error", err)
		} else {
			m.wg.Add(1)
			go m.watch(runCtx, w)
		}
	}
	return nil
}

func (m *Manager) Stop() {
	m.opMu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.opMu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

func (m *Manager) poll(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = m.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// evaluate returns the claims of tok, or the reason it cannot back a session.
func (m *Manager) evaluate(tok string) (Claims, Reason) {
	claims, err := Decode(tok)
	if err != nil {
		return Claims{}, ReasonTokenMalformed
	}
	if !claims.Valid(m.now()) {
		return Claims{}, ReasonTokenExpired
	}
	return claims, ""
}

// Check compares the session with what storage holds and transitions
// accordingly. A valid token written by another process is adopted.
//
// The read happens under opMu so a Login or Logout cannot land between it
// and the transition.
func (m *Manager) Check(ctx context.Context) error {
	m.opMu.Lock()
	tok, err := m.store.Token(ctx)
	if err != nil {
		m.opMu.Unlock()
		m.log.Warn(ctx, "session check failed", "error", err)
		return fmt.Errorf("failed to read session token: %w", err)
	}

	adopted := false
	switch {
	case tok == "":
		if m.IsAuthenticated() {
			err = m.invalidateLocked(ctx, ReasonTokenMissing, "")
		}
	default:
		claims, reason := m.evaluate(tok)
		switch {
		case reason != "":
			err = m.invalidateLocked(ctx, reason, "")
		case !m.IsAuthenticated() || tok != m.Token():
			m.setAuthenticated(tok, claims)
			m.publish(m.event(ReasonStorage, ""))
			adopted = true
		}
	}
	m.opMu.Unlock()

	if adopted {
		if _, perr := m.RefreshProfile(ctx); perr != nil {
			m.log.Warn(ctx, "profile fetch failed", "error", perr)
		}
	}
	return err
}

func (m *Manager) setAuthenticated(tok string, claims Claims) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateAuthenticated
	m.token = tok
	m.claims = claims
	m.profile = nil
}

// invalidateLocked enters Unauthenticated and clears storage. opMu must be
// held. Subscribers hear about it when the state changed, and always for
// connectivity loss so the banner reaches them.
func (m *Manager) invalidateLocked(ctx context.Context, reason Reason, message string) error {
	m.mu.Lock()
	was := m.state
	m.state = StateUnauthenticated
	m.token = ""
	m.claims = Claims{}
	m.profile = nil
	m.mu.Unlock()

	err := m.store.Clear(ctx)
	if err != nil {
		m.log.Error(ctx, "failed to clear session storage", "error", err)
		err = fmt.Errorf("failed to clear session: %w", err)
	}

	if was == StateAuthenticated || reason == ReasonUnavailable {
		m.log.Info(ctx, "session ended", "reason", reason)
		m.publish(m.event(reason, message))
	}
	return err
}

func (m *Manager) invalidate(ctx context.Context, reason Reason, message string) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	return m.invalidateLocked(ctx, reason, message)
}

func (m *Manager) authenticate(ctx context.Context, tok, username string, reason Reason) error {
	claims, err := Decode(tok)
	if err != nil {
		return err
	}
	if claims.Username != "" {
		username = claims.Username
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()
	if err := m.store.Save(ctx, tok, username); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	m.setAuthenticated(tok, claims)
	m.log.Info(ctx, "session started", "reason", reason, "user_id", claims.UserID)
	m.publish(m.event(reason, ""))
	return nil
}

// Login authenticates, stores the token and fetches the profile with it
// before returning.
func (m *Manager) Login(ctx context.Context, username, password string) (*models.User, error) {
	tok, err := m.api.Login(ctx, models.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := m.authenticate(ctx, tok, username, ReasonLogin); err != nil {
		return nil, err
	}
	return m.RefreshProfile(ctx)
}

func (m *Manager) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	tok, err := m.api.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if err := m.authenticate(ctx, tok, req.Username, ReasonRegister); err != nil {
		return nil, err
	}
	return m.RefreshProfile(ctx)
}

func (m *Manager) Logout(ctx context.Context) error {
	return m.invalidate(ctx, ReasonLogout, "")
}

// RefreshProfile replaces the cached profile with a fresh GET /users/{id}.
// On failure the cache is emptied; 401/403 also end the session.
func (m *Manager) RefreshProfile(ctx context.Context) (*models.User, error) {
	m.mu.RLock()
	tok, id, authed := m.token, m.claims.UserID, m.state == StateAuthenticated
	m.mu.RUnlock()
	if !authed {
		return nil, ErrNotAuthenticated
	}

	u, err := m.api.GetUser(ctx, id)

	m.opMu.Lock()
	if err != nil {
		m.mu.Lock()
		if m.token == tok {
			m.profile = nil
		}
		m.mu.Unlock()
		m.opMu.Unlock()
		return nil, m.HandleError(fmt.Errorf("fetch profile: %w", err))
	}
	defer m.opMu.Unlock()

	m.mu.Lock()
	if m.token != tok {
		m.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	m.profile = u.Clone()
	m.mu.Unlock()

	m.publish(m.event(ReasonProfile, ""))
	return u.Clone(), nil
}

// HandleError ends the session when err is a 401/403 from the backend. It
// returns err unchanged so callers can keep classifying it.
func (m *Manager) HandleError(err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		_ = m.invalidate(context.Background(), ReasonUnauthorized, "")
	}
	return err
}

// HandleUnavailable is the HTTP client's OnUnavailable hook.
func (m *Manager) HandleUnavailable(message string) {
	_ = m.invalidate(context.Background(), ReasonUnavailable, message)
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// Token is the bearer token for API requests, "" when unauthenticated.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) Claims() (Claims, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.claims, m.state == StateAuthenticated
}

// CurrentUser returns a copy of the cached profile, nil when there is none.
func (m *Manager) CurrentUser() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profile.Clone()
}

// Subscribe registers fn for every future Event.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.subsMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subsMu.Lock()
			delete(m.subs, id)
			m.subsMu.Unlock()
		})
	}
}

func (m *Manager) event(reason Reason, message string) Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Event{State: m.state, Reason: reason, Message: message, Profile: m.profile.Clone()}
}

// publish must be called with opMu held.
func (m *Manager) publish(ev Event) {
	m.subsMu.Lock()
	fns := make([]func(Event), 0, len(m.subs))
	for i := 0; i < m.nextSub; i++ {
		if fn, ok := m.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	m.subsMu.Unlock()

	for _, fn := range fns {
		e := ev
		e.Profile = ev.Profile.Clone()
		fn(e)
	}
}
