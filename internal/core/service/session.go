package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/pkg/metrics"
)

// DefaultResolveTimeout bounds one identity lookup against the backend.
const DefaultResolveTimeout = 5 * time.Second

// NoticeKind is the visual style of a Notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient message shown once on the next rendered page.
type Notice struct {
	Kind    NoticeKind
	Title   string
	Message string
}

// Notifier accepts transient notices.
type Notifier interface {
	Notify(n Notice)
}

// browserTokens is the token store narrowed to one browser.
type browserTokens struct {
	store ports.TokenStore
	id    string
}

func (b browserTokens) Get(ctx context.Context) (string, bool, error) {
	return b.store.Get(ctx, b.id)
}

func (b browserTokens) Set(ctx context.Context, token string) error {
	return b.store.Set(ctx, b.id, token)
}

func (b browserTokens) Clear(ctx context.Context) error {
	return b.store.Clear(ctx, b.id)
}

// Session is the authentication state of one browser. It starts in Loading,
// resolves once against GET /me, and afterwards only changes through Login,
// Logout or a 401 from the backend.
type Session struct {
	id             string
	tokens         browserTokens
	backend        ports.Backend
	log            zerolog.Logger
	resolveTimeout time.Duration

	mu          sync.Mutex
	state       domain.SessionState
	resolving   chan struct{}
	invalidated bool
	notices     []Notice
	lastSeen    time.Time
	employee    *EmployeeDashboard
	manager     *ManagerDashboard
}

// SessionOptions configures NewSession.
type SessionOptions struct {
	ResolveTimeout time.Duration
}

// NewSession returns a Loading session for browserID. The backend is bound
// to the browser's token and reports 401 responses back to the session.
func NewSession(browserID string, connector ports.Connector, store ports.TokenStore, log zerolog.Logger, opts SessionOptions) *Session {
	if opts.ResolveTimeout <= 0 {
		opts.ResolveTimeout = DefaultResolveTimeout
	}
	s := &Session{
		id:             browserID,
		tokens:         browserTokens{store: store, id: browserID},
		log:            log.With().Str("browser_id", browserID).Logger(),
		resolveTimeout: opts.ResolveTimeout,
		state:          domain.Loading(),
		lastSeen:       time.Now(),
	}
	s.backend = connector.Bind(s.tokens, s.Invalidate)
	return s
}

// ID returns the browser id the session belongs to.
func (s *Session) ID() string { return s.id }

// Backend returns the API client bound to this session.
func (s *Session) Backend() ports.Backend { return s.backend }

// State returns the current state without resolving.
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Resolve settles a Loading session. Concurrent callers share one lookup;
// a caller whose ctx ends first gets the state as it is at that moment,
// which may still be Loading. Settled sessions return immediately.
func (s *Session) Resolve(ctx context.Context) domain.SessionState {
	s.mu.Lock()
	if !s.state.IsLoading() {
		st := s.state
		s.mu.Unlock()
		return st
	}
	if ch := s.resolving; ch != nil {
		s.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
		}
		return s.State()
	}
	ch := make(chan struct{})
	s.resolving = ch
	s.mu.Unlock()

	st := s.lookup(ctx)

	s.mu.Lock()
	if s.state.IsLoading() {
		s.state = st
	}
	// A stale token found while resolving is not a reason to navigate.
	s.invalidated = false
	s.resolving = nil
	st = s.state
	s.mu.Unlock()
	close(ch)
	return st
}

// lookup asks the backend who owns the stored token. Any failure clears the
// token. The lookup outlives a cancelled request so a browser that navigates
// away mid-resolve does not lose its login.
func (s *Session) lookup(ctx context.Context) domain.SessionState {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.resolveTimeout)
	defer cancel()

	_, ok, err := s.tokens.Get(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("read session token")
		return domain.Anonymous()
	}
	if !ok {
		return domain.Anonymous()
	}

	u, err := s.backend.Me(ctx)
	if err != nil {
		s.log.Info().Err(err).Msg("stored token rejected, clearing")
		if cerr := s.tokens.Clear(ctx); cerr != nil {
			s.log.Error().Err(cerr).Msg("clear session token")
		}
		return domain.Anonymous()
	}
	s.log.Debug().Int64("user_id", u.ID).Str("role", string(u.Role)).Msg("session resolved")
	return domain.Authenticated(*u)
}

// Login exchanges credentials for a token, stores it and resolves the
// identity before returning. On failure the state is left as it was.
func (s *Session) Login(ctx context.Context, email, password string) (domain.User, error) {
	res, err := s.backend.Login(ctx, email, password)
	metrics.LoginsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		// A rejected login already lands on the login page.
		s.mu.Lock()
		s.invalidated = false
		s.mu.Unlock()
		return domain.User{}, err
	}

	if err := s.tokens.Set(ctx, res.AccessToken); err != nil {
		return domain.User{}, fmt.Errorf("store token: %w", err)
	}

	st := s.lookup(ctx)
	s.mu.Lock()
	s.state = st
	s.invalidated = false
	s.employee, s.manager = nil, nil
	s.mu.Unlock()

	u, ok := st.User()
	if !ok {
		return domain.User{}, fmt.Errorf("login: resolve identity: %w", domain.ErrNoSession)
	}
	s.log.Info().Int64("user_id", u.ID).Str("role", string(u.Role)).Msg("user logged in")
	return u, nil
}

// Register creates an account. It does not log the user in.
func (s *Session) Register(ctx context.Context, reg domain.Registration) error {
	if err := s.backend.Register(ctx, reg); err != nil {
		return err
	}
	s.log.Info().Str("role", string(reg.Role)).Msg("account registered")
	return nil
}

// Logout forgets the token and the identity. It makes no backend call.
func (s *Session) Logout(ctx context.Context) {
	s.reset()
	if err := s.tokens.Clear(ctx); err != nil {
		s.log.Error().Err(err).Msg("clear session token")
	}
	s.log.Info().Msg("user logged out")
}

// Invalidate handles a 401 from the backend: the token is dropped, the
// session becomes Anonymous and the next page render redirects to login.
// It does not navigate by itself.
func (s *Session) Invalidate(ctx context.Context, ev ports.SessionInvalidated) {
	s.reset()
	s.mu.Lock()
	s.invalidated = true
	s.mu.Unlock()

	if err := s.tokens.Clear(context.WithoutCancel(ctx)); err != nil {
		s.log.Error().Err(err).Msg("clear session token")
	}
	metrics.SessionInvalidationsTotal.Inc()
	s.log.Warn().Str("method", ev.Method).Str("endpoint", ev.Endpoint).Msg("session invalidated by backend")
}

func (s *Session) reset() {
	s.mu.Lock()
	s.state = domain.Anonymous()
	s.employee, s.manager = nil, nil
	s.mu.Unlock()
}

// TakeInvalidation reports whether the session was invalidated since the
// last call, and clears the flag.
func (s *Session) TakeInvalidation() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.invalidated
	s.invalidated = false
	return v
}

// LoginRedirect decides where a failed request should send the browser.
// Unauthorized errors and pending invalidations go to /login, except on
// the login page itself.
func (s *Session) LoginRedirect(err error, path string) (string, bool) {
	pending := s.TakeInvalidation()
	if !pending && !errors.Is(err, domain.ErrUnauthorized) {
		return "", false
	}
	if path == "/login" {
		return "", false
	}
	return "/login", true
}

// Notify queues a notice for the next rendered page.
func (s *Session) Notify(n Notice) {
	s.mu.Lock()
	s.notices = append(s.notices, n)
	s.mu.Unlock()
}

// TakeNotices returns and clears the queued notices.
func (s *Session) TakeNotices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.notices
	s.notices = nil
	return n
}

// EmployeeDashboard returns the employee view state, creating it on first use.
func (s *Session) EmployeeDashboard() *EmployeeDashboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.employee == nil {
		s.employee = NewEmployeeDashboard(s.backend, s.log)
	}
	return s.employee
}

// ManagerDashboard returns the manager view state, creating it on first use.
func (s *Session) ManagerDashboard() *ManagerDashboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.manager == nil {
		s.manager = NewManagerDashboard(s.backend, s, s.log)
	}
	return s.manager
}

// touch records activity for idle eviction.
func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
