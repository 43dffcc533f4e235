package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/infrastructure/db/memory"
)

// stubBackend is an in-memory ports.Backend. Calls that return
// domain.ErrUnauthorized also fire the invalidation listener, the way the
// real client does.
type stubBackend struct {
	mu sync.Mutex

	tokens    ports.TokenSource
	onInvalid ports.InvalidationListener

	validToken string
	loginErr   error
	me         *domain.User
	meCalls    int
	meGate     chan struct{}

	roster      []domain.RosterEntry
	rosterErr   error
	rosterCalls int

	history      map[int64][]domain.Feedback
	historyErr   error
	historyCalls []int64

	submitErr error
	submitted []domain.FeedbackDraft

	timeline      []domain.Feedback
	timelineErr   error
	timelineCalls int

	ackErr error
	acked  []int64

	registered []domain.Registration
}

func (b *stubBackend) Bind(tokens ports.TokenSource, onInvalid ports.InvalidationListener) ports.Backend {
	b.tokens = tokens
	b.onInvalid = onInvalid
	return b
}

func (b *stubBackend) unauthorized(ctx context.Context, endpoint string) error {
	if b.onInvalid != nil {
		b.onInvalid(ctx, ports.SessionInvalidated{Method: "GET", Endpoint: endpoint})
	}
	return domain.ErrUnauthorized
}

// authorized checks the bearer token like the backend would.
func (b *stubBackend) authorized(ctx context.Context) bool {
	tok, ok, _ := b.tokens.Get(ctx)
	return ok && tok == b.validToken
}

func (b *stubBackend) Login(_ context.Context, email, password string) (*ports.LoginResult, error) {
	if b.loginErr != nil {
		return nil, b.loginErr
	}
	return &ports.LoginResult{AccessToken: b.validToken, TokenType: "bearer"}, nil
}

func (b *stubBackend) Register(_ context.Context, reg domain.Registration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.registered = append(b.registered, reg)
	return nil
}

func (b *stubBackend) Me(ctx context.Context) (*domain.User, error) {
	b.mu.Lock()
	b.meCalls++
	gate := b.meGate
	b.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if !b.authorized(ctx) || b.me == nil {
		return nil, b.unauthorized(ctx, "/me")
	}
	u := *b.me
	return &u, nil
}

func (b *stubBackend) Dashboard(ctx context.Context) ([]domain.RosterEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rosterCalls++
	if b.rosterErr != nil {
		return nil, b.rosterErr
	}
	return append([]domain.RosterEntry(nil), b.roster...), nil
}

func (b *stubBackend) EmployeeFeedback(_ context.Context, employeeID int64) ([]domain.Feedback, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.historyCalls = append(b.historyCalls, employeeID)
	if b.historyErr != nil {
		return nil, b.historyErr
	}
	return b.history[employeeID], nil
}

func (b *stubBackend) SubmitFeedback(_ context.Context, draft domain.FeedbackDraft) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.submitted = append(b.submitted, draft)
	return b.submitErr
}

func (b *stubBackend) Acknowledge(_ context.Context, feedbackID int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.acked = append(b.acked, feedbackID)
	return b.ackErr
}

func (b *stubBackend) EmployeeDashboard(ctx context.Context) ([]domain.Feedback, error) {
	b.mu.Lock()
	b.timelineCalls++
	err := b.timelineErr
	items := append([]domain.Feedback(nil), b.timeline...)
	b.mu.Unlock()
	if err == domain.ErrUnauthorized {
		return nil, b.unauthorized(ctx, "/employee-dashboard")
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

type recordingNotifier struct {
	notices []Notice
}

func (n *recordingNotifier) Notify(x Notice) { n.notices = append(n.notices, x) }

func newTestSession(b *stubBackend) (*Session, *memory.TokenStore) {
	store := memory.NewTokenStore()
	return NewSession("browser-1", b, store, zerolog.Nop(), SessionOptions{}), store
}

func managerUser() *domain.User {
	return &domain.User{ID: 1, Name: "Maya", Email: "maya@example.com", Role: domain.RoleManager}
}

func employeeUser() *domain.User {
	mgr := int64(1)
	return &domain.User{ID: 42, Name: "Eli", Email: "eli@example.com", Role: domain.RoleEmployee, ManagerID: &mgr}
}
