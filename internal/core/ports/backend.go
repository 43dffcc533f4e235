package ports

import (
	"context"
	"time"

	"github.com/feedbackhub/portal/internal/core/domain"
)

// LoginResult is the body returned by POST /login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      int64  `json:"user_id"`
	Role        string `json:"role"`
}

// Backend is the feedback REST API as seen by one browser session.
// Implementations attach that session's bearer token to every call.
type Backend interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, reg domain.Registration) error
	Me(ctx context.Context) (*domain.User, error)
	Dashboard(ctx context.Context) ([]domain.RosterEntry, error)
	EmployeeFeedback(ctx context.Context, employeeID int64) ([]domain.Feedback, error)
	SubmitFeedback(ctx context.Context, draft domain.FeedbackDraft) error
	Acknowledge(ctx context.Context, feedbackID int64) error
	EmployeeDashboard(ctx context.Context) ([]domain.Feedback, error)
}

// TokenSource yields the bearer token of one browser session.
type TokenSource interface {
	Get(ctx context.Context) (token string, ok bool, err error)
}

// SessionInvalidated is emitted when the backend rejects a request with 401.
type SessionInvalidated struct {
	Method   string
	Endpoint string
	At       time.Time
}

// InvalidationListener receives SessionInvalidated events. It runs before
// the failed call returns to its caller.
type InvalidationListener func(ctx context.Context, ev SessionInvalidated)

// Connector binds the backend to one session's token and invalidation hook.
type Connector interface {
	Bind(tokens TokenSource, onInvalid InvalidationListener) Backend
}
