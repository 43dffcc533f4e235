package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/core/domain"
)

// Requirement is what a page asks of the session.
type Requirement struct {
	role domain.Role
}

// AnyRole admits every authenticated user.
var AnyRole = Requirement{}

// RequireRole admits only users with role r.
func RequireRole(r domain.Role) Requirement { return Requirement{role: r} }

// Decision is the outcome of Decide.
type Decision int

const (
	// Placeholder renders a self-refreshing page while the session resolves.
	Placeholder Decision = iota
	RedirectLogin
	Render
)

func (d Decision) String() string {
	switch d {
	case Placeholder:
		return "placeholder"
	case RedirectLogin:
		return "redirect_login"
	case Render:
		return "render"
	}
	return "unknown"
}

// Decide maps a session state to what a guarded page does.
func Decide(st domain.SessionState, req Requirement) Decision {
	switch st.Kind() {
	case domain.SessionLoading:
		return Placeholder
	case domain.SessionAnonymous:
		return RedirectLogin
	case domain.SessionAuthenticated:
		if req.role != "" && !st.HasRole(req.role) {
			return RedirectLogin
		}
		return Render
	}
	return RedirectLogin
}

// GuardOptions configures Guard.
type GuardOptions struct {
	// ResolveTimeout bounds how long a GET waits for a pending
	// resolution before the placeholder is shown. Other methods wait for
	// the request's own deadline.
	ResolveTimeout time.Duration
	// Placeholder renders the waiting page.
	Placeholder echo.HandlerFunc
}

// Guard resolves the session and lets the request through only when
// Decide says Render.
func Guard(req Requirement, opts GuardOptions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, ok := SessionFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusInternalServerError, "no browser session")
			}

			// A placeholder refresh re-requests with GET, so a form post
			// waits for the session instead of losing its body.
			waits := isSafeMethod(c.Request().Method)
			ctx := c.Request().Context()
			if waits && opts.ResolveTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, opts.ResolveTimeout)
				defer cancel()
			}

			switch Decide(sess.Resolve(ctx), req) {
			case Placeholder:
				if !waits {
					return echo.NewHTTPError(http.StatusServiceUnavailable, "session is still loading")
				}
				if opts.Placeholder != nil {
					return opts.Placeholder(c)
				}
				c.Response().Header().Set("Refresh", "1")
				return c.NoContent(http.StatusAccepted)
			case RedirectLogin:
				// Decide already covers what a pending invalidation would add.
				sess.TakeInvalidation()
				return c.Redirect(http.StatusSeeOther, "/login")
			default:
				return next(c)
			}
		}
	}
}

func isSafeMethod(m string) bool {
	return m == http.MethodGet || m == http.MethodHead
}
