package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/core/service"
)

// BrowserCookie names the cookie carrying the browser id.
const BrowserCookie = "portal_browser"

const (
	sessionKey    = "session"
	browserMaxAge = 365 * 24 * time.Hour
)

// BrowserOptions configures Browser.
type BrowserOptions struct {
	Secure bool
}

// Browser identifies the browser by cookie, issuing a new id when the
// cookie is missing or malformed, and puts its Session on the context.
func Browser(sessions *service.Registry, opts BrowserOptions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if ck, err := c.Cookie(BrowserCookie); err == nil {
				if parsed, err := uuid.Parse(ck.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     BrowserCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   int(browserMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set(sessionKey, sessions.Session(id))
			return next(c)
		}
	}
}

// SessionFrom returns the session put on c by Browser.
func SessionFrom(c echo.Context) (*service.Session, bool) {
	s, ok := c.Get(sessionKey).(*service.Session)
	return s, ok && s != nil
}
