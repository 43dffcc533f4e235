package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/api/middleware"
	"github.com/feedbackhub/portal/internal/api/view"
	"github.com/feedbackhub/portal/internal/core/service"
)

// ctxSession returns the browser session. Its absence means the Browser
// middleware did not run, which is a wiring bug.
func ctxSession(c echo.Context) (*service.Session, error) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "missing browser session")
	}
	return sess, nil
}

// render writes a full page, filling in the user and pending notices.
func render(c echo.Context, sess *service.Session, status int, name, title string, body any) error {
	p := view.Page{
		Title:   title,
		Notices: sess.TakeNotices(),
		Body:    body,
	}
	if u, ok := sess.State().User(); ok {
		p.User = &u
	}
	return c.Render(status, name, p)
}

// Placeholder renders the self-refreshing page shown while a session
// resolves.
func Placeholder(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageLoading, view.Page{Title: "Loading"})
}
