package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/api/view"
	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/forms"
	"github.com/feedbackhub/portal/internal/infrastructure/apiclient"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgRegisterFailed     = "Registration failed. Please check your details and try again."
)

// AuthHandler serves the login, registration and logout pages.
type AuthHandler struct {
	log zerolog.Logger
}

func NewAuthHandler(log zerolog.Logger) *AuthHandler {
	return &AuthHandler{log: log.With().Str("handler", "auth").Logger()}
}

type loginPage struct {
	Form   forms.Login
	Errors forms.FieldErrors
	Error  string
}

type registerPage struct {
	Form   forms.Register
	Errors forms.FieldErrors
	Error  string
}

// LoginPage shows the login form, or sends an authenticated user to their
// dashboard.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if u, ok := sess.Resolve(c.Request().Context()).User(); ok {
		return c.Redirect(http.StatusSeeOther, u.Role.DashboardPath())
	}
	return render(c, sess, http.StatusOK, view.PageLogin, "Login", loginPage{})
}

// Login exchanges the credentials for a session and redirects by role.
func (h *AuthHandler) Login(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var form forms.Login
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Normalize()
	if err := c.Validate(&form); err != nil {
		form.Password = ""
		return render(c, sess, http.StatusUnprocessableEntity, view.PageLogin, "Login",
			loginPage{Form: form, Errors: forms.Errors(err)})
	}

	u, err := sess.Login(c.Request().Context(), form.Email, form.Password)
	if err != nil {
		form.Password = ""
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			h.log.Error().Err(err).Msg("login failed")
		}
		return render(c, sess, http.StatusUnauthorized, view.PageLogin, "Login",
			loginPage{Form: form, Error: msgInvalidCredentials})
	}
	return c.Redirect(http.StatusSeeOther, u.Role.DashboardPath())
}

// RegisterPage shows the registration form.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return render(c, sess, http.StatusOK, view.PageRegister, "Register",
		registerPage{Form: forms.Register{Role: domain.RoleEmployee}})
}

// Register creates the account and sends the user to the login page. The
// backend's detail message is shown when it gives one.
func (h *AuthHandler) Register(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var form forms.Register
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Normalize()
	if err := c.Validate(&form); err != nil {
		form.Password = ""
		return render(c, sess, http.StatusUnprocessableEntity, view.PageRegister, "Register",
			registerPage{Form: form, Errors: forms.Errors(err)})
	}

	if err := sess.Register(c.Request().Context(), form.Registration()); err != nil {
		h.log.Warn().Err(err).Msg("registration rejected")
		msg := apiclient.DetailOf(err)
		if msg == "" {
			msg = msgRegisterFailed
		}
		form.Password = ""
		return render(c, sess, http.StatusBadRequest, view.PageRegister, "Register",
			registerPage{Form: form, Error: msg})
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}

// Logout drops the session and returns to the login page.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	sess.Logout(c.Request().Context())
	return c.Redirect(http.StatusSeeOther, "/login")
}
