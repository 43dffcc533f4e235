package stubapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/core/domain"
)

type AuthHandler struct {
	store  *Store
	tokens *Tokens
	log    zerolog.Logger
}

func NewAuthHandler(store *Store, tokens *Tokens, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, log: log}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return detail(http.StatusUnprocessableEntity, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err, "body")
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return detail(http.StatusBadRequest, "Invalid role. Must be 'Manager' or 'Employee'.")
	}
	if role == domain.RoleEmployee && (req.ManagerID == nil || *req.ManagerID == 0) {
		return detail(http.StatusBadRequest, "Manager ID is required for employees")
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return err
	}

	created, err := h.store.CreateUser(user{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		ManagerID:    req.ManagerID,
	})
	switch {
	case errors.Is(err, errEmailTaken):
		return detail(http.StatusBadRequest, "Email already registered")
	case errors.Is(err, errInvalidManager):
		return detail(http.StatusBadRequest, "Invalid manager ID")
	case err != nil:
		return err
	}

	h.log.Info().Int64("user_id", created.ID).Str("role", string(role)).Msg("user registered")
	return c.JSON(http.StatusOK, registerResponse{Message: "User created successfully", UserID: created.ID})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Email address"
// @Param        password  formData  string  true  "Password"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return detail(http.StatusUnprocessableEntity, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err, "body")
	}

	u, err := h.store.UserByEmail(req.Username)
	if err != nil || !checkPassword(u.PasswordHash, req.Password) {
		return detail(http.StatusUnauthorized, "Incorrect email or password")
	}

	token, err := h.tokens.Issue(u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      u.ID,
		Role:        u.Role,
	})
}

// Me returns the caller's identity.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  userOut
// @Failure      401   {object}  errorResponse
// @Router       /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u.out())
}
