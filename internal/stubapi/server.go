// Package stubapi is an in-memory implementation of the feedback REST
// backend for local development and end-to-end tests.
package stubapi

//go:generate swag init --generalInfo server.go --output docs --outputTypes go --parseInternal

import (
	"net/http"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/feedbackhub/portal/internal/core/domain"
	_ "github.com/feedbackhub/portal/internal/stubapi/docs"
	"github.com/feedbackhub/portal/pkg/logger"
)

// Options configures the stub backend.
type Options struct {
	JWTSecret string
	TokenTTL  time.Duration

	// AllowOrigins lists browser origins allowed by CORS.
	AllowOrigins []string
}

type requestValidator struct {
	v *validator.Validate
}

func (rv *requestValidator) Validate(i any) error {
	return rv.v.Struct(i)
}

func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return fieldName(f.Tag.Get("json"), f.Tag.Get("form"), f.Name)
	})
	return &requestValidator{v: v}
}

// @title        Feedback API (stub)
// @version      1.0
// @description  In-memory feedback backend used for development and tests.
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

// New builds the stub backend's router on top of store.
func New(store *Store, opts Options, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(logger.RequestLogger(log))
	if len(opts.AllowOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins:     opts.AllowOrigins,
			AllowCredentials: true,
		}))
	}

	tokens := NewTokens(opts.JWTSecret, opts.TokenTTL)
	authHandler := NewAuthHandler(store, tokens, log)
	feedbackHandler := NewFeedbackHandler(store, log)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, messageResponse{Message: "Feedback API is running"})
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	// Route-level middleware: a group on "" would also catch unknown paths.
	secured := Authenticate(tokens, store)
	manager := append(secured[:len(secured):len(secured)], RequireRole(domain.RoleManager))
	employee := append(secured[:len(secured):len(secured)], RequireRole(domain.RoleEmployee))

	e.GET("/me", authHandler.Me, secured...)

	e.GET("/dashboard", feedbackHandler.Dashboard, manager...)
	e.GET("/feedback/:employee_id", feedbackHandler.EmployeeFeedback, manager...)
	e.POST("/feedback", feedbackHandler.CreateFeedback, manager...)

	e.GET("/employee-dashboard", feedbackHandler.EmployeeDashboard, employee...)
	e.POST("/acknowledge/:feedback_id", feedbackHandler.Acknowledge, employee...)

	return e
}
