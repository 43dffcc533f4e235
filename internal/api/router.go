package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/api/handler"
	"github.com/feedbackhub/portal/internal/api/middleware"
	"github.com/feedbackhub/portal/internal/api/view"
	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/service"
	"github.com/feedbackhub/portal/pkg/logger"
)

// Deps is what the portal router needs from main.
type Deps struct {
	Sessions *service.Registry
	Renderer echo.Renderer
	Log      zerolog.Logger

	// Readiness dependencies, keyed by the name reported on /health/ready.
	Checks map[string]handler.Pinger

	CookieSecure   bool
	ResolveTimeout time.Duration

	// Registerer receives echo's request metrics. Defaults to the global
	// Prometheus registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = d.Renderer
	if e.Renderer == nil {
		e.Renderer = view.MustNew()
	}
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(logger.RequestLogger(d.Log))
	e.Use(echomiddleware.Secure())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "portal",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Health probes and metrics (no browser session) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Pages ---
	pages := e.Group("", middleware.Browser(d.Sessions, middleware.BrowserOptions{Secure: d.CookieSecure}))

	guard := func(req middleware.Requirement) echo.MiddlewareFunc {
		return middleware.Guard(req, middleware.GuardOptions{
			ResolveTimeout: d.ResolveTimeout,
			Placeholder:    handler.Placeholder,
		})
	}

	authHandler := handler.NewAuthHandler(d.Log)
	dashHandler := handler.NewDashboardHandler(d.Log)

	pages.GET("/login", authHandler.LoginPage)
	pages.POST("/login", authHandler.Login)
	pages.GET("/register", authHandler.RegisterPage)
	pages.POST("/register", authHandler.Register)
	pages.POST("/logout", authHandler.Logout)

	pages.GET("/", dashHandler.Home, guard(middleware.AnyRole))

	manager := pages.Group("/manager-dashboard", guard(middleware.RequireRole(domain.RoleManager)))
	manager.GET("", dashHandler.ManagerDashboard)
	manager.POST("/feedback", dashHandler.SubmitFeedback)

	employee := pages.Group("/employee-dashboard", guard(middleware.RequireRole(domain.RoleEmployee)))
	employee.GET("", dashHandler.EmployeeDashboard)
	employee.POST("/acknowledge/:id", dashHandler.Acknowledge)

	return e
}
