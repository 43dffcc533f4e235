package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/core/service"
	"github.com/feedbackhub/portal/internal/infrastructure/db/memory"
)

// meBackend answers /me with user, optionally after gate is closed. Every
// other call fails.
type meBackend struct {
	ports.Backend
	user *domain.User
	gate chan struct{}
}

func (b *meBackend) Bind(ports.TokenSource, ports.InvalidationListener) ports.Backend { return b }

func (b *meBackend) Me(ctx context.Context) (*domain.User, error) {
	if b.gate != nil {
		select {
		case <-b.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if b.user == nil {
		return nil, domain.ErrUnauthorized
	}
	u := *b.user
	return &u, nil
}

func newRegistry(t *testing.T, b *meBackend, withToken bool) *service.Registry {
	t.Helper()
	store := memory.NewTokenStore()
	if withToken {
		_ = store.Set(context.Background(), "11111111-1111-1111-1111-111111111111", "tok")
	}
	return service.NewRegistry(b, store, zerolog.Nop(), service.RegistryOptions{})
}

func serveGuarded(t *testing.T, reg *service.Registry, req Requirement, opts GuardOptions) (*httptest.ResponseRecorder, int) {
	t.Helper()
	return serveGuardedMethod(t, http.MethodGet, reg, req, opts)
}

func serveGuardedMethod(t *testing.T, method string, reg *service.Registry, req Requirement, opts GuardOptions) (*httptest.ResponseRecorder, int) {
	t.Helper()
	e := echo.New()
	calls := 0
	e.Add(method, "/page", func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "page")
	}, Browser(reg, BrowserOptions{}), Guard(req, opts))

	r := httptest.NewRequest(method, "/page", nil)
	r.AddCookie(&http.Cookie{Name: BrowserCookie, Value: "11111111-1111-1111-1111-111111111111"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, r)
	return rec, calls
}

func TestDecide(t *testing.T) {
	manager := domain.Authenticated(domain.User{ID: 1, Role: domain.RoleManager})
	employee := domain.Authenticated(domain.User{ID: 2, Role: domain.RoleEmployee})

	cases := []struct {
		name  string
		state domain.SessionState
		req   Requirement
		want  Decision
	}{
		{"loading any", domain.Loading(), AnyRole, Placeholder},
		{"loading manager", domain.Loading(), RequireRole(domain.RoleManager), Placeholder},
		{"anonymous any", domain.Anonymous(), AnyRole, RedirectLogin},
		{"anonymous employee", domain.Anonymous(), RequireRole(domain.RoleEmployee), RedirectLogin},
		{"manager on manager page", manager, RequireRole(domain.RoleManager), Render},
		{"manager on employee page", manager, RequireRole(domain.RoleEmployee), RedirectLogin},
		{"employee on manager page", employee, RequireRole(domain.RoleManager), RedirectLogin},
		{"employee on generic page", employee, AnyRole, Render},
		{"manager on generic page", manager, AnyRole, Render},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decide(tc.state, tc.req); got != tc.want {
				t.Fatalf("Decide = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestGuard_AnonymousRedirectsOnce(t *testing.T) {
	reg := newRegistry(t, &meBackend{}, false)
	rec, calls := serveGuarded(t, reg, AnyRole, GuardOptions{})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Values(echo.HeaderLocation); len(loc) != 1 || loc[0] != "/login" {
		t.Fatalf("expected a single redirect to /login, got %v", loc)
	}
	if calls != 0 {
		t.Fatalf("guarded handler must not run")
	}
}

func TestGuard_WrongRoleRedirects(t *testing.T) {
	reg := newRegistry(t, &meBackend{user: &domain.User{ID: 2, Role: domain.RoleEmployee}}, true)
	rec, calls := serveGuarded(t, reg, RequireRole(domain.RoleManager), GuardOptions{})

	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if calls != 0 {
		t.Fatalf("guarded handler must not run")
	}
}

func TestGuard_RightRoleRenders(t *testing.T) {
	reg := newRegistry(t, &meBackend{user: &domain.User{ID: 1, Role: domain.RoleManager}}, true)
	rec, calls := serveGuarded(t, reg, RequireRole(domain.RoleManager), GuardOptions{})

	if rec.Code != http.StatusOK || calls != 1 {
		t.Fatalf("expected the page, got %d (calls=%d)", rec.Code, calls)
	}
}

func TestGuard_LoadingShowsPlaceholder(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	b := &meBackend{user: &domain.User{ID: 1, Role: domain.RoleManager}, gate: gate}
	reg := newRegistry(t, b, true)

	// Start a resolution that cannot finish yet.
	sess := reg.Session("11111111-1111-1111-1111-111111111111")
	go sess.Resolve(context.Background())
	time.Sleep(10 * time.Millisecond)

	placeholder := func(c echo.Context) error { return c.String(http.StatusOK, "loading") }
	rec, calls := serveGuarded(t, reg, RequireRole(domain.RoleManager), GuardOptions{
		ResolveTimeout: 20 * time.Millisecond,
		Placeholder:    placeholder,
	})

	if rec.Code != http.StatusOK || rec.Body.String() != "loading" {
		t.Fatalf("expected placeholder, got %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(echo.HeaderLocation) != "" {
		t.Fatalf("loading must not redirect")
	}
	if calls != 0 {
		t.Fatalf("guarded handler must not run while loading")
	}
}

func TestGuard_PostWaitsForPendingResolution(t *testing.T) {
	gate := make(chan struct{})
	b := &meBackend{user: &domain.User{ID: 1, Role: domain.RoleManager}, gate: gate}
	reg := newRegistry(t, b, true)

	// Another request is already resolving the session.
	sess := reg.Session("11111111-1111-1111-1111-111111111111")
	go sess.Resolve(context.Background())
	time.Sleep(10 * time.Millisecond)
	go func() {
		time.Sleep(60 * time.Millisecond)
		close(gate)
	}()

	placeholder := func(c echo.Context) error { return c.String(http.StatusOK, "loading") }
	rec, calls := serveGuardedMethod(t, http.MethodPost, reg, RequireRole(domain.RoleManager), GuardOptions{
		ResolveTimeout: 20 * time.Millisecond,
		Placeholder:    placeholder,
	})

	if rec.Code != http.StatusOK || rec.Body.String() != "page" {
		t.Fatalf("expected the post to reach the handler, got %d %q", rec.Code, rec.Body.String())
	}
	if calls != 1 {
		t.Fatalf("expected one handler call, got %d", calls)
	}
}

func TestBrowser_IssuesCookie(t *testing.T) {
	reg := newRegistry(t, &meBackend{}, false)
	e := echo.New()
	var seen *service.Session
	e.GET("/", func(c echo.Context) error {
		seen, _ = SessionFrom(c)
		return c.NoContent(http.StatusOK)
	}, Browser(reg, BrowserOptions{Secure: true}))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != BrowserCookie {
		t.Fatalf("expected the browser cookie, got %v", cookies)
	}
	ck := cookies[0]
	if !ck.HttpOnly || !ck.Secure || ck.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie attributes: %+v", ck)
	}
	if seen == nil || seen.ID() != ck.Value {
		t.Fatalf("session must belong to the issued id")
	}
}

func TestBrowser_ReplacesMalformedCookie(t *testing.T) {
	reg := newRegistry(t, &meBackend{}, false)
	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, Browser(reg, BrowserOptions{}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: BrowserCookie, Value: "../../etc"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, r)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value == "../../etc" {
		t.Fatalf("expected a fresh browser id, got %v", cookies)
	}
}
