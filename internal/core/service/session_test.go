package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/feedbackhub/portal/internal/core/domain"
)

func TestSession_StartsLoading(t *testing.T) {
	s, _ := newTestSession(&stubBackend{})
	if !s.State().IsLoading() {
		t.Fatalf("expected loading, got %s", s.State().Kind())
	}
}

func TestSession_Resolve_NoToken(t *testing.T) {
	b := &stubBackend{validToken: "tok", me: managerUser()}
	s, _ := newTestSession(b)

	st := s.Resolve(context.Background())
	if !st.IsAnonymous() {
		t.Fatalf("expected anonymous, got %s", st.Kind())
	}
	if b.meCalls != 0 {
		t.Fatalf("expected no /me call without a token, got %d", b.meCalls)
	}
}

func TestSession_Resolve_ValidToken(t *testing.T) {
	b := &stubBackend{validToken: "tok", me: managerUser()}
	s, store := newTestSession(b)
	_ = store.Set(context.Background(), "browser-1", "tok")

	st := s.Resolve(context.Background())
	u, ok := st.User()
	if !ok {
		t.Fatalf("expected authenticated, got %s", st.Kind())
	}
	if u.ID != 1 || u.Role != domain.RoleManager {
		t.Fatalf("unexpected user: %+v", u)
	}

	// Settled sessions do not ask again.
	s.Resolve(context.Background())
	if b.meCalls != 1 {
		t.Fatalf("expected one /me call, got %d", b.meCalls)
	}
}

func TestSession_Resolve_RejectedTokenIsCleared(t *testing.T) {
	b := &stubBackend{validToken: "tok", me: managerUser()}
	s, store := newTestSession(b)
	_ = store.Set(context.Background(), "browser-1", "stale")

	st := s.Resolve(context.Background())
	if !st.IsAnonymous() {
		t.Fatalf("expected anonymous, got %s", st.Kind())
	}
	if _, ok, _ := store.Get(context.Background(), "browser-1"); ok {
		t.Fatalf("expected token to be cleared")
	}
	if s.TakeInvalidation() {
		t.Fatalf("a failed resolve must not leave a pending redirect")
	}
}

func TestSession_Resolve_ConcurrentCallersShareOneLookup(t *testing.T) {
	gate := make(chan struct{})
	b := &stubBackend{validToken: "tok", me: employeeUser(), meGate: gate}
	s, store := newTestSession(b)
	_ = store.Set(context.Background(), "browser-1", "tok")

	var wg sync.WaitGroup
	results := make([]domain.SessionState, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.Resolve(context.Background())
		}(i)
	}

	// Let every caller reach Resolve before the lookup finishes.
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	for i, st := range results {
		if !st.HasRole(domain.RoleEmployee) {
			t.Fatalf("caller %d: expected employee, got %s", i, st.Kind())
		}
	}
	if b.meCalls != 1 {
		t.Fatalf("expected a single /me call, got %d", b.meCalls)
	}
}

func TestSession_Resolve_WaiterGivesUpOnContext(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	b := &stubBackend{validToken: "tok", me: employeeUser(), meGate: gate}
	s, store := newTestSession(b)
	_ = store.Set(context.Background(), "browser-1", "tok")

	go s.Resolve(context.Background())
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if st := s.Resolve(ctx); !st.IsLoading() {
		t.Fatalf("expected loading while the lookup is pending, got %s", st.Kind())
	}
}

func TestSession_Login_ResolvesBeforeReturning(t *testing.T) {
	b := &stubBackend{validToken: "tok", me: managerUser()}
	s, store := newTestSession(b)

	u, err := s.Login(context.Background(), "maya@example.com", "secret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if u.Role != domain.RoleManager {
		t.Fatalf("unexpected role: %s", u.Role)
	}
	if !s.State().HasRole(domain.RoleManager) {
		t.Fatalf("expected authenticated manager right after Login, got %s", s.State().Kind())
	}
	if tok, ok, _ := store.Get(context.Background(), "browser-1"); !ok || tok != "tok" {
		t.Fatalf("expected token to be stored, got %q %v", tok, ok)
	}
}

func TestSession_Login_FailureKeepsState(t *testing.T) {
	b := &stubBackend{validToken: "tok", loginErr: domain.ErrInvalidCredentials}
	s, store := newTestSession(b)
	s.Resolve(context.Background())

	_, err := s.Login(context.Background(), "x@example.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if !s.State().IsAnonymous() {
		t.Fatalf("expected anonymous, got %s", s.State().Kind())
	}
	if _, ok, _ := store.Get(context.Background(), "browser-1"); ok {
		t.Fatalf("no token should be stored")
	}
}

func TestSession_Logout_ClearsTokenWithoutBackendCall(t *testing.T) {
	b := &stubBackend{validToken: "tok", me: employeeUser()}
	s, store := newTestSession(b)
	if _, err := s.Login(context.Background(), "eli@example.com", "pw"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	calls := b.meCalls

	s.Logout(context.Background())

	if !s.State().IsAnonymous() {
		t.Fatalf("expected anonymous, got %s", s.State().Kind())
	}
	if _, ok, _ := store.Get(context.Background(), "browser-1"); ok {
		t.Fatalf("expected token to be cleared")
	}
	if b.meCalls != calls {
		t.Fatalf("logout must not call the backend")
	}
}

func TestSession_UnauthorizedResponseInvalidates(t *testing.T) {
	b := &stubBackend{validToken: "tok", me: employeeUser()}
	s, store := newTestSession(b)
	if _, err := s.Login(context.Background(), "eli@example.com", "pw"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	b.timelineErr = domain.ErrUnauthorized
	err := s.EmployeeDashboard().Load(context.Background())
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	if !s.State().IsAnonymous() {
		t.Fatalf("expected anonymous after 401, got %s", s.State().Kind())
	}
	if _, ok, _ := store.Get(context.Background(), "browser-1"); ok {
		t.Fatalf("expected token to be cleared after 401")
	}

	target, redirect := s.LoginRedirect(err, "/employee-dashboard")
	if !redirect || target != "/login" {
		t.Fatalf("expected redirect to /login, got %q %v", target, redirect)
	}
}

func TestSession_LoginRedirect_NotOnLoginPage(t *testing.T) {
	s, _ := newTestSession(&stubBackend{})
	if _, redirect := s.LoginRedirect(domain.ErrUnauthorized, "/login"); redirect {
		t.Fatalf("must not redirect when already on /login")
	}
	if _, redirect := s.LoginRedirect(errors.New("boom"), "/manager-dashboard"); redirect {
		t.Fatalf("unrelated errors must not redirect")
	}
}

func TestSession_Notices(t *testing.T) {
	s, _ := newTestSession(&stubBackend{})
	s.Notify(Notice{Kind: NoticeSuccess, Message: "one"})
	s.Notify(Notice{Kind: NoticeError, Message: "two"})

	got := s.TakeNotices()
	if len(got) != 2 || got[0].Message != "one" || got[1].Message != "two" {
		t.Fatalf("unexpected notices: %+v", got)
	}
	if again := s.TakeNotices(); len(again) != 0 {
		t.Fatalf("notices must be shown once, got %+v", again)
	}
}

func TestSession_Register(t *testing.T) {
	b := &stubBackend{}
	s, _ := newTestSession(b)
	reg := domain.Registration{Name: "Eli", Email: "eli@example.com", Password: "pw", Role: domain.RoleEmployee}
	if err := s.Register(context.Background(), reg); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if len(b.registered) != 1 || b.registered[0].Email != "eli@example.com" {
		t.Fatalf("unexpected registrations: %+v", b.registered)
	}
	if !s.State().IsLoading() {
		t.Fatalf("register must not change the session state")
	}
}
