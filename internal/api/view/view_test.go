package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/forms"
	"github.com/feedbackhub/portal/internal/core/service"
)

func render(t *testing.T, name string, p Page) string {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, name, p, nil); err != nil {
		t.Fatalf("Render(%s) returned error: %v", name, err)
	}
	return buf.String()
}

func TestRender_NavbarAnonymous(t *testing.T) {
	out := render(t, PageHome, Page{Title: "Home"})
	if !strings.Contains(out, "Welcome to the Feedback Tool") {
		t.Fatalf("missing greeting")
	}
	if !strings.Contains(out, `href="/login"`) || !strings.Contains(out, `href="/register"`) {
		t.Fatalf("anonymous navbar must link login and register")
	}
	if strings.Contains(out, "Logout") {
		t.Fatalf("anonymous navbar must not offer logout")
	}
}

func TestRender_NavbarManager(t *testing.T) {
	u := &domain.User{ID: 1, Email: "maya@example.com", Role: domain.RoleManager}
	out := render(t, PageHome, Page{Title: "Home", User: u})
	if !strings.Contains(out, "Manager Dashboard") || strings.Contains(out, "Employee Dashboard") {
		t.Fatalf("manager navbar links wrong: %s", out)
	}
	if !strings.Contains(out, "maya@example.com") || !strings.Contains(out, "Logout") {
		t.Fatalf("authenticated navbar must show email and logout")
	}
}

func TestRender_Notices(t *testing.T) {
	out := render(t, PageHome, Page{Notices: []service.Notice{{Kind: service.NoticeSuccess, Title: "Success", Message: "Feedback submitted successfully"}}})
	if !strings.Contains(out, "notice-success") || !strings.Contains(out, "Feedback submitted successfully") {
		t.Fatalf("notice not rendered")
	}
}

func TestRender_ManagerDashboard(t *testing.T) {
	roster := []domain.RosterEntry{{
		Employee:      domain.Employee{ID: 42, Name: "Eli", Email: "eli@example.com"},
		FeedbackCount: 3,
		Sentiments:    domain.SentimentTally{Positive: 2, Negative: 1},
	}}
	form := &service.FeedbackFormState{
		Employee: roster[0].Employee,
		Values:   forms.Feedback{Strengths: "abcd", Sentiment: domain.SentimentNeutral},
		Errors:   forms.FieldErrors{"strengths": "Strengths must be at least 5 characters"},
	}
	out := render(t, PageManager, Page{Body: service.ManagerView{Roster: roster, Loaded: true, Selected: &roster[0], Form: form}})

	for _, want := range []string{
		"Eli", "?employee=42", "?feedback=42",
		"Strengths must be at least 5 characters",
		`<option value="NEUTRAL" selected>`,
		`name="employee_id" value="42"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("manager page missing %q", want)
		}
	}
}

func TestRender_ManagerError(t *testing.T) {
	out := render(t, PageManager, Page{Body: service.ManagerView{Error: "Failed to load team data"}})
	if !strings.Contains(out, "Failed to load team data") || strings.Contains(out, "Your Team") {
		t.Fatalf("error state must replace the body")
	}
}

func TestRender_EmployeeTimeline(t *testing.T) {
	view := service.EmployeeView{Timeline: []domain.Feedback{
		{ID: 7, Strengths: "abcde", Sentiment: domain.SentimentNeutral},
		{ID: 9, Strengths: "fghij", Sentiment: domain.SentimentPositive, Acknowledged: true},
	}}
	out := render(t, PageEmployee, Page{Body: view})
	if !strings.Contains(out, "/employee-dashboard/acknowledge/7") {
		t.Fatalf("unacknowledged item needs an acknowledge button")
	}
	if strings.Contains(out, "/employee-dashboard/acknowledge/9") {
		t.Fatalf("acknowledged item must not offer the button")
	}
}

func TestRender_LoadingRefreshes(t *testing.T) {
	out := render(t, PageLoading, Page{Title: "Loading"})
	if !strings.Contains(out, `http-equiv="refresh"`) {
		t.Fatalf("placeholder must refresh itself")
	}
}

func TestRender_UnknownPage(t *testing.T) {
	r := MustNew()
	if err := r.Render(&bytes.Buffer{}, "nope", Page{}, nil); err == nil {
		t.Fatalf("expected error for unknown page")
	}
}
