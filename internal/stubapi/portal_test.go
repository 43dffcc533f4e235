package stubapi_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/forms"
	"github.com/feedbackhub/portal/internal/core/service"
	"github.com/feedbackhub/portal/internal/infrastructure/apiclient"
	"github.com/feedbackhub/portal/internal/infrastructure/db/memory"
	"github.com/feedbackhub/portal/internal/stubapi"
)

// Seeded ids: Maria (manager) is 1, Evan 2, Erin 3.
const erinID = 3

func newPortal(t *testing.T) (*service.Registry, *memory.TokenStore) {
	t.Helper()
	store := stubapi.NewStore()
	require.NoError(t, stubapi.Seed(store))
	srv := httptest.NewServer(stubapi.New(store, stubapi.Options{JWTSecret: "e2e", TokenTTL: time.Hour}, zerolog.Nop()))
	t.Cleanup(srv.Close)

	tokens := memory.NewTokenStore()
	client := apiclient.New(srv.URL, zerolog.Nop(), apiclient.WithTimeout(5*time.Second))
	return service.NewRegistry(client, tokens, zerolog.Nop(), service.RegistryOptions{}), tokens
}

func TestPortal_ManagerSubmitsFeedback(t *testing.T) {
	ctx := context.Background()
	reg, _ := newPortal(t)
	sess := reg.Session("browser-manager")

	u, err := sess.Login(ctx, "maria@example.com", stubapi.SeedPassword)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, u.Role)

	d := sess.ManagerDashboard()
	require.NoError(t, d.Load(ctx))
	require.NoError(t, d.OpenForm(erinID))

	before := tallyOf(t, d.View(), erinID)
	err = d.SubmitFeedback(ctx, erinID, forms.Feedback{
		Strengths:      "Clear written updates",
		AreasToImprove: "Speak up in planning",
		Sentiment:      domain.SentimentNegative,
	})
	require.NoError(t, err)

	view := d.View()
	assert.Nil(t, view.Form, "form closes after a successful submit")
	after := tallyOf(t, view, erinID)
	assert.Equal(t, before.Negative+1, after.Negative)
	assert.Equal(t, before.Positive, after.Positive)

	notices := sess.TakeNotices()
	require.Len(t, notices, 1)
	assert.Equal(t, service.NoticeSuccess, notices[0].Kind)
	assert.Equal(t, service.MsgFeedbackSubmitted, notices[0].Message)

	require.NoError(t, d.Select(ctx, erinID))
	history := d.View().History
	require.NotEmpty(t, history)
	assert.Equal(t, domain.SentimentNegative, history[0].Sentiment)
}

func TestPortal_ShortFeedbackIsNotSent(t *testing.T) {
	ctx := context.Background()
	reg, _ := newPortal(t)
	sess := reg.Session("browser-manager")
	_, err := sess.Login(ctx, "maria@example.com", stubapi.SeedPassword)
	require.NoError(t, err)

	d := sess.ManagerDashboard()
	require.NoError(t, d.Load(ctx))
	before := tallyOf(t, d.View(), erinID)

	err = d.SubmitFeedback(ctx, erinID, forms.Feedback{Strengths: "abcd", AreasToImprove: "abcde", Sentiment: domain.SentimentPositive})
	require.Error(t, err)
	assert.NotNil(t, forms.Errors(err))

	require.NoError(t, d.Load(ctx))
	assert.Equal(t, before, tallyOf(t, d.View(), erinID))
}

func TestPortal_EmployeeAcknowledges(t *testing.T) {
	ctx := context.Background()
	reg, _ := newPortal(t)
	sess := reg.Session("browser-employee")

	u, err := sess.Login(ctx, "evan@example.com", stubapi.SeedPassword)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, u.Role)

	d := sess.EmployeeDashboard()
	require.NoError(t, d.Load(ctx))
	timeline := d.View().Timeline
	require.Len(t, timeline, 2)
	assert.Equal(t, "Maria Manager", timeline[0].ManagerName)

	require.NoError(t, d.Acknowledge(ctx, timeline[0].ID))
	assert.True(t, d.View().Timeline[0].Acknowledged)

	// The backend agrees after a fresh load.
	require.NoError(t, d.Load(ctx))
	assert.True(t, d.View().Timeline[0].Acknowledged)
}

func TestPortal_StaleTokenResolvesAnonymous(t *testing.T) {
	ctx := context.Background()
	reg, tokens := newPortal(t)
	require.NoError(t, tokens.Set(ctx, "browser-stale", "not-a-token"))

	st := reg.Session("browser-stale").Resolve(ctx)
	assert.True(t, st.IsAnonymous())

	_, ok, err := tokens.Get(ctx, "browser-stale")
	require.NoError(t, err)
	assert.False(t, ok, "stale token is cleared")
}

func TestPortal_WrongPassword(t *testing.T) {
	reg, _ := newPortal(t)
	_, err := reg.Session("browser-x").Login(context.Background(), "maria@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func tallyOf(t *testing.T, v service.ManagerView, employeeID int64) domain.SentimentTally {
	t.Helper()
	for _, e := range v.Roster {
		if e.Employee.ID == employeeID {
			return e.Sentiments
		}
	}
	t.Fatalf("employee %d not in roster", employeeID)
	return domain.SentimentTally{}
}
