package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/forms"
	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/pkg/metrics"
)

// Messages shown by the manager dashboard.
const (
	MsgTeamLoadFailed     = "Failed to load team data"
	MsgFeedbackLoadFailed = "Failed to load feedback"
	MsgFeedbackSubmitted  = "Feedback submitted successfully"
	MsgFeedbackFailed     = "Failed to submit feedback"
)

// ErrNoSuchEmployee is returned when a roster action names an unknown row.
var ErrNoSuchEmployee = errors.New("employee not in roster")

// FeedbackFormState is the open feedback form for one employee.
type FeedbackFormState struct {
	Employee domain.Employee
	Values   forms.Feedback
	Errors   forms.FieldErrors
}

// ManagerDashboard is the manager's roster with an optional selected row
// and an optional open feedback form.
type ManagerDashboard struct {
	backend  ports.Backend
	notifier Notifier
	log      zerolog.Logger

	mu       sync.Mutex
	roster   []domain.RosterEntry
	loaded   bool
	selected *domain.RosterEntry
	history  []domain.Feedback
	form     *FeedbackFormState
	pageErr  string
}

func NewManagerDashboard(backend ports.Backend, notifier Notifier, log zerolog.Logger) *ManagerDashboard {
	return &ManagerDashboard{
		backend:  backend,
		notifier: notifier,
		log:      log.With().Str("view", "manager_dashboard").Logger(),
	}
}

// ManagerView is a snapshot for rendering.
type ManagerView struct {
	Roster   []domain.RosterEntry
	Loaded   bool
	Selected *domain.RosterEntry
	History  []domain.Feedback
	Form     *FeedbackFormState
	Error    string
}

// Load fetches the roster. A failure sets the page-level error.
func (d *ManagerDashboard) Load(ctx context.Context) error {
	team, err := d.backend.Dashboard(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.log.Error().Err(err).Msg("load team")
		d.pageErr = MsgTeamLoadFailed
		return err
	}
	d.roster = team
	d.loaded = true
	d.pageErr = ""
	if d.selected != nil {
		if e, ok := d.find(d.selected.Employee.ID); ok {
			d.selected = &e
		}
	}
	return nil
}

// Select marks a row and fetches that employee's feedback history.
func (d *ManagerDashboard) Select(ctx context.Context, employeeID int64) error {
	d.mu.Lock()
	entry, ok := d.find(employeeID)
	d.mu.Unlock()
	if !ok {
		return ErrNoSuchEmployee
	}

	items, err := d.backend.EmployeeFeedback(ctx, employeeID)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.log.Error().Err(err).Int64("employee_id", employeeID).Msg("load employee feedback")
		d.pageErr = MsgFeedbackLoadFailed
		return err
	}
	d.selected = &entry
	d.history = items
	return nil
}

// Deselect closes the side panel.
func (d *ManagerDashboard) Deselect() {
	d.mu.Lock()
	d.selected, d.history = nil, nil
	d.mu.Unlock()
}

// OpenForm opens an empty feedback form for a roster row. An already open
// form for the same employee keeps its values.
func (d *ManagerDashboard) OpenForm(employeeID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	entry, ok := d.find(employeeID)
	if !ok {
		return ErrNoSuchEmployee
	}
	if d.form != nil && d.form.Employee.ID == employeeID {
		return nil
	}
	d.form = &FeedbackFormState{Employee: entry.Employee, Values: forms.NewFeedback()}
	return nil
}

// CloseForm discards the open form.
func (d *ManagerDashboard) CloseForm() {
	d.mu.Lock()
	d.form = nil
	d.mu.Unlock()
}

// SubmitFeedback validates in and posts it for employeeID. Invalid input
// sends nothing and returns forms.FieldErrors. On success the roster is
// fetched again and the form closes; on failure it stays open with the
// submitted values.
func (d *ManagerDashboard) SubmitFeedback(ctx context.Context, employeeID int64, in forms.Feedback) error {
	in.Normalize()

	d.mu.Lock()
	entry, ok := d.find(employeeID)
	if !ok {
		d.mu.Unlock()
		return ErrNoSuchEmployee
	}
	d.form = &FeedbackFormState{Employee: entry.Employee, Values: in}
	if err := forms.Check(in); err != nil {
		d.form.Errors = forms.Errors(err)
		d.mu.Unlock()
		return err
	}
	d.mu.Unlock()

	err := d.backend.SubmitFeedback(ctx, in.Draft(employeeID))
	metrics.FeedbackSubmissionsTotal.WithLabelValues(string(in.Sentiment), metrics.Result(err)).Inc()
	if err != nil {
		d.log.Error().Err(err).Int64("employee_id", employeeID).Msg("submit feedback")
		d.notifier.Notify(Notice{Kind: NoticeError, Title: "Error", Message: MsgFeedbackFailed})
		return err
	}

	d.notifier.Notify(Notice{Kind: NoticeSuccess, Title: "Success", Message: MsgFeedbackSubmitted})
	d.mu.Lock()
	d.form = nil
	d.mu.Unlock()

	if err := d.Load(ctx); err != nil {
		// The feedback itself was stored; the page shows the load error.
		return nil
	}
	d.mu.Lock()
	reselect := d.selected != nil && d.selected.Employee.ID == employeeID
	d.mu.Unlock()
	if reselect {
		_ = d.Select(ctx, employeeID)
	}
	return nil
}

// View returns a copy of the current state.
func (d *ManagerDashboard) View() ManagerView {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := ManagerView{
		Roster:  append([]domain.RosterEntry(nil), d.roster...),
		Loaded:  d.loaded,
		History: append([]domain.Feedback(nil), d.history...),
		Error:   d.pageErr,
	}
	if d.selected != nil {
		sel := *d.selected
		v.Selected = &sel
	}
	if d.form != nil {
		f := *d.form
		v.Form = &f
	}
	return v
}

// Loaded reports whether the roster has been fetched at least once.
func (d *ManagerDashboard) Loaded() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loaded
}

// find must be called with d.mu held.
func (d *ManagerDashboard) find(employeeID int64) (domain.RosterEntry, bool) {
	for _, e := range d.roster {
		if e.Employee.ID == employeeID {
			return e, true
		}
	}
	return domain.RosterEntry{}, false
}
