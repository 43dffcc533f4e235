package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/pkg/metrics"
)

// EmployeeDashboard is the employee's feedback timeline.
type EmployeeDashboard struct {
	backend ports.Backend
	log     zerolog.Logger

	mu       sync.Mutex
	timeline []domain.Feedback
	loaded   bool
	loadErr  error
}

func NewEmployeeDashboard(backend ports.Backend, log zerolog.Logger) *EmployeeDashboard {
	return &EmployeeDashboard{
		backend: backend,
		log:     log.With().Str("view", "employee_dashboard").Logger(),
	}
}

// EmployeeView is a snapshot for rendering.
type EmployeeView struct {
	Timeline []domain.Feedback
	Loaded   bool
	Error    string
}

// Load fetches the timeline and replaces the local copy. On failure the
// previous copy is kept and the view carries an error.
func (d *EmployeeDashboard) Load(ctx context.Context) error {
	items, err := d.backend.EmployeeDashboard(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loadErr = err
	if err != nil {
		d.log.Error().Err(err).Msg("load feedback timeline")
		return err
	}
	d.timeline = items
	d.loaded = true
	return nil
}

// Acknowledge marks one feedback item as read. On success only that item
// flips locally; the timeline is not fetched again. Failures are logged
// and leave the item untouched.
func (d *EmployeeDashboard) Acknowledge(ctx context.Context, feedbackID int64) error {
	err := d.backend.Acknowledge(ctx, feedbackID)
	metrics.AcknowledgementsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		d.log.Warn().Err(err).Int64("feedback_id", feedbackID).Msg("acknowledge feedback")
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.timeline {
		if d.timeline[i].ID == feedbackID {
			d.timeline[i].Acknowledge()
			break
		}
	}
	return nil
}

// View returns a copy of the current state.
func (d *EmployeeDashboard) View() EmployeeView {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := EmployeeView{
		Timeline: append([]domain.Feedback(nil), d.timeline...),
		Loaded:   d.loaded,
	}
	if d.loadErr != nil {
		v.Error = "Failed to load feedback"
	}
	return v
}

// Loaded reports whether the timeline has been fetched at least once.
func (d *EmployeeDashboard) Loaded() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loaded
}
