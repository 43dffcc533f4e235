package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/api/view"
	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/forms"
	"github.com/feedbackhub/portal/internal/core/service"
)

// DashboardHandler serves the home page and both role dashboards. Every
// route is behind a guard, so the session is authenticated here.
type DashboardHandler struct {
	log zerolog.Logger
}

func NewDashboardHandler(log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{log: log.With().Str("handler", "dashboard").Logger()}
}

// Home greets the signed-in user.
func (h *DashboardHandler) Home(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return render(c, sess, http.StatusOK, view.PageHome, "Home", nil)
}

// ManagerDashboard shows the roster. ?employee=<id> opens the history side
// panel and ?feedback=<id> opens the feedback form for that row.
func (h *DashboardHandler) ManagerDashboard(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	d := sess.ManagerDashboard()

	selectID, hasSelect, err := optionalID(c, "employee")
	if err != nil {
		return err
	}
	formID, hasForm, err := optionalID(c, "feedback")
	if err != nil {
		return err
	}

	if err := d.Load(ctx); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return err
		}
		h.log.Debug().Err(err).Msg("roster unavailable")
		return h.renderManager(c, sess, d)
	}

	if hasSelect {
		if err := d.Select(ctx, selectID); err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return err
			}
			if errors.Is(err, service.ErrNoSuchEmployee) {
				return echo.NewHTTPError(http.StatusNotFound, "employee not found")
			}
		}
	} else {
		d.Deselect()
	}

	if hasForm {
		if err := d.OpenForm(formID); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "employee not found")
		}
	} else {
		d.CloseForm()
	}
	return h.renderManager(c, sess, d)
}

type feedbackRequest struct {
	EmployeeID int64 `form:"employee_id"`
	forms.Feedback
}

// SubmitFeedback posts the feedback form. Success and failure are both
// reported through notices; validation errors re-render the form in place.
func (h *DashboardHandler) SubmitFeedback(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	d := sess.ManagerDashboard()

	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if !d.Loaded() {
		if err := d.Load(c.Request().Context()); err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return err
			}
			return h.renderManager(c, sess, d)
		}
	}

	err = d.SubmitFeedback(c.Request().Context(), req.EmployeeID, req.Feedback)
	switch {
	case err == nil:
		return c.Redirect(http.StatusSeeOther, "/manager-dashboard")
	case errors.Is(err, service.ErrNoSuchEmployee):
		return echo.NewHTTPError(http.StatusNotFound, "employee not found")
	case errors.Is(err, domain.ErrUnauthorized):
		return err
	case forms.Errors(err) != nil:
		return h.renderManagerStatus(c, sess, d, http.StatusUnprocessableEntity)
	default:
		h.log.Debug().Err(err).Int64("employee_id", req.EmployeeID).Msg("feedback not saved")
		return h.renderManager(c, sess, d)
	}
}

// EmployeeDashboard shows the feedback timeline.
func (h *DashboardHandler) EmployeeDashboard(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	d := sess.EmployeeDashboard()
	if err := d.Load(c.Request().Context()); errors.Is(err, domain.ErrUnauthorized) {
		return err
	}
	return render(c, sess, http.StatusOK, view.PageEmployee, "Employee Dashboard", d.View())
}

// Acknowledge marks one item as read and re-renders from local state.
// A failed acknowledgement is only logged.
func (h *DashboardHandler) Acknowledge(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid feedback id")
	}

	d := sess.EmployeeDashboard()
	if !d.Loaded() {
		if err := d.Load(c.Request().Context()); errors.Is(err, domain.ErrUnauthorized) {
			return err
		}
	}
	if err := d.Acknowledge(c.Request().Context(), id); errors.Is(err, domain.ErrUnauthorized) {
		return err
	}
	return render(c, sess, http.StatusOK, view.PageEmployee, "Employee Dashboard", d.View())
}

func (h *DashboardHandler) renderManager(c echo.Context, sess *service.Session, d *service.ManagerDashboard) error {
	return h.renderManagerStatus(c, sess, d, http.StatusOK)
}

func (h *DashboardHandler) renderManagerStatus(c echo.Context, sess *service.Session, d *service.ManagerDashboard, status int) error {
	return render(c, sess, status, view.PageManager, "Manager Dashboard", d.View())
}

// optionalID parses a positive id query parameter.
func optionalID(c echo.Context, name string) (int64, bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+" id")
	}
	return id, true, nil
}
