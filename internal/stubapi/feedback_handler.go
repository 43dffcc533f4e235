package stubapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/core/domain"
)

type FeedbackHandler struct {
	store *Store
	log   zerolog.Logger
}

func NewFeedbackHandler(store *Store, log zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{store: store, log: log}
}

// Dashboard lists the manager's team with feedback tallies.
//
// @Summary      Manager dashboard
// @Tags         manager
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  dashboardResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /dashboard [get]
func (h *FeedbackHandler) Dashboard(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	team := h.store.Team(u.ID)
	if team == nil {
		team = []teamMember{}
	}
	return c.JSON(http.StatusOK, dashboardResponse{Team: team})
}

// EmployeeFeedback lists the feedback given to one direct report.
//
// @Summary      Feedback history
// @Tags         manager
// @Produce      json
// @Security     BearerAuth
// @Param        employee_id  path  int  true  "Employee ID"
// @Success      200   {array}   feedbackOut
// @Failure      403   {object}  errorResponse
// @Router       /feedback/{employee_id} [get]
func (h *FeedbackHandler) EmployeeFeedback(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	employeeID, err := idParam(c, "employee_id")
	if err != nil {
		return err
	}
	items, err := h.store.FeedbackFor(u.ID, employeeID)
	if errors.Is(err, errNotYourEmployee) {
		return detail(http.StatusForbidden, "Not authorized to view this employee's feedback")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFeedbackList(items))
}

// CreateFeedback stores feedback for a direct report.
//
// @Summary      Submit feedback
// @Tags         manager
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      feedbackRequest  true  "Feedback"
// @Success      200   {object}  createFeedbackResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /feedback [post]
func (h *FeedbackHandler) CreateFeedback(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return detail(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err, "body")
	}
	sentiment, err := domain.ParseSentiment(req.Sentiment)
	if err != nil {
		return detail(http.StatusBadRequest, err.Error())
	}

	fb, err := h.store.CreateFeedback(u.ID, feedback{
		Strengths:      req.Strengths,
		AreasToImprove: req.AreasToImprove,
		Sentiment:      sentiment,
		EmployeeID:     req.EmployeeID,
	})
	if errors.Is(err, errNotYourEmployee) {
		return detail(http.StatusForbidden, "Not authorized to provide feedback to this employee")
	}
	if err != nil {
		return err
	}

	h.log.Info().
		Int64("feedback_id", fb.ID).
		Int64("manager_id", u.ID).
		Int64("employee_id", fb.EmployeeID).
		Str("sentiment", string(sentiment)).
		Msg("feedback created")
	return c.JSON(http.StatusOK, createFeedbackResponse{
		Message:  "Feedback created successfully",
		Feedback: toFeedbackOut(fb),
	})
}

// EmployeeDashboard returns the caller's feedback timeline.
//
// @Summary      Employee dashboard
// @Tags         employee
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  timelineResponse
// @Failure      403   {object}  errorResponse
// @Router       /employee-dashboard [get]
func (h *FeedbackHandler) EmployeeDashboard(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, timelineResponse{Timeline: h.store.Timeline(u.ID)})
}

// Acknowledge marks one of the caller's feedback items as read.
//
// @Summary      Acknowledge feedback
// @Tags         employee
// @Produce      json
// @Security     BearerAuth
// @Param        feedback_id  path  int  true  "Feedback ID"
// @Success      200   {object}  messageResponse
// @Failure      403   {object}  errorResponse
// @Router       /acknowledge/{feedback_id} [post]
func (h *FeedbackHandler) Acknowledge(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	feedbackID, err := idParam(c, "feedback_id")
	if err != nil {
		return err
	}
	if err := h.store.Acknowledge(u.ID, feedbackID); err != nil {
		if errors.Is(err, errNotYourFeedback) {
			return detail(http.StatusForbidden, "Not authorized to acknowledge this feedback")
		}
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Feedback acknowledged successfully"})
}
