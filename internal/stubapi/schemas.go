package stubapi

import (
	"time"

	"github.com/feedbackhub/portal/internal/core/domain"
)

// errorResponse is the envelope returned on every 4xx/5xx response.
// Detail is a string, or a list of validationIssue for 422s.
type errorResponse struct {
	Detail any `json:"detail"`
}

type validationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Requests ---

type registerRequest struct {
	Name      string `json:"name"       validate:"required"`
	Email     string `json:"email"      validate:"required"`
	Password  string `json:"password"   validate:"required"`
	Role      string `json:"role"       validate:"required"`
	ManagerID *int64 `json:"manager_id"`
}

type loginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type feedbackRequest struct {
	EmployeeID     int64  `json:"employee_id"    validate:"required"`
	Strengths      string `json:"strengths"      validate:"required"`
	AreasToImprove string `json:"areasToImprove" validate:"required"`
	Sentiment      string `json:"sentiment"      validate:"required"`
}

// --- Responses ---

type registerResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	UserID      int64       `json:"user_id"`
	Role        domain.Role `json:"role"`
}

type userOut struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	ManagerID *int64      `json:"managerId"`
}

type employeeOut struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type teamMember struct {
	Employee      employeeOut           `json:"employee"`
	FeedbackCount int                   `json:"feedback_count"`
	Sentiments    domain.SentimentTally `json:"sentiments"`
}

type dashboardResponse struct {
	Team []teamMember `json:"team"`
}

type feedbackOut struct {
	ID             int64            `json:"id"`
	Strengths      string           `json:"strengths"`
	AreasToImprove string           `json:"areasToImprove"`
	Sentiment      domain.Sentiment `json:"sentiment"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
	EmployeeID     int64            `json:"employeeId"`
	ManagerID      int64            `json:"managerId"`
	Acknowledged   bool             `json:"acknowledged"`
}

type createFeedbackResponse struct {
	Message  string      `json:"message"`
	Feedback feedbackOut `json:"feedback"`
}

type timelineItem struct {
	ID             int64            `json:"id"`
	Sentiment      domain.Sentiment `json:"sentiment"`
	Strengths      string           `json:"strengths"`
	AreasToImprove string           `json:"areasToImprove"`
	Acknowledged   bool             `json:"acknowledged"`
	CreatedAt      time.Time        `json:"createdAt"`
	ManagerName    string           `json:"managerName"`
}

type timelineResponse struct {
	Timeline []timelineItem `json:"timeline"`
}

func toFeedbackOut(fb feedback) feedbackOut {
	return feedbackOut{
		ID:             fb.ID,
		Strengths:      fb.Strengths,
		AreasToImprove: fb.AreasToImprove,
		Sentiment:      fb.Sentiment,
		CreatedAt:      fb.CreatedAt,
		UpdatedAt:      fb.UpdatedAt,
		EmployeeID:     fb.EmployeeID,
		ManagerID:      fb.ManagerID,
		Acknowledged:   fb.Acknowledged,
	}
}

func toFeedbackList(items []feedback) []feedbackOut {
	out := make([]feedbackOut, 0, len(items))
	for _, fb := range items {
		out = append(out, toFeedbackOut(fb))
	}
	return out
}
