package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/feedbackhub/portal/internal/core/domain"
)

const maxErrorBody = 64 << 10

// Error is a non-2xx response from the backend.
type Error struct {
	Status   int
	Endpoint string
	Detail   string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend %s: %d %s", e.Endpoint, e.Status, e.Detail)
	}
	return fmt.Sprintf("backend %s: %d %s", e.Endpoint, e.Status, http.StatusText(e.Status))
}

// Unwrap lets callers match the failure class with errors.Is.
func (e *Error) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return domain.ErrForbidden
	case e.Status >= http.StatusInternalServerError:
		return domain.ErrBackendUnavailable
	}
	return nil
}

// errorBody is the {"detail": ...} envelope the backend uses. Validation
// failures carry a list instead of a string.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func newError(endpoint string, resp *http.Response) *Error {
	e := &Error{Status: resp.StatusCode, Endpoint: endpoint}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return e
	}

	var body errorBody
	if json.Unmarshal(raw, &body) != nil || len(body.Detail) == 0 {
		return e
	}

	var detail string
	if json.Unmarshal(body.Detail, &detail) == nil {
		e.Detail = detail
		return e
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(body.Detail, &items) == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		e.Detail = strings.Join(msgs, "; ")
	}
	return e
}

// DetailOf returns the backend's detail message for err, if any.
func DetailOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}
