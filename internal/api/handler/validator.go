package handler

import (
	"github.com/feedbackhub/portal/internal/core/forms"
)

// echoValidator lets Echo call c.Validate(form) with the portal's form rules.
type echoValidator struct{}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{}
}

// Validate satisfies the echo.Validator interface. Failures are
// forms.FieldErrors keyed by form field name.
func (ev *echoValidator) Validate(i any) error {
	return forms.Check(i)
}
