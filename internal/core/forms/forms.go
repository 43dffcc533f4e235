// Package forms holds the portal's form models and their validation rules.
//
// Field messages are the ones shown next to the inputs; FieldErrors is keyed
// by the form field name so templates can look them up directly.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"

	"github.com/feedbackhub/portal/internal/core/domain"
)

// MinFeedbackLength is the minimum trimmed length of both feedback texts.
const MinFeedbackLength = 5

// FieldErrors maps a form field name to its message.
type FieldErrors map[string]string

// Has reports whether field has an error.
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

func (fe FieldErrors) Error() string {
	msgs := make([]string, 0, len(fe))
	for _, m := range fe {
		msgs = append(msgs, m)
	}
	return strings.Join(msgs, "; ")
}

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the shared validator. Field names in its errors are the
// `form` tag values.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("textmin", textMin)
	})
	return validate
}

// textMin compares the UTF-16 length of a string with the tag parameter,
// the length browsers report for input values.
func textMin(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return TextLength(fl.Field().String()) >= n
}

// TextLength counts s in UTF-16 code units.
func TextLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// Check validates v and returns nil or FieldErrors.
func Check(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := make(FieldErrors, len(ve))
	for _, fe := range ve {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(v, fe)
		}
	}
	return out
}

// Errors extracts FieldErrors from err, or nil.
func Errors(err error) FieldErrors {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}

// message renders fe using the field's `label` tag when present.
func message(v any, fe validator.FieldError) string {
	label := labelOf(v, fe.StructField())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "required_if":
		if fe.StructField() == "ManagerID" {
			return "Manager ID is required for employees"
		}
		return label + " is required"
	case "email":
		return label + " must be a valid email"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "min", "textmin":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, fe.Tag())
	}
}

func labelOf(v any, field string) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(field); ok {
		if l := f.Tag.Get("label"); l != "" {
			return l
		}
	}
	return field
}

// Login is the login form.
type Login struct {
	Email    string `form:"email" label:"Email" validate:"required"`
	Password string `form:"password" label:"Password" validate:"required"`
}

// Normalize trims the email. The password is sent as typed.
func (f *Login) Normalize() {
	f.Email = strings.TrimSpace(f.Email)
}

// Register is the registration form. ManagerID is only meaningful for
// employees and is dropped for managers.
type Register struct {
	Name      string      `form:"name" label:"Name" validate:"required"`
	Email     string      `form:"email" label:"Email" validate:"required,email"`
	Password  string      `form:"password" label:"Password" validate:"required"`
	Role      domain.Role `form:"role" label:"Role" validate:"oneof=Manager Employee"`
	ManagerID int64       `form:"manager_id" label:"Manager ID" validate:"required_if=Role Employee,omitempty,gte=1"`
}

// Normalize trims text fields, defaults the role to Employee and drops the
// manager id for managers.
func (f *Register) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	if f.Role == "" {
		f.Role = domain.RoleEmployee
	}
	if f.Role == domain.RoleManager {
		f.ManagerID = 0
	}
}

// Registration converts a validated form to the backend payload.
func (f Register) Registration() domain.Registration {
	reg := domain.Registration{
		Name:     f.Name,
		Email:    f.Email,
		Password: f.Password,
		Role:     f.Role,
	}
	if f.Role == domain.RoleEmployee && f.ManagerID > 0 {
		id := f.ManagerID
		reg.ManagerID = &id
	}
	return reg
}

// Feedback is the manager's feedback form for one employee.
type Feedback struct {
	Strengths      string           `form:"strengths" label:"Strengths" validate:"textmin=5"`
	AreasToImprove string           `form:"areasToImprove" label:"Areas to improve" validate:"textmin=5"`
	Sentiment      domain.Sentiment `form:"sentiment" label:"Sentiment" validate:"oneof=POSITIVE NEUTRAL NEGATIVE"`
}

// NewFeedback returns an empty form with the default sentiment.
func NewFeedback() Feedback {
	return Feedback{Sentiment: domain.SentimentPositive}
}

// Normalize trims both texts and defaults the sentiment.
func (f *Feedback) Normalize() {
	f.Strengths = strings.TrimSpace(f.Strengths)
	f.AreasToImprove = strings.TrimSpace(f.AreasToImprove)
	if f.Sentiment == "" {
		f.Sentiment = domain.SentimentPositive
	}
}

// Draft converts a validated form to the backend payload.
func (f Feedback) Draft(employeeID int64) domain.FeedbackDraft {
	return domain.FeedbackDraft{
		Strengths:      f.Strengths,
		AreasToImprove: f.AreasToImprove,
		Sentiment:      f.Sentiment,
		EmployeeID:     employeeID,
	}
}
