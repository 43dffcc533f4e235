package stubapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// detail builds an HTTP error whose message becomes the response detail.
func detail(code int, msg string) *echo.HTTPError {
	return echo.NewHTTPError(code, msg)
}

// validationError turns validator failures into a 422 with one issue per
// field, located under where ("body" or "form").
func validationError(err error, where string) *echo.HTTPError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return detail(http.StatusUnprocessableEntity, err.Error())
	}
	issues := make([]validationIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, validationIssue{
			Loc:  []string{where, fe.Field()},
			Msg:  "field required",
			Type: "missing",
		})
	}
	return echo.NewHTTPError(http.StatusUnprocessableEntity, issues)
}

// NewHTTPErrorHandler renders every error as {"detail": ...}. Unexpected
// errors are logged and reported without internals.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		var body errorResponse

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			switch m := he.Message.(type) {
			case string:
				body.Detail = m
			case []validationIssue:
				body.Detail = m
			default:
				body.Detail = fmt.Sprint(m)
			}
		} else {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
			body.Detail = "Internal server error"
		}

		if code == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

// fieldName maps a struct field to its wire name.
func fieldName(tags ...string) string {
	for _, t := range tags {
		name := strings.SplitN(t, ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return ""
}
