package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mealbridge/marketplace/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// errorRule maps a domain sentinel to a status. An empty message means the
// wrapped error text is safe to show to the client.
type errorRule struct {
	target  error
	code    int
	message string
}

// Specific not-found sentinels wrap domain.ErrNotFound, so they come first.
var errorRules = []errorRule{
	{domain.ErrMealNotFound, http.StatusNotFound, "meal not found"},
	{domain.ErrRestaurantNotFound, http.StatusNotFound, "restaurant not found"},
	{domain.ErrMenuItemNotFound, http.StatusNotFound, "menu item not found"},
	{domain.ErrNotFound, http.StatusNotFound, "not found"},
	{domain.ErrValidation, http.StatusUnprocessableEntity, ""},
	{domain.ErrInvalidTransition, http.StatusConflict, ""},
	{domain.ErrNoSession, http.StatusUnauthorized, "no authenticated session"},
	{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
}

// NewHTTPErrorHandler renders every error as {"error": "..."}. Errors that
// match no rule are logged and reported as a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, known := classify(err)
		if !known {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func classify(err error) (code int, msg string, known bool) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message), true
	}

	for _, rule := range errorRules {
		if !errors.Is(err, rule.target) {
			continue
		}
		if rule.message == "" {
			return rule.code, err.Error(), true
		}
		return rule.code, rule.message, true
	}
	return http.StatusInternalServerError, "internal server error", false
}
