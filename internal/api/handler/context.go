package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mealbridge/marketplace/internal/core/domain"
)

// ctxSession extracts the claims injected by the Auth middleware. The
// session id is the user id the session was opened for.
func ctxSession(c echo.Context) (sessionID string, role domain.Role, err error) {
	sessionID, _ = c.Get("session_id").(string)
	if sessionID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	raw, _ := c.Get("role").(string)
	role, err = domain.ParseRole(raw)
	if err != nil {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "token carries an unknown role")
	}
	return sessionID, role, nil
}
