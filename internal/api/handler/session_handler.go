package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mealbridge/marketplace/internal/core/domain"
	"github.com/mealbridge/marketplace/internal/core/ports"
)

// SessionHandler exposes the caller's ledger and preferences.
type SessionHandler struct {
	sessions  ports.SessionService
	languages ports.LanguageService
}

func NewSessionHandler(sessions ports.SessionService, languages ports.LanguageService) *SessionHandler {
	return &SessionHandler{sessions: sessions, languages: languages}
}

// Get handles GET /v1/session.
//
// @Summary      Current session ledger
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.LedgerSnapshot
// @Failure      401  {object}  map[string]string
// @Router       /v1/session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	sessionID, _, err := ctxSession(c)
	if err != nil {
		return err
	}

	snap, err := h.sessions.Snapshot(c.Request().Context(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap)
}

// SetRole handles PUT /v1/session/role.
//
// @Summary      Switch between donor and recipient view
// @Tags         session
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      setRoleRequest  true  "View role"
// @Success      200   {object}  ports.LedgerSnapshot
// @Failure      422   {object}  map[string]string
// @Router       /v1/session/role [put]
func (h *SessionHandler) SetRole(c echo.Context) error {
	sessionID, _, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req setRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	snap, err := h.sessions.SetRole(c.Request().Context(), sessionID, domain.ViewRole(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap)
}

// Logout handles POST /v1/session/logout.
//
// @Summary      Clear the session user
// @Tags         session
// @Security     BearerAuth
// @Success      204
// @Router       /v1/session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	sessionID, _, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.sessions.Logout(c.Request().Context(), sessionID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetLanguage handles GET /v1/session/language.
//
// @Summary      UI language of the session
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Param        Accept-Language  header    string  false  "Client locale used when nothing is stored"
// @Success      200              {object}  languageResponse
// @Router       /v1/session/language [get]
func (h *SessionHandler) GetLanguage(c echo.Context) error {
	sessionID, _, err := ctxSession(c)
	if err != nil {
		return err
	}

	lang, err := h.languages.Get(c.Request().Context(), sessionID, c.Request().Header.Get("Accept-Language"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, languageResponse{Language: lang})
}

// SetLanguage handles PUT /v1/session/language.
//
// @Summary      Store the UI language
// @Tags         session
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      languageRequest  true  "en, jp, zh or es"
// @Success      200   {object}  languageResponse
// @Failure      422   {object}  map[string]string
// @Router       /v1/session/language [put]
func (h *SessionHandler) SetLanguage(c echo.Context) error {
	sessionID, _, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req languageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	lang, err := h.languages.Set(c.Request().Context(), sessionID, req.Language)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, languageResponse{Language: lang})
}
