package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crewbase/core/internal/infrastructure/logger"
	"github.com/crewbase/core/internal/ports"
)

// SessionHandler handles the mock identity surface
type SessionHandler struct {
	sessionService ports.SessionService
	logger         *logger.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService ports.SessionService, logger *logger.Logger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		logger:         logger,
	}
}

// ListUsers enumerates the available personas
func (h *SessionHandler) ListUsers(c echo.Context) error {
	users, err := h.sessionService.ListUsers(c.Request().Context())
	if err != nil {
		h.logger.Error("List users failed", "error", err)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, users)
}

// GetSession returns the current persona
func (h *SessionHandler) GetSession(c echo.Context) error {
	user, err := h.sessionService.Current(c.Request().Context())
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, user)
}

// SwitchUser selects a different persona as the default acting user
func (h *SessionHandler) SwitchUser(c echo.Context) error {
	var req ports.SwitchUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.sessionService.SwitchUser(c.Request().Context(), req.UserID)
	if err != nil {
		h.logger.Error("Switch user failed", "error", err, "user_id", req.UserID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, user)
}
