package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/crewbase/core/internal/infrastructure/logger"
	"github.com/crewbase/core/internal/ports"
)

// ActivityHandler handles dashboard, inbox and feed requests
type ActivityHandler struct {
	activityService ports.ActivityService
	logger          *logger.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService ports.ActivityService, logger *logger.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// GetDashboard returns the acting user's bucketed assignments
func (h *ActivityHandler) GetDashboard(c echo.Context) error {
	userID := getActingUser(c)

	dashboard, err := h.activityService.Dashboard(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("Dashboard failed", "error", err, "user_id", userID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, dashboard)
}

// GetFeed returns the cross-project activity feed for the acting user
func (h *ActivityHandler) GetFeed(c echo.Context) error {
	userID := getActingUser(c)

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit")
		}
		limit = parsed
	}

	events, err := h.activityService.Feed(c.Request().Context(), userID, limit)
	if err != nil {
		h.logger.Error("Feed failed", "error", err, "user_id", userID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, events)
}

// GetInbox returns the acting user's new-task inbox
func (h *ActivityHandler) GetInbox(c echo.Context) error {
	userID := getActingUser(c)

	inbox, err := h.activityService.Inbox(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("Inbox failed", "error", err, "user_id", userID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, inbox)
}
