package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/crewbase/core/internal/domain/entities"
	"github.com/crewbase/core/internal/ports"
)

// ErrorResponse is the JSON error envelope
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse is a simple JSON acknowledgment
type MessageResponse struct {
	Message string `json:"message"`
}

const actingUserHeader = "X-User-ID"

// actingUserKey is the echo context key the acting-user middleware sets.
const actingUserKey = "acting_user_id"

// ActingUserMiddleware resolves the acting user for every request: the
// X-User-ID header when present, otherwise the session's current persona.
// The resolved id travels in the request context, never in shared state.
func ActingUserMiddleware(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if header := c.Request().Header.Get(actingUserHeader); header != "" {
				userID, err := uuid.Parse(header)
				if err != nil {
					return echo.NewHTTPError(http.StatusBadRequest, "Invalid X-User-ID header")
				}
				c.Set(actingUserKey, userID)
				return next(c)
			}

			user, err := sessions.Current(c.Request().Context())
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "No acting user available")
			}
			c.Set(actingUserKey, user.ID)
			return next(c)
		}
	}
}

// getActingUser returns the acting user id resolved by the middleware.
func getActingUser(c echo.Context) uuid.UUID {
	if userID, ok := c.Get(actingUserKey).(uuid.UUID); ok {
		return userID
	}
	return uuid.Nil
}

// parseIDParam parses a uuid path parameter.
func parseIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// domainError maps domain sentinel errors to HTTP errors. Anything
// unrecognized is treated as a bad request so handler code stays short.
func domainError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, entities.ErrProjectNotFound),
		errors.Is(err, entities.ErrTaskNotFound),
		errors.Is(err, entities.ErrSubtaskNotFound),
		errors.Is(err, entities.ErrMessageNotFound),
		errors.Is(err, entities.ErrUserNotFound),
		errors.Is(err, entities.ErrAttachmentNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entities.ErrTaskDeleted):
		return echo.NewHTTPError(http.StatusGone, err.Error())
	case errors.Is(err, entities.ErrPermissionDenied):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, entities.ErrNotProjectMember),
		errors.Is(err, entities.ErrAssigneeNotOnTask):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
