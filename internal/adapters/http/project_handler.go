package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crewbase/core/internal/infrastructure/logger"
	"github.com/crewbase/core/internal/ports"
)

// ProjectHandler handles project-related requests
type ProjectHandler struct {
	projectService ports.ProjectService
	logger         *logger.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService ports.ProjectService, logger *logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// CreateProject creates a new project owned by the acting user
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	userID := getActingUser(c)

	var req ports.CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	project, err := h.projectService.CreateProject(c.Request().Context(), req, userID)
	if err != nil {
		h.logger.Error("Create project failed", "error", err, "user_id", userID)
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, project)
}

// GetProject returns the full project aggregate for a member
func (h *ProjectHandler) GetProject(c echo.Context) error {
	userID := getActingUser(c)

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	project, err := h.projectService.GetProject(c.Request().Context(), projectID, userID)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, project)
}

// ListProjects returns the acting user's project summaries
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	userID := getActingUser(c)

	summaries, err := h.projectService.ListProjects(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("List projects failed", "error", err, "user_id", userID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, summaries)
}

// AddProjectAttachment records a project-level attachment
func (h *ProjectHandler) AddProjectAttachment(c echo.Context) error {
	userID := getActingUser(c)

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.AddAttachmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	attachment, err := h.projectService.AddProjectAttachment(c.Request().Context(), projectID, userID, req)
	if err != nil {
		h.logger.Error("Add attachment failed", "error", err, "project_id", projectID)
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, attachment)
}

// ListProjectAttachments returns project attachments grouped by link state
func (h *ProjectHandler) ListProjectAttachments(c echo.Context) error {
	userID := getActingUser(c)

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	groups, err := h.projectService.ListProjectAttachments(c.Request().Context(), projectID, userID)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, groups)
}
