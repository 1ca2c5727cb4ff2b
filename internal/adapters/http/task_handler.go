package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crewbase/core/internal/infrastructure/logger"
	"github.com/crewbase/core/internal/ports"
)

// TaskHandler handles task and subtask requests
type TaskHandler struct {
	taskService ports.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// CreateTask creates a task in the project
func (h *TaskHandler) CreateTask(c echo.Context) error {
	userID := getActingUser(c)

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), projectID, userID, req)
	if err != nil {
		h.logger.Error("Create task failed", "error", err, "project_id", projectID)
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

// GetTask returns a single task
func (h *TaskHandler) GetTask(c echo.Context) error {
	userID := getActingUser(c)

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	taskID, err := parseIDParam(c, "taskId")
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(c.Request().Context(), projectID, taskID, userID)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// ListTasks returns the project's tasks classified into due buckets
func (h *TaskHandler) ListTasks(c echo.Context) error {
	userID := getActingUser(c)

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	buckets, err := h.taskService.ListTasks(c.Request().Context(), projectID, userID)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, buckets)
}

// RenameTask changes a task title
func (h *TaskHandler) RenameTask(c echo.Context) error {
	userID := getActingUser(c)

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	taskID, err := parseIDParam(c, "taskId")
	if err != nil {
		return err
	}

	var req ports.RenameTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.RenameTask(c.Request().Context(), projectID, taskID, userID, req.Title)
	if err != nil {
		h.logger.Error("Rename task failed", "error", err, "task_id", taskID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// ToggleTask flips a task between pending and done
func (h *TaskHandler) ToggleTask(c echo.Context) error {
	userID := getActingUser(c)

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	taskID, err := parseIDParam(c, "taskId")
	if err != nil {
		return err
	}

	task, err := h.taskService.ToggleTask(c.Request().Context(), projectID, taskID, userID)
	if err != nil {
		h.logger.Error("Toggle task failed", "error", err, "task_id", taskID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// AcceptTask acknowledges an assigned task, optionally with a comment
func (h *TaskHandler) AcceptTask(c echo.Context) error {
	userID := getActingUser(c)

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	taskID, err := parseIDParam(c, "taskId")
	if err != nil {
		return err
	}

	var req ports.AcceptTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.AcceptTask(c.Request().Context(), projectID, taskID, userID, req.Comment)
	if err != nil {
		h.logger.Error("Accept task failed", "error", err, "task_id", taskID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask tombstones a task
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	userID := getActingUser(c)

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	taskID, err := parseIDParam(c, "taskId")
	if err != nil {
		return err
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), projectID, taskID, userID); err != nil {
		h.logger.Error("Delete task failed", "error", err, "task_id", taskID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Task deleted"})
}

// AddSubtask appends a subtask to a task
func (h *TaskHandler) AddSubtask(c echo.Context) error {
	userID := getActingUser(c)

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	taskID, err := parseIDParam(c, "taskId")
	if err != nil {
		return err
	}

	var req ports.CreateSubtaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	subtask, err := h.taskService.AddSubtask(c.Request().Context(), projectID, taskID, userID, req)
	if err != nil {
		h.logger.Error("Add subtask failed", "error", err, "task_id", taskID)
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, subtask)
}

// ToggleSubtask flips a subtask's done flag
func (h *TaskHandler) ToggleSubtask(c echo.Context) error {
	userID := getActingUser(c)

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	taskID, err := parseIDParam(c, "taskId")
	if err != nil {
		return err
	}
	subtaskID, err := parseIDParam(c, "subtaskId")
	if err != nil {
		return err
	}

	subtask, err := h.taskService.ToggleSubtask(c.Request().Context(), projectID, taskID, subtaskID, userID)
	if err != nil {
		h.logger.Error("Toggle subtask failed", "error", err, "subtask_id", subtaskID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, subtask)
}

// AddTaskAttachment records a task-level attachment
func (h *TaskHandler) AddTaskAttachment(c echo.Context) error {
	userID := getActingUser(c)

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	taskID, err := parseIDParam(c, "taskId")
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

	attachment, err := h.taskService.AddTaskAttachment(c.Request().Context(), projectID, taskID, userID, req)
	if err != nil {
		h.logger.Error("Add task attachment failed", "error", err, "task_id", taskID)
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, attachment)
}

// GetUnreadCount returns the acting user's unread message count for a task
func (h *TaskHandler) GetUnreadCount(c echo.Context) error {
	userID := getActingUser(c)

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	taskID, err := parseIDParam(c, "taskId")
	if err != nil {
		return err
	}

	count, err := h.taskService.UnreadCount(c.Request().Context(), projectID, taskID, userID)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]int{"unread": count})
}
