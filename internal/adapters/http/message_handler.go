package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crewbase/core/internal/infrastructure/logger"
	"github.com/crewbase/core/internal/ports"
)

// MessageHandler handles project chat requests
type MessageHandler struct {
	messageService ports.MessageService
	logger         *logger.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService ports.MessageService, logger *logger.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		logger:         logger,
	}
}

// ListMessages returns the project's messages in send order
func (h *MessageHandler) ListMessages(c echo.Context) error {
	userID := getActingUser(c)

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	messages, err := h.messageService.ListMessages(c.Request().Context(), projectID, userID)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, messages)
}

// SendMessage appends a message to the project chat
func (h *MessageHandler) SendMessage(c echo.Context) error {
	userID := getActingUser(c)

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message, err := h.messageService.SendMessage(c.Request().Context(), projectID, userID, req)
	if err != nil {
		h.logger.Error("Send message failed", "error", err, "project_id", projectID)
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, message)
}

// ToggleReaction adds or removes an emoji reaction on a message
func (h *MessageHandler) ToggleReaction(c echo.Context) error {
	userID := getActingUser(c)

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	messageID, err := parseIDParam(c, "messageId")
	if err != nil {
		return err
	}

	var req ports.ReactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message, err := h.messageService.ToggleReaction(c.Request().Context(), projectID, messageID, userID, req.Emoji)
	if err != nil {
		h.logger.Error("Toggle reaction failed", "error", err, "message_id", messageID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, message)
}

// MarkRead records the acting user as having read the given messages
func (h *MessageHandler) MarkRead(c echo.Context) error {
	userID := getActingUser(c)

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.MarkReadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.messageService.MarkRead(c.Request().Context(), projectID, userID, req.MessageIDs); err != nil {
		h.logger.Error("Mark read failed", "error", err, "project_id", projectID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Messages marked read"})
}
