package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crewbase/core/internal/domain/entities"
	"github.com/crewbase/core/internal/infrastructure/logger"
	"github.com/crewbase/core/internal/ports"
)

// MessageServiceImpl handles project chat operations
type MessageServiceImpl struct {
	projects ports.ProjectStore
	users    ports.UserStore
	activity ports.ActivityStore
	logger   *logger.Logger
}

// NewMessageService creates a new message service
func NewMessageService(projects ports.ProjectStore, users ports.UserStore, activity ports.ActivityStore, logger *logger.Logger) *MessageServiceImpl {
	return &MessageServiceImpl{
		projects: projects,
		users:    users,
		activity: activity,
		logger:   logger,
	}
}

// ListMessages returns the project's messages in send order.
func (s *MessageServiceImpl) ListMessages(ctx context.Context, projectID, userID uuid.UUID) ([]entities.Message, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("project not found: %w", err)
	}
	if !project.HasMember(userID) {
		return nil, entities.ErrNotProjectMember
	}

	return project.Messages, nil
}

// SendMessage appends a message to the project chat. Task, subtask and quote
// references are resolved against live entities once, at send time, and
// stored as title snapshots; they are never re-joined afterwards. The sender
// counts as having read their own message.
func (s *MessageServiceImpl) SendMessage(ctx context.Context, projectID, senderID uuid.UUID, req ports.SendMessageRequest) (*entities.Message, error) {
	if _, err := s.users.GetByID(ctx, senderID); err != nil {
		return nil, fmt.Errorf("sender not found: %w", err)
	}

	var message entities.Message
	var projectName string

	err := s.projects.Mutate(ctx, projectID, func(p *entities.Project) error {
		if !p.HasMember(senderID) {
			return entities.ErrNotProjectMember
		}

		now := time.Now()
		msg := entities.Message{
			ID:        uuid.New(),
			ProjectID: p.ID,
			Content:   req.Content,
			SenderID:  senderID,
			SentAt:    now,
			ReadBy:    []uuid.UUID{senderID},
		}

		if req.TaskID != nil {
			task, ok := p.FindTask(*req.TaskID)
			if !ok {
				return entities.ErrTaskNotFound
			}
			if task.IsDeleted() {
				return entities.ErrTaskDeleted
			}
			ref := task.Ref()
			msg.TaskRef = &ref
			task.LastActivityAt = now

			if req.SubtaskID != nil {
				st, ok := task.FindSubtask(*req.SubtaskID)
				if !ok {
					return entities.ErrSubtaskNotFound
				}
				sref := st.Ref()
				msg.SubtaskRef = &sref
			}
		} else if req.SubtaskID != nil {
			// Subtask reference without its task: resolve across all
			// live tasks.
			found := false
			for i := range p.Tasks {
				t := &p.Tasks[i]
				if t.IsDeleted() {
					continue
				}
				if st, ok := t.FindSubtask(*req.SubtaskID); ok {
					sref := st.Ref()
					msg.SubtaskRef = &sref
					t.LastActivityAt = now
					found = true
					break
				}
			}
			if !found {
				return entities.ErrSubtaskNotFound
			}
		}

		if req.QuotedMessageID != nil {
			quoted, ok := p.FindMessage(*req.QuotedMessageID)
			if !ok {
				return entities.ErrMessageNotFound
			}
			senderName := ""
			if u, err := s.users.GetByID(ctx, quoted.SenderID); err == nil {
				senderName = u.DisplayName
			}
			msg.Quoted = &entities.QuotedMessage{
				SenderName: senderName,
				Content:    quoted.Content,
			}
		}

		p.Messages = append(p.Messages, msg)
		p.Touch(now, req.Content)
		for _, memberID := range p.MemberIDs {
			p.RecomputeUnread(memberID)
		}

		message = msg.Clone()
		projectName = p.Name
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	event := &entities.ActivityEvent{
		Kind:        entities.ActivityMessageSent,
		ActorID:     senderID,
		ProjectID:   projectID,
		ProjectName: projectName,
		TaskRef:     message.TaskRef,
		OccurredAt:  message.SentAt,
	}
	if err := s.activity.Append(ctx, event); err != nil {
		s.logger.Error("Failed to record activity event", "error", err, "message_id", message.ID)
	}

	s.logger.Info("Message sent", "project_id", projectID, "message_id", message.ID)

	return &message, nil
}

// ToggleReaction adds or removes the sender's emoji reaction on a message.
func (s *MessageServiceImpl) ToggleReaction(ctx context.Context, projectID, messageID, userID uuid.UUID, emoji string) (*entities.Message, error) {
	var message entities.Message

	err := s.projects.Mutate(ctx, projectID, func(p *entities.Project) error {
		if !p.HasMember(userID) {
			return entities.ErrNotProjectMember
		}

		msg, ok := p.FindMessage(messageID)
		if !ok {
			return entities.ErrMessageNotFound
		}
		msg.ToggleReaction(emoji, userID)

		message = msg.Clone()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle reaction: %w", err)
	}

	s.logger.Info("Reaction toggled", "message_id", messageID, "user_id", userID, "emoji", emoji)

	return &message, nil
}

// MarkRead records the user as having read the given messages, then rebuilds
// the user's unread-task badge from message-level read state. The badge has
// no writer of its own; this recompute is the only rule connecting the two
// unread signals. The whole batch is resolved before any read state changes,
// so a bad id rejects the batch without leaving the two signals desynced.
func (s *MessageServiceImpl) MarkRead(ctx context.Context, projectID, userID uuid.UUID, messageIDs []uuid.UUID) error {
	err := s.projects.Mutate(ctx, projectID, func(p *entities.Project) error {
		if !p.HasMember(userID) {
			return entities.ErrNotProjectMember
		}

		msgs := make([]*entities.Message, 0, len(messageIDs))
		for _, messageID := range messageIDs {
			msg, ok := p.FindMessage(messageID)
			if !ok {
				return entities.ErrMessageNotFound
			}
			msgs = append(msgs, msg)
		}

		for _, msg := range msgs {
			msg.MarkRead(userID)
		}

		p.RecomputeUnread(userID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}

	s.logger.Info("Messages marked read", "project_id", projectID, "user_id", userID, "count", len(messageIDs))

	return nil
}
