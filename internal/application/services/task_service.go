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

// TaskServiceImpl handles task and subtask operations
type TaskServiceImpl struct {
	projects ports.ProjectStore
	users    ports.UserStore
	activity ports.ActivityStore
	logger   *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(projects ports.ProjectStore, users ports.UserStore, activity ports.ActivityStore, logger *logger.Logger) *TaskServiceImpl {
	return &TaskServiceImpl{
		projects: projects,
		users:    users,
		activity: activity,
		logger:   logger,
	}
}

// CreateTask creates a new task in the project. Assignees must be project
// members; the created task is unacknowledged for every assignee and so
// lands in their new-task inboxes.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, projectID, creatorID uuid.UUID, req ports.CreateTaskRequest) (*entities.Task, error) {
	var task *entities.Task
	var projectName string

	err := s.projects.Mutate(ctx, projectID, func(p *entities.Project) error {
		if !p.HasMember(creatorID) {
			return entities.ErrNotProjectMember
		}
		for _, assigneeID := range req.AssigneeIDs {
			if !p.HasMember(assigneeID) {
				return entities.ErrNotProjectMember
			}
		}

		now := time.Now()
		t := entities.Task{
			ID:             uuid.New(),
			Title:          req.Title,
			Status:         entities.TaskStatusPending,
			AssigneeIDs:    req.AssigneeIDs,
			CreatorID:      creatorID,
			DueDate:        req.DueDate,
			Notes:          req.Notes,
			CreatedAt:      now,
			LastActivityAt: now,
		}
		p.Tasks = append(p.Tasks, t)
		p.Touch(now, fmt.Sprintf("New task: %s", t.Title))

		task = &t
		projectName = p.Name
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.record(ctx, entities.ActivityTaskCreated, creatorID, projectID, projectName, task.Ref())
	if len(task.AssigneeIDs) > 0 {
		s.record(ctx, entities.ActivityTaskAssigned, creatorID, projectID, projectName, task.Ref())
	}

	s.logger.Info("Task created successfully", "task_id", task.ID, "title", task.Title)

	return task, nil
}

// GetTask retrieves a task by id within its project, for a member. Tombstoned
// tasks resolve with ErrTaskDeleted so callers can render a placeholder.
func (s *TaskServiceImpl) GetTask(ctx context.Context, projectID, taskID, userID uuid.UUID) (*entities.Task, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("project not found: %w", err)
	}
	if !project.HasMember(userID) {
		return nil, entities.ErrNotProjectMember
	}

	task, ok := project.FindTask(taskID)
	if !ok {
		return nil, entities.ErrTaskNotFound
	}
	if task.IsDeleted() {
		return nil, entities.ErrTaskDeleted
	}

	return task, nil
}

// ListTasks classifies the project's live tasks into due buckets for the
// viewer. Pending tasks are split overdue/today/this-week/later; done tasks
// are listed separately, most recently completed first.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, projectID, userID uuid.UUID) (*ports.TaskBuckets, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("project not found: %w", err)
	}
	if !project.HasMember(userID) {
		return nil, entities.ErrNotProjectMember
	}

	now := time.Now()
	buckets := &ports.TaskBuckets{}
	for _, t := range project.LiveTasks() {
		if t.Status == entities.TaskStatusDone {
			buckets.Done = append(buckets.Done, t)
			continue
		}
		switch t.DueBucketAt(now) {
		case entities.DueBucketOverdue:
			buckets.Overdue = append(buckets.Overdue, t)
		case entities.DueBucketToday:
			buckets.Today = append(buckets.Today, t)
		case entities.DueBucketThisWeek:
			buckets.ThisWeek = append(buckets.ThisWeek, t)
		default:
			buckets.Later = append(buckets.Later, t)
		}
	}

	sortTasksByDue(buckets.Overdue)
	sortTasksByDue(buckets.Today)
	sortTasksByDue(buckets.ThisWeek)
	sortTasksByDue(buckets.Later)
	sortTasksByDoneDesc(buckets.Done)

	return buckets, nil
}

// RenameTask changes the task title. Messages referencing the task keep the
// title snapshot taken when they were sent.
func (s *TaskServiceImpl) RenameTask(ctx context.Context, projectID, taskID, userID uuid.UUID, title string) (*entities.Task, error) {
	task, err := s.mutateTask(ctx, projectID, taskID, func(p *entities.Project, t *entities.Task) error {
		if !p.HasMember(userID) {
			return entities.ErrNotProjectMember
		}
		t.Title = title
		t.LastActivityAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rename task: %w", err)
	}

	s.logger.Info("Task renamed successfully", "task_id", taskID, "title", title)

	return task, nil
}

// ToggleTask flips the task between pending and done and records the
// matching feed event.
func (s *TaskServiceImpl) ToggleTask(ctx context.Context, projectID, taskID, userID uuid.UUID) (*entities.Task, error) {
	var projectName string

	task, err := s.mutateTask(ctx, projectID, taskID, func(p *entities.Project, t *entities.Task) error {
		if !p.HasMember(userID) {
			return entities.ErrNotProjectMember
		}

		now := time.Now()
		t.ToggleStatus(now)
		if t.Status == entities.TaskStatusDone {
			p.Touch(now, fmt.Sprintf("Completed: %s", t.Title))
		} else {
			p.Touch(now, fmt.Sprintf("Reopened: %s", t.Title))
		}

		projectName = p.Name
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}

	kind := entities.ActivityTaskCompleted
	if task.Status == entities.TaskStatusPending {
		kind = entities.ActivityTaskReopened
	}
	s.record(ctx, kind, userID, projectID, projectName, task.Ref())

	s.logger.Info("Task status toggled", "task_id", taskID, "status", task.Status)

	return task, nil
}

// AcceptTask records the user's acknowledgment of an assigned task. A
// non-empty comment is appended to the project chat as a message referencing
// the task.
func (s *TaskServiceImpl) AcceptTask(ctx context.Context, projectID, taskID, userID uuid.UUID, comment string) (*entities.Task, error) {
	var projectName string
	var ref entities.TaskRef

	task, err := s.mutateTask(ctx, projectID, taskID, func(p *entities.Project, t *entities.Task) error {
		if !p.HasMember(userID) {
			return entities.ErrNotProjectMember
		}

		now := time.Now()
		t.Acknowledge(userID, now)

		if comment != "" {
			ref = t.Ref()
			msg := entities.Message{
				ID:        uuid.New(),
				ProjectID: p.ID,
				Content:   comment,
				SenderID:  userID,
				SentAt:    now,
				TaskRef:   &ref,
				ReadBy:    []uuid.UUID{userID},
			}
			p.Messages = append(p.Messages, msg)
			p.Touch(now, comment)
			for _, memberID := range p.MemberIDs {
				p.RecomputeUnread(memberID)
			}
		} else {
			p.Touch(now, fmt.Sprintf("Accepted: %s", t.Title))
		}

		projectName = p.Name
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to accept task: %w", err)
	}

	if comment != "" {
		s.record(ctx, entities.ActivityMessageSent, userID, projectID, projectName, ref)
	}

	s.logger.Info("Task accepted", "task_id", taskID, "user_id", userID)

	return task, nil
}

// DeleteTask tombstones the task. The id stays resolvable so message
// snapshots referencing it never dangle; listings and derived views skip it
// from here on. Only the creator may delete.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, projectID, taskID, userID uuid.UUID) error {
	_, err := s.mutateTask(ctx, projectID, taskID, func(p *entities.Project, t *entities.Task) error {
		if t.CreatorID != userID {
			return entities.ErrPermissionDenied
		}

		now := time.Now()
		t.DeletedAt = &now
		p.Touch(now, fmt.Sprintf("Removed: %s", t.Title))
		for _, memberID := range p.MemberIDs {
			p.RecomputeUnread(memberID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Info("Task deleted", "task_id", taskID, "user_id", userID)

	return nil
}

// AddSubtask appends a subtask to the task. Subtask assignees must be a
// subset of the parent task's assignees.
func (s *TaskServiceImpl) AddSubtask(ctx context.Context, projectID, taskID, creatorID uuid.UUID, req ports.CreateSubtaskRequest) (*entities.Subtask, error) {
	var subtask *entities.Subtask

	_, err := s.mutateTask(ctx, projectID, taskID, func(p *entities.Project, t *entities.Task) error {
		if !p.HasMember(creatorID) {
			return entities.ErrNotProjectMember
		}
		for _, assigneeID := range req.AssigneeIDs {
			if !t.HasAssignee(assigneeID) {
				return entities.ErrAssigneeNotOnTask
			}
		}

		now := time.Now()
		st := entities.Subtask{
			ID:          uuid.New(),
			Title:       req.Title,
			Description: req.Description,
			AssigneeIDs: req.AssigneeIDs,
			CreatorID:   creatorID,
			DueDate:     req.DueDate,
			CreatedAt:   now,
		}
		t.Subtasks = append(t.Subtasks, st)
		t.LastActivityAt = now
		p.Touch(now, fmt.Sprintf("New subtask: %s", st.Title))

		subtask = &st
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add subtask: %w", err)
	}

	s.logger.Info("Subtask added successfully", "task_id", taskID, "subtask_id", subtask.ID)

	return subtask, nil
}

// ToggleSubtask flips a subtask's done flag. The toggle is assignment-gated:
// only the task creator or an assignee of the task or subtask may toggle.
func (s *TaskServiceImpl) ToggleSubtask(ctx context.Context, projectID, taskID, subtaskID, userID uuid.UUID) (*entities.Subtask, error) {
	var subtask *entities.Subtask

	_, err := s.mutateTask(ctx, projectID, taskID, func(p *entities.Project, t *entities.Task) error {
		st, ok := t.FindSubtask(subtaskID)
		if !ok {
			return entities.ErrSubtaskNotFound
		}
		if !t.CanToggleSubtask(subtaskID, userID) {
			return entities.ErrPermissionDenied
		}

		now := time.Now()
		st.Toggle()
		t.LastActivityAt = now
		p.Touch(now, fmt.Sprintf("Updated: %s", st.Title))

		copied := st.Clone()
		subtask = &copied
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle subtask: %w", err)
	}

	s.logger.Info("Subtask toggled", "task_id", taskID, "subtask_id", subtaskID, "done", subtask.Done)

	return subtask, nil
}

// AddTaskAttachment records a task-level attachment. Category must match the
// uploader's role on the task: reference material comes from the creator,
// work deliverables come from an assignee.
func (s *TaskServiceImpl) AddTaskAttachment(ctx context.Context, projectID, taskID, userID uuid.UUID, req ports.AddAttachmentRequest) (*entities.Attachment, error) {
	var attachment *entities.Attachment

	_, err := s.mutateTask(ctx, projectID, taskID, func(p *entities.Project, t *entities.Task) error {
		if !p.HasMember(userID) {
			return entities.ErrNotProjectMember
		}
		switch req.Category {
		case entities.AttachmentCategoryReference:
			if t.CreatorID != userID {
				return entities.ErrPermissionDenied
			}
		case entities.AttachmentCategoryWork:
			if !t.HasAssignee(userID) {
				return entities.ErrPermissionDenied
			}
		}

		now := time.Now()
		a := entities.Attachment{
			ID:         uuid.New(),
			Kind:       req.Kind,
			Category:   req.Category,
			FileName:   req.FileName,
			SizeBytes:  req.SizeBytes,
			UploaderID: userID,
			Caption:    req.Caption,
			CreatedAt:  now,
		}
		t.Attachments = append(t.Attachments, a)
		t.LastActivityAt = now
		p.Touch(now, fmt.Sprintf("Added %s", a.FileName))

		attachment = &a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add attachment: %w", err)
	}

	s.logger.Info("Task attachment added", "task_id", taskID, "file_name", attachment.FileName)

	return attachment, nil
}

// UnreadCount returns how many messages relevant to the task the user has
// not read yet.
func (s *TaskServiceImpl) UnreadCount(ctx context.Context, projectID, taskID, userID uuid.UUID) (int, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return 0, fmt.Errorf("project not found: %w", err)
	}
	if !project.HasMember(userID) {
		return 0, entities.ErrNotProjectMember
	}

	task, ok := project.FindTask(taskID)
	if !ok {
		return 0, entities.ErrTaskNotFound
	}
	if task.IsDeleted() {
		return 0, entities.ErrTaskDeleted
	}

	return project.UnreadCount(task, userID), nil
}

// mutateTask resolves a live task inside the project's write lock and
// applies fn to it. Returns a copy of the task after mutation.
func (s *TaskServiceImpl) mutateTask(ctx context.Context, projectID, taskID uuid.UUID, fn func(p *entities.Project, t *entities.Task) error) (*entities.Task, error) {
	var result entities.Task

	err := s.projects.Mutate(ctx, projectID, func(p *entities.Project) error {
		task, ok := p.FindTask(taskID)
		if !ok {
			return entities.ErrTaskNotFound
		}
		if task.IsDeleted() {
			return entities.ErrTaskDeleted
		}
		if err := fn(p, task); err != nil {
			return err
		}
		result = task.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *TaskServiceImpl) record(ctx context.Context, kind entities.ActivityKind, actorID, projectID uuid.UUID, projectName string, ref entities.TaskRef) {
	event := &entities.ActivityEvent{
		Kind:        kind,
		ActorID:     actorID,
		ProjectID:   projectID,
		ProjectName: projectName,
		TaskRef:     &ref,
		OccurredAt:  time.Now(),
	}
	if err := s.activity.Append(ctx, event); err != nil {
		s.logger.Error("Failed to record activity event", "error", err, "kind", kind)
	}
}
