package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/crewbase/core/internal/domain/entities"
)

// Every service method takes the acting user explicitly. There is no
// process-wide current user inside the model; SessionService only supplies
// the default persona for callers that did not name one.

// ProjectService interface for project aggregate operations
type ProjectService interface {
	CreateProject(ctx context.Context, req CreateProjectRequest, creatorID uuid.UUID) (*entities.Project, error)
	GetProject(ctx context.Context, projectID, userID uuid.UUID) (*entities.Project, error)
	ListProjects(ctx context.Context, userID uuid.UUID) ([]ProjectSummary, error)
	AddProjectAttachment(ctx context.Context, projectID, userID uuid.UUID, req AddAttachmentRequest) (*entities.Attachment, error)
	ListProjectAttachments(ctx context.Context, projectID, userID uuid.UUID) ([]AttachmentGroup, error)
}

// TaskService interface for task and subtask operations
type TaskService interface {
	CreateTask(ctx context.Context, projectID, creatorID uuid.UUID, req CreateTaskRequest) (*entities.Task, error)
	GetTask(ctx context.Context, projectID, taskID, userID uuid.UUID) (*entities.Task, error)
	ListTasks(ctx context.Context, projectID, userID uuid.UUID) (*TaskBuckets, error)
	RenameTask(ctx context.Context, projectID, taskID, userID uuid.UUID, title string) (*entities.Task, error)
	ToggleTask(ctx context.Context, projectID, taskID, userID uuid.UUID) (*entities.Task, error)
	AcceptTask(ctx context.Context, projectID, taskID, userID uuid.UUID, comment string) (*entities.Task, error)
	DeleteTask(ctx context.Context, projectID, taskID, userID uuid.UUID) error
	AddSubtask(ctx context.Context, projectID, taskID, creatorID uuid.UUID, req CreateSubtaskRequest) (*entities.Subtask, error)
	ToggleSubtask(ctx context.Context, projectID, taskID, subtaskID, userID uuid.UUID) (*entities.Subtask, error)
	AddTaskAttachment(ctx context.Context, projectID, taskID, userID uuid.UUID, req AddAttachmentRequest) (*entities.Attachment, error)
	UnreadCount(ctx context.Context, projectID, taskID, userID uuid.UUID) (int, error)
}

// MessageService interface for project chat operations
type MessageService interface {
	ListMessages(ctx context.Context, projectID, userID uuid.UUID) ([]entities.Message, error)
	SendMessage(ctx context.Context, projectID, senderID uuid.UUID, req SendMessageRequest) (*entities.Message, error)
	ToggleReaction(ctx context.Context, projectID, messageID, userID uuid.UUID, emoji string) (*entities.Message, error)
	MarkRead(ctx context.Context, projectID, userID uuid.UUID, messageIDs []uuid.UUID) error
}

// ActivityService interface for the read-side dashboard and feed
type ActivityService interface {
	Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error)
	Feed(ctx context.Context, viewerID uuid.UUID, limit int) ([]*entities.ActivityEvent, error)
	Inbox(ctx context.Context, userID uuid.UUID) (*Inbox, error)
}

// SessionService interface for the mock identity surface
type SessionService interface {
	ListUsers(ctx context.Context) ([]*entities.User, error)
	Current(ctx context.Context) (*entities.User, error)
	SwitchUser(ctx context.Context, userID uuid.UUID) (*entities.User, error)
}

// Request/Response Types

// Project related types
type CreateProjectRequest struct {
	Name        string      `json:"name" validate:"required,min=1,max=120"`
	Description *string     `json:"description" validate:"omitempty,max=2000"`
	MemberIDs   []uuid.UUID `json:"member_ids"`
}

// ProjectSummary is the per-user project list row: denormalized activity
// preview plus the viewer's unread and inbox counters.
type ProjectSummary struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description"`
	MemberCount     int       `json:"member_count"`
	TaskCount       int       `json:"task_count"`
	LastActivity    time.Time `json:"last_activity"`
	ActivityText    string    `json:"activity_text"`
	UnreadTaskCount int       `json:"unread_task_count"`
	NewTaskCount    int       `json:"new_task_count"`
}

// Task related types
type CreateTaskRequest struct {
	Title       string      `json:"title" validate:"required,min=1,max=200"`
	AssigneeIDs []uuid.UUID `json:"assignee_ids"`
	DueDate     *time.Time  `json:"due_date"`
	Notes       string      `json:"notes" validate:"max=4000"`
}

type CreateSubtaskRequest struct {
	Title       string      `json:"title" validate:"required,min=1,max=200"`
	Description *string     `json:"description" validate:"omitempty,max=2000"`
	AssigneeIDs []uuid.UUID `json:"assignee_ids"`
	DueDate     *time.Time  `json:"due_date"`
}

type AcceptTaskRequest struct {
	Comment string `json:"comment" validate:"max=2000"`
}

type RenameTaskRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

// TaskBuckets is the due-date classification of a project's pending tasks,
// each bucket sorted by ascending due date with no-date tasks last.
type TaskBuckets struct {
	Overdue  []entities.Task `json:"overdue"`
	Today    []entities.Task `json:"today"`
	ThisWeek []entities.Task `json:"this_week"`
	Later    []entities.Task `json:"later"`
	Done     []entities.Task `json:"done"`
}

// Attachment related types
type AddAttachmentRequest struct {
	Kind      entities.AttachmentKind     `json:"kind" validate:"required"`
	Category  entities.AttachmentCategory `json:"category" validate:"required"`
	FileName  string                      `json:"file_name" validate:"required,max=255"`
	SizeBytes int64                       `json:"size_bytes" validate:"gte=0"`
	Caption   *string                     `json:"caption" validate:"omitempty,max=500"`
	// TaskID links a project-level attachment to a task. Nil means the
	// attachment is deliberately unlinked, not unresolved.
	TaskID *uuid.UUID `json:"task_id"`
}

// AttachmentGroup is one row of the project attachment listing, grouped by
// explicit link state.
type AttachmentGroup struct {
	Link        entities.AttachmentLink `json:"link"`
	TaskTitle   string                  `json:"task_title,omitempty"`
	Attachments []entities.Attachment   `json:"attachments"`
}

// Message related types
type SendMessageRequest struct {
	Content         string     `json:"content" validate:"required,min=1,max=4000"`
	TaskID          *uuid.UUID `json:"task_id"`
	SubtaskID       *uuid.UUID `json:"subtask_id"`
	QuotedMessageID *uuid.UUID `json:"quoted_message_id"`
}

type ReactionRequest struct {
	Emoji string `json:"emoji" validate:"required,max=16"`
}

type MarkReadRequest struct {
	MessageIDs []uuid.UUID `json:"message_ids" validate:"required,min=1"`
}

// Dashboard related types

// AssignedTask is a task paired with its project context for cross-project
// listings.
type AssignedTask struct {
	ProjectID   uuid.UUID     `json:"project_id"`
	ProjectName string        `json:"project_name"`
	Task        entities.Task `json:"task"`
}

// Dashboard collects the viewer's accepted pending work split by due bucket,
// plus tasks completed within the recently-done window.
type Dashboard struct {
	Overdue      []AssignedTask `json:"overdue"`
	Today        []AssignedTask `json:"today"`
	ThisWeek     []AssignedTask `json:"this_week"`
	Later        []AssignedTask `json:"later"`
	RecentlyDone []AssignedTask `json:"recently_done"`
}

// Inbox lists tasks assigned to the viewer that they have not yet accepted.
type Inbox struct {
	Tasks []AssignedTask `json:"tasks"`
	Count int            `json:"count"`
}

// Session related types
type SwitchUserRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}
