package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrSubtaskNotFound    = errors.New("subtask not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrNotProjectMember   = errors.New("user is not a project member")
	ErrAssigneeNotOnTask  = errors.New("subtask assignee is not assigned to the parent task")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrTaskDeleted        = errors.New("task has been deleted")
)

// Enums and types
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusDone    TaskStatus = "done"
)

type AttachmentKind string

const (
	AttachmentKindImage    AttachmentKind = "image"
	AttachmentKindDocument AttachmentKind = "document"
	AttachmentKindVideo    AttachmentKind = "video"
	AttachmentKindContact  AttachmentKind = "contact"
)

// AttachmentCategory distinguishes instructional context supplied by the task
// creator (reference) from deliverables supplied by an assignee (work).
type AttachmentCategory string

const (
	AttachmentCategoryReference AttachmentCategory = "reference"
	AttachmentCategoryWork      AttachmentCategory = "work"
)

// DueBucket classifies a task relative to the current calendar day.
type DueBucket string

const (
	DueBucketOverdue  DueBucket = "overdue"
	DueBucketToday    DueBucket = "today"
	DueBucketThisWeek DueBucket = "this_week"
	DueBucketLater    DueBucket = "later"
)

type ActivityKind string

const (
	ActivityTaskCreated   ActivityKind = "task_created"
	ActivityTaskAssigned  ActivityKind = "task_assigned"
	ActivityTaskCompleted ActivityKind = "task_completed"
	ActivityTaskReopened  ActivityKind = "task_reopened"
	ActivityMessageSent   ActivityKind = "message_sent"
)

// RecentlyDoneWindow is how long a completed task counts as recently done.
const RecentlyDoneWindow = 7 * 24 * time.Hour

// User represents a crew member. Users are immutable after creation and are
// referenced by id from every other entity.
type User struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// AttachmentLink is the explicit link state of a project-level attachment.
// Unlinked and LinkedTo are distinct states, never a nullable key.
type AttachmentLink struct {
	Linked bool      `json:"linked"`
	TaskID uuid.UUID `json:"task_id,omitempty"`
}

// Unlinked returns the link state for an attachment with no task link.
func Unlinked() AttachmentLink {
	return AttachmentLink{}
}

// LinkedTo returns the link state for an attachment linked to a task.
func LinkedTo(taskID uuid.UUID) AttachmentLink {
	return AttachmentLink{Linked: true, TaskID: taskID}
}

// Attachment represents a file attached to a task, message or project.
// Attachments are never mutated after creation.
type Attachment struct {
	ID         uuid.UUID          `json:"id"`
	Kind       AttachmentKind     `json:"kind"`
	Category   AttachmentCategory `json:"category"`
	FileName   string             `json:"file_name"`
	SizeBytes  int64              `json:"size_bytes"`
	UploaderID uuid.UUID          `json:"uploader_id"`
	Caption    *string            `json:"caption"`
	Link       AttachmentLink     `json:"link"`
	CreatedAt  time.Time          `json:"created_at"`
}

// Subtask belongs to exactly one task.
type Subtask struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Done        bool         `json:"done"`
	AssigneeIDs []uuid.UUID  `json:"assignee_ids"`
	CreatorID   uuid.UUID    `json:"creator_id"`
	DueDate     *time.Time   `json:"due_date"`
	Attachments []Attachment `json:"attachments"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Task is the central entity. Status is two-state; richer workflow states are
// deliberately absent. LastActivityAt must be bumped on every mutation so the
// recently-done and activity-sorted views stay correct.
type Task struct {
	ID             uuid.UUID    `json:"id"`
	Title          string       `json:"title"`
	Status         TaskStatus   `json:"status"`
	AssigneeIDs    []uuid.UUID  `json:"assignee_ids"`
	CreatorID      uuid.UUID    `json:"creator_id"`
	DueDate        *time.Time   `json:"due_date"`
	Subtasks       []Subtask    `json:"subtasks"`
	Attachments    []Attachment `json:"attachments"`
	Notes          string       `json:"notes"`
	AcknowledgedBy []uuid.UUID  `json:"acknowledged_by"`
	CreatedAt      time.Time    `json:"created_at"`
	LastActivityAt time.Time    `json:"last_activity_at"`
	DoneAt         *time.Time   `json:"done_at"`
	DeletedAt      *time.Time   `json:"deleted_at"`
}

// TaskRef is an immutable snapshot of a task reference embedded in a message
// at creation time. The title can go stale if the task is renamed; that is
// the intended display behavior, not a join to repair.
type TaskRef struct {
	TaskID    uuid.UUID `json:"task_id"`
	TaskTitle string    `json:"task_title"`
}

// SubtaskRef is the subtask counterpart of TaskRef.
type SubtaskRef struct {
	SubtaskID    uuid.UUID `json:"subtask_id"`
	SubtaskTitle string    `json:"subtask_title"`
}

// QuotedMessage is a snapshot of a quoted message, not a live reference.
type QuotedMessage struct {
	SenderName string `json:"sender_name"`
	Content    string `json:"content"`
}

// Reaction is a single emoji reaction by a single user.
type Reaction struct {
	Emoji  string    `json:"emoji"`
	UserID uuid.UUID `json:"user_id"`
}

// Message belongs to exactly one project. Messages are never edited or
// deleted; only read state and reactions change after creation.
type Message struct {
	ID         uuid.UUID      `json:"id"`
	ProjectID  uuid.UUID      `json:"project_id"`
	Content    string         `json:"content"`
	SenderID   uuid.UUID      `json:"sender_id"`
	SentAt     time.Time      `json:"sent_at"`
	TaskRef    *TaskRef       `json:"task_ref"`
	SubtaskRef *SubtaskRef    `json:"subtask_ref"`
	Quoted     *QuotedMessage `json:"quoted"`
	ReadBy     []uuid.UUID    `json:"read_by"`
	Reactions  []Reaction     `json:"reactions"`
}

// Project is the aggregate root. It exclusively owns its tasks, messages and
// project-level attachments; member entries are references by id.
type Project struct {
	ID            uuid.UUID                 `json:"id"`
	Name          string                    `json:"name"`
	Description   *string                   `json:"description"`
	MemberIDs     []uuid.UUID               `json:"member_ids"`
	Tasks         []Task                    `json:"tasks"`
	Messages      []Message                 `json:"messages"`
	Attachments   []Attachment              `json:"attachments"`
	CreatedAt     time.Time                 `json:"created_at"`
	LastActivity  time.Time                 `json:"last_activity"`
	ActivityText  string                    `json:"activity_text"`
	UnreadTaskIDs map[uuid.UUID][]uuid.UUID `json:"unread_task_ids"`
}

// ActivityEvent is one entry in the cross-project activity feed. Project name
// and task reference are snapshots taken when the event is recorded.
type ActivityEvent struct {
	ID          uuid.UUID    `json:"id"`
	Kind        ActivityKind `json:"kind"`
	ActorID     uuid.UUID    `json:"actor_id"`
	ProjectID   uuid.UUID    `json:"project_id"`
	ProjectName string       `json:"project_name"`
	TaskRef     *TaskRef     `json:"task_ref"`
	OccurredAt  time.Time    `json:"occurred_at"`
}

// startOfDay truncates t to midnight in its own location. Due-date buckets
// use calendar days, not raw duration arithmetic.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Business logic methods for Task

// IsDeleted reports whether the task has been tombstoned. Tombstoned tasks
// stay resolvable by id so message snapshots never dangle, but are excluded
// from every listing and derived view.
func (t *Task) IsDeleted() bool {
	return t.DeletedAt != nil
}

// IsOverdueAt reports whether the task's due day is before now's calendar
// day. Done tasks are never overdue.
func (t *Task) IsOverdueAt(now time.Time) bool {
	if t.DueDate == nil || t.Status != TaskStatusPending {
		return false
	}
	return startOfDay(*t.DueDate).Before(startOfDay(now))
}

// IsOverdue reports whether the task is overdue right now.
func (t *Task) IsOverdue() bool {
	return t.IsOverdueAt(time.Now())
}

// IsDueTodayAt reports whether the task is due on now's calendar day.
func (t *Task) IsDueTodayAt(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return startOfDay(*t.DueDate).Equal(startOfDay(now))
}

// IsDueToday reports whether the task is due today.
func (t *Task) IsDueToday() bool {
	return t.IsDueTodayAt(time.Now())
}

// DueBucketAt classifies the task against now's calendar day. This is the
// single source of truth for the overdue/today/this-week/later split.
func (t *Task) DueBucketAt(now time.Time) DueBucket {
	if t.DueDate == nil {
		return DueBucketLater
	}
	due := startOfDay(*t.DueDate)
	today := startOfDay(now)

	switch {
	case due.Before(today) && t.Status == TaskStatusPending:
		return DueBucketOverdue
	case due.Equal(today):
		return DueBucketToday
	case due.After(today) && !due.After(today.AddDate(0, 0, 7)):
		return DueBucketThisWeek
	default:
		return DueBucketLater
	}
}

// IsAcknowledgedBy reports whether the task counts as acknowledged for the
// given user. Acknowledgment only gates assignees: for anyone not assigned
// the answer is always true, so a task with no assignees is acknowledged for
// everyone.
func (t *Task) IsAcknowledgedBy(userID uuid.UUID) bool {
	if !containsID(t.AssigneeIDs, userID) {
		return true
	}
	return containsID(t.AcknowledgedBy, userID)
}

// IsNewFor reports whether the task sits in the user's new-task inbox:
// assigned to them but not yet accepted.
func (t *Task) IsNewFor(userID uuid.UUID) bool {
	return containsID(t.AssigneeIDs, userID) && !containsID(t.AcknowledgedBy, userID)
}

// Acknowledge records the user's acceptance. Idempotent.
func (t *Task) Acknowledge(userID uuid.UUID, now time.Time) {
	if !containsID(t.AcknowledgedBy, userID) {
		t.AcknowledgedBy = append(t.AcknowledgedBy, userID)
	}
	t.LastActivityAt = now
}

// ToggleStatus flips pending<->done and maintains DoneAt and LastActivityAt.
func (t *Task) ToggleStatus(now time.Time) {
	if t.Status == TaskStatusPending {
		t.Status = TaskStatusDone
		t.DoneAt = &now
	} else {
		t.Status = TaskStatusPending
		t.DoneAt = nil
	}
	t.LastActivityAt = now
}

// IsRecentlyDoneAt reports whether the task was completed within the
// recently-done window before now.
func (t *Task) IsRecentlyDoneAt(now time.Time) bool {
	if t.Status != TaskStatusDone || t.DoneAt == nil {
		return false
	}
	return now.Sub(*t.DoneAt) <= RecentlyDoneWindow
}

// SubtaskProgress returns (done, total) over the task's subtasks.
func (t *Task) SubtaskProgress() (done, total int) {
	for _, st := range t.Subtasks {
		if st.Done {
			done++
		}
	}
	return done, len(t.Subtasks)
}

// FindSubtask returns the subtask with the given id, if present.
func (t *Task) FindSubtask(subtaskID uuid.UUID) (*Subtask, bool) {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == subtaskID {
			return &t.Subtasks[i], true
		}
	}
	return nil, false
}

// HasAssignee reports whether the user is an assignee of the task.
func (t *Task) HasAssignee(userID uuid.UUID) bool {
	return containsID(t.AssigneeIDs, userID)
}

// CanToggleSubtask reports whether the user may toggle the given subtask:
// the task creator and any task or subtask assignee may, others may not.
func (t *Task) CanToggleSubtask(subtaskID, userID uuid.UUID) bool {
	if t.CreatorID == userID || containsID(t.AssigneeIDs, userID) {
		return true
	}
	if st, ok := t.FindSubtask(subtaskID); ok {
		return containsID(st.AssigneeIDs, userID)
	}
	return false
}

// Ref returns a snapshot reference to the task at its current title.
func (t *Task) Ref() TaskRef {
	return TaskRef{TaskID: t.ID, TaskTitle: t.Title}
}

// Business logic methods for Subtask

// Toggle flips the done flag.
func (st *Subtask) Toggle() {
	st.Done = !st.Done
}

// Ref returns a snapshot reference to the subtask at its current title.
func (st *Subtask) Ref() SubtaskRef {
	return SubtaskRef{SubtaskID: st.ID, SubtaskTitle: st.Title}
}

// Business logic methods for Message

// IsReadBy reports whether the user has read the message.
func (m *Message) IsReadBy(userID uuid.UUID) bool {
	return containsID(m.ReadBy, userID)
}

// MarkRead records the user as having read the message. Idempotent.
func (m *Message) MarkRead(userID uuid.UUID) {
	if !containsID(m.ReadBy, userID) {
		m.ReadBy = append(m.ReadBy, userID)
	}
}

// ToggleReaction adds the (emoji, user) reaction, or removes it when already
// present.
func (m *Message) ToggleReaction(emoji string, userID uuid.UUID) {
	for i, r := range m.Reactions {
		if r.Emoji == emoji && r.UserID == userID {
			m.Reactions = append(m.Reactions[:i], m.Reactions[i+1:]...)
			return
		}
	}
	m.Reactions = append(m.Reactions, Reaction{Emoji: emoji, UserID: userID})
}

// IsRelevantTo reports whether the message belongs to the task's thread: it
// references the task directly, or references one of the task's current
// subtasks.
func (m *Message) IsRelevantTo(t *Task) bool {
	if m.TaskRef != nil && m.TaskRef.TaskID == t.ID {
		return true
	}
	if m.SubtaskRef != nil {
		if _, ok := t.FindSubtask(m.SubtaskRef.SubtaskID); ok {
			return true
		}
	}
	return false
}

// Business logic methods for Project

// HasMember reports whether the user belongs to the project.
func (p *Project) HasMember(userID uuid.UUID) bool {
	return containsID(p.MemberIDs, userID)
}

// FindTask returns the task with the given id, including tombstoned tasks.
func (p *Project) FindTask(taskID uuid.UUID) (*Task, bool) {
	for i := range p.Tasks {
		if p.Tasks[i].ID == taskID {
			return &p.Tasks[i], true
		}
	}
	return nil, false
}

// FindMessage returns the message with the given id, if present.
func (p *Project) FindMessage(messageID uuid.UUID) (*Message, bool) {
	for i := range p.Messages {
		if p.Messages[i].ID == messageID {
			return &p.Messages[i], true
		}
	}
	return nil, false
}

// LiveTasks returns the project's tasks with tombstones filtered out.
func (p *Project) LiveTasks() []Task {
	live := make([]Task, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		if !t.IsDeleted() {
			live = append(live, t)
		}
	}
	return live
}

// UnreadCount is the number of messages relevant to the task that the user
// has not read. It rescans the full message list on every call; at the data
// volumes this store holds that is the intended trade-off.
func (p *Project) UnreadCount(t *Task, userID uuid.UUID) int {
	count := 0
	for i := range p.Messages {
		if p.Messages[i].IsRelevantTo(t) && !p.Messages[i].IsReadBy(userID) {
			count++
		}
	}
	return count
}

// RecomputeUnread rebuilds the user's unread-task set from per-message read
// state. This is the single authoritative rule linking the two unread
// signals: the task badge is always derived from message-level ReadBy.
func (p *Project) RecomputeUnread(userID uuid.UUID) {
	var unread []uuid.UUID
	for i := range p.Tasks {
		t := &p.Tasks[i]
		if t.IsDeleted() {
			continue
		}
		if p.UnreadCount(t, userID) > 0 {
			unread = append(unread, t.ID)
		}
	}
	if p.UnreadTaskIDs == nil {
		p.UnreadTaskIDs = make(map[uuid.UUID][]uuid.UUID)
	}
	if len(unread) == 0 {
		delete(p.UnreadTaskIDs, userID)
		return
	}
	p.UnreadTaskIDs[userID] = unread
}

// UnreadTasksFor returns the user's unread-task set. A missing key means
// nothing unread, not unknown.
func (p *Project) UnreadTasksFor(userID uuid.UUID) []uuid.UUID {
	return p.UnreadTaskIDs[userID]
}

// Touch updates the project's last-activity timestamp and preview text.
// The preview is a denormalized cache: mutation paths are responsible for
// keeping it current.
func (p *Project) Touch(now time.Time, preview string) {
	p.LastActivity = now
	if preview != "" {
		p.ActivityText = preview
	}
}

// Utility methods

func (ts TaskStatus) IsValid() bool {
	switch ts {
	case TaskStatusPending, TaskStatusDone:
		return true
	default:
		return false
	}
}

func (ak AttachmentKind) IsValid() bool {
	switch ak {
	case AttachmentKindImage, AttachmentKindDocument, AttachmentKindVideo, AttachmentKindContact:
		return true
	default:
		return false
	}
}

func (ac AttachmentCategory) IsValid() bool {
	switch ac {
	case AttachmentCategoryReference, AttachmentCategoryWork:
		return true
	default:
		return false
	}
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
