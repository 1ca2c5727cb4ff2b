package entities

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 17, 14, 30, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time { return &t }

func TestTask_DueClassification(t *testing.T) {
	t.Run("no due date is never overdue or due today", func(t *testing.T) {
		task := Task{Status: TaskStatusPending}
		require.False(t, task.IsOverdueAt(now))
		require.False(t, task.IsDueTodayAt(now))
		require.Equal(t, DueBucketLater, task.DueBucketAt(now))
	})

	t.Run("yesterday and pending is overdue, not due today", func(t *testing.T) {
		task := Task{Status: TaskStatusPending, DueDate: datePtr(now.AddDate(0, 0, -1))}
		require.True(t, task.IsOverdueAt(now))
		require.False(t, task.IsDueTodayAt(now))
		require.Equal(t, DueBucketOverdue, task.DueBucketAt(now))
	})

	t.Run("done task is never overdue", func(t *testing.T) {
		task := Task{Status: TaskStatusDone, DueDate: datePtr(now.AddDate(0, 0, -3))}
		require.False(t, task.IsOverdueAt(now))
	})

	t.Run("calendar day granularity, not raw subtraction", func(t *testing.T) {
		// Due late yesterday evening, checked early today: less than 24h
		// apart but still a different calendar day.
		lateYesterday := time.Date(2025, 6, 16, 23, 50, 0, 0, time.UTC)
		earlyToday := time.Date(2025, 6, 17, 0, 10, 0, 0, time.UTC)
		task := Task{Status: TaskStatusPending, DueDate: &lateYesterday}
		require.True(t, task.IsOverdueAt(earlyToday))
	})

	t.Run("due today", func(t *testing.T) {
		task := Task{Status: TaskStatusPending, DueDate: datePtr(now.Add(3 * time.Hour))}
		require.True(t, task.IsDueTodayAt(now))
		require.Equal(t, DueBucketToday, task.DueBucketAt(now))
	})

	t.Run("seventh day out is still this week", func(t *testing.T) {
		task := Task{Status: TaskStatusPending, DueDate: datePtr(now.AddDate(0, 0, 7))}
		require.Equal(t, DueBucketThisWeek, task.DueBucketAt(now))
	})

	t.Run("eighth day out is later", func(t *testing.T) {
		task := Task{Status: TaskStatusPending, DueDate: datePtr(now.AddDate(0, 0, 8))}
		require.Equal(t, DueBucketLater, task.DueBucketAt(now))
	})
}

func TestTask_Acknowledgment(t *testing.T) {
	assignee := uuid.New()
	other := uuid.New()

	t.Run("non-assignee is always acknowledged", func(t *testing.T) {
		task := Task{AssigneeIDs: []uuid.UUID{assignee}}
		require.True(t, task.IsAcknowledgedBy(other))
		require.False(t, task.IsNewFor(other))
	})

	t.Run("assignee without acceptance is new", func(t *testing.T) {
		task := Task{AssigneeIDs: []uuid.UUID{assignee}}
		require.False(t, task.IsAcknowledgedBy(assignee))
		require.True(t, task.IsNewFor(assignee))
	})

	t.Run("accepting removes from new", func(t *testing.T) {
		task := Task{AssigneeIDs: []uuid.UUID{assignee}}
		task.Acknowledge(assignee, now)
		require.True(t, task.IsAcknowledgedBy(assignee))
		require.False(t, task.IsNewFor(assignee))
		require.Equal(t, now, task.LastActivityAt)
	})

	t.Run("zero assignees means acknowledged for everyone", func(t *testing.T) {
		task := Task{}
		require.True(t, task.IsAcknowledgedBy(assignee))
		require.False(t, task.IsNewFor(assignee))
	})

	t.Run("acknowledge is idempotent", func(t *testing.T) {
		task := Task{AssigneeIDs: []uuid.UUID{assignee}}
		task.Acknowledge(assignee, now)
		task.Acknowledge(assignee, now.Add(time.Hour))
		require.Len(t, task.AcknowledgedBy, 1)
	})
}

func TestTask_ToggleStatus(t *testing.T) {
	task := Task{Status: TaskStatusPending}

	task.ToggleStatus(now)
	require.Equal(t, TaskStatusDone, task.Status)
	require.NotNil(t, task.DoneAt)
	require.Equal(t, now, *task.DoneAt)
	require.True(t, task.IsRecentlyDoneAt(now.AddDate(0, 0, 6)))
	require.False(t, task.IsRecentlyDoneAt(now.AddDate(0, 0, 8)))

	task.ToggleStatus(now.Add(time.Hour))
	require.Equal(t, TaskStatusPending, task.Status)
	require.Nil(t, task.DoneAt)
	require.False(t, task.IsRecentlyDoneAt(now))
}

func TestTask_SubtaskProgress(t *testing.T) {
	task := Task{
		Subtasks: []Subtask{
			{ID: uuid.New(), Title: "one"},
			{ID: uuid.New(), Title: "two"},
			{ID: uuid.New(), Title: "three"},
		},
	}

	done, total := task.SubtaskProgress()
	require.Equal(t, 0, done)
	require.Equal(t, 3, total)

	for i := range task.Subtasks {
		task.Subtasks[i].Toggle()
	}

	done, total = task.SubtaskProgress()
	require.Equal(t, 3, done)
	require.Equal(t, 3, total)
}

func TestTask_CanToggleSubtask(t *testing.T) {
	creator := uuid.New()
	taskAssignee := uuid.New()
	subAssignee := uuid.New()
	outsider := uuid.New()

	subtask := Subtask{ID: uuid.New(), AssigneeIDs: []uuid.UUID{subAssignee}}
	task := Task{
		CreatorID:   creator,
		AssigneeIDs: []uuid.UUID{taskAssignee},
		Subtasks:    []Subtask{subtask},
	}

	require.True(t, task.CanToggleSubtask(subtask.ID, creator))
	require.True(t, task.CanToggleSubtask(subtask.ID, taskAssignee))
	require.True(t, task.CanToggleSubtask(subtask.ID, subAssignee))
	require.False(t, task.CanToggleSubtask(subtask.ID, outsider))
}

func TestMessage_Reactions(t *testing.T) {
	user := uuid.New()
	msg := Message{}

	msg.ToggleReaction("👍", user)
	require.Len(t, msg.Reactions, 1)

	// Same emoji, same user: removed.
	msg.ToggleReaction("👍", user)
	require.Empty(t, msg.Reactions)

	// Different users may react with the same emoji.
	other := uuid.New()
	msg.ToggleReaction("🔥", user)
	msg.ToggleReaction("🔥", other)
	require.Len(t, msg.Reactions, 2)
}

func TestMessage_Relevance(t *testing.T) {
	subtask := Subtask{ID: uuid.New(), Title: "Haul debris"}
	task := Task{ID: uuid.New(), Title: "Demo", Subtasks: []Subtask{subtask}}
	other := Task{ID: uuid.New(), Title: "Paint"}

	t.Run("task reference matches", func(t *testing.T) {
		ref := task.Ref()
		msg := Message{TaskRef: &ref}
		require.True(t, msg.IsRelevantTo(&task))
		require.False(t, msg.IsRelevantTo(&other))
	})

	t.Run("subtask reference matches the owning task", func(t *testing.T) {
		ref := subtask.Ref()
		msg := Message{SubtaskRef: &ref}
		require.True(t, msg.IsRelevantTo(&task))
		require.False(t, msg.IsRelevantTo(&other))
	})

	t.Run("plain message matches nothing", func(t *testing.T) {
		msg := Message{}
		require.False(t, msg.IsRelevantTo(&task))
	})
}

func TestMessage_ReferenceSnapshotStaysStale(t *testing.T) {
	task := Task{ID: uuid.New(), Title: "Tile backsplash"}
	ref := task.Ref()
	msg := Message{TaskRef: &ref}

	task.Title = "Tile backsplash and niche"

	require.Equal(t, "Tile backsplash", msg.TaskRef.TaskTitle)
	// The reference still resolves by id despite the rename.
	require.Equal(t, task.ID, msg.TaskRef.TaskID)
}

func TestProject_Unread(t *testing.T) {
	user := uuid.New()
	reader := uuid.New()
	task := Task{ID: uuid.New(), Title: "Demo"}
	ref := task.Ref()

	project := Project{
		Tasks: []Task{task},
		Messages: []Message{
			{ID: uuid.New(), TaskRef: &ref, ReadBy: []uuid.UUID{reader}},
			{ID: uuid.New(), TaskRef: &ref},
			{ID: uuid.New()}, // unrelated chat
		},
	}

	t.Run("unread counts only relevant unread messages", func(t *testing.T) {
		require.Equal(t, 2, project.UnreadCount(&project.Tasks[0], user))
		require.Equal(t, 1, project.UnreadCount(&project.Tasks[0], reader))
	})

	t.Run("recompute tracks message read state", func(t *testing.T) {
		project.RecomputeUnread(user)
		require.Equal(t, []uuid.UUID{task.ID}, project.UnreadTasksFor(user))

		for i := range project.Messages {
			project.Messages[i].MarkRead(user)
		}
		project.RecomputeUnread(user)
		require.Empty(t, project.UnreadTasksFor(user))
	})

	t.Run("deleted tasks drop out of the badge set", func(t *testing.T) {
		project.RecomputeUnread(reader)
		require.NotEmpty(t, project.UnreadTasksFor(reader))

		deleted := now
		project.Tasks[0].DeletedAt = &deleted
		project.RecomputeUnread(reader)
		require.Empty(t, project.UnreadTasksFor(reader))
	})
}

func TestProject_LiveTasks(t *testing.T) {
	deleted := now
	project := Project{
		Tasks: []Task{
			{ID: uuid.New(), Title: "keep"},
			{ID: uuid.New(), Title: "gone", DeletedAt: &deleted},
		},
	}

	live := project.LiveTasks()
	require.Len(t, live, 1)
	require.Equal(t, "keep", live[0].Title)

	// The tombstone still resolves by id.
	_, found := project.FindTask(project.Tasks[1].ID)
	require.True(t, found)
}

func TestProject_Clone_Isolation(t *testing.T) {
	user := uuid.New()
	task := Task{ID: uuid.New(), Title: "Demo", AssigneeIDs: []uuid.UUID{user}}
	project := Project{
		ID:            uuid.New(),
		MemberIDs:     []uuid.UUID{user},
		Tasks:         []Task{task},
		UnreadTaskIDs: map[uuid.UUID][]uuid.UUID{user: {task.ID}},
	}

	clone := project.Clone()
	clone.Tasks[0].Title = "changed"
	clone.Tasks[0].AssigneeIDs[0] = uuid.New()
	clone.MemberIDs[0] = uuid.New()
	delete(clone.UnreadTaskIDs, user)

	require.Equal(t, "Demo", project.Tasks[0].Title)
	require.Equal(t, user, project.Tasks[0].AssigneeIDs[0])
	require.Equal(t, user, project.MemberIDs[0])
	require.Contains(t, project.UnreadTaskIDs, user)
}
