package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/crewbase/core/internal/domain/entities"
	"github.com/crewbase/core/internal/ports"
)

func TestActivityService_Dashboard(t *testing.T) {
	env := newTestEnv(t)
	yesterday := time.Now().AddDate(0, 0, -1)
	inThree := time.Now().AddDate(0, 0, 3)

	overdue := env.createTask(t, ports.CreateTaskRequest{
		Title:       "Demo old tiles",
		AssigneeIDs: []uuid.UUID{env.tiler.ID},
		DueDate:     &yesterday,
	})
	week := env.createTask(t, ports.CreateTaskRequest{
		Title:       "Tile backsplash",
		AssigneeIDs: []uuid.UUID{env.tiler.ID},
		DueDate:     &inThree,
	})
	// Assigned to the foreman, not the tiler: never on the tiler's dashboard.
	env.createTask(t, ports.CreateTaskRequest{
		Title:       "Order grout",
		AssigneeIDs: []uuid.UUID{env.foreman.ID},
	})

	t.Run("unaccepted assignments stay off the dashboard", func(t *testing.T) {
		dashboard, err := env.feed.Dashboard(env.ctx, env.tiler.ID)
		require.NoError(t, err)
		require.Empty(t, dashboard.Overdue)
		require.Empty(t, dashboard.ThisWeek)
	})

	t.Run("accepted assignments land in their due buckets", func(t *testing.T) {
		_, err := env.tasks.AcceptTask(env.ctx, env.project.ID, overdue.ID, env.tiler.ID, "")
		require.NoError(t, err)
		_, err = env.tasks.AcceptTask(env.ctx, env.project.ID, week.ID, env.tiler.ID, "")
		require.NoError(t, err)

		dashboard, err := env.feed.Dashboard(env.ctx, env.tiler.ID)
		require.NoError(t, err)
		require.Len(t, dashboard.Overdue, 1)
		require.Equal(t, overdue.ID, dashboard.Overdue[0].Task.ID)
		require.Equal(t, env.project.Name, dashboard.Overdue[0].ProjectName)
		require.Len(t, dashboard.ThisWeek, 1)
		require.Equal(t, week.ID, dashboard.ThisWeek[0].Task.ID)
	})

	t.Run("completed tasks move to recently done", func(t *testing.T) {
		_, err := env.tasks.ToggleTask(env.ctx, env.project.ID, overdue.ID, env.tiler.ID)
		require.NoError(t, err)

		dashboard, err := env.feed.Dashboard(env.ctx, env.tiler.ID)
		require.NoError(t, err)
		require.Empty(t, dashboard.Overdue)
		require.Len(t, dashboard.RecentlyDone, 1)
		require.Equal(t, overdue.ID, dashboard.RecentlyDone[0].Task.ID)
	})
}

func TestActivityService_Inbox(t *testing.T) {
	env := newTestEnv(t)
	inThree := time.Now().AddDate(0, 0, 3)
	yesterday := time.Now().AddDate(0, 0, -1)

	later := env.createTask(t, ports.CreateTaskRequest{
		Title:       "Tile backsplash",
		AssigneeIDs: []uuid.UUID{env.tiler.ID},
		DueDate:     &inThree,
	})
	urgent := env.createTask(t, ports.CreateTaskRequest{
		Title:       "Demo old tiles",
		AssigneeIDs: []uuid.UUID{env.tiler.ID},
		DueDate:     &yesterday,
	})

	inbox, err := env.feed.Inbox(env.ctx, env.tiler.ID)
	require.NoError(t, err)
	require.Equal(t, 2, inbox.Count)
	// Most urgent due date first.
	require.Equal(t, urgent.ID, inbox.Tasks[0].Task.ID)
	require.Equal(t, later.ID, inbox.Tasks[1].Task.ID)

	_, err = env.tasks.AcceptTask(env.ctx, env.project.ID, urgent.ID, env.tiler.ID, "")
	require.NoError(t, err)

	inbox, err = env.feed.Inbox(env.ctx, env.tiler.ID)
	require.NoError(t, err)
	require.Equal(t, 1, inbox.Count)
	require.Equal(t, later.ID, inbox.Tasks[0].Task.ID)

	// The creator is not an assignee and has an empty inbox.
	inbox, err = env.feed.Inbox(env.ctx, env.foreman.ID)
	require.NoError(t, err)
	require.Equal(t, 0, inbox.Count)
}

func TestActivityService_Feed(t *testing.T) {
	env := newTestEnv(t)

	env.createTask(t, ports.CreateTaskRequest{Title: "Demo old tiles"})
	_, err := env.messages.SendMessage(env.ctx, env.project.ID, env.tiler.ID, ports.SendMessageRequest{
		Content: "Starting in the morning",
	})
	require.NoError(t, err)

	t.Run("own events are excluded", func(t *testing.T) {
		events, err := env.feed.Feed(env.ctx, env.foreman.ID, 0)
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, entities.ActivityMessageSent, events[0].Kind)
		require.Equal(t, env.tiler.ID, events[0].ActorID)
	})

	t.Run("newest first with limit", func(t *testing.T) {
		events, err := env.feed.Feed(env.ctx, env.tiler.ID, 1)
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, env.foreman.ID, events[0].ActorID)

		all, err := env.feed.Feed(env.ctx, env.tiler.ID, 0)
		require.NoError(t, err)
		for i := 1; i < len(all); i++ {
			require.False(t, all[i-1].OccurredAt.Before(all[i].OccurredAt))
		}
	})
}
