package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crewbase/core/internal/domain/entities"
	"github.com/crewbase/core/internal/ports"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore()
	projects := NewProjectStore()
	activity := NewActivityStore()

	result, err := Seed(ctx, users, projects, activity)
	require.NoError(t, err)
	require.Len(t, result.Users, 4)
	require.Len(t, result.Projects, 2)

	t.Run("every user resolves in the store", func(t *testing.T) {
		for _, u := range result.Users {
			got, err := users.GetByID(ctx, u.ID)
			require.NoError(t, err)
			require.Equal(t, u.DisplayName, got.DisplayName)
		}
	})

	t.Run("kitchen covers every due bucket state", func(t *testing.T) {
		kitchen, err := projects.GetByID(ctx, result.Projects[0].ID)
		require.NoError(t, err)

		var buckets []entities.DueBucket
		var hasDone, hasUnacked bool
		for _, task := range kitchen.LiveTasks() {
			if task.Status == entities.TaskStatusDone {
				hasDone = true
				continue
			}
			buckets = append(buckets, task.DueBucketAt(time.Now()))
			for _, assignee := range task.AssigneeIDs {
				if task.IsNewFor(assignee) {
					hasUnacked = true
				}
			}
		}
		require.Contains(t, buckets, entities.DueBucketOverdue)
		require.True(t, hasDone)
		require.True(t, hasUnacked)
	})

	t.Run("unread badges are consistent with message read state", func(t *testing.T) {
		for _, seeded := range result.Projects {
			project, err := projects.GetByID(ctx, seeded.ID)
			require.NoError(t, err)

			for _, memberID := range project.MemberIDs {
				want := map[string]bool{}
				for i := range project.Tasks {
					task := &project.Tasks[i]
					if !task.IsDeleted() && project.UnreadCount(task, memberID) > 0 {
						want[task.ID.String()] = true
					}
				}

				got := map[string]bool{}
				for _, id := range project.UnreadTasksFor(memberID) {
					got[id.String()] = true
				}
				require.Equal(t, want, got, "member %s in %s", memberID, project.Name)
			}
		}
	})

	t.Run("chat fixtures include references, quotes and reactions", func(t *testing.T) {
		kitchen, err := projects.GetByID(ctx, result.Projects[0].ID)
		require.NoError(t, err)

		var hasTaskRef, hasSubtaskRef, hasQuote, hasReaction bool
		for _, m := range kitchen.Messages {
			hasTaskRef = hasTaskRef || m.TaskRef != nil
			hasSubtaskRef = hasSubtaskRef || m.SubtaskRef != nil
			hasQuote = hasQuote || m.Quoted != nil
			hasReaction = hasReaction || len(m.Reactions) > 0
		}
		require.True(t, hasTaskRef)
		require.True(t, hasSubtaskRef)
		require.True(t, hasQuote)
		require.True(t, hasReaction)
	})

	t.Run("attachments cover both link states", func(t *testing.T) {
		kitchen, err := projects.GetByID(ctx, result.Projects[0].ID)
		require.NoError(t, err)

		var hasLinked, hasUnlinked bool
		for _, a := range kitchen.Attachments {
			if a.Link.Linked {
				hasLinked = true
			} else {
				hasUnlinked = true
			}
		}
		require.True(t, hasLinked)
		require.True(t, hasUnlinked)
	})

	t.Run("activity log is populated", func(t *testing.T) {
		events, err := activity.List(ctx, ports.FeedFilter{})
		require.NoError(t, err)
		require.NotEmpty(t, events)
	})
}
