package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/crewbase/core/internal/domain/entities"
	"github.com/crewbase/core/internal/ports"
)

func TestProjectService_CreateProject(t *testing.T) {
	env := newTestEnv(t)

	t.Run("creator is always a member", func(t *testing.T) {
		project, err := env.projectSvc.CreateProject(env.ctx, ports.CreateProjectRequest{
			Name: "Unit 12 Bathroom",
		}, env.foreman.ID)
		require.NoError(t, err)
		require.True(t, project.HasMember(env.foreman.ID))
	})

	t.Run("unknown members are rejected", func(t *testing.T) {
		_, err := env.projectSvc.CreateProject(env.ctx, ports.CreateProjectRequest{
			Name:      "Ghost crew",
			MemberIDs: []uuid.UUID{uuid.New()},
		}, env.foreman.ID)
		require.ErrorIs(t, err, entities.ErrUserNotFound)
	})

	t.Run("non-members cannot fetch the project", func(t *testing.T) {
		outsider := &entities.User{DisplayName: "Outsider"}
		require.NoError(t, env.users.Create(env.ctx, outsider))

		_, err := env.projectSvc.GetProject(env.ctx, env.project.ID, outsider.ID)
		require.ErrorIs(t, err, entities.ErrNotProjectMember)
	})
}

func TestProjectService_ListProjects(t *testing.T) {
	env := newTestEnv(t)
	task := env.createTask(t, ports.CreateTaskRequest{
		Title:       "Demo old tiles",
		AssigneeIDs: []uuid.UUID{env.tiler.ID},
	})
	_, err := env.messages.SendMessage(env.ctx, env.project.ID, env.foreman.ID, ports.SendMessageRequest{
		Content: "Check the demo plan",
		TaskID:  &task.ID,
	})
	require.NoError(t, err)

	// A second project the tiler is not part of.
	_, err = env.projectSvc.CreateProject(env.ctx, ports.CreateProjectRequest{
		Name: "Unit 12 Bathroom",
	}, env.foreman.ID)
	require.NoError(t, err)

	summaries, err := env.projectSvc.ListProjects(env.ctx, env.tiler.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	row := summaries[0]
	require.Equal(t, env.project.ID, row.ID)
	require.Equal(t, 2, row.MemberCount)
	require.Equal(t, 1, row.TaskCount)
	require.Equal(t, "Check the demo plan", row.ActivityText)
	require.Equal(t, 1, row.UnreadTaskCount)
	require.Equal(t, 1, row.NewTaskCount)

	// The foreman sees both projects; the summary counters are per viewer.
	summaries, err = env.projectSvc.ListProjects(env.ctx, env.foreman.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	for _, s := range summaries {
		require.Equal(t, 0, s.UnreadTaskCount)
		require.Equal(t, 0, s.NewTaskCount)
	}
}

func TestProjectService_Attachments(t *testing.T) {
	env := newTestEnv(t)
	task := env.createTask(t, ports.CreateTaskRequest{Title: "Tile backsplash"})

	t.Run("linking to an unknown task fails", func(t *testing.T) {
		bogus := uuid.New()
		_, err := env.projectSvc.AddProjectAttachment(env.ctx, env.project.ID, env.foreman.ID, ports.AddAttachmentRequest{
			Kind:     entities.AttachmentKindDocument,
			Category: entities.AttachmentCategoryReference,
			FileName: "permit.pdf",
			TaskID:   &bogus,
		})
		require.ErrorIs(t, err, entities.ErrTaskNotFound)
	})

	unlinked, err := env.projectSvc.AddProjectAttachment(env.ctx, env.project.ID, env.foreman.ID, ports.AddAttachmentRequest{
		Kind:     entities.AttachmentKindDocument,
		Category: entities.AttachmentCategoryReference,
		FileName: "permit.pdf",
	})
	require.NoError(t, err)
	require.False(t, unlinked.Link.Linked)

	linked, err := env.projectSvc.AddProjectAttachment(env.ctx, env.project.ID, env.foreman.ID, ports.AddAttachmentRequest{
		Kind:     entities.AttachmentKindImage,
		Category: entities.AttachmentCategoryReference,
		FileName: "layout.png",
		TaskID:   &task.ID,
	})
	require.NoError(t, err)
	require.True(t, linked.Link.Linked)
	require.Equal(t, task.ID, linked.Link.TaskID)

	t.Run("listing groups by link state, unlinked first", func(t *testing.T) {
		groups, err := env.projectSvc.ListProjectAttachments(env.ctx, env.project.ID, env.tiler.ID)
		require.NoError(t, err)
		require.Len(t, groups, 2)

		require.False(t, groups[0].Link.Linked)
		require.Len(t, groups[0].Attachments, 1)
		require.Equal(t, "permit.pdf", groups[0].Attachments[0].FileName)

		require.True(t, groups[1].Link.Linked)
		require.Equal(t, "Tile backsplash", groups[1].TaskTitle)
		require.Len(t, groups[1].Attachments, 1)
	})
}
