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

// ProjectServiceImpl handles project aggregate operations
type ProjectServiceImpl struct {
	projects ports.ProjectStore
	users    ports.UserStore
	logger   *logger.Logger
}

// NewProjectService creates a new project service
func NewProjectService(projects ports.ProjectStore, users ports.UserStore, logger *logger.Logger) *ProjectServiceImpl {
	return &ProjectServiceImpl{
		projects: projects,
		users:    users,
		logger:   logger,
	}
}

// CreateProject creates a new project. The creator is always a member.
func (s *ProjectServiceImpl) CreateProject(ctx context.Context, req ports.CreateProjectRequest, creatorID uuid.UUID) (*entities.Project, error) {
	if _, err := s.users.GetByID(ctx, creatorID); err != nil {
		return nil, fmt.Errorf("creator not found: %w", err)
	}

	members := []uuid.UUID{creatorID}
	for _, memberID := range req.MemberIDs {
		if memberID == creatorID {
			continue
		}
		if _, err := s.users.GetByID(ctx, memberID); err != nil {
			return nil, fmt.Errorf("member not found: %w", err)
		}
		members = append(members, memberID)
	}

	now := time.Now()
	project := &entities.Project{
		ID:            uuid.New(),
		Name:          req.Name,
		Description:   req.Description,
		MemberIDs:     members,
		CreatedAt:     now,
		LastActivity:  now,
		ActivityText:  "Project created",
		UnreadTaskIDs: make(map[uuid.UUID][]uuid.UUID),
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("Project created successfully", "project_id", project.ID, "name", project.Name)

	return project, nil
}

// GetProject retrieves a project for a member.
func (s *ProjectServiceImpl) GetProject(ctx context.Context, projectID, userID uuid.UUID) (*entities.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("project not found: %w", err)
	}

	if !project.HasMember(userID) {
		return nil, entities.ErrNotProjectMember
	}

	return project, nil
}

// ListProjects returns summary rows of the user's projects, most recently
// active first, with the viewer's unread and inbox counters.
func (s *ProjectServiceImpl) ListProjects(ctx context.Context, userID uuid.UUID) ([]ports.ProjectSummary, error) {
	projects, err := s.projects.ListForMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	summaries := make([]ports.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		live := p.LiveTasks()

		newCount := 0
		for i := range live {
			if live[i].IsNewFor(userID) {
				newCount++
			}
		}

		summaries = append(summaries, ports.ProjectSummary{
			ID:              p.ID,
			Name:            p.Name,
			Description:     p.Description,
			MemberCount:     len(p.MemberIDs),
			TaskCount:       len(live),
			LastActivity:    p.LastActivity,
			ActivityText:    p.ActivityText,
			UnreadTaskCount: len(p.UnreadTasksFor(userID)),
			NewTaskCount:    newCount,
		})
	}

	return summaries, nil
}

// AddProjectAttachment records a project-level attachment, optionally linked
// to one of the project's live tasks.
func (s *ProjectServiceImpl) AddProjectAttachment(ctx context.Context, projectID, userID uuid.UUID, req ports.AddAttachmentRequest) (*entities.Attachment, error) {
	var attachment *entities.Attachment

	err := s.projects.Mutate(ctx, projectID, func(p *entities.Project) error {
		if !p.HasMember(userID) {
			return entities.ErrNotProjectMember
		}

		link := entities.Unlinked()
		if req.TaskID != nil {
			task, ok := p.FindTask(*req.TaskID)
			if !ok {
				return entities.ErrTaskNotFound
			}
			if task.IsDeleted() {
				return entities.ErrTaskDeleted
			}
			link = entities.LinkedTo(task.ID)
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
			Link:       link,
			CreatedAt:  now,
		}
		p.Attachments = append(p.Attachments, a)
		p.Touch(now, fmt.Sprintf("Added %s", a.FileName))

		attachment = &a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add attachment: %w", err)
	}

	s.logger.Info("Attachment added successfully", "project_id", projectID, "file_name", attachment.FileName)

	return attachment, nil
}

// ListProjectAttachments groups the project's attachments by their explicit
// link state: one unlinked group, then one group per linked task. Linked
// groups carry the task's current title for display.
func (s *ProjectServiceImpl) ListProjectAttachments(ctx context.Context, projectID, userID uuid.UUID) ([]ports.AttachmentGroup, error) {
	project, err := s.GetProject(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	unlinked := ports.AttachmentGroup{Link: entities.Unlinked()}
	linked := make(map[uuid.UUID]*ports.AttachmentGroup)
	var order []uuid.UUID

	for _, a := range project.Attachments {
		if !a.Link.Linked {
			unlinked.Attachments = append(unlinked.Attachments, a)
			continue
		}

		group, ok := linked[a.Link.TaskID]
		if !ok {
			title := ""
			if task, found := project.FindTask(a.Link.TaskID); found {
				title = task.Title
			}
			group = &ports.AttachmentGroup{Link: a.Link, TaskTitle: title}
			linked[a.Link.TaskID] = group
			order = append(order, a.Link.TaskID)
		}
		group.Attachments = append(group.Attachments, a)
	}

	groups := make([]ports.AttachmentGroup, 0, len(order)+1)
	if len(unlinked.Attachments) > 0 {
		groups = append(groups, unlinked)
	}
	for _, taskID := range order {
		groups = append(groups, *linked[taskID])
	}

	return groups, nil
}
