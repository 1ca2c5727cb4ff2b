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

// ActivityServiceImpl is the read-side query layer for the dashboard, the
// new-task inbox and the cross-project feed. Everything here recomputes from
// the aggregates on each call; nothing is cached.
type ActivityServiceImpl struct {
	projects ports.ProjectStore
	activity ports.ActivityStore
	logger   *logger.Logger
}

// NewActivityService creates a new activity service
func NewActivityService(projects ports.ProjectStore, activity ports.ActivityStore, logger *logger.Logger) *ActivityServiceImpl {
	return &ActivityServiceImpl{
		projects: projects,
		activity: activity,
		logger:   logger,
	}
}

// Dashboard collects the user's accepted pending assignments across all
// their projects, split into due buckets, plus their recently completed
// tasks. Unaccepted assignments belong to the inbox, not the dashboard.
func (s *ActivityServiceImpl) Dashboard(ctx context.Context, userID uuid.UUID) (*ports.Dashboard, error) {
	projects, err := s.projects.ListForMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	now := time.Now()
	dashboard := &ports.Dashboard{}

	for _, p := range projects {
		for _, t := range p.LiveTasks() {
			if !t.HasAssignee(userID) {
				continue
			}

			assigned := ports.AssignedTask{
				ProjectID:   p.ID,
				ProjectName: p.Name,
				Task:        t,
			}

			if t.IsRecentlyDoneAt(now) {
				dashboard.RecentlyDone = append(dashboard.RecentlyDone, assigned)
			}
			if t.Status != entities.TaskStatusPending || !t.IsAcknowledgedBy(userID) {
				continue
			}

			switch t.DueBucketAt(now) {
			case entities.DueBucketOverdue:
				dashboard.Overdue = append(dashboard.Overdue, assigned)
			case entities.DueBucketToday:
				dashboard.Today = append(dashboard.Today, assigned)
			case entities.DueBucketThisWeek:
				dashboard.ThisWeek = append(dashboard.ThisWeek, assigned)
			default:
				dashboard.Later = append(dashboard.Later, assigned)
			}
		}
	}

	sortAssignedByDue(dashboard.Overdue)
	sortAssignedByDue(dashboard.Today)
	sortAssignedByDue(dashboard.ThisWeek)
	sortAssignedByDue(dashboard.Later)
	sortAssignedByDoneDesc(dashboard.RecentlyDone)

	return dashboard, nil
}

// Feed returns the cross-project activity feed for the viewer: everyone
// else's events, newest first.
func (s *ActivityServiceImpl) Feed(ctx context.Context, viewerID uuid.UUID, limit int) ([]*entities.ActivityEvent, error) {
	events, err := s.activity.List(ctx, ports.FeedFilter{
		ExcludeActorID: &viewerID,
		Limit:          limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	return events, nil
}

// Inbox lists the user's new tasks: assigned to them and not yet accepted,
// most urgent due date first.
func (s *ActivityServiceImpl) Inbox(ctx context.Context, userID uuid.UUID) (*ports.Inbox, error) {
	projects, err := s.projects.ListForMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	inbox := &ports.Inbox{}
	for _, p := range projects {
		for _, t := range p.LiveTasks() {
			if t.IsNewFor(userID) {
				inbox.Tasks = append(inbox.Tasks, ports.AssignedTask{
					ProjectID:   p.ID,
					ProjectName: p.Name,
					Task:        t,
				})
			}
		}
	}

	sortAssignedByDue(inbox.Tasks)
	inbox.Count = len(inbox.Tasks)

	return inbox, nil
}
