package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crewbase/core/internal/domain/entities"
	"github.com/crewbase/core/internal/ports"
)

// SeedResult reports what Seed created, so callers can log or assert on it.
type SeedResult struct {
	Users    []*entities.User
	Projects []*entities.Project
}

// Seed populates the stores with a mock crew and two projects covering every
// state the views care about: tasks in each due bucket, accepted and
// unaccepted assignments, read and unread messages, reference snapshots,
// quotes, reactions, and attachments of both categories.
func Seed(ctx context.Context, users ports.UserStore, projects ports.ProjectStore, activity ports.ActivityStore) (*SeedResult, error) {
	now := time.Now()

	crew := []*entities.User{
		{ID: uuid.New(), DisplayName: "Marko Petrov", PhoneNumber: "+49 170 555 0101"},
		{ID: uuid.New(), DisplayName: "Jana Keller", PhoneNumber: "+49 170 555 0102"},
		{ID: uuid.New(), DisplayName: "Tomas Ruiz", PhoneNumber: "+49 170 555 0103"},
		{ID: uuid.New(), DisplayName: "Ella Brandt", PhoneNumber: "+49 170 555 0104"},
	}
	for _, u := range crew {
		if err := users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("seed user: %w", err)
		}
	}
	foreman, tiler, plumber, apprentice := crew[0], crew[1], crew[2], crew[3]

	yesterday := now.AddDate(0, 0, -1)
	inThreeDays := now.AddDate(0, 0, 3)
	inTwoWeeks := now.AddDate(0, 0, 14)
	twoDaysAgo := now.AddDate(0, 0, -2)

	caption := "Tile layout from the architect"

	kitchen := &entities.Project{
		ID:        uuid.New(),
		Name:      "Hartley Kitchen Remodel",
		MemberIDs: []uuid.UUID{foreman.ID, tiler.ID, apprentice.ID},
		CreatedAt: now.AddDate(0, 0, -20),
	}

	demolition := entities.Task{
		ID:             uuid.New(),
		Title:          "Tear out old counters",
		Status:         entities.TaskStatusPending,
		AssigneeIDs:    []uuid.UUID{tiler.ID, apprentice.ID},
		CreatorID:      foreman.ID,
		DueDate:        &yesterday,
		Notes:          "Dumpster arrives 7am, load directly",
		AcknowledgedBy: []uuid.UUID{tiler.ID},
		CreatedAt:      now.AddDate(0, 0, -10),
		LastActivityAt: yesterday,
		Subtasks: []entities.Subtask{
			{
				ID:          uuid.New(),
				Title:       "Disconnect appliances",
				Done:        true,
				AssigneeIDs: []uuid.UUID{tiler.ID},
				CreatorID:   foreman.ID,
				CreatedAt:   now.AddDate(0, 0, -10),
			},
			{
				ID:          uuid.New(),
				Title:       "Haul debris",
				Done:        false,
				AssigneeIDs: []uuid.UUID{apprentice.ID},
				CreatorID:   foreman.ID,
				CreatedAt:   now.AddDate(0, 0, -10),
			},
		},
		Attachments: []entities.Attachment{
			{
				ID:         uuid.New(),
				Kind:       entities.AttachmentKindImage,
				Category:   entities.AttachmentCategoryReference,
				FileName:   "counter-layout.jpg",
				SizeBytes:  482133,
				UploaderID: foreman.ID,
				Caption:    &caption,
				CreatedAt:  now.AddDate(0, 0, -10),
			},
		},
	}

	tiling := entities.Task{
		ID:             uuid.New(),
		Title:          "Tile backsplash",
		Status:         entities.TaskStatusPending,
		AssigneeIDs:    []uuid.UUID{tiler.ID},
		CreatorID:      foreman.ID,
		DueDate:        &inThreeDays,
		CreatedAt:      now.AddDate(0, 0, -5),
		LastActivityAt: now.AddDate(0, 0, -5),
	}

	paint := entities.Task{
		ID:             uuid.New(),
		Title:          "Paint ceiling",
		Status:         entities.TaskStatusPending,
		AssigneeIDs:    []uuid.UUID{apprentice.ID},
		CreatorID:      foreman.ID,
		DueDate:        &inTwoWeeks,
		CreatedAt:      now.AddDate(0, 0, -4),
		LastActivityAt: now.AddDate(0, 0, -4),
	}

	cabinets := entities.Task{
		ID:             uuid.New(),
		Title:          "Install upper cabinets",
		Status:         entities.TaskStatusDone,
		AssigneeIDs:    []uuid.UUID{tiler.ID, foreman.ID},
		CreatorID:      foreman.ID,
		AcknowledgedBy: []uuid.UUID{tiler.ID, foreman.ID},
		CreatedAt:      now.AddDate(0, 0, -15),
		LastActivityAt: twoDaysAgo,
		DoneAt:         &twoDaysAgo,
		Attachments: []entities.Attachment{
			{
				ID:         uuid.New(),
				Kind:       entities.AttachmentKindImage,
				Category:   entities.AttachmentCategoryWork,
				FileName:   "cabinets-done.jpg",
				SizeBytes:  1203994,
				UploaderID: tiler.ID,
				CreatedAt:  twoDaysAgo,
			},
		},
	}

	kitchen.Tasks = []entities.Task{demolition, tiling, paint, cabinets}

	demoRef := demolition.Ref()
	haulRef := demolition.Subtasks[1].Ref()
	firstMsg := entities.Message{
		ID:        uuid.New(),
		ProjectID: kitchen.ID,
		Content:   "Counters need to be out before the tile delivery Friday",
		SenderID:  foreman.ID,
		SentAt:    now.AddDate(0, 0, -3),
		TaskRef:   &demoRef,
		ReadBy:    []uuid.UUID{foreman.ID, tiler.ID},
		Reactions: []entities.Reaction{{Emoji: "👍", UserID: tiler.ID}},
	}
	kitchen.Messages = []entities.Message{
		firstMsg,
		{
			ID:         uuid.New(),
			ProjectID:  kitchen.ID,
			Content:    "Debris pile is getting big, who has the trailer?",
			SenderID:   apprentice.ID,
			SentAt:     now.AddDate(0, 0, -1),
			SubtaskRef: &haulRef,
			ReadBy:     []uuid.UUID{apprentice.ID},
			Quoted: &entities.QuotedMessage{
				SenderName: foreman.DisplayName,
				Content:    firstMsg.Content,
			},
		},
	}

	kitchen.Attachments = []entities.Attachment{
		{
			ID:         uuid.New(),
			Kind:       entities.AttachmentKindDocument,
			Category:   entities.AttachmentCategoryReference,
			FileName:   "permit.pdf",
			SizeBytes:  88210,
			UploaderID: foreman.ID,
			Link:       entities.Unlinked(),
			CreatedAt:  now.AddDate(0, 0, -19),
		},
		{
			ID:         uuid.New(),
			Kind:       entities.AttachmentKindImage,
			Category:   entities.AttachmentCategoryWork,
			FileName:   "backsplash-area.jpg",
			SizeBytes:  743002,
			UploaderID: tiler.ID,
			Link:       entities.LinkedTo(tiling.ID),
			CreatedAt:  now.AddDate(0, 0, -2),
		},
	}

	kitchen.Touch(now.AddDate(0, 0, -1), "Debris pile is getting big, who has the trailer?")

	bathroom := &entities.Project{
		ID:        uuid.New(),
		Name:      "Unit 12 Bathroom",
		MemberIDs: []uuid.UUID{foreman.ID, plumber.ID},
		CreatedAt: now.AddDate(0, 0, -8),
	}

	today := now
	roughIn := entities.Task{
		ID:             uuid.New(),
		Title:          "Rough-in supply lines",
		Status:         entities.TaskStatusPending,
		AssigneeIDs:    []uuid.UUID{plumber.ID},
		CreatorID:      foreman.ID,
		DueDate:        &today,
		CreatedAt:      now.AddDate(0, 0, -6),
		LastActivityAt: now.AddDate(0, 0, -6),
	}
	bathroom.Tasks = []entities.Task{roughIn}

	roughRef := roughIn.Ref()
	bathroom.Messages = []entities.Message{
		{
			ID:        uuid.New(),
			ProjectID: bathroom.ID,
			Content:   "Shutoff valve for the riser is in the hallway closet",
			SenderID:  foreman.ID,
			SentAt:    now.AddDate(0, 0, -1),
			TaskRef:   &roughRef,
			ReadBy:    []uuid.UUID{foreman.ID},
		},
	}
	bathroom.Touch(now.AddDate(0, 0, -1), "Shutoff valve for the riser is in the hallway closet")

	for _, p := range []*entities.Project{kitchen, bathroom} {
		for _, userID := range p.MemberIDs {
			p.RecomputeUnread(userID)
		}
		if err := projects.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("seed project %s: %w", p.Name, err)
		}
	}

	cabinetsRef := cabinets.Ref()
	events := []*entities.ActivityEvent{
		{Kind: entities.ActivityTaskCreated, ActorID: foreman.ID, ProjectID: kitchen.ID, ProjectName: kitchen.Name, TaskRef: &demoRef, OccurredAt: now.AddDate(0, 0, -10)},
		{Kind: entities.ActivityTaskCompleted, ActorID: tiler.ID, ProjectID: kitchen.ID, ProjectName: kitchen.Name, TaskRef: &cabinetsRef, OccurredAt: twoDaysAgo},
		{Kind: entities.ActivityMessageSent, ActorID: apprentice.ID, ProjectID: kitchen.ID, ProjectName: kitchen.Name, TaskRef: &demoRef, OccurredAt: now.AddDate(0, 0, -1)},
		{Kind: entities.ActivityTaskCreated, ActorID: foreman.ID, ProjectID: bathroom.ID, ProjectName: bathroom.Name, TaskRef: &roughRef, OccurredAt: now.AddDate(0, 0, -6)},
	}
	for _, e := range events {
		if err := activity.Append(ctx, e); err != nil {
			return nil, fmt.Errorf("seed activity: %w", err)
		}
	}

	return &SeedResult{
		Users:    crew,
		Projects: []*entities.Project{kitchen, bathroom},
	}, nil
}
