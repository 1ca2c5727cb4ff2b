package services

import (
	"sort"

	"github.com/crewbase/core/internal/domain/entities"
	"github.com/crewbase/core/internal/ports"
)

// dueBefore orders tasks by ascending due date. Tasks without a due date
// sort last, as if due in the distant future.
func dueBefore(a, b *entities.Task) bool {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return a.CreatedAt.Before(b.CreatedAt)
	case a.DueDate == nil:
		return false
	case b.DueDate == nil:
		return true
	default:
		return a.DueDate.Before(*b.DueDate)
	}
}

func sortTasksByDue(tasks []entities.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		return dueBefore(&tasks[i], &tasks[j])
	})
}

func sortTasksByDoneDesc(tasks []entities.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i].DoneAt, tasks[j].DoneAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})
}

func sortAssignedByDue(tasks []ports.AssignedTask) {
	sort.Slice(tasks, func(i, j int) bool {
		return dueBefore(&tasks[i].Task, &tasks[j].Task)
	})
}

func sortAssignedByDoneDesc(tasks []ports.AssignedTask) {
	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i].Task.DoneAt, tasks[j].Task.DoneAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})
}
