package taskstore

import (
	"sort"

	"github.com/dalemusser/claimdesk/internal/domain/models"
)

func isOpen(t models.Task) bool {
	return t.Status == models.TaskStatusPendiente || t.Status == models.TaskStatusEnProgreso
}

// SortForDisplay orders open tasks first by due date (undated after dated),
// then closed tasks by most recently updated. The sort is stable.
func SortForDisplay(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if oa, ob := isOpen(a), isOpen(b); oa != ob {
			return oa
		}
		if !isOpen(a) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return false
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		}
		return a.DueDate.Before(*b.DueDate)
	})
}
