package lanes

import (
	"cmp"
	"slices"
	"time"

	"github.com/backlog-md/board/internal/types"
)

type sortEntry struct {
	task types.Task
	when time.Time
}

// SortTasksForStatus returns a sorted copy of tasks for one status column.
//
// Tasks with an ordinal come first, ascending. The rest are ordered by date:
// newest updatedDate (falling back to createdDate) first in done-like columns,
// oldest createdDate first everywhere else. Ties keep their input order.
func SortTasksForStatus(tasks []types.Task, status string) []types.Task {
	done := IsDoneStatus(status)
	entries := make([]sortEntry, len(tasks))
	for i, task := range tasks {
		entries[i] = sortEntry{task: task}
		if task.HasOrdinal() {
			continue
		}
		if done {
			entries[i].when = task.TouchedTime()
		} else {
			entries[i].when = task.CreatedTime()
		}
	}

	slices.SortStableFunc(entries, func(a, b sortEntry) int {
		switch {
		case a.task.HasOrdinal() && b.task.HasOrdinal():
			return cmp.Compare(*a.task.Ordinal, *b.task.Ordinal)
		case a.task.HasOrdinal():
			return -1
		case b.task.HasOrdinal():
			return 1
		case done:
			return b.when.Compare(a.when)
		default:
			return a.when.Compare(b.when)
		}
	})

	out := make([]types.Task, len(entries))
	for i, e := range entries {
		out[i] = e.task
	}
	return out
}

// TaskIDs returns the ids of tasks in order.
func TaskIDs(tasks []types.Task) []string {
	ids := make([]string, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	return ids
}
