package lanes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/backlog-md/board/internal/types"
)

func TestSortTasksForStatusDone(t *testing.T) {
	tasks := []types.Task{
		{ID: "A", UpdatedDate: "2024-01-02"},
		{ID: "B", Ordinal: intPtr(1), UpdatedDate: "2024-01-01"},
		{ID: "C", UpdatedDate: "2024-01-03"},
	}

	got := SortTasksForStatus(tasks, "Done")

	assert.Equal(t, []string{"B", "C", "A"}, TaskIDs(got))
	// Input order is preserved.
	assert.Equal(t, []string{"A", "B", "C"}, TaskIDs(tasks))
}

func TestSortTasksForStatusDoneFallsBackToCreated(t *testing.T) {
	tasks := []types.Task{
		{ID: "old", CreatedDate: "2024-01-01 09:00"},
		{ID: "touched", CreatedDate: "2023-06-01", UpdatedDate: "2024-03-01 10:00"},
		{ID: "new", CreatedDate: "2024-02-01"},
	}

	got := SortTasksForStatus(tasks, "Completed")

	assert.Equal(t, []string{"touched", "new", "old"}, TaskIDs(got))
}

func TestSortTasksForStatusBacklogOldestFirst(t *testing.T) {
	tasks := []types.Task{
		{ID: "late", CreatedDate: "2024-05-01", UpdatedDate: "2020-01-01"},
		{ID: "ord2", Ordinal: intPtr(2), CreatedDate: "2020-01-01"},
		{ID: "early", CreatedDate: "2024-01-01 08:30"},
		{ID: "ord1", Ordinal: intPtr(1), CreatedDate: "2025-01-01"},
		{ID: "mid", CreatedDate: "2024-01-01T12:00:00Z"},
	}

	got := SortTasksForStatus(tasks, "To Do")

	assert.Equal(t, []string{"ord1", "ord2", "early", "mid", "late"}, TaskIDs(got))
}

func TestSortTasksForStatusStableTies(t *testing.T) {
	tasks := []types.Task{
		{ID: "x", Ordinal: intPtr(3)},
		{ID: "y", Ordinal: intPtr(3)},
		{ID: "p"},
		{ID: "q", CreatedDate: "not a date"},
		{ID: "r"},
	}

	got := SortTasksForStatus(tasks, "In Progress")

	assert.Equal(t, []string{"x", "y", "p", "q", "r"}, TaskIDs(got))
}

func TestSortTasksForStatusNegativeAndZeroOrdinals(t *testing.T) {
	tasks := []types.Task{
		{ID: "zero", Ordinal: intPtr(0)},
		{ID: "none", CreatedDate: "2000-01-01"},
		{ID: "neg", Ordinal: intPtr(-1)},
	}

	got := SortTasksForStatus(tasks, "To Do")

	assert.Equal(t, []string{"neg", "zero", "none"}, TaskIDs(got))
}

func TestSortTasksForStatusEmpty(t *testing.T) {
	got := SortTasksForStatus(nil, "To Do")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
