package lanes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backlog-md/board/internal/types"
)

func intPtr(n int) *int { return &n }

var defaultStatuses = []string{"To Do", "In Progress", "Done"}

func scenarioTasks() []types.Task {
	return []types.Task{
		{ID: "t1", Status: "To Do", Milestone: "M1"},
		{ID: "t2", Status: "In Progress"},
		{ID: "t3", Status: "To Do", Milestone: "Extra", Ordinal: intPtr(5)},
	}
}

func laneLabels(lanes []types.Lane) []string {
	labels := make([]string, len(lanes))
	for i, lane := range lanes {
		labels[i] = lane.Label
	}
	return labels
}

func TestLaneKeyFromMilestone(t *testing.T) {
	assert.Equal(t, NoMilestoneLaneKey, LaneKeyFromMilestone(""))
	assert.Equal(t, NoMilestoneLaneKey, LaneKeyFromMilestone("  "))
	assert.Equal(t, "lane:milestone:m-1", LaneKeyFromMilestone("M-1"))
	assert.NotEqual(t, NoMilestoneLaneKey, LaneKeyFromMilestone("none"))
	assert.NotEqual(t, DefaultLaneKey, LaneKeyFromMilestone("default"))
}

func TestBuildLanesMilestoneMode(t *testing.T) {
	lanes := BuildLanes(types.LaneModeMilestone, scenarioTasks(), []string{"M1"}, MilestoneContext{})

	require.Len(t, lanes, 3)
	assert.Equal(t, []string{"No milestone", "M1", "Extra"}, laneLabels(lanes))
	assert.True(t, lanes[0].IsNoMilestone)
	assert.Equal(t, NoMilestoneLaneKey, lanes[0].Key)
	assert.Equal(t, "M1", lanes[1].Milestone)
	assert.Equal(t, "lane:milestone:extra", lanes[2].Key)
}

func TestBuildLanesNoneMode(t *testing.T) {
	lanes := BuildLanes(types.LaneModeNone, scenarioTasks(), []string{"M1"}, MilestoneContext{})

	require.Len(t, lanes, 1)
	assert.Equal(t, DefaultLaneKey, lanes[0].Key)
	assert.Empty(t, lanes[0].Milestone)
}

func TestBuildLanesUsesEntityTitlesAndAliases(t *testing.T) {
	mc := MilestoneContext{Milestones: []types.Milestone{{ID: "m-1", Title: "Release 1", Active: true}}}
	tasks := []types.Task{
		{ID: "a", Status: "To Do", Milestone: "1"},
		{ID: "b", Status: "To Do", Milestone: "release 1"},
		{ID: "c", Status: "To Do", Milestone: "m-01"},
	}

	lanes := BuildLanes(types.LaneModeMilestone, tasks, nil, mc)

	require.Len(t, lanes, 2)
	assert.Equal(t, "m-1", lanes[1].Milestone)
	assert.Equal(t, "Release 1", lanes[1].Label)
}

func TestArchivedMilestoneExcluded(t *testing.T) {
	mc := MilestoneContext{
		Milestones:         []types.Milestone{{ID: "m-2", Title: "Current"}},
		ArchivedMilestones: []types.Milestone{{ID: "m-1", Title: "Old release"}},
	}
	tasks := []types.Task{
		{ID: "a", Status: "To Do", Milestone: "m-1"},
		{ID: "b", Status: "To Do", Milestone: "1"},
		{ID: "c", Status: "To Do", Milestone: "Old release"},
		{ID: "d", Status: "To Do", Milestone: "m-2"},
	}

	lanes := BuildLanes(types.LaneModeMilestone, tasks, []string{"m-1"}, mc)
	for _, lane := range lanes {
		assert.NotEqual(t, "m-1", lane.Milestone)
	}
	assert.Equal(t, []string{"No milestone", "Current"}, laneLabels(lanes))

	g := GroupTasksByLaneAndStatus(types.LaneModeMilestone, lanes, defaultStatuses, tasks, mc)
	assert.Equal(t, []string{"a", "b", "c"}, TaskIDs(g.Bucket(NoMilestoneLaneKey, "To Do")))
	for _, task := range g.Bucket(NoMilestoneLaneKey, "To Do") {
		assert.Empty(t, task.Milestone)
	}
	assert.Equal(t, []string{"d"}, TaskIDs(g.Bucket(LaneKeyFromMilestone("m-2"), "To Do")))

	// Source records are untouched.
	assert.Equal(t, "m-1", tasks[0].Milestone)
}

func TestArchivedNumberedTwinKeepsActiveLane(t *testing.T) {
	mc := MilestoneContext{
		Milestones:         []types.Milestone{{ID: "m-05", Title: "Current"}},
		ArchivedMilestones: []types.Milestone{{ID: "m-5", Title: "Old"}},
	}
	tasks := []types.Task{
		{ID: "a", Status: "To Do", Milestone: "5"},
		{ID: "b", Status: "To Do", Milestone: "m-05"},
	}

	lanes := BuildLanes(types.LaneModeMilestone, tasks, nil, mc)
	assert.Equal(t, []string{"No milestone", "Current"}, laneLabels(lanes))

	g := GroupTasksByLaneAndStatus(types.LaneModeMilestone, lanes, defaultStatuses, tasks, mc)
	assert.Equal(t, []string{"a", "b"}, TaskIDs(g.Bucket(LaneKeyFromMilestone("m-05"), "To Do")))
	assert.Empty(t, g.Bucket(NoMilestoneLaneKey, "To Do"))
}

func TestArchivedMilestoneIDsWithoutEntities(t *testing.T) {
	mc := MilestoneContext{ArchivedMilestoneIDs: []string{"Legacy"}}
	tasks := []types.Task{{ID: "a", Status: "To Do", Milestone: "legacy"}}

	lanes := BuildLanes(types.LaneModeMilestone, tasks, nil, mc)

	require.Len(t, lanes, 1)
	assert.True(t, lanes[0].IsNoMilestone)
}

func TestGroupTasksMilestoneScenario(t *testing.T) {
	tasks := scenarioTasks()
	lanes := BuildLanes(types.LaneModeMilestone, tasks, []string{"M1"}, MilestoneContext{})

	g := GroupTasksByLaneAndStatus(types.LaneModeMilestone, lanes, defaultStatuses, tasks, MilestoneContext{})

	assert.Equal(t, []string{"t1"}, TaskIDs(g.Bucket(LaneKeyFromMilestone("M1"), "To Do")))
	assert.Equal(t, []string{"t2"}, TaskIDs(g.Bucket(NoMilestoneLaneKey, "In Progress")))
	assert.Equal(t, []string{"t3"}, TaskIDs(g.Bucket(LaneKeyFromMilestone("Extra"), "To Do")))
	assert.Equal(t, 3, g.Count())

	// Every declared lane has every status, even empty.
	for _, lane := range lanes {
		for _, status := range defaultStatuses {
			bucket, ok := g.Lane(lane.Key)[status]
			assert.True(t, ok, "lane %s status %s", lane.Key, status)
			assert.NotNil(t, bucket)
		}
	}
}

func TestGroupTasksNoneModeScenario(t *testing.T) {
	tasks := scenarioTasks()
	lanes := BuildLanes(types.LaneModeNone, tasks, []string{"M1"}, MilestoneContext{})

	g := GroupTasksByLaneAndStatus(types.LaneModeNone, lanes, defaultStatuses, tasks, MilestoneContext{})

	assert.Equal(t, []string{DefaultLaneKey}, g.LaneKeys())
	assert.Equal(t, []string{"t3", "t1"}, TaskIDs(g.Bucket(DefaultLaneKey, "To Do")))
	assert.Equal(t, []string{"t2"}, TaskIDs(g.Bucket(DefaultLaneKey, "In Progress")))
	assert.Empty(t, g.Bucket(DefaultLaneKey, "Done"))
	// Milestones are kept in mode none.
	assert.Equal(t, "M1", g.Bucket(DefaultLaneKey, "To Do")[1].Milestone)
}

func TestGroupTasksUndeclaredStatusAndCaseFolding(t *testing.T) {
	tasks := []types.Task{
		{ID: "a", Status: "to do"},
		{ID: "b", Status: "Review"},
	}
	lanes := BuildLanes(types.LaneModeNone, tasks, nil, MilestoneContext{})

	g := GroupTasksByLaneAndStatus(types.LaneModeNone, lanes, defaultStatuses, tasks, MilestoneContext{})

	assert.Equal(t, []string{"To Do", "In Progress", "Done", "Review"}, g.Statuses())
	assert.Equal(t, []string{"a"}, TaskIDs(g.Bucket(DefaultLaneKey, "To Do")))
	assert.Equal(t, []string{"b"}, TaskIDs(g.Bucket(DefaultLaneKey, "Review")))
}

func TestGroupTasksUndeclaredLane(t *testing.T) {
	tasks := []types.Task{{ID: "a", Status: "To Do", Milestone: "Surprise"}}
	lanes := []types.Lane{{Key: NoMilestoneLaneKey, Label: NoMilestoneLaneLabel, IsNoMilestone: true}}

	g := GroupTasksByLaneAndStatus(types.LaneModeMilestone, lanes, defaultStatuses, tasks, MilestoneContext{})

	assert.Equal(t, []string{NoMilestoneLaneKey, "lane:milestone:surprise"}, g.LaneKeys())
	assert.Len(t, g.Lane("lane:milestone:surprise"), len(defaultStatuses))
}

func TestColumnsOrder(t *testing.T) {
	tasks := scenarioTasks()
	b := Build(tasks, Options{Mode: types.LaneModeMilestone, Statuses: defaultStatuses, ConfigMilestoneIDs: []string{"M1"}})

	cols := b.Grouping.Columns()
	require.Len(t, cols, 3)
	assert.Equal(t, NoMilestoneLaneKey, cols[0].Lane)
	require.Len(t, cols[1].Columns, 3)
	assert.Equal(t, "To Do", cols[1].Columns[0].Status)
	assert.Equal(t, []string{"t1"}, TaskIDs(cols[1].Columns[0].Tasks))

	lane, ok := b.LaneByKey(LaneKeyFromMilestone("extra"))
	require.True(t, ok)
	assert.Equal(t, "Extra", lane.Label)
	_, ok = b.LaneByKey("lane:missing")
	assert.False(t, ok)
}

func TestIsDoneStatus(t *testing.T) {
	for _, s := range []string{"Done", "done", "Completed", "Complete", "DONE-ish", "Incomplete"} {
		assert.True(t, IsDoneStatus(s), s)
	}
	for _, s := range []string{"To Do", "In Progress", "Review", ""} {
		assert.False(t, IsDoneStatus(s), s)
	}
}

func TestBoardLaneHelpers(t *testing.T) {
	b := Build([]types.Task{{ID: "a", Status: "To Do", Milestone: "1"}}, Options{
		Mode:     types.LaneModeMilestone,
		Statuses: defaultStatuses,
		Milestones: MilestoneContext{
			Milestones:         []types.Milestone{{ID: "m-1", Title: "Release 1"}},
			ArchivedMilestones: []types.Milestone{{ID: "m-0", Title: "Alpha"}},
		},
	})

	assert.Equal(t, LaneKeyFromMilestone("m-1"), b.LaneKeyFor("release 1"))
	assert.Equal(t, NoMilestoneLaneKey, b.LaneKeyFor("alpha"))
	assert.Equal(t, NoMilestoneLaneKey, b.LaneKeyFor(""))
	assert.Equal(t, "lane:milestone:later", b.LaneKeyFor("Later"))
	assert.True(t, b.IsArchived("m-0"))
	assert.True(t, b.IsArchived("Alpha"))
	assert.False(t, b.IsArchived("1"))

	assert.Equal(t, "Release 1", b.LaneFor(LaneKeyFromMilestone("m-1")).Label)
	assert.Equal(t, "later", b.LaneFor("lane:milestone:later").Label)
	assert.True(t, b.LaneFor(NoMilestoneLaneKey).IsNoMilestone)

	none := Build(nil, Options{Mode: types.LaneModeNone})
	assert.Equal(t, DefaultLaneKey, none.LaneKeyFor("m-1"))
}
