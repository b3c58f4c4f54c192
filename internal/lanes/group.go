package lanes

import (
	"github.com/backlog-md/board/internal/types"
)

// Grouping holds the sorted tasks of every (lane, status) bucket.
type Grouping struct {
	lanes    []string
	statuses []string
	buckets  map[string]map[string][]types.Task
}

// Column is one status bucket of a lane, as exposed in JSON output.
type Column struct {
	Status string       `json:"status"`
	Tasks  []types.Task `json:"tasks"`
}

// LaneColumns is one lane with its buckets in status order.
type LaneColumns struct {
	Lane    string   `json:"lane"`
	Columns []Column `json:"columns"`
}

// GroupTasksByLaneAndStatus places every task in a (lane, status) bucket.
//
// Every declared lane gets a bucket for every declared status, empty or not.
// A task whose milestone is blank or archived goes to the no-milestone lane
// and its copy in the result has Milestone cleared. Task statuses match the
// declared statuses case-insensitively; lanes or statuses that were not
// declared are appended in first-seen order rather than dropped.
func GroupTasksByLaneAndStatus(mode types.LaneMode, lanes []types.Lane, statuses []string, tasks []types.Task, mc MilestoneContext) *Grouping {
	g := &Grouping{buckets: make(map[string]map[string][]types.Task)}
	for _, status := range statuses {
		g.addStatus(status)
	}
	for _, lane := range lanes {
		g.addLane(lane.Key)
	}

	r := mc.resolver()
	for _, task := range tasks {
		laneKey := DefaultLaneKey
		if mode == types.LaneModeMilestone {
			milestone := r.milestone(task.Milestone)
			if milestone == "" {
				task.Milestone = ""
			}
			laneKey = LaneKeyFromMilestone(milestone)
		}
		status := g.resolveStatus(task.Status)
		g.addLane(laneKey)
		g.buckets[laneKey][status] = append(g.buckets[laneKey][status], task)
	}

	for _, byStatus := range g.buckets {
		for status, bucket := range byStatus {
			byStatus[status] = SortTasksForStatus(bucket, status)
		}
	}
	return g
}

func (g *Grouping) addLane(key string) {
	if _, ok := g.buckets[key]; ok {
		return
	}
	g.lanes = append(g.lanes, key)
	byStatus := make(map[string][]types.Task, len(g.statuses))
	for _, status := range g.statuses {
		byStatus[status] = []types.Task{}
	}
	g.buckets[key] = byStatus
}

func (g *Grouping) addStatus(status string) {
	for _, existing := range g.statuses {
		if existing == status {
			return
		}
	}
	g.statuses = append(g.statuses, status)
	for _, byStatus := range g.buckets {
		if _, ok := byStatus[status]; !ok {
			byStatus[status] = []types.Task{}
		}
	}
}

// resolveStatus maps a task status onto a declared status, registering it
// when nothing matches.
func (g *Grouping) resolveStatus(status string) string {
	for _, declared := range g.statuses {
		if declared == status {
			return declared
		}
	}
	for _, declared := range g.statuses {
		if sameStatus(declared, status) {
			return declared
		}
	}
	g.addStatus(status)
	return status
}

// LaneKeys returns lane keys in display order.
func (g *Grouping) LaneKeys() []string {
	return append([]string(nil), g.lanes...)
}

// Statuses returns the status columns in display order.
func (g *Grouping) Statuses() []string {
	return append([]string(nil), g.statuses...)
}

// Bucket returns the sorted tasks of one (lane, status) pair.
func (g *Grouping) Bucket(laneKey, status string) []types.Task {
	return g.buckets[laneKey][status]
}

// Lane returns the buckets of one lane keyed by status, or nil for an unknown lane.
func (g *Grouping) Lane(laneKey string) map[string][]types.Task {
	return g.buckets[laneKey]
}

// Count returns the total number of grouped tasks.
func (g *Grouping) Count() int {
	n := 0
	for _, byStatus := range g.buckets {
		for _, bucket := range byStatus {
			n += len(bucket)
		}
	}
	return n
}

// Columns returns the grouping as ordered lanes and columns.
func (g *Grouping) Columns() []LaneColumns {
	out := make([]LaneColumns, 0, len(g.lanes))
	for _, laneKey := range g.lanes {
		lc := LaneColumns{Lane: laneKey, Columns: make([]Column, 0, len(g.statuses))}
		for _, status := range g.statuses {
			lc.Columns = append(lc.Columns, Column{Status: status, Tasks: g.buckets[laneKey][status]})
		}
		out = append(out, lc)
	}
	return out
}
