package lanes

import (
	"github.com/backlog-md/board/internal/types"
)

// ReorderResult is a computed move. FellBack is set when the merged order was
// rejected and the template order was returned instead.
type ReorderResult struct {
	Payload  types.ReorderPayload
	FellBack bool
}

// BuildGlobalOrderedTaskIDsForMilestoneLaneReorder merges a lane-local
// ordering into the status-wide ordering the backend persists.
//
// The board only shows one lane of a status column, but the backend keeps a
// single order per status across all lanes. The move is applied to a copy of
// the tasks, the status-wide template order is recomputed, and the positions
// held by the target lane are refilled from req.LaneOrderedTaskIDs while every
// other position stays put. If the merged list is not a permutation of the
// template containing req.TaskID, the template is returned instead.
//
// In lane mode none the visible column is the whole status column: the lane
// order becomes the column order and the moved task keeps its milestone.
func BuildGlobalOrderedTaskIDsForMilestoneLaneReorder(req types.ReorderRequest) []string {
	ids, _ := mergeReorder(req)
	return ids
}

func mergeReorder(req types.ReorderRequest) ([]string, bool) {
	r := MilestoneContext{
		Milestones:         req.Milestones,
		ArchivedMilestones: req.ArchivedMilestones,
	}.resolver()
	byLane := req.Mode != types.LaneModeNone
	targetLane := LaneKeyFromMilestone(r.milestone(req.TargetMilestone))

	moved := make([]types.Task, 0, len(req.Tasks))
	for _, task := range req.Tasks {
		if task.ID == req.TaskID {
			task.Status = req.TargetStatus
			if byLane {
				task.Milestone = req.TargetMilestone
			}
		}
		if sameStatus(task.Status, req.TargetStatus) {
			moved = append(moved, task)
		}
	}
	templateTasks := SortTasksForStatus(moved, req.TargetStatus)
	template := TaskIDs(templateTasks)

	members := make(map[string]bool)
	for _, task := range templateTasks {
		if !byLane || LaneKeyFromMilestone(r.milestone(task.Milestone)) == targetLane {
			members[task.ID] = true
		}
	}

	laneOrder := make([]string, 0, len(members))
	placed := make(map[string]bool, len(members))
	for _, id := range req.LaneOrderedTaskIDs {
		if members[id] && !placed[id] {
			placed[id] = true
			laneOrder = append(laneOrder, id)
		}
	}
	for _, id := range template {
		if members[id] && !placed[id] {
			placed[id] = true
			laneOrder = append(laneOrder, id)
		}
	}

	merged := make([]string, 0, len(template))
	next := 0
	for _, id := range template {
		if members[id] && next < len(laneOrder) {
			merged = append(merged, laneOrder[next])
			next++
			continue
		}
		merged = append(merged, id)
	}

	if !isPermutationWith(merged, template, req.TaskID) {
		return template, true
	}
	return merged, false
}

// Reorder computes the backend reorder body for a drag-and-drop move.
// TargetMilestone is sent canonicalized; an archived or blank target is sent
// as no milestone. In lane mode none no target milestone is sent.
func Reorder(req types.ReorderRequest) ReorderResult {
	ids, fellBack := mergeReorder(req)
	payload := types.ReorderPayload{
		TaskID:         req.TaskID,
		TargetStatus:   req.TargetStatus,
		OrderedTaskIDs: ids,
	}
	if req.Mode != types.LaneModeNone {
		payload.TargetMilestone = MilestoneContext{
			Milestones:         req.Milestones,
			ArchivedMilestones: req.ArchivedMilestones,
		}.resolver().milestone(req.TargetMilestone)
	}
	return ReorderResult{Payload: payload, FellBack: fellBack}
}

func isPermutationWith(got, template []string, taskID string) bool {
	if len(got) != len(template) {
		return false
	}
	want := make(map[string]int, len(template))
	for _, id := range template {
		want[id]++
	}
	seen := make(map[string]bool, len(got))
	hasTask := false
	for _, id := range got {
		if seen[id] || want[id] == 0 {
			return false
		}
		seen[id] = true
		if id == taskID {
			hasTask = true
		}
	}
	return hasTask
}
