package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/backlog-md/board/internal/config"
	"github.com/backlog-md/board/internal/lanes"
	"github.com/backlog-md/board/internal/types"
	"github.com/backlog-md/board/internal/ui"
)

// reorderOptions are the flags of "board reorder".
type reorderOptions struct {
	TaskID    string
	Status    string
	Milestone string
	LaneOrder []string
	// Position inserts the task into the current column order when LaneOrder
	// is empty; negative appends.
	Position int
}

// laneOrderFor returns the visible order of the target column after the move:
// the explicit order when given, otherwise the column as it is now with the
// task placed at position. In lane mode none the column is the whole status.
func laneOrderFor(b *lanes.Board, opts reorderOptions) []string {
	if len(opts.LaneOrder) > 0 {
		return opts.LaneOrder
	}
	ids := make([]string, 0)
	for _, id := range lanes.TaskIDs(b.Grouping.Bucket(b.LaneKeyFor(opts.Milestone), opts.Status)) {
		if id != opts.TaskID {
			ids = append(ids, id)
		}
	}
	pos := opts.Position
	if pos < 0 || pos > len(ids) {
		pos = len(ids)
	}
	ids = append(ids[:pos], append([]string{opts.TaskID}, ids[pos:]...)...)
	return ids
}

// buildReorderRequest assembles the request for a move on board b.
func buildReorderRequest(s *session, b *lanes.Board, opts reorderOptions) (types.ReorderRequest, error) {
	if strings.TrimSpace(opts.TaskID) == "" {
		return types.ReorderRequest{}, fmt.Errorf("--task is required")
	}
	if strings.TrimSpace(opts.Status) == "" {
		return types.ReorderRequest{}, fmt.Errorf("--status is required")
	}
	found := false
	for _, task := range s.snap.Tasks {
		if task.ID == opts.TaskID {
			found = true
			break
		}
	}
	if !found {
		return types.ReorderRequest{}, fmt.Errorf("task %s not found", opts.TaskID)
	}
	if b.Mode != types.LaneModeMilestone && strings.TrimSpace(opts.Milestone) != "" {
		return types.ReorderRequest{}, fmt.Errorf("--milestone needs lane mode %q", types.LaneModeMilestone)
	}
	return types.ReorderRequest{
		Mode:               b.Mode,
		Tasks:              s.snap.Tasks,
		TaskID:             opts.TaskID,
		TargetStatus:       opts.Status,
		TargetMilestone:    opts.Milestone,
		LaneOrderedTaskIDs: laneOrderFor(b, opts),
		Milestones:         s.snap.Milestones,
		ArchivedMilestones: s.snap.ArchivedMilestones,
	}, nil
}

func writeReorderPayload(w io.Writer, mode types.LaneMode, payload types.ReorderPayload) {
	target := payload.TargetStatus
	if mode == types.LaneModeMilestone {
		milestone := payload.TargetMilestone
		if milestone == "" {
			milestone = lanes.NoMilestoneLaneLabel
		}
		target += " / " + milestone
	}
	fmt.Fprintf(w, "%s %s → %s\n", ui.RenderPassIcon(), ui.RenderAccent(payload.TaskID), target)
	for i, id := range payload.OrderedTaskIDs {
		marker := " "
		if id == payload.TaskID {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %3d  %s\n", marker, i+1, id)
	}
}

var reorderCmd = &cobra.Command{
	Use:     "reorder",
	GroupID: "views",
	Short:   "Compute the ordering payload for moving a task on the board",
	Long: `Compute the body sent to the backend when a task is dropped into a lane
and status column. In milestone mode only the target lane's tasks are
reordered; the rest of the status column keeps its relative order. In lane
mode none the order covers the whole status column and the task keeps its
milestone.

Examples:
  board reorder --task task-3 --status "In Progress" --milestone m-1 --lane-order task-1,task-3
  board reorder --task task-3 --status Done --position 0`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := reorderOptions{}
		opts.TaskID, _ = cmd.Flags().GetString("task")
		opts.Status, _ = cmd.Flags().GetString("status")
		opts.Milestone, _ = cmd.Flags().GetString("milestone")
		opts.LaneOrder, _ = cmd.Flags().GetStringSlice("lane-order")
		opts.Position, _ = cmd.Flags().GetInt("position")
		opts.LaneOrder = config.CleanList(opts.LaneOrder)

		ctx := getRootContext()
		s := mustOpenSession()
		b := s.build(ctx)
		req, err := buildReorderRequest(s, b, opts)
		if err != nil {
			FatalError("%v", err)
		}
		payload := pipeline.Reorder(ctx, req)
		if jsonOutput {
			outputJSON(payload)
			return
		}
		writeReorderPayload(stdout, b.Mode, payload)
	},
}

func init() {
	reorderCmd.Flags().String("task", "", "Id of the moved task (required)")
	reorderCmd.Flags().String("status", "", "Target status column (required)")
	reorderCmd.Flags().String("milestone", "", "Target milestone lane (id, number or title; empty for no milestone)")
	reorderCmd.Flags().StringSlice("lane-order", nil, "Task ids of the target lane column after the drop, in order")
	reorderCmd.Flags().Int("position", -1, "Insert position in the current column when --lane-order is not given")
	rootCmd.AddCommand(reorderCmd)
}
