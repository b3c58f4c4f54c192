package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/backlog-md/board/internal/lanes"
	"github.com/backlog-md/board/internal/types"
	"github.com/backlog-md/board/internal/ui"
)

// laneSummary is one row of "board lanes".
type laneSummary struct {
	types.Lane
	Count int `json:"count"`
}

func summarizeLanes(b *lanes.Board) []laneSummary {
	out := make([]laneSummary, 0, len(b.Grouping.LaneKeys()))
	for _, key := range b.Grouping.LaneKeys() {
		count := 0
		for _, tasks := range b.Grouping.Lane(key) {
			count += len(tasks)
		}
		out = append(out, laneSummary{Lane: b.LaneFor(key), Count: count})
	}
	return out
}

func writeLaneSummaries(w io.Writer, rows []laneSummary) {
	for _, row := range rows {
		fmt.Fprintf(w, "%s %s\n", ui.RenderLane(row.Label, row.Count), ui.RenderMuted(row.Key))
	}
}

var lanesCmd = &cobra.Command{
	Use:     "lanes",
	GroupID: "views",
	Short:   "List board lanes with task counts",
	Run: func(cmd *cobra.Command, args []string) {
		s := mustOpenSession()
		rows := summarizeLanes(s.build(getRootContext()))
		if jsonOutput {
			outputJSON(rows)
			return
		}
		writeLaneSummaries(stdout, rows)
	},
}

func init() {
	rootCmd.AddCommand(lanesCmd)
}
