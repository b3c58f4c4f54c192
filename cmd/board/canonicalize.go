package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/backlog-md/board/internal/lanes"
	"github.com/backlog-md/board/internal/milestones"
	"github.com/backlog-md/board/internal/ui"
)

// canonicalResult describes how one milestone value resolves on a board.
type canonicalResult struct {
	Input     string `json:"input"`
	Canonical string `json:"canonical"`
	Kind      string `json:"kind"`
	Known     bool   `json:"known"`
	Archived  bool   `json:"archived"`
	LaneKey   string `json:"laneKey"`
	Label     string `json:"label"`
}

func canonicalizeValues(s *session, b *lanes.Board, values []string) []canonicalResult {
	results := make([]canonicalResult, 0, len(values))
	for _, value := range values {
		canonical := b.Aliases.Canonicalize(value)
		_, known := b.Aliases.Lookup(milestones.NormalizeKey(canonical))
		results = append(results, canonicalResult{
			Input:     value,
			Canonical: canonical,
			Kind:      milestones.ParseRef(value).Kind.String(),
			Known:     known,
			Archived:  b.IsArchived(value),
			LaneKey:   lanes.LaneKeyFromMilestone(canonical),
			Label:     milestones.Label(canonical, s.snap.Milestones, s.snap.ArchivedMilestones),
		})
	}
	return results
}

func writeCanonicalResults(w io.Writer, results []canonicalResult) {
	for _, r := range results {
		canonical := r.Canonical
		if canonical == "" {
			canonical = ui.RenderMuted("(none)")
		}
		var notes []string
		if !r.Known && r.Canonical != "" {
			notes = append(notes, ui.RenderWarn("unknown"))
		}
		if r.Archived {
			notes = append(notes, ui.RenderMuted("archived"))
		}
		line := fmt.Sprintf("%q %s %s", r.Input, ui.RenderMuted("→"), ui.RenderAccent(canonical))
		if r.Label != "" && r.Label != r.Canonical {
			line += " " + r.Label
		}
		if len(notes) > 0 {
			line += " (" + strings.Join(notes, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}
}

var canonicalizeCmd = &cobra.Command{
	Use:     "canonicalize <value>...",
	Aliases: []string{"canon"},
	GroupID: "milestones",
	Short:   "Resolve milestone values to canonical milestone ids",
	Long: `Resolve task milestone values the way the board does. Ids, bare or
zero-padded numbers ("7", "007", "m-007") and titles are matched
case-insensitively; unknown values are returned trimmed.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := mustOpenSession()
		results := canonicalizeValues(s, s.build(getRootContext()), args)
		if jsonOutput {
			outputJSON(results)
			return
		}
		writeCanonicalResults(stdout, results)
	},
}

func init() {
	rootCmd.AddCommand(canonicalizeCmd)
}
