package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/backlog-md/board/internal/milestones"
	"github.com/backlog-md/board/internal/ui"
)

// aliasReport is the JSON form of "board aliases".
type aliasReport struct {
	Aliases    []milestones.Alias     `json:"aliases"`
	Collisions []milestones.Collision `json:"collisions"`
}

func newAliasReport(m *milestones.AliasMap) aliasReport {
	report := aliasReport{Aliases: m.Entries(), Collisions: m.Collisions()}
	if report.Aliases == nil {
		report.Aliases = []milestones.Alias{}
	}
	if report.Collisions == nil {
		report.Collisions = []milestones.Collision{}
	}
	return report
}

func writeAliasReport(w io.Writer, report aliasReport) {
	if len(report.Aliases) == 0 {
		fmt.Fprintln(w, "No milestone aliases.")
	}
	for _, a := range report.Aliases {
		line := fmt.Sprintf("%-24s %s %s %s", a.Key, ui.RenderMuted("→"), ui.RenderAccent(a.ID), ui.RenderMuted(string(a.Source)))
		if a.Archived {
			line += " " + ui.RenderMuted("(archived)")
		}
		fmt.Fprintln(w, line)
	}
	if len(report.Collisions) == 0 {
		return
	}
	fmt.Fprintf(w, "%s\n%s %d collision(s):\n", ui.RenderSeparator(), ui.RenderWarnIcon(), len(report.Collisions))
	for _, c := range report.Collisions {
		fmt.Fprintf(w, "  %s %s [%s]\n", c.Key, ui.RenderWarn(string(c.Reason)), strings.Join(c.MilestoneIDs, ", "))
	}
}

var aliasesCmd = &cobra.Command{
	Use:     "aliases",
	GroupID: "milestones",
	Short:   "List milestone alias keys and collisions",
	Run: func(cmd *cobra.Command, args []string) {
		s := mustOpenSession()
		report := newAliasReport(s.build(getRootContext()).Aliases)
		if jsonOutput {
			outputJSON(report)
			return
		}
		writeAliasReport(stdout, report)
	},
}

func init() {
	rootCmd.AddCommand(aliasesCmd)
}
