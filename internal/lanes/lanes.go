// Package lanes splits backlog tasks into board lanes and status buckets and
// computes the orderings the board sends back on drag-and-drop.
//
// Everything here is pure: inputs are never modified and identical inputs
// always produce equal outputs.
package lanes

import (
	"strings"

	"github.com/backlog-md/board/internal/milestones"
	"github.com/backlog-md/board/internal/types"
)

// Lane keys. Milestone lanes use MilestoneLanePrefix + normalized milestone key,
// so none of them can collide with the two fixed keys.
const (
	DefaultLaneKey      = "lane:default"
	NoMilestoneLaneKey  = "lane:none"
	MilestoneLanePrefix = "lane:milestone:"

	DefaultLaneLabel     = "All tasks"
	NoMilestoneLaneLabel = "No milestone"
)

// LaneKeyFromMilestone returns the lane key for a canonical milestone value.
func LaneKeyFromMilestone(milestone string) string {
	key := milestones.NormalizeKey(milestone)
	if key == "" {
		return NoMilestoneLaneKey
	}
	return MilestoneLanePrefix + key
}

// MilestoneContext carries the milestone entities used to resolve task
// references. Aliases may be supplied pre-built; otherwise it is built from
// Milestones and ArchivedMilestones.
type MilestoneContext struct {
	Milestones           []types.Milestone
	ArchivedMilestones   []types.Milestone
	ArchivedMilestoneIDs []string
	Aliases              *milestones.AliasMap
}

type resolver struct {
	aliases  *milestones.AliasMap
	archived milestones.ArchivedKeys
}

func (c MilestoneContext) resolver() resolver {
	aliases := c.Aliases
	if aliases == nil {
		aliases = milestones.BuildAliasMap(c.Milestones, c.ArchivedMilestones)
	}
	return resolver{
		aliases:  aliases,
		archived: milestones.CollectArchivedKeys(c.ArchivedMilestones, c.ArchivedMilestoneIDs, aliases),
	}
}

// milestone returns the canonical milestone a task value belongs to on the
// board: "" when blank or archived.
func (r resolver) milestone(raw string) string {
	canonical := r.aliases.Canonicalize(raw)
	key := milestones.NormalizeKey(canonical)
	if key == "" || r.archived.Has(key) {
		return ""
	}
	return canonical
}

// BuildLanes returns the lanes to display.
//
// In LaneModeNone there is exactly one lane holding every task. In
// LaneModeMilestone the no-milestone lane comes first, followed by one lane
// per distinct, non-archived milestone from configMilestoneIDs and then the
// tasks, in first-seen order.
func BuildLanes(mode types.LaneMode, tasks []types.Task, configMilestoneIDs []string, mc MilestoneContext) []types.Lane {
	if mode != types.LaneModeMilestone {
		return []types.Lane{{Key: DefaultLaneKey, Label: DefaultLaneLabel}}
	}

	r := mc.resolver()
	out := []types.Lane{{Key: NoMilestoneLaneKey, Label: NoMilestoneLaneLabel, IsNoMilestone: true}}
	for _, candidate := range milestones.CollectIDs(configMilestoneIDs, tasks, r.aliases) {
		milestone := r.milestone(candidate)
		if milestone == "" {
			continue
		}
		out = append(out, types.Lane{
			Key:       LaneKeyFromMilestone(milestone),
			Label:     milestones.Label(milestone, mc.Milestones, mc.ArchivedMilestones),
			Milestone: milestone,
		})
	}
	return out
}

// IsDoneStatus reports whether a status label reads as finished work
// ("Done", "Completed", "done-ish").
func IsDoneStatus(status string) bool {
	s := strings.ToLower(status)
	return strings.Contains(s, "done") || strings.Contains(s, "complete")
}

func sameStatus(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
