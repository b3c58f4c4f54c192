package lanes

import (
	"strings"

	"github.com/backlog-md/board/internal/milestones"
	"github.com/backlog-md/board/internal/types"
)

// Options configures a full board computation.
type Options struct {
	Mode               types.LaneMode
	Statuses           []string
	ConfigMilestoneIDs []string
	Milestones         MilestoneContext
}

// Board is the computed view of one task snapshot.
type Board struct {
	Mode     types.LaneMode       `json:"mode"`
	Lanes    []types.Lane         `json:"lanes"`
	Grouping *Grouping            `json:"-"`
	Aliases  *milestones.AliasMap `json:"-"`

	resolver resolver
}

// Build runs lane building and grouping over tasks, sharing one alias map.
func Build(tasks []types.Task, opts Options) *Board {
	mc := opts.Milestones
	if mc.Aliases == nil {
		mc.Aliases = milestones.BuildAliasMap(mc.Milestones, mc.ArchivedMilestones)
	}
	boardLanes := BuildLanes(opts.Mode, tasks, opts.ConfigMilestoneIDs, mc)
	return &Board{
		Mode:     opts.Mode,
		Lanes:    boardLanes,
		Grouping: GroupTasksByLaneAndStatus(opts.Mode, boardLanes, opts.Statuses, tasks, mc),
		Aliases:  mc.Aliases,
		resolver: mc.resolver(),
	}
}

// LaneKeyFor returns the key of the lane a task with the given milestone
// value is placed in.
func (b *Board) LaneKeyFor(milestone string) string {
	if b.Mode != types.LaneModeMilestone {
		return DefaultLaneKey
	}
	return LaneKeyFromMilestone(b.resolver.milestone(milestone))
}

// IsArchived reports whether a milestone value resolves to an archived milestone.
func (b *Board) IsArchived(milestone string) bool {
	return b.resolver.archived.Has(b.resolver.aliases.CanonicalKey(milestone))
}

// LaneFor returns the declared lane for key. Lanes added during grouping for
// undeclared milestones get a label derived from the key.
func (b *Board) LaneFor(key string) types.Lane {
	if lane, ok := b.LaneByKey(key); ok {
		return lane
	}
	switch key {
	case DefaultLaneKey:
		return types.Lane{Key: key, Label: DefaultLaneLabel}
	case NoMilestoneLaneKey:
		return types.Lane{Key: key, Label: NoMilestoneLaneLabel, IsNoMilestone: true}
	}
	label := strings.TrimPrefix(key, MilestoneLanePrefix)
	return types.Lane{Key: key, Label: label, Milestone: label}
}

// LaneByKey returns the lane with the given key.
func (b *Board) LaneByKey(key string) (types.Lane, bool) {
	for _, lane := range b.Lanes {
		if lane.Key == key {
			return lane, true
		}
	}
	return types.Lane{}, false
}
