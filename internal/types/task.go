// Package types defines the task and milestone records consumed by the board engine.
package types

import (
	"fmt"
	"strings"
)

// Task is a backlog work item as served by the backend. The board engine only
// reads it; grouping works on copies.
type Task struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Status      string   `json:"status" yaml:"status"`
	Milestone   string   `json:"milestone,omitempty" yaml:"milestone,omitempty"`
	Ordinal     *int     `json:"ordinal,omitempty" yaml:"ordinal,omitempty"` // nil = unordered, sorted by date
	CreatedDate string   `json:"createdDate,omitempty" yaml:"created_date,omitempty"`
	UpdatedDate string   `json:"updatedDate,omitempty" yaml:"updated_date,omitempty"`
	Assignee    []string `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Labels      []string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// HasOrdinal reports whether the task carries an explicit manual position.
func (t Task) HasOrdinal() bool {
	return t.Ordinal != nil
}

// Milestone is a milestone entity. Active only drives UI filtering; archived
// milestones are passed separately to the engine.
type Milestone struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Active bool   `json:"active,omitempty" yaml:"active,omitempty"`
}

// LaneMode selects how the board splits tasks into lanes.
type LaneMode string

const (
	LaneModeNone      LaneMode = "none"
	LaneModeMilestone LaneMode = "milestone"
)

// IsValid checks if the lane mode is one of the known modes
func (m LaneMode) IsValid() bool {
	switch m {
	case LaneModeNone, LaneModeMilestone:
		return true
	}
	return false
}

// ParseLaneMode converts user input ("milestone", "Milestones", "none", "") into a LaneMode.
// An empty value yields LaneModeNone.
func ParseLaneMode(raw string) (LaneMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none", "off":
		return LaneModeNone, nil
	case "milestone", "milestones":
		return LaneModeMilestone, nil
	default:
		return "", fmt.Errorf("invalid lane mode %q (expected none or milestone)", raw)
	}
}

// Lane is one horizontal swimlane of the board.
type Lane struct {
	Key           string `json:"key"`
	Label         string `json:"label"`
	Milestone     string `json:"milestone,omitempty"` // canonical id; empty for the no-milestone/default lane
	IsNoMilestone bool   `json:"isNoMilestone"`
}

// ReorderRequest describes a drag-and-drop move inside one lane/status column.
type ReorderRequest struct {
	// Mode is the board's lane mode; the zero value reorders by milestone lane.
	Mode               LaneMode    `json:"mode,omitempty"`
	Tasks              []Task      `json:"tasks"`
	TaskID             string      `json:"taskId"`
	TargetStatus       string      `json:"targetStatus"`
	TargetMilestone    string      `json:"targetMilestone,omitempty"`
	LaneOrderedTaskIDs []string    `json:"laneOrderedTaskIds"`
	Milestones         []Milestone `json:"milestones,omitempty"`
	ArchivedMilestones []Milestone `json:"archivedMilestones,omitempty"`
}

// ReorderPayload is the body the application posts to the backend reorder endpoint.
type ReorderPayload struct {
	TaskID          string   `json:"taskId"`
	TargetStatus    string   `json:"targetStatus"`
	OrderedTaskIDs  []string `json:"orderedTaskIds"`
	TargetMilestone string   `json:"targetMilestone,omitempty"`
}
