package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/backlog-md/board/internal/lanes"
	"github.com/backlog-md/board/internal/milestones"
	"github.com/backlog-md/board/internal/types"
)

// BoardOptions controls board rendering.
type BoardOptions struct {
	Width int
	// ShowMilestone prints each task's milestone under its title.
	ShowMilestone bool
	// HideEmptyLanes drops lanes without tasks, except the first one.
	HideEmptyLanes bool
	// Milestones are used to label task milestones; optional.
	Milestones []types.Milestone
}

const (
	columnGap      = 1
	minColumnWidth = 18
	// border (2) + horizontal padding (2)
	columnChrome = 4
	// card titles wrap onto at most this many lines
	maxTitleLines = 2
	minTitleWidth = 8
)

func laneLabel(b *lanes.Board, key string) string {
	return b.LaneFor(key).Label
}

// RenderBoard draws every lane of b as a row of bordered status columns.
func RenderBoard(b *lanes.Board, opts BoardOptions) string {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}

	var out strings.Builder
	for i, lc := range b.Grouping.Columns() {
		count := 0
		for _, col := range lc.Columns {
			count += len(col.Tasks)
		}
		if opts.HideEmptyLanes && count == 0 && i > 0 {
			continue
		}

		out.WriteString(RenderLane(laneLabel(b, lc.Lane), count))
		out.WriteString("\n")
		out.WriteString(renderColumns(lc.Columns, width, opts))
		out.WriteString("\n\n")
	}
	return strings.TrimRight(out.String(), "\n") + "\n"
}

func renderColumns(cols []lanes.Column, width int, opts BoardOptions) string {
	if len(cols) == 0 {
		return RenderMuted("no statuses")
	}
	colWidth := (width - columnGap*(len(cols)-1)) / len(cols)
	if colWidth < minColumnWidth {
		colWidth = minColumnWidth
	}
	inner := colWidth - columnChrome

	blocks := make([]string, 0, len(cols)*2)
	for i, col := range cols {
		if i > 0 {
			blocks = append(blocks, strings.Repeat(" ", columnGap))
		}
		lines := []string{StatusStyle(col.Status).Render(TruncateSimple(col.Status, inner-4) + " " + itoa(len(col.Tasks)))}
		if len(col.Tasks) == 0 {
			lines = append(lines, RenderMuted("no tasks"))
		}
		for _, task := range col.Tasks {
			lines = append(lines, taskCard(task, inner, opts)...)
		}
		blocks = append(blocks, ColumnBorder.Width(colWidth-2).Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

func taskCard(task types.Task, width int, opts BoardOptions) []string {
	title := task.Title
	if title == "" {
		title = task.ID
	}
	idWidth := len([]rune(task.ID))
	titleWidth := width - idWidth - 1
	if titleWidth < minTitleWidth {
		titleWidth = minTitleWidth
	}
	wrapped := strings.Split(WrapText(title, titleWidth), "\n")
	if len(wrapped) > maxTitleLines {
		wrapped = append(wrapped[:maxTitleLines-1], strings.Join(wrapped[maxTitleLines-1:], " "))
	}
	indent := strings.Repeat(" ", idWidth+1)
	lines := make([]string, 0, len(wrapped)+1)
	for i, part := range wrapped {
		part = TruncateSimple(part, titleWidth)
		if i == 0 {
			lines = append(lines, AccentStyle.Render(task.ID)+" "+part)
			continue
		}
		lines = append(lines, indent+part)
	}
	if opts.ShowMilestone && task.Milestone != "" {
		label := milestones.Label(task.Milestone, opts.Milestones)
		lines = append(lines, RenderMuted("  "+TruncateSimple(label, width-2)))
	}
	return lines
}

// RenderPlain lists the board one task per line, grouped by lane and status,
// for piped output.
func RenderPlain(b *lanes.Board) string {
	var out strings.Builder
	for _, lc := range b.Grouping.Columns() {
		out.WriteString("## " + laneLabel(b, lc.Lane) + "\n")
		for _, col := range lc.Columns {
			out.WriteString("### " + col.Status + " (" + itoa(len(col.Tasks)) + ")\n")
			for _, task := range col.Tasks {
				line := "- " + task.ID
				if task.Title != "" {
					line += " " + task.Title
				}
				if task.Milestone != "" && b.Mode != types.LaneModeMilestone {
					line += " [" + task.Milestone + "]"
				}
				out.WriteString(line + "\n")
			}
		}
	}
	return out.String()
}
