package tasklist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/model"
	"taskdeck/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	return fmt.Sprintf("%s | %s | %s", i.Task.Project.Title, i.Task.Status, relativeTime(i.Task.UpdatedAt))
}

// ItemDelegate implements list.ItemDelegate for rendering task rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	t := ti.Task

	statusBadge := theme.StatusStyle(t.Status).Render(statusLabel(t.Status))
	priBadge := theme.PriorityStyle(t.Priority).Render(priorityLabel(t.Priority))

	dueStr := ""
	if t.DueDate != nil {
		dueStr = theme.DueDateStyle.Render(" " + t.DueDate.Format("Jan 02"))
		if t.Status != model.StatusDone && t.DueDate.Before(time.Now()) {
			dueStr += theme.OverdueStyle.Render(" OVERDUE")
		}
	}

	assignee := ""
	if t.AssignedTo != nil {
		assignee = theme.DueDateStyle.Render(" @" + t.AssignedTo.Name)
	}

	line := fmt.Sprintf("%s %s %s%s%s", statusBadge, priBadge, t.Title, assignee, dueStr)

	if index == m.Index() {
		fmt.Fprint(w, theme.SelectedItemStyle.Render("> "+line))
	} else {
		fmt.Fprint(w, theme.ListItemStyle.Render("  "+line))
	}
}

func statusLabel(s model.TaskStatus) string {
	switch s {
	case model.StatusTodo:
		return "TODO"
	case model.StatusInProgress:
		return "PROG"
	case model.StatusReview:
		return "REVW"
	case model.StatusDone:
		return "DONE"
	default:
		return "????"
	}
}

func priorityLabel(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "HIGH"
	case model.PriorityMedium:
		return "MED"
	case model.PriorityLow:
		return "LOW"
	default:
		return "?"
	}
}

// relativeTime renders how long ago a timestamp was, coarsely.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
