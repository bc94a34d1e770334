package projectlist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/model"
	"taskdeck/internal/theme"
)

// ProjectItem wraps a model.Project so it can be used in a bubbles/list.
type ProjectItem struct {
	Project model.Project
}

// FilterValue returns the string used for fuzzy filtering.
func (i ProjectItem) FilterValue() string { return i.Project.Title }

// Title returns the project title for the list.
func (i ProjectItem) Title() string { return i.Project.Title }

// Description returns a short summary line for the list.
func (i ProjectItem) Description() string {
	return fmt.Sprintf("%s | %d members", i.Project.Status, len(i.Project.Members))
}

// ItemDelegate implements list.ItemDelegate for rendering project rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single project row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pi, ok := item.(ProjectItem)
	if !ok {
		return
	}
	p := pi.Project

	statusBadge := theme.ProjectStatusStyle(p.Status).Render(string(p.Status))

	deadline := ""
	if p.Deadline != nil {
		deadline = theme.DueDateStyle.Render(" due " + p.Deadline.Format("Jan 02"))
	}

	members := theme.DueDateStyle.Render(fmt.Sprintf(" (%d members)", len(p.Members)))

	line := fmt.Sprintf("%s %s%s%s", statusBadge, p.Title, members, deadline)

	if index == m.Index() {
		fmt.Fprint(w, theme.SelectedItemStyle.Render("> "+line))
	} else {
		fmt.Fprint(w, theme.ListItemStyle.Render("  "+line))
	}
}
