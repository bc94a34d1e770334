package projectdetail

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/api"
	"taskdeck/internal/keys"
	"taskdeck/internal/model"
	"taskdeck/internal/theme"
	"taskdeck/internal/view"
)

// BackMsg signals the parent to navigate back to the project list.
type BackMsg struct{}

// EditMsg signals the parent to open the edit form for the shown project.
type EditMsg struct {
	Project model.Project
}

// projectLoadedMsg carries the refetched project and its tasks.
type projectLoadedMsg struct {
	seq     int
	project *model.Project
	tasks   []model.Task
	err     error
}

// Model is the project detail view component.
type Model struct {
	project  *model.Project
	tasks    []model.Task
	viewport viewport.Model
	client   *api.Client
	keys     *keys.KeyMap
	fetchSeq int
	loading  bool
	errMsg   string
	width    int
	height   int
}

// New creates a new project detail model.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		client:   client,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Show seeds the view with the already-loaded project and refetches the
// project along with its tasks.
func (m *Model) Show(project model.Project) tea.Cmd {
	m.project = &project
	m.tasks = nil
	m.errMsg = ""
	m.loading = true
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
	m.fetchSeq++
	return m.loadProject(project.ID, m.fetchSeq)
}

// Update handles messages for the project detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectLoadedMsg:
		if msg.seq != m.fetchSeq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.errMsg = api.UserMessage(msg.err)
		} else {
			m.project = msg.project
			m.tasks = msg.tasks
		}
		m.viewport.SetContent(m.renderContent())
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.Edit):
			if m.project != nil {
				project := *m.project
				return m, func() tea.Msg { return EditMsg{Project: project} }
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the project detail view.
func (m Model) View() string {
	if m.project == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No project selected")
	}

	return m.viewport.View()
}

func (m Model) renderContent() string {
	if m.project == nil {
		return ""
	}

	p := m.project
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(p.Title))

	statusBadge := theme.ProjectStatusStyle(p.Status).Render(string(p.Status))
	sections = append(sections, statusBadge)
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	if p.Owner.Name != "" {
		sections = append(sections, fmt.Sprintf(
			"%s     %s",
			metaStyle.Render("Owner:"),
			valStyle.Render(p.Owner.Name),
		))
	}
	if p.Deadline != nil {
		sections = append(sections, fmt.Sprintf(
			"%s  %s",
			metaStyle.Render("Deadline:"),
			valStyle.Render(p.Deadline.Format("2006-01-02")),
		))
	}
	if !p.CreatedAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s   %s",
			metaStyle.Render("Created:"),
			valStyle.Render(p.CreatedAt.Format("2006-01-02")),
		))
	}

	if p.Description != "" {
		sections = append(sections, "")
		sections = append(sections, valStyle.Width(min(m.width-4, 80)).Render(p.Description))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", min(m.width-4, 80)))

	sections = append(sections, "")
	sections = append(sections, separator)
	sections = append(sections, "")

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, headerStyle.Render(fmt.Sprintf("Members (%d)", len(p.Members))))
	if len(p.Members) == 0 {
		sections = append(sections, theme.EmptyStateStyle.Render("No members"))
	}
	for _, u := range p.Members {
		role := ""
		if u.ID == p.Owner.ID {
			role = theme.HelpStyle.Render(" (owner)")
		}
		sections = append(sections, fmt.Sprintf("  %s%s", valStyle.Render(u.Name), role))
	}

	sections = append(sections, "")
	sections = append(sections, headerStyle.Render(fmt.Sprintf("Tasks (%d)", len(m.tasks))))

	if len(m.tasks) > 0 {
		stats := view.ComputeTaskStats(m.tasks, "")
		sections = append(sections, theme.HelpStyle.Render(fmt.Sprintf(
			"%d done of %d (%d%%)",
			stats.ByStatus[model.StatusDone], stats.Total, stats.CompletionPercent,
		)))
		for _, t := range m.tasks {
			badge := theme.StatusStyle(t.Status).Render(string(t.Status))
			sections = append(sections, fmt.Sprintf("  %s %s", badge, valStyle.Render(t.Title)))
		}
	} else if !m.loading {
		sections = append(sections, theme.EmptyStateStyle.Render("No tasks in this project"))
	}

	if m.loading {
		sections = append(sections, "")
		sections = append(sections, theme.HelpStyle.Render("Refreshing..."))
	}
	if m.errMsg != "" {
		sections = append(sections, "")
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.ColorRed).Render(m.errMsg))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(sections, "\n"))
}

// loadProject refetches the project and its task list in one command.
func (m Model) loadProject(id string, seq int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		project, err := client.ProjectByID(context.Background(), id)
		if err != nil {
			return projectLoadedMsg{seq: seq, err: err}
		}
		tasks, err := client.ProjectTasks(context.Background(), id)
		if err != nil {
			return projectLoadedMsg{seq: seq, err: err}
		}
		return projectLoadedMsg{seq: seq, project: project, tasks: tasks}
	}
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}
