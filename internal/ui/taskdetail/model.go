package taskdetail

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
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// EditMsg signals the parent to open the edit form for the shown task.
type EditMsg struct {
	Task model.Task
}

// taskLoadedMsg carries the freshly fetched task.
type taskLoadedMsg struct {
	seq  int
	task *model.Task
	err  error
}

// Model is the task detail view component.
type Model struct {
	task     *model.Task
	viewport viewport.Model
	client   *api.Client
	keys     *keys.KeyMap
	fetchSeq int
	loading  bool
	errMsg   string
	width    int
	height   int
}

// New creates a new task detail model.
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

// Show seeds the view with the already-loaded task and refetches it so
// the detail reflects the server's current state.
func (m *Model) Show(task model.Task) tea.Cmd {
	m.task = &task
	m.errMsg = ""
	m.loading = true
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
	m.fetchSeq++
	return m.loadTask(task.ID, m.fetchSeq)
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskLoadedMsg:
		if msg.seq != m.fetchSeq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.errMsg = api.UserMessage(msg.err)
			return m, nil
		}
		m.task = msg.task
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.Edit):
			if m.task != nil {
				task := *m.task
				return m, func() tea.Msg { return EditMsg{Task: task} }
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.task == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No task selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}

	task := m.task
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(task.Title))

	statusBadge := theme.StatusStyle(task.Status).Render(string(task.Status))
	priBadge := theme.PriorityStyle(task.Priority).Render(string(task.Priority))
	badgeLine := lipgloss.JoinHorizontal(lipgloss.Top, statusBadge, "  ", priBadge)
	sections = append(sections, badgeLine)
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	if task.Project.Title != "" {
		sections = append(sections, fmt.Sprintf(
			"%s   %s",
			metaStyle.Render("Project:"),
			valStyle.Render(task.Project.Title),
		))
	}
	assignee := "unassigned"
	if task.AssignedTo != nil {
		assignee = task.AssignedTo.Name
	}
	sections = append(sections, fmt.Sprintf(
		"%s  %s",
		metaStyle.Render("Assignee:"),
		valStyle.Render(assignee),
	))
	if task.CreatedBy.Name != "" {
		sections = append(sections, fmt.Sprintf(
			"%s   %s",
			metaStyle.Render("Creator:"),
			valStyle.Render(task.CreatedBy.Name),
		))
	}
	if task.DueDate != nil {
		sections = append(sections, fmt.Sprintf(
			"%s       %s",
			metaStyle.Render("Due:"),
			valStyle.Render(task.DueDate.Format("2006-01-02")),
		))
	}
	if !task.CreatedAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s   %s",
			metaStyle.Render("Created:"),
			valStyle.Render(task.CreatedAt.Format("2006-01-02 15:04")),
		))
	}
	if !task.UpdatedAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s   %s",
			metaStyle.Render("Updated:"),
			valStyle.Render(task.UpdatedAt.Format("2006-01-02 15:04")),
		))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", min(m.width-4, 80)))
	sections = append(sections, "")
	sections = append(sections, separator)
	sections = append(sections, "")

	descHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	sections = append(sections, descHeaderStyle.Render("Description"))

	body := task.Description
	if body == "" {
		body = "(no description)"
	}
	bodyStyle := lipgloss.NewStyle().
		Foreground(theme.ColorWhite).
		Width(min(m.width-4, 80))
	sections = append(sections, bodyStyle.Render(body))

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

func (m Model) loadTask(id string, seq int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		task, err := client.TaskByID(context.Background(), id)
		if err != nil {
			return taskLoadedMsg{seq: seq, err: err}
		}
		return taskLoadedMsg{seq: seq, task: task}
	}
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}
