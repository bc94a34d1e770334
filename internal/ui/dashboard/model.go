package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/api"
	"taskdeck/internal/keys"
	"taskdeck/internal/model"
	"taskdeck/internal/theme"
	"taskdeck/internal/view"
)

// projectsFetchedMsg and tasksFetchedMsg are the two halves of the
// dashboard load. Both are fired in parallel and the model tracks which
// have settled; stats render only once both results are in.
type projectsFetchedMsg struct {
	seq      int
	projects []model.Project
	err      error
}

type tasksFetchedMsg struct {
	seq   int
	tasks []model.Task
	err   error
}

// SelectedTaskMsg is sent when the user opens a recent task.
type SelectedTaskMsg struct {
	Task model.Task
}

// Model is the dashboard view component.
type Model struct {
	client *api.Client
	keys   *keys.KeyMap
	me     *model.User

	projects []model.Project
	tasks    []model.Task

	fetchSeq int
	pending  int
	errMsg   string

	recentIdx int

	width  int
	height int
}

// New creates a new dashboard model.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	return Model{
		client:  client,
		keys:    k,
		pending: 2,
		width:   width,
		height:  height,
	}
}

// SetUser sets the signed-in user the "my tasks" card counts against.
func (m *Model) SetUser(u *model.User) {
	m.me = u
}

// Init fires both halves of the dashboard load in parallel.
func (m Model) Init() tea.Cmd {
	return m.load(m.fetchSeq)
}

// Refresh reloads both collections, superseding any in-flight load.
func (m *Model) Refresh() tea.Cmd {
	m.fetchSeq++
	m.pending = 2
	m.errMsg = ""
	return m.load(m.fetchSeq)
}

func (m Model) load(seq int) tea.Cmd {
	client := m.client
	return tea.Batch(
		func() tea.Msg {
			projects, err := client.Projects(context.Background())
			return projectsFetchedMsg{seq: seq, projects: projects, err: err}
		},
		func() tea.Msg {
			tasks, err := client.Tasks(context.Background(), api.TaskListFilter{})
			return tasksFetchedMsg{seq: seq, tasks: tasks, err: err}
		},
	)
}

// Update handles messages for the dashboard.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsFetchedMsg:
		if msg.seq != m.fetchSeq {
			return m, nil
		}
		m.pending--
		if msg.err != nil {
			m.errMsg = api.UserMessage(msg.err)
		} else {
			m.projects = msg.projects
		}
		return m, nil

	case tasksFetchedMsg:
		if msg.seq != m.fetchSeq {
			return m, nil
		}
		m.pending--
		if msg.err != nil {
			m.errMsg = api.UserMessage(msg.err)
		} else {
			m.tasks = msg.tasks
		}
		return m, nil

	case tea.KeyMsg:
		recent := m.recentTasks()
		switch {
		case key.Matches(msg, m.keys.Down):
			if m.recentIdx < len(recent)-1 {
				m.recentIdx++
			}
			return m, nil

		case key.Matches(msg, m.keys.Up):
			if m.recentIdx > 0 {
				m.recentIdx--
			}
			return m, nil

		case key.Matches(msg, m.keys.Select):
			if m.recentIdx < len(recent) {
				task := recent[m.recentIdx]
				return m, func() tea.Msg { return SelectedTaskMsg{Task: task} }
			}
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			return m, m.Refresh()
		}
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.pending > 0 {
		loadingStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return loadingStyle.Render("Loading dashboard...")
	}

	taskStats := view.ComputeTaskStats(m.tasks, m.userID())
	projectStats := view.ComputeProjectStats(m.projects)

	cards := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderCard("Projects", fmt.Sprintf("%d active / %d", projectStats.Active, projectStats.Total)),
		m.renderCard("Tasks", fmt.Sprintf("%d", taskStats.Total)),
		m.renderCard("Done", fmt.Sprintf("%d%%", taskStats.CompletionPercent)),
		m.renderCard("High Priority", fmt.Sprintf("%d open", taskStats.HighPriorityOpen)),
		m.renderCard("My Tasks", fmt.Sprintf("%d", taskStats.Mine)),
	)

	var sections []string
	sections = append(sections, cards)
	sections = append(sections, "")
	sections = append(sections, m.renderStatusRow(taskStats))
	sections = append(sections, "")
	sections = append(sections, m.renderRecent())

	if m.errMsg != "" {
		sections = append(sections, "")
		sections = append(sections, theme.ErrorBarStyle.Render(m.errMsg))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

func (m Model) renderCard(label, value string) string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		valueStyle.Render(value),
		labelStyle.Render(label),
	)
	return theme.CardStyle.Render(content)
}

// renderStatusRow shows the per-status breakdown of the full collection.
func (m Model) renderStatusRow(stats view.TaskStats) string {
	var parts []string
	for _, s := range model.TaskStatuses {
		badge := theme.StatusStyle(s).Render(string(s))
		parts = append(parts, fmt.Sprintf("%s %d", badge, stats.ByStatus[s]))
	}
	return strings.Join(parts, "   ")
}

func (m Model) renderRecent() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	var b strings.Builder
	b.WriteString(headerStyle.Render("Recent Tasks"))
	b.WriteString("\n")

	recent := m.recentTasks()
	if len(recent) == 0 {
		b.WriteString(theme.EmptyStateStyle.Render("No tasks yet"))
		return b.String()
	}

	for i, t := range recent {
		badge := theme.StatusStyle(t.Status).Render(string(t.Status))
		line := fmt.Sprintf("%s %s", badge, t.Title)
		if i == m.recentIdx {
			b.WriteString(theme.SelectedItemStyle.Render("> " + line))
		} else {
			b.WriteString(theme.ListItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// recentTasks returns up to five tasks, newest first.
func (m Model) recentTasks() []model.Task {
	tasks := make([]model.Task, len(m.tasks))
	copy(tasks, m.tasks)
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	if len(tasks) > 5 {
		tasks = tasks[:5]
	}
	return tasks
}

func (m Model) userID() string {
	if m.me == nil {
		return ""
	}
	return m.me.ID
}

// SetSize updates the dashboard dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
