package tasklist

import (
	"context"
	"errors"
	"log"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/api"
	"taskdeck/internal/keys"
	"taskdeck/internal/model"
	"taskdeck/internal/store"
	"taskdeck/internal/theme"
	"taskdeck/internal/view"
)

// tasksLoadedMsg carries a fetch result back into the update loop. The
// seq field ties it to the request that produced it; results from
// superseded requests are discarded.
type tasksLoadedMsg struct {
	seq       int
	tasks     []model.Task
	fromCache bool
	err       error
}

// SelectedTaskMsg is sent when the user opens a task's detail view.
type SelectedTaskMsg struct {
	Task model.Task
}

// NewTaskMsg is sent when the user asks to create a task.
type NewTaskMsg struct{}

// EditTaskMsg is sent when the user asks to edit the selected task.
type EditTaskMsg struct {
	Task model.Task
}

// DeleteTaskMsg is sent after the user confirms deletion.
type DeleteTaskMsg struct {
	Task model.Task
}

type mode int

const (
	modeList mode = iota
	modeConfirmDelete
)

// confirmBindings keeps the confirm value on the heap so huh's pointer
// survives model copies.
type confirmBindings struct {
	confirm bool
}

// Model is the task list view component.
type Model struct {
	list   list.Model
	client *api.Client
	cache  store.Cache
	keys   *keys.KeyMap

	// tasks is the full unfiltered collection; the list shows the
	// subset matching filter.
	tasks  []model.Task
	filter view.FilterState

	// projects backs the project filter cycle and is supplied by the
	// parent once loaded.
	projects    []model.Project
	projectIdx  int
	statusIdx   int
	priorityIdx int

	mode        mode
	confirmForm *huh.Form
	fb          *confirmBindings
	pendingDel  model.Task

	searchMode  bool
	searchInput textinput.Model

	fetchSeq  int
	loading   bool
	offline   bool
	statusMsg string

	width  int
	height int
}

// New creates a new task list model.
func New(client *api.Client, cache store.Cache, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Tasks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search tasks..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		client:      client,
		cache:       cache,
		keys:        k,
		fb:          &confirmBindings{},
		searchInput: si,
		fetchSeq:    1,
		loading:     true,
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the initial set of tasks.
func (m Model) Init() tea.Cmd {
	return m.loadTasks(m.fetchSeq)
}

// SetProjects supplies the known projects for the project filter cycle.
func (m *Model) SetProjects(projects []model.Project) {
	m.projects = projects
}

// Tasks returns the full unfiltered collection.
func (m Model) Tasks() []model.Task {
	return m.tasks
}

// Filter returns the active filter state.
func (m Model) Filter() view.FilterState {
	return m.filter
}

// Searching reports whether the search prompt is capturing key input.
func (m Model) Searching() bool {
	return m.searchMode || m.mode == modeConfirmDelete
}

// Offline reports whether the last fetch fell back to the local cache.
func (m Model) Offline() bool {
	return m.offline
}

// SetCollection replaces the full collection wholesale, as delivered by
// a background refresh. The active filter is reapplied.
func (m *Model) SetCollection(tasks []model.Task) tea.Cmd {
	m.tasks = tasks
	m.loading = false
	m.offline = false
	return m.syncList()
}

// ApplyCreated reconciles a confirmed create into the collection.
func (m *Model) ApplyCreated(t model.Task) tea.Cmd {
	m.tasks = view.AppendTask(m.tasks, t)
	m.statusMsg = "Task created"
	return m.syncList()
}

// ApplyUpdated reconciles a confirmed update into the collection.
func (m *Model) ApplyUpdated(t model.Task) tea.Cmd {
	m.tasks = view.ReplaceTask(m.tasks, t)
	m.statusMsg = "Task updated"
	return m.syncList()
}

// ApplyRemoved reconciles a confirmed delete out of the collection.
func (m *Model) ApplyRemoved(id string) tea.Cmd {
	m.tasks = view.RemoveTask(m.tasks, id)
	m.statusMsg = "Task deleted"
	return m.syncList()
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		if msg.seq != m.fetchSeq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.statusMsg = api.UserMessage(msg.err)
			return m, nil
		}
		m.tasks = msg.tasks
		m.offline = msg.fromCache
		m.statusMsg = ""
		if msg.fromCache {
			m.statusMsg = "Offline: showing cached tasks"
		}
		return m, m.syncList()

	case tea.KeyMsg:
		if m.mode == modeConfirmDelete {
			return m.updateConfirm(msg)
		}
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	if m.mode == modeConfirmDelete {
		return m.updateConfirm(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.filter.Query = m.searchInput.Value()
		return m, m.syncList()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.filter.Query = ""
		return m, m.syncList()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedTaskMsg{Task: item.Task}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.FilterStatus):
		m.cycleStatus()
		return m, m.syncList()

	case key.Matches(msg, m.keys.FilterPriority):
		m.cyclePriority()
		return m, m.syncList()

	case key.Matches(msg, m.keys.FilterProject):
		m.cycleProject()
		return m, m.syncList()

	case key.Matches(msg, m.keys.ClearFilters):
		m.filter = m.filter.Clear()
		m.statusIdx, m.priorityIdx, m.projectIdx = 0, 0, 0
		m.searchInput.Reset()
		return m, m.syncList()

	case key.Matches(msg, m.keys.New):
		return m, func() tea.Msg { return NewTaskMsg{} }

	case key.Matches(msg, m.keys.Edit):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return EditTaskMsg{Task: item.Task} }

	case key.Matches(msg, m.keys.Delete):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		m.pendingDel = item.Task
		m.mode = modeConfirmDelete
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm(item.Task.Title)
		return m, m.confirmForm.Init()

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		m.offline = false
		m.fetchSeq++
		return m, m.loadTasks(m.fetchSeq)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// cycleStatus advances the status filter: unset, then each status in
// order, then back to unset.
func (m *Model) cycleStatus() {
	m.statusIdx = (m.statusIdx + 1) % (len(model.TaskStatuses) + 1)
	if m.statusIdx == 0 {
		m.filter.Status = ""
		return
	}
	m.filter.Status = model.TaskStatuses[m.statusIdx-1]
}

func (m *Model) cyclePriority() {
	m.priorityIdx = (m.priorityIdx + 1) % (len(model.Priorities) + 1)
	if m.priorityIdx == 0 {
		m.filter.Priority = ""
		return
	}
	m.filter.Priority = model.Priorities[m.priorityIdx-1]
}

func (m *Model) cycleProject() {
	if len(m.projects) == 0 {
		return
	}
	m.projectIdx = (m.projectIdx + 1) % (len(m.projects) + 1)
	if m.projectIdx == 0 {
		m.filter.ProjectID = ""
		return
	}
	m.filter.ProjectID = m.projects[m.projectIdx-1].ID
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		m.mode = modeList
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		m.mode = modeList
		if m.fb.confirm {
			task := m.pendingDel
			return m, func() tea.Msg { return DeleteTaskMsg{Task: task} }
		}
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

// View renders the task list view.
func (m Model) View() string {
	if m.mode == modeConfirmDelete && m.confirmForm != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.confirmForm.View())
	}

	var sections []string

	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		sections = append(sections, searchBar)
	}

	if bar := m.renderFilterBar(); bar != "" {
		sections = append(sections, bar)
	}

	if m.loading {
		sections = append(sections, theme.HelpStyle.Render("Loading tasks..."))
	}

	if len(m.list.Items()) == 0 && !m.loading {
		sections = append(sections, m.renderEmptyState())
	} else {
		sections = append(sections, m.list.View())
	}

	if m.statusMsg != "" {
		sections = append(sections, theme.HelpStyle.Render(m.statusMsg))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderFilterBar summarizes the active filter dimensions.
func (m Model) renderFilterBar() string {
	if !m.filter.Active() {
		return ""
	}
	bar := "Filters:"
	if m.filter.Status != "" {
		bar += " status=" + string(m.filter.Status)
	}
	if m.filter.Priority != "" {
		bar += " priority=" + string(m.filter.Priority)
	}
	if m.filter.ProjectID != "" {
		bar += " project=" + m.projectTitle(m.filter.ProjectID)
	}
	if m.filter.Query != "" {
		bar += " search=" + m.filter.Query
	}
	return lipgloss.NewStyle().
		Foreground(theme.ColorYellow).
		Padding(0, 1).
		Render(bar)
}

func (m Model) projectTitle(id string) string {
	for _, p := range m.projects {
		if p.ID == id {
			return p.Title
		}
	}
	return id
}

// renderEmptyState shows guidance text when no tasks match.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 4).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.filter.Active() {
		return style.Render("No matching tasks.\nTry adjusting your filters.")
	}
	return style.Render("No tasks yet.\n\nPress 'n' to create one.")
}

// syncList rebuilds the visible list items from the collection and the
// active filter.
func (m *Model) syncList() tea.Cmd {
	visible := view.FilterTasks(m.tasks, m.filter)
	items := make([]list.Item, len(visible))
	for i, t := range visible {
		items[i] = TaskItem{Task: t}
	}
	return m.list.SetItems(items)
}

// loadTasks returns a tea.Cmd that fetches the full task collection.
// On a network failure it falls back to the local cache when one is
// configured.
func (m Model) loadTasks(seq int) tea.Cmd {
	client := m.client
	cache := m.cache
	return func() tea.Msg {
		ctx := context.Background()
		tasks, err := client.Tasks(ctx, api.TaskListFilter{})
		if err == nil {
			if cache != nil {
				if cerr := cache.ReplaceTasks(ctx, tasks); cerr != nil {
					log.Printf("task cache write failed: %v", cerr)
				}
			}
			return tasksLoadedMsg{seq: seq, tasks: tasks}
		}

		var netErr *api.NetworkError
		if cache != nil && errors.As(err, &netErr) {
			cached, cerr := cache.Tasks(ctx)
			if cerr == nil && len(cached) > 0 {
				return tasksLoadedMsg{seq: seq, tasks: cached, fromCache: true}
			}
		}
		return tasksLoadedMsg{seq: seq, err: err}
	}
}

func (m Model) buildConfirmForm(title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete task \"" + title + "\"?").
				Description("This cannot be undone.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(60)
}

// Refresh triggers a fresh fetch, superseding any in-flight one.
func (m *Model) Refresh() tea.Cmd {
	m.loading = true
	m.offline = false
	m.fetchSeq++
	return m.loadTasks(m.fetchSeq)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
