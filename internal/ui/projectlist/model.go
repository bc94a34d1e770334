package projectlist

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

// projectsLoadedMsg carries a fetch result back into the update loop.
type projectsLoadedMsg struct {
	seq       int
	projects  []model.Project
	fromCache bool
	err       error
}

// ProjectsChangedMsg informs the parent that the project collection
// changed, so dependent views can refresh their project options.
type ProjectsChangedMsg struct {
	Projects []model.Project
}

// SelectedProjectMsg is sent when the user opens a project's detail view.
type SelectedProjectMsg struct {
	Project model.Project
}

// NewProjectMsg is sent when the user asks to create a project.
type NewProjectMsg struct{}

// EditProjectMsg is sent when the user asks to edit the selected project.
type EditProjectMsg struct {
	Project model.Project
}

// DeleteProjectMsg is sent after the user confirms deletion.
type DeleteProjectMsg struct {
	Project model.Project
}

type mode int

const (
	modeList mode = iota
	modeConfirmDelete
)

type confirmBindings struct {
	confirm bool
}

// Model is the project list view component.
type Model struct {
	list   list.Model
	client *api.Client
	cache  store.Cache
	keys   *keys.KeyMap

	projects []model.Project
	query    string

	mode        mode
	confirmForm *huh.Form
	fb          *confirmBindings
	pendingDel  model.Project

	searchMode  bool
	searchInput textinput.Model

	fetchSeq  int
	loading   bool
	offline   bool
	statusMsg string

	width  int
	height int
}

// New creates a new project list model.
func New(client *api.Client, cache store.Cache, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Projects"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search projects..."
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

// Init returns a command that loads the initial set of projects.
func (m Model) Init() tea.Cmd {
	return m.loadProjects(m.fetchSeq)
}

// Searching reports whether the search prompt is capturing key input.
func (m Model) Searching() bool {
	return m.searchMode || m.mode == modeConfirmDelete
}

// Offline reports whether the last fetch fell back to the local cache.
func (m Model) Offline() bool {
	return m.offline
}

// Projects returns the full unfiltered collection.
func (m Model) Projects() []model.Project {
	return m.projects
}

// SetCollection replaces the full collection wholesale, as delivered by
// a background refresh.
func (m *Model) SetCollection(projects []model.Project) tea.Cmd {
	m.projects = projects
	m.loading = false
	m.offline = false
	return tea.Batch(m.syncList(), m.announceChange())
}

// ApplyCreated reconciles a confirmed create into the collection.
func (m *Model) ApplyCreated(p model.Project) tea.Cmd {
	m.projects = view.AppendProject(m.projects, p)
	m.statusMsg = "Project created"
	return tea.Batch(m.syncList(), m.announceChange())
}

// ApplyUpdated reconciles a confirmed update into the collection.
func (m *Model) ApplyUpdated(p model.Project) tea.Cmd {
	m.projects = view.ReplaceProject(m.projects, p)
	m.statusMsg = "Project updated"
	return tea.Batch(m.syncList(), m.announceChange())
}

// ApplyRemoved reconciles a confirmed delete out of the collection.
func (m *Model) ApplyRemoved(id string) tea.Cmd {
	m.projects = view.RemoveProject(m.projects, id)
	m.statusMsg = "Project deleted"
	return tea.Batch(m.syncList(), m.announceChange())
}

// Update handles messages for the project list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		if msg.seq != m.fetchSeq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.statusMsg = api.UserMessage(msg.err)
			return m, nil
		}
		m.projects = msg.projects
		m.offline = msg.fromCache
		m.statusMsg = ""
		if msg.fromCache {
			m.statusMsg = "Offline: showing cached projects"
		}
		return m, tea.Batch(m.syncList(), m.announceChange())

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

func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query = m.searchInput.Value()
		return m, m.syncList()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = ""
		return m, m.syncList()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(ProjectItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedProjectMsg{Project: item.Project}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.ClearFilters):
		m.query = ""
		m.searchInput.Reset()
		return m, m.syncList()

	case key.Matches(msg, m.keys.New):
		return m, func() tea.Msg { return NewProjectMsg{} }

	case key.Matches(msg, m.keys.Edit):
		item, ok := m.list.SelectedItem().(ProjectItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return EditProjectMsg{Project: item.Project} }

	case key.Matches(msg, m.keys.Delete):
		item, ok := m.list.SelectedItem().(ProjectItem)
		if !ok {
			return m, nil
		}
		m.pendingDel = item.Project
		m.mode = modeConfirmDelete
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm(item.Project.Title)
		return m, m.confirmForm.Init()

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		m.offline = false
		m.fetchSeq++
		return m, m.loadProjects(m.fetchSeq)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
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
			project := m.pendingDel
			return m, func() tea.Msg { return DeleteProjectMsg{Project: project} }
		}
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

// View renders the project list view.
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

	if m.loading {
		sections = append(sections, theme.HelpStyle.Render("Loading projects..."))
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

func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 4).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.query != "" {
		return style.Render("No matching projects.")
	}
	return style.Render("No projects yet.\n\nPress 'n' to create one.")
}

// syncList rebuilds the visible list items from the collection and the
// active search query.
func (m *Model) syncList() tea.Cmd {
	visible := view.FilterProjects(m.projects, m.query)
	items := make([]list.Item, len(visible))
	for i, p := range visible {
		items[i] = ProjectItem{Project: p}
	}
	return m.list.SetItems(items)
}

func (m *Model) announceChange() tea.Cmd {
	projects := m.projects
	return func() tea.Msg {
		return ProjectsChangedMsg{Projects: projects}
	}
}

// loadProjects returns a tea.Cmd that fetches the project collection,
// falling back to the local cache on a network failure.
func (m Model) loadProjects(seq int) tea.Cmd {
	client := m.client
	cache := m.cache
	return func() tea.Msg {
		ctx := context.Background()
		projects, err := client.Projects(ctx)
		if err == nil {
			if cache != nil {
				if cerr := cache.ReplaceProjects(ctx, projects); cerr != nil {
					log.Printf("project cache write failed: %v", cerr)
				}
			}
			return projectsLoadedMsg{seq: seq, projects: projects}
		}

		var netErr *api.NetworkError
		if cache != nil && errors.As(err, &netErr) {
			cached, cerr := cache.Projects(ctx)
			if cerr == nil && len(cached) > 0 {
				return projectsLoadedMsg{seq: seq, projects: cached, fromCache: true}
			}
		}
		return projectsLoadedMsg{seq: seq, err: err}
	}
}

func (m Model) buildConfirmForm(title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete project \"" + title + "\"?").
				Description("Tasks in this project are removed as well.").
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
	return m.loadProjects(m.fetchSeq)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
