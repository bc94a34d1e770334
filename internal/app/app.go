// Package app wires the session, the remote API, and the individual
// views into the root Bubble Tea model. Protected views are reachable
// only once the session resolves to an authenticated identity; until
// then the app shows a loading screen or the sign-in form.
package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/api"
	"taskdeck/internal/keys"
	"taskdeck/internal/model"
	"taskdeck/internal/session"
	"taskdeck/internal/store"
	appsync "taskdeck/internal/sync"
	"taskdeck/internal/theme"
	"taskdeck/internal/ui"
	"taskdeck/internal/ui/authview"
	"taskdeck/internal/ui/dashboard"
	"taskdeck/internal/ui/projectdetail"
	"taskdeck/internal/ui/projectform"
	"taskdeck/internal/ui/projectlist"
	"taskdeck/internal/ui/taskdetail"
	"taskdeck/internal/ui/taskform"
	"taskdeck/internal/ui/tasklist"
)

// ViewState identifies the active protected view.
type ViewState int

const (
	ViewDashboard ViewState = iota
	ViewTasks
	ViewTaskDetail
	ViewTaskCreate
	ViewTaskEdit
	ViewProjects
	ViewProjectDetail
	ViewProjectCreate
	ViewProjectEdit
)

// Model is the root application model.
type Model struct {
	session *session.Store
	client  *api.Client
	poller  *appsync.Poller
	keys    *keys.KeyMap
	layout  ui.Layout
	ready   bool

	currentView  ViewState
	previousView ViewState

	auth        authview.Model
	dashboard   dashboard.Model
	taskList    tasklist.Model
	taskDetail  taskdetail.Model
	taskForm    taskform.Model
	projectList projectlist.Model
	projectView projectdetail.Model
	projectForm projectform.Model

	started   bool
	statusMsg string
}

// New creates the root model. The cache may be nil when offline support
// is disabled, and the poller may be nil when background refresh is off.
func New(sess *session.Store, client *api.Client, cache store.Cache, poller *appsync.Poller) Model {
	k := keys.DefaultKeyMap()

	return Model{
		session:     sess,
		client:      client,
		poller:      poller,
		keys:        k,
		currentView: ViewDashboard,
		auth:        authview.New(80, 24),
		dashboard:   dashboard.New(client, k, 80, 24),
		taskList:    tasklist.New(client, cache, k, 80, 24),
		taskDetail:  taskdetail.New(client, k, 80, 24),
		taskForm:    taskform.New(80, 24),
		projectList: projectlist.New(client, cache, k, 80, 24),
		projectView: projectdetail.New(client, k, 80, 24),
		projectForm: projectform.New(80, 24),
	}
}

// Init resolves the persisted session before anything else renders.
func (m Model) Init() tea.Cmd {
	return m.session.Initialize()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.auth.SetSize(msg.Width, msg.Height)
		m.dashboard.SetSize(contentWidth, contentHeight)
		m.taskList.SetSize(contentWidth, contentHeight)
		m.taskDetail.SetSize(contentWidth, contentHeight)
		m.taskForm.SetSize(contentWidth, contentHeight)
		m.projectList.SetSize(contentWidth, contentHeight)
		m.projectView.SetSize(contentWidth, contentHeight)
		m.projectForm.SetSize(contentWidth, contentHeight)
		if m.session.State() == session.Authenticated {
			return m.updateActiveView(msg)
		}
		return m, nil

	case session.InitializedMsg, session.AuthResultMsg:
		m.session.Update(msg)
		switch m.session.State() {
		case session.Authenticated:
			if !m.started {
				m.started = true
				m.dashboard.SetUser(m.session.User())
				return m, m.startProtected()
			}
			return m, nil
		case session.Unauthenticated:
			m.started = false
			if errMsg := m.session.Err(); errMsg != "" {
				m.auth.SetError(errMsg)
			}
			return m, m.auth.Init()
		}
		return m, nil

	case authview.SubmitLoginMsg:
		return m, m.session.Login(msg.Credentials)

	case authview.SubmitRegisterMsg:
		return m, m.session.Register(msg.Profile)
	}

	switch m.session.State() {
	case session.Initializing:
		return m, nil
	case session.Unauthenticated:
		var cmd tea.Cmd
		m.auth, cmd = m.auth.Update(msg)
		return m, cmd
	}

	return m.updateAuthenticated(msg)
}

// startProtected kicks off the initial loads after sign-in.
func (m *Model) startProtected() tea.Cmd {
	m.currentView = ViewDashboard
	cmds := []tea.Cmd{
		m.dashboard.Init(),
		m.taskList.Init(),
		m.projectList.Init(),
		m.loadUsers(),
	}
	if m.poller != nil {
		cmds = append(cmds, m.poller.Start())
	}
	return tea.Batch(cmds...)
}

// updateAuthenticated routes messages while the session is authenticated.
func (m Model) updateAuthenticated(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case usersLoadedMsg:
		if msg.err == nil {
			m.projectForm.SetUsers(msg.users)
		}
		return m, nil

	case appsync.RefreshedMsg:
		var next tea.Cmd
		if m.poller != nil {
			next = m.poller.WaitForNextResult()
		}
		if msg.Err != nil {
			// The lists keep their last known data; the next tick may recover.
			return m, next
		}
		return m, tea.Batch(
			m.projectList.SetCollection(msg.Projects),
			m.taskList.SetCollection(msg.Tasks),
			next,
		)

	case projectlist.ProjectsChangedMsg:
		m.taskList.SetProjects(msg.Projects)
		m.taskForm.SetProjects(msg.Projects)
		return m, nil

	case tasklist.SelectedTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskDetail
		return m, m.taskDetail.Show(msg.Task)

	case dashboard.SelectedTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskDetail
		return m, m.taskDetail.Show(msg.Task)

	case tasklist.NewTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskCreate
		return m, m.taskForm.StartCreate()

	case tasklist.EditTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskEdit
		return m, m.taskForm.StartEdit(msg.Task)

	case taskdetail.EditMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskEdit
		return m, m.taskForm.StartEdit(msg.Task)

	case tasklist.DeleteTaskMsg:
		return m, m.deleteTask(msg.Task.ID)

	case taskform.TaskCreatedMsg:
		m.currentView = ViewTasks
		return m, m.createTask(msg.Payload)

	case taskform.TaskUpdatedMsg:
		m.currentView = ViewTasks
		return m, m.updateTask(msg.ID, msg.Payload)

	case taskform.TaskFormCancelMsg:
		m.currentView = m.previousView
		return m, nil

	case taskSavedMsg:
		return m.handleTaskSaved(msg)

	case taskDeletedMsg:
		// A 404 means another client already deleted it; converge on the
		// same end state instead of reporting an error.
		if msg.err != nil && !api.IsNotFound(msg.err) {
			m.statusMsg = api.UserMessage(msg.err)
			return m, nil
		}
		m.statusMsg = ""
		return m, m.taskList.ApplyRemoved(msg.id)

	case taskdetail.BackMsg:
		m.currentView = m.previousView
		return m, nil

	case projectlist.SelectedProjectMsg:
		m.previousView = m.currentView
		m.currentView = ViewProjectDetail
		return m, m.projectView.Show(msg.Project)

	case projectlist.NewProjectMsg:
		m.previousView = m.currentView
		m.currentView = ViewProjectCreate
		return m, m.projectForm.StartCreate()

	case projectlist.EditProjectMsg:
		m.previousView = m.currentView
		m.currentView = ViewProjectEdit
		return m, m.projectForm.StartEdit(msg.Project)

	case projectdetail.EditMsg:
		m.previousView = m.currentView
		m.currentView = ViewProjectEdit
		return m, m.projectForm.StartEdit(msg.Project)

	case projectlist.DeleteProjectMsg:
		return m, m.deleteProject(msg.Project.ID)

	case projectform.ProjectCreatedMsg:
		m.currentView = ViewProjects
		return m, m.createProject(msg.Payload)

	case projectform.ProjectUpdatedMsg:
		m.currentView = ViewProjects
		return m, m.updateProject(msg.ID, msg.Payload)

	case projectform.ProjectFormCancelMsg:
		m.currentView = m.previousView
		return m, nil

	case projectSavedMsg:
		return m.handleProjectSaved(msg)

	case projectDeletedMsg:
		if msg.err != nil && !api.IsNotFound(msg.err) {
			m.statusMsg = api.UserMessage(msg.err)
			return m, nil
		}
		m.statusMsg = ""
		return m, tea.Batch(
			m.projectList.ApplyRemoved(msg.id),
			m.taskList.Refresh(),
		)

	case projectdetail.BackMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}
		return m.updateActiveView(msg)
	}

	// Non-key messages are fetch results and component internals; they
	// must reach their owner even when another view is on screen, as a
	// list load can settle while the dashboard is active.
	return m.broadcast(msg)
}

// broadcast forwards a message to every stateful child. Forms only
// receive messages while they are on screen.
func (m Model) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.dashboard, cmd = m.dashboard.Update(msg)
	cmds = append(cmds, cmd)
	m.taskList, cmd = m.taskList.Update(msg)
	cmds = append(cmds, cmd)
	m.projectList, cmd = m.projectList.Update(msg)
	cmds = append(cmds, cmd)
	m.taskDetail, cmd = m.taskDetail.Update(msg)
	cmds = append(cmds, cmd)
	m.projectView, cmd = m.projectView.Update(msg)
	cmds = append(cmds, cmd)

	switch m.currentView {
	case ViewTaskCreate, ViewTaskEdit:
		m.taskForm, cmd = m.taskForm.Update(msg)
		cmds = append(cmds, cmd)
	case ViewProjectCreate, ViewProjectEdit:
		m.projectForm, cmd = m.projectForm.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleGlobalKey processes keys that work from any protected view,
// except while a form or search prompt is capturing input.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.capturingInput() {
		if msg.String() == "ctrl+c" {
			m.stopPoller()
			return tea.Quit, true
		}
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		// "q" only quits from the top-level views; detail and form views
		// treat it as input or navigation.
		if msg.String() == "q" &&
			m.currentView != ViewDashboard && m.currentView != ViewTasks && m.currentView != ViewProjects {
			return nil, false
		}
		m.stopPoller()
		return tea.Quit, true

	case key.Matches(msg, m.keys.Dashboard):
		m.previousView = m.currentView
		m.currentView = ViewDashboard
		return m.dashboard.Refresh(), true

	case key.Matches(msg, m.keys.Tasks):
		m.previousView = m.currentView
		m.currentView = ViewTasks
		return nil, true

	case key.Matches(msg, m.keys.Projects):
		m.previousView = m.currentView
		m.currentView = ViewProjects
		return nil, true

	case key.Matches(msg, m.keys.Logout):
		m.stopPoller()
		m.session.Logout()
		m.started = false
		m.auth = authview.New(m.layout.Width, m.layout.Height)
		return m.auth.Init(), true
	}

	return nil, false
}

func (m Model) stopPoller() {
	if m.poller != nil {
		m.poller.Stop()
	}
}

// capturingInput reports whether the active view owns raw key input,
// as forms, search prompts, and confirm dialogs do.
func (m Model) capturingInput() bool {
	switch m.currentView {
	case ViewTaskCreate, ViewTaskEdit, ViewProjectCreate, ViewProjectEdit:
		return true
	case ViewTasks:
		return m.taskList.Searching()
	case ViewProjects:
		return m.projectList.Searching()
	}
	return false
}

func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewTaskDetail:
		m.taskDetail, cmd = m.taskDetail.Update(msg)
	case ViewTaskCreate, ViewTaskEdit:
		m.taskForm, cmd = m.taskForm.Update(msg)
	case ViewProjects:
		m.projectList, cmd = m.projectList.Update(msg)
	case ViewProjectDetail:
		m.projectView, cmd = m.projectView.Update(msg)
	case ViewProjectCreate, ViewProjectEdit:
		m.projectForm, cmd = m.projectForm.Update(msg)
	}
	return m, cmd
}

// View renders the frame for the current session state and active view.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.session.State() {
	case session.Initializing:
		return lipgloss.NewStyle().
			Width(m.layout.Width).
			Height(m.layout.Height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Loading...")

	case session.Unauthenticated:
		return m.auth.View()
	}

	header := m.layout.RenderHeader("taskdeck", m.identity())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDashboard:
		return m.dashboard.View()
	case ViewTasks:
		return m.taskList.View()
	case ViewTaskDetail:
		return m.taskDetail.View()
	case ViewTaskCreate, ViewTaskEdit:
		return m.taskForm.View()
	case ViewProjects:
		return m.projectList.View()
	case ViewProjectDetail:
		return m.projectView.View()
	case ViewProjectCreate, ViewProjectEdit:
		return m.projectForm.View()
	default:
		return ""
	}
}

func (m Model) identity() string {
	u := m.session.User()
	if u == nil {
		return ""
	}
	id := u.Name
	if u.Role == model.RoleAdmin {
		id += " (admin)"
	}
	if m.taskList.Offline() || m.projectList.Offline() {
		id += " [offline]"
	}
	return id
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMsg != "" {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewTaskDetail:
		return "esc back | e edit | j/k scroll"
	case ViewProjectDetail:
		return "esc back | e edit | j/k scroll"
	case ViewTaskCreate, ViewTaskEdit, ViewProjectCreate, ViewProjectEdit:
		return "enter submit | esc cancel"
	case ViewProjects:
		return "D dashboard | T tasks | n new | e edit | d delete | / search | r refresh"
	case ViewTasks:
		return "D dashboard | P projects | n new | / search | 1 status | 2 priority | 3 project | 0 clear | r refresh"
	default:
		return "T tasks | P projects | r refresh | ctrl+l logout | q quit"
	}
}
