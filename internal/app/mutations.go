package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/api"
	"taskdeck/internal/model"
)

// taskSavedMsg is sent after a task create or update settles. On
// success the server's echo of the task carries the authoritative
// populated fields.
type taskSavedMsg struct {
	task    *model.Task
	created bool
	err     error
}

// taskDeletedMsg is sent after a task delete settles.
type taskDeletedMsg struct {
	id  string
	err error
}

// projectSavedMsg is sent after a project create or update settles.
type projectSavedMsg struct {
	project *model.Project
	created bool
	err     error
}

// projectDeletedMsg is sent after a project delete settles.
type projectDeletedMsg struct {
	id  string
	err error
}

// usersLoadedMsg carries the workspace members for form selectors.
type usersLoadedMsg struct {
	users []model.User
	err   error
}

// createTask fires the create request. The local collection is only
// reconciled once the server confirms, in handleTaskSaved.
func (m Model) createTask(payload model.TaskPayload) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		task, err := client.CreateTask(context.Background(), payload)
		return taskSavedMsg{task: task, created: true, err: err}
	}
}

func (m Model) updateTask(id string, payload model.TaskPayload) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		task, err := client.UpdateTask(context.Background(), id, payload)
		return taskSavedMsg{task: task, err: err}
	}
}

func (m Model) deleteTask(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.DeleteTask(context.Background(), id)
		return taskDeletedMsg{id: id, err: err}
	}
}

func (m Model) createProject(payload model.ProjectPayload) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		project, err := client.CreateProject(context.Background(), payload)
		return projectSavedMsg{project: project, created: true, err: err}
	}
}

func (m Model) updateProject(id string, payload model.ProjectPayload) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		project, err := client.UpdateProject(context.Background(), id, payload)
		return projectSavedMsg{project: project, err: err}
	}
}

func (m Model) deleteProject(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.DeleteProject(context.Background(), id)
		return projectDeletedMsg{id: id, err: err}
	}
}

// loadUsers fetches the workspace members for the project form's
// member selector.
func (m Model) loadUsers() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		users, err := client.Users(context.Background())
		return usersLoadedMsg{users: users, err: err}
	}
}

// handleTaskSaved reconciles a confirmed task create or update into the
// task list, and refreshes the detail view when it is showing the
// updated task.
func (m Model) handleTaskSaved(msg taskSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.statusMsg = api.UserMessage(msg.err)
		return m, nil
	}
	m.statusMsg = ""

	var cmd tea.Cmd
	if msg.created {
		cmd = m.taskList.ApplyCreated(*msg.task)
	} else {
		cmd = m.taskList.ApplyUpdated(*msg.task)
	}

	if m.currentView == ViewTaskDetail {
		cmd = tea.Batch(cmd, m.taskDetail.Show(*msg.task))
	}
	return m, cmd
}

// handleProjectSaved reconciles a confirmed project create or update
// into the project list.
func (m Model) handleProjectSaved(msg projectSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.statusMsg = api.UserMessage(msg.err)
		return m, nil
	}
	m.statusMsg = ""

	var cmd tea.Cmd
	if msg.created {
		cmd = m.projectList.ApplyCreated(*msg.project)
	} else {
		cmd = m.projectList.ApplyUpdated(*msg.project)
	}

	if m.currentView == ViewProjectDetail {
		cmd = tea.Batch(cmd, m.projectView.Show(*msg.project))
	}
	return m, cmd
}
