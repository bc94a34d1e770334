package taskform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/model"
	"taskdeck/internal/theme"
)

// TaskCreatedMsg is dispatched when a new task is submitted via the form.
type TaskCreatedMsg struct {
	Payload model.TaskPayload
}

// TaskUpdatedMsg is dispatched when an existing task is submitted via the form.
type TaskUpdatedMsg struct {
	ID      string
	Payload model.TaskPayload
}

// TaskFormCancelMsg is dispatched when the user cancels the form.
type TaskFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	status      string
	priority    string
	projectID   string
	assigneeID  string
	dueDate     string
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	projects []model.Project
	width    int
	height   int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb: &formBindings{
			status:   string(model.StatusTodo),
			priority: string(model.PriorityMedium),
		},
		width:  width,
		height: height,
	}
}

// SetProjects sets the available projects for the project selector.
// Assignee options are drawn from the chosen project's members.
func (m *Model) SetProjects(projects []model.Project) {
	m.projects = projects
}

// StartCreate initializes the form for creating a new task.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = ""
	m.fb.title = ""
	m.fb.description = ""
	m.fb.status = string(model.StatusTodo)
	m.fb.priority = string(model.PriorityMedium)
	m.fb.projectID = ""
	if len(m.projects) > 0 {
		m.fb.projectID = m.projects[0].ID
	}
	m.fb.assigneeID = ""
	m.fb.dueDate = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing task.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editMode = true
	m.editID = task.ID
	m.fb.title = task.Title
	m.fb.description = task.Description
	m.fb.status = string(task.Status)
	m.fb.priority = string(task.Priority)
	m.fb.projectID = task.Project.ID
	if task.AssignedTo != nil {
		m.fb.assigneeID = task.AssignedTo.ID
	} else {
		m.fb.assigneeID = ""
	}
	if task.DueDate != nil {
		m.fb.dueDate = task.DueDate.Format("2006-01-02")
	} else {
		m.fb.dueDate = ""
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return TaskFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs to be done?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		m.projectField(),
		huh.NewSelect[string]().
			Title("Status").
			Options(
				huh.NewOption("To Do", string(model.StatusTodo)),
				huh.NewOption("In Progress", string(model.StatusInProgress)),
				huh.NewOption("Review", string(model.StatusReview)),
				huh.NewOption("Done", string(model.StatusDone)),
			).
			Value(&m.fb.status),
		huh.NewSelect[string]().
			Title("Priority").
			Options(
				huh.NewOption("High", string(model.PriorityHigh)),
				huh.NewOption("Medium", string(model.PriorityMedium)),
				huh.NewOption("Low", string(model.PriorityLow)),
			).
			Value(&m.fb.priority),
		m.assigneeField(),
		huh.NewInput().
			Title("Due Date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.dueDate).
			Validate(validateOptionalDate),
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) projectField() huh.Field {
	opts := make([]huh.Option[string], 0, len(m.projects))
	for _, p := range m.projects {
		if p.Status == model.ProjectArchived {
			continue
		}
		opts = append(opts, huh.NewOption(p.Title, p.ID))
	}
	return huh.NewSelect[string]().
		Title("Project").
		Options(opts...).
		Value(&m.fb.projectID).
		Validate(validateRequired("Project"))
}

func (m *Model) assigneeField() huh.Field {
	fb := m.fb
	projects := m.projects
	return huh.NewSelect[string]().
		Title("Assignee").
		OptionsFunc(func() []huh.Option[string] {
			opts := []huh.Option[string]{huh.NewOption("Unassigned", "")}
			for _, p := range projects {
				if p.ID != fb.projectID {
					continue
				}
				for _, u := range p.Members {
					opts = append(opts, huh.NewOption(u.Name, u.ID))
				}
			}
			return opts
		}, &fb.projectID).
		Value(&fb.assigneeID)
}

func (m Model) handleSubmit() tea.Cmd {
	payload := model.TaskPayload{
		Title:       strings.TrimSpace(m.fb.title),
		Description: m.fb.description,
		Status:      model.TaskStatus(m.fb.status),
		Priority:    model.Priority(m.fb.priority),
		Project:     m.fb.projectID,
		AssignedTo:  m.fb.assigneeID,
	}

	if m.fb.dueDate != "" {
		t, err := time.Parse("2006-01-02", m.fb.dueDate)
		if err == nil {
			payload.DueDate = &t
		}
	}

	if m.editMode {
		id := m.editID
		return func() tea.Msg { return TaskUpdatedMsg{ID: id, Payload: payload} }
	}
	return func() tea.Msg { return TaskCreatedMsg{Payload: payload} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
