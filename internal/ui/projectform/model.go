package projectform

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

// ProjectCreatedMsg is dispatched when a new project is submitted via the form.
type ProjectCreatedMsg struct {
	Payload model.ProjectPayload
}

// ProjectUpdatedMsg is dispatched when an existing project is submitted via the form.
type ProjectUpdatedMsg struct {
	ID      string
	Payload model.ProjectPayload
}

// ProjectFormCancelMsg is dispatched when the user cancels the form.
type ProjectFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	status      string
	memberIDs   []string
	deadline    string
}

// Model is the Bubble Tea model for the project create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	users    []model.User
	width    int
	height   int
}

// New creates a new project form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{status: string(model.ProjectActive)},
		width:  width,
		height: height,
	}
}

// SetUsers sets the users available for the member selector.
func (m *Model) SetUsers(users []model.User) {
	m.users = users
}

// StartCreate initializes the form for creating a new project.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = ""
	m.fb.title = ""
	m.fb.description = ""
	m.fb.status = string(model.ProjectActive)
	m.fb.memberIDs = nil
	m.fb.deadline = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing project.
func (m *Model) StartEdit(project model.Project) tea.Cmd {
	m.editMode = true
	m.editID = project.ID
	m.fb.title = project.Title
	m.fb.description = project.Description
	m.fb.status = string(project.Status)
	m.fb.memberIDs = nil
	for _, u := range project.Members {
		m.fb.memberIDs = append(m.fb.memberIDs, u.ID)
	}
	if project.Deadline != nil {
		m.fb.deadline = project.Deadline.Format("2006-01-02")
	} else {
		m.fb.deadline = ""
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the project form.
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
		return m, func() tea.Msg { return ProjectFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the project form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Project"
	if m.editMode {
		titleText = "Edit Project"
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
			Placeholder("Project name").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		huh.NewSelect[string]().
			Title("Status").
			Options(
				huh.NewOption("Active", string(model.ProjectActive)),
				huh.NewOption("Completed", string(model.ProjectCompleted)),
				huh.NewOption("Archived", string(model.ProjectArchived)),
			).
			Value(&m.fb.status),
		huh.NewInput().
			Title("Deadline").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.deadline).
			Validate(validateOptionalDate),
	}
	if memberField := m.memberField(); memberField != nil {
		fields = append(fields, memberField)
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) memberField() huh.Field {
	if len(m.users) == 0 {
		return nil
	}
	opts := make([]huh.Option[string], len(m.users))
	for i, u := range m.users {
		opts[i] = huh.NewOption(fmt.Sprintf("%s <%s>", u.Name, u.Email), u.ID)
	}
	return huh.NewMultiSelect[string]().
		Title("Members").
		Options(opts...).
		Value(&m.fb.memberIDs)
}

func (m Model) handleSubmit() tea.Cmd {
	payload := model.ProjectPayload{
		Title:       strings.TrimSpace(m.fb.title),
		Description: m.fb.description,
		Status:      model.ProjectStatus(m.fb.status),
		Members:     m.fb.memberIDs,
	}

	if m.fb.deadline != "" {
		t, err := time.Parse("2006-01-02", m.fb.deadline)
		if err == nil {
			payload.Deadline = &t
		}
	}

	if m.editMode {
		id := m.editID
		return func() tea.Msg { return ProjectUpdatedMsg{ID: id, Payload: payload} }
	}
	return func() tea.Msg { return ProjectCreatedMsg{Payload: payload} }
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
