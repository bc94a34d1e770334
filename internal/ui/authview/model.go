package authview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/model"
	"taskdeck/internal/theme"
)

// SubmitLoginMsg is dispatched when the user submits the login form.
type SubmitLoginMsg struct {
	Credentials model.Credentials
}

// SubmitRegisterMsg is dispatched when the user submits the registration form.
type SubmitRegisterMsg struct {
	Profile model.Profile
}

type formKind int

const (
	formLogin formKind = iota
	formRegister
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name     string
	email    string
	password string
}

// Model is the Bubble Tea model for the login/register screen.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	kind     formKind
	errMsg   string
	busy     bool
	width    int
	height   int
}

// New creates the auth screen showing the login form.
func New(width, height int) Model {
	m := Model{
		fb:     &formBindings{},
		kind:   formLogin,
		width:  width,
		height: height,
	}
	m.form = m.buildForm()
	return m
}

// Init starts the active form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// SetError shows a failure message under the form and re-enables input.
func (m *Model) SetError(msg string) {
	m.errMsg = msg
	m.busy = false
	m.fb.password = ""
	m.form = m.buildForm()
}

// Update handles messages for the auth screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "tab" && !m.busy {
		return m.toggleKind()
	}
	if m.form == nil || m.busy {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	return m, cmd
}

func (m Model) toggleKind() (Model, tea.Cmd) {
	if m.kind == formLogin {
		m.kind = formRegister
	} else {
		m.kind = formLogin
	}
	m.errMsg = ""
	m.fb.password = ""
	m.form = m.buildForm()
	return m, m.form.Init()
}

func (m Model) handleSubmit() (Model, tea.Cmd) {
	m.busy = true
	m.errMsg = ""
	fb := *m.fb
	if m.kind == formRegister {
		return m, func() tea.Msg {
			return SubmitRegisterMsg{Profile: model.Profile{
				Name:     strings.TrimSpace(fb.name),
				Email:    strings.TrimSpace(fb.email),
				Password: fb.password,
			}}
		}
	}
	return m, func() tea.Msg {
		return SubmitLoginMsg{Credentials: model.Credentials{
			Email:    strings.TrimSpace(fb.email),
			Password: fb.password,
		}}
	}
}

// View renders the auth screen.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "Sign In"
	hint := "tab: create an account"
	if m.kind == formRegister {
		titleText = "Create Account"
		hint = "tab: back to sign in"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render(titleText))
	b.WriteString("\n")
	b.WriteString(m.form.View())
	if m.busy {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render("Signing in..."))
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorRed).Render(m.errMsg))
	}
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(hint))

	content := lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	var fields []huh.Field
	if m.kind == formRegister {
		fields = append(fields,
			huh.NewInput().
				Title("Name").
				Placeholder("Your full name").
				Value(&m.fb.name).
				Validate(validateRequired("Name")),
		)
	}
	fields = append(fields,
		huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&m.fb.email).
			Validate(validateEmail),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.password).
			Validate(validatePassword),
	)

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 60 {
		w = 60
	}
	return w
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("Email is required")
	}
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	return nil
}
