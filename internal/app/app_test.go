package app_test

import (
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/app"
	"taskdeck/internal/model"
	"taskdeck/internal/session"
	appsync "taskdeck/internal/sync"
	"taskdeck/internal/ui/projectlist"
	"taskdeck/internal/ui/tasklist"
	"taskdeck/tests/testutil"
)

type memTokens struct {
	token string
}

func (m *memTokens) Token() (string, error) { return m.token, nil }
func (m *memTokens) Save(token string) error {
	m.token = token
	return nil
}
func (m *memTokens) Clear() error {
	m.token = ""
	return nil
}

func TestGateShowsLoadingWhileInitializing(t *testing.T) {
	_, client := testutil.NewFakeAPI(t)
	sess := session.New(client, &memTokens{})
	m := app.New(sess, client, nil, nil)

	mdl, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = mdl.(app.Model)

	assert.Contains(t, m.View(), "Loading...")
}

func TestGateRoutesToAuthWhenNoCredential(t *testing.T) {
	_, client := testutil.NewFakeAPI(t)
	sess := session.New(client, &memTokens{})
	m := app.New(sess, client, nil, nil)

	mdl, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = mdl.(app.Model)

	initCmd := m.Init()
	require.NotNil(t, initCmd)
	mdl, _ = m.Update(initCmd())
	m = mdl.(app.Model)

	require.Equal(t, session.Unauthenticated, sess.State())
	assert.Contains(t, m.View(), "Sign In")
}

func TestGateRoutesToProtectedWhenCredentialValid(t *testing.T) {
	fake, client := testutil.NewFakeAPI(t)
	fake.HandleJSON("GET /auth/me", http.StatusOK, testutil.SampleUser("u1", "Alice"))

	sess := session.New(client, &memTokens{token: "token-1"})
	m := app.New(sess, client, nil, nil)

	mdl, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = mdl.(app.Model)

	mdl, cmd := m.Update(m.Init()())
	m = mdl.(app.Model)

	require.Equal(t, session.Authenticated, sess.State())
	require.NotNil(t, cmd, "entering the protected area starts the initial loads")

	out := m.View()
	assert.Contains(t, out, "taskdeck")
	assert.Contains(t, out, "Alice")
	assert.NotContains(t, out, "Sign In")
}

func TestLoginFailureStaysOnAuthView(t *testing.T) {
	fake, client := testutil.NewFakeAPI(t)
	fake.HandleJSON("POST /auth/login", http.StatusUnauthorized, map[string]string{
		"message": "Invalid credentials",
	})

	tokens := &memTokens{}
	sess := session.New(client, tokens)
	m := app.New(sess, client, nil, nil)

	mdl, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = mdl.(app.Model)
	mdl, _ = m.Update(m.Init()())
	m = mdl.(app.Model)

	loginCmd := sess.Login(model.Credentials{Email: "a@example.com", Password: "wrong"})
	mdl, _ = m.Update(loginCmd())
	m = mdl.(app.Model)

	require.Equal(t, session.Unauthenticated, sess.State())
	assert.Empty(t, tokens.token)
	assert.Contains(t, m.View(), "Invalid credentials")
}

// signIn drives the model through a valid credential check and returns
// it in the authenticated state.
func signIn(t *testing.T, fake *testutil.FakeAPI, m app.Model) app.Model {
	t.Helper()
	fake.HandleJSON("GET /auth/me", http.StatusOK, testutil.SampleUser("u1", "Alice"))

	mdl, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = mdl.(app.Model)
	mdl, _ = m.Update(m.Init()())
	return mdl.(app.Model)
}

func TestQuitKeyFromTopLevelView(t *testing.T) {
	fake, client := testutil.NewFakeAPI(t)
	sess := session.New(client, &memTokens{token: "token-1"})
	m := signIn(t, fake, app.New(sess, client, nil, nil))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	_, quits := cmd().(tea.QuitMsg)
	assert.True(t, quits)
}

func TestDeleteOfMissingTaskConvergesToRemoval(t *testing.T) {
	fake, client := testutil.NewFakeAPI(t)
	fake.Handle("DELETE /tasks/t1", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteError(w, http.StatusNotFound, "Task not found")
	})

	sess := session.New(client, &memTokens{token: "token-1"})
	m := signIn(t, fake, app.New(sess, client, nil, nil))

	task := model.Task{ID: "t1", Title: "Design review", Status: model.StatusTodo}
	mdl, _ := m.Update(appsync.RefreshedMsg{Tasks: []model.Task{task}})
	m = mdl.(app.Model)
	mdl, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'T'}})
	m = mdl.(app.Model)
	require.Contains(t, m.View(), "Design review")

	mdl, cmd := m.Update(tasklist.DeleteTaskMsg{Task: task})
	m = mdl.(app.Model)
	require.NotNil(t, cmd)
	mdl, _ = m.Update(cmd())
	m = mdl.(app.Model)

	out := m.View()
	assert.NotContains(t, out, "Design review", "another client already deleted it; the entry is dropped")
	assert.NotContains(t, out, "Task not found")
}

func TestDeleteOfMissingProjectConvergesToRemoval(t *testing.T) {
	fake, client := testutil.NewFakeAPI(t)
	fake.Handle("DELETE /projects/p1", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteError(w, http.StatusNotFound, "Project not found")
	})

	sess := session.New(client, &memTokens{token: "token-1"})
	m := signIn(t, fake, app.New(sess, client, nil, nil))

	project := model.Project{ID: "p1", Title: "Apollo", Status: model.ProjectActive}
	mdl, _ := m.Update(appsync.RefreshedMsg{Projects: []model.Project{project}})
	m = mdl.(app.Model)
	mdl, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'P'}})
	m = mdl.(app.Model)
	require.Contains(t, m.View(), "Apollo")

	mdl, cmd := m.Update(projectlist.DeleteProjectMsg{Project: project})
	m = mdl.(app.Model)
	require.NotNil(t, cmd)
	mdl, _ = m.Update(cmd())
	m = mdl.(app.Model)

	out := m.View()
	assert.NotContains(t, out, "Apollo")
	assert.NotContains(t, out, "Project not found")
}

func TestDeleteFailureKeepsEntryAndReportsMessage(t *testing.T) {
	fake, client := testutil.NewFakeAPI(t)
	fake.Handle("DELETE /tasks/t1", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteError(w, http.StatusInternalServerError, "storage unavailable")
	})

	sess := session.New(client, &memTokens{token: "token-1"})
	m := signIn(t, fake, app.New(sess, client, nil, nil))

	task := model.Task{ID: "t1", Title: "Design review", Status: model.StatusTodo}
	mdl, _ := m.Update(appsync.RefreshedMsg{Tasks: []model.Task{task}})
	m = mdl.(app.Model)
	mdl, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'T'}})
	m = mdl.(app.Model)

	mdl, cmd := m.Update(tasklist.DeleteTaskMsg{Task: task})
	m = mdl.(app.Model)
	require.NotNil(t, cmd)
	mdl, _ = m.Update(cmd())
	m = mdl.(app.Model)

	out := m.View()
	assert.Contains(t, out, "Design review")
	assert.Contains(t, out, "storage unavailable")
}
