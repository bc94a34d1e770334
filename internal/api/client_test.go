package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/api"
	"taskdeck/internal/model"
	"taskdeck/tests/testutil"
)

func TestLoginReturnsTokenAndUser(t *testing.T) {
	fake, client := testutil.NewFakeAPI(t)

	fake.Handle("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds model.Credentials
		testutil.DecodeBody(t, r, &creds)
		assert.Equal(t, "ada@example.com", creds.Email)

		testutil.WriteJSON(w, http.StatusOK, model.AuthResponse{
			User:  testutil.SampleUser("u1", "Ada"),
			Token: "issued-token",
		})
	})

	resp, err := client.Login(context.Background(), model.Credentials{
		Email:    "ada@example.com",
		Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "issued-token", resp.Token)
	assert.Equal(t, "u1", resp.User.ID)
}

func TestLoginFailureMapsToAuthError(t *testing.T) {
	fake, client := testutil.NewFakeAPI(t)
	fake.Handle("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
	})

	_, err := client.Login(context.Background(), model.Credentials{})
	require.Error(t, err)
	assert.True(t, api.IsAuthError(err))
	assert.Equal(t, "Invalid credentials", api.UserMessage(err))
}

func TestCurrentUserSendsBearerToken(t *testing.T) {
	fake, client := testutil.NewFakeAPI(t)
	fake.Handle("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer stored-token" {
			testutil.WriteError(w, http.StatusUnauthorized, "missing token")
			return
		}
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		testutil.WriteJSON(w, http.StatusOK, testutil.SampleUser("u1", "Ada"))
	})

	client.SetToken("stored-token")
	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestValidationErrorSurfacesServerMessage(t *testing.T) {
	fake, client := testutil.NewFakeAPI(t)
	fake.Handle("POST /tasks", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteError(w, http.StatusBadRequest, "Please add a title")
	})

	_, err := client.CreateTask(context.Background(), model.TaskPayload{})
	require.Error(t, err)
	assert.True(t, api.IsValidationError(err))
	assert.Equal(t, "Please add a title", api.UserMessage(err))
}

func TestNotFoundMapsToNotFoundError(t *testing.T) {
	fake, client := testutil.NewFakeAPI(t)
	fake.Handle("GET /tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteError(w, http.StatusNotFound, "Task not found")
	})

	_, err := client.TaskByID(context.Background(), "stale-id")
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
}

func TestTransportFailureMapsToNetworkError(t *testing.T) {
	client := api.NewClient("http://127.0.0.1:1", 500*time.Millisecond)

	_, err := client.Projects(context.Background())
	require.Error(t, err)
	var netErr *api.NetworkError
	assert.ErrorAs(t, err, &netErr)
	assert.Contains(t, api.UserMessage(err), "try again")
}

func TestTasksSendsEqualityFilterParams(t *testing.T) {
	fake, client := testutil.NewFakeAPI(t)
	fake.Handle("GET /tasks", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "p1", q.Get("project"))
		assert.Equal(t, "done", q.Get("status"))
		assert.Equal(t, "high", q.Get("priority"))
		testutil.WriteJSON(w, http.StatusOK, []model.Task{})
	})

	_, err := client.Tasks(context.Background(), api.TaskListFilter{
		ProjectID: "p1",
		Status:    model.StatusDone,
		Priority:  model.PriorityHigh,
	})
	require.NoError(t, err)
}

func TestTasksOmitsUnsetFilterParams(t *testing.T) {
	fake, client := testutil.NewFakeAPI(t)
	fake.Handle("GET /tasks", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		testutil.WriteJSON(w, http.StatusOK, []model.Task{
			{ID: "1", Title: "only"},
		})
	})

	tasks, err := client.Tasks(context.Background(), api.TaskListFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "1", tasks[0].ID)
}

func TestDeleteTaskNoContent(t *testing.T) {
	fake, client := testutil.NewFakeAPI(t)
	fake.Handle("DELETE /tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, client.DeleteTask(context.Background(), "1"))
}
