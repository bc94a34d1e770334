package sync_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/model"
	appsync "taskdeck/internal/sync"
	"taskdeck/tests/testutil"
)

func TestPollerDeliversRefreshResults(t *testing.T) {
	fake, client := testutil.NewFakeAPI(t)
	fake.HandleJSON("GET /projects", http.StatusOK, []model.Project{
		{ID: "p1", Title: "Apollo", Status: model.ProjectActive},
	})
	fake.HandleJSON("GET /tasks", http.StatusOK, []model.Task{
		{ID: "t1", Title: "Design review", Status: model.StatusTodo},
	})

	p := appsync.New(client, nil, time.Hour)
	wait := p.Start()
	defer p.Stop()

	p.RefreshNow()

	msg, ok := wait().(appsync.RefreshedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	require.Len(t, msg.Projects, 1)
	require.Len(t, msg.Tasks, 1)
	assert.Equal(t, "Apollo", msg.Projects[0].Title)
	assert.Equal(t, "t1", msg.Tasks[0].ID)
}

func TestPollerReportsFetchFailure(t *testing.T) {
	fake, client := testutil.NewFakeAPI(t)
	fake.HandleJSON("GET /projects", http.StatusInternalServerError, map[string]string{
		"message": "boom",
	})

	p := appsync.New(client, nil, time.Hour)
	wait := p.Start()
	defer p.Stop()

	p.RefreshNow()

	msg, ok := wait().(appsync.RefreshedMsg)
	require.True(t, ok)
	assert.Error(t, msg.Err)
}

func TestPollerWritesThroughToCache(t *testing.T) {
	fake, client := testutil.NewFakeAPI(t)
	fake.HandleJSON("GET /projects", http.StatusOK, []model.Project{
		{ID: "p1", Title: "Apollo", Status: model.ProjectActive},
	})
	fake.HandleJSON("GET /tasks", http.StatusOK, []model.Task{
		{ID: "t1", Title: "Design review", Status: model.StatusTodo},
	})

	cache := testutil.NewTestCache(t)

	p := appsync.New(client, cache, time.Hour)
	wait := p.Start()
	defer p.Stop()

	p.RefreshNow()
	msg, ok := wait().(appsync.RefreshedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)

	ctx := context.Background()
	cachedProjects, err := cache.Projects(ctx)
	require.NoError(t, err)
	cachedTasks, err := cache.Tasks(ctx)
	require.NoError(t, err)
	assert.Len(t, cachedProjects, 1)
	assert.Len(t, cachedTasks, 1)
}
