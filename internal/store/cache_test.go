package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/model"
	"taskdeck/tests/testutil"
)

func TestReplaceAndReadProjects(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	deadline := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	in := []model.Project{
		{
			ID:     "p1",
			Title:  "Website",
			Status: model.ProjectActive,
			Owner:  model.User{ID: "u1", Name: "Ada"},
			Members: []model.User{
				{ID: "u1", Name: "Ada"},
				{ID: "u2", Name: "Grace"},
			},
			Deadline: &deadline,
		},
		{ID: "p2", Title: "Backend", Status: model.ProjectCompleted},
	}

	require.NoError(t, c.ReplaceProjects(ctx, in))

	out, err := c.Projects(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "p1", out[0].ID)
	assert.Equal(t, "p2", out[1].ID)
	assert.Len(t, out[0].Members, 2)
	require.NotNil(t, out[0].Deadline)
	assert.True(t, deadline.Equal(*out[0].Deadline))
}

func TestReplaceProjectsIsWholesale(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.ReplaceProjects(ctx, []model.Project{
		{ID: "p1"}, {ID: "p2"},
	}))
	require.NoError(t, c.ReplaceProjects(ctx, []model.Project{
		{ID: "p3"},
	}))

	out, err := c.Projects(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "p3", out[0].ID)
}

func TestReplaceAndReadTasksPreservesOrder(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	in := []model.Task{
		{ID: "3", Title: "third", Status: model.StatusTodo, Priority: model.PriorityLow},
		{ID: "1", Title: "first", Status: model.StatusDone, Priority: model.PriorityHigh,
			Project:    model.ProjectRef{ID: "p1", Title: "Website"},
			AssignedTo: &model.User{ID: "u2", Name: "Grace"}},
		{ID: "2", Title: "second", Status: model.StatusReview, Priority: model.PriorityMedium},
	}
	require.NoError(t, c.ReplaceTasks(ctx, in))

	out, err := c.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, out, 3)
	// Stored order is the server's order, not id order.
	assert.Equal(t, "3", out[0].ID)
	assert.Equal(t, "1", out[1].ID)
	assert.Equal(t, "2", out[2].ID)
	require.NotNil(t, out[1].AssignedTo)
	assert.Equal(t, "u2", out[1].AssignedTo.ID)
	assert.Equal(t, "Website", out[1].Project.Title)
}

func TestEmptyCacheReadsEmpty(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	tasks, err := c.Tasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	projects, err := c.Projects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
}
