package view

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/model"
)

func sampleTasks() []model.Task {
	return []model.Task{
		{
			ID:       "1",
			Title:    "Fix login flow",
			Status:   model.StatusTodo,
			Priority: model.PriorityHigh,
			Project:  model.ProjectRef{ID: "p1", Title: "Website"},
		},
		{
			ID:          "2",
			Title:       "Ship release",
			Description: "low effort",
			Status:      model.StatusDone,
			Priority:    model.PriorityLow,
			Project:     model.ProjectRef{ID: "p2", Title: "Backend"},
		},
		{
			ID:       "3",
			Title:    "Write docs",
			Status:   model.StatusInProgress,
			Priority: model.PriorityMedium,
			Project:  model.ProjectRef{ID: "p1", Title: "Website"},
		},
	}
}

func TestFilterTasksNoFilterReturnsAllInOrder(t *testing.T) {
	tasks := sampleTasks()
	got := FilterTasks(tasks, FilterState{})
	require.Len(t, got, 3)
	for i := range tasks {
		assert.Equal(t, tasks[i].ID, got[i].ID)
	}
}

func TestFilterTasksByStatus(t *testing.T) {
	got := FilterTasks(sampleTasks(), FilterState{Status: model.StatusDone})
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}

func TestFilterTasksStatusAndQueryCompose(t *testing.T) {
	// Equality filter and free-text search are conjunctive.
	f := FilterState{Status: model.StatusDone, Query: "low"}
	got := FilterTasks(sampleTasks(), f)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	f.Query = "login"
	assert.Empty(t, FilterTasks(sampleTasks(), f))
}

func TestFilterTasksNoMatch(t *testing.T) {
	got := FilterTasks(sampleTasks(), FilterState{Status: model.StatusReview})
	assert.Empty(t, got)
}

func TestFilterTasksQueryIsCaseInsensitiveSubstring(t *testing.T) {
	tasks := sampleTasks()
	got := FilterTasks(tasks, FilterState{Query: "WEBSITE"})
	require.Len(t, got, 2)

	// Every returned item contains the query in a searchable field.
	for _, task := range got {
		fields := []string{task.Title, task.Description, task.Project.Title}
		found := false
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field), "website") {
				found = true
			}
		}
		assert.True(t, found, "task %s matched without containing query", task.ID)
	}
}

func TestFilterTasksQueryMatchesDescription(t *testing.T) {
	got := FilterTasks(sampleTasks(), FilterState{Query: "effort"})
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}

func TestFilterTasksProjectDimension(t *testing.T) {
	got := FilterTasks(sampleTasks(), FilterState{ProjectID: "p1"})
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

func TestFilterTasksVanishedProjectMatchesNothing(t *testing.T) {
	// A filter pinned to a project no longer in the collection is not
	// an error; it just matches nothing.
	got := FilterTasks(sampleTasks(), FilterState{ProjectID: "gone"})
	assert.Empty(t, got)
}

func TestClearIsAtomicAndIdempotent(t *testing.T) {
	f := FilterState{
		ProjectID: "p1",
		Status:    model.StatusTodo,
		Priority:  model.PriorityHigh,
		Query:     "fix",
	}
	cleared := f.Clear()
	assert.Equal(t, FilterState{}, cleared)
	assert.Equal(t, cleared, cleared.Clear())
	assert.False(t, cleared.Active())
}

func TestWithStatusRejectsUnknownValues(t *testing.T) {
	f := FilterState{}

	f, err := f.WithStatus("review")
	require.NoError(t, err)
	assert.Equal(t, model.StatusReview, f.Status)

	_, err = f.WithStatus("banana")
	assert.Error(t, err)

	f, err = f.WithStatus("")
	require.NoError(t, err)
	assert.Empty(t, f.Status)
}

func TestWithPriorityRejectsUnknownValues(t *testing.T) {
	f := FilterState{}

	f, err := f.WithPriority("high")
	require.NoError(t, err)
	assert.Equal(t, model.PriorityHigh, f.Priority)

	_, err = f.WithPriority("urgent")
	assert.Error(t, err)
}

func TestFilterProjects(t *testing.T) {
	projects := []model.Project{
		{ID: "p1", Title: "Website", Description: "public site"},
		{ID: "p2", Title: "Backend", Description: "internal API"},
	}

	assert.Len(t, FilterProjects(projects, ""), 2)

	got := FilterProjects(projects, "api")
	require.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)

	assert.Empty(t, FilterProjects(projects, "mobile"))
}
