package tasklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/keys"
	"taskdeck/internal/model"
)

func newTestModel() Model {
	return New(nil, nil, keys.DefaultKeyMap(), 80, 24)
}

func task(id, title string, status model.TaskStatus) model.Task {
	return model.Task{ID: id, Title: title, Status: status, Priority: model.PriorityMedium}
}

func TestLoadResultApplied(t *testing.T) {
	m := newTestModel()

	m, _ = m.Update(tasksLoadedMsg{seq: 1, tasks: []model.Task{
		task("t1", "first", model.StatusTodo),
		task("t2", "second", model.StatusDone),
	}})

	require.Len(t, m.Tasks(), 2)
	assert.Len(t, m.list.Items(), 2)
}

func TestStaleLoadResultDiscarded(t *testing.T) {
	m := newTestModel()

	m, _ = m.Update(tasksLoadedMsg{seq: 1, tasks: []model.Task{
		task("t1", "first", model.StatusTodo),
	}})
	require.Len(t, m.Tasks(), 1)

	// A new fetch supersedes the one in flight.
	_ = m.Refresh()
	require.Equal(t, 2, m.fetchSeq)

	// The superseded request settles late; its result must not land.
	m, _ = m.Update(tasksLoadedMsg{seq: 1, tasks: []model.Task{
		task("old", "stale result", model.StatusTodo),
	}})
	require.Len(t, m.Tasks(), 1)
	assert.Equal(t, "t1", m.Tasks()[0].ID)

	// The current request's result lands normally.
	m, _ = m.Update(tasksLoadedMsg{seq: 2, tasks: []model.Task{
		task("t2", "fresh", model.StatusTodo),
	}})
	require.Len(t, m.Tasks(), 1)
	assert.Equal(t, "t2", m.Tasks()[0].ID)
}

func TestReconcileKeepsFilterApplied(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(tasksLoadedMsg{seq: 1, tasks: []model.Task{
		task("t1", "open item", model.StatusTodo),
		task("t2", "finished item", model.StatusDone),
	}})

	var err error
	m.filter, err = m.filter.WithStatus("todo")
	require.NoError(t, err)
	_ = m.syncList()
	require.Len(t, m.list.Items(), 1)

	// A confirmed create lands in the collection; the visible list only
	// grows when the new task matches the active filter.
	_ = m.ApplyCreated(task("t3", "another done", model.StatusDone))
	assert.Len(t, m.Tasks(), 3)
	assert.Len(t, m.list.Items(), 1)

	_ = m.ApplyCreated(task("t4", "another open", model.StatusTodo))
	assert.Len(t, m.Tasks(), 4)
	assert.Len(t, m.list.Items(), 2)
}

func TestApplyRemovedAbsentIDIsNoOp(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(tasksLoadedMsg{seq: 1, tasks: []model.Task{
		task("t1", "only", model.StatusTodo),
	}})

	_ = m.ApplyRemoved("missing")
	assert.Len(t, m.Tasks(), 1)
}

func TestSetCollectionReplacesWholesale(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(tasksLoadedMsg{seq: 1, tasks: []model.Task{
		task("t1", "first", model.StatusTodo),
		task("t2", "second", model.StatusTodo),
	}})

	_ = m.SetCollection([]model.Task{task("t9", "refreshed", model.StatusReview)})

	require.Len(t, m.Tasks(), 1)
	assert.Equal(t, "t9", m.Tasks()[0].ID)
}

func TestOfflineResultMarksModel(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(tasksLoadedMsg{seq: 1, fromCache: true, tasks: []model.Task{
		task("t1", "cached", model.StatusTodo),
	}})

	assert.True(t, m.Offline())

	_ = m.SetCollection([]model.Task{task("t1", "fresh", model.StatusTodo)})
	assert.False(t, m.Offline())
}
