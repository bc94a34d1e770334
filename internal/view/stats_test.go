package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskdeck/internal/model"
)

func TestComputeTaskStatsEmptyCollection(t *testing.T) {
	stats := ComputeTaskStats(nil, "u1")

	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.CompletionPercent)
	assert.Zero(t, stats.Mine)
	for _, s := range model.TaskStatuses {
		assert.Zero(t, stats.ByStatus[s])
	}
}

func TestComputeTaskStatsCountsSumToTotal(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Status: model.StatusTodo, Priority: model.PriorityHigh},
		{ID: "2", Status: model.StatusDone, Priority: model.PriorityLow},
		{ID: "3", Status: model.StatusDone, Priority: model.PriorityMedium},
		{ID: "4", Status: model.StatusInProgress, Priority: model.PriorityHigh},
	}
	stats := ComputeTaskStats(tasks, "")

	sum := 0
	for _, count := range stats.ByStatus {
		sum += count
	}
	assert.Equal(t, stats.Total, sum)

	sum = 0
	for _, count := range stats.ByPriority {
		sum += count
	}
	assert.Equal(t, stats.Total, sum)
}

func TestComputeTaskStatsCompletionPercentRounds(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Status: model.StatusDone, Priority: model.PriorityLow},
		{ID: "2", Status: model.StatusTodo, Priority: model.PriorityLow},
		{ID: "3", Status: model.StatusTodo, Priority: model.PriorityLow},
	}
	// 1/3 = 33.33 -> 33
	stats := ComputeTaskStats(tasks, "")
	assert.Equal(t, 33, stats.CompletionPercent)

	// 2/3 = 66.67 -> 67
	tasks[1].Status = model.StatusDone
	stats = ComputeTaskStats(tasks, "")
	assert.Equal(t, 67, stats.CompletionPercent)
}

func TestComputeTaskStatsHighPriorityOpenExcludesDone(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Status: model.StatusTodo, Priority: model.PriorityHigh},
		{ID: "2", Status: model.StatusDone, Priority: model.PriorityHigh},
		{ID: "3", Status: model.StatusReview, Priority: model.PriorityLow},
	}
	stats := ComputeTaskStats(tasks, "")
	assert.Equal(t, 1, stats.HighPriorityOpen)
}

func TestComputeTaskStatsMineScopesToAssignee(t *testing.T) {
	me := &model.User{ID: "u1"}
	other := &model.User{ID: "u2"}
	tasks := []model.Task{
		// Created by me but assigned elsewhere: not mine.
		{ID: "1", Status: model.StatusTodo, Priority: model.PriorityLow,
			CreatedBy: *me, AssignedTo: other},
		{ID: "2", Status: model.StatusTodo, Priority: model.PriorityLow,
			AssignedTo: me},
		{ID: "3", Status: model.StatusTodo, Priority: model.PriorityLow},
	}
	stats := ComputeTaskStats(tasks, "u1")
	assert.Equal(t, 1, stats.Mine)
}

func TestComputeProjectStats(t *testing.T) {
	projects := []model.Project{
		{ID: "p1", Status: model.ProjectActive},
		{ID: "p2", Status: model.ProjectCompleted},
		{ID: "p3", Status: model.ProjectActive},
		{ID: "p4", Status: model.ProjectArchived},
	}
	stats := ComputeProjectStats(projects)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Active)
}
