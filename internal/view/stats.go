package view

import (
	"math"

	"taskdeck/internal/model"
)

// TaskStats summarizes a task collection. Statistics are always
// computed from the full unfiltered collection: filters affect what is
// listed, never what is summarized.
type TaskStats struct {
	Total      int
	ByStatus   map[model.TaskStatus]int
	ByPriority map[model.Priority]int

	// CompletionPercent is done/total rounded to the nearest whole
	// percent, 0 when the collection is empty.
	CompletionPercent int

	// HighPriorityOpen counts high-priority tasks not yet done.
	HighPriorityOpen int

	// Mine counts tasks assigned to the current session user.
	Mine int
}

// ComputeTaskStats aggregates the full collection. currentUserID scopes
// the Mine count to assignee identity; it may be empty.
func ComputeTaskStats(tasks []model.Task, currentUserID string) TaskStats {
	stats := TaskStats{
		Total:      len(tasks),
		ByStatus:   make(map[model.TaskStatus]int, len(model.TaskStatuses)),
		ByPriority: make(map[model.Priority]int, len(model.Priorities)),
	}
	for _, s := range model.TaskStatuses {
		stats.ByStatus[s] = 0
	}
	for _, p := range model.Priorities {
		stats.ByPriority[p] = 0
	}

	for _, t := range tasks {
		stats.ByStatus[t.Status]++
		stats.ByPriority[t.Priority]++
		if t.Priority == model.PriorityHigh && t.Status != model.StatusDone {
			stats.HighPriorityOpen++
		}
		if currentUserID != "" && t.AssignedTo != nil &&
			t.AssignedTo.ID == currentUserID {
			stats.Mine++
		}
	}

	if stats.Total > 0 {
		done := stats.ByStatus[model.StatusDone]
		stats.CompletionPercent = int(math.Round(
			float64(done) / float64(stats.Total) * 100,
		))
	}

	return stats
}

// ProjectStats summarizes a project collection.
type ProjectStats struct {
	Total  int
	Active int
}

// ComputeProjectStats aggregates the full project collection.
func ComputeProjectStats(projects []model.Project) ProjectStats {
	stats := ProjectStats{Total: len(projects)}
	for _, p := range projects {
		if p.Status == model.ProjectActive {
			stats.Active++
		}
	}
	return stats
}
