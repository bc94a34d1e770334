// Package view computes the derived state a list view renders: the
// filtered and searched subset of a raw collection, aggregate
// statistics over the full collection, and the reconciliation of local
// collections after confirmed mutations.
package view

import (
	"strings"

	"taskdeck/internal/model"
)

// FilterState holds the active equality filters and free-text query for
// a task list. Each dimension is either unset (zero value, matches
// everything) or pinned to exactly one value. It lives only in view
// memory and is discarded on navigation.
type FilterState struct {
	ProjectID string
	Status    model.TaskStatus
	Priority  model.Priority
	Query     string
}

// Clear returns the empty filter state: every dimension unset and the
// query empty. Swapping the whole struct keeps the reset atomic, with
// no intermediate state where some dimensions are cleared and others not.
func (f FilterState) Clear() FilterState {
	return FilterState{}
}

// Active reports whether any equality dimension or the query is set.
func (f FilterState) Active() bool {
	return f != FilterState{}
}

// WithStatus pins the status dimension, rejecting values outside the
// closed enum. An empty value unsets the dimension.
func (f FilterState) WithStatus(raw string) (FilterState, error) {
	if raw == "" {
		f.Status = ""
		return f, nil
	}
	status, err := model.ParseTaskStatus(raw)
	if err != nil {
		return f, err
	}
	f.Status = status
	return f, nil
}

// WithPriority pins the priority dimension, rejecting values outside
// the closed enum. An empty value unsets the dimension.
func (f FilterState) WithPriority(raw string) (FilterState, error) {
	if raw == "" {
		f.Priority = ""
		return f, nil
	}
	priority, err := model.ParsePriority(raw)
	if err != nil {
		return f, err
	}
	f.Priority = priority
	return f, nil
}

// MatchesTask reports whether a task satisfies every active equality
// filter and, when a query is set, contains it case-insensitively in at
// least one searchable field (title, description, parent project title).
// A dimension pinned to a value no longer present in the collection
// simply matches nothing.
func (f FilterState) MatchesTask(t model.Task) bool {
	if f.ProjectID != "" && t.Project.ID != f.ProjectID {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Query == "" {
		return true
	}
	return containsFold(t.Title, f.Query) ||
		containsFold(t.Description, f.Query) ||
		containsFold(t.Project.Title, f.Query)
}

// FilterTasks returns the visible subset of tasks in original order.
func FilterTasks(tasks []model.Task, f FilterState) []model.Task {
	if !f.Active() {
		return tasks
	}
	visible := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.MatchesTask(t) {
			visible = append(visible, t)
		}
	}
	return visible
}

// FilterProjects returns the projects whose title or description
// contains the query case-insensitively, in original order. An empty
// query returns the input unchanged.
func FilterProjects(projects []model.Project, query string) []model.Project {
	if query == "" {
		return projects
	}
	visible := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if containsFold(p.Title, query) || containsFold(p.Description, query) {
			visible = append(visible, p)
		}
	}
	return visible
}

// containsFold reports whether s contains substr case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
