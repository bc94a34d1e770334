package view

import "taskdeck/internal/model"

// The reconciliation helpers below apply a confirmed mutation to the
// in-memory collection backing a view. They are fire-and-confirm: the
// caller invokes them only after the server acknowledged the write.
// Each returns a fresh slice so a view never observes a partially
// updated collection.

func taskID(t model.Task) string       { return t.ID }
func projectID(p model.Project) string { return p.ID }

// appendByID adds item to the end of the collection. If an entity with
// the same id is already present it is replaced in place instead, so
// the entity appears exactly once.
func appendByID[T any](items []T, item T, id func(T) string) []T {
	for i := range items {
		if id(items[i]) == id(item) {
			out := make([]T, len(items))
			copy(out, items)
			out[i] = item
			return out
		}
	}
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}

// replaceByID swaps the entity with a matching id in place, preserving
// its position. A collection without that id is returned unchanged.
func replaceByID[T any](items []T, item T, id func(T) string) []T {
	for i := range items {
		if id(items[i]) == id(item) {
			out := make([]T, len(items))
			copy(out, items)
			out[i] = item
			return out
		}
	}
	return items
}

// removeByID deletes the entity with the given id. Removing an absent
// id is a no-op, matching the server's treatment of deleting an
// already-removed item.
func removeByID[T any](items []T, target string, id func(T) string) []T {
	for i := range items {
		if id(items[i]) == target {
			out := make([]T, 0, len(items)-1)
			out = append(out, items[:i]...)
			return append(out, items[i+1:]...)
		}
	}
	return items
}

// AppendTask reconciles a confirmed create into the task collection.
func AppendTask(tasks []model.Task, t model.Task) []model.Task {
	return appendByID(tasks, t, taskID)
}

// ReplaceTask reconciles a confirmed update into the task collection.
func ReplaceTask(tasks []model.Task, t model.Task) []model.Task {
	return replaceByID(tasks, t, taskID)
}

// RemoveTask reconciles a confirmed delete into the task collection.
func RemoveTask(tasks []model.Task, id string) []model.Task {
	return removeByID(tasks, id, taskID)
}

// AppendProject reconciles a confirmed create into the project collection.
func AppendProject(projects []model.Project, p model.Project) []model.Project {
	return appendByID(projects, p, projectID)
}

// ReplaceProject reconciles a confirmed update into the project collection.
func ReplaceProject(projects []model.Project, p model.Project) []model.Project {
	return replaceByID(projects, p, projectID)
}

// RemoveProject reconciles a confirmed delete into the project collection.
func RemoveProject(projects []model.Project, id string) []model.Project {
	return removeByID(projects, id, projectID)
}
