package api

import (
	"context"
	"fmt"
	"net/url"

	"taskdeck/internal/model"
)

// TaskListFilter carries the optional equality filters the list endpoint
// accepts. Each dimension is either empty (matches everything) or pinned
// to exactly one value; active dimensions compose conjunctively.
type TaskListFilter struct {
	ProjectID string
	Status    model.TaskStatus
	Priority  model.Priority
}

// query renders the filter as URL query parameters.
func (f TaskListFilter) query() string {
	params := url.Values{}
	if f.ProjectID != "" {
		params.Set("project", f.ProjectID)
	}
	if f.Status != "" {
		params.Set("status", string(f.Status))
	}
	if f.Priority != "" {
		params.Set("priority", string(f.Priority))
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

// Tasks lists tasks matching the given equality filters.
func (c *Client) Tasks(
	ctx context.Context,
	filter TaskListFilter,
) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.Get(ctx, "/tasks"+filter.query(), &tasks); err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// ProjectTasks lists the tasks belonging to one project.
func (c *Client) ProjectTasks(
	ctx context.Context,
	projectID string,
) ([]model.Task, error) {
	var tasks []model.Task
	path := "/projects/" + url.PathEscape(projectID) + "/tasks"
	if err := c.Get(ctx, path, &tasks); err != nil {
		return nil, fmt.Errorf("listing tasks for project %s: %w", projectID, err)
	}
	return tasks, nil
}

// TaskByID fetches a single task.
func (c *Client) TaskByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := c.Get(ctx, "/tasks/"+url.PathEscape(id), &task); err != nil {
		return nil, fmt.Errorf("fetching task %s: %w", id, err)
	}
	return &task, nil
}

// CreateTask submits a new task and returns the server's canonical entity.
func (c *Client) CreateTask(
	ctx context.Context,
	payload model.TaskPayload,
) (*model.Task, error) {
	var task model.Task
	if err := c.Post(ctx, "/tasks", payload, &task); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	return &task, nil
}

// UpdateTask submits an update keyed by id and returns the canonical
// updated entity.
func (c *Client) UpdateTask(
	ctx context.Context,
	id string,
	payload model.TaskPayload,
) (*model.Task, error) {
	var task model.Task
	if err := c.Put(ctx, "/tasks/"+url.PathEscape(id), payload, &task); err != nil {
		return nil, fmt.Errorf("updating task %s: %w", id, err)
	}
	return &task, nil
}

// DeleteTask deletes a task by id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if err := c.Delete(ctx, "/tasks/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	return nil
}
