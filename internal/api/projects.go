package api

import (
	"context"
	"fmt"
	"net/url"

	"taskdeck/internal/model"
)

// Projects lists all projects visible to the current user.
func (c *Client) Projects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := c.Get(ctx, "/projects", &projects); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// ProjectByID fetches a single project with its populated member list.
func (c *Client) ProjectByID(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	path := "/projects/" + url.PathEscape(id)
	if err := c.Get(ctx, path, &project); err != nil {
		return nil, fmt.Errorf("fetching project %s: %w", id, err)
	}
	return &project, nil
}

// CreateProject submits a new project and returns the server's canonical
// entity with its assigned identifier and timestamps.
func (c *Client) CreateProject(
	ctx context.Context,
	payload model.ProjectPayload,
) (*model.Project, error) {
	var project model.Project
	if err := c.Post(ctx, "/projects", payload, &project); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	return &project, nil
}

// UpdateProject submits an update keyed by id and returns the canonical
// updated entity.
func (c *Client) UpdateProject(
	ctx context.Context,
	id string,
	payload model.ProjectPayload,
) (*model.Project, error) {
	var project model.Project
	path := "/projects/" + url.PathEscape(id)
	if err := c.Put(ctx, path, payload, &project); err != nil {
		return nil, fmt.Errorf("updating project %s: %w", id, err)
	}
	return &project, nil
}

// DeleteProject deletes a project. The server cascades the delete to the
// project's tasks.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	if err := c.Delete(ctx, "/projects/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}
	return nil
}
