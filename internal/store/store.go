// Package store is the local read cache. The API remains the source of
// truth: the cache only holds the last successfully fetched collections
// so a restart can render immediately while fresh data loads.
package store

import (
	"context"

	"taskdeck/internal/model"
)

// Cache persists the last-known snapshot of each collection.
type Cache interface {
	// ReplaceProjects swaps the cached project collection wholesale.
	ReplaceProjects(ctx context.Context, projects []model.Project) error

	// Projects returns the cached project collection in stored order.
	Projects(ctx context.Context) ([]model.Project, error)

	// ReplaceTasks swaps the cached task collection wholesale.
	ReplaceTasks(ctx context.Context, tasks []model.Task) error

	// Tasks returns the cached task collection in stored order.
	Tasks(ctx context.Context) ([]model.Task, error)

	Close() error
}
