package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taskdeck/internal/model"
)

// ReplaceProjects swaps the cached project collection wholesale inside
// a transaction, preserving the server's ordering.
func (c *SQLiteCache) ReplaceProjects(
	ctx context.Context,
	projects []model.Project,
) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM cached_projects"); err != nil {
		return fmt.Errorf("clearing cached projects: %w", err)
	}

	now := time.Now().UTC()
	for i, p := range projects {
		payload, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshaling project %s: %w", p.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO cached_projects (id, position, payload, fetched_at)
			VALUES (?, ?, ?, ?)`,
			p.ID, i, string(payload), now,
		)
		if err != nil {
			return fmt.Errorf("caching project %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing project cache: %w", err)
	}
	return nil
}

// Projects returns the cached project collection in stored order.
func (c *SQLiteCache) Projects(ctx context.Context) ([]model.Project, error) {
	var payloads []string
	err := c.db.SelectContext(ctx, &payloads,
		"SELECT payload FROM cached_projects ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("reading cached projects: %w", err)
	}

	projects := make([]model.Project, 0, len(payloads))
	for _, raw := range payloads {
		var p model.Project
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("unmarshaling cached project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, nil
}
