package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taskdeck/internal/model"
)

// ReplaceTasks swaps the cached task collection wholesale inside a
// transaction, preserving the server's ordering.
func (c *SQLiteCache) ReplaceTasks(
	ctx context.Context,
	tasks []model.Task,
) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM cached_tasks"); err != nil {
		return fmt.Errorf("clearing cached tasks: %w", err)
	}

	now := time.Now().UTC()
	for i, t := range tasks {
		payload, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("marshaling task %s: %w", t.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO cached_tasks (id, position, payload, fetched_at)
			VALUES (?, ?, ?, ?)`,
			t.ID, i, string(payload), now,
		)
		if err != nil {
			return fmt.Errorf("caching task %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing task cache: %w", err)
	}
	return nil
}

// Tasks returns the cached task collection in stored order.
func (c *SQLiteCache) Tasks(ctx context.Context) ([]model.Task, error) {
	var payloads []string
	err := c.db.SelectContext(ctx, &payloads,
		"SELECT payload FROM cached_tasks ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("reading cached tasks: %w", err)
	}

	tasks := make([]model.Task, 0, len(payloads))
	for _, raw := range payloads {
		var t model.Task
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return nil, fmt.Errorf("unmarshaling cached task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
