package db

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS parts (
		id          BIGSERIAL PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		is_demo     BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	// Demo and user parts live side by side; each set is unique by name.
	`CREATE UNIQUE INDEX IF NOT EXISTS parts_demo_name_key ON parts (name) WHERE is_demo`,
	`CREATE UNIQUE INDEX IF NOT EXISTS parts_name_key ON parts (name) WHERE NOT is_demo`,
}

// EnsureSchema creates the tables and indexes the service needs. Safe to run on every start.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := p.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
