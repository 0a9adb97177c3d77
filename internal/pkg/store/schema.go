package store

import (
	"context"
	"fmt"
)

var schema = []string{
	`create table if not exists report_runs (
	id            uuid primary key,
	kind          text        not null,
	num_languages integer     not null,
	row_count     integer     not null,
	created_at    timestamptz not null default now()
)`,
	`create index if not exists report_runs_kind_created_at_idx on report_runs (kind, created_at desc)`,
	`create table if not exists report_rows (
	run_id   uuid    not null references report_runs (id) on delete cascade,
	position integer not null,
	payload  jsonb   not null,
	primary key (run_id, position)
)`,
}

// Migrate creates the archive tables when they are missing.
func (s *store) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
