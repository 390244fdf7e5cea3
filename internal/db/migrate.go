package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Timestamps are TIMESTAMP (no zone): instants are normalized to UTC
// before they reach the store and the offset is never persisted.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id           BIGSERIAL PRIMARY KEY,
		name         TEXT NOT NULL,
		location     TEXT NOT NULL,
		start_time   TIMESTAMP NOT NULL,
		end_time     TIMESTAMP NOT NULL,
		max_capacity INT NOT NULL CHECK (max_capacity >= 1),
		CONSTRAINT events_name_uniq UNIQUE (name)
	)`,
	`CREATE TABLE IF NOT EXISTS attendees (
		id       BIGSERIAL PRIMARY KEY,
		name     TEXT NOT NULL,
		email    TEXT NOT NULL,
		event_id BIGINT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		CONSTRAINT attendees_event_email_uniq UNIQUE (event_id, email)
	)`,
	`CREATE INDEX IF NOT EXISTS events_end_time_idx ON events (end_time)`,
	`CREATE INDEX IF NOT EXISTS attendees_event_id_idx ON attendees (event_id)`,
}

const migrateLockID int64 = 430981217

// Migrate applies the schema idempotently. The advisory lock keeps
// concurrently starting replicas from racing the DDL.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	conn, err := pool.Acquire(ctx)

	if err != nil {
		return fmt.Errorf("acquire conn: %w", err)
	}

	defer conn.Release()

	_, err = conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, migrateLockID)

	if err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}

	defer func() {
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, migrateLockID)
	}()

	for _, stmt := range schemaStatements {
		_, err = conn.Exec(ctx, stmt)

		if err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	return nil
}
