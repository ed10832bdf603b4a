package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Timestamps are stored as Unix milliseconds.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS assessments (
		id TEXT PRIMARY KEY,
		seq INTEGER NOT NULL UNIQUE,
		email TEXT NOT NULL DEFAULT '',
		user_name TEXT NOT NULL DEFAULT '',
		language TEXT NOT NULL DEFAULT '',
		custom_language TEXT NOT NULL DEFAULT '',
		profile_id TEXT NOT NULL DEFAULT '',
		intensity INTEGER NOT NULL DEFAULT 0,
		time_commitment INTEGER NOT NULL DEFAULT 0,
		completion_ms INTEGER NOT NULL DEFAULT 0,
		responses TEXT NOT NULL,
		result TEXT NOT NULL,
		rules_version TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS assessments_email ON assessments (email)`,
	`CREATE INDEX IF NOT EXISTS assessments_profile_id ON assessments (profile_id)`,
	`CREATE INDEX IF NOT EXISTS assessments_language ON assessments (language)`,
	`CREATE TABLE IF NOT EXISTS deliveries (
		id TEXT PRIMARY KEY,
		assessment_id TEXT NOT NULL REFERENCES assessments (id) ON DELETE CASCADE,
		email TEXT NOT NULL,
		status TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		subscriber_id TEXT NOT NULL DEFAULT '',
		last_error TEXT NOT NULL DEFAULT '',
		next_attempt_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS deliveries_due ON deliveries (status, next_attempt_at)`,
	`CREATE TABLE IF NOT EXISTS llm_requests (
		seq INTEGER PRIMARY KEY,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		cost_usd REAL NOT NULL DEFAULT 0,
		success INTEGER NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
}

// migrate creates missing tables and indexes. Every statement is
// idempotent, so it runs on every Open.
func migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range migrations {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return tx.Commit()
}
