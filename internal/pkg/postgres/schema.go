package postgres

import (
	"context"
	"fmt"

	"github.com/airenas/go-app/pkg/goapp"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		created TIMESTAMPTZ NOT NULL DEFAULT now())`,
	`CREATE TABLE IF NOT EXISTS audio (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL UNIQUE,
		duration DOUBLE PRECISION,
		status TEXT NOT NULL DEFAULT 'not_started',
		assigned_to TEXT REFERENCES users(id),
		created TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated TIMESTAMPTZ NOT NULL DEFAULT now())`,
	`CREATE TABLE IF NOT EXISTS transcriptions (
		id TEXT PRIMARY KEY,
		audio_id TEXT NOT NULL UNIQUE REFERENCES audio(id),
		existing_text TEXT NOT NULL,
		verified_by TEXT NOT NULL REFERENCES users(id),
		trans_unsuitable BOOLEAN NOT NULL,
		trans_date TIMESTAMPTZ NOT NULL,
		trans_comments TEXT,
		trans_text TEXT NOT NULL,
		controlled_by TEXT REFERENCES users(id),
		ctrl_correct BOOLEAN,
		ctrl_unsuitable BOOLEAN,
		ctrl_date TIMESTAMPTZ,
		ctrl_comments TEXT,
		ctrl_text TEXT)`,
}

// Init creates tables if missing
func (db *DB) Init(ctx context.Context) error {
	for _, s := range schema {
		if _, err := db.pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("can't init schema: %w", err)
		}
	}
	goapp.Log.Info().Msg("DB schema ready")
	return nil
}
