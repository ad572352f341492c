package store

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates the verification tables and indexes if they do not
// exist. The counselling_data and processed_files tables are owned by the
// ingestion pipeline; they are created here too so a fresh database is
// usable in development and integration tests.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS counselling_data (
			id SERIAL PRIMARY KEY,
			year INTEGER,
			round INTEGER,
			rank INTEGER,
			quota TEXT,
			state TEXT,
			college_name TEXT,
			course TEXT,
			category TEXT,
			sub_category TEXT,
			gender TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			file_id INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS processed_files (
			id SERIAL PRIMARY KEY,
			filename TEXT UNIQUE,
			file_type TEXT,
			processed_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			records_count INTEGER,
			sample_size INTEGER,
			verification_status TEXT NOT NULL DEFAULT 'pending'
				CHECK (verification_status IN ('pending', 'verified')),
			verified_by TEXT,
			verified_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS verification_records (
			id SERIAL PRIMARY KEY,
			counselling_data_id INTEGER NOT NULL REFERENCES counselling_data(id),
			processed_file_id INTEGER NOT NULL REFERENCES processed_files(id),
			page_number INTEGER NOT NULL,
			verification_status TEXT NOT NULL DEFAULT 'pending'
				CHECK (verification_status IN ('pending', 'verified', 'rejected')),
			notes TEXT,
			verified_by TEXT,
			verified_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_counselling_rank ON counselling_data(rank)`,
		`CREATE INDEX IF NOT EXISTS idx_counselling_file ON counselling_data(file_id)`,
		`CREATE INDEX IF NOT EXISTS idx_verification_file ON verification_records(processed_file_id)`,
		`CREATE INDEX IF NOT EXISTS idx_verification_status ON verification_records(verification_status)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
