// Package store provides persistence for verification records and the
// processed-file ledger. Stores are pure I/O; sampling math, transition
// rules, and rollups belong to the service layer.
package store

import (
	"context"
	"time"

	"seatcheck/internal/verification/models"
)

// RecordUpdate is the overwrite set applied by a verdict. All fields are
// written unconditionally; VerifiedAt nil clears the column.
type RecordUpdate struct {
	Status     models.RecordStatus
	Notes      string
	VerifiedBy string
	VerifiedAt *time.Time
}

// FileStatusUpdate is the overwrite set for the file-level gate.
type FileStatusUpdate struct {
	Status     models.FileStatus
	VerifiedBy string
	VerifiedAt *time.Time
}

// RecordFilter scopes a verification record listing.
type RecordFilter struct {
	Status models.RecordStatus
	FileID *int64
	Limit  int
}

// Store is the collaborator interface the verification service consumes.
// Postgres implements it against the counselling database; the in-memory
// implementation backs unit tests.
type Store interface {
	// FindFileByID returns sentinel.ErrNotFound for unknown ids.
	FindFileByID(ctx context.Context, id int64) (*models.ProcessedFile, error)
	// ListFiles returns every processed file, oldest first.
	ListFiles(ctx context.Context) ([]*models.ProcessedFile, error)

	// PopulationIDs resolves the counselling record ids belonging to a file:
	// rows whose file_id matches, plus legacy rows without a file_id whose
	// created_at falls at or after the file's processed date, ascending by
	// id, truncated to the file's expected records count when set.
	PopulationIDs(ctx context.Context, file *models.ProcessedFile) ([]int64, error)

	// InsertRecords bulk-inserts pending verification records and returns
	// them with assigned ids.
	InsertRecords(ctx context.Context, recs []models.NewVerificationRecord) ([]*models.VerificationRecord, error)
	// UpdateFileSampleSize overwrites the file's realized sample size.
	UpdateFileSampleSize(ctx context.Context, fileID int64, size int) (*models.ProcessedFile, error)

	// FindRecordByID returns sentinel.ErrNotFound for unknown ids.
	FindRecordByID(ctx context.Context, id int64) (*models.VerificationRecord, error)
	// UpdateRecord overwrites verdict fields on one verification record.
	UpdateRecord(ctx context.Context, id int64, fields RecordUpdate) (*models.VerificationRecord, error)
	// UpdateFileStatus overwrites the file-level gate fields.
	UpdateFileStatus(ctx context.Context, fileID int64, fields FileStatusUpdate) (*models.ProcessedFile, error)

	// ListRecordsForFile returns the file's verification records ascending
	// by page number, joined with counselling display fields. Empty, not an
	// error, when none exist.
	ListRecordsForFile(ctx context.Context, fileID int64) ([]*models.RecordView, error)
	// ListRecords returns up to filter.Limit records matching a status,
	// optionally scoped to one file, newest-created first.
	ListRecords(ctx context.Context, filter RecordFilter) ([]*models.VerificationRecord, error)

	// CountRecordsByStatus rolls up verification records per status,
	// optionally scoped to one file.
	CountRecordsByStatus(ctx context.Context, fileID *int64) (models.StatusCounts, error)
	// CountRecordsPerFile returns the verification record count per file id.
	CountRecordsPerFile(ctx context.Context) (map[int64]int, error)

	// RunInTx executes fn atomically: every store call made through the ctx
	// it receives commits or rolls back as one unit.
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
