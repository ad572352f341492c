package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"seatcheck/internal/verification/models"
	"seatcheck/pkg/platform/sentinel"
	"seatcheck/pkg/platform/tx"
)

// Postgres persists verification records and the processed-file ledger in
// PostgreSQL. Methods join an in-flight transaction when one is scoped to
// the context via pkg/platform/tx.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed verification store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// querier returns the scoped transaction when present, the pool otherwise.
func (s *Postgres) querier(ctx context.Context) tx.Querier {
	if sqlTx, ok := tx.From(ctx); ok {
		return sqlTx
	}
	return s.db
}

// RunInTx runs fn inside a single transaction. Sample construction uses this
// so the population read, bulk insert, and sample-size update land together.
func (s *Postgres) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return tx.Run(ctx, s.db, fn)
}

const fileColumns = `id, filename, file_type, processed_date, records_count, sample_size, verification_status, verified_by, verified_at`

func (s *Postgres) FindFileByID(ctx context.Context, id int64) (*models.ProcessedFile, error) {
	query := `SELECT ` + fileColumns + ` FROM processed_files WHERE id = $1`
	file, err := scanFile(s.querier(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find processed file: %w", err)
	}
	return file, nil
}

func (s *Postgres) ListFiles(ctx context.Context) ([]*models.ProcessedFile, error) {
	query := `SELECT ` + fileColumns + ` FROM processed_files ORDER BY id`
	rows, err := s.querier(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list processed files: %w", err)
	}
	defer rows.Close()

	var files []*models.ProcessedFile
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan processed file: %w", err)
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

// PopulationIDs resolves the file's counselling rows: explicit file_id
// matches plus legacy rows (NULL file_id) at or after the processed date,
// ascending by id, truncated to the expected records count when set.
func (s *Postgres) PopulationIDs(ctx context.Context, file *models.ProcessedFile) ([]int64, error) {
	query := `
		SELECT id FROM counselling_data
		WHERE file_id = $1 OR (file_id IS NULL AND created_at >= $2)
		ORDER BY id
	`
	args := []any{file.ID, file.ProcessedDate}
	if file.RecordsCount > 0 {
		query += ` LIMIT $3`
		args = append(args, file.RecordsCount)
	}
	rows, err := s.querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("resolve population: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan population id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Postgres) InsertRecords(ctx context.Context, recs []models.NewVerificationRecord) ([]*models.VerificationRecord, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO verification_records (counselling_data_id, processed_file_id, page_number) VALUES `)
	args := make([]any, 0, len(recs)*3)
	for i, rec := range recs {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3)
		args = append(args, rec.CounsellingID, rec.ProcessedFileID, rec.PageNumber)
	}
	sb.WriteString(` RETURNING ` + recordColumns)

	rows, err := s.querier(ctx).QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("insert verification records: %w", err)
	}
	defer rows.Close()

	out := make([]*models.VerificationRecord, 0, len(recs))
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inserted record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Postgres) UpdateFileSampleSize(ctx context.Context, fileID int64, size int) (*models.ProcessedFile, error) {
	query := `UPDATE processed_files SET sample_size = $2 WHERE id = $1 RETURNING ` + fileColumns
	file, err := scanFile(s.querier(ctx).QueryRowContext(ctx, query, fileID, size))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("update sample size: %w", err)
	}
	return file, nil
}

const recordColumns = `id, counselling_data_id, processed_file_id, page_number, verification_status, notes, verified_by, verified_at, created_at`

func (s *Postgres) FindRecordByID(ctx context.Context, id int64) (*models.VerificationRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM verification_records WHERE id = $1`
	rec, err := scanRecord(s.querier(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find verification record: %w", err)
	}
	return rec, nil
}

func (s *Postgres) UpdateRecord(ctx context.Context, id int64, fields RecordUpdate) (*models.VerificationRecord, error) {
	query := `
		UPDATE verification_records
		SET verification_status = $2, notes = $3, verified_by = $4, verified_at = $5
		WHERE id = $1
		RETURNING ` + recordColumns
	rec, err := scanRecord(s.querier(ctx).QueryRowContext(ctx, query,
		id, string(fields.Status), nullString(fields.Notes), nullString(fields.VerifiedBy), fields.VerifiedAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("update verification record: %w", err)
	}
	return rec, nil
}

func (s *Postgres) UpdateFileStatus(ctx context.Context, fileID int64, fields FileStatusUpdate) (*models.ProcessedFile, error) {
	query := `
		UPDATE processed_files
		SET verification_status = $2, verified_by = $3, verified_at = $4
		WHERE id = $1
		RETURNING ` + fileColumns
	file, err := scanFile(s.querier(ctx).QueryRowContext(ctx, query,
		fileID, string(fields.Status), nullString(fields.VerifiedBy), fields.VerifiedAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("update file status: %w", err)
	}
	return file, nil
}

func (s *Postgres) ListRecordsForFile(ctx context.Context, fileID int64) ([]*models.RecordView, error) {
	query := `
		SELECT vr.id, vr.counselling_data_id, vr.processed_file_id, vr.page_number,
		       vr.verification_status, vr.notes, vr.verified_by, vr.verified_at, vr.created_at,
		       cd.rank, cd.college_name, cd.course, cd.quota, COALESCE(cd.category, 'GENERAL')
		FROM verification_records vr
		JOIN counselling_data cd ON cd.id = vr.counselling_data_id
		WHERE vr.processed_file_id = $1
		ORDER BY vr.page_number, vr.id
	`
	rows, err := s.querier(ctx).QueryContext(ctx, query, fileID)
	if err != nil {
		return nil, fmt.Errorf("list records for file: %w", err)
	}
	defer rows.Close()

	var out []*models.RecordView
	for rows.Next() {
		view := &models.RecordView{}
		var notes, verifiedBy sql.NullString
		var verifiedAt sql.NullTime
		if err := rows.Scan(
			&view.ID, &view.CounsellingID, &view.ProcessedFileID, &view.PageNumber,
			&view.Status, &notes, &verifiedBy, &verifiedAt, &view.CreatedAt,
			&view.Rank, &view.CollegeName, &view.Course, &view.Quota, &view.Category,
		); err != nil {
			return nil, fmt.Errorf("scan record view: %w", err)
		}
		view.Notes = notes.String
		view.VerifiedBy = verifiedBy.String
		if verifiedAt.Valid {
			at := verifiedAt.Time
			view.VerifiedAt = &at
		}
		out = append(out, view)
	}
	return out, rows.Err()
}

func (s *Postgres) ListRecords(ctx context.Context, filter RecordFilter) ([]*models.VerificationRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM verification_records WHERE 1=1`
	var args []any
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND verification_status = $%d", len(args))
	}
	if filter.FileID != nil {
		args = append(args, *filter.FileID)
		query += fmt.Sprintf(" AND processed_file_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list verification records: %w", err)
	}
	defer rows.Close()

	var out []*models.VerificationRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan verification record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Postgres) CountRecordsByStatus(ctx context.Context, fileID *int64) (models.StatusCounts, error) {
	query := `SELECT verification_status, COUNT(*) FROM verification_records`
	var args []any
	if fileID != nil {
		query += ` WHERE processed_file_id = $1`
		args = append(args, *fileID)
	}
	query += ` GROUP BY verification_status`

	rows, err := s.querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return models.StatusCounts{}, fmt.Errorf("count records by status: %w", err)
	}
	defer rows.Close()

	var counts models.StatusCounts
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return models.StatusCounts{}, fmt.Errorf("scan status count: %w", err)
		}
		switch models.RecordStatus(status) {
		case models.StatusPending:
			counts.Pending = n
		case models.StatusVerified:
			counts.Verified = n
		case models.StatusRejected:
			counts.Rejected = n
		}
	}
	return counts, rows.Err()
}

func (s *Postgres) CountRecordsPerFile(ctx context.Context) (map[int64]int, error) {
	query := `SELECT processed_file_id, COUNT(*) FROM verification_records GROUP BY processed_file_id`
	rows, err := s.querier(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count records per file: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]int)
	for rows.Next() {
		var fileID int64
		var n int
		if err := rows.Scan(&fileID, &n); err != nil {
			return nil, fmt.Errorf("scan per-file count: %w", err)
		}
		out[fileID] = n
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*models.ProcessedFile, error) {
	file := &models.ProcessedFile{}
	var fileType, verifiedBy sql.NullString
	var recordsCount, sampleSize sql.NullInt64
	var verifiedAt sql.NullTime
	if err := row.Scan(
		&file.ID, &file.Filename, &fileType, &file.ProcessedDate,
		&recordsCount, &sampleSize, &file.Status, &verifiedBy, &verifiedAt,
	); err != nil {
		return nil, err
	}
	file.FileType = fileType.String
	file.RecordsCount = int(recordsCount.Int64)
	if sampleSize.Valid {
		size := int(sampleSize.Int64)
		file.SampleSize = &size
	}
	file.VerifiedBy = verifiedBy.String
	if verifiedAt.Valid {
		at := verifiedAt.Time
		file.VerifiedAt = &at
	}
	return file, nil
}

func scanRecord(row rowScanner) (*models.VerificationRecord, error) {
	rec := &models.VerificationRecord{}
	var notes, verifiedBy sql.NullString
	var verifiedAt sql.NullTime
	if err := row.Scan(
		&rec.ID, &rec.CounsellingID, &rec.ProcessedFileID, &rec.PageNumber,
		&rec.Status, &notes, &verifiedBy, &verifiedAt, &rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	rec.Notes = notes.String
	rec.VerifiedBy = verifiedBy.String
	if verifiedAt.Valid {
		at := verifiedAt.Time
		rec.VerifiedAt = &at
	}
	return rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
