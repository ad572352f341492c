package models

import (
	"time"

	dErrors "seatcheck/pkg/domain-errors"
)

// RecordStatus is the audit verdict attached to one sampled record.
//
// The transition relation is deliberately complete: any status may be set
// from any other, including reopening a verified record to pending. Auditors
// correct their own mistakes this way; no guard rejects "already verified".
type RecordStatus string

const (
	StatusPending  RecordStatus = "pending"
	StatusVerified RecordStatus = "verified"
	StatusRejected RecordStatus = "rejected"
)

// ParseRecordStatus validates a caller-supplied status value.
func ParseRecordStatus(s string) (RecordStatus, error) {
	switch RecordStatus(s) {
	case StatusPending, StatusVerified, StatusRejected:
		return RecordStatus(s), nil
	default:
		return "", dErrors.Newf(dErrors.CodeInvalidArgument, "unknown record status %q", s)
	}
}

// FileStatus is the coarse trust flag for an entire ingested batch,
// independent of individual record verdicts.
type FileStatus string

const (
	FileStatusPending  FileStatus = "pending"
	FileStatusVerified FileStatus = "verified"
)

// ParseFileStatus validates a caller-supplied file-level status value.
func ParseFileStatus(s string) (FileStatus, error) {
	switch FileStatus(s) {
	case FileStatusPending, FileStatusVerified:
		return FileStatus(s), nil
	default:
		return "", dErrors.Newf(dErrors.CodeInvalidArgument, "unknown file status %q", s)
	}
}

// Strategy selects how a sample is drawn from the population.
type Strategy string

const (
	// StrategySystematic walks the id-ordered population at a fixed stride.
	// Deterministic for an unchanged population.
	StrategySystematic Strategy = "systematic"
	// StrategyRandom takes a uniformly shuffled prefix. Non-reproducible by
	// design so repeated audits see fresh records.
	StrategyRandom Strategy = "random"
)

// ParseStrategy validates a caller-supplied strategy, defaulting empty input
// to systematic.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "":
		return StrategySystematic, nil
	case StrategySystematic, StrategyRandom:
		return Strategy(s), nil
	default:
		return "", dErrors.Newf(dErrors.CodeInvalidArgument, "unknown sampling strategy %q", s)
	}
}

// CounsellingRecord is one immutable allotment row from the counselling
// dataset. The verification module never mutates these; it only reads ids
// for sampling and display fields for the audit listing.
type CounsellingRecord struct {
	ID          int64
	Year        int
	Round       int
	Rank        int
	Quota       string
	State       string
	CollegeName string
	Course      string
	Category    string
	CreatedAt   time.Time
	// FileID links the record to the batch that ingested it. Rows ingested
	// before the column existed carry no FileID and are resolved through the
	// processed-date window fallback.
	FileID *int64
}

// ProcessedFile is one ingested batch of counselling records.
type ProcessedFile struct {
	ID            int64     `json:"id"`
	Filename      string    `json:"filename"`
	FileType      string    `json:"fileType"`
	ProcessedDate time.Time `json:"processedDate"`
	RecordsCount  int       `json:"recordsCount"`
	// SampleSize is nil until a sample has been built at least once.
	// Re-sampling overwrites it; it never accumulates.
	SampleSize *int       `json:"sampleSize"`
	Status     FileStatus `json:"status"`
	VerifiedBy string     `json:"verifiedBy,omitempty"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`
}

// VerificationRecord pairs one sampled counselling record with its verdict.
type VerificationRecord struct {
	ID              int64        `json:"id"`
	CounsellingID   int64        `json:"counsellingId"`
	ProcessedFileID int64        `json:"fileId"`
	PageNumber      int          `json:"pageNumber"`
	Status          RecordStatus `json:"status"`
	Notes           string       `json:"notes,omitempty"`
	VerifiedBy      string       `json:"verifiedBy,omitempty"`
	VerifiedAt      *time.Time   `json:"verifiedAt,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// NewVerificationRecord is the insert shape for bulk sample creation.
type NewVerificationRecord struct {
	CounsellingID   int64
	ProcessedFileID int64
	PageNumber      int
}

// RecordView joins a verification record with the display fields of the
// counselling row it audits, which is what auditors work from.
type RecordView struct {
	VerificationRecord
	Rank        int    `json:"rank"`
	CollegeName string `json:"collegeName"`
	Course      string `json:"course"`
	Quota       string `json:"quota"`
	Category    string `json:"category"`
}

// SampleResult reports what a buildSample run produced.
type SampleResult struct {
	SampleSize      int      `json:"sampleSize"`
	TotalPopulation int      `json:"totalRecords"`
	SampleRate      float64  `json:"sampleRate"`
	Strategy        Strategy `json:"strategy"`
}

// StatusCounts is a per-status rollup of verification records.
type StatusCounts struct {
	Pending  int `json:"pending"`
	Verified int `json:"verified"`
	Rejected int `json:"rejected"`
}

// Total sums the per-status counts.
func (c StatusCounts) Total() int {
	return c.Pending + c.Verified + c.Rejected
}

// FileProgress reports per-file audit completion.
type FileProgress struct {
	FileID       int64      `json:"fileId"`
	Filename     string     `json:"filename"`
	Status       FileStatus `json:"status"`
	SampleSize   int        `json:"sampleSize"`
	RecordsCount int        `json:"recordsCount"`
	Progress     int        `json:"progress"`
}

// GlobalSummary is the system-level rollup served by the summary endpoint.
type GlobalSummary struct {
	Records       StatusCounts   `json:"records"`
	TotalFiles    int            `json:"totalFiles"`
	VerifiedFiles int            `json:"verifiedFiles"`
	PendingFiles  int            `json:"pendingFiles"`
	Files         []FileProgress `json:"files"`
}
