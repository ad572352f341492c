// Package service implements the verification core: sample construction,
// per-record verdict transitions, the file-level gate, and aggregate rollups.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"seatcheck/internal/audit"
	"seatcheck/internal/verification/metrics"
	"seatcheck/internal/verification/models"
	"seatcheck/internal/verification/store"
	dErrors "seatcheck/pkg/domain-errors"
	"seatcheck/pkg/platform/sentinel"
	"seatcheck/pkg/requestcontext"
)

// defaultListLimit caps status listings when the caller does not ask for one.
const defaultListLimit = 50

// AuditTrail is the port through which the service emits audit events.
// Recording never fails the business operation.
type AuditTrail interface {
	Record(ctx context.Context, event audit.Event)
}

// Service owns the verification lifecycle. Stores are pure I/O; every rule
// about sampling, transitions, and rollups lives here.
type Service struct {
	store   store.Store
	metrics *metrics.Metrics
	trail   AuditTrail
	seed    func() int64
	tracer  trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAuditTrail sets the audit event sink.
func WithAuditTrail(trail AuditTrail) Option {
	return func(s *Service) { s.trail = trail }
}

// WithSeed fixes the random-strategy seed so tests can reproduce a draw.
func WithSeed(seed int64) Option {
	return func(s *Service) { s.seed = func() int64 { return seed } }
}

func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		seed:   func() int64 { return time.Now().UnixNano() },
		tracer: otel.Tracer("seatcheck/verification"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetRecordStatus overwrites one record's verdict. The operation is
// idempotent and unguarded: any status is reachable from any other, which
// lets auditors correct earlier verdicts, including reopening to pending.
// verifiedAt is set only when the new status is verified and cleared
// otherwise.
func (s *Service) SetRecordStatus(ctx context.Context, recordID int64, status models.RecordStatus, notes, verifiedBy string) (*models.VerificationRecord, error) {
	ctx, span := s.tracer.Start(ctx, "verification.SetRecordStatus")
	defer span.End()

	if _, err := models.ParseRecordStatus(string(status)); err != nil {
		return nil, err
	}

	var verifiedAt *time.Time
	if status == models.StatusVerified {
		now := requestcontext.Now(ctx)
		verifiedAt = &now
	}

	rec, err := s.store.UpdateRecord(ctx, recordID, store.RecordUpdate{
		Status:     status,
		Notes:      notes,
		VerifiedBy: verifiedBy,
		VerifiedAt: verifiedAt,
	})
	if err != nil {
		return nil, translateStoreErr(err, "verification record")
	}

	if s.metrics != nil {
		s.metrics.IncrementVerdict(string(status))
	}
	if s.trail != nil {
		s.trail.Record(ctx, audit.Event{
			Action:   audit.ActionRecordVerdict,
			Actor:    verifiedBy,
			RecordID: recordID,
			FileID:   rec.ProcessedFileID,
			Status:   string(status),
			Detail:   notes,
		})
	}
	return rec, nil
}

// SetFileStatus overwrites the file-level gate with the same idempotent
// semantics as record verdicts. No cross-validation against individual
// record statuses: a batch can be trusted wholesale while records are still
// pending.
func (s *Service) SetFileStatus(ctx context.Context, fileID int64, status models.FileStatus, verifiedBy string) (*models.ProcessedFile, error) {
	ctx, span := s.tracer.Start(ctx, "verification.SetFileStatus")
	defer span.End()

	if _, err := models.ParseFileStatus(string(status)); err != nil {
		return nil, err
	}

	var verifiedAt *time.Time
	if status == models.FileStatusVerified {
		now := requestcontext.Now(ctx)
		verifiedAt = &now
	}

	file, err := s.store.UpdateFileStatus(ctx, fileID, store.FileStatusUpdate{
		Status:     status,
		VerifiedBy: verifiedBy,
		VerifiedAt: verifiedAt,
	})
	if err != nil {
		return nil, translateStoreErr(err, "processed file")
	}

	if s.trail != nil {
		s.trail.Record(ctx, audit.Event{
			Action: audit.ActionFileGateSet,
			Actor:  verifiedBy,
			FileID: fileID,
			Status: string(status),
		})
	}
	return file, nil
}

// ListRecordsForFile returns the file's verification records ordered by page
// number, joined with counselling display fields. An unknown or unsampled
// file yields an empty list, not an error.
func (s *Service) ListRecordsForFile(ctx context.Context, fileID int64) ([]*models.RecordView, error) {
	views, err := s.store.ListRecordsForFile(ctx, fileID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "list records for file")
	}
	if views == nil {
		views = []*models.RecordView{}
	}
	return views, nil
}

// ListRecordsByStatus returns up to limit records with the given status,
// newest first, optionally scoped to one file. limit defaults to 50.
func (s *Service) ListRecordsByStatus(ctx context.Context, status models.RecordStatus, limit int, fileID *int64) ([]*models.VerificationRecord, error) {
	if _, err := models.ParseRecordStatus(string(status)); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	recs, err := s.store.ListRecords(ctx, store.RecordFilter{
		Status: status,
		FileID: fileID,
		Limit:  limit,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "list records by status")
	}
	if recs == nil {
		recs = []*models.VerificationRecord{}
	}
	return recs, nil
}

// translateStoreErr maps infrastructure sentinels onto coded domain errors.
func translateStoreErr(err error, entity string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("%s not found", entity))
	}
	return dErrors.Wrap(err, dErrors.CodePersistence, fmt.Sprintf("access %s", entity))
}
