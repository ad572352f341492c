package store

import (
	"context"
	"sort"
	"sync"

	"seatcheck/internal/verification/models"
	"seatcheck/pkg/platform/sentinel"
	"seatcheck/pkg/requestcontext"
)

// InMemory is a map-backed Store for unit tests and local development.
type InMemory struct {
	mu sync.Mutex

	files       map[int64]*models.ProcessedFile
	counselling map[int64]*models.CounsellingRecord
	records     map[int64]*models.VerificationRecord

	nextFileID        int64
	nextCounsellingID int64
	nextRecordID      int64

	// insertErr, when set, fails the next InsertRecords call. Lets tests
	// exercise the partial-failure and rollback paths.
	insertErr error
}

func NewInMemory() *InMemory {
	return &InMemory{
		files:       make(map[int64]*models.ProcessedFile),
		counselling: make(map[int64]*models.CounsellingRecord),
		records:     make(map[int64]*models.VerificationRecord),
	}
}

type inTxKey struct{}

// RunInTx serializes the whole store and restores a snapshot when fn fails,
// mirroring the commit-or-rollback guarantee of the Postgres implementation.
func (s *InMemory) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapFiles := cloneFiles(s.files)
	snapRecords := cloneRecords(s.records)
	snapNextRecordID := s.nextRecordID

	if err := fn(context.WithValue(ctx, inTxKey{}, true)); err != nil {
		s.files = snapFiles
		s.records = snapRecords
		s.nextRecordID = snapNextRecordID
		return err
	}
	return nil
}

// lock is a no-op inside RunInTx, where the store lock is already held.
func (s *InMemory) lock(ctx context.Context) func() {
	if inTx, _ := ctx.Value(inTxKey{}).(bool); inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// SeedFile registers a processed file and returns it with an assigned id.
func (s *InMemory) SeedFile(file models.ProcessedFile) *models.ProcessedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextFileID++
	file.ID = s.nextFileID
	if file.Status == "" {
		file.Status = models.FileStatusPending
	}
	s.files[file.ID] = &file
	return cloneFile(&file)
}

// SeedCounselling registers counselling rows and returns their ids.
func (s *InMemory) SeedCounselling(recs ...models.CounsellingRecord) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(recs))
	for _, rec := range recs {
		s.nextCounsellingID++
		rec.ID = s.nextCounsellingID
		r := rec
		s.counselling[r.ID] = &r
		ids = append(ids, r.ID)
	}
	return ids
}

// FailNextInsert makes the next InsertRecords call return err.
func (s *InMemory) FailNextInsert(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertErr = err
}

func (s *InMemory) FindFileByID(ctx context.Context, id int64) (*models.ProcessedFile, error) {
	defer s.lock(ctx)()
	file, ok := s.files[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneFile(file), nil
}

func (s *InMemory) ListFiles(ctx context.Context) ([]*models.ProcessedFile, error) {
	defer s.lock(ctx)()
	out := make([]*models.ProcessedFile, 0, len(s.files))
	for _, file := range s.files {
		out = append(out, cloneFile(file))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemory) PopulationIDs(ctx context.Context, file *models.ProcessedFile) ([]int64, error) {
	defer s.lock(ctx)()
	var ids []int64
	for _, rec := range s.counselling {
		switch {
		case rec.FileID != nil:
			if *rec.FileID == file.ID {
				ids = append(ids, rec.ID)
			}
		case !rec.CreatedAt.Before(file.ProcessedDate):
			ids = append(ids, rec.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if file.RecordsCount > 0 && len(ids) > file.RecordsCount {
		ids = ids[:file.RecordsCount]
	}
	return ids, nil
}

func (s *InMemory) InsertRecords(ctx context.Context, recs []models.NewVerificationRecord) ([]*models.VerificationRecord, error) {
	defer s.lock(ctx)()
	if s.insertErr != nil {
		err := s.insertErr
		s.insertErr = nil
		return nil, err
	}
	now := requestcontext.Now(ctx)
	out := make([]*models.VerificationRecord, 0, len(recs))
	for _, rec := range recs {
		s.nextRecordID++
		created := &models.VerificationRecord{
			ID:              s.nextRecordID,
			CounsellingID:   rec.CounsellingID,
			ProcessedFileID: rec.ProcessedFileID,
			PageNumber:      rec.PageNumber,
			Status:          models.StatusPending,
			CreatedAt:       now,
		}
		s.records[created.ID] = created
		out = append(out, cloneRecord(created))
	}
	return out, nil
}

func (s *InMemory) UpdateFileSampleSize(ctx context.Context, fileID int64, size int) (*models.ProcessedFile, error) {
	defer s.lock(ctx)()
	file, ok := s.files[fileID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	file.SampleSize = &size
	return cloneFile(file), nil
}

func (s *InMemory) FindRecordByID(ctx context.Context, id int64) (*models.VerificationRecord, error) {
	defer s.lock(ctx)()
	rec, ok := s.records[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (s *InMemory) UpdateRecord(ctx context.Context, id int64, fields RecordUpdate) (*models.VerificationRecord, error) {
	defer s.lock(ctx)()
	rec, ok := s.records[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	rec.Status = fields.Status
	rec.Notes = fields.Notes
	rec.VerifiedBy = fields.VerifiedBy
	rec.VerifiedAt = fields.VerifiedAt
	return cloneRecord(rec), nil
}

func (s *InMemory) UpdateFileStatus(ctx context.Context, fileID int64, fields FileStatusUpdate) (*models.ProcessedFile, error) {
	defer s.lock(ctx)()
	file, ok := s.files[fileID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	file.Status = fields.Status
	file.VerifiedBy = fields.VerifiedBy
	file.VerifiedAt = fields.VerifiedAt
	return cloneFile(file), nil
}

func (s *InMemory) ListRecordsForFile(ctx context.Context, fileID int64) ([]*models.RecordView, error) {
	defer s.lock(ctx)()
	var out []*models.RecordView
	for _, rec := range s.records {
		if rec.ProcessedFileID != fileID {
			continue
		}
		view := &models.RecordView{VerificationRecord: *cloneRecord(rec)}
		if c, ok := s.counselling[rec.CounsellingID]; ok {
			view.Rank = c.Rank
			view.CollegeName = c.CollegeName
			view.Course = c.Course
			view.Quota = c.Quota
			view.Category = c.Category
		}
		out = append(out, view)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PageNumber != out[j].PageNumber {
			return out[i].PageNumber < out[j].PageNumber
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *InMemory) ListRecords(ctx context.Context, filter RecordFilter) ([]*models.VerificationRecord, error) {
	defer s.lock(ctx)()
	var out []*models.VerificationRecord
	for _, rec := range s.records {
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if filter.FileID != nil && rec.ProcessedFileID != *filter.FileID {
			continue
		}
		out = append(out, cloneRecord(rec))
	}
	// Newest first; ids break ties for records created in the same instant.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *InMemory) CountRecordsByStatus(ctx context.Context, fileID *int64) (models.StatusCounts, error) {
	defer s.lock(ctx)()
	var counts models.StatusCounts
	for _, rec := range s.records {
		if fileID != nil && rec.ProcessedFileID != *fileID {
			continue
		}
		switch rec.Status {
		case models.StatusPending:
			counts.Pending++
		case models.StatusVerified:
			counts.Verified++
		case models.StatusRejected:
			counts.Rejected++
		}
	}
	return counts, nil
}

func (s *InMemory) CountRecordsPerFile(ctx context.Context) (map[int64]int, error) {
	defer s.lock(ctx)()
	out := make(map[int64]int)
	for _, rec := range s.records {
		out[rec.ProcessedFileID]++
	}
	return out, nil
}

func cloneFile(f *models.ProcessedFile) *models.ProcessedFile {
	c := *f
	if f.SampleSize != nil {
		size := *f.SampleSize
		c.SampleSize = &size
	}
	if f.VerifiedAt != nil {
		at := *f.VerifiedAt
		c.VerifiedAt = &at
	}
	return &c
}

func cloneRecord(r *models.VerificationRecord) *models.VerificationRecord {
	c := *r
	if r.VerifiedAt != nil {
		at := *r.VerifiedAt
		c.VerifiedAt = &at
	}
	return &c
}

func cloneFiles(in map[int64]*models.ProcessedFile) map[int64]*models.ProcessedFile {
	out := make(map[int64]*models.ProcessedFile, len(in))
	for id, f := range in {
		out[id] = cloneFile(f)
	}
	return out
}

func cloneRecords(in map[int64]*models.VerificationRecord) map[int64]*models.VerificationRecord {
	out := make(map[int64]*models.VerificationRecord, len(in))
	for id, r := range in {
		out[id] = cloneRecord(r)
	}
	return out
}
