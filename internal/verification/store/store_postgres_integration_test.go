//go:build integration

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"seatcheck/internal/verification/models"
	"seatcheck/pkg/platform/sentinel"
	"seatcheck/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *Postgres
	ctx   context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(EnsureSchema(s.ctx, s.pg.DB))
	s.store = NewPostgres(s.pg.DB)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	s.pg.Terminate(s.ctx)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx,
		"verification_records", "counselling_data", "processed_files"))
}

func (s *PostgresStoreSuite) seedFile(filename string, processed time.Time, count int) int64 {
	var id int64
	err := s.pg.DB.QueryRowContext(s.ctx, `
		INSERT INTO processed_files (filename, file_type, processed_date, records_count)
		VALUES ($1, 'AIQ', $2, $3)
		RETURNING id`, filename, processed, count).Scan(&id)
	s.Require().NoError(err)
	return id
}

func (s *PostgresStoreSuite) seedCounselling(fileID *int64, createdAt time.Time, ranks ...int) []int64 {
	ids := make([]int64, 0, len(ranks))
	for _, rank := range ranks {
		var id int64
		err := s.pg.DB.QueryRowContext(s.ctx, `
			INSERT INTO counselling_data (year, round, rank, quota, college_name, course, created_at, file_id)
			VALUES (2024, 1, $1, 'AI', 'Test Medical College', 'MD - General Medicine', $2, $3)
			RETURNING id`, rank, createdAt, fileID).Scan(&id)
		s.Require().NoError(err)
		ids = append(ids, id)
	}
	return ids
}

func (s *PostgresStoreSuite) TestPopulationIDs() {
	processed := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	s.Run("explicit file link", func() {
		fileID := s.seedFile("linked.pdf", processed, 3)
		want := s.seedCounselling(&fileID, processed.Add(time.Minute), 10, 20, 30)
		otherID := s.seedFile("other.pdf", processed, 1)
		s.seedCounselling(&otherID, processed.Add(time.Minute), 40)

		file, err := s.store.FindFileByID(s.ctx, fileID)
		s.Require().NoError(err)
		got, err := s.store.PopulationIDs(s.ctx, file)
		s.Require().NoError(err)
		s.Equal(want, got)
	})

	s.Run("legacy window fallback", func() {
		s.Require().NoError(s.pg.TruncateTables(s.ctx,
			"verification_records", "counselling_data", "processed_files"))
		fileID := s.seedFile("legacy.pdf", processed, 2)
		inWindow := s.seedCounselling(nil, processed.Add(time.Minute), 10, 20, 30)
		s.seedCounselling(nil, processed.Add(-time.Hour), 40)

		file, err := s.store.FindFileByID(s.ctx, fileID)
		s.Require().NoError(err)
		got, err := s.store.PopulationIDs(s.ctx, file)
		s.Require().NoError(err)
		// Count-capped to the file's records_count.
		s.Equal(inWindow[:2], got)
	})
}

func (s *PostgresStoreSuite) TestInsertAndListRecords() {
	processed := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	fileID := s.seedFile("round2.pdf", processed, 2)
	counsellingIDs := s.seedCounselling(&fileID, processed.Add(time.Minute), 120, 340)

	inserted, err := s.store.InsertRecords(s.ctx, []models.NewVerificationRecord{
		{CounsellingID: counsellingIDs[0], ProcessedFileID: fileID, PageNumber: 1},
		{CounsellingID: counsellingIDs[1], ProcessedFileID: fileID, PageNumber: 51},
	})
	s.Require().NoError(err)
	s.Require().Len(inserted, 2)
	s.Equal(models.StatusPending, inserted[0].Status)

	views, err := s.store.ListRecordsForFile(s.ctx, fileID)
	s.Require().NoError(err)
	s.Require().Len(views, 2)
	s.Equal(120, views[0].Rank)
	s.Equal("Test Medical College", views[0].CollegeName)
	// NULL category reads back as the default.
	s.Equal("GENERAL", views[0].Category)
	s.Equal(1, views[0].PageNumber)
	s.Equal(51, views[1].PageNumber)
}

func (s *PostgresStoreSuite) TestUpdateRecordRoundTrip() {
	processed := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	fileID := s.seedFile("round3.pdf", processed, 1)
	counsellingIDs := s.seedCounselling(&fileID, processed.Add(time.Minute), 55)
	inserted, err := s.store.InsertRecords(s.ctx, []models.NewVerificationRecord{
		{CounsellingID: counsellingIDs[0], ProcessedFileID: fileID, PageNumber: 1},
	})
	s.Require().NoError(err)

	verifiedAt := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	updated, err := s.store.UpdateRecord(s.ctx, inserted[0].ID, RecordUpdate{
		Status:     models.StatusVerified,
		Notes:      "matches page 1",
		VerifiedBy: "auditor@mcc.nic.in",
		VerifiedAt: &verifiedAt,
	})
	s.Require().NoError(err)
	s.Equal(models.StatusVerified, updated.Status)
	s.Equal("auditor@mcc.nic.in", updated.VerifiedBy)
	s.Require().NotNil(updated.VerifiedAt)
	s.True(updated.VerifiedAt.Equal(verifiedAt))

	// Reopen clears verifiedAt.
	reopened, err := s.store.UpdateRecord(s.ctx, inserted[0].ID, RecordUpdate{
		Status:     models.StatusPending,
		Notes:      "second look",
		VerifiedBy: "auditor@mcc.nic.in",
	})
	s.Require().NoError(err)
	s.Equal(models.StatusPending, reopened.Status)
	s.Nil(reopened.VerifiedAt)

	_, err = s.store.UpdateRecord(s.ctx, 99999, RecordUpdate{Status: models.StatusVerified})
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdateFileStatus() {
	processed := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	fileID := s.seedFile("round4.pdf", processed, 0)

	verifiedAt := time.Date(2025, 7, 2, 9, 0, 0, 0, time.UTC)
	updated, err := s.store.UpdateFileStatus(s.ctx, fileID, FileStatusUpdate{
		Status:     models.FileStatusVerified,
		VerifiedBy: "auditor@mcc.nic.in",
		VerifiedAt: &verifiedAt,
	})
	s.Require().NoError(err)
	s.Equal(models.FileStatusVerified, updated.Status)

	_, err = s.store.UpdateFileStatus(s.ctx, 99999, FileStatusUpdate{Status: models.FileStatusPending})
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestRunInTxRollsBack() {
	processed := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	fileID := s.seedFile("round5.pdf", processed, 1)
	counsellingIDs := s.seedCounselling(&fileID, processed.Add(time.Minute), 77)

	boom := errors.New("forced failure")
	err := s.store.RunInTx(s.ctx, func(ctx context.Context) error {
		if _, err := s.store.InsertRecords(ctx, []models.NewVerificationRecord{
			{CounsellingID: counsellingIDs[0], ProcessedFileID: fileID, PageNumber: 1},
		}); err != nil {
			return err
		}
		if _, err := s.store.UpdateFileSampleSize(ctx, fileID, 1); err != nil {
			return err
		}
		return boom
	})
	s.Require().ErrorIs(err, boom)

	counts, err := s.store.CountRecordsByStatus(s.ctx, nil)
	s.Require().NoError(err)
	s.Zero(counts.Total())
	file, err := s.store.FindFileByID(s.ctx, fileID)
	s.Require().NoError(err)
	s.Nil(file.SampleSize)
}

func (s *PostgresStoreSuite) TestCountsAndFilters() {
	processed := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	fileID := s.seedFile("round6.pdf", processed, 3)
	counsellingIDs := s.seedCounselling(&fileID, processed.Add(time.Minute), 5, 15, 25)

	inserted, err := s.store.InsertRecords(s.ctx, []models.NewVerificationRecord{
		{CounsellingID: counsellingIDs[0], ProcessedFileID: fileID, PageNumber: 1},
		{CounsellingID: counsellingIDs[1], ProcessedFileID: fileID, PageNumber: 34},
		{CounsellingID: counsellingIDs[2], ProcessedFileID: fileID, PageNumber: 67},
	})
	s.Require().NoError(err)

	_, err = s.store.UpdateRecord(s.ctx, inserted[0].ID, RecordUpdate{Status: models.StatusVerified})
	s.Require().NoError(err)

	counts, err := s.store.CountRecordsByStatus(s.ctx, &fileID)
	s.Require().NoError(err)
	s.Equal(models.StatusCounts{Pending: 2, Verified: 1}, counts)

	perFile, err := s.store.CountRecordsPerFile(s.ctx)
	s.Require().NoError(err)
	s.Equal(map[int64]int{fileID: 3}, perFile)

	pending, err := s.store.ListRecords(s.ctx, RecordFilter{Status: models.StatusPending, Limit: 10})
	s.Require().NoError(err)
	s.Len(pending, 2)
}
