package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"seatcheck/internal/verification/models"
	"seatcheck/internal/verification/store"
	dErrors "seatcheck/pkg/domain-errors"
)

type SamplerSuite struct {
	suite.Suite
	store *store.InMemory
	ctx   context.Context
}

func TestSamplerSuite(t *testing.T) {
	suite.Run(t, new(SamplerSuite))
}

func (s *SamplerSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.ctx = context.Background()
}

// seedPopulationInto creates a file and n counselling rows linked to it.
func seedPopulationInto(st *store.InMemory, n int) *models.ProcessedFile {
	processed := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	file := st.SeedFile(models.ProcessedFile{
		Filename:      "round3_allotments.pdf",
		FileType:      "AIQ",
		ProcessedDate: processed,
		RecordsCount:  n,
	})
	recs := make([]models.CounsellingRecord, n)
	for i := range recs {
		recs[i] = models.CounsellingRecord{
			Rank:        (i + 1) * 7,
			CollegeName: "Test Medical College",
			Course:      "MD - General Medicine",
			Quota:       "AI",
			Category:    "GENERAL",
			CreatedAt:   processed.Add(time.Minute),
			FileID:      &file.ID,
		}
	}
	st.SeedCounselling(recs...)
	return file
}

func (s *SamplerSuite) seedPopulation(n int) *models.ProcessedFile {
	return seedPopulationInto(s.store, n)
}

func (s *SamplerSuite) TestSystematicScenario() {
	// 97 records at 10%: size floor(9.7)=9, step floor(97/9)=10,
	// indices 0,10,...,80 selected.
	file := s.seedPopulation(97)
	svc := NewService(s.store)

	result, err := svc.BuildSample(s.ctx, file.ID, 0.1, models.StrategySystematic)
	s.Require().NoError(err)
	s.Equal(9, result.SampleSize)
	s.Equal(97, result.TotalPopulation)
	s.Equal(models.StrategySystematic, result.Strategy)

	views, err := svc.ListRecordsForFile(s.ctx, file.ID)
	s.Require().NoError(err)
	s.Require().Len(views, 9)
	for i, view := range views {
		// Population ids are 1-based and contiguous here.
		s.Equal(int64(i*10+1), view.CounsellingID)
	}

	updated, err := s.store.FindFileByID(s.ctx, file.ID)
	s.Require().NoError(err)
	s.Require().NotNil(updated.SampleSize)
	s.Equal(9, *updated.SampleSize)
}

func (s *SamplerSuite) TestSystematicIsDeterministic() {
	file := s.seedPopulation(50)
	svc := NewService(s.store)

	first, err := svc.BuildSample(s.ctx, file.ID, 0.2, models.StrategySystematic)
	s.Require().NoError(err)
	second, err := svc.BuildSample(s.ctx, file.ID, 0.2, models.StrategySystematic)
	s.Require().NoError(err)
	s.Equal(first.SampleSize, second.SampleSize)

	views, err := svc.ListRecordsForFile(s.ctx, file.ID)
	s.Require().NoError(err)
	s.Require().Len(views, first.SampleSize*2)

	// Same selected ids and page numbers both runs.
	firstRun := map[int64]int{}
	secondRun := map[int64]int{}
	for _, view := range views {
		if view.ID <= int64(first.SampleSize) {
			firstRun[view.CounsellingID] = view.PageNumber
		} else {
			secondRun[view.CounsellingID] = view.PageNumber
		}
	}
	s.Equal(firstRun, secondRun)
}

func (s *SamplerSuite) TestSampleSizeBounds() {
	for _, tc := range []struct {
		population int
		rate       float64
		want       int
	}{
		{1, 0.01, 1},  // floor rounds to 0, clamped to 1
		{10, 0.1, 1},
		{10, 1.0, 10},
		{97, 0.1, 9},
		{3, 0.5, 1},
		{200, 0.25, 50},
	} {
		s.Run("", func() {
			got := sampleSizeFor(tc.population, tc.rate)
			s.Equal(tc.want, got)
			s.GreaterOrEqual(got, 1)
			s.LessOrEqual(got, tc.population)
		})
	}
}

func (s *SamplerSuite) TestPageNumbersMonotonicWithinBounds() {
	file := s.seedPopulation(130)
	svc := NewService(s.store)

	_, err := svc.BuildSample(s.ctx, file.ID, 0.3, models.StrategySystematic)
	s.Require().NoError(err)

	views, err := svc.ListRecordsForFile(s.ctx, file.ID)
	s.Require().NoError(err)
	prev := 0
	for _, view := range views {
		s.GreaterOrEqual(view.PageNumber, 1)
		s.LessOrEqual(view.PageNumber, 100)
		s.GreaterOrEqual(view.PageNumber, prev)
		prev = view.PageNumber
	}
	// First selected item always maps to page 1.
	s.Equal(1, views[0].PageNumber)
}

func (s *SamplerSuite) TestRandomStrategy() {
	file := s.seedPopulation(40)

	s.Run("matches systematic size formula", func() {
		svc := NewService(s.store)
		result, err := svc.BuildSample(s.ctx, file.ID, 0.25, models.StrategyRandom)
		s.Require().NoError(err)
		s.Equal(10, result.SampleSize)
	})

	s.Run("fixed seed reproduces the draw", func() {
		draw := func() []int64 {
			st := store.NewInMemory()
			seeded := seedPopulationInto(st, 40)

			svc := NewService(st, WithSeed(42))
			_, err := svc.BuildSample(s.ctx, seeded.ID, 0.25, models.StrategyRandom)
			s.Require().NoError(err)

			views, err := svc.ListRecordsForFile(s.ctx, seeded.ID)
			s.Require().NoError(err)
			ids := make([]int64, len(views))
			for i, view := range views {
				ids[i] = view.CounsellingID
			}
			return ids
		}
		s.Equal(draw(), draw())
	})
}

func (s *SamplerSuite) TestEmptyPopulation() {
	file := s.store.SeedFile(models.ProcessedFile{
		Filename:      "empty.pdf",
		ProcessedDate: time.Now(),
	})
	svc := NewService(s.store)

	_, err := svc.BuildSample(s.ctx, file.ID, 0.1, models.StrategySystematic)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeEmptyPopulation))

	// No mutation happened: sample size still unset, no records created.
	unchanged, err := s.store.FindFileByID(s.ctx, file.ID)
	s.Require().NoError(err)
	s.Nil(unchanged.SampleSize)
	counts, err := s.store.CountRecordsByStatus(s.ctx, nil)
	s.Require().NoError(err)
	s.Zero(counts.Total())
}

func (s *SamplerSuite) TestValidation() {
	file := s.seedPopulation(10)
	svc := NewService(s.store)

	s.Run("unknown file", func() {
		_, err := svc.BuildSample(s.ctx, file.ID+999, 0.1, models.StrategySystematic)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})
	s.Run("rate out of range", func() {
		for _, rate := range []float64{0, -0.5, 1.01} {
			_, err := svc.BuildSample(s.ctx, file.ID, rate, models.StrategySystematic)
			s.True(dErrors.Is(err, dErrors.CodeInvalidArgument))
		}
	})
	s.Run("unknown strategy", func() {
		_, err := svc.BuildSample(s.ctx, file.ID, 0.1, models.Strategy("stratified"))
		s.True(dErrors.Is(err, dErrors.CodeInvalidArgument))
	})
}

func (s *SamplerSuite) TestInsertFailureRollsBack() {
	file := s.seedPopulation(20)
	svc := NewService(s.store)

	boom := errors.New("connection reset")
	s.store.FailNextInsert(boom)

	_, err := svc.BuildSample(s.ctx, file.ID, 0.5, models.StrategySystematic)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodePersistence))

	// The transaction rolled back: no records and no sample size.
	unchanged, err := s.store.FindFileByID(s.ctx, file.ID)
	s.Require().NoError(err)
	s.Nil(unchanged.SampleSize)
	counts, err := s.store.CountRecordsByStatus(s.ctx, nil)
	s.Require().NoError(err)
	s.Zero(counts.Total())
}

func (s *SamplerSuite) TestResamplingOverwritesSampleSize() {
	file := s.seedPopulation(30)
	svc := NewService(s.store)

	_, err := svc.BuildSample(s.ctx, file.ID, 0.5, models.StrategySystematic)
	s.Require().NoError(err)
	_, err = svc.BuildSample(s.ctx, file.ID, 0.1, models.StrategySystematic)
	s.Require().NoError(err)

	updated, err := s.store.FindFileByID(s.ctx, file.ID)
	s.Require().NoError(err)
	s.Require().NotNil(updated.SampleSize)
	// Overwritten to the latest run, not accumulated.
	s.Equal(3, *updated.SampleSize)

	// Old rows remain as history.
	views, err := svc.ListRecordsForFile(s.ctx, file.ID)
	s.Require().NoError(err)
	s.Len(views, 18)
}
