package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"seatcheck/internal/audit"
	"seatcheck/internal/verification/models"
	dErrors "seatcheck/pkg/domain-errors"
)

// sampleSizeFor computes how many records a rate draws from a population:
// max(1, floor(n*rate)). Every non-empty population yields at least one.
func sampleSizeFor(population int, rate float64) int {
	size := int(float64(population) * rate)
	if size < 1 {
		size = 1
	}
	return size
}

// selectSystematic walks the id-ordered population at stride
// floor(n/size), starting at index 0, until size items are selected or the
// population is exhausted. A stride of 0 (size exceeding the population) is
// clamped to 1 to guarantee forward progress.
func selectSystematic(ids []int64, size int) []int64 {
	step := len(ids) / size
	if step < 1 {
		step = 1
	}
	out := make([]int64, 0, size)
	for i := 0; i < len(ids) && len(out) < size; i += step {
		out = append(out, ids[i])
	}
	return out
}

// selectRandom takes the first size elements of a uniformly shuffled
// permutation. Selection varies call to call unless the service was built
// with a fixed seed; freshness across repeated audits is the point.
func selectRandom(ids []int64, size int, rng *rand.Rand) []int64 {
	perm := rng.Perm(len(ids))
	out := make([]int64, 0, size)
	for _, idx := range perm[:size] {
		out = append(out, ids[idx])
	}
	return out
}

// pageNumberFor maps sample position i of n onto an assumed 100-page source
// document: floor((i/n)*100)+1. A placeholder estimate, not a page lookup;
// it gives auditors a stable, non-decreasing ordering to work through.
func pageNumberFor(i, n int) int {
	return int(float64(i)/float64(n)*100) + 1
}

// BuildSample draws a sample from the file's record population and persists
// one pending verification record per selected item. The bulk insert and the
// file's sample-size overwrite share a transaction, so a failed run leaves
// neither.
func (s *Service) BuildSample(ctx context.Context, fileID int64, sampleRate float64, strategy models.Strategy) (*models.SampleResult, error) {
	ctx, span := s.tracer.Start(ctx, "verification.BuildSample")
	defer span.End()
	start := time.Now()

	if sampleRate <= 0 || sampleRate > 1 {
		return nil, dErrors.Newf(dErrors.CodeInvalidArgument, "sample rate %v outside (0, 1]", sampleRate)
	}
	if strategy != models.StrategySystematic && strategy != models.StrategyRandom {
		return nil, dErrors.Newf(dErrors.CodeInvalidArgument, "unknown sampling strategy %q", strategy)
	}

	file, err := s.store.FindFileByID(ctx, fileID)
	if err != nil {
		return nil, translateStoreErr(err, "processed file")
	}

	ids, err := s.store.PopulationIDs(ctx, file)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "resolve sample population")
	}
	if len(ids) == 0 {
		return nil, dErrors.Newf(dErrors.CodeEmptyPopulation, "no records found for file %d", fileID)
	}

	size := sampleSizeFor(len(ids), sampleRate)
	var selected []int64
	switch strategy {
	case models.StrategySystematic:
		selected = selectSystematic(ids, size)
	case models.StrategyRandom:
		selected = selectRandom(ids, size, rand.New(rand.NewSource(s.seed())))
	}

	newRecords := make([]models.NewVerificationRecord, len(selected))
	for i, counsellingID := range selected {
		newRecords[i] = models.NewVerificationRecord{
			CounsellingID:   counsellingID,
			ProcessedFileID: fileID,
			PageNumber:      pageNumberFor(i, len(selected)),
		}
	}

	var created int
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		inserted, err := s.store.InsertRecords(ctx, newRecords)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodePersistence, "insert verification records")
		}
		created = len(inserted)
		// Overwrite, not accumulate: re-sampling replaces the realized size
		// while prior verification rows stay behind as history.
		if _, err := s.store.UpdateFileSampleSize(ctx, fileID, created); err != nil {
			return dErrors.Wrap(err, dErrors.CodePersistence, "update file sample size")
		}
		return nil
	})
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			return nil, dErrors.Wrap(err, dErrors.CodePersistence, "sample transaction")
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementSampleBuilt(created)
		s.metrics.ObserveBuildSample(start)
	}
	if s.trail != nil {
		s.trail.Record(ctx, audit.Event{
			Action: audit.ActionSampleBuilt,
			FileID: fileID,
			Detail: fmt.Sprintf("%d of %d records, %s", created, len(ids), strategy),
		})
	}

	return &models.SampleResult{
		SampleSize:      created,
		TotalPopulation: len(ids),
		SampleRate:      sampleRate,
		Strategy:        strategy,
	}, nil
}
