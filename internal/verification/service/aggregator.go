package service

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"seatcheck/internal/verification/models"
	dErrors "seatcheck/pkg/domain-errors"
)

// Progress reports a file's audit completion percentage: the count of
// verification records over the realized sample size, rounded. Returns 0
// when no sample has been built (nil or zero sampleSize) — never divides by
// zero.
func Progress(file *models.ProcessedFile, recordCount int) int {
	if file.SampleSize == nil || *file.SampleSize == 0 {
		return 0
	}
	return int(math.Round(float64(recordCount) / float64(*file.SampleSize) * 100))
}

// Summarize recomputes the system-level rollup from current store state.
// Nothing is cached; record volumes are modest and staleness would cost more
// than the recount. The three store reads are independent and run
// concurrently.
func (s *Service) Summarize(ctx context.Context) (*models.GlobalSummary, error) {
	ctx, span := s.tracer.Start(ctx, "verification.Summarize")
	defer span.End()
	start := time.Now()

	var (
		counts  models.StatusCounts
		files   []*models.ProcessedFile
		perFile map[int64]int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.store.CountRecordsByStatus(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		files, err = s.store.ListFiles(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		perFile, err = s.store.CountRecordsPerFile(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "summarize verification state")
	}

	summary := &models.GlobalSummary{
		Records:    counts,
		TotalFiles: len(files),
		Files:      make([]models.FileProgress, 0, len(files)),
	}
	for _, file := range files {
		if file.Status == models.FileStatusVerified {
			summary.VerifiedFiles++
		} else {
			summary.PendingFiles++
		}
		sampleSize := 0
		if file.SampleSize != nil {
			sampleSize = *file.SampleSize
		}
		summary.Files = append(summary.Files, models.FileProgress{
			FileID:       file.ID,
			Filename:     file.Filename,
			Status:       file.Status,
			SampleSize:   sampleSize,
			RecordsCount: file.RecordsCount,
			Progress:     Progress(file, perFile[file.ID]),
		})
	}

	if s.metrics != nil {
		s.metrics.ObserveSummarize(start)
	}
	return summary, nil
}
