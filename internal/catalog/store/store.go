package store

import (
	"context"

	"seatcheck/internal/catalog/models"
)

// Store reads catalog projections from the counselling dataset.
type Store interface {
	// EligibleSeats returns the college/course combinations reachable at the
	// query's rank, best cutoff first, truncated to the query limit.
	EligibleSeats(ctx context.Context, q models.EligibilityQuery) ([]models.EligibleSeat, error)

	// ListColleges returns every distinct college, name-ordered.
	ListColleges(ctx context.Context) ([]models.College, error)

	// ListCourses returns every distinct course, highest admission volume
	// first.
	ListCourses(ctx context.Context) ([]models.Course, error)

	// Statistics computes the dataset rollup.
	Statistics(ctx context.Context) (*models.Statistics, error)

	// Cutoffs returns a college's per-slice cutoffs, best rank first. An
	// unknown college yields an empty slice.
	Cutoffs(ctx context.Context, college string) ([]models.Cutoff, error)

	// SearchColleges matches college names by substring, capped at limit.
	SearchColleges(ctx context.Context, query string, limit int) ([]models.College, error)

	// SearchCourses matches course names by substring, capped at limit.
	SearchCourses(ctx context.Context, query string, limit int) ([]string, error)
}
