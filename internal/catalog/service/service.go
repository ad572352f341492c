// Package service implements the catalog read API: eligibility checks,
// college and course listings, cutoff reports, dataset statistics, and
// free-text search over the counselling dataset.
package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	catalogMetrics "seatcheck/internal/catalog/metrics"
	"seatcheck/internal/catalog/models"
	"seatcheck/internal/catalog/store"
	dErrors "seatcheck/pkg/domain-errors"
)

const (
	defaultEligibilityLimit = 100
	searchResultLimit       = 20
)

// EligibilityCache is the read-through cache in front of eligibility
// lookups. Both methods tolerate a nil receiver.
type EligibilityCache interface {
	Get(ctx context.Context, q models.EligibilityQuery) (*models.EligibilityResult, error)
	Set(ctx context.Context, q models.EligibilityQuery, result *models.EligibilityResult) error
}

// Service answers catalog queries.
type Service struct {
	store   store.Store
	cache   EligibilityCache
	metrics *catalogMetrics.Metrics
	tracer  trace.Tracer
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithCache attaches the eligibility cache.
func WithCache(cache EligibilityCache) Option {
	return func(s *Service) { s.cache = cache }
}

// WithMetrics attaches catalog metrics.
func WithMetrics(m *catalogMetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a catalog Service backed by st.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		tracer: otel.Tracer("seatcheck/catalog"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckEligibility returns the college/course combinations reachable at the
// given rank, best cutoff first. Results are served from cache when present;
// cache failures fall through to the database rather than failing the query.
func (s *Service) CheckEligibility(ctx context.Context, q models.EligibilityQuery) (*models.EligibilityResult, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.CheckEligibility")
	defer span.End()
	start := time.Now()

	if q.Rank <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidArgument, "rank must be a positive integer")
	}
	if q.Limit <= 0 {
		q.Limit = defaultEligibilityLimit
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, q); err == nil && cached != nil {
			if s.metrics != nil {
				s.metrics.CacheHits.Inc()
				s.metrics.ObserveEligibility(start)
			}
			return cached, nil
		}
	}
	if s.metrics != nil {
		s.metrics.CacheMisses.Inc()
	}

	seats, err := s.store.EligibleSeats(ctx, q)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "check eligibility")
	}
	if seats == nil {
		seats = []models.EligibleSeat{}
	}
	result := &models.EligibilityResult{
		Rank:          q.Rank,
		TotalEligible: len(seats),
		Colleges:      seats,
	}

	if s.cache != nil {
		// Best effort; a failed write only costs the next caller a recompute.
		_ = s.cache.Set(ctx, q, result)
	}
	if s.metrics != nil {
		s.metrics.IncrementQuery("check_eligibility")
		s.metrics.ObserveEligibility(start)
	}
	return result, nil
}

// ListColleges returns every distinct college in the dataset.
func (s *Service) ListColleges(ctx context.Context) ([]models.College, error) {
	colleges, err := s.store.ListColleges(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "list colleges")
	}
	if colleges == nil {
		colleges = []models.College{}
	}
	if s.metrics != nil {
		s.metrics.IncrementQuery("list_colleges")
	}
	return colleges, nil
}

// ListCourses returns every distinct course, highest admission volume first.
func (s *Service) ListCourses(ctx context.Context) ([]models.Course, error) {
	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "list courses")
	}
	if courses == nil {
		courses = []models.Course{}
	}
	if s.metrics != nil {
		s.metrics.IncrementQuery("list_courses")
	}
	return courses, nil
}

// Statistics computes the dataset-level rollup.
func (s *Service) Statistics(ctx context.Context) (*models.Statistics, error) {
	stats, err := s.store.Statistics(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "compute statistics")
	}
	if s.metrics != nil {
		s.metrics.IncrementQuery("statistics")
	}
	return stats, nil
}

// Cutoffs returns a college's cutoff report. A college with no rows in the
// dataset is not found.
func (s *Service) Cutoffs(ctx context.Context, college string) (*models.CutoffReport, error) {
	if college == "" {
		return nil, dErrors.New(dErrors.CodeInvalidArgument, "college name is required")
	}
	cutoffs, err := s.store.Cutoffs(ctx, college)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "load cutoffs")
	}
	if len(cutoffs) == 0 {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "college %q not found", college)
	}
	if s.metrics != nil {
		s.metrics.IncrementQuery("cutoffs")
	}
	return &models.CutoffReport{College: college, Cutoffs: cutoffs}, nil
}

// Search matches colleges and courses against a free-text query, scoped by
// searchType.
func (s *Service) Search(ctx context.Context, query string, searchType models.SearchType) (*models.SearchResults, error) {
	if query == "" {
		return nil, dErrors.New(dErrors.CodeInvalidArgument, "search query is required")
	}
	if _, err := models.ParseSearchType(string(searchType)); err != nil {
		return nil, err
	}

	results := &models.SearchResults{
		Colleges: []models.College{},
		Courses:  []string{},
	}
	if searchType == models.SearchAll || searchType == models.SearchColleges {
		colleges, err := s.store.SearchColleges(ctx, query, searchResultLimit)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodePersistence, "search colleges")
		}
		if colleges != nil {
			results.Colleges = colleges
		}
	}
	if searchType == models.SearchAll || searchType == models.SearchCourses {
		courses, err := s.store.SearchCourses(ctx, query, searchResultLimit)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodePersistence, "search courses")
		}
		if courses != nil {
			results.Courses = courses
		}
	}
	if s.metrics != nil {
		s.metrics.IncrementQuery("search")
	}
	return results, nil
}
