package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"seatcheck/internal/catalog/models"
)

// Row is the seed shape for the in-memory catalog store. Category is a
// pointer to model rows ingested without one.
type Row struct {
	Year        int
	Round       int
	Rank        int
	Quota       string
	State       string
	CollegeName string
	Course      string
	Category    *string
}

// InMemory reimplements the catalog projections over a row slice. Test-only.
type InMemory struct {
	mu   sync.RWMutex
	rows []Row
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

// Seed appends rows to the dataset.
func (s *InMemory) Seed(rows ...Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
}

func categoryOf(r Row) string {
	if r.Category == nil {
		return models.DefaultCategory
	}
	return *r.Category
}

func (s *InMemory) EligibleSeats(_ context.Context, q models.EligibilityQuery) ([]models.EligibleSeat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type sliceKey struct {
		college, course, quota, category string
	}
	groups := map[sliceKey]*models.EligibleSeat{}
	for _, row := range s.rows {
		if row.Rank < q.Rank {
			continue
		}
		if q.Category != "" && q.Category != "all" {
			if row.Category != nil && *row.Category != q.Category {
				continue
			}
		}
		if q.Quota != "" && q.Quota != "all" && row.Quota != q.Quota {
			continue
		}
		key := sliceKey{row.CollegeName, row.Course, row.Quota, categoryOf(row)}
		seat, ok := groups[key]
		if !ok {
			seat = &models.EligibleSeat{
				College:    row.CollegeName,
				Course:     row.Course,
				Quota:      row.Quota,
				Category:   categoryOf(row),
				CutoffRank: row.Rank,
				Round:      row.Round,
				Year:       row.Year,
				State:      row.State,
			}
			groups[key] = seat
		}
		if row.Rank < seat.CutoffRank {
			seat.CutoffRank = row.Rank
		}
		if row.Round < seat.Round {
			seat.Round = row.Round
		}
		if row.Year < seat.Year {
			seat.Year = row.Year
		}
		seat.SeatsFilled++
	}

	seats := make([]models.EligibleSeat, 0, len(groups))
	for _, seat := range groups {
		seats = append(seats, *seat)
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i].CutoffRank < seats[j].CutoffRank })
	if q.Limit > 0 && len(seats) > q.Limit {
		seats = seats[:q.Limit]
	}
	return seats, nil
}

func (s *InMemory) ListColleges(_ context.Context) ([]models.College, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[models.College]bool{}
	var colleges []models.College
	for _, row := range s.rows {
		if row.CollegeName == "" {
			continue
		}
		c := models.College{Name: row.CollegeName, State: row.State, Quota: row.Quota}
		if !seen[c] {
			seen[c] = true
			colleges = append(colleges, c)
		}
	}
	sort.Slice(colleges, func(i, j int) bool { return colleges[i].Name < colleges[j].Name })
	return colleges, nil
}

func (s *InMemory) ListCourses(_ context.Context) ([]models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[string]int{}
	for _, row := range s.rows {
		if row.Course != "" {
			counts[row.Course]++
		}
	}
	courses := make([]models.Course, 0, len(counts))
	for name, count := range counts {
		courses = append(courses, models.Course{Name: name, CollegeCount: count})
	}
	sort.Slice(courses, func(i, j int) bool {
		if courses[i].CollegeCount != courses[j].CollegeCount {
			return courses[i].CollegeCount > courses[j].CollegeCount
		}
		return courses[i].Name < courses[j].Name
	})
	return courses, nil
}

func (s *InMemory) Statistics(_ context.Context) (*models.Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.Statistics{
		ByQuota:    map[string]int{},
		ByCategory: map[string]int{},
	}
	colleges := map[string]bool{}
	courses := map[string]bool{}
	for i, row := range s.rows {
		stats.TotalRecords++
		stats.ByQuota[row.Quota]++
		if row.Category != nil {
			stats.ByCategory[*row.Category]++
		}
		colleges[row.CollegeName] = true
		courses[row.Course] = true
		if i == 0 || row.Rank < stats.RankRange.Minimum {
			stats.RankRange.Minimum = row.Rank
		}
		if row.Rank > stats.RankRange.Maximum {
			stats.RankRange.Maximum = row.Rank
		}
	}
	stats.UniqueColleges = len(colleges)
	stats.UniqueCourses = len(courses)
	return stats, nil
}

func (s *InMemory) Cutoffs(_ context.Context, college string) ([]models.Cutoff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type sliceKey struct {
		course, category, quota string
		round, year             int
	}
	groups := map[sliceKey]int{}
	for _, row := range s.rows {
		if row.CollegeName != college {
			continue
		}
		key := sliceKey{row.Course, categoryOf(row), row.Quota, row.Round, row.Year}
		if best, ok := groups[key]; !ok || row.Rank < best {
			groups[key] = row.Rank
		}
	}

	cutoffs := make([]models.Cutoff, 0, len(groups))
	for key, rank := range groups {
		cutoffs = append(cutoffs, models.Cutoff{
			Course:     key.course,
			Category:   key.category,
			Quota:      key.quota,
			CutoffRank: rank,
			Round:      key.round,
			Year:       key.year,
		})
	}
	sort.Slice(cutoffs, func(i, j int) bool { return cutoffs[i].CutoffRank < cutoffs[j].CutoffRank })
	return cutoffs, nil
}

func (s *InMemory) SearchColleges(_ context.Context, query string, limit int) ([]models.College, error) {
	colleges, err := s.ListColleges(context.Background())
	if err != nil {
		return nil, err
	}
	var out []models.College
	for _, c := range colleges {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(query)) {
			out = append(out, c)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *InMemory) SearchCourses(_ context.Context, query string, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]bool{}
	var out []string
	for _, row := range s.rows {
		if !strings.Contains(strings.ToLower(row.Course), strings.ToLower(query)) {
			continue
		}
		if seen[row.Course] {
			continue
		}
		seen[row.Course] = true
		out = append(out, row.Course)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	sort.Strings(out)
	return out, nil
}
