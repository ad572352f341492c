package store

import (
	"context"
	"database/sql"
	"fmt"

	"seatcheck/internal/catalog/models"
)

// Postgres reads catalog projections straight from counselling_data. All
// queries are aggregate reads; the catalog never takes a transaction.
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a Postgres-backed catalog store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) EligibleSeats(ctx context.Context, q models.EligibilityQuery) ([]models.EligibleSeat, error) {
	query := `
		SELECT college_name, course, quota, MIN(rank) AS cutoff_rank,
		       COALESCE(category, 'GENERAL') AS category,
		       MIN(round) AS round, MIN(year) AS year,
		       COALESCE(MIN(state), '') AS state,
		       COUNT(*) AS seats_filled
		FROM counselling_data
		WHERE rank >= $1`
	args := []any{q.Rank}

	if q.Category != "" && q.Category != "all" {
		args = append(args, q.Category)
		query += fmt.Sprintf(" AND (category = $%d OR category IS NULL)", len(args))
	}
	if q.Quota != "" && q.Quota != "all" {
		args = append(args, q.Quota)
		query += fmt.Sprintf(" AND quota = $%d", len(args))
	}

	args = append(args, q.Limit)
	query += fmt.Sprintf(`
		GROUP BY college_name, course, quota, category
		ORDER BY cutoff_rank ASC
		LIMIT $%d`, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query eligible seats: %w", err)
	}
	defer rows.Close()

	var seats []models.EligibleSeat
	for rows.Next() {
		var seat models.EligibleSeat
		if err := rows.Scan(
			&seat.College, &seat.Course, &seat.Quota, &seat.CutoffRank,
			&seat.Category, &seat.Round, &seat.Year, &seat.State, &seat.SeatsFilled,
		); err != nil {
			return nil, fmt.Errorf("scan eligible seat: %w", err)
		}
		seats = append(seats, seat)
	}
	return seats, rows.Err()
}

func (s *Postgres) ListColleges(ctx context.Context) ([]models.College, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT college_name, COALESCE(state, ''), quota
		FROM counselling_data
		WHERE college_name IS NOT NULL
		ORDER BY college_name`)
	if err != nil {
		return nil, fmt.Errorf("query colleges: %w", err)
	}
	defer rows.Close()

	var colleges []models.College
	for rows.Next() {
		var c models.College
		if err := rows.Scan(&c.Name, &c.State, &c.Quota); err != nil {
			return nil, fmt.Errorf("scan college: %w", err)
		}
		colleges = append(colleges, c)
	}
	return colleges, rows.Err()
}

func (s *Postgres) ListCourses(ctx context.Context) ([]models.Course, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT course, COUNT(*) AS college_count
		FROM counselling_data
		WHERE course IS NOT NULL
		GROUP BY course
		ORDER BY college_count DESC`)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.Name, &c.CollegeCount); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (s *Postgres) Statistics(ctx context.Context) (*models.Statistics, error) {
	stats := &models.Statistics{
		ByQuota:    map[string]int{},
		ByCategory: map[string]int{},
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(DISTINCT college_name),
		       COUNT(DISTINCT course),
		       COALESCE(MIN(rank), 0),
		       COALESCE(MAX(rank), 0)
		FROM counselling_data`).Scan(
		&stats.TotalRecords, &stats.UniqueColleges, &stats.UniqueCourses,
		&stats.RankRange.Minimum, &stats.RankRange.Maximum,
	)
	if err != nil {
		return nil, fmt.Errorf("query statistics totals: %w", err)
	}

	if err := s.countBy(ctx, `SELECT quota, COUNT(*) FROM counselling_data GROUP BY quota`, stats.ByQuota); err != nil {
		return nil, err
	}
	byCategory := `
		SELECT category, COUNT(*)
		FROM counselling_data
		WHERE category IS NOT NULL
		GROUP BY category`
	if err := s.countBy(ctx, byCategory, stats.ByCategory); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Postgres) countBy(ctx context.Context, query string, into map[string]int) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query grouped counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scan grouped count: %w", err)
		}
		into[key] = count
	}
	return rows.Err()
}

func (s *Postgres) Cutoffs(ctx context.Context, college string) ([]models.Cutoff, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT course, COALESCE(category, 'GENERAL'), quota,
		       MIN(rank) AS cutoff_rank, round, year
		FROM counselling_data
		WHERE college_name = $1
		GROUP BY course, category, quota, round, year
		ORDER BY cutoff_rank ASC`, college)
	if err != nil {
		return nil, fmt.Errorf("query cutoffs: %w", err)
	}
	defer rows.Close()

	var cutoffs []models.Cutoff
	for rows.Next() {
		var c models.Cutoff
		if err := rows.Scan(&c.Course, &c.Category, &c.Quota, &c.CutoffRank, &c.Round, &c.Year); err != nil {
			return nil, fmt.Errorf("scan cutoff: %w", err)
		}
		cutoffs = append(cutoffs, c)
	}
	return cutoffs, rows.Err()
}

func (s *Postgres) SearchColleges(ctx context.Context, query string, limit int) ([]models.College, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT college_name, COALESCE(state, ''), quota
		FROM counselling_data
		WHERE college_name ILIKE '%' || $1 || '%'
		LIMIT $2`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search colleges: %w", err)
	}
	defer rows.Close()

	var colleges []models.College
	for rows.Next() {
		var c models.College
		if err := rows.Scan(&c.Name, &c.State, &c.Quota); err != nil {
			return nil, fmt.Errorf("scan college: %w", err)
		}
		colleges = append(colleges, c)
	}
	return colleges, rows.Err()
}

func (s *Postgres) SearchCourses(ctx context.Context, query string, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT course
		FROM counselling_data
		WHERE course ILIKE '%' || $1 || '%'
		LIMIT $2`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}
	defer rows.Close()

	var courses []string
	for rows.Next() {
		var course string
		if err := rows.Scan(&course); err != nil {
			return nil, fmt.Errorf("scan course name: %w", err)
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}
