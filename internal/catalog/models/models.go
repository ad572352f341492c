// Package models holds the read-side shapes of the counselling catalog:
// eligibility lookups, cutoff reports, and dataset statistics. Everything
// here is derived from counselling_data; nothing is written back.
package models

import dErrors "seatcheck/pkg/domain-errors"

// DefaultCategory substitutes for counselling rows ingested without a
// category, which the source PDFs publish as the open/general list.
const DefaultCategory = "GENERAL"

// SearchType scopes a catalog search.
type SearchType string

const (
	SearchAll      SearchType = "all"
	SearchColleges SearchType = "college"
	SearchCourses  SearchType = "course"
)

// ParseSearchType validates a caller-supplied search type, defaulting empty
// input to all.
func ParseSearchType(s string) (SearchType, error) {
	switch SearchType(s) {
	case "":
		return SearchAll, nil
	case SearchAll, SearchColleges, SearchCourses:
		return SearchType(s), nil
	default:
		return "", dErrors.Newf(dErrors.CodeInvalidArgument, "unknown search type %q", s)
	}
}

// EligibilityQuery is the filter set for an eligibility check. Category and
// Quota are optional; "all" means unfiltered, same as empty.
type EligibilityQuery struct {
	Rank     int
	Category string
	Quota    string
	Limit    int
}

// EligibleSeat is one college/course combination a candidate's rank reaches,
// with the observed cutoff for that combination.
type EligibleSeat struct {
	College     string `json:"college"`
	Course      string `json:"course"`
	Quota       string `json:"quota"`
	CutoffRank  int    `json:"cutoffRank"`
	Category    string `json:"category"`
	Round       int    `json:"round"`
	Year        int    `json:"year"`
	State       string `json:"state"`
	SeatsFilled int    `json:"seatsFilled"`
}

// EligibilityResult is the eligibility endpoint response body.
type EligibilityResult struct {
	Rank          int            `json:"rank"`
	TotalEligible int            `json:"totalEligible"`
	Colleges      []EligibleSeat `json:"colleges"`
}

// College is one distinct institution in the dataset.
type College struct {
	Name  string `json:"name"`
	State string `json:"state"`
	Quota string `json:"quota"`
}

// Course is one distinct course with its admission volume.
type Course struct {
	Name         string `json:"name"`
	CollegeCount int    `json:"collegeCount"`
}

// RankRange spans the best and worst allotted ranks in the dataset.
type RankRange struct {
	Minimum int `json:"minimum"`
	Maximum int `json:"maximum"`
}

// Statistics is the dataset-level rollup.
type Statistics struct {
	TotalRecords   int            `json:"totalRecords"`
	ByQuota        map[string]int `json:"byQuota"`
	ByCategory     map[string]int `json:"byCategory"`
	UniqueColleges int            `json:"uniqueColleges"`
	UniqueCourses  int            `json:"uniqueCourses"`
	RankRange      RankRange      `json:"rankRange"`
}

// Cutoff is the worst rank admitted for one course/category/quota slice of a
// college in a given round.
type Cutoff struct {
	Course     string `json:"course"`
	Category   string `json:"category"`
	Quota      string `json:"quota"`
	CutoffRank int    `json:"cutoffRank"`
	Round      int    `json:"round"`
	Year       int    `json:"year"`
}

// CutoffReport groups a college's cutoffs for the cutoff endpoint.
type CutoffReport struct {
	College string   `json:"college"`
	Cutoffs []Cutoff `json:"cutoffs"`
}

// SearchResults carries college and course matches for a free-text query.
type SearchResults struct {
	Colleges []College `json:"colleges"`
	Courses  []string  `json:"courses"`
}
