package domain

// Pagination defaults and bounds for candidate listing
const (
	DefaultPage      = 1
	DefaultLimit     = 10
	DashboardLimit   = 5
	MaxLimit         = 100
	MaxPage          = 10_000_000 // bounds the offset below 2^31
	DefaultSortBy    = "createdAt"
	DefaultSortOrder = "desc"
)

// SortFields lists the sortable candidate attributes by their API names.
var SortFields = []string{"name", "email", "experience", "createdAt", "updatedAt"}

// CandidateFilter describes one listing request. Zero values mean "not set"
// except for Page and Limit, which Normalize clamps.
type CandidateFilter struct {
	Search        string
	Status        string
	MinExperience *int
	MaxExperience *int
	Skills        []string

	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Normalize clamps pagination and resolves sort fallbacks.
func (f CandidateFilter) Normalize() CandidateFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.Limit < 1 {
		f.Limit = 1
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Status == "" {
		f.Status = StatusAll
	}
	if !isSortField(f.SortBy) {
		f.SortBy = DefaultSortBy
	}
	if f.SortOrder != "asc" {
		f.SortOrder = "desc"
	}
	return f
}

// Offset is the number of rows skipped before the requested page.
func (f CandidateFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

func isSortField(s string) bool {
	for _, f := range SortFields {
		if f == s {
			return true
		}
	}
	return false
}
