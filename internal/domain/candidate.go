package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrEmailConflict = errors.New("email already exists")
)

// Candidate statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusArchived = "archived"

	// StatusAll disables the status filter when listing.
	StatusAll = "all"
)

// Experience bounds in years, inclusive.
const (
	MinExperience = 0
	MaxExperience = 50
)

type Candidate struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Skills     Skills    `json:"skills"`
	ResumeLink *string   `json:"resumeLink"`
	Experience int       `json:"experience"`
	Status     string    `json:"status"`
	Notes      *string   `json:"notes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CandidateInput is a create or update payload after transport decoding.
// Skills are already normalized; Experience is nil when the caller did not
// supply a usable number.
type CandidateInput struct {
	Name       string `validate:"trimmed_min=2"`
	Email      string `validate:"basic_email"`
	Skills     Skills `validate:"min=1"`
	ResumeLink string
	Experience *int   `validate:"omitempty,min=0,max=50"`
	Status     string `validate:"omitempty,oneof=active inactive archived"`
	Notes      string
}

// Bulk action tags
const (
	BulkDelete       = "delete"
	BulkUpdateStatus = "update_status"
	BulkArchive      = "archive"
	BulkUnarchive    = "unarchive"
)

type BulkRequest struct {
	Action string    `json:"action"`
	IDs    []string  `json:"ids"`
	Data   *BulkData `json:"data,omitempty"`
}

type BulkData struct {
	Status string `json:"status"`
}

type BulkResult struct {
	Message  string `json:"message"`
	Affected int64  `json:"affected"`
}

// CandidateStats holds the raw aggregates both stats endpoints are built from.
type CandidateStats struct {
	Total             int64
	Active            int64
	Inactive          int64
	Archived          int64
	AverageExperience float64
}

// StatsOverview is the full aggregate shape, inactive included.
type StatsOverview struct {
	Total             int64   `json:"total"`
	Active            int64   `json:"active"`
	Inactive          int64   `json:"inactive"`
	Archived          int64   `json:"archived"`
	AverageExperience float64 `json:"averageExperience"`
}

// DashboardStats is the reduced shape rendered by the dashboard cards.
type DashboardStats struct {
	Total             int64   `json:"total"`
	Active            int64   `json:"active"`
	Archived          int64   `json:"archived"`
	AverageExperience float64 `json:"averageExperience"`
}

type CandidateRepository interface {
	List(ctx context.Context, filter CandidateFilter) ([]Candidate, int64, error)
	GetByID(ctx context.Context, id string) (*Candidate, error)
	Create(ctx context.Context, candidate *Candidate) error
	Update(ctx context.Context, candidate *Candidate) error
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) (int64, error)
	BulkSetStatus(ctx context.Context, ids []string, status string, at time.Time) (int64, error)
	Stats(ctx context.Context) (*CandidateStats, error)
}

type CandidateUsecase interface {
	List(ctx context.Context, filter CandidateFilter) (*PaginatedResult[Candidate], error)
	Get(ctx context.Context, id string) (*Candidate, error)
	Create(ctx context.Context, input CandidateInput) (*Candidate, error)
	Update(ctx context.Context, id string, input CandidateInput) (*Candidate, error)
	Delete(ctx context.Context, id string) error
	Bulk(ctx context.Context, req BulkRequest) (*BulkResult, error)
	Overview(ctx context.Context) (*StatsOverview, error)
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

// IsValidStatus reports whether s is one of the persisted statuses.
func IsValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusArchived:
		return true
	}
	return false
}
