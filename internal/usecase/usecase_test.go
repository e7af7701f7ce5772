package usecase_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"testing"
	"time"

	"hirepath-backend/internal/domain"
	"hirepath-backend/internal/usecase"
	"hirepath-backend/pkg/apperror"
	"hirepath-backend/pkg/audit"
	"hirepath-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// Mock Repositories
type MockCandidateRepo struct {
	mock.Mock
}

func (m *MockCandidateRepo) List(ctx context.Context, filter domain.CandidateFilter) ([]domain.Candidate, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Candidate), args.Get(1).(int64), args.Error(2)
}

func (m *MockCandidateRepo) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) Create(ctx context.Context, c *domain.Candidate) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCandidateRepo) Update(ctx context.Context, c *domain.Candidate) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCandidateRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCandidateRepo) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCandidateRepo) BulkSetStatus(ctx context.Context, ids []string, status string, at time.Time) (int64, error) {
	args := m.Called(ctx, ids, status, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCandidateRepo) Stats(ctx context.Context) (*domain.CandidateStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateStats), args.Error(1)
}

const (
	idA = "0d5e1c1e-8f3b-4c55-9f61-3f1b0a9d0001"
	idB = "0d5e1c1e-8f3b-4c55-9f61-3f1b0a9d0002"
)

func newCandidateUsecase(repo *MockCandidateRepo) domain.CandidateUsecase {
	return usecase.NewCandidateUsecase(repo, validation.New(), audit.Nop())
}

func intPtr(v int) *int { return &v }

func validInput() domain.CandidateInput {
	return domain.CandidateInput{
		Name:       "  Ann Lee ",
		Email:      " Ann@Example.COM ",
		Skills:     domain.Skills{"Go", "SQL"},
		ResumeLink: "  ",
		Experience: intPtr(4),
		Notes:      " strong backend ",
	}
}

func assertAppError(t *testing.T, err error, code int, message string) *apperror.AppError {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, message, appErr.Message)
	return appErr
}

func TestCandidateList(t *testing.T) {
	t.Run("Should normalize the filter and compute pagination", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := newCandidateUsecase(repo)

		want := domain.CandidateFilter{Status: "all", Page: 1, Limit: 100, SortBy: "createdAt", SortOrder: "desc"}
		repo.On("List", mock.Anything, want).Return([]domain.Candidate{{ID: idA}}, int64(250), nil)

		res, err := uc.List(context.Background(), domain.CandidateFilter{Page: -3, Limit: 500, SortBy: "bogus"})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Pagination.Page)
		assert.Equal(t, 100, res.Pagination.Limit)
		assert.Equal(t, int64(250), res.Pagination.Total)
		assert.Equal(t, 3, res.Pagination.TotalPages)
		assert.Len(t, res.Data, 1)
		repo.AssertExpectations(t)
	})

	t.Run("Should hide storage failures behind a generic message", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := newCandidateUsecase(repo)
		repo.On("List", mock.Anything, mock.Anything).Return(nil, int64(0), errors.New("dial tcp: refused"))

		_, err := uc.List(context.Background(), domain.CandidateFilter{})
		assertAppError(t, err, http.StatusInternalServerError, "Failed to fetch candidates")
	})
}

func TestCandidateGet(t *testing.T) {
	repo := new(MockCandidateRepo)
	uc := newCandidateUsecase(repo)
	repo.On("GetByID", mock.Anything, idA).Return(&domain.Candidate{ID: idA, Name: "Ann"}, nil)
	repo.On("GetByID", mock.Anything, idB).Return(nil, domain.ErrNotFound)

	c, err := uc.Get(context.Background(), idA)
	require.NoError(t, err)
	assert.Equal(t, "Ann", c.Name)

	_, err = uc.Get(context.Background(), idB)
	assertAppError(t, err, http.StatusNotFound, "Candidate not found")
}

func TestCandidateCreate(t *testing.T) {
	t.Run("Should store the normalized record", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := newCandidateUsecase(repo)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Candidate")).Return(nil)

		input := validInput()
		input.Status = "archived"
		c, err := uc.Create(context.Background(), input)
		require.NoError(t, err)

		assert.NotEmpty(t, c.ID)
		assert.Equal(t, "Ann Lee", c.Name)
		assert.Equal(t, "ann@example.com", c.Email)
		assert.Equal(t, domain.Skills{"Go", "SQL"}, c.Skills)
		assert.Nil(t, c.ResumeLink)
		require.NotNil(t, c.Notes)
		assert.Equal(t, "strong backend", *c.Notes)
		assert.Equal(t, 4, c.Experience)
		assert.Equal(t, domain.StatusActive, c.Status)
		assert.False(t, c.CreatedAt.IsZero())
		assert.Equal(t, c.CreatedAt, c.UpdatedAt)
		repo.AssertExpectations(t)
	})

	t.Run("Should default missing experience to zero", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := newCandidateUsecase(repo)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		input := validInput()
		input.Experience = nil
		c, err := uc.Create(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, 0, c.Experience)
	})

	t.Run("Should report every failed rule together", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := newCandidateUsecase(repo)

		_, err := uc.Create(context.Background(), domain.CandidateInput{
			Name:       " A ",
			Email:      "not-an-email",
			Experience: intPtr(51),
		})
		appErr := assertAppError(t, err, http.StatusBadRequest, "Validation failed")
		assert.Equal(t, []string{
			"Name must be at least 2 characters long",
			"Valid email is required",
			"Skills are required",
			"Experience must be between 0 and 50 years",
		}, appErr.Details)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should map duplicate email to conflict", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := newCandidateUsecase(repo)
		repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrEmailConflict)

		_, err := uc.Create(context.Background(), validInput())
		assertAppError(t, err, http.StatusConflict, "Email already exists")
	})
}

func TestCandidateUpdate(t *testing.T) {
	t.Run("Should reset a missing status to active", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := newCandidateUsecase(repo)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(c *domain.Candidate) bool {
			return c.ID == idA && c.Status == domain.StatusActive && !c.UpdatedAt.IsZero()
		})).Return(nil)

		c, err := uc.Update(context.Background(), idA, validInput())
		require.NoError(t, err)
		assert.Equal(t, domain.StatusActive, c.Status)
		repo.AssertExpectations(t)
	})

	t.Run("Should keep a supplied status", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := newCandidateUsecase(repo)
		repo.On("Update", mock.Anything, mock.Anything).Return(nil)

		input := validInput()
		input.Status = domain.StatusInactive
		c, err := uc.Update(context.Background(), idA, input)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInactive, c.Status)
	})

	t.Run("Should reject an unknown status", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := newCandidateUsecase(repo)

		input := validInput()
		input.Status = "hired"
		_, err := uc.Update(context.Background(), idA, input)
		appErr := assertAppError(t, err, http.StatusBadRequest, "Validation failed")
		assert.Equal(t, []string{"Status must be one of: active, inactive, archived"}, appErr.Details)
	})

	t.Run("Should trim a padded email before validating it", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := newCandidateUsecase(repo)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(c *domain.Candidate) bool {
			return c.Email == "ann@example.com"
		})).Return(nil)

		input := validInput()
		input.Email = "\t ANN@example.com  "
		c, err := uc.Update(context.Background(), idA, input)
		require.NoError(t, err)
		assert.Equal(t, "ann@example.com", c.Email)
		repo.AssertExpectations(t)
	})

	t.Run("Should surface missing rows as not found", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := newCandidateUsecase(repo)
		repo.On("Update", mock.Anything, mock.Anything).Return(domain.ErrNotFound)

		_, err := uc.Update(context.Background(), idB, validInput())
		assertAppError(t, err, http.StatusNotFound, "Candidate not found")
	})
}

func TestCandidateDelete(t *testing.T) {
	repo := new(MockCandidateRepo)
	uc := newCandidateUsecase(repo)
	repo.On("Delete", mock.Anything, idA).Return(nil)
	repo.On("Delete", mock.Anything, idB).Return(domain.ErrNotFound)

	assert.NoError(t, uc.Delete(context.Background(), idA))
	assertAppError(t, uc.Delete(context.Background(), idB), http.StatusNotFound, "Candidate not found")
}

func TestCandidateBulk(t *testing.T) {
	ctx := context.Background()

	t.Run("Should require action and ids", func(t *testing.T) {
		uc := newCandidateUsecase(new(MockCandidateRepo))

		_, err := uc.Bulk(ctx, domain.BulkRequest{IDs: []string{idA}})
		assertAppError(t, err, http.StatusBadRequest, "Action and ids array are required")

		_, err = uc.Bulk(ctx, domain.BulkRequest{Action: domain.BulkDelete})
		assertAppError(t, err, http.StatusBadRequest, "Action and ids array are required")
	})

	t.Run("Should delete in one batch and skip malformed ids", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := newCandidateUsecase(repo)
		repo.On("BulkDelete", mock.Anything, []string{idA, idB}).Return(int64(2), nil)

		res, err := uc.Bulk(ctx, domain.BulkRequest{Action: domain.BulkDelete, IDs: []string{idA, "nope", idB}})
		require.NoError(t, err)
		assert.Equal(t, "3 candidates deleted successfully", res.Message)
		assert.Equal(t, int64(2), res.Affected)
		repo.AssertExpectations(t)
	})

	t.Run("Should require a valid status for update_status", func(t *testing.T) {
		uc := newCandidateUsecase(new(MockCandidateRepo))

		_, err := uc.Bulk(ctx, domain.BulkRequest{Action: domain.BulkUpdateStatus, IDs: []string{idA}})
		assertAppError(t, err, http.StatusBadRequest, "Status is required for bulk update")

		_, err = uc.Bulk(ctx, domain.BulkRequest{Action: domain.BulkUpdateStatus, IDs: []string{idA}, Data: &domain.BulkData{Status: "hired"}})
		assertAppError(t, err, http.StatusBadRequest, "Status must be one of: active, inactive, archived")
	})

	t.Run("Should set the target status for each status action", func(t *testing.T) {
		cases := []struct {
			req    domain.BulkRequest
			status string
			msg    string
		}{
			{domain.BulkRequest{Action: domain.BulkUpdateStatus, IDs: []string{idA}, Data: &domain.BulkData{Status: "inactive"}}, "inactive", "1 candidates updated successfully"},
			{domain.BulkRequest{Action: domain.BulkArchive, IDs: []string{idA, idB}}, "archived", "2 candidates archived successfully"},
			{domain.BulkRequest{Action: domain.BulkUnarchive, IDs: []string{idB}}, "active", "1 candidates unarchived successfully"},
		}

		for _, tc := range cases {
			repo := new(MockCandidateRepo)
			uc := newCandidateUsecase(repo)
			repo.On("BulkSetStatus", mock.Anything, tc.req.IDs, tc.status, mock.AnythingOfType("time.Time")).
				Return(int64(len(tc.req.IDs)), nil)

			res, err := uc.Bulk(ctx, tc.req)
			require.NoError(t, err)
			assert.Equal(t, tc.msg, res.Message)
			repo.AssertExpectations(t)
		}
	})

	t.Run("Should reject unknown actions", func(t *testing.T) {
		uc := newCandidateUsecase(new(MockCandidateRepo))
		_, err := uc.Bulk(ctx, domain.BulkRequest{Action: "promote", IDs: []string{idA}})
		assertAppError(t, err, http.StatusBadRequest, "Invalid bulk action")
	})

	t.Run("Should report batch failures as internal", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := newCandidateUsecase(repo)
		repo.On("BulkDelete", mock.Anything, mock.Anything).Return(int64(0), errors.New("deadlock"))

		_, err := uc.Bulk(ctx, domain.BulkRequest{Action: domain.BulkDelete, IDs: []string{idA}})
		assertAppError(t, err, http.StatusInternalServerError, "Failed to perform bulk operation")
	})
}

func TestCandidateStats(t *testing.T) {
	repo := new(MockCandidateRepo)
	uc := newCandidateUsecase(repo)
	repo.On("Stats", mock.Anything).Return(&domain.CandidateStats{
		Total: 10, Active: 6, Inactive: 1, Archived: 3, AverageExperience: 5.5,
	}, nil)

	overview, err := uc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &domain.StatsOverview{Total: 10, Active: 6, Inactive: 1, Archived: 3, AverageExperience: 5.5}, overview)

	dash, err := uc.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &domain.DashboardStats{Total: 10, Active: 6, Archived: 3, AverageExperience: 5.5}, dash)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthCheck(t *testing.T) {
	ok := usecase.NewHealthUsecase(stubPinger{}).Check(context.Background())
	assert.True(t, ok.Healthy())
	assert.Equal(t, "connected", ok.Database)

	down := usecase.NewHealthUsecase(stubPinger{err: errors.New("timeout")}).Check(context.Background())
	assert.False(t, down.Healthy())
	assert.Equal(t, "DEGRADED", down.Status)
}

func exportFixture() []domain.Candidate {
	notes := "speaks, \"quoted\""
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return []domain.Candidate{
		{Name: "Ann Lee", Email: "ann@example.com", Skills: domain.Skills{"Go", "SQL"}, Experience: 4, Status: "active", Notes: &notes, CreatedAt: at, UpdatedAt: at},
	}
}

func TestExportCSV(t *testing.T) {
	repo := new(MockCandidateRepo)
	uc := usecase.NewExportUsecase(repo, audit.Nop(), 250)

	repo.On("List", mock.Anything, mock.MatchedBy(func(f domain.CandidateFilter) bool {
		return f.Page == 1 && f.Limit == 250 && f.Status == "archived"
	})).Return(exportFixture(), int64(1), nil)

	data, name, err := uc.Export(context.Background(), domain.ExportRequest{
		Filter:  domain.CandidateFilter{Status: "archived", Page: 4, Limit: 5},
		Columns: []string{"name", "skills", "experience", "notes", "name"},
		Format:  domain.ExportCSV,
	})
	require.NoError(t, err)
	assert.Contains(t, name, ".csv")

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"name", "skills", "experience", "notes"},
		{"Ann Lee", "Go, SQL", "4", "speaks, \"quoted\""},
	}, records)
	repo.AssertExpectations(t)
}

func TestExportExcel(t *testing.T) {
	repo := new(MockCandidateRepo)
	uc := usecase.NewExportUsecase(repo, audit.Nop(), 0)
	repo.On("List", mock.Anything, mock.Anything).Return(exportFixture(), int64(1), nil)

	data, name, err := uc.Export(context.Background(), domain.ExportRequest{Columns: []string{"email", "created_at"}})
	require.NoError(t, err)
	assert.Contains(t, name, ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Candidates")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"EMAIL", "CREATED AT"},
		{"ann@example.com", "2025-01-02T03:04:05Z"},
	}, rows)
}

func TestExportRejectsBadInput(t *testing.T) {
	uc := usecase.NewExportUsecase(new(MockCandidateRepo), audit.Nop(), 10)

	_, _, err := uc.Export(context.Background(), domain.ExportRequest{Columns: []string{"password"}})
	assertAppError(t, err, http.StatusBadRequest, "Invalid export column: password")

	_, _, err = uc.Export(context.Background(), domain.ExportRequest{Format: "pdf"})
	assertAppError(t, err, http.StatusBadRequest, "Unsupported export format: pdf")
}
