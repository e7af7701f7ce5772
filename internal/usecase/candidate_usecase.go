package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hirepath-backend/internal/domain"
	"hirepath-backend/pkg/apperror"
	"hirepath-backend/pkg/audit"
	"hirepath-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type candidateUsecase struct {
	repo     domain.CandidateRepository
	validate *validator.Validate
	audit    *audit.Logger
	now      func() time.Time
}

func NewCandidateUsecase(repo domain.CandidateRepository, validate *validator.Validate, auditLog *audit.Logger) domain.CandidateUsecase {
	return &candidateUsecase{
		repo:     repo,
		validate: validate,
		audit:    auditLog,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (u *candidateUsecase) List(ctx context.Context, filter domain.CandidateFilter) (*domain.PaginatedResult[domain.Candidate], error) {
	filter = filter.Normalize()

	candidates, total, err := u.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.InternalMsg("Failed to fetch candidates", err)
	}
	return domain.NewPaginatedResult(candidates, total, filter.Page, filter.Limit), nil
}

func (u *candidateUsecase) Get(ctx context.Context, id string) (*domain.Candidate, error) {
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Failed to fetch candidate")
	}
	return c, nil
}

// Create ignores any supplied status; new candidates always start active.
func (u *candidateUsecase) Create(ctx context.Context, input domain.CandidateInput) (*domain.Candidate, error) {
	input.Status = ""
	input.Email = normalizeEmail(input.Email)
	if err := u.validateInput(ctx, input); err != nil {
		return nil, err
	}

	now := u.now()
	c := &domain.Candidate{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyInput(c, input)

	if err := u.repo.Create(ctx, c); err != nil {
		return nil, mapRepoError(err, "Failed to create candidate")
	}

	u.audit.CandidateCreated(requestID(ctx), c.ID, c.Email)
	return c, nil
}

// Update replaces every mutable field. A missing status resets to active.
func (u *candidateUsecase) Update(ctx context.Context, id string, input domain.CandidateInput) (*domain.Candidate, error) {
	input.Email = normalizeEmail(input.Email)
	if err := u.validateInput(ctx, input); err != nil {
		return nil, err
	}

	c := &domain.Candidate{
		ID:        id,
		UpdatedAt: u.now(),
	}
	applyInput(c, input)

	if err := u.repo.Update(ctx, c); err != nil {
		return nil, mapRepoError(err, "Failed to update candidate")
	}

	u.audit.CandidateUpdated(requestID(ctx), c.ID, c.Status)
	return c, nil
}

func (u *candidateUsecase) Delete(ctx context.Context, id string) error {
	if err := u.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, "Failed to delete candidate")
	}
	u.audit.CandidateDeleted(requestID(ctx), id)
	return nil
}

// Bulk runs one batch statement for the requested action. Identifiers that are
// not UUIDs are skipped since they cannot match a row.
func (u *candidateUsecase) Bulk(ctx context.Context, req domain.BulkRequest) (*domain.BulkResult, error) {
	if req.Action == "" || req.IDs == nil {
		return nil, apperror.BadRequest("Action and ids array are required")
	}

	ids := validIDs(req.IDs)

	var (
		affected int64
		err      error
		verb     string
	)
	switch req.Action {
	case domain.BulkDelete:
		verb = "deleted"
		affected, err = u.repo.BulkDelete(ctx, ids)
	case domain.BulkUpdateStatus:
		if req.Data == nil || req.Data.Status == "" {
			return nil, apperror.BadRequest("Status is required for bulk update")
		}
		if !domain.IsValidStatus(req.Data.Status) {
			return nil, apperror.BadRequest(validation.FieldMessages["Status"])
		}
		verb = "updated"
		affected, err = u.repo.BulkSetStatus(ctx, ids, req.Data.Status, u.now())
	case domain.BulkArchive:
		verb = "archived"
		affected, err = u.repo.BulkSetStatus(ctx, ids, domain.StatusArchived, u.now())
	case domain.BulkUnarchive:
		verb = "unarchived"
		affected, err = u.repo.BulkSetStatus(ctx, ids, domain.StatusActive, u.now())
	default:
		return nil, apperror.BadRequest("Invalid bulk action")
	}
	if err != nil {
		return nil, apperror.InternalMsg("Failed to perform bulk operation", err)
	}

	u.audit.BulkAction(requestID(ctx), req.Action, len(req.IDs), affected)
	return &domain.BulkResult{
		Message:  fmt.Sprintf("%d candidates %s successfully", len(req.IDs), verb),
		Affected: affected,
	}, nil
}

func (u *candidateUsecase) Overview(ctx context.Context) (*domain.StatsOverview, error) {
	s, err := u.repo.Stats(ctx)
	if err != nil {
		return nil, apperror.InternalMsg("Failed to fetch statistics", err)
	}
	return &domain.StatsOverview{
		Total:             s.Total,
		Active:            s.Active,
		Inactive:          s.Inactive,
		Archived:          s.Archived,
		AverageExperience: s.AverageExperience,
	}, nil
}

func (u *candidateUsecase) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	s, err := u.repo.Stats(ctx)
	if err != nil {
		return nil, apperror.InternalMsg("Failed to fetch statistics", err)
	}
	return &domain.DashboardStats{
		Total:             s.Total,
		Active:            s.Active,
		Archived:          s.Archived,
		AverageExperience: s.AverageExperience,
	}, nil
}

func (u *candidateUsecase) validateInput(ctx context.Context, input domain.CandidateInput) error {
	if err := u.validate.StructCtx(ctx, input); err != nil {
		messages := validation.FormatValidationErrors(err)
		u.audit.ValidationFailed(requestID(ctx), messages)
		return apperror.Validation(messages)
	}
	return nil
}

// applyInput copies a validated payload onto c in its stored form.
func applyInput(c *domain.Candidate, input domain.CandidateInput) {
	c.Name = strings.TrimSpace(input.Name)
	c.Email = input.Email
	c.Skills = input.Skills
	c.ResumeLink = optionalText(input.ResumeLink)
	c.Notes = optionalText(input.Notes)

	c.Experience = 0
	if input.Experience != nil {
		c.Experience = *input.Experience
	}

	c.Status = input.Status
	if c.Status == "" {
		c.Status = domain.StatusActive
	}
}

// normalizeEmail puts an address in its stored form before validation sees it.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func validIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			out = append(out, id)
		}
	}
	return out
}

func mapRepoError(err error, internalMsg string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound("Candidate not found")
	case errors.Is(err, domain.ErrEmailConflict):
		return apperror.Conflict("Email already exists")
	}
	return apperror.InternalMsg(internalMsg, err)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(domain.KeyRequestID).(string)
	return id
}
