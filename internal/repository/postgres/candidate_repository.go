package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hirepath-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

// DBTX is the subset of *pgxpool.Pool the repositories use.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type candidateRepository struct {
	db DBTX
}

func NewCandidateRepository(db DBTX) domain.CandidateRepository {
	return &candidateRepository{db: db}
}

// List fetches one page of candidates matching the filter plus the total
// number of matches ignoring pagination.
func (r *candidateRepository) List(ctx context.Context, filter domain.CandidateFilter) ([]domain.Candidate, int64, error) {
	q := newCandidateQuery(filter)

	var total int64
	if err := r.db.QueryRow(ctx, q.Count, q.CountArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, q.Rows, q.RowArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list query failed: %w", err)
	}
	defer rows.Close()

	candidates := []domain.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, 0, err
		}
		candidates = append(candidates, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list rows: %w", err)
	}

	return candidates, total, nil
}

func (r *candidateRepository) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}

	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`
	c, err := scanCandidate(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *candidateRepository) Create(ctx context.Context, c *domain.Candidate) error {
	query := `INSERT INTO candidates (id, name, email, skills, resume_link, experience, status, notes, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		c.ID, c.Name, c.Email, c.Skills.Serialize(), c.ResumeLink, c.Experience, c.Status, c.Notes,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailConflict
		}
		return fmt.Errorf("insert candidate: %w", err)
	}
	return nil
}

// Update overwrites every mutable field and fills CreatedAt from the stored row.
func (r *candidateRepository) Update(ctx context.Context, c *domain.Candidate) error {
	if _, err := uuid.Parse(c.ID); err != nil {
		return domain.ErrNotFound
	}

	query := `UPDATE candidates SET
		name = $2,
		email = $3,
		skills = $4,
		resume_link = $5,
		experience = $6,
		status = $7,
		notes = $8,
		updated_at = $9
	WHERE id = $1
	RETURNING created_at`
	err := r.db.QueryRow(ctx, query,
		c.ID, c.Name, c.Email, c.Skills.Serialize(), c.ResumeLink, c.Experience, c.Status, c.Notes,
		c.UpdatedAt,
	).Scan(&c.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.ErrNotFound
		case isUniqueViolation(err):
			return domain.ErrEmailConflict
		}
		return fmt.Errorf("update candidate: %w", err)
	}
	return nil
}

func (r *candidateRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}

	result, err := r.db.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// BulkDelete removes every listed candidate in one statement.
func (r *candidateRepository) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := r.db.Exec(ctx, `DELETE FROM candidates WHERE id = ANY($1::uuid[])`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("bulk delete: %w", err)
	}
	return result.RowsAffected(), nil
}

// BulkSetStatus sets status and updated_at on every listed candidate in one statement.
func (r *candidateRepository) BulkSetStatus(ctx context.Context, ids []string, status string, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := r.db.Exec(ctx,
		`UPDATE candidates SET status = $1, updated_at = $2 WHERE id = ANY($3::uuid[])`,
		status, at, pq.Array(ids),
	)
	if err != nil {
		return 0, fmt.Errorf("bulk status update: %w", err)
	}
	return result.RowsAffected(), nil
}

// Stats aggregates status counts and mean experience in a single pass.
func (r *candidateRepository) Stats(ctx context.Context) (*domain.CandidateStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'inactive'),
			COUNT(*) FILTER (WHERE status = 'archived'),
			COALESCE(AVG(experience), 0)::float8
		FROM candidates`

	var s domain.CandidateStats
	err := r.db.QueryRow(ctx, query).Scan(&s.Total, &s.Active, &s.Inactive, &s.Archived, &s.AverageExperience)
	if err != nil {
		return nil, fmt.Errorf("stats query failed: %w", err)
	}
	return &s, nil
}

func scanCandidate(row pgx.Row) (*domain.Candidate, error) {
	var (
		c                 domain.Candidate
		skills            string
		resumeLink, notes string
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &skills, &resumeLink, &c.Experience, &c.Status, &notes,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Skills, err = domain.NormalizeSkills(skills)
	if err != nil {
		return nil, fmt.Errorf("decode skills for %s: %w", c.ID, err)
	}
	c.ResumeLink = nullable(resumeLink)
	c.Notes = nullable(notes)
	return &c, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
