package postgres

import (
	"fmt"
	"strings"

	"hirepath-backend/internal/domain"
)

const candidateColumns = `id::text, name, email, skills, COALESCE(resume_link, ''), experience, status, COALESCE(notes, ''), created_at, updated_at`

// sortColumns maps API sort fields onto table columns. Only values from this
// map ever reach the ORDER BY clause.
var sortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"experience": "experience",
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
}

// predicate renders one boolean term of the WHERE clause. Values are never
// interpolated; they go through bind, which returns the placeholder to use.
type predicate func(bind func(v any) string) string

// candidateQuery is a listing request rendered to SQL. Rows and Count share the
// same WHERE clause and arguments so the total always matches the row filter.
type candidateQuery struct {
	Rows      string
	RowArgs   []any
	Count     string
	CountArgs []any
}

// candidatePredicates collects the active filters. Adding a filter here adds it
// to both the row and the count query.
func candidatePredicates(f domain.CandidateFilter) []predicate {
	var preds []predicate

	if f.Search != "" {
		pattern := containsPattern(f.Search)
		preds = append(preds, func(bind func(any) string) string {
			p := bind(pattern)
			return fmt.Sprintf("(name ILIKE %[1]s OR email ILIKE %[1]s OR skills ILIKE %[1]s OR notes ILIKE %[1]s)", p)
		})
	}

	if f.Status != "" && f.Status != domain.StatusAll {
		status := f.Status
		preds = append(preds, func(bind func(any) string) string {
			return "status = " + bind(status)
		})
	}

	if f.MinExperience != nil {
		years := *f.MinExperience
		preds = append(preds, func(bind func(any) string) string {
			return "experience >= " + bind(years)
		})
	}

	if f.MaxExperience != nil {
		years := *f.MaxExperience
		preds = append(preds, func(bind func(any) string) string {
			return "experience <= " + bind(years)
		})
	}

	if len(f.Skills) > 0 {
		patterns := make([]string, 0, len(f.Skills))
		for _, skill := range f.Skills {
			if s := strings.TrimSpace(skill); s != "" {
				patterns = append(patterns, containsPattern(s))
			}
		}
		if len(patterns) > 0 {
			preds = append(preds, func(bind func(any) string) string {
				terms := make([]string, len(patterns))
				for i, p := range patterns {
					terms[i] = "skills ILIKE " + bind(p)
				}
				return "(" + strings.Join(terms, " OR ") + ")"
			})
		}
	}

	return preds
}

// renderWhere folds predicates into a single conjunction with numbered
// placeholders starting at $1.
func renderWhere(preds []predicate) (string, []any) {
	if len(preds) == 0 {
		return "", nil
	}

	var args []any
	bind := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	terms := make([]string, len(preds))
	for i, p := range preds {
		terms[i] = p(bind)
	}
	return " WHERE " + strings.Join(terms, " AND "), args
}

// newCandidateQuery renders a normalized filter. Callers are expected to have
// run Normalize; unknown sort fields still fall back to created_at.
func newCandidateQuery(f domain.CandidateFilter) candidateQuery {
	where, args := renderWhere(candidatePredicates(f))

	sortColumn, ok := sortColumns[f.SortBy]
	if !ok {
		sortColumn = "created_at"
	}
	direction := "DESC"
	if f.SortOrder == "asc" {
		direction = "ASC"
	}

	rowArgs := make([]any, 0, len(args)+2)
	rowArgs = append(rowArgs, args...)
	rowArgs = append(rowArgs, f.Limit, f.Offset())

	rows := fmt.Sprintf(
		"SELECT %s FROM candidates%s ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d",
		candidateColumns, where, sortColumn, direction, len(args)+1, len(args)+2,
	)

	return candidateQuery{
		Rows:      rows,
		RowArgs:   rowArgs,
		Count:     "SELECT COUNT(*) FROM candidates" + where,
		CountArgs: args,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally as a substring.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
