package domain

import "context"

// Export formats
const (
	ExportXLSX = "xlsx"
	ExportCSV  = "csv"
)

// ExportRequest represents the export configuration
type ExportRequest struct {
	Filter  CandidateFilter
	Columns []string
	Format  string
}

// ExportableColumns lists all columns that can be exported, in default order.
var ExportableColumns = []string{
	"name",
	"email",
	"skills",
	"experience",
	"status",
	"resume_link",
	"notes",
	"created_at",
	"updated_at",
}

type ExportUsecase interface {
	// Export returns the file bytes and a suggested file name.
	Export(ctx context.Context, req ExportRequest) ([]byte, string, error)
}
