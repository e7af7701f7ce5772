package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"hirepath-backend/internal/domain"
	"hirepath-backend/pkg/apperror"
	"hirepath-backend/pkg/audit"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Candidates"

var exportHeaders = map[string]string{
	"name":        "NAME",
	"email":       "EMAIL",
	"skills":      "SKILLS",
	"experience":  "EXPERIENCE (YEARS)",
	"status":      "STATUS",
	"resume_link": "RESUME LINK",
	"notes":       "NOTES",
	"created_at":  "CREATED AT",
	"updated_at":  "UPDATED AT",
}

type exportUsecase struct {
	repo    domain.CandidateRepository
	audit   *audit.Logger
	maxRows int
}

func NewExportUsecase(repo domain.CandidateRepository, auditLog *audit.Logger, maxRows int) domain.ExportUsecase {
	if maxRows < 1 {
		maxRows = 10000
	}
	return &exportUsecase{repo: repo, audit: auditLog, maxRows: maxRows}
}

// Export renders every candidate matching the filter, in list order, up to maxRows.
func (u *exportUsecase) Export(ctx context.Context, req domain.ExportRequest) ([]byte, string, error) {
	columns, err := exportColumns(req.Columns)
	if err != nil {
		return nil, "", err
	}

	format := req.Format
	if format == "" {
		format = domain.ExportXLSX
	}
	if format != domain.ExportXLSX && format != domain.ExportCSV {
		return nil, "", apperror.BadRequest(fmt.Sprintf("Unsupported export format: %s", req.Format))
	}

	filter := req.Filter.Normalize()
	filter.Page = 1
	filter.Limit = u.maxRows

	candidates, _, err := u.repo.List(ctx, filter)
	if err != nil {
		return nil, "", apperror.InternalMsg("Failed to export candidates", err)
	}

	var data []byte
	if format == domain.ExportCSV {
		data, err = exportCSV(candidates, columns)
	} else {
		data, err = exportExcel(candidates, columns)
	}
	if err != nil {
		return nil, "", apperror.InternalMsg("Failed to export candidates", err)
	}

	u.audit.Export(requestID(ctx), format, len(candidates))

	filename := fmt.Sprintf("candidates_%s.%s", time.Now().UTC().Format("20060102_150405"), format)
	return data, filename, nil
}

// exportColumns validates the requested columns, drops duplicates and falls
// back to every exportable column.
func exportColumns(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return domain.ExportableColumns, nil
	}

	seen := make(map[string]bool, len(requested))
	columns := make([]string, 0, len(requested))
	for _, col := range requested {
		if _, ok := exportHeaders[col]; !ok {
			return nil, apperror.BadRequest(fmt.Sprintf("Invalid export column: %s", col))
		}
		if !seen[col] {
			seen[col] = true
			columns = append(columns, col)
		}
	}
	return columns, nil
}

func exportExcel(candidates []domain.Candidate, columns []string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, exportHeaders[col]); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	endCell, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(exportSheet, "A1", endCell, headerStyle); err != nil {
		return nil, err
	}

	for rowIdx, c := range candidates {
		for colIdx, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(exportSheet, cell, candidateFieldValue(c, col)); err != nil {
				return nil, err
			}
		}
	}

	for i := range columns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(exportSheet, colName, colName, 24)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func exportCSV(candidates []domain.Candidate, columns []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return nil, err
	}

	record := make([]string, len(columns))
	for _, c := range candidates {
		for i, col := range columns {
			switch v := candidateFieldValue(c, col).(type) {
			case int:
				record[i] = strconv.Itoa(v)
			case string:
				record[i] = v
			}
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}
	return buf.Bytes(), nil
}

// candidateFieldValue returns an int for experience and a string for everything else.
func candidateFieldValue(c domain.Candidate, field string) any {
	switch field {
	case "name":
		return c.Name
	case "email":
		return c.Email
	case "skills":
		return c.Skills.String()
	case "experience":
		return c.Experience
	case "status":
		return c.Status
	case "resume_link":
		return deref(c.ResumeLink)
	case "notes":
		return deref(c.Notes)
	case "created_at":
		return c.CreatedAt.UTC().Format(time.RFC3339)
	case "updated_at":
		return c.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
