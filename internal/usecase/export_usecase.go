package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"jobs-admin-backend/internal/domain"

	"github.com/xuri/excelize/v2"
)

type exportUsecase struct {
	companies domain.CompanyUsecase
	jobs      domain.JobUsecase
	now       func() time.Time
}

// NewExportUsecase renders exports through the list usecases so filters, cap
// and error translation stay identical to the list views.
func NewExportUsecase(companies domain.CompanyUsecase, jobs domain.JobUsecase) domain.ExportUsecase {
	return &exportUsecase{companies: companies, jobs: jobs, now: time.Now}
}

// table is a header row plus data rows, rendered identically by both formats.
type table struct {
	sheet   string
	headers []string
	rows    [][]string
}

func (u *exportUsecase) ExportCompanies(ctx context.Context, search string, status domain.CompanyStatusFilter, format domain.ExportFormat) (*domain.ExportFile, error) {
	companies, err := u.companies.ListCompanies(ctx, search, status)
	if err != nil {
		return nil, err
	}

	t := table{
		sheet:   "Companies",
		headers: []string{"REF ID", "NAME", "INDUSTRY", "WEBSITE", "TOTAL JOBS", "STATUS", "CREATED AT"},
	}
	for _, c := range companies {
		state := "Inactive"
		if c.IsActive {
			state = "Active"
		}
		t.rows = append(t.rows, []string{
			c.RefID, c.Name, deref(c.Industry), deref(c.Website),
			fmt.Sprint(c.TotalJobs), state, c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return u.render(t, "companies", format)
}

func (u *exportUsecase) ExportJobs(ctx context.Context, search string, status domain.JobStatusFilter, companyID string, format domain.ExportFormat) (*domain.ExportFile, error) {
	jobs, err := u.jobs.ListJobs(ctx, search, status, companyID)
	if err != nil {
		return nil, err
	}

	t := table{
		sheet:   "Jobs",
		headers: []string{"REF ID", "TITLE", "STATUS", "COMPANY", "COMPANY REF ID", "CLOSING DATE", "CREATED AT", "UPDATED AT"},
	}
	for _, j := range jobs {
		closing := ""
		if j.ClosingDate != nil {
			closing = j.ClosingDate.Format("2006-01-02")
		}
		t.rows = append(t.rows, []string{
			deref(j.RefID), j.Title, string(j.Status), j.CompanyName, j.CompanyRefID, closing,
			j.CreatedAt.UTC().Format(time.RFC3339), j.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return u.render(t, "jobs", format)
}

func (u *exportUsecase) render(t table, prefix string, format domain.ExportFormat) (*domain.ExportFile, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case domain.ExportFormatCSV:
		data, err = renderCSV(t)
	default:
		format = domain.ExportFormatXLSX
		data, err = renderExcel(t)
	}
	if err != nil {
		return nil, storageFailure("export_"+prefix, err)
	}

	return &domain.ExportFile{
		Filename:    fmt.Sprintf("%s_%s.%s", prefix, u.now().Format("20060102_150405"), format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

func renderExcel(t table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", t.sheet); err != nil {
		return nil, err
	}

	for i, h := range t.headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(t.sheet, cell, h)
	}

	// Style headers - Dark Blue background with White text
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(t.headers), 1)
	f.SetCellStyle(t.sheet, "A1", endCell, headerStyle)

	for r, row := range t.rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(t.sheet, cell, value)
		}
	}

	for i := range t.headers {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(t.sheet, colName, colName, 22)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func renderCSV(t table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.headers); err != nil {
		return nil, err
	}
	for _, row := range t.rows {
		escaped := make([]string, len(row))
		for i, v := range row {
			escaped[i] = neutralizeFormula(v)
		}
		if err := w.Write(escaped); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}
	return buf.Bytes(), nil
}

// neutralizeFormula keeps spreadsheet apps from evaluating user-entered text.
func neutralizeFormula(v string) string {
	if v == "" {
		return v
	}
	switch v[0] {
	case '=', '+', '-', '@':
		return "'" + v
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
