package domain

import (
	"context"
	"fmt"
)

// ExportFormat selects the rendering of a list export.
type ExportFormat string

const (
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatCSV  ExportFormat = "csv"
)

// ParseExportFormat converts a raw query value. The empty string means xlsx.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(s); f {
	case ExportFormatXLSX, ExportFormatCSV:
		return f, nil
	case "":
		return ExportFormatXLSX, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

func (f ExportFormat) ContentType() string {
	if f == ExportFormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// ExportFile is a rendered export ready to be served as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportUsecase renders the company and job lists with the same filters and cap as the list views.
type ExportUsecase interface {
	ExportCompanies(ctx context.Context, search string, status CompanyStatusFilter, format ExportFormat) (*ExportFile, error)
	ExportJobs(ctx context.Context, search string, status JobStatusFilter, companyID string, format ExportFormat) (*ExportFile, error)
}
