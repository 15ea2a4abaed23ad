package usecase_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"jobs-admin-backend/internal/domain"
	"jobs-admin-backend/internal/usecase"
	"jobs-admin-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newExportUsecase(companies *MockCompanyRepo, jobs *MockJobRepo) domain.ExportUsecase {
	v := newValidator()
	return usecase.NewExportUsecase(
		usecase.NewCompanyUsecase(companies, v, nil, logoPolicy, 500),
		usecase.NewJobUsecase(jobs, v, 500),
	)
}

func TestExportCompaniesCSV(t *testing.T) {
	ctx := context.Background()
	companies := new(MockCompanyRepo)
	industry := "=HYPERLINK(\"x\")"
	companies.On("List", ctx, domain.CompanyListParams{Search: "a", Status: domain.CompanyStatusAll, Limit: 500}).
		Return([]domain.Company{
			{RefID: "ACME", Name: "Acme, Inc.", Industry: &industry, TotalJobs: 2, IsActive: true, CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
			{RefID: "BETA", Name: "Beta"},
		}, nil).Once()

	file, err := newExportUsecase(companies, new(MockJobRepo)).
		ExportCompanies(ctx, "a", domain.CompanyStatusAll, domain.ExportFormatCSV)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(file.Filename, "companies_"))
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "REF ID", records[0][0])
	assert.Equal(t, []string{"ACME", "Acme, Inc.", "'" + industry, "", "2", "Active", "2026-01-02T03:04:05Z"}, records[1])
	assert.Equal(t, "Inactive", records[2][5])
}

func TestExportJobsXLSX(t *testing.T) {
	ctx := context.Background()
	jobs := new(MockJobRepo)
	closing := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	ref := "J-1"
	jobs.On("List", ctx, mock.Anything).Return([]domain.JobSummary{{
		ID: uuid.New(), RefID: &ref, Title: "Accountant", Status: domain.JobStatusOpen,
		CompanyName: "Acme", CompanyRefID: "ACME", ClosingDate: &closing,
	}}, nil).Once()

	file, err := newExportUsecase(new(MockCompanyRepo), jobs).
		ExportJobs(ctx, "", domain.JobStatusFilterAll, "", domain.ExportFormatXLSX)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file.Filename, ".xlsx"))

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Jobs")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "TITLE", rows[0][1])
	assert.Equal(t, []string{"J-1", "Accountant", "open", "Acme", "ACME", "2026-12-31"}, rows[1][:6])
}

func TestExportPropagatesListErrors(t *testing.T) {
	ctx := context.Background()
	jobs := new(MockJobRepo)
	jobs.On("List", ctx, mock.Anything).Return(nil, errors.New("down")).Once()

	_, err := newExportUsecase(new(MockCompanyRepo), jobs).
		ExportJobs(ctx, "", domain.JobStatusFilterAll, "", domain.ExportFormatCSV)
	assert.Equal(t, 500, apperror.CodeOf(err))
}
