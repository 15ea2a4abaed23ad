package usecase_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"jobs-admin-backend/config"
	"jobs-admin-backend/internal/domain"
	"jobs-admin-backend/internal/schema"
	"jobs-admin-backend/pkg/security/antivirus"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Repositories
type MockCompanyRepo struct {
	mock.Mock
}

func (m *MockCompanyRepo) List(ctx context.Context, params domain.CompanyListParams) ([]domain.Company, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockCompanyRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CompanyDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanyDetail), args.Error(1)
}

func (m *MockCompanyRepo) GetLogo(ctx context.Context, id uuid.UUID) (*domain.Logo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Logo), args.Error(1)
}

func (m *MockCompanyRepo) Create(ctx context.Context, in domain.CompanyInput, logo *domain.Logo) (uuid.UUID, error) {
	args := m.Called(ctx, in, logo)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockCompanyRepo) Update(ctx context.Context, id uuid.UUID, in domain.CompanyInput, logo *domain.Logo) error {
	return m.Called(ctx, id, in, logo).Error(0)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) List(ctx context.Context, params domain.JobListParams) ([]domain.JobSummary, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JobSummary), args.Error(1)
}

func (m *MockJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepo) Create(ctx context.Context, in domain.JobInput) (uuid.UUID, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockJobRepo) Update(ctx context.Context, id uuid.UUID, in domain.JobInput) error {
	return m.Called(ctx, id, in).Error(0)
}

func (m *MockJobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockJobRepo) Recompute(ctx context.Context, companyID uuid.UUID) error {
	return m.Called(ctx, companyID).Error(0)
}

type MockLogoCache struct {
	mock.Mock
}

func (m *MockLogoCache) Get(ctx context.Context, companyID uuid.UUID) (*domain.Logo, bool) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.Logo), args.Bool(1)
}

func (m *MockLogoCache) Set(ctx context.Context, companyID uuid.UUID, logo *domain.Logo) {
	m.Called(ctx, companyID, logo)
}

func (m *MockLogoCache) Invalidate(ctx context.Context, companyID uuid.UUID) {
	m.Called(ctx, companyID)
}

type MockScanner struct {
	mock.Mock
}

func (m *MockScanner) Scan(ctx context.Context, name string, data []byte) (antivirus.Verdict, error) {
	args := m.Called(ctx, name, data)
	return args.Get(0).(antivirus.Verdict), args.Error(1)
}

func (m *MockScanner) Ping(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockScanner) Name() string { return "mock" }

func newValidator() *schema.Validator {
	return schema.New(domain.JobOptions{
		Seniority:   config.DefaultSeniorityOptions,
		SalaryBands: config.DefaultSalaryBands,
		Categories:  config.DefaultJobCategories,
	})
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}
