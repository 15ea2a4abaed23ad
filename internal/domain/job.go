package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobStatus mirrors the CHECK constraint on jobs.status.
type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
	JobStatusDraft  JobStatus = "draft"
)

// DefaultJobStatus applies when a payload omits status. Draft never activates a company.
const DefaultJobStatus = JobStatusDraft

// ParseJobStatus converts a raw string to a JobStatus, returning an error for
// unknown values.
func ParseJobStatus(s string) (JobStatus, error) {
	switch st := JobStatus(s); st {
	case JobStatusOpen, JobStatusClosed, JobStatusDraft:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// IsOpen reports whether the job counts towards its company's total_jobs.
func (s JobStatus) IsOpen() bool { return s == JobStatusOpen }

// JobStatusFilter narrows job lists; "all" disables the filter.
type JobStatusFilter string

const JobStatusFilterAll JobStatusFilter = "all"

func ParseJobStatusFilter(s string) (JobStatusFilter, error) {
	if s == "" || s == string(JobStatusFilterAll) {
		return JobStatusFilterAll, nil
	}
	st, err := ParseJobStatus(s)
	if err != nil {
		return "", fmt.Errorf("unknown job status filter %q", s)
	}
	return JobStatusFilter(st), nil
}

// Status returns the status to filter on, or false for "all".
func (f JobStatusFilter) Status() (JobStatus, bool) {
	if f == "" || f == JobStatusFilterAll {
		return "", false
	}
	return JobStatus(f), true
}

// Job is the full job record.
type Job struct {
	ID          uuid.UUID  `json:"id"`
	CompanyID   uuid.UUID  `json:"company_id"`
	RefID       *string    `json:"ref_id"`
	Title       string     `json:"title"`
	Status      JobStatus  `json:"status"`
	Location    *string    `json:"location"`
	Basis       *string    `json:"basis"`
	Seniority   *string    `json:"seniority"`
	ClosingDate *time.Time `json:"closing_date"`
	SalaryBands []string   `json:"salary_bands"`
	Categories  []string   `json:"categories"`
	Description *string    `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// JobSummary is a list row enriched with the owning company.
type JobSummary struct {
	ID           uuid.UUID  `json:"id"`
	CompanyID    uuid.UUID  `json:"company_id"`
	CompanyName  string     `json:"company_name"`
	CompanyRefID string     `json:"company_ref_id"`
	RefID        *string    `json:"ref_id"`
	Title        string     `json:"title"`
	Status       JobStatus  `json:"status"`
	ClosingDate  *time.Time `json:"closing_date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// JobInput is a validated, normalized job payload.
type JobInput struct {
	CompanyID   uuid.UUID
	RefID       *string
	Title       string
	Status      JobStatus
	Location    *string
	Basis       *string
	Seniority   *string
	ClosingDate *time.Time
	SalaryBands []string
	Categories  []string
	Description *string
}

// JobPayload is the raw, unvalidated job body.
type JobPayload struct {
	CompanyID   string   `json:"companyId" validate:"required,uuid"`
	RefID       string   `json:"refId"`
	Title       string   `json:"title" validate:"required"`
	Status      string   `json:"status" validate:"omitempty,job_status"`
	Location    string   `json:"location"`
	Basis       string   `json:"basis"`
	Seniority   string   `json:"seniority" validate:"omitempty,seniority"`
	ClosingDate string   `json:"closingDate" validate:"omitempty,datetime=2006-01-02"`
	SalaryBands []string `json:"salaryBands" validate:"omitempty,unique,dive,salary_band"`
	Categories  []string `json:"categories" validate:"required,min=1,max=3,unique,dive,job_category"`
	Description string   `json:"description"`
}

type JobListParams struct {
	Search    string
	Status    JobStatusFilter
	CompanyID *uuid.UUID
	Limit     int
}

// JobRepository owns job persistence and keeps company-derived fields in step.
type JobRepository interface {
	List(ctx context.Context, params JobListParams) ([]JobSummary, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Job, error)
	Create(ctx context.Context, in JobInput) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, in JobInput) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Recompute refreshes one company's derived fields in its own transaction.
	Recompute(ctx context.Context, companyID uuid.UUID) error
}

type JobUsecase interface {
	ListJobs(ctx context.Context, search string, status JobStatusFilter, companyID string) ([]JobSummary, error)
	GetJob(ctx context.Context, id string) (*Job, error)
	CreateJob(ctx context.Context, payload JobPayload) (uuid.UUID, error)
	UpdateJob(ctx context.Context, id string, payload JobPayload) error
	DeleteJob(ctx context.Context, id string) error
	// RecomputeCompany repairs a company's derived fields from the live job table.
	RecomputeCompany(ctx context.Context, companyID string) error
	Options() JobOptions
}
