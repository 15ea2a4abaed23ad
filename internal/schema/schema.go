// Package schema checks incoming company and job payloads before any storage
// work starts. Every failing field is reported in one pass.
package schema

import (
	"strings"
	"time"

	"jobs-admin-backend/internal/domain"
	"jobs-admin-backend/pkg/apperror"
	"jobs-admin-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type Validator struct {
	validate *validator.Validate
	options  domain.JobOptions
}

func New(options domain.JobOptions) *Validator {
	return &Validator{
		validate: validation.New(options),
		options:  options,
	}
}

func (v *Validator) Options() domain.JobOptions {
	return v.options
}

// CompanyIssues validates p in place (trimming it) and returns any issues.
func (v *Validator) CompanyIssues(p *domain.CompanyPayload) []apperror.Issue {
	trimCompany(p)
	if err := v.validate.Struct(p); err != nil {
		return validation.Issues(err)
	}
	return nil
}

// Company validates and normalizes a company payload.
// On failure the error is an *apperror.AppError carrying every issue found.
func (v *Validator) Company(p domain.CompanyPayload) (domain.CompanyInput, error) {
	if issues := v.CompanyIssues(&p); len(issues) > 0 {
		return domain.CompanyInput{}, apperror.Validation(issues)
	}
	return CompanyInput(p), nil
}

// CompanyInput converts an already validated, trimmed payload.
func CompanyInput(p domain.CompanyPayload) domain.CompanyInput {
	return domain.CompanyInput{
		RefID:            p.RefID,
		Name:             p.Name,
		Description:      optional(p.Description),
		Industry:         optional(p.Industry),
		Website:          optional(p.Website),
		ContactFirstName: p.ContactFirstName,
		ContactLastName:  p.ContactLastName,
		ContactEmail:     p.ContactEmail,
		ContactRole:      optional(p.ContactRole),
		ContactPhone:     optional(p.ContactPhone),
	}
}

// Job validates and normalizes a job payload. A missing status becomes domain.DefaultJobStatus.
func (v *Validator) Job(p domain.JobPayload) (domain.JobInput, error) {
	trimJob(&p)
	if err := v.validate.Struct(&p); err != nil {
		return domain.JobInput{}, apperror.Validation(validation.Issues(err))
	}

	// Both parses are guarded by the uuid and datetime tags above.
	companyID, err := uuid.Parse(p.CompanyID)
	if err != nil {
		return domain.JobInput{}, apperror.Validation([]apperror.Issue{{Field: "companyId", Message: "Company must be a valid id"}})
	}

	var closingDate *time.Time
	if p.ClosingDate != "" {
		d, err := time.Parse(dateLayout, p.ClosingDate)
		if err != nil {
			return domain.JobInput{}, apperror.Validation([]apperror.Issue{{Field: "closingDate", Message: "Closing Date must be a date in YYYY-MM-DD format"}})
		}
		closingDate = &d
	}

	status := domain.DefaultJobStatus
	if p.Status != "" {
		if status, err = domain.ParseJobStatus(p.Status); err != nil {
			return domain.JobInput{}, apperror.Validation([]apperror.Issue{{Field: "status", Message: "Status must be one of: open, closed, draft"}})
		}
	}

	salaryBands := p.SalaryBands
	if salaryBands == nil {
		salaryBands = []string{}
	}

	return domain.JobInput{
		CompanyID:   companyID,
		RefID:       optional(p.RefID),
		Title:       p.Title,
		Status:      status,
		Location:    optional(p.Location),
		Basis:       optional(p.Basis),
		Seniority:   optional(p.Seniority),
		ClosingDate: closingDate,
		SalaryBands: salaryBands,
		Categories:  p.Categories,
		Description: optional(p.Description),
	}, nil
}

func trimCompany(p *domain.CompanyPayload) {
	for _, s := range []*string{
		&p.RefID, &p.Name, &p.Description, &p.Industry, &p.Website,
		&p.ContactFirstName, &p.ContactLastName, &p.ContactEmail, &p.ContactRole, &p.ContactPhone,
	} {
		*s = strings.TrimSpace(*s)
	}
}

func trimJob(p *domain.JobPayload) {
	for _, s := range []*string{
		&p.CompanyID, &p.RefID, &p.Title, &p.Status, &p.Location,
		&p.Basis, &p.Seniority, &p.ClosingDate, &p.Description,
	} {
		*s = strings.TrimSpace(*s)
	}
	p.SalaryBands = trimAll(p.SalaryBands)
	p.Categories = trimAll(p.Categories)
}

// trimAll keeps nil as nil so "required" still distinguishes a missing list.
func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

// optional maps the empty string to absent.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
