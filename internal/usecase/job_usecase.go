package usecase

import (
	"context"
	"errors"
	"strings"

	"jobs-admin-backend/internal/domain"
	"jobs-admin-backend/internal/schema"
	"jobs-admin-backend/pkg/apperror"
	"jobs-admin-backend/pkg/logger"

	"github.com/google/uuid"
)

type jobUsecase struct {
	repo      domain.JobRepository
	validator *schema.Validator
	listLimit int
}

func NewJobUsecase(repo domain.JobRepository, validator *schema.Validator, listLimit int) domain.JobUsecase {
	return &jobUsecase{
		repo:      repo,
		validator: validator,
		listLimit: listLimit,
	}
}

// ListJobs returns an empty list for a malformed company id, since no job can match it.
func (uc *jobUsecase) ListJobs(ctx context.Context, search string, status domain.JobStatusFilter, companyID string) ([]domain.JobSummary, error) {
	params := domain.JobListParams{
		Search: search,
		Status: status,
		Limit:  uc.listLimit,
	}
	if companyID = strings.TrimSpace(companyID); companyID != "" {
		id, err := uuid.Parse(companyID)
		if err != nil {
			return []domain.JobSummary{}, nil
		}
		params.CompanyID = &id
	}

	jobs, err := uc.repo.List(ctx, params)
	if err != nil {
		return nil, storageFailure("list_jobs", err)
	}
	return jobs, nil
}

func (uc *jobUsecase) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NotFound("Job not found")
	}

	job, err := uc.repo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, storageFailure("get_job", err, "job_id", jobID)
	}
	return job, nil
}

func (uc *jobUsecase) CreateJob(ctx context.Context, payload domain.JobPayload) (uuid.UUID, error) {
	in, err := uc.validator.Job(payload)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uc.repo.Create(ctx, in)
	if err != nil {
		if mapped := mapJobWriteError(err); mapped != nil {
			return uuid.Nil, mapped
		}
		return uuid.Nil, storageFailure("create_job", err, "company_id", in.CompanyID)
	}

	logger.Log.Info("Job created", "job_id", id, "company_id", in.CompanyID, "status", in.Status)
	return id, nil
}

func (uc *jobUsecase) UpdateJob(ctx context.Context, id string, payload domain.JobPayload) error {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return apperror.NotFound("Job not found")
	}

	in, err := uc.validator.Job(payload)
	if err != nil {
		return err
	}

	if err := uc.repo.Update(ctx, jobID, in); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Job not found")
		}
		if mapped := mapJobWriteError(err); mapped != nil {
			return mapped
		}
		return storageFailure("update_job", err, "job_id", jobID)
	}

	logger.Log.Info("Job updated", "job_id", jobID, "company_id", in.CompanyID, "status", in.Status)
	return nil
}

func (uc *jobUsecase) DeleteJob(ctx context.Context, id string) error {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return apperror.NotFound("Job not found")
	}

	if err := uc.repo.Delete(ctx, jobID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Job not found")
		}
		return storageFailure("delete_job", err, "job_id", jobID)
	}

	logger.Log.Info("Job deleted", "job_id", jobID)
	return nil
}

func (uc *jobUsecase) RecomputeCompany(ctx context.Context, companyID string) error {
	id, err := uuid.Parse(companyID)
	if err != nil {
		return apperror.NotFound("Company not found")
	}

	if err := uc.repo.Recompute(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Company not found")
		}
		return storageFailure("recompute_company", err, "company_id", id)
	}
	return nil
}

func (uc *jobUsecase) Options() domain.JobOptions {
	return uc.validator.Options()
}

// mapJobWriteError translates the constraint outcomes of a job write; nil means unmapped.
func mapJobWriteError(err error) error {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return apperror.Conflict("A job with this Ref ID already exists for this company")
	case errors.Is(err, domain.ErrInvalidReference):
		return apperror.Validation([]apperror.Issue{{Field: "companyId", Message: "Company does not exist"}})
	}
	return nil
}
