package usecase

import (
	"context"
	"errors"
	"net/http"

	"jobs-admin-backend/internal/domain"
	"jobs-admin-backend/internal/schema"
	"jobs-admin-backend/pkg/apperror"
	"jobs-admin-backend/pkg/imaging"
	"jobs-admin-backend/pkg/logger"
	"jobs-admin-backend/pkg/security"
	"jobs-admin-backend/pkg/security/antivirus"

	"github.com/google/uuid"
)

// LogoPolicy bounds accepted logo uploads. A nil Scanner skips malware scanning.
type LogoPolicy struct {
	MaxBytes     int
	MaxDimension int
	Scanner      antivirus.Scanner
}

type companyUsecase struct {
	repo      domain.CompanyRepository
	validator *schema.Validator
	cache     domain.LogoCache
	logo      LogoPolicy
	listLimit int
}

// NewCompanyUsecase wires the company flows. cache may be nil.
func NewCompanyUsecase(
	repo domain.CompanyRepository,
	validator *schema.Validator,
	cache domain.LogoCache,
	logo LogoPolicy,
	listLimit int,
) domain.CompanyUsecase {
	if cache == nil {
		cache = noLogoCache{}
	}
	return &companyUsecase{
		repo:      repo,
		validator: validator,
		cache:     cache,
		logo:      logo,
		listLimit: listLimit,
	}
}

func (uc *companyUsecase) ListCompanies(ctx context.Context, search string, status domain.CompanyStatusFilter) ([]domain.Company, error) {
	companies, err := uc.repo.List(ctx, domain.CompanyListParams{
		Search: search,
		Status: status,
		Limit:  uc.listLimit,
	})
	if err != nil {
		return nil, storageFailure("list_companies", err)
	}
	return companies, nil
}

func (uc *companyUsecase) GetCompany(ctx context.Context, id string) (*domain.CompanyDetail, error) {
	companyID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NotFound("Company not found")
	}

	company, err := uc.repo.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Company not found")
		}
		return nil, storageFailure("get_company", err, "company_id", companyID)
	}
	return company, nil
}

// GetCompanyLogo reads through the logo cache.
func (uc *companyUsecase) GetCompanyLogo(ctx context.Context, id string) (*domain.Logo, error) {
	companyID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NotFound("Logo not found")
	}

	if logo, ok := uc.cache.Get(ctx, companyID); ok {
		return logo, nil
	}

	logo, err := uc.repo.GetLogo(ctx, companyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Logo not found")
		}
		return nil, storageFailure("get_company_logo", err, "company_id", companyID)
	}

	uc.cache.Set(ctx, companyID, logo)
	return logo, nil
}

func (uc *companyUsecase) CreateCompany(ctx context.Context, payload domain.CompanyPayload, upload *domain.LogoUpload) (uuid.UUID, error) {
	in, logo, err := uc.prepare(ctx, payload, upload)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uc.repo.Create(ctx, in, logo)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return uuid.Nil, apperror.Conflict("A company with this Ref ID already exists")
		}
		return uuid.Nil, storageFailure("create_company", err, "ref_id", in.RefID)
	}

	logger.Log.Info("Company created", "company_id", id, "ref_id", in.RefID, "has_logo", logo != nil)
	return id, nil
}

func (uc *companyUsecase) UpdateCompany(ctx context.Context, id string, payload domain.CompanyPayload, upload *domain.LogoUpload) error {
	companyID, err := uuid.Parse(id)
	if err != nil {
		return apperror.NotFound("Company not found")
	}

	in, logo, err := uc.prepare(ctx, payload, upload)
	if err != nil {
		return err
	}

	if err := uc.repo.Update(ctx, companyID, in, logo); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return apperror.NotFound("Company not found")
		case errors.Is(err, domain.ErrConflict):
			return apperror.Conflict("A company with this Ref ID already exists")
		}
		return storageFailure("update_company", err, "company_id", companyID)
	}

	if logo != nil {
		uc.cache.Invalidate(ctx, companyID)
	}
	logger.Log.Info("Company updated", "company_id", companyID, "logo_replaced", logo != nil)
	return nil
}

// prepare validates the form and the logo together so every issue is reported
// at once, before any storage work.
func (uc *companyUsecase) prepare(ctx context.Context, payload domain.CompanyPayload, upload *domain.LogoUpload) (domain.CompanyInput, *domain.Logo, error) {
	issues := uc.validator.CompanyIssues(&payload)

	logo, logoIssue, err := uc.normalizeLogo(ctx, upload)
	if err != nil {
		return domain.CompanyInput{}, nil, err
	}
	if logoIssue != nil {
		issues = append(issues, *logoIssue)
	}

	if len(issues) > 0 {
		return domain.CompanyInput{}, nil, apperror.Validation(issues)
	}
	return schema.CompanyInput(payload), logo, nil
}

// normalizeLogo returns all nils when no logo was uploaded. The error is only
// set when the upload could not be scanned.
func (uc *companyUsecase) normalizeLogo(ctx context.Context, upload *domain.LogoUpload) (*domain.Logo, *apperror.Issue, error) {
	if upload == nil || len(upload.Data) == 0 {
		return nil, nil, nil
	}

	result := security.ValidateLogo(upload.Data, uc.logo.MaxBytes)
	if !result.Valid {
		logger.Log.Warn("Logo rejected",
			"filename", upload.Filename,
			"claimed_mime", upload.ClaimedMime,
			"detected_mime", result.DetectedMIME,
			"reason", result.Error,
		)
		return nil, &apperror.Issue{Field: "logo", Message: result.Error}, nil
	}

	if uc.logo.Scanner != nil {
		verdict, err := uc.logo.Scanner.Scan(ctx, upload.Filename, upload.Data)
		if err != nil {
			logger.Log.Error("Logo scan failed", "scanner", uc.logo.Scanner.Name(), "error", err)
			return nil, nil, apperror.New(http.StatusServiceUnavailable, "Logo scanning is unavailable. Please try again later.", err)
		}
		if verdict.Infected {
			logger.Log.Warn("Logo rejected by malware scan",
				"filename", upload.Filename,
				"scanner", verdict.Scanner,
				"signature", verdict.Signature,
			)
			return nil, &apperror.Issue{Field: "logo", Message: "Logo was rejected by the malware scan"}, nil
		}
	}

	data, mime, err := imaging.Fit(upload.Data, result.DetectedMIME, uc.logo.MaxDimension)
	if err != nil {
		logger.Log.Warn("Logo could not be decoded", "filename", upload.Filename, "error", err)
		return nil, &apperror.Issue{Field: "logo", Message: "Logo could not be read as an image"}, nil
	}

	return &domain.Logo{Mime: mime, Bytes: data}, nil, nil
}

type noLogoCache struct{}

func (noLogoCache) Get(context.Context, uuid.UUID) (*domain.Logo, bool) { return nil, false }
func (noLogoCache) Set(context.Context, uuid.UUID, *domain.Logo)        {}
func (noLogoCache) Invalidate(context.Context, uuid.UUID)               {}
