package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CompanyStatusFilter narrows company lists on the cached activity flag.
type CompanyStatusFilter string

const (
	CompanyStatusAll      CompanyStatusFilter = "all"
	CompanyStatusActive   CompanyStatusFilter = "active"
	CompanyStatusInactive CompanyStatusFilter = "inactive"
)

// ParseCompanyStatusFilter converts a raw query value. The empty string means all.
func ParseCompanyStatusFilter(s string) (CompanyStatusFilter, error) {
	switch f := CompanyStatusFilter(s); f {
	case CompanyStatusAll, CompanyStatusActive, CompanyStatusInactive:
		return f, nil
	case "":
		return CompanyStatusAll, nil
	}
	return "", fmt.Errorf("unknown company status filter %q", s)
}

// Company is a list row. TotalJobs and IsActive are maintained by job mutations only.
type Company struct {
	ID          uuid.UUID `json:"id"`
	RefID       string    `json:"ref_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Industry    *string   `json:"industry"`
	Website     *string   `json:"website"`
	TotalJobs   int       `json:"total_jobs"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Contact is the primary contact owned by a company.
type Contact struct {
	FirstName *string `json:"contact_first_name"`
	LastName  *string `json:"contact_last_name"`
	Email     *string `json:"contact_email"`
	Role      *string `json:"contact_role"`
	Phone     *string `json:"contact_phone"`
}

// CompanyDetail joins the primary contact and reports logo presence without the bytes.
type CompanyDetail struct {
	Company
	Contact
	HasLogo bool `json:"has_logo"`
}

// Logo is a company logo as stored inline with the company row.
type Logo struct {
	Mime  string
	Bytes []byte
}

// CompanyInput is a validated, normalized company payload. Optional fields are nil when absent.
type CompanyInput struct {
	RefID       string
	Name        string
	Description *string
	Industry    *string
	Website     *string

	ContactFirstName string
	ContactLastName  string
	ContactEmail     string
	ContactRole      *string
	ContactPhone     *string
}

type CompanyListParams struct {
	Search string
	Status CompanyStatusFilter
	Limit  int
}

// CompanyRepository defines storage operations for companies and their primary contact
type CompanyRepository interface {
	List(ctx context.Context, params CompanyListParams) ([]Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CompanyDetail, error)
	GetLogo(ctx context.Context, id uuid.UUID) (*Logo, error)
	// Create inserts the company (inactive, zero jobs) and its primary contact atomically.
	Create(ctx context.Context, in CompanyInput, logo *Logo) (uuid.UUID, error)
	// Update leaves the stored logo untouched when logo is nil.
	Update(ctx context.Context, id uuid.UUID, in CompanyInput, logo *Logo) error
}

// CompanyUsecase is the boundary the transport layer calls into
type CompanyUsecase interface {
	ListCompanies(ctx context.Context, search string, status CompanyStatusFilter) ([]Company, error)
	GetCompany(ctx context.Context, id string) (*CompanyDetail, error)
	GetCompanyLogo(ctx context.Context, id string) (*Logo, error)
	CreateCompany(ctx context.Context, payload CompanyPayload, upload *LogoUpload) (uuid.UUID, error)
	UpdateCompany(ctx context.Context, id string, payload CompanyPayload, upload *LogoUpload) error
}

// CompanyPayload is the raw, unvalidated company form, bound from JSON or multipart.
type CompanyPayload struct {
	RefID       string `json:"refId" form:"refId" validate:"required"`
	Name        string `json:"name" form:"name" validate:"required"`
	Description string `json:"description" form:"description"`
	Industry    string `json:"industry" form:"industry"`
	Website     string `json:"website" form:"website"`

	ContactFirstName string `json:"contactFirstName" form:"contactFirstName" validate:"required"`
	ContactLastName  string `json:"contactLastName" form:"contactLastName" validate:"required"`
	ContactEmail     string `json:"contactEmail" form:"contactEmail" validate:"required,email"`
	ContactRole      string `json:"contactRole" form:"contactRole"`
	ContactPhone     string `json:"contactPhone" form:"contactPhone"`
}

// LogoUpload is a logo file as received from the client, before sniffing.
type LogoUpload struct {
	Filename    string
	ClaimedMime string
	Data        []byte
}

// LogoCache is a best-effort read-through cache for logo bytes. Misses and
// backend failures are indistinguishable to callers.
type LogoCache interface {
	Get(ctx context.Context, companyID uuid.UUID) (*Logo, bool)
	Set(ctx context.Context, companyID uuid.UUID, logo *Logo)
	Invalidate(ctx context.Context, companyID uuid.UUID)
}
