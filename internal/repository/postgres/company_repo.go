package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobs-admin-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type companyRepo struct {
	db *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) domain.CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) List(ctx context.Context, params domain.CompanyListParams) ([]domain.Company, error) {
	conditions := []string{}
	args := []interface{}{}

	switch params.Status {
	case domain.CompanyStatusActive:
		conditions = append(conditions, "c.total_jobs > 0")
	case domain.CompanyStatusInactive:
		conditions = append(conditions, "c.total_jobs = 0")
	}

	if search := strings.TrimSpace(params.Search); search != "" {
		args = append(args, "%"+search+"%")
		conditions = append(conditions, fmt.Sprintf("(c.name ILIKE $%d OR c.ref_id ILIKE $%d)", len(args), len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, listLimit(params.Limit))
	query := fmt.Sprintf(`
		SELECT c.id, c.ref_id, c.name, c.description, c.industry, c.website,
		       c.total_jobs, c.is_active, c.created_at
		FROM companies c
		%s
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT $%d`, whereClause, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	companies := []domain.Company{}
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(
			&c.ID, &c.RefID, &c.Name, &c.Description, &c.Industry, &c.Website,
			&c.TotalJobs, &c.IsActive, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

func (r *companyRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CompanyDetail, error) {
	query := `
		SELECT c.id, c.ref_id, c.name, c.description, c.industry, c.website,
		       c.total_jobs, c.is_active, c.created_at,
		       cc.first_name, cc.last_name, cc.email, cc.role, cc.phone,
		       c.logo_bytes IS NOT NULL
		FROM companies c
		LEFT JOIN company_contacts cc ON cc.company_id = c.id AND cc.is_primary
		WHERE c.id = $1`

	var d domain.CompanyDetail
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.RefID, &d.Name, &d.Description, &d.Industry, &d.Website,
		&d.TotalJobs, &d.IsActive, &d.CreatedAt,
		&d.FirstName, &d.LastName, &d.Email, &d.Role, &d.Phone,
		&d.HasLogo,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get company %s: %w", id, err)
	}
	return &d, nil
}

// GetLogo returns domain.ErrNotFound both for an unknown company and for one without a logo.
func (r *companyRepo) GetLogo(ctx context.Context, id uuid.UUID) (*domain.Logo, error) {
	var mime *string
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT logo_mime, logo_bytes FROM companies WHERE id = $1`, id).Scan(&mime, &data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get company logo %s: %w", id, err)
	}
	if mime == nil || len(data) == 0 {
		return nil, domain.ErrNotFound
	}
	return &domain.Logo{Mime: *mime, Bytes: data}, nil
}

func (r *companyRepo) Create(ctx context.Context, in domain.CompanyInput, logo *domain.Logo) (uuid.UUID, error) {
	id := uuid.New()

	var logoMime *string
	var logoBytes []byte
	if logo != nil {
		logoMime, logoBytes = &logo.Mime, logo.Bytes
	}

	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		// A new company has no jobs yet, so it always starts inactive.
		_, err := tx.Exec(ctx, `
			INSERT INTO companies (id, ref_id, name, description, industry, website,
			                       is_active, total_jobs, logo_mime, logo_bytes)
			VALUES ($1, $2, $3, $4, $5, $6, false, 0, $7, $8)`,
			id, in.RefID, in.Name, in.Description, in.Industry, in.Website, logoMime, logoBytes,
		)
		if err != nil {
			return fmt.Errorf("insert company: %w", mapPgError(err))
		}

		if err := upsertPrimaryContact(ctx, tx, id, in); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *companyRepo) Update(ctx context.Context, id uuid.UUID, in domain.CompanyInput, logo *domain.Logo) error {
	sets := []string{"ref_id = $1", "name = $2", "description = $3", "industry = $4", "website = $5"}
	args := []interface{}{in.RefID, in.Name, in.Description, in.Industry, in.Website}

	// Omitted logo keeps the stored one.
	if logo != nil {
		args = append(args, logo.Mime, logo.Bytes)
		sets = append(sets, fmt.Sprintf("logo_mime = $%d", len(args)-1), fmt.Sprintf("logo_bytes = $%d", len(args)))
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE companies SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update company %s: %w", id, mapPgError(err))
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return upsertPrimaryContact(ctx, tx, id, in)
	})
}

// upsertPrimaryContact relies on the partial unique index allowing one primary contact per company.
func upsertPrimaryContact(ctx context.Context, tx pgx.Tx, companyID uuid.UUID, in domain.CompanyInput) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO company_contacts (id, company_id, first_name, last_name, email, role, phone, is_primary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true)
		ON CONFLICT (company_id) WHERE is_primary
		DO UPDATE SET first_name = EXCLUDED.first_name,
		              last_name  = EXCLUDED.last_name,
		              email      = EXCLUDED.email,
		              role       = EXCLUDED.role,
		              phone      = EXCLUDED.phone`,
		uuid.New(), companyID, in.ContactFirstName, in.ContactLastName, in.ContactEmail, in.ContactRole, in.ContactPhone,
	)
	if err != nil {
		return fmt.Errorf("upsert primary contact for company %s: %w", companyID, mapPgError(err))
	}
	return nil
}
