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
	"github.com/lib/pq"
)

type jobRepo struct {
	db *pgxpool.Pool
}

// NewJobRepository returns a repository whose every mutation recomputes the
// affected companies' total_jobs and is_active in the same transaction.
func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) List(ctx context.Context, params domain.JobListParams) ([]domain.JobSummary, error) {
	conditions := []string{}
	args := []interface{}{}

	if params.CompanyID != nil {
		args = append(args, *params.CompanyID)
		conditions = append(conditions, fmt.Sprintf("j.company_id = $%d", len(args)))
	}

	if status, ok := params.Status.Status(); ok {
		args = append(args, string(status))
		conditions = append(conditions, fmt.Sprintf("j.status = $%d", len(args)))
	}

	if search := strings.TrimSpace(params.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(j.title ILIKE $%d OR COALESCE(j.ref_id, '') ILIKE $%d OR c.name ILIKE $%d)", n, n, n))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, listLimit(params.Limit))
	query := fmt.Sprintf(`
		SELECT j.id, j.company_id, c.name, c.ref_id, j.ref_id, j.title, j.status,
		       j.closing_date, j.created_at, j.updated_at
		FROM jobs j
		JOIN companies c ON c.id = j.company_id
		%s
		ORDER BY j.created_at DESC, j.id DESC
		LIMIT $%d`, whereClause, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []domain.JobSummary{}
	for rows.Next() {
		var j domain.JobSummary
		if err := rows.Scan(
			&j.ID, &j.CompanyID, &j.CompanyName, &j.CompanyRefID, &j.RefID, &j.Title, &j.Status,
			&j.ClosingDate, &j.CreatedAt, &j.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

func (r *jobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	query := `
		SELECT id, company_id, ref_id, title, status, location, basis, seniority,
		       closing_date, salary_bands, categories, description, created_at, updated_at
		FROM jobs
		WHERE id = $1`

	var j domain.Job
	err := r.db.QueryRow(ctx, query, id).Scan(
		&j.ID, &j.CompanyID, &j.RefID, &j.Title, &j.Status, &j.Location, &j.Basis, &j.Seniority,
		&j.ClosingDate, pq.Array(&j.SalaryBands), pq.Array(&j.Categories), &j.Description,
		&j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	if j.SalaryBands == nil {
		j.SalaryBands = []string{}
	}
	return &j, nil
}

func (r *jobRepo) Create(ctx context.Context, in domain.JobInput) (uuid.UUID, error) {
	id := uuid.New()

	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO jobs (id, company_id, ref_id, title, status, location, basis, seniority,
			                  closing_date, salary_bands, categories, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::date, $10, $11, $12)`,
			id, in.CompanyID, in.RefID, in.Title, string(in.Status), in.Location, in.Basis, in.Seniority,
			dateParam(in.ClosingDate), pq.Array(in.SalaryBands), pq.Array(in.Categories), in.Description,
		)
		if err != nil {
			return fmt.Errorf("insert job: %w", mapPgError(err))
		}
		return lockAndRecompute(ctx, tx, in.CompanyID)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Update replaces every job field. When the job moves to another company both
// the origin and the target are recomputed.
func (r *jobRepo) Update(ctx context.Context, id uuid.UUID, in domain.JobInput) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		var origin uuid.UUID
		err := tx.QueryRow(ctx, `SELECT company_id FROM jobs WHERE id = $1 FOR UPDATE`, id).Scan(&origin)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("read job %s: %w", id, err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE jobs
			SET company_id = $1, ref_id = $2, title = $3, status = $4, location = $5,
			    basis = $6, seniority = $7, closing_date = $8::date, salary_bands = $9,
			    categories = $10, description = $11, updated_at = now()
			WHERE id = $12`,
			in.CompanyID, in.RefID, in.Title, string(in.Status), in.Location,
			in.Basis, in.Seniority, dateParam(in.ClosingDate), pq.Array(in.SalaryBands),
			pq.Array(in.Categories), in.Description, id,
		)
		if err != nil {
			return fmt.Errorf("update job %s: %w", id, mapPgError(err))
		}

		return lockAndRecompute(ctx, tx, origin, in.CompanyID)
	})
}

func (r *jobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		var companyID uuid.UUID
		err := tx.QueryRow(ctx, `DELETE FROM jobs WHERE id = $1 RETURNING company_id`, id).Scan(&companyID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("delete job %s: %w", id, err)
		}
		return lockAndRecompute(ctx, tx, companyID)
	})
}

func (r *jobRepo) Recompute(ctx context.Context, companyID uuid.UUID) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		return lockAndRecompute(ctx, tx, companyID)
	})
}
