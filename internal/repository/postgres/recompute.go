package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"jobs-admin-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// lockCompanies takes FOR NO KEY UPDATE row locks on the given companies in
// ascending id order. NO KEY UPDATE does not conflict with the KEY SHARE lock a
// job insert takes through its foreign key, and the fixed order keeps two
// reassignments between the same pair of companies from deadlocking.
// It returns domain.ErrNotFound if any company is missing.
func lockCompanies(ctx context.Context, db dbtx, ids ...uuid.UUID) error {
	ids = uniqueSorted(ids)
	for _, id := range ids {
		var locked uuid.UUID
		err := db.QueryRow(ctx, `SELECT id FROM companies WHERE id = $1 FOR NO KEY UPDATE`, id).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("lock company %s: %w", id, domain.ErrNotFound)
			}
			return fmt.Errorf("lock company %s: %w", id, err)
		}
	}
	return nil
}

// recompute rewrites total_jobs and is_active from the live count of open
// jobs. The caller must already hold the company row lock so the count is
// taken after every competing writer has committed.
func recompute(ctx context.Context, db dbtx, companyID uuid.UUID) error {
	tag, err := db.Exec(ctx, `
		UPDATE companies c
		SET total_jobs = open_jobs.n,
		    is_active  = open_jobs.n > 0
		FROM (
			SELECT COUNT(*)::int AS n FROM jobs
			WHERE company_id = $1 AND status = 'open'
		) AS open_jobs
		WHERE c.id = $1`, companyID)
	if err != nil {
		return fmt.Errorf("recompute company %s: %w", companyID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recompute company %s: %w", companyID, domain.ErrNotFound)
	}
	return nil
}

// lockAndRecompute refreshes every distinct company in ids within tx.
func lockAndRecompute(ctx context.Context, tx pgx.Tx, ids ...uuid.UUID) error {
	ids = uniqueSorted(ids)
	if err := lockCompanies(ctx, tx, ids...); err != nil {
		return err
	}
	for _, id := range ids {
		if err := recompute(ctx, tx, id); err != nil {
			return err
		}
	}
	return nil
}

func uniqueSorted(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		dup := false
		for _, seen := range out {
			if seen == id {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i][:], out[j][:]) < 0 })
	return out
}
