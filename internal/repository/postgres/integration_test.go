package postgres_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"jobs-admin-backend/internal/domain"
	"jobs-admin-backend/internal/repository/postgres"
	"jobs-admin-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestPool migrates a throwaway schema on TEST_DATABASE_URL and drops it
// when the test ends.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	admin, err := database.NewPostgresConnection(ctx, dsn, database.PoolOptions{MaxConns: 2, MinConns: 1})
	require.NoError(t, err)
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		admin.Close()
	})

	pool, err := database.NewPostgresConnection(ctx, withSearchPath(dsn, schema), database.PoolOptions{MaxConns: 30, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.Migrate(ctx, pool))
	return pool
}

func withSearchPath(dsn, schema string) string {
	if strings.Contains(dsn, "://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "search_path=" + schema
	}
	return dsn + " search_path=" + schema
}

func ptr(s string) *string { return &s }

func companyInput(ref string) domain.CompanyInput {
	return domain.CompanyInput{
		RefID:            ref,
		Name:             "Company " + ref,
		ContactFirstName: "Ada",
		ContactLastName:  "Lovelace",
		ContactEmail:     "ada@" + strings.ToLower(ref) + ".test",
	}
}

func jobInput(companyID uuid.UUID, status domain.JobStatus) domain.JobInput {
	return domain.JobInput{
		CompanyID:   companyID,
		Title:       "Accountant",
		Status:      status,
		SalaryBands: []string{},
		Categories:  []string{"Accounting"},
	}
}

type fixture struct {
	ctx       context.Context
	pool      *pgxpool.Pool
	companies domain.CompanyRepository
	jobs      domain.JobRepository
}

func newFixture(t *testing.T) *fixture {
	pool := openTestPool(t)
	return &fixture{
		ctx:       context.Background(),
		pool:      pool,
		companies: postgres.NewCompanyRepository(pool),
		jobs:      postgres.NewJobRepository(pool),
	}
}

func (f *fixture) createCompany(t *testing.T, ref string) uuid.UUID {
	t.Helper()
	id, err := f.companies.Create(f.ctx, companyInput(ref), nil)
	require.NoError(t, err)
	return id
}

func (f *fixture) assertDerived(t *testing.T, companyID uuid.UUID, total int, active bool) {
	t.Helper()
	c, err := f.companies.GetByID(f.ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, total, c.TotalJobs, "total_jobs")
	assert.Equal(t, active, c.IsActive, "is_active")
}

func TestCompanyCreateStartsInactiveWithContact(t *testing.T) {
	f := newFixture(t)

	in := companyInput("ACME")
	in.Website = ptr("https://acme.test")
	in.ContactPhone = ptr("+1 555")
	id, err := f.companies.Create(f.ctx, in, &domain.Logo{Mime: "image/png", Bytes: []byte{0x89, 'P', 'N', 'G'}})
	require.NoError(t, err)

	c, err := f.companies.GetByID(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, c.TotalJobs)
	assert.False(t, c.IsActive)
	assert.True(t, c.HasLogo)
	assert.Equal(t, "https://acme.test", *c.Website)
	require.NotNil(t, c.Email)
	assert.Equal(t, "ada@acme.test", *c.Email)
	assert.Equal(t, "+1 555", *c.Phone)
	assert.Nil(t, c.Role)
}

func TestCompanyDuplicateRefIsConflictWithoutPartialWrite(t *testing.T) {
	f := newFixture(t)
	f.createCompany(t, "DUP")

	in := companyInput("DUP")
	in.ContactEmail = "second@dup.test"
	_, err := f.companies.Create(f.ctx, in, nil)
	assert.ErrorIs(t, err, domain.ErrConflict)

	var contacts int
	require.NoError(t, f.pool.QueryRow(f.ctx,
		`SELECT COUNT(*) FROM company_contacts WHERE email = 'second@dup.test'`).Scan(&contacts))
	assert.Zero(t, contacts)

	var companies int
	require.NoError(t, f.pool.QueryRow(f.ctx, `SELECT COUNT(*) FROM companies`).Scan(&companies))
	assert.Equal(t, 1, companies)
}

func TestCompanyUpdateKeepsLogoWhenOmitted(t *testing.T) {
	f := newFixture(t)
	logo := &domain.Logo{Mime: "image/png", Bytes: []byte{1, 2, 3, 4, 5}}
	id, err := f.companies.Create(f.ctx, companyInput("LOGO"), logo)
	require.NoError(t, err)

	in := companyInput("LOGO")
	in.Name = "Renamed"
	require.NoError(t, f.companies.Update(f.ctx, id, in, nil))

	got, err := f.companies.GetLogo(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, logo.Mime, got.Mime)
	assert.Equal(t, logo.Bytes, got.Bytes)

	replacement := &domain.Logo{Mime: "image/jpeg", Bytes: []byte{0xFF, 0xD8, 0xFF}}
	require.NoError(t, f.companies.Update(f.ctx, id, in, replacement))
	got, err = f.companies.GetLogo(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, replacement.Bytes, got.Bytes)
	assert.Equal(t, "image/jpeg", got.Mime)
}

func TestCompanyUpdateUpsertsContactAndLeavesDerivedFields(t *testing.T) {
	f := newFixture(t)
	id := f.createCompany(t, "UPS")
	_, err := f.jobs.Create(f.ctx, jobInput(id, domain.JobStatusOpen))
	require.NoError(t, err)

	_, err = f.pool.Exec(f.ctx, `DELETE FROM company_contacts WHERE company_id = $1`, id)
	require.NoError(t, err)

	in := companyInput("UPS")
	in.ContactFirstName = "Grace"
	require.NoError(t, f.companies.Update(f.ctx, id, in, nil))

	c, err := f.companies.GetByID(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Grace", *c.FirstName)
	assert.Equal(t, 1, c.TotalJobs)
	assert.True(t, c.IsActive)

	in.ContactFirstName = "Hopper"
	require.NoError(t, f.companies.Update(f.ctx, id, in, nil))

	var primaries int
	require.NoError(t, f.pool.QueryRow(f.ctx,
		`SELECT COUNT(*) FROM company_contacts WHERE company_id = $1 AND is_primary`, id).Scan(&primaries))
	assert.Equal(t, 1, primaries)
}

func TestCompanyMissing(t *testing.T) {
	f := newFixture(t)
	missing := uuid.New()

	_, err := f.companies.GetByID(f.ctx, missing)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.companies.GetLogo(f.ctx, missing)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.companies.Update(f.ctx, missing, companyInput("NOPE"), nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	id := f.createCompany(t, "NOLOGO")
	_, err = f.companies.GetLogo(f.ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompanyListFilters(t *testing.T) {
	f := newFixture(t)
	active := f.createCompany(t, "ALPHA")
	f.createCompany(t, "BETA")
	_, err := f.jobs.Create(f.ctx, jobInput(active, domain.JobStatusOpen))
	require.NoError(t, err)

	list, err := f.companies.List(f.ctx, domain.CompanyListParams{Status: domain.CompanyStatusActive})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, active, list[0].ID)

	list, err = f.companies.List(f.ctx, domain.CompanyListParams{Status: domain.CompanyStatusInactive})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "BETA", list[0].RefID)

	list, err = f.companies.List(f.ctx, domain.CompanyListParams{Search: "alp", Status: domain.CompanyStatusAll})
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = f.companies.List(f.ctx, domain.CompanyListParams{Status: domain.CompanyStatusAll, Limit: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "BETA", list[0].RefID, "newest first")
}

func TestJobStatusDrivesCompanyActivity(t *testing.T) {
	f := newFixture(t)
	companyID := f.createCompany(t, "ACT")

	draft, err := f.jobs.Create(f.ctx, jobInput(companyID, domain.JobStatusDraft))
	require.NoError(t, err)
	f.assertDerived(t, companyID, 0, false)

	open := jobInput(companyID, domain.JobStatusOpen)
	require.NoError(t, f.jobs.Update(f.ctx, draft, open))
	f.assertDerived(t, companyID, 1, true)

	second, err := f.jobs.Create(f.ctx, open)
	require.NoError(t, err)
	f.assertDerived(t, companyID, 2, true)

	require.NoError(t, f.jobs.Update(f.ctx, draft, jobInput(companyID, domain.JobStatusClosed)))
	f.assertDerived(t, companyID, 1, true)

	require.NoError(t, f.jobs.Delete(f.ctx, second))
	f.assertDerived(t, companyID, 0, false)
}

func TestJobReassignmentRecomputesBothCompanies(t *testing.T) {
	f := newFixture(t)
	a := f.createCompany(t, "A")
	b := f.createCompany(t, "B")

	jobID, err := f.jobs.Create(f.ctx, jobInput(a, domain.JobStatusOpen))
	require.NoError(t, err)
	f.assertDerived(t, a, 1, true)
	f.assertDerived(t, b, 0, false)

	require.NoError(t, f.jobs.Update(f.ctx, jobID, jobInput(b, domain.JobStatusOpen)))
	f.assertDerived(t, a, 0, false)
	f.assertDerived(t, b, 1, true)

	job, err := f.jobs.GetByID(f.ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, b, job.CompanyID)
}

func TestJobInvalidCompanyLeavesNothingBehind(t *testing.T) {
	f := newFixture(t)

	_, err := f.jobs.Create(f.ctx, jobInput(uuid.New(), domain.JobStatusOpen))
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	var n int
	require.NoError(t, f.pool.QueryRow(f.ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n))
	assert.Zero(t, n)

	companyID := f.createCompany(t, "REAL")
	jobID, err := f.jobs.Create(f.ctx, jobInput(companyID, domain.JobStatusOpen))
	require.NoError(t, err)

	err = f.jobs.Update(f.ctx, jobID, jobInput(uuid.New(), domain.JobStatusOpen))
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
	f.assertDerived(t, companyID, 1, true)
}

func TestJobMissing(t *testing.T) {
	f := newFixture(t)
	companyID := f.createCompany(t, "MISS")

	_, err := f.jobs.GetByID(f.ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.jobs.Update(f.ctx, uuid.New(), jobInput(companyID, domain.JobStatusOpen))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	f.assertDerived(t, companyID, 0, false)

	assert.ErrorIs(t, f.jobs.Delete(f.ctx, uuid.New()), domain.ErrNotFound)
	assert.ErrorIs(t, f.jobs.Recompute(f.ctx, uuid.New()), domain.ErrNotFound)
}

func TestJobRefIDUniquePerCompany(t *testing.T) {
	f := newFixture(t)
	a := f.createCompany(t, "RA")
	b := f.createCompany(t, "RB")

	in := jobInput(a, domain.JobStatusOpen)
	in.RefID = ptr("J-1")
	_, err := f.jobs.Create(f.ctx, in)
	require.NoError(t, err)

	_, err = f.jobs.Create(f.ctx, in)
	assert.ErrorIs(t, err, domain.ErrConflict)
	f.assertDerived(t, a, 1, true)

	in.CompanyID = b
	_, err = f.jobs.Create(f.ctx, in)
	assert.NoError(t, err)

	// Absent ref ids never collide.
	_, err = f.jobs.Create(f.ctx, jobInput(a, domain.JobStatusDraft))
	require.NoError(t, err)
	_, err = f.jobs.Create(f.ctx, jobInput(a, domain.JobStatusDraft))
	assert.NoError(t, err)
}

func TestJobRoundTripAndList(t *testing.T) {
	f := newFixture(t)
	companyID := f.createCompany(t, "RT")

	closing := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	in := jobInput(companyID, domain.JobStatusOpen)
	in.RefID = ptr("RT-9")
	in.Title = "Senior Auditor"
	in.Seniority = ptr("Senior")
	in.ClosingDate = &closing
	in.SalaryBands = []string{"60000+"}
	in.Categories = []string{"Accounting", "Finance"}
	in.Description = ptr("<p>Audit things</p>")

	id, err := f.jobs.Create(f.ctx, in)
	require.NoError(t, err)

	job, err := f.jobs.GetByID(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Senior Auditor", job.Title)
	assert.Equal(t, []string{"60000+"}, job.SalaryBands)
	assert.Equal(t, []string{"Accounting", "Finance"}, job.Categories)
	require.NotNil(t, job.ClosingDate)
	assert.Equal(t, "2026-12-31", job.ClosingDate.Format("2006-01-02"))

	_, err = f.jobs.Create(f.ctx, jobInput(companyID, domain.JobStatusDraft))
	require.NoError(t, err)

	list, err := f.jobs.List(f.ctx, domain.JobListParams{Status: domain.JobStatusFilter(domain.JobStatusOpen)})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "RT", list[0].CompanyRefID)
	assert.Equal(t, "Company RT", list[0].CompanyName)

	list, err = f.jobs.List(f.ctx, domain.JobListParams{Search: "rt-9", Status: domain.JobStatusFilterAll})
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = f.jobs.List(f.ctx, domain.JobListParams{Search: "company rt", CompanyID: &companyID})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	other := uuid.New()
	list, err = f.jobs.List(f.ctx, domain.JobListParams{CompanyID: &other})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestConcurrentJobCreatesCountEveryOpenJob(t *testing.T) {
	f := newFixture(t)
	companyID := f.createCompany(t, "RACE")

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := jobInput(companyID, domain.JobStatusOpen)
			in.RefID = ptr(fmt.Sprintf("RACE-%d", i))
			if _, err := f.jobs.Create(f.ctx, in); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	f.assertDerived(t, companyID, workers, true)
}

func TestConcurrentReassignmentsDoNotDeadlock(t *testing.T) {
	f := newFixture(t)
	a := f.createCompany(t, "DA")
	b := f.createCompany(t, "DB")

	const perSide = 10
	var ids []uuid.UUID
	for i := 0; i < perSide; i++ {
		for _, c := range []uuid.UUID{a, b} {
			id, err := f.jobs.Create(f.ctx, jobInput(c, domain.JobStatusOpen))
			require.NoError(t, err)
			ids = append(ids, id)
		}
	}

	// Every job swaps sides concurrently; each transaction locks both companies.
	var wg sync.WaitGroup
	errs := make(chan error, len(ids))
	for i, id := range ids {
		target := b
		if i%2 == 1 {
			target = a
		}
		wg.Add(1)
		go func(id, target uuid.UUID) {
			defer wg.Done()
			if err := f.jobs.Update(f.ctx, id, jobInput(target, domain.JobStatusOpen)); err != nil {
				errs <- err
			}
		}(id, target)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	f.assertDerived(t, a, perSide, true)
	f.assertDerived(t, b, perSide, true)
}

func TestRecomputeRepairsDrift(t *testing.T) {
	f := newFixture(t)
	companyID := f.createCompany(t, "DRIFT")
	_, err := f.jobs.Create(f.ctx, jobInput(companyID, domain.JobStatusOpen))
	require.NoError(t, err)

	_, err = f.pool.Exec(f.ctx, `INSERT INTO jobs (company_id, title, status, categories) VALUES ($1, 'Raw', 'open', '{IT}')`, companyID)
	require.NoError(t, err)
	f.assertDerived(t, companyID, 1, true)

	require.NoError(t, f.jobs.Recompute(f.ctx, companyID))
	f.assertDerived(t, companyID, 2, true)
}
