package repositories

import (
	"context"
	"errors"

	"cvforge/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrTenantNotFound is returned for subdomains that never existed and for
// deactivated tenants alike. Callers must not be able to tell the two
// apart.
var ErrTenantNotFound = errors.New("tenant not found")

// Querier is the subset of pgxpool.Pool the repositories use. It matches
// pgxmock for tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// TenantRepository is the read API over the externally-owned tenant store.
// Tenant records are created and mutated only by the reseller-onboarding
// path; this core never writes them.
type TenantRepository interface {
	GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	ListActive(ctx context.Context) ([]*models.Tenant, error)
}

type tenantRepo struct {
	db Querier
}

func NewTenantRepository(db Querier) TenantRepository {
	return &tenantRepo{db: db}
}

const tenantColumns = `id, subdomain, active, brand_name, primary_color, secondary_color,
		logo_url, favicon_url, contact_email, contact_phone, contact_address,
		base_url, pricing, payment_credentials, created_at, updated_at`

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	err := row.Scan(
		&tenant.ID, &tenant.Subdomain, &tenant.Active, &tenant.BrandName,
		&tenant.PrimaryColor, &tenant.SecondaryColor, &tenant.LogoURL,
		&tenant.FaviconURL, &tenant.ContactEmail, &tenant.ContactPhone,
		&tenant.ContactAddress, &tenant.BaseURL, &tenant.Pricing,
		&tenant.Credentials, &tenant.CreatedAt, &tenant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// GetBySubdomain looks up an active tenant by its normalized subdomain.
// Inactive tenants are filtered in the query so they surface exactly like
// rows that never existed.
func (r *tenantRepo) GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE subdomain = $1 AND active = true
	`
	tenant, err := scanTenant(r.db.QueryRow(ctx, query, subdomain))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return tenant, nil
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE id = $1 AND active = true
	`
	tenant, err := scanTenant(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return tenant, nil
}

// ListActive returns every active tenant, used by the cache refresh job.
func (r *tenantRepo) ListActive(ctx context.Context) ([]*models.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE active = true
		ORDER BY subdomain
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}
	return tenants, rows.Err()
}
