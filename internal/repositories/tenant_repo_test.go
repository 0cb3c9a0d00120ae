package repositories

import (
	"context"
	"testing"
	"time"

	"cvforge/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type TenantRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    TenantRepository
	context context.Context
}

func (suite *TenantRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewTenantRepository(mock)
	suite.context = context.Background()
}

func (suite *TenantRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestTenantRepoTestSuite(t *testing.T) {
	suite.Run(t, new(TenantRepoTestSuite))
}

func tenantRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "subdomain", "active", "brand_name", "primary_color",
		"secondary_color", "logo_url", "favicon_url", "contact_email",
		"contact_phone", "contact_address", "base_url", "pricing",
		"payment_credentials", "created_at", "updated_at",
	})
}

func (suite *TenantRepoTestSuite) TestGetBySubdomain_Success() {
	id := uuid.New()
	now := time.Now()
	pricing := map[string]int64{"tier-1": 699}
	credentials := &models.GatewayCredentials{
		PublicKey: "pk_live_x",
		SecretKey: "sk_live_y",
	}

	suite.mock.ExpectQuery(`(?s)SELECT .+ FROM tenants\s+WHERE subdomain = \$1 AND active = true`).
		WithArgs("acme").
		WillReturnRows(tenantRows().AddRow(
			id, "acme", true, "Acme Careers", "#ff0000",
			"#00ff00", "https://cdn.example/logo.png", "", "jobs@acme.example",
			"", "", "/acme", pricing,
			credentials, now, now,
		))

	tenant, err := suite.repo.GetBySubdomain(suite.context, "acme")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), id, tenant.ID)
	assert.Equal(suite.T(), "acme", tenant.Subdomain)
	assert.Equal(suite.T(), int64(699), tenant.Pricing["tier-1"])
	assert.Equal(suite.T(), "pk_live_x", tenant.Credentials.PublicKey)
}

func (suite *TenantRepoTestSuite) TestGetBySubdomain_NotFound() {
	suite.mock.ExpectQuery(`(?s)SELECT .+ FROM tenants\s+WHERE subdomain = \$1 AND active = true`).
		WithArgs("ghost").
		WillReturnRows(tenantRows())

	tenant, err := suite.repo.GetBySubdomain(suite.context, "ghost")
	assert.Nil(suite.T(), tenant)
	assert.ErrorIs(suite.T(), err, ErrTenantNotFound)
}

func (suite *TenantRepoTestSuite) TestGetByID_NotFound() {
	id := uuid.New()
	suite.mock.ExpectQuery(`(?s)SELECT .+ FROM tenants\s+WHERE id = \$1 AND active = true`).
		WithArgs(id).
		WillReturnRows(tenantRows())

	tenant, err := suite.repo.GetByID(suite.context, id)
	assert.Nil(suite.T(), tenant)
	assert.ErrorIs(suite.T(), err, ErrTenantNotFound)
}

func (suite *TenantRepoTestSuite) TestListActive_Success() {
	now := time.Now()

	suite.mock.ExpectQuery(`(?s)SELECT .+ FROM tenants\s+WHERE active = true\s+ORDER BY subdomain`).
		WillReturnRows(tenantRows().
			AddRow(uuid.New(), "acme", true, "Acme Careers", "", "", "", "", "", "", "", "/acme", map[string]int64(nil), (*models.GatewayCredentials)(nil), now, now).
			AddRow(uuid.New(), "beta", true, "Beta Hiring", "", "", "", "", "", "", "", "/beta", map[string]int64(nil), (*models.GatewayCredentials)(nil), now, now))

	tenants, err := suite.repo.ListActive(suite.context)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), tenants, 2)
	assert.Equal(suite.T(), "acme", tenants[0].Subdomain)
	assert.Nil(suite.T(), tenants[0].Credentials)
}
