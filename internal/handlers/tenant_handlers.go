package handlers

import (
	"errors"
	"net/http"

	"cvforge/internal/common"
	"cvforge/internal/config"
	"cvforge/internal/models"
	"cvforge/internal/services"

	"github.com/labstack/echo/v4"
)

// TenantHandlers serves the resolved partner context to the presentation
// layer.
type TenantHandlers struct {
	resolver services.ResolverService
	platform *config.PlatformConfig
}

func NewTenantHandlers(resolver services.ResolverService, platform *config.PlatformConfig) *TenantHandlers {
	return &TenantHandlers{
		resolver: resolver,
		platform: platform,
	}
}

// TenantContextResponse is the branding and pricing context a client needs
// to render a partner site. Payment credentials never appear here.
type TenantContextResponse struct {
	ID             string           `json:"id,omitempty"`
	Subdomain      string           `json:"subdomain"`
	BrandName      string           `json:"brand_name"`
	PrimaryColor   string           `json:"primary_color"`
	SecondaryColor string           `json:"secondary_color"`
	LogoURL        string           `json:"logo_url"`
	FaviconURL     string           `json:"favicon_url"`
	ContactEmail   string           `json:"contact_email"`
	ContactPhone   string           `json:"contact_phone"`
	ContactAddress string           `json:"contact_address"`
	BaseURL        string           `json:"base_url"`
	Pricing        map[string]int64 `json:"pricing"`
}

func (h *TenantHandlers) tenantContext(tenant *models.Tenant) *TenantContextResponse {
	resp := &TenantContextResponse{
		Subdomain:      tenant.Subdomain,
		BrandName:      tenant.BrandName,
		PrimaryColor:   tenant.PrimaryColor,
		SecondaryColor: tenant.SecondaryColor,
		LogoURL:        tenant.LogoURL,
		FaviconURL:     tenant.FaviconURL,
		ContactEmail:   tenant.ContactEmail,
		ContactPhone:   tenant.ContactPhone,
		ContactAddress: tenant.ContactAddress,
		BaseURL:        tenant.BaseURL,
		Pricing:        h.effectivePricing(tenant),
	}
	if !tenant.IsPlatform() {
		resp.ID = tenant.ID.String()
	}
	return resp
}

// effectivePricing merges the tenant's per-tier overrides over the platform
// defaults.
func (h *TenantHandlers) effectivePricing(tenant *models.Tenant) map[string]int64 {
	pricing := make(map[string]int64)
	for _, tier := range models.AllTiers() {
		if tier == models.TierNone {
			continue
		}
		pricing[tier.String()] = tenant.PriceFor(tier, h.platform.PriceFor(tier))
	}
	return pricing
}

// GetTenant handles GET /v1/tenants/:subdomain. The response carries a
// short max-age matching the resolver cache TTL.
func (h *TenantHandlers) GetTenant(c echo.Context) error {
	subdomain := c.Param("subdomain")

	tenant, err := h.resolver.Resolve(c.Request().Context(), subdomain)
	if err != nil {
		if errors.Is(err, services.ErrTenantNotFound) {
			return common.SendNotFoundError(c, "Partner")
		}
		return common.SendServerError(c, "Failed to resolve partner")
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=60")
	return c.JSON(http.StatusOK, h.tenantContext(tenant))
}

// RefreshTenant handles POST /internal/v1/tenants/:subdomain/refresh. The
// reseller-onboarding path calls it after editing a tenant so the change
// lands before the cache TTL expires.
func (h *TenantHandlers) RefreshTenant(c echo.Context) error {
	subdomain := c.Param("subdomain")
	if err := h.resolver.Refresh(c.Request().Context(), subdomain); err != nil {
		return common.SendServerError(c, "Failed to refresh partner")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "refreshed"})
}

// GetCurrentTenant handles GET /v1/tenant: the context for whatever host
// the request arrived on. Requests with no partner subdomain get the
// platform's own branding.
func (h *TenantHandlers) GetCurrentTenant(c echo.Context) error {
	tenant, ok := common.GetTenantFromContext(c.Request().Context())
	if !ok {
		tenant = h.resolver.PlatformTenant()
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=60")
	return c.JSON(http.StatusOK, h.tenantContext(tenant))
}
