package middleware

import (
	"errors"

	"cvforge/internal/common"
	"cvforge/internal/services"

	"github.com/labstack/echo/v4"
)

// TenantMiddleware resolves the partner subdomain from the request host and
// passes the tenant explicitly through the request context. No ambient
// state: everything downstream reads the tenant from the context it was
// handed.
type TenantMiddleware struct {
	resolver       services.ResolverService
	platformDomain string
}

func NewTenantMiddleware(resolver services.ResolverService, platformDomain string) *TenantMiddleware {
	return &TenantMiddleware{
		resolver:       resolver,
		platformDomain: platformDomain,
	}
}

// ResolveTenant resolves the tenant for every request. Hosts without a
// partner subdomain get the implicit platform tenant; unknown or
// deactivated subdomains get an identical not-found response.
func (m *TenantMiddleware) ResolveTenant() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subdomain := common.SubdomainFromHost(c.Request().Host, m.platformDomain)
			// An explicit header wins over host parsing, for proxies
			// that terminate the partner domain upstream.
			if header := c.Request().Header.Get("X-Partner-Subdomain"); header != "" {
				subdomain = header
			}

			tenant, err := m.resolver.Resolve(c.Request().Context(), subdomain)
			if err != nil {
				if errors.Is(err, services.ErrTenantNotFound) {
					return common.SendNotFoundError(c, "Partner")
				}
				return common.SendServerError(c, "Failed to resolve partner")
			}

			ctx := common.WithTenant(c.Request().Context(), tenant)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
