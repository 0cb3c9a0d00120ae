package middleware

import (
	"net/http"

	"cvforge/internal/common"
	"cvforge/internal/models"
	"cvforge/internal/services"

	"github.com/labstack/echo/v4"
)

// EntitlementMiddleware gates routes on the capability catalogue, so
// feature endpoints declare their requirement once instead of repeating
// tier checks inline.
type EntitlementMiddleware struct {
	entitlementService services.EntitlementService
}

func NewEntitlementMiddleware(entitlementService services.EntitlementService) *EntitlementMiddleware {
	return &EntitlementMiddleware{
		entitlementService: entitlementService,
	}
}

// RequireCapability denies the request unless the user is entitled to the
// named capability. Denials carry the required and current tier so the
// client can render an upgrade prompt.
func (m *EntitlementMiddleware) RequireCapability(name string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := common.GetUserFromContext(c.Request().Context())

			decision, err := m.entitlementService.EvaluateCapability(user, name)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Unknown capability")
			}

			if decision.Allowed() {
				return next(c)
			}

			status := http.StatusForbidden
			if decision.Outcome == models.OutcomeDenyUnauthenticated {
				status = http.StatusUnauthorized
			}
			return c.JSON(status, decision)
		}
	}
}
