package handlers

import (
	"net/http"

	"cvforge/internal/common"
	"cvforge/internal/models"
	"cvforge/internal/services"

	"github.com/labstack/echo/v4"
)

// EntitlementHandlers exposes the single authoritative entitlement check so
// every client call site stays a thin consumer of one endpoint.
type EntitlementHandlers struct {
	entitlementService services.EntitlementService
}

func NewEntitlementHandlers(entitlementService services.EntitlementService) *EntitlementHandlers {
	return &EntitlementHandlers{
		entitlementService: entitlementService,
	}
}

// CheckEntitlementRequest describes an entitlement question. When the
// request carries a valid bearer token the authenticated user wins over
// the body fields; otherwise Authenticated/UserTier describe the user
// being asked about.
type CheckEntitlementRequest struct {
	Authenticated                 bool   `json:"authenticated"`
	UserTier                      string `json:"user_tier"`
	HasRecruiterSubscription      bool   `json:"has_recruiter_subscription"`
	RequiresAuth                  bool   `json:"requires_auth"`
	MinimumTier                   string `json:"minimum_tier"`
	RequiresRecruiterSubscription bool   `json:"requires_recruiter_subscription"`
}

// CheckEntitlement handles POST /v1/entitlements/check.
func (h *EntitlementHandlers) CheckEntitlement(c echo.Context) error {
	var req CheckEntitlementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	user, ok := common.GetUserFromContext(c.Request().Context())
	if !ok && req.Authenticated {
		user = &models.User{
			ActiveTier:               models.ParseTier(req.UserTier),
			HasRecruiterSubscription: req.HasRecruiterSubscription,
		}
	}

	requirement := models.CapabilityRequirement{
		RequiresAuth:                  req.RequiresAuth,
		MinimumTier:                   models.ParseTier(req.MinimumTier),
		RequiresRecruiterSubscription: req.RequiresRecruiterSubscription,
	}

	decision := h.entitlementService.Evaluate(user, requirement)
	return c.JSON(http.StatusOK, decision)
}

// ListCapabilities handles GET /v1/capabilities.
func (h *EntitlementHandlers) ListCapabilities(c echo.Context) error {
	capabilities := h.entitlementService.Capabilities()
	c.Response().Header().Set("Cache-Control", "public, max-age=300")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"capabilities": capabilities,
	})
}

// CheckCapability handles POST /v1/capabilities/:name/check for the
// authenticated (or anonymous) caller.
func (h *EntitlementHandlers) CheckCapability(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Capability name is required")
	}

	user, _ := common.GetUserFromContext(c.Request().Context())

	decision, err := h.entitlementService.EvaluateCapability(user, name)
	if err != nil {
		return common.SendNotFoundError(c, "Capability")
	}
	return c.JSON(http.StatusOK, decision)
}
