package handlers

import (
	"errors"
	"log"
	"net/http"

	"cvforge/internal/common"
	"cvforge/internal/config"
	"cvforge/internal/models"
	"cvforge/internal/services"

	"github.com/labstack/echo/v4"
)

// PaymentHandlers resolves gateway credentials and initiates checkouts.
type PaymentHandlers struct {
	resolver       services.ResolverService
	credentialsSvc services.PaymentCredentialService
	yocoSvc        services.YocoService
	platform       *config.PlatformConfig
}

func NewPaymentHandlers(
	resolver services.ResolverService,
	credentialsSvc services.PaymentCredentialService,
	yocoSvc services.YocoService,
	platform *config.PlatformConfig,
) *PaymentHandlers {
	return &PaymentHandlers{
		resolver:       resolver,
		credentialsSvc: credentialsSvc,
		yocoSvc:        yocoSvc,
		platform:       platform,
	}
}

// CredentialsRequest asks which gateway account a tenant's charges run
// under.
type CredentialsRequest struct {
	TenantID string `json:"tenant_id"`
	// Operation names the payment action being prepared (e.g. "checkout").
	// Credential selection does not branch on it; it is carried for audit
	// logging.
	Operation string `json:"operation"`
}

// CredentialsResponse carries only what a client may see: the public key
// and the mode. The secret key stays server-side.
type CredentialsResponse struct {
	PublicKey  string                  `json:"public_key"`
	IsTestMode bool                    `json:"is_test_mode"`
	Source     models.CredentialSource `json:"source"`
}

// GetCredentials handles POST /internal/v1/payments/credentials. Internal
// endpoint: it is mounted behind the internal route group, not the public
// API.
func (h *PaymentHandlers) GetCredentials(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenant := h.resolver.PlatformTenant()
	if req.TenantID != "" {
		tenantID, err := common.ValidateUUID(req.TenantID, "tenant_id")
		if err != nil {
			return common.SendValidationError(c, "tenant_id", err.Error())
		}
		tenant, err = h.resolver.ResolveID(c.Request().Context(), tenantID)
		if err != nil {
			if errors.Is(err, services.ErrTenantNotFound) {
				return common.SendNotFoundError(c, "Partner")
			}
			return common.SendServerError(c, "Failed to resolve partner")
		}
	}

	resolved := h.credentialsSvc.SelectCredentials(tenant)
	if req.Operation != "" {
		log.Printf("INFO: resolved %s gateway credentials for %s operation", resolved.Source, req.Operation)
	}
	return c.JSON(http.StatusOK, CredentialsResponse{
		PublicKey:  resolved.PublicKey,
		IsTestMode: resolved.IsTestMode,
		Source:     resolved.Source,
	})
}

// CheckoutRequest initiates a tier purchase for the current tenant.
type CheckoutRequest struct {
	Tier       string `json:"tier"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
	FailureURL string `json:"failure_url"`
}

// CheckoutResponse is what the client needs to hand the user to the
// gateway.
type CheckoutResponse struct {
	CheckoutID    string `json:"checkout_id"`
	RedirectURL   string `json:"redirect_url"`
	PublicKey     string `json:"public_key"`
	AmountInCents int64  `json:"amount_in_cents"`
	IsTestMode    bool   `json:"is_test_mode"`
}

// CreateCheckout handles POST /v1/payments/checkout. Credentials follow the
// reseller→platform cascade; pricing follows the tenant's overrides.
func (h *PaymentHandlers) CreateCheckout(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tier := models.ParseTier(req.Tier)
	if tier == models.TierNone {
		return common.SendValidationError(c, "tier", "a purchasable tier is required")
	}

	tenant, ok := common.GetTenantFromContext(c.Request().Context())
	if !ok {
		tenant = h.resolver.PlatformTenant()
	}

	amount := tenant.PriceFor(tier, h.platform.PriceFor(tier))
	if amount <= 0 {
		return common.SendValidationError(c, "tier", "tier has no configured price")
	}

	resolved := h.credentialsSvc.SelectCredentials(tenant)

	metadata := map[string]string{"tier": tier.String()}
	if !tenant.IsPlatform() {
		metadata["tenant_id"] = tenant.ID.String()
	}

	checkout, err := h.yocoSvc.CreateCheckout(c.Request().Context(), resolved, &services.CreateCheckoutRequest{
		AmountInCents: amount,
		SuccessURL:    req.SuccessURL,
		CancelURL:     req.CancelURL,
		FailureURL:    req.FailureURL,
		Metadata:      metadata,
	})
	if err != nil {
		return common.SendServerError(c, "Failed to create checkout")
	}

	return c.JSON(http.StatusCreated, CheckoutResponse{
		CheckoutID:    checkout.ID,
		RedirectURL:   checkout.RedirectURL,
		PublicKey:     resolved.PublicKey,
		AmountInCents: amount,
		IsTestMode:    resolved.IsTestMode,
	})
}
