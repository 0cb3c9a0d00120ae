package handlers

import (
	"io"
	"log"
	"net/http"

	"cvforge/internal/common"
	"cvforge/internal/services"

	"github.com/labstack/echo/v4"
)

// WebhookHandlers verifies and acknowledges gateway webhooks. Tier
// activation itself belongs to the external payment-confirmation workflow;
// this core only authenticates the event.
type WebhookHandlers struct {
	credentialsSvc services.PaymentCredentialService
	yocoSvc        services.YocoService
}

func NewWebhookHandlers(credentialsSvc services.PaymentCredentialService, yocoSvc services.YocoService) *WebhookHandlers {
	return &WebhookHandlers{
		credentialsSvc: credentialsSvc,
		yocoSvc:        yocoSvc,
	}
}

// YocoWebhook handles POST /webhooks/yoco. The signature is checked
// against the webhook secret of whichever gateway account the tenant's
// charges run under.
func (h *WebhookHandlers) YocoWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read request body")
	}

	signature := c.Request().Header.Get("X-Yoco-Signature")
	if signature == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing webhook signature")
	}

	tenant, _ := common.GetTenantFromContext(c.Request().Context())
	secret := h.credentialsSvc.WebhookSecret(tenant)

	if !h.yocoSvc.VerifyWebhookSignature(secret, body, signature) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid webhook signature")
	}

	event, err := h.yocoSvc.ParseWebhookEvent(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	switch event.Type {
	case "payment.succeeded", "payment.failed", "refund.succeeded", "refund.failed":
		log.Printf("INFO: gateway event %s (%s) acknowledged", event.Type, event.ID)
	default:
		// Unknown events are acknowledged so the gateway stops
		// retrying them.
		log.Printf("INFO: unhandled gateway event %s (%s)", event.Type, event.ID)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "success",
		"event":  event.Type,
	})
}
