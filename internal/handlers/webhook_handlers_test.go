package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cvforge/internal/common"
	"cvforge/internal/models"
	"cvforge/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signBody(secret string, body []byte) string {
	hash := hmac.New(sha256.New, []byte(secret))
	hash.Write(body)
	return hex.EncodeToString(hash.Sum(nil))
}

func postWebhook(t *testing.T, h *WebhookHandlers, body, signature string, tenant *models.Tenant) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/yoco", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set("X-Yoco-Signature", signature)
	}
	if tenant != nil {
		req = req.WithContext(common.WithTenant(req.Context(), tenant))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.YocoWebhook(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestYocoWebhook_ValidSignatureAcknowledged(t *testing.T) {
	cfg := handlerTestConfig()
	cfg.Credentials.WebhookSecret = "whsec_platform"
	h := NewWebhookHandlers(services.NewPaymentCredentialService(cfg), services.NewYocoService(""))

	body := `{"id":"evt_1","type":"payment.succeeded"}`
	rec := postWebhook(t, h, body, signBody("whsec_platform", []byte(body)), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "payment.succeeded")
}

func TestYocoWebhook_TenantSecretWins(t *testing.T) {
	cfg := handlerTestConfig()
	cfg.Credentials.WebhookSecret = "whsec_platform"
	h := NewWebhookHandlers(services.NewPaymentCredentialService(cfg), services.NewYocoService(""))

	tenant := &models.Tenant{
		Subdomain: "beta",
		Credentials: &models.GatewayCredentials{
			PublicKey:     "pk_live_x",
			SecretKey:     "sk_live_y",
			WebhookSecret: "whsec_beta",
		},
	}

	body := `{"id":"evt_2","type":"payment.succeeded"}`

	// Signed with the platform secret but delivered for a tenant that
	// brought its own gateway: rejected.
	rec := postWebhook(t, h, body, signBody("whsec_platform", []byte(body)), tenant)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postWebhook(t, h, body, signBody("whsec_beta", []byte(body)), tenant)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestYocoWebhook_MissingSignatureRejected(t *testing.T) {
	cfg := handlerTestConfig()
	h := NewWebhookHandlers(services.NewPaymentCredentialService(cfg), services.NewYocoService(""))

	rec := postWebhook(t, h, `{"id":"evt_3","type":"payment.succeeded"}`, "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
