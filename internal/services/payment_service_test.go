package services

import (
	"testing"

	"cvforge/internal/config"
	"cvforge/internal/models"

	"github.com/stretchr/testify/assert"
)

func platformTestConfig() *config.PlatformConfig {
	return &config.PlatformConfig{
		Credentials: models.GatewayCredentials{
			PublicKey:     "pk_platform",
			SecretKey:     "sk_platform",
			WebhookSecret: "whsec_platform",
			IsTestMode:    true,
		},
	}
}

func TestSelectCredentials_CompleteTenantCredentials(t *testing.T) {
	service := NewPaymentCredentialService(platformTestConfig())

	tenant := &models.Tenant{
		Subdomain: "beta",
		Credentials: &models.GatewayCredentials{
			PublicKey:  "pk_live_x",
			SecretKey:  "sk_live_y",
			IsTestMode: false,
		},
	}

	resolved := service.SelectCredentials(tenant)
	assert.Equal(t, models.CredentialSourceTenant, resolved.Source)
	assert.Equal(t, "pk_live_x", resolved.PublicKey)
	assert.Equal(t, "sk_live_y", resolved.SecretKey)
	assert.False(t, resolved.IsTestMode)
}

func TestSelectCredentials_NoTenantCredentials(t *testing.T) {
	service := NewPaymentCredentialService(platformTestConfig())

	tenant := &models.Tenant{Subdomain: "acme"}

	resolved := service.SelectCredentials(tenant)
	assert.Equal(t, models.CredentialSourcePlatform, resolved.Source)
	assert.Equal(t, "pk_platform", resolved.PublicKey)
	assert.Equal(t, "sk_platform", resolved.SecretKey)
	assert.True(t, resolved.IsTestMode)
}

func TestSelectCredentials_PartialCredentialsNeverMixed(t *testing.T) {
	service := NewPaymentCredentialService(platformTestConfig())

	partials := []*models.GatewayCredentials{
		{PublicKey: "pk_only"},
		{SecretKey: "sk_only"},
	}

	for _, credentials := range partials {
		tenant := &models.Tenant{Subdomain: "halfway", Credentials: credentials}
		resolved := service.SelectCredentials(tenant)

		// All-or-nothing: the result is exactly the platform set.
		assert.Equal(t, models.CredentialSourcePlatform, resolved.Source)
		assert.Equal(t, "pk_platform", resolved.PublicKey)
		assert.Equal(t, "sk_platform", resolved.SecretKey)
		assert.True(t, resolved.IsTestMode)
	}
}

func TestSelectCredentials_NilTenantUsesPlatform(t *testing.T) {
	service := NewPaymentCredentialService(platformTestConfig())

	resolved := service.SelectCredentials(nil)
	assert.Equal(t, models.CredentialSourcePlatform, resolved.Source)
}

func TestWebhookSecret_FollowsCascade(t *testing.T) {
	service := NewPaymentCredentialService(platformTestConfig())

	withOwn := &models.Tenant{
		Subdomain: "beta",
		Credentials: &models.GatewayCredentials{
			PublicKey:     "pk_live_x",
			SecretKey:     "sk_live_y",
			WebhookSecret: "whsec_beta",
		},
	}
	assert.Equal(t, "whsec_beta", service.WebhookSecret(withOwn))

	without := &models.Tenant{Subdomain: "acme"}
	assert.Equal(t, "whsec_platform", service.WebhookSecret(without))
}
