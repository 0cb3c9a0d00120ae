package services

import (
	"log"

	"cvforge/internal/config"
	"cvforge/internal/models"
)

// PaymentCredentialService resolves which gateway credentials a charge
// should run under: the reseller's own account when it has configured a
// complete key pair, otherwise the platform account.
type PaymentCredentialService interface {
	// SelectCredentials applies the fallback cascade. Fields are never
	// mixed across sources; a partial reseller set falls through whole.
	SelectCredentials(tenant *models.Tenant) models.ResolvedCredentials
	// WebhookSecret returns the secret used to verify gateway webhooks
	// for a tenant, following the same cascade.
	WebhookSecret(tenant *models.Tenant) string
}

type paymentCredentialService struct {
	platform *config.PlatformConfig
}

func NewPaymentCredentialService(platform *config.PlatformConfig) PaymentCredentialService {
	return &paymentCredentialService{platform: platform}
}

func (s *paymentCredentialService) SelectCredentials(tenant *models.Tenant) models.ResolvedCredentials {
	if tenant != nil && tenant.Credentials.Complete() {
		return models.ResolvedCredentials{
			GatewayCredentials: *tenant.Credentials,
			Source:             models.CredentialSourceTenant,
		}
	}

	// A half-configured gateway must not block checkout: fall back to
	// the platform account and let the tenant admin find the warning.
	if tenant != nil && tenant.Credentials.Partial() {
		log.Printf("WARN: tenant %s has incomplete gateway credentials, falling back to platform account", tenant.Subdomain)
	}

	return models.ResolvedCredentials{
		GatewayCredentials: s.platform.Credentials,
		Source:             models.CredentialSourcePlatform,
	}
}

func (s *paymentCredentialService) WebhookSecret(tenant *models.Tenant) string {
	resolved := s.SelectCredentials(tenant)
	return resolved.WebhookSecret
}
