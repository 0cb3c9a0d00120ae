package models

// GatewayCredentials is one complete set of payment-gateway keys. A set is
// usable only when both PublicKey and SecretKey are non-empty; partial sets
// are treated as absent.
type GatewayCredentials struct {
	PublicKey     string `json:"public_key" toml:"public_key"`
	SecretKey     string `json:"secret_key" toml:"secret_key"`
	WebhookSecret string `json:"webhook_secret" toml:"webhook_secret"`
	IsTestMode    bool   `json:"is_test_mode" toml:"is_test_mode"`
}

// Complete reports whether the set can be used to take a payment.
func (c *GatewayCredentials) Complete() bool {
	return c != nil && c.PublicKey != "" && c.SecretKey != ""
}

// Partial reports whether exactly one of the two required keys is set.
// Partial sets are logged for the tenant administrator and then ignored.
func (c *GatewayCredentials) Partial() bool {
	if c == nil {
		return false
	}
	return (c.PublicKey != "") != (c.SecretKey != "")
}

// CredentialSource identifies which account a resolved credential set
// belongs to.
type CredentialSource string

const (
	CredentialSourceTenant   CredentialSource = "tenant"
	CredentialSourcePlatform CredentialSource = "platform"
)

// ResolvedCredentials is the outcome of the reseller→platform fallback
// cascade. Fields are never mixed across sources.
type ResolvedCredentials struct {
	GatewayCredentials
	Source CredentialSource `json:"source"`
}
