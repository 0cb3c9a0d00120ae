package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"cvforge/internal/models"
)

// PlatformConfig holds the process-wide defaults loaded once at startup:
// the platform's own gateway credentials and per-tier pricing. Nothing in
// the core mutates it at runtime.
type PlatformConfig struct {
	Brand       BrandConfig               `toml:"brand"`
	Pricing     map[string]int64          `toml:"pricing"`
	Credentials models.GatewayCredentials `toml:"credentials"`
	Auth        AuthConfig                `toml:"auth"`
}

// BrandConfig is the platform's own branding, used when a request carries
// no partner subdomain.
type BrandConfig struct {
	Name           string `toml:"name"`
	PrimaryColor   string `toml:"primary_color"`
	SecondaryColor string `toml:"secondary_color"`
	LogoURL        string `toml:"logo_url"`
	FaviconURL     string `toml:"favicon_url"`
	ContactEmail   string `toml:"contact_email"`
}

// AuthConfig configures how bearer tokens are verified. When JWKSURL is set
// keys are fetched from the identity provider; otherwise Secret is used for
// HS256 verification.
type AuthConfig struct {
	Secret  string `toml:"secret"`
	JWKSURL string `toml:"jwks_url"`
}

// LoadPlatformConfig loads configuration from a TOML file.
func LoadPlatformConfig(filename string) (*PlatformConfig, error) {
	config := &PlatformConfig{}
	_, err := toml.DecodeFile(filename, config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	config.applyEnvOverrides()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultPlatformConfig builds a config purely from environment variables,
// for deployments without a config file.
func DefaultPlatformConfig() *PlatformConfig {
	config := &PlatformConfig{
		Brand: BrandConfig{
			Name:         "CVForge",
			PrimaryColor: "#1a1a2e",
		},
		Pricing: map[string]int64{
			models.Tier1.String(): 9900,
			models.Tier2.String(): 19900,
			models.Tier3.String(): 29900,
		},
	}
	config.applyEnvOverrides()
	return config
}

func (c *PlatformConfig) applyEnvOverrides() {
	if v := os.Getenv("PLATFORM_PUBLIC_KEY"); v != "" {
		c.Credentials.PublicKey = v
	}
	if v := os.Getenv("PLATFORM_SECRET_KEY"); v != "" {
		c.Credentials.SecretKey = v
	}
	if v := os.Getenv("PLATFORM_WEBHOOK_SECRET"); v != "" {
		c.Credentials.WebhookSecret = v
	}
	if os.Getenv("PLATFORM_TEST_MODE") == "true" {
		c.Credentials.IsTestMode = true
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.Secret = v
	}
	if v := os.Getenv("AUTH_JWKS_URL"); v != "" {
		c.Auth.JWKSURL = v
	}
}

// Validate checks that the platform can actually take payments: unlike a
// reseller, the platform has no one to fall back to.
func (c *PlatformConfig) Validate() error {
	if !c.Credentials.Complete() {
		return fmt.Errorf("platform gateway credentials are incomplete: both public and secret keys are required")
	}
	return nil
}

// PriceFor returns the platform default price-in-cents for a tier, or 0 if
// the tier has no price (TierNone is always free).
func (c *PlatformConfig) PriceFor(tier models.Tier) int64 {
	if c.Pricing == nil {
		return 0
	}
	return c.Pricing[tier.String()]
}
