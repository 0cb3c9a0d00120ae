package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is a white-label partner: branding, contact details, pricing
// overrides, and optionally its own payment gateway credentials.
type Tenant struct {
	ID             uuid.UUID           `json:"id" db:"id"`
	Subdomain      string              `json:"subdomain" db:"subdomain"`
	Active         bool                `json:"active" db:"active"`
	BrandName      string              `json:"brand_name" db:"brand_name"`
	PrimaryColor   string              `json:"primary_color" db:"primary_color"`
	SecondaryColor string              `json:"secondary_color" db:"secondary_color"`
	LogoURL        string              `json:"logo_url" db:"logo_url"`
	FaviconURL     string              `json:"favicon_url" db:"favicon_url"`
	ContactEmail   string              `json:"contact_email" db:"contact_email"`
	ContactPhone   string              `json:"contact_phone" db:"contact_phone"`
	ContactAddress string              `json:"contact_address" db:"contact_address"`
	BaseURL        string              `json:"base_url" db:"base_url"`
	Pricing        map[string]int64    `json:"pricing" db:"pricing"`
	Credentials    *GatewayCredentials `json:"payment_credentials,omitempty" db:"payment_credentials"`
	CreatedAt      time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" db:"updated_at"`
}

// IsPlatform reports whether this is the implicit platform-default tenant
// used when a request carries no subdomain.
func (t *Tenant) IsPlatform() bool {
	return t.ID == uuid.Nil && t.Subdomain == ""
}

// PriceFor returns the tenant's price-in-cents override for a tier, falling
// back to the supplied platform default when no override exists.
func (t *Tenant) PriceFor(tier Tier, platformDefault int64) int64 {
	if t == nil || t.Pricing == nil {
		return platformDefault
	}
	if cents, ok := t.Pricing[tier.String()]; ok {
		return cents
	}
	return platformDefault
}
