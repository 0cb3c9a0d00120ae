package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	Email              string     `json:"email" db:"email"`
	FullName           string     `json:"full_name" db:"full_name"`
	ActiveTier         Tier       `json:"active_tier" db:"active_tier"`
	TierActivationDate *time.Time `json:"tier_activation_date" db:"tier_activation_date"`
	// HasRecruiterSubscription gates talent-pool browsing. It is an
	// independent axis from ActiveTier and the two are never merged.
	HasRecruiterSubscription bool `json:"has_recruiter_subscription" db:"has_recruiter_subscription"`
	// ResellerID is a weak reference to the tenant that originated this
	// account. The tenant may be deactivated without touching its users.
	ResellerID *uuid.UUID `json:"reseller_id,omitempty" db:"reseller_id"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}
