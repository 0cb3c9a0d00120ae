package models

// CapabilityRequirement is the declarative gate attached to a protected
// action.
type CapabilityRequirement struct {
	RequiresAuth bool `json:"requires_auth"`
	MinimumTier  Tier `json:"minimum_tier"`
	// RequiresRecruiterSubscription gates on the recruiter-subscription
	// axis instead of the tier ladder.
	RequiresRecruiterSubscription bool `json:"requires_recruiter_subscription,omitempty"`
}

// Outcome is the result of an entitlement evaluation.
type Outcome string

const (
	OutcomeAllow                       Outcome = "ALLOW"
	OutcomeDenyUnauthenticated         Outcome = "DENY_UNAUTHENTICATED"
	OutcomeDenyInsufficientTier        Outcome = "DENY_INSUFFICIENT_TIER"
	OutcomeDenyNoRecruiterSubscription Outcome = "DENY_NO_RECRUITER_SUBSCRIPTION"
)

// EntitlementDecision is computed per request and never persisted. The tier
// fields let a caller render an upgrade prompt on denial.
type EntitlementDecision struct {
	Outcome             Outcome `json:"outcome"`
	RequiredMinimumTier Tier    `json:"required_minimum_tier"`
	UserCurrentTier     Tier    `json:"user_current_tier"`
}

// Allowed reports whether the decision permits the action.
func (d EntitlementDecision) Allowed() bool {
	return d.Outcome == OutcomeAllow
}
