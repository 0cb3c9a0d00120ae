package services

import (
	"testing"

	"cvforge/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate_TierOrderTruthTable(t *testing.T) {
	service := NewEntitlementService()

	// ALLOW iff user tier >= minimum tier, over all 16 pairs.
	for _, userTier := range models.AllTiers() {
		for _, minimumTier := range models.AllTiers() {
			user := &models.User{ActiveTier: userTier}
			requirement := models.CapabilityRequirement{
				RequiresAuth: true,
				MinimumTier:  minimumTier,
			}

			decision := service.Evaluate(user, requirement)

			if userTier >= minimumTier {
				assert.Equal(t, models.OutcomeAllow, decision.Outcome,
					"user=%s minimum=%s", userTier, minimumTier)
			} else {
				assert.Equal(t, models.OutcomeDenyInsufficientTier, decision.Outcome,
					"user=%s minimum=%s", userTier, minimumTier)
				assert.Equal(t, minimumTier, decision.RequiredMinimumTier)
				assert.Equal(t, userTier, decision.UserCurrentTier)
			}
		}
	}
}

func TestEvaluate_AnonymousAlwaysDeniedWhenAuthRequired(t *testing.T) {
	service := NewEntitlementService()

	for _, minimumTier := range models.AllTiers() {
		decision := service.Evaluate(nil, models.CapabilityRequirement{
			RequiresAuth: true,
			MinimumTier:  minimumTier,
		})
		assert.Equal(t, models.OutcomeDenyUnauthenticated, decision.Outcome,
			"minimum=%s", minimumTier)
		assert.Equal(t, models.TierNone, decision.UserCurrentTier)
	}
}

func TestEvaluate_FreeToolAlwaysAllowed(t *testing.T) {
	service := NewEntitlementService()
	requirement := models.CapabilityRequirement{RequiresAuth: false, MinimumTier: models.TierNone}

	users := []*models.User{
		nil,
		{ActiveTier: models.TierNone},
		{ActiveTier: models.Tier3},
	}
	for _, user := range users {
		decision := service.Evaluate(user, requirement)
		assert.Equal(t, models.OutcomeAllow, decision.Outcome)
	}
}

func TestEvaluate_InsufficientTierCarriesUpgradeContext(t *testing.T) {
	service := NewEntitlementService()

	user := &models.User{ActiveTier: models.Tier1}
	decision := service.Evaluate(user, models.CapabilityRequirement{
		RequiresAuth: true,
		MinimumTier:  models.Tier2,
	})

	assert.Equal(t, models.OutcomeDenyInsufficientTier, decision.Outcome)
	assert.Equal(t, models.Tier2, decision.RequiredMinimumTier)
	assert.Equal(t, models.Tier1, decision.UserCurrentTier)
}

func TestEvaluate_RecruiterAxisIndependentOfTier(t *testing.T) {
	service := NewEntitlementService()
	requirement := models.CapabilityRequirement{
		RequiresAuth:                  true,
		RequiresRecruiterSubscription: true,
	}

	// A tier-3 user without the recruiter subscription is denied.
	withoutSub := &models.User{ActiveTier: models.Tier3}
	decision := service.Evaluate(withoutSub, requirement)
	assert.Equal(t, models.OutcomeDenyNoRecruiterSubscription, decision.Outcome)

	// A no-tier user with the subscription is allowed.
	withSub := &models.User{ActiveTier: models.TierNone, HasRecruiterSubscription: true}
	decision = service.Evaluate(withSub, requirement)
	assert.Equal(t, models.OutcomeAllow, decision.Outcome)

	// Anonymous requests are denied for auth before the subscription
	// flag is consulted.
	decision = service.Evaluate(nil, requirement)
	assert.Equal(t, models.OutcomeDenyUnauthenticated, decision.Outcome)
}

func TestEvaluateCapability_RequirementMatrix(t *testing.T) {
	service := NewEntitlementService()

	tier1User := &models.User{ActiveTier: models.Tier1}
	tier2User := &models.User{ActiveTier: models.Tier2}

	cases := []struct {
		name     string
		user     *models.User
		expected models.Outcome
	}{
		{"ats-checker", nil, models.OutcomeAllow},
		{"skills-generator", nil, models.OutcomeAllow},
		{"cv-builder", nil, models.OutcomeDenyUnauthenticated},
		{"cv-builder", tier1User, models.OutcomeAllow},
		{"resume-improver", tier1User, models.OutcomeAllow},
		{"cover-letter-creator", tier1User, models.OutcomeDenyInsufficientTier},
		{"cover-letter-creator", tier2User, models.OutcomeAllow},
		{"linkedin-tools", tier1User, models.OutcomeDenyInsufficientTier},
		{"talent-pool", tier2User, models.OutcomeDenyNoRecruiterSubscription},
	}

	for _, tc := range cases {
		decision, err := service.EvaluateCapability(tc.user, tc.name)
		assert.NoError(t, err)
		assert.Equal(t, tc.expected, decision.Outcome, "capability=%s", tc.name)
	}
}

func TestEvaluateCapability_Unknown(t *testing.T) {
	service := NewEntitlementService()
	_, err := service.EvaluateCapability(nil, "time-travel")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown capability")
}

func TestCapabilities_SortedCatalogue(t *testing.T) {
	service := NewEntitlementService()
	capabilities := service.Capabilities()

	assert.Len(t, capabilities, 7)
	for i := 1; i < len(capabilities); i++ {
		assert.Less(t, capabilities[i-1].Name, capabilities[i].Name)
	}
}
