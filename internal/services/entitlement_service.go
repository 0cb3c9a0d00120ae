package services

import (
	"fmt"
	"sort"

	"cvforge/internal/models"
)

// Capability is a named protected action with its declarative gate.
type Capability struct {
	Name        string                       `json:"name"`
	Description string                       `json:"description"`
	Requirement models.CapabilityRequirement `json:"requirement"`
}

// The product's requirement matrix. ATS checker and skills generator are
// public free tools; the builder tools need tier-1; cover-letter and
// LinkedIn tooling need tier-2; talent pool is gated by the recruiter
// subscription flag, not the tier ladder.
var capabilityCatalogue = map[string]Capability{
	"ats-checker": {
		Name:        "ats-checker",
		Description: "ATS compatibility checker",
		Requirement: models.CapabilityRequirement{RequiresAuth: false, MinimumTier: models.TierNone},
	},
	"skills-generator": {
		Name:        "skills-generator",
		Description: "Skills suggestion generator",
		Requirement: models.CapabilityRequirement{RequiresAuth: false, MinimumTier: models.TierNone},
	},
	"cv-builder": {
		Name:        "cv-builder",
		Description: "CV builder",
		Requirement: models.CapabilityRequirement{RequiresAuth: true, MinimumTier: models.Tier1},
	},
	"resume-improver": {
		Name:        "resume-improver",
		Description: "Resume improvement assistant",
		Requirement: models.CapabilityRequirement{RequiresAuth: true, MinimumTier: models.Tier1},
	},
	"cover-letter-creator": {
		Name:        "cover-letter-creator",
		Description: "Cover letter creator",
		Requirement: models.CapabilityRequirement{RequiresAuth: true, MinimumTier: models.Tier2},
	},
	"linkedin-tools": {
		Name:        "linkedin-tools",
		Description: "LinkedIn profile tools",
		Requirement: models.CapabilityRequirement{RequiresAuth: true, MinimumTier: models.Tier2},
	},
	"talent-pool": {
		Name:        "talent-pool",
		Description: "Talent pool recruiter browsing",
		Requirement: models.CapabilityRequirement{RequiresAuth: true, RequiresRecruiterSubscription: true},
	},
}

// EntitlementService decides whether a user may perform a capability-gated
// action.
type EntitlementService interface {
	// Evaluate is pure: no I/O, no side effects, deterministic for a
	// given (user, requirement) pair. A nil user is an anonymous
	// request.
	Evaluate(user *models.User, requirement models.CapabilityRequirement) models.EntitlementDecision
	// EvaluateCapability looks up a named capability and evaluates it.
	EvaluateCapability(user *models.User, name string) (models.EntitlementDecision, error)
	// Capabilities lists the catalogue, sorted by name.
	Capabilities() []Capability
}

type entitlementService struct{}

func NewEntitlementService() EntitlementService {
	return &entitlementService{}
}

func (s *entitlementService) Evaluate(user *models.User, requirement models.CapabilityRequirement) models.EntitlementDecision {
	currentTier := models.TierNone
	if user != nil {
		currentTier = user.ActiveTier
	}
	decision := models.EntitlementDecision{
		RequiredMinimumTier: requirement.MinimumTier,
		UserCurrentTier:     currentTier,
	}

	// Auth is checked before any tier or subscription logic.
	if requirement.RequiresAuth && user == nil {
		decision.Outcome = models.OutcomeDenyUnauthenticated
		return decision
	}

	// The recruiter subscription is an independent axis: when a
	// capability requires it, the tier ladder is not consulted.
	if requirement.RequiresRecruiterSubscription {
		if user == nil {
			decision.Outcome = models.OutcomeDenyUnauthenticated
			return decision
		}
		if !user.HasRecruiterSubscription {
			decision.Outcome = models.OutcomeDenyNoRecruiterSubscription
			return decision
		}
		decision.Outcome = models.OutcomeAllow
		return decision
	}

	if requirement.MinimumTier == models.TierNone {
		decision.Outcome = models.OutcomeAllow
		return decision
	}

	if currentTier.AtLeast(requirement.MinimumTier) {
		decision.Outcome = models.OutcomeAllow
		return decision
	}

	decision.Outcome = models.OutcomeDenyInsufficientTier
	return decision
}

func (s *entitlementService) EvaluateCapability(user *models.User, name string) (models.EntitlementDecision, error) {
	capability, ok := capabilityCatalogue[name]
	if !ok {
		return models.EntitlementDecision{}, fmt.Errorf("unknown capability: %s", name)
	}
	return s.Evaluate(user, capability.Requirement), nil
}

func (s *entitlementService) Capabilities() []Capability {
	capabilities := make([]Capability, 0, len(capabilityCatalogue))
	for _, capability := range capabilityCatalogue {
		capabilities = append(capabilities, capability)
	}
	sort.Slice(capabilities, func(i, j int) bool {
		return capabilities[i].Name < capabilities[j].Name
	})
	return capabilities
}
