package models

import "strings"

// Tier is a purchased capability level. Tiers form a total order:
// TierNone < Tier1 < Tier2 < Tier3.
type Tier int

const (
	TierNone Tier = iota
	Tier1
	Tier2
	Tier3
)

var tierNames = map[Tier]string{
	TierNone: "none",
	Tier1:    "tier-1",
	Tier2:    "tier-2",
	Tier3:    "tier-3",
}

var tierValues = map[string]Tier{
	"none":   TierNone,
	"tier-1": Tier1,
	"tier-2": Tier2,
	"tier-3": Tier3,
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "none"
}

// AtLeast reports whether t satisfies the given minimum tier.
func (t Tier) AtLeast(minimum Tier) bool {
	return t >= minimum
}

// ParseTier maps a tier name to its Tier value. Unknown, empty, or unset
// values are treated as TierNone.
func ParseTier(s string) Tier {
	if t, ok := tierValues[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return TierNone
}

// AllTiers lists every tier in ascending order.
func AllTiers() []Tier {
	return []Tier{TierNone, Tier1, Tier2, Tier3}
}

func (t Tier) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Tier) UnmarshalJSON(data []byte) error {
	*t = ParseTier(strings.Trim(string(data), `"`))
	return nil
}
