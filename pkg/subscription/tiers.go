package subscription

import (
	"encoding/json"
	"fmt"
)

type TierID string
type Feature string

const (
	BasicTier      TierID = "basic"
	PremiumTier    TierID = "premium"
	EnterpriseTier TierID = "enterprise"
)

const (
	Analytics       Feature = "analytics"
	PrioritySupport Feature = "priority_support"
	CustomBranding  Feature = "custom_branding"
)

// TrialDays is the single source of truth for the trial length. Both the
// start-trial response and the stored expires_at are derived from it.
const TrialDays = 14

// Limit is a course/student/storage bound. Unlimited limits marshal to -1
// on the wire; comparisons must go through Allows so the sentinel never
// leaks into arithmetic.
type Limit struct {
	n         int
	unlimited bool
}

func LimitOf(n int) Limit {
	return Limit{n: n}
}

func Unlimited() Limit {
	return Limit{unlimited: true}
}

func (l Limit) IsUnlimited() bool {
	return l.unlimited
}

// Allows reports whether one more unit can be consumed at the given usage.
func (l Limit) Allows(current int) bool {
	if l.unlimited {
		return true
	}
	return current < l.n
}

// Value returns the numeric bound, or -1 for unlimited. Display only.
func (l Limit) Value() int {
	if l.unlimited {
		return -1
	}
	return l.n
}

func (l Limit) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Value())
}

func (l *Limit) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if n == -1 {
		*l = Unlimited()
		return nil
	}
	if n < 0 {
		return fmt.Errorf("invalid limit value: %d", n)
	}
	*l = LimitOf(n)
	return nil
}

type TierFeatures struct {
	MaxCourses      Limit `json:"maxCourses"`
	MaxStudents     Limit `json:"maxStudents"`
	StorageGB       int   `json:"storageGB"`
	Analytics       bool  `json:"analytics"`
	PrioritySupport bool  `json:"prioritySupport"`
	CustomBranding  bool  `json:"customBranding"`
}

type Tier struct {
	ID           TierID       `json:"id"`
	Name         string       `json:"name"`
	Price        int          `json:"price"` // monthly, whole currency units
	BillingCycle string       `json:"billingCycle"`
	Features     TierFeatures `json:"features"`
	Popular      bool         `json:"popular,omitempty"`
}

// Tiers is the static catalog. Read-only at runtime; exactly one tier per ID.
var Tiers = map[TierID]Tier{
	BasicTier: {
		ID:           BasicTier,
		Name:         "Basic",
		Price:        29,
		BillingCycle: "monthly",
		Features: TierFeatures{
			MaxCourses:      LimitOf(5),
			MaxStudents:     LimitOf(50),
			StorageGB:       5,
			Analytics:       false,
			PrioritySupport: false,
			CustomBranding:  false,
		},
	},
	PremiumTier: {
		ID:           PremiumTier,
		Name:         "Premium",
		Price:        79,
		BillingCycle: "monthly",
		Features: TierFeatures{
			MaxCourses:      LimitOf(25),
			MaxStudents:     LimitOf(500),
			StorageGB:       50,
			Analytics:       true,
			PrioritySupport: true,
			CustomBranding:  false,
		},
		Popular: true,
	},
	EnterpriseTier: {
		ID:           EnterpriseTier,
		Name:         "Enterprise",
		Price:        199,
		BillingCycle: "monthly",
		Features: TierFeatures{
			MaxCourses:      Unlimited(),
			MaxStudents:     Unlimited(),
			StorageGB:       500,
			Analytics:       true,
			PrioritySupport: true,
			CustomBranding:  true,
		},
	},
}

// TierOrder defines the display ordering of tiers.
var TierOrder = []TierID{BasicTier, PremiumTier, EnterpriseTier}

// GetTierByID looks a tier up by exact ID. The second return value is false
// when no tier matches; callers must handle the absent case.
func GetTierByID(id TierID) (Tier, bool) {
	tier, ok := Tiers[id]
	return tier, ok
}

// CanUseFeature reports whether the given tier includes the feature.
// Unknown tiers get no features.
func CanUseFeature(id TierID, feature Feature) bool {
	tier, ok := Tiers[id]
	if !ok {
		return false
	}
	switch feature {
	case Analytics:
		return tier.Features.Analytics
	case PrioritySupport:
		return tier.Features.PrioritySupport
	case CustomBranding:
		return tier.Features.CustomBranding
	}
	return false
}
