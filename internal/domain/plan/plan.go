// Package plan holds the immutable plan catalog and the tier based feature
// gate.
package plan

import "time"

// Tier is the coarse entitlement level stored on the user.
type Tier string

const (
	TierFree     Tier = "free"
	TierPersonal Tier = "personal"
	TierPlus     Tier = "plus"
	TierPremium  Tier = "premium"
)

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierPersonal, TierPlus, TierPremium:
		return true
	}
	return false
}

// BillingCycle decides how long a purchase keeps the subscription active.
type BillingCycle string

const (
	CycleMonthly         BillingCycle = "monthly"
	CycleYearly          BillingCycle = "yearly"
	CycleOneTime         BillingCycle = "one_time"
	CycleLifetime        BillingCycle = "lifetime"
	CyclePerPersonYearly BillingCycle = "per_person_yearly"
)

const (
	monthlyPeriod = 30 * 24 * time.Hour
	yearlyPeriod  = 365 * 24 * time.Hour
	// foreverPeriod stands in for "never expires" so every subscription
	// still has a concrete period end.
	foreverPeriod = 36500 * 24 * time.Hour
)

// Period returns the length of one billing period. Unknown cycles, including
// per_person_yearly, fall back to monthly.
func (c BillingCycle) Period() time.Duration {
	switch c {
	case CycleMonthly:
		return monthlyPeriod
	case CycleYearly:
		return yearlyPeriod
	case CycleOneTime, CycleLifetime:
		return foreverPeriod
	default:
		return monthlyPeriod
	}
}

// Limits are the usage caps of a plan. A nil cap means unlimited.
type Limits struct {
	MaxCircles          *int `yaml:"max_circles" json:"max_circles"`
	MaxPhotosPerCircle  *int `yaml:"max_photos_per_circle" json:"max_photos_per_circle"`
	MaxStories          *int `yaml:"max_stories" json:"max_stories"`
	StorageMB           int  `yaml:"storage_mb" json:"storage_mb" validate:"gt=0"`
	MaxMembersPerCircle *int `yaml:"max_members_per_circle" json:"max_members_per_circle"`
}

// Plan is a purchasable (or free) offering.
type Plan struct {
	ID             string       `yaml:"id" json:"plan_id" validate:"required"`
	NameID         string       `yaml:"name_id" json:"name_id" validate:"required"`
	NameEN         string       `yaml:"name_en" json:"name_en" validate:"required"`
	DescriptionID  string       `yaml:"description_id" json:"description_id"`
	PriceIDR       int64        `yaml:"price_idr" json:"price_idr" validate:"gte=0"`
	BillingCycle   BillingCycle `yaml:"billing_cycle" json:"billing_cycle" validate:"oneof=monthly yearly one_time lifetime per_person_yearly"`
	Tier           Tier         `yaml:"tier" json:"tier" validate:"oneof=free personal plus premium"`
	Features       []string     `yaml:"features" json:"features"`
	Limits         Limits       `yaml:"limits" json:"limits"`
	IsPopular      bool         `yaml:"is_popular" json:"is_popular"`
	RecommendedFor []string     `yaml:"recommended_for" json:"recommended_for"`
}

// IsFree reports whether the plan costs nothing.
func (p Plan) IsFree() bool {
	return p.PriceIDR == 0
}

// PeriodEnd returns the end of a period starting at start.
func (p Plan) PeriodEnd(start time.Time) time.Time {
	return start.Add(p.BillingCycle.Period())
}
