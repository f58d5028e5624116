package plan

// Feature is a gated product capability.
type Feature string

const (
	FeatureTimeCapsule   Feature = "time_capsule"
	FeatureAIEnhancement Feature = "ai_enhancement"
	FeatureExportPDF     Feature = "export_pdf"
	FeaturePublicSharing Feature = "public_sharing"
	FeatureAnalytics     Feature = "analytics"
)

var featureAccess = map[Feature][]Tier{
	FeatureTimeCapsule:   {TierPlus, TierPremium},
	FeatureAIEnhancement: {TierPlus, TierPremium},
	FeatureExportPDF:     {TierPlus, TierPremium},
	FeaturePublicSharing: {TierPremium},
	FeatureAnalytics:     {TierPremium},
}

// HasAccess reports whether tier may use feature. Unknown features have an
// empty allow-list and are therefore denied.
func HasAccess(tier Tier, feature Feature) bool {
	for _, allowed := range featureAccess[feature] {
		if allowed == tier {
			return true
		}
	}
	return false
}

// AllowedTiers returns the tiers that unlock feature.
func AllowedTiers(feature Feature) []Tier {
	return append([]Tier(nil), featureAccess[feature]...)
}
