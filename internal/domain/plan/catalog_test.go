package plan_test

import (
	"testing"
	"time"

	"github.com/kenang-app/kenang-billing/internal/domain/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := plan.Default()
	require.NoError(t, err)

	tests := []struct {
		id    string
		price int64
		cycle plan.BillingCycle
		tier  plan.Tier
	}{
		{"free", 0, plan.CycleLifetime, plan.TierFree},
		{"personal", 29000, plan.CycleMonthly, plan.TierPersonal},
		{"plus", 79000, plan.CycleMonthly, plan.TierPlus},
		{"premium", 149000, plan.CycleMonthly, plan.TierPremium},
		{"cinta", 299000, plan.CycleOneTime, plan.TierPlus},
		{"keluarga_yearly", 499000, plan.CycleYearly, plan.TierPlus},
		{"alumni", 50000, plan.CyclePerPersonYearly, plan.TierPersonal},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			p, ok := c.Get(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.price, p.PriceIDR)
			assert.Equal(t, tt.cycle, p.BillingCycle)
			assert.Equal(t, tt.tier, p.Tier)
			assert.Equal(t, tt.price, c.PriceOf(tt.id))

			byPrice, ok := c.ByPrice(tt.price)
			require.True(t, ok)
			assert.Equal(t, tt.id, byPrice.ID)
		})
	}

	assert.Equal(t, "free", c.Free().ID)
}

func TestCatalog_Lookups(t *testing.T) {
	c := plan.MustDefault()

	_, ok := c.Get("platinum")
	assert.False(t, ok)
	assert.Equal(t, int64(0), c.PriceOf("platinum"))

	_, ok = c.ByPrice(30000)
	assert.False(t, ok)

	premium, _ := c.Get("premium")
	assert.Nil(t, premium.Limits.MaxCircles)
	assert.Equal(t, 100000, premium.Limits.StorageMB)

	alumni, _ := c.Get("alumni")
	assert.Nil(t, alumni.Limits.MaxMembersPerCircle)
	require.NotNil(t, alumni.Limits.MaxCircles)
	assert.Equal(t, 3, *alumni.Limits.MaxCircles)
}

func TestCatalog_List(t *testing.T) {
	c := plan.MustDefault()

	purchasable := c.List(false)
	assert.Len(t, purchasable, 6)
	for _, p := range purchasable {
		assert.False(t, p.IsFree())
	}

	all := c.List(true)
	require.Len(t, all, 7)
	assert.Equal(t, "free", all[0].ID)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].PriceIDR, all[i].PriceIDR)
	}
}

func TestLoad_RejectsBrokenCatalogs(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "duplicate price",
			yaml: `
plans:
  - {id: free, name_id: Gratis, name_en: Free, price_idr: 0, billing_cycle: lifetime, tier: free, limits: {storage_mb: 1}}
  - {id: a, name_id: A, name_en: A, price_idr: 1000, billing_cycle: monthly, tier: plus, limits: {storage_mb: 1}}
  - {id: b, name_id: B, name_en: B, price_idr: 1000, billing_cycle: monthly, tier: plus, limits: {storage_mb: 1}}
`,
		},
		{
			name: "duplicate id",
			yaml: `
plans:
  - {id: free, name_id: Gratis, name_en: Free, price_idr: 0, billing_cycle: lifetime, tier: free, limits: {storage_mb: 1}}
  - {id: free, name_id: Gratis, name_en: Free, price_idr: 10, billing_cycle: lifetime, tier: free, limits: {storage_mb: 1}}
`,
		},
		{
			name: "no free plan",
			yaml: `
plans:
  - {id: a, name_id: A, name_en: A, price_idr: 1000, billing_cycle: monthly, tier: plus, limits: {storage_mb: 1}}
`,
		},
		{
			name: "unknown billing cycle",
			yaml: `
plans:
  - {id: free, name_id: Gratis, name_en: Free, price_idr: 0, billing_cycle: weekly, tier: free, limits: {storage_mb: 1}}
`,
		},
		{
			name: "malformed yaml",
			yaml: "plans: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := plan.Load([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestBillingCycle_Period(t *testing.T) {
	day := 24 * time.Hour

	assert.Equal(t, 30*day, plan.CycleMonthly.Period())
	assert.Equal(t, 365*day, plan.CycleYearly.Period())
	assert.Equal(t, 36500*day, plan.CycleOneTime.Period())
	assert.Equal(t, 36500*day, plan.CycleLifetime.Period())
	assert.Equal(t, 30*day, plan.CyclePerPersonYearly.Period())
	assert.Equal(t, 30*day, plan.BillingCycle("fortnightly").Period())

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	personal, _ := plan.MustDefault().Get("personal")
	assert.Equal(t, start.Add(30*day), personal.PeriodEnd(start))
}
