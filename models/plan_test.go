package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePlanIDAliases(t *testing.T) {
	cases := map[string]PlanID{
		"3-coffees":        PlanChillMode,
		"creator":          PlanDoubleShot,
		"unlimited":        PlanCaffeineRoyalty,
		"daily-coffee":     PlanDailyCoffee,
		"chill-mode":       PlanChillMode,
		"double-shot":      PlanDoubleShot,
		"caffeine-royalty": PlanCaffeineRoyalty,
	}
	for raw, want := range cases {
		assert.Equal(t, want, NormalizePlanID(raw), "raw id %q", raw)
	}
}

func TestNormalizePlanIDUnknownFallsBackToDaily(t *testing.T) {
	assert.Equal(t, PlanDailyCoffee, NormalizePlanID("meal-5"))
	assert.Equal(t, PlanDailyCoffee, NormalizePlanID(""))
	assert.Equal(t, PlanDailyCoffee, NormalizePlanID("some-future-plan"))
}

func TestNormalizePlanIDIsIdempotent(t *testing.T) {
	for _, raw := range []string{"3-coffees", "creator", "unlimited", "daily-coffee", "chill-mode", "garbage"} {
		once := NormalizePlanID(raw)
		twice := NormalizePlanID(string(once))
		assert.Equal(t, once, twice, "raw id %q", raw)
	}
}

func TestLimitsForCanonicalPlans(t *testing.T) {
	limits, ok := LimitsFor(PlanChillMode)
	assert.True(t, ok)
	assert.Equal(t, PlanLimits{CoffeePerWeek: 3}, limits)

	limits, ok = LimitsFor(PlanDailyCoffee)
	assert.True(t, ok)
	assert.Equal(t, PlanLimits{CoffeePerDay: 1}, limits)

	limits, ok = LimitsFor(PlanDoubleShot)
	assert.True(t, ok)
	assert.Equal(t, PlanLimits{CoffeePerDay: 2, FoodPerDay: 1, Pooled: true}, limits)

	limits, ok = LimitsFor(PlanCaffeineRoyalty)
	assert.True(t, ok)
	assert.Equal(t, PlanLimits{CoffeePerDay: 4, Pooled: true}, limits)
}

func TestLimitsForUnmappedIDHardDenies(t *testing.T) {
	// An id that skipped normalization gets no fallback policy. This is the
	// counterpart to the NormalizePlanID fallback: unknown raw ids are
	// softened to the daily plan, un-normalized ids are refused outright.
	_, ok := LimitsFor(PlanID("meal-5"))
	assert.False(t, ok)
}

func TestPlanSeatRules(t *testing.T) {
	assert.False(t, IsBundlePlan("daily-coffee"))
	assert.False(t, IsBundlePlan("3-coffees"))
	assert.True(t, IsBundlePlan("creator"))
	assert.True(t, IsBundlePlan("caffeine-royalty"))

	assert.Equal(t, 1, MaxSeats("daily-coffee"))
	assert.Equal(t, 2, MaxSeats("double-shot"))
	assert.Equal(t, 4, MaxSeats("unlimited"))
}

func TestMonthlyCoffeeAllowance(t *testing.T) {
	assert.Equal(t, 12, MonthlyCoffeeAllowance("3-coffees"))
	assert.Equal(t, 30, MonthlyCoffeeAllowance("daily-coffee"))
	assert.Equal(t, 60, MonthlyCoffeeAllowance("creator"))
	assert.Equal(t, 120, MonthlyCoffeeAllowance("caffeine-royalty"))
	// Unknown ids normalize to the daily plan first.
	assert.Equal(t, 30, MonthlyCoffeeAllowance("whatever"))
}

func TestValidItemType(t *testing.T) {
	assert.True(t, ValidItemType(ItemTypeCoffee))
	assert.True(t, ValidItemType(ItemTypeFood))
	assert.True(t, ValidItemType(ItemTypeDessert))
	assert.False(t, ValidItemType("tea"))
	assert.False(t, ValidItemType(""))
}
