package models

// PlanID is a canonical membership plan identifier. Raw plan ids received
// from clients or stored on older subscription rows may be legacy aliases;
// normalize with NormalizePlanID before any policy, pricing, or display
// lookup so the two never diverge.
type PlanID string

const (
	PlanChillMode       PlanID = "chill-mode"
	PlanDailyCoffee     PlanID = "daily-coffee"
	PlanDoubleShot      PlanID = "double-shot"
	PlanCaffeineRoyalty PlanID = "caffeine-royalty"
)

// NormalizePlanID maps legacy aliases and canonical ids to canonical ids.
// Unknown ids fall back to the daily plan rather than erroring; bad input is
// masked on purpose so old subscription rows keep redeeming.
func NormalizePlanID(raw string) PlanID {
	switch raw {
	case "3-coffees":
		return PlanChillMode
	case "creator":
		return PlanDoubleShot
	case "unlimited":
		return PlanCaffeineRoyalty
	case string(PlanChillMode), string(PlanDailyCoffee), string(PlanDoubleShot), string(PlanCaffeineRoyalty):
		return PlanID(raw)
	default:
		return PlanDailyCoffee
	}
}

// PlanLimits holds the redemption caps for one plan. A zero field means the
// plan has no cap on that axis. Pooled caps are enforced per subscription
// across all its members, not per user.
type PlanLimits struct {
	CoffeePerDay  int
	CoffeePerWeek int
	FoodPerDay    int
	Pooled        bool
}

// LimitsFor returns the redemption policy for a canonical plan id. The
// switch is exhaustive over the PlanID constants; anything else reports
// ok=false and the validator denies it as an invalid plan type.
func LimitsFor(planID PlanID) (PlanLimits, bool) {
	switch planID {
	case PlanChillMode:
		return PlanLimits{CoffeePerWeek: 3}, true
	case PlanDailyCoffee:
		return PlanLimits{CoffeePerDay: 1}, true
	case PlanDoubleShot:
		return PlanLimits{CoffeePerDay: 2, FoodPerDay: 1, Pooled: true}, true
	case PlanCaffeineRoyalty:
		// Not truly unlimited: 4 per day pooled across the subscription.
		return PlanLimits{CoffeePerDay: 4, Pooled: true}, true
	default:
		return PlanLimits{}, false
	}
}

// PlanDisplayName returns the marketing name for a plan id (legacy aliases
// accepted).
func PlanDisplayName(rawPlanID string) string {
	switch NormalizePlanID(rawPlanID) {
	case PlanChillMode:
		return "Chill Mode — 12 Coffees / Month"
	case PlanDailyCoffee:
		return "Daily Fix — 30 Coffees / Month"
	case PlanDoubleShot:
		return "Double Shot — 60 Coffees / Month"
	case PlanCaffeineRoyalty:
		return "Caffeine Royalty — 120 Coffees / Month"
	}
	return "Membership"
}

// PlanPrice returns the monthly price in the club currency.
func PlanPrice(rawPlanID string) float64 {
	switch NormalizePlanID(rawPlanID) {
	case PlanChillMode:
		return 199
	case PlanDailyCoffee:
		return 400
	case PlanDoubleShot:
		return 950
	case PlanCaffeineRoyalty:
		return 1500
	}
	return 0
}

// IsBundlePlan reports whether the plan carries shared seats.
func IsBundlePlan(rawPlanID string) bool {
	switch NormalizePlanID(rawPlanID) {
	case PlanDoubleShot, PlanCaffeineRoyalty:
		return true
	}
	return false
}

// MaxSeats returns the seat cap (owner plus members) for a plan. Non-bundle
// plans seat only the owner.
func MaxSeats(rawPlanID string) int {
	switch NormalizePlanID(rawPlanID) {
	case PlanDoubleShot:
		return 2
	case PlanCaffeineRoyalty:
		return 4
	}
	return 1
}

// MonthlyCoffeeAllowance is the informational rolling-period total shown on
// dashboards. It is a separate accounting axis from the day/week caps the
// redemption validator enforces and must not feed into validation.
func MonthlyCoffeeAllowance(rawPlanID string) int {
	switch NormalizePlanID(rawPlanID) {
	case PlanChillMode:
		return 12
	case PlanDailyCoffee:
		return 30
	case PlanDoubleShot:
		return 60
	case PlanCaffeineRoyalty:
		return 120
	}
	return 30
}
