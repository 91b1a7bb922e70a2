package types

import "fmt"

// Plan is a subscription tier label.
type Plan string

const (
	PlanNone  Plan = "none"
	PlanTrial Plan = "trial"
	PlanLight Plan = "light"
	PlanPlus  Plan = "plus"
	PlanPro   Plan = "pro"
)

// planRank is the only plan ordering in the codebase. Trial unlocks the plus tier.
var planRank = map[Plan]int{
	PlanNone:  0,
	PlanLight: 1,
	PlanTrial: 2,
	PlanPlus:  2,
	PlanPro:   3,
}

// Rank returns the tier level of the plan; unknown labels rank as none.
func (p Plan) Rank() int {
	return planRank[p]
}

// Satisfies reports whether a holder of p may access features requiring required.
func (p Plan) Satisfies(required Plan) bool {
	return p.Rank() >= required.Rank()
}

func (p Plan) Valid() bool {
	_, ok := planRank[p]
	return ok
}

// Purchasable reports whether the plan can be bought through the payment provider.
func (p Plan) Purchasable() bool {
	return p == PlanLight || p == PlanPlus || p == PlanPro
}

func ParsePlan(s string) (Plan, error) {
	p := Plan(s)
	if !p.Valid() {
		return PlanNone, fmt.Errorf("unknown plan: %q", s)
	}
	return p, nil
}

// PlanItem is a catalogue entry loaded from config.
type PlanItem struct {
	Plan         Plan   `json:"plan" mapstructure:"plan"`
	Title        string `json:"title" mapstructure:"title"`
	Price        int64  `json:"price" mapstructure:"price"`
	Currency     string `json:"currency" mapstructure:"currency"`
	DurationDays int    `json:"duration_days" mapstructure:"duration_days"`
}
