package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Plan identifies a financing option. The zero value is not a valid plan.
type Plan string

const (
	PlanCash    Plan = "contado_efectivo"
	Plan42Days  Plan = "42_dias"
	Plan84Days  Plan = "84_dias"
	Plan135Days Plan = "135_dias"
	Plan175Days Plan = "175_dias"
	Plan220Days Plan = "220_dias"
)

// Terms are the financing horizons in days, in display order.
var Terms = []int{42, 84, 135, 175, 220}

type planTerms struct {
	label     string
	term      int             // 0 for cash
	discount  decimal.Decimal // percent
	surcharge decimal.Decimal // percent, financed only
}

var plans = map[Plan]planTerms{
	PlanCash:    {label: "Contado Efectivo", discount: decimal.RequireFromString("34.39")},
	Plan42Days:  {label: "42 Días", term: 42, discount: decimal.RequireFromString("30.75"), surcharge: decimal.NewFromInt(23)},
	Plan84Days:  {label: "84 Días", term: 84, discount: decimal.RequireFromString("27.1"), surcharge: decimal.NewFromInt(42)},
	Plan135Days: {label: "135 Días", term: 135, discount: decimal.RequireFromString("27.1"), surcharge: decimal.NewFromInt(58)},
	Plan175Days: {label: "175 Días", term: 175, discount: decimal.RequireFromString("27.1"), surcharge: decimal.NewFromInt(75)},
	Plan220Days: {label: "220 Días", term: 220, discount: decimal.RequireFromString("27.1"), surcharge: decimal.NewFromInt(92)},
}

// referenceMarkup is used only for the cached per-day display prices.
var referenceMarkup = map[int]decimal.Decimal{
	42:  decimal.RequireFromString("1.23"),
	84:  decimal.RequireFromString("1.42"),
	135: decimal.RequireFromString("1.58"),
	175: decimal.RequireFromString("1.75"),
	220: decimal.RequireFromString("1.92"),
}

// Plans returns every known plan, cash first and then by term.
func Plans() []Plan {
	return []Plan{PlanCash, Plan42Days, Plan84Days, Plan135Days, Plan175Days, Plan220Days}
}

// ParsePlan maps a plan id to a Plan.
func ParsePlan(id string) (Plan, error) {
	p := Plan(strings.TrimSpace(id))
	if _, ok := plans[p]; !ok {
		return "", fmt.Errorf("%w: %q (valid plans: %s)", ErrInvalidPlan, id, validPlanList())
	}
	return p, nil
}

// Valid reports whether p is one of the known plans.
func (p Plan) Valid() bool {
	_, ok := plans[p]
	return ok
}

// Financed reports whether the plan is paid in daily installments.
func (p Plan) Financed() bool {
	return plans[p].term > 0
}

// Term is the number of days of the plan, 0 for cash.
func (p Plan) Term() int {
	return plans[p].term
}

// Label is the display name of the plan.
func (p Plan) Label() string {
	return plans[p].label
}

// DiscountPercent is the discount applied last, in percent.
func (p Plan) DiscountPercent() decimal.Decimal {
	return plans[p].discount
}

// SurchargePercent is the markup of a financed plan, in percent. Zero for cash.
func (p Plan) SurchargePercent() decimal.Decimal {
	return plans[p].surcharge
}

func validPlanList() string {
	ids := make([]string, 0, len(plans))
	for _, p := range Plans() {
		ids = append(ids, string(p))
	}
	return strings.Join(ids, ", ")
}
