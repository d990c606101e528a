// Package pricing computes installment-plan prices from a product list price.
//
// Every function here is pure: results depend only on the arguments, so they
// may be called from any goroutine without synchronization. Intermediate
// values are kept exact and only reported values are rounded (half away from
// zero), which makes Total reproducible from the base price and plan alone.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidPlan  = errors.New("invalid plan")
)

const (
	KindCash     = "cash"
	KindFinanced = "financed"

	moneyPlaces = 2
	dailyPlaces = 3
)

var hundred = decimal.NewFromInt(100)

// ReferencePrices maps a term label ("42", "84", ...) to the display per-day price.
type ReferencePrices map[string]decimal.Decimal

// Result is the breakdown of a priced plan. Financed-only fields are zero for cash.
type Result struct {
	Kind            string
	Plan            Plan
	BasePrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	Total           decimal.Decimal

	// cash
	FinalPrice decimal.Decimal

	// financed
	SurchargePercent         decimal.Decimal
	PriceWithSurcharge       decimal.Decimal
	DailyPriceBeforeDiscount decimal.Decimal
	DailyPriceFinal          decimal.Decimal
	Term                     int
}

func (r Result) Financed() bool {
	return r.Kind == KindFinanced
}

// TermLabel is the key used for a term in ReferencePrices.
func TermLabel(term int) string {
	return strconv.Itoa(term)
}

// ComputeDailyReferencePrices returns round(base * markup[term] / term, 3) for
// each of the five financing terms.
func ComputeDailyReferencePrices(basePrice decimal.Decimal) (ReferencePrices, error) {
	if err := validateBasePrice(basePrice); err != nil {
		return nil, err
	}

	prices := make(ReferencePrices, len(Terms))
	for _, term := range Terms {
		marked := basePrice.Mul(referenceMarkup[term])
		prices[TermLabel(term)] = marked.DivRound(decimal.NewFromInt(int64(term)), dailyPlaces)
	}
	return prices, nil
}

// ComputeFinalPrice prices basePrice under plan.
func ComputeFinalPrice(basePrice decimal.Decimal, plan Plan) (Result, error) {
	if err := validateBasePrice(basePrice); err != nil {
		return Result{}, err
	}
	terms, ok := plans[plan]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q (valid plans: %s)", ErrInvalidPlan, plan, validPlanList())
	}

	keep := hundred.Sub(terms.discount).Div(hundred)

	if terms.term == 0 {
		final := basePrice.Mul(keep).Round(moneyPlaces)
		return Result{
			Kind:            KindCash,
			Plan:            plan,
			BasePrice:       basePrice.Round(moneyPlaces),
			DiscountPercent: terms.discount,
			FinalPrice:      final,
			Total:           final,
		}, nil
	}

	days := decimal.NewFromInt(int64(terms.term))
	withSurcharge := basePrice.Mul(hundred.Add(terms.surcharge)).Div(hundred)
	discounted := withSurcharge.Mul(keep)

	// total = (withSurcharge / term * keep) * term, taken before the daily
	// price is rounded.
	return Result{
		Kind:                     KindFinanced,
		Plan:                     plan,
		BasePrice:                basePrice.Round(moneyPlaces),
		SurchargePercent:         terms.surcharge,
		PriceWithSurcharge:       withSurcharge.Round(moneyPlaces),
		DailyPriceBeforeDiscount: withSurcharge.DivRound(days, dailyPlaces),
		DiscountPercent:          terms.discount,
		DailyPriceFinal:          discounted.DivRound(days, dailyPlaces),
		Term:                     terms.term,
		Total:                    discounted.Round(moneyPlaces),
	}, nil
}

// QuoteAll prices basePrice under every plan, in Plans() order.
func QuoteAll(basePrice decimal.Decimal) ([]Result, error) {
	results := make([]Result, 0, len(plans))
	for _, p := range Plans() {
		r, err := ComputeFinalPrice(basePrice, p)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func validateBasePrice(basePrice decimal.Decimal) error {
	if !basePrice.IsPositive() {
		return fmt.Errorf("%w: base price must be positive, got %s", ErrInvalidInput, basePrice.String())
	}
	return nil
}

// ParseBasePrice converts a float coming from JSON or a spreadsheet cell.
func ParseBasePrice(v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, fmt.Errorf("%w: base price must be a finite number", ErrInvalidInput)
	}
	d := decimal.NewFromFloat(v)
	if err := validateBasePrice(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
