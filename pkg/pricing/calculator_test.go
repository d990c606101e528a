package pricing

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeFinalPrice_Cash(t *testing.T) {
	result, err := ComputeFinalPrice(dec("173673"), PlanCash)
	require.NoError(t, err)

	assert.Equal(t, KindCash, result.Kind)
	assert.False(t, result.Financed())
	assert.Equal(t, "173673.00", result.BasePrice.StringFixed(2))
	assert.Equal(t, "34.39", result.DiscountPercent.String())
	assert.Equal(t, "113946.86", result.FinalPrice.StringFixed(2))
	assert.True(t, result.Total.Equal(result.FinalPrice))
	assert.Zero(t, result.Term)
	assert.True(t, result.DailyPriceFinal.IsZero())
}

func TestComputeFinalPrice_Financed42(t *testing.T) {
	result, err := ComputeFinalPrice(dec("173673"), Plan42Days)
	require.NoError(t, err)

	assert.Equal(t, KindFinanced, result.Kind)
	assert.Equal(t, "23", result.SurchargePercent.String())
	assert.Equal(t, "213617.79", result.PriceWithSurcharge.StringFixed(2))
	assert.Equal(t, "5086.138", result.DailyPriceBeforeDiscount.StringFixed(3))
	assert.Equal(t, "30.75", result.DiscountPercent.String())
	assert.Equal(t, "3522.150", result.DailyPriceFinal.StringFixed(3))
	assert.Equal(t, 42, result.Term)
	assert.Equal(t, "147930.32", result.Total.StringFixed(2))

	// total stays within a cent of the rounded daily price times the term
	approx := result.DailyPriceFinal.Mul(decimal.NewFromInt(42))
	assert.True(t, approx.Sub(result.Total).Abs().LessThanOrEqual(dec("0.05")))
}

func TestComputeFinalPrice_AllPlans(t *testing.T) {
	tests := []struct {
		plan               Plan
		priceWithSurcharge string
		dailyBefore        string
		dailyFinal         string
		total              string
	}{
		{Plan42Days, "123000.00", "2928.571", "2028.036", "85177.50"},
		{Plan84Days, "142000.00", "1690.476", "1232.357", "103518.00"},
		{Plan135Days, "158000.00", "1170.370", "853.200", "115182.00"},
		{Plan175Days, "175000.00", "1000.000", "729.000", "127575.00"},
		{Plan220Days, "192000.00", "872.727", "636.218", "139968.00"},
	}

	for _, tc := range tests {
		t.Run(string(tc.plan), func(t *testing.T) {
			result, err := ComputeFinalPrice(dec("100000"), tc.plan)
			require.NoError(t, err)
			assert.Equal(t, tc.priceWithSurcharge, result.PriceWithSurcharge.StringFixed(2))
			assert.Equal(t, tc.dailyBefore, result.DailyPriceBeforeDiscount.StringFixed(3))
			assert.Equal(t, tc.dailyFinal, result.DailyPriceFinal.StringFixed(3))
			assert.Equal(t, tc.total, result.Total.StringFixed(2))
			assert.Equal(t, tc.plan.Term(), result.Term)
		})
	}

	cash, err := ComputeFinalPrice(dec("100000"), PlanCash)
	require.NoError(t, err)
	assert.Equal(t, "65610.00", cash.Total.StringFixed(2))
}

func TestComputeFinalPrice_FractionalBase(t *testing.T) {
	result, err := ComputeFinalPrice(dec("1500.50"), Plan175Days)
	require.NoError(t, err)
	assert.Equal(t, "2625.88", result.PriceWithSurcharge.StringFixed(2))
	assert.Equal(t, "15.005", result.DailyPriceBeforeDiscount.StringFixed(3))
	assert.Equal(t, "10.939", result.DailyPriceFinal.StringFixed(3))
	assert.Equal(t, "1914.26", result.Total.StringFixed(2))

	cash, err := ComputeFinalPrice(dec("1500.50"), PlanCash)
	require.NoError(t, err)
	assert.Equal(t, "984.48", cash.Total.StringFixed(2))
}

func TestComputeFinalPrice_Deterministic(t *testing.T) {
	base := dec("98765.43")
	for _, plan := range Plans() {
		first, err := ComputeFinalPrice(base, plan)
		require.NoError(t, err)

		var wg sync.WaitGroup
		results := make([]Result, 16)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = ComputeFinalPrice(base, plan)
			}(i)
		}
		wg.Wait()

		for _, r := range results {
			assert.Equal(t, first.Total.String(), r.Total.String())
			assert.Equal(t, first.DailyPriceFinal.String(), r.DailyPriceFinal.String())
		}
	}
}

func TestComputeFinalPrice_Monotonic(t *testing.T) {
	for _, plan := range Plans() {
		prev, err := ComputeFinalPrice(dec("1"), plan)
		require.NoError(t, err)
		for _, base := range []string{"2", "10", "999.99", "1000", "173673", "5000000"} {
			next, err := ComputeFinalPrice(dec(base), plan)
			require.NoError(t, err)
			assert.True(t, next.Total.GreaterThan(prev.Total), "plan %s base %s", plan, base)
			prev = next
		}
	}
}

func TestComputeFinalPrice_InvalidInput(t *testing.T) {
	for _, base := range []string{"0", "-1", "-173673"} {
		for _, plan := range Plans() {
			_, err := ComputeFinalPrice(dec(base), plan)
			assert.ErrorIs(t, err, ErrInvalidInput)
		}
	}
}

func TestComputeFinalPrice_InvalidPlan(t *testing.T) {
	_, err := ComputeFinalPrice(dec("1000"), Plan("99_dias"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPlan))
	assert.Contains(t, err.Error(), "contado_efectivo")
}

func TestComputeDailyReferencePrices(t *testing.T) {
	prices, err := ComputeDailyReferencePrices(dec("100000"))
	require.NoError(t, err)

	assert.Len(t, prices, 5)
	want := map[string]string{
		"42":  "2928.571",
		"84":  "1690.476",
		"135": "1170.370",
		"175": "1000.000",
		"220": "872.727",
	}
	for label, v := range want {
		got, ok := prices[label]
		require.True(t, ok, "missing term %s", label)
		assert.Equal(t, v, got.StringFixed(3))
	}

	prices, err = ComputeDailyReferencePrices(dec("173673"))
	require.NoError(t, err)
	assert.Equal(t, "5086.138", prices["42"].StringFixed(3))
	assert.Equal(t, "1515.692", prices["220"].StringFixed(3))
}

func TestComputeDailyReferencePrices_NonNegative(t *testing.T) {
	prices, err := ComputeDailyReferencePrices(dec("0.01"))
	require.NoError(t, err)
	assert.Len(t, prices, 5)
	for _, v := range prices {
		assert.False(t, v.IsNegative())
	}
}

func TestComputeDailyReferencePrices_InvalidInput(t *testing.T) {
	_, err := ComputeDailyReferencePrices(decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ComputeDailyReferencePrices(dec("-5"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestQuoteAll(t *testing.T) {
	results, err := QuoteAll(dec("173673"))
	require.NoError(t, err)
	require.Len(t, results, 6)
	assert.Equal(t, PlanCash, results[0].Plan)
	assert.Equal(t, "243086.62", results[5].Total.StringFixed(2))

	_, err = QuoteAll(decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParsePlan(t *testing.T) {
	for _, p := range Plans() {
		got, err := ParsePlan(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
		assert.True(t, got.Valid())
		assert.NotEmpty(t, got.Label())
	}

	got, err := ParsePlan(" 84_dias ")
	require.NoError(t, err)
	assert.Equal(t, Plan84Days, got)
	assert.True(t, got.Financed())
	assert.Equal(t, "27.1", got.DiscountPercent().String())
	assert.Equal(t, "42", got.SurchargePercent().String())
	assert.True(t, PlanCash.SurchargePercent().IsZero())
	assert.False(t, Plan("99_dias").Valid())

	_, err = ParsePlan("99_dias")
	assert.ErrorIs(t, err, ErrInvalidPlan)
	_, err = ParsePlan("")
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestParseBasePrice(t *testing.T) {
	d, err := ParseBasePrice(173673.5)
	require.NoError(t, err)
	assert.Equal(t, "173673.5", d.String())

	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := ParseBasePrice(v)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}
