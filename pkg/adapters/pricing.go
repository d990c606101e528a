package adapters

import (
	"github.com/famago/crm-ventas/pkg/models/api"
	"github.com/famago/crm-ventas/pkg/models/domain"
	"github.com/famago/crm-ventas/pkg/pricing"
)

// MapResultToApi renders a pricing result. Financed-only fields stay nil for
// the cash plan so they are omitted from the JSON body.
func MapResultToApi(r pricing.Result) api.Breakdown {
	b := api.Breakdown{
		Kind:            r.Kind,
		Plan:            string(r.Plan),
		PlanName:        r.Plan.Label(),
		BasePrice:       r.BasePrice.InexactFloat64(),
		DiscountPercent: r.DiscountPercent.InexactFloat64(),
		Total:           r.Total.InexactFloat64(),
	}
	if !r.Financed() {
		final := r.FinalPrice.InexactFloat64()
		b.FinalPrice = &final
		return b
	}

	surcharge := r.SurchargePercent.InexactFloat64()
	withSurcharge := r.PriceWithSurcharge.InexactFloat64()
	dailyBefore := r.DailyPriceBeforeDiscount.InexactFloat64()
	dailyFinal := r.DailyPriceFinal.InexactFloat64()
	term := r.Term

	b.SurchargePercent = &surcharge
	b.PriceWithSurcharge = &withSurcharge
	b.DailyPriceBeforeDiscount = &dailyBefore
	b.DailyPriceFinal = &dailyFinal
	b.Term = &term
	return b
}

func MapQuoteDomainToApi(q domain.Quote) api.Quote {
	return api.Quote{
		ID:        q.ID.String(),
		Breakdown: MapResultToApi(q.Result),
		Product:   MapProductRefDomainToApi(q.Product),
	}
}

func MapPlansToApi(plans []pricing.Plan) []api.PlanInfo {
	out := make([]api.PlanInfo, 0, len(plans))
	for _, p := range plans {
		out = append(out, api.PlanInfo{
			ID:               string(p),
			Name:             p.Label(),
			Term:             p.Term(),
			DiscountPercent:  p.DiscountPercent().InexactFloat64(),
			SurchargePercent: p.SurchargePercent().InexactFloat64(),
		})
	}
	return out
}

func PlanIDs() []string {
	plans := pricing.Plans()
	ids := make([]string, 0, len(plans))
	for _, p := range plans {
		ids = append(ids, string(p))
	}
	return ids
}
