package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/famago/crm-ventas/pkg/models/domain"
	"github.com/famago/crm-ventas/pkg/pricing"
	"github.com/famago/crm-ventas/pkg/store/duckdb"
)

func quoteResults(base decimal.Decimal, plan pricing.Plan) ([]pricing.Result, error) {
	if plan == "" {
		return pricing.QuoteAll(base)
	}
	r, err := pricing.ComputeFinalPrice(base, plan)
	if err != nil {
		return nil, err
	}
	return []pricing.Result{r}, nil
}

// QuoteReport renders one detail line per priced plan.
func QuoteReport(subject string, results []pricing.Result, at time.Time) *domain.Report {
	details := make([]domain.ReportDetail, 0, len(results))
	for _, r := range results {
		d := domain.ReportDetail{
			Name:  r.Plan.Label(),
			Value: r.Total.StringFixed(2),
			Unit:  "total",
		}
		if r.Financed() {
			d.Description = fmt.Sprintf("%d x %s por día, recargo %s%%, descuento %s%%",
				r.Term, r.DailyPriceFinal.StringFixed(3), r.SurchargePercent.String(), r.DiscountPercent.String())
		} else {
			d.Description = fmt.Sprintf("descuento %s%%", r.DiscountPercent.String())
		}
		details = append(details, d)
	}

	summary := map[string]interface{}{}
	if len(results) > 0 {
		summary["Base price"] = results[0].BasePrice.StringFixed(2)
	}

	return &domain.Report{
		Title:       subject,
		GeneratedAt: at,
		Sections: []domain.ReportSection{{
			Title:   "Plans",
			Summary: summary,
			Details: details,
		}},
	}
}

func DiagnoseReport(dbPath string, counts domain.ProductCounts, quotes int64, stats domain.CustomerStats,
	sample []domain.Product, at time.Time) *domain.Report {
	records := []domain.ReportDetail{
		{Name: "Customers", Value: stats.Total},
		{Name: "Products", Value: counts.Total},
		{Name: "Active products", Value: counts.Active},
		{Name: "Inactive products", Value: counts.Inactive},
		{Name: "Quotes", Value: quotes},
	}
	for _, ic := range stats.ByIntention {
		records = append(records, domain.ReportDetail{
			Name:        "Intention " + ic.Intention,
			Value:       ic.Count,
			Description: "customers",
		})
	}

	return &domain.Report{
		Title:       "Database diagnostics",
		GeneratedAt: at,
		Sections: []domain.ReportSection{
			{
				Title: "Database",
				Summary: map[string]interface{}{
					"Path":   dbPath,
					"Tables": strings.Join(duckdb.Tables, ", "),
				},
			},
			{Title: "Records", Details: records},
			{Title: "Sample products", Details: productDetails(sample)},
		},
	}
}

func VerifyReport(counts domain.ProductCounts, products []domain.Product, at time.Time) *domain.Report {
	stale := 0
	details := productDetails(products)
	for i, p := range products {
		if !referencePricesCurrent(p) {
			stale++
			details[i].Description += ", reference prices out of date"
		}
	}

	return &domain.Report{
		Title:       "Product verification",
		GeneratedAt: at,
		Sections: []domain.ReportSection{
			{
				Title: "Counts",
				Details: []domain.ReportDetail{
					{Name: "Total", Value: counts.Total},
					{Name: "Active", Value: counts.Active},
					{Name: "Inactive", Value: counts.Inactive},
					{Name: "Stale reference prices", Value: stale},
				},
			},
			{Title: "Products", Details: details},
		},
	}
}

func BackfillReport(phone string, updated, total int64, at time.Time) *domain.Report {
	return &domain.Report{
		Title:       "Customer phone backfill",
		GeneratedAt: at,
		Sections: []domain.ReportSection{{
			Title:   "Summary",
			Summary: map[string]interface{}{"Phone": phone},
			Details: []domain.ReportDetail{
				{Name: "Updated", Value: updated, Unit: "customers"},
				{Name: "Total", Value: total, Unit: "customers"},
			},
		}},
	}
}

func productDetails(products []domain.Product) []domain.ReportDetail {
	details := make([]domain.ReportDetail, 0, len(products))
	for _, p := range products {
		name := p.Name
		if p.Code != "" {
			name = fmt.Sprintf("(%s) %s", p.Code, p.Name)
		}
		status := "active"
		if !p.Active {
			status = "inactive"
		}
		details = append(details, domain.ReportDetail{
			Name:        name,
			Value:       p.BasePrice.StringFixed(2),
			Description: status,
		})
	}
	return details
}

func referencePricesCurrent(p domain.Product) bool {
	want, err := pricing.ComputeDailyReferencePrices(p.BasePrice)
	if err != nil || len(want) != len(p.ReferencePrices) {
		return false
	}
	for label, v := range want {
		got, ok := p.ReferencePrices[label]
		if !ok || !got.Equal(v) {
			return false
		}
	}
	return true
}
