package adapters

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/famago/crm-ventas/pkg/models/api"
	"github.com/famago/crm-ventas/pkg/models/domain"
	"github.com/famago/crm-ventas/pkg/models/store"
	"github.com/famago/crm-ventas/pkg/pricing"
)

func MapProductStoreToDomain(p store.Product) (domain.Product, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product id %q: %w", p.ID, err)
	}
	price, err := decimal.NewFromString(p.BasePrice)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %s base price %q: %w", p.ID, p.BasePrice, err)
	}

	refs := make(pricing.ReferencePrices, len(p.ReferencePrices))
	for term, v := range p.ReferencePrices {
		refs[term] = decimal.NewFromFloat(v)
	}

	return domain.Product{
		ID:              id,
		Code:            p.Code.String,
		Name:            p.Name,
		BasePrice:       price,
		ReferencePrices: refs,
		Active:          p.Active,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}, nil
}

func MapProductDomainToStore(p domain.Product) store.Product {
	return store.Product{
		ID:              p.ID.String(),
		Code:            sql.NullString{String: p.Code, Valid: p.Code != ""},
		Name:            p.Name,
		BasePrice:       p.BasePrice.StringFixed(2),
		ReferencePrices: MapReferencePricesToFloat(p.ReferencePrices),
		Active:          p.Active,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func MapReferencePricesToFloat(refs pricing.ReferencePrices) map[string]float64 {
	out := make(map[string]float64, len(refs))
	for term, v := range refs {
		out[term] = v.InexactFloat64()
	}
	return out
}

func MapProductDomainToApi(p domain.Product) api.Product {
	return api.Product{
		ID:              p.ID.String(),
		Code:            p.Code,
		Name:            p.Name,
		BasePrice:       p.BasePrice.InexactFloat64(),
		ReferencePrices: MapReferencePricesToFloat(p.ReferencePrices),
		Active:          p.Active,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func MapProductRefDomainToApi(p domain.Product) *api.ProductRef {
	return &api.ProductRef{
		ID:   p.ID.String(),
		Code: p.Code,
		Name: p.Name,
	}
}

func MapImportStatsDomainToApi(s domain.ImportStats) api.ImportStats {
	return api.ImportStats{
		Created:   s.Created,
		Updated:   s.Updated,
		Unchanged: s.Unchanged,
		Errors:    s.Errors,
	}
}
