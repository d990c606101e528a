package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/famago/crm-ventas/pkg/pricing"
)

type Product struct {
	ID              uuid.UUID
	Code            string // optional; name is the key when empty
	Name            string
	BasePrice       decimal.Decimal
	ReferencePrices pricing.ReferencePrices
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ProductInput struct {
	Code      string
	Name      string
	BasePrice decimal.Decimal
}

type ProductPatch struct {
	Code      *string
	Name      *string
	BasePrice *decimal.Decimal
}

type ProductFilter struct {
	Search          string
	IncludeInactive bool
}

type ProductCounts struct {
	Total    int64
	Active   int64
	Inactive int64
}

// PriceListItem is one row extracted from a price list file.
type PriceListItem struct {
	Code      string
	Name      string
	BasePrice decimal.Decimal
}

type ImportStats struct {
	Created   int
	Updated   int
	Unchanged int
	Errors    int
}

func (s ImportStats) Processed() int {
	return s.Created + s.Updated + s.Unchanged + s.Errors
}
