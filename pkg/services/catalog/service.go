// Package catalog manages the product price list and prices products under
// the financing plans.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/famago/crm-ventas/pkg/adapters"
	"github.com/famago/crm-ventas/pkg/models/domain"
	"github.com/famago/crm-ventas/pkg/models/store"
	"github.com/famago/crm-ventas/pkg/pricing"
	"github.com/famago/crm-ventas/pkg/store/duckdb"
	"github.com/famago/crm-ventas/pkg/store/duckdb/product"
)

var ErrInvalidProduct = errors.New("invalid product")

type Service interface {
	Create(ctx context.Context, in domain.ProductInput) (domain.Product, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Counts(ctx context.Context) (domain.ProductCounts, error)
	CountQuotes(ctx context.Context) (int64, error)

	// Import upserts price list items. Existing products are matched by code,
	// or by name when the item has no code.
	Import(ctx context.Context, items []domain.PriceListItem, updateExisting bool) (domain.ImportStats, error)

	// Quote prices a stored product and records the calculation.
	Quote(ctx context.Context, id uuid.UUID, plan pricing.Plan) (domain.Quote, error)
}

type DefaultService struct {
	db    *sql.DB
	store product.Store
	now   func() time.Time
}

func NewService(db *sql.DB, store product.Store) *DefaultService {
	return &DefaultService{
		db:    db,
		store: store,
		now:   time.Now,
	}
}

func (s *DefaultService) Create(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Product{}, fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	price := in.BasePrice.Round(2)
	refs, err := pricing.ComputeDailyReferencePrices(price)
	if err != nil {
		return domain.Product{}, err
	}

	now := s.now().UTC()
	p := domain.Product{
		ID:              uuid.New(),
		Code:            strings.TrimSpace(in.Code),
		Name:            name,
		BasePrice:       price,
		ReferencePrices: refs,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.Create(ctx, adapters.MapProductDomainToStore(p)); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *DefaultService) Get(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	row, err := s.store.Get(ctx, id.String())
	if err != nil {
		return domain.Product{}, err
	}
	return adapters.MapProductStoreToDomain(*row)
}

func (s *DefaultService) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	rows, err := s.store.List(ctx, filter.Search, filter.IncludeInactive)
	if err != nil {
		return nil, err
	}
	return mapProducts(rows)
}

// Update applies a partial change. The reference prices are recomputed when
// the base price changes.
func (s *DefaultService) Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (domain.Product, error) {
	var updated domain.Product
	err := duckdb.InTransaction(ctx, s.db, func(ctx context.Context) error {
		p, err := s.Get(ctx, id)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return fmt.Errorf("%w: name is required", ErrInvalidProduct)
			}
			p.Name = name
		}
		if patch.Code != nil {
			p.Code = strings.TrimSpace(*patch.Code)
		}
		if patch.BasePrice != nil {
			// a sub-cent price rounds to zero and is rejected
			price := patch.BasePrice.Round(2)
			refs, err := pricing.ComputeDailyReferencePrices(price)
			if err != nil {
				return err
			}
			if !price.Equal(p.BasePrice) {
				p.BasePrice = price
				p.ReferencePrices = refs
			}
		}
		p.UpdatedAt = s.now().UTC()

		if err := s.store.Update(ctx, adapters.MapProductDomainToStore(p)); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return updated, nil
}

// Delete deactivates the product. Quotes referencing it stay valid.
func (s *DefaultService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Deactivate(ctx, id.String(), s.now().UTC())
}

func (s *DefaultService) Counts(ctx context.Context) (domain.ProductCounts, error) {
	total, active, err := s.store.Counts(ctx)
	if err != nil {
		return domain.ProductCounts{}, err
	}
	return domain.ProductCounts{Total: total, Active: active, Inactive: total - active}, nil
}

func (s *DefaultService) CountQuotes(ctx context.Context) (int64, error) {
	return s.store.CountQuotes(ctx)
}

func (s *DefaultService) Import(
	ctx context.Context,
	items []domain.PriceListItem,
	updateExisting bool,
) (domain.ImportStats, error) {
	logger := zerolog.Ctx(ctx)
	var stats domain.ImportStats

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		outcome, err := s.importItem(ctx, item, updateExisting)
		if err != nil {
			stats.Errors++
			logger.Warn().
				Err(err).
				Str("code", item.Code).
				Str("name", item.Name).
				Msg("failed to import product")
			continue
		}

		switch outcome {
		case outcomeCreated:
			stats.Created++
			logger.Info().Str("name", item.Name).Str("price", item.BasePrice.StringFixed(2)).Msg("product created")
		case outcomeUpdated:
			stats.Updated++
			logger.Info().Str("name", item.Name).Str("price", item.BasePrice.StringFixed(2)).Msg("product price updated")
		default:
			stats.Unchanged++
		}
	}

	logger.Info().
		Int("created", stats.Created).
		Int("updated", stats.Updated).
		Int("unchanged", stats.Unchanged).
		Int("errors", stats.Errors).
		Msg("price list import finished")
	return stats, nil
}

type importOutcome int

const (
	outcomeUnchanged importOutcome = iota
	outcomeCreated
	outcomeUpdated
)

func (s *DefaultService) importItem(ctx context.Context, item domain.PriceListItem, updateExisting bool) (importOutcome, error) {
	existing, err := s.store.FindByCodeOrName(ctx, item.Code, item.Name)
	if errors.Is(err, duckdb.ErrNotFound) {
		_, err := s.Create(ctx, domain.ProductInput{Code: item.Code, Name: item.Name, BasePrice: item.BasePrice})
		if err != nil {
			return outcomeUnchanged, err
		}
		return outcomeCreated, nil
	}
	if err != nil {
		return outcomeUnchanged, err
	}
	if !updateExisting {
		return outcomeUnchanged, nil
	}

	p, err := adapters.MapProductStoreToDomain(*existing)
	if err != nil {
		return outcomeUnchanged, err
	}
	price := item.BasePrice.Round(2)
	if p.BasePrice.Equal(price) {
		return outcomeUnchanged, nil
	}

	refs, err := pricing.ComputeDailyReferencePrices(price)
	if err != nil {
		return outcomeUnchanged, err
	}
	p.BasePrice = price
	p.ReferencePrices = refs
	p.UpdatedAt = s.now().UTC()
	if err := s.store.Update(ctx, adapters.MapProductDomainToStore(p)); err != nil {
		return outcomeUnchanged, err
	}
	return outcomeUpdated, nil
}

func (s *DefaultService) Quote(ctx context.Context, id uuid.UUID, plan pricing.Plan) (domain.Quote, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return domain.Quote{}, err
	}
	result, err := pricing.ComputeFinalPrice(p.BasePrice, plan)
	if err != nil {
		return domain.Quote{}, err
	}

	q := domain.Quote{
		ID:        uuid.New(),
		Product:   p,
		Result:    result,
		CreatedAt: s.now().UTC(),
	}
	breakdown, err := json.Marshal(adapters.MapQuoteDomainToApi(q))
	if err != nil {
		return domain.Quote{}, fmt.Errorf("marshal quote: %w", err)
	}
	err = s.store.AddQuote(ctx, store.Quote{
		ID:        q.ID.String(),
		ProductID: p.ID.String(),
		Plan:      string(plan),
		Total:     result.Total.StringFixed(2),
		Breakdown: breakdown,
		CreatedAt: q.CreatedAt,
	})
	if err != nil {
		return domain.Quote{}, err
	}
	return q, nil
}

func mapProducts(rows []store.Product) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p, err := adapters.MapProductStoreToDomain(row)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}
