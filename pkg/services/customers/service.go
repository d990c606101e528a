// Package customers manages the customer register.
package customers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/famago/crm-ventas/pkg/adapters"
	"github.com/famago/crm-ventas/pkg/importers/spreadsheet"
	"github.com/famago/crm-ventas/pkg/models/domain"
	"github.com/famago/crm-ventas/pkg/models/store"
	"github.com/famago/crm-ventas/pkg/store/duckdb/customer"
)

var (
	ErrInvalidCustomer = errors.New("invalid customer")
	ErrInvalidWorkbook = errors.New("invalid customer workbook")
)

type Service interface {
	Create(ctx context.Context, patch domain.CustomerPatch) (domain.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Customer, error)
	List(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.CustomerPatch) (domain.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (domain.CustomerStats, error)
	Localities(ctx context.Context) ([]string, error)

	// Import reads a customer workbook and inserts every row, all or nothing.
	Import(ctx context.Context, r io.Reader) (int, error)
	// Export writes the whole register as a workbook.
	Export(ctx context.Context, w io.Writer) error
	BackfillPhone(ctx context.Context, phone string) (int64, error)
}

type DefaultService struct {
	store customer.Store
	now   func() time.Time
}

func NewService(store customer.Store) *DefaultService {
	return &DefaultService{
		store: store,
		now:   time.Now,
	}
}

func (s *DefaultService) Create(ctx context.Context, patch domain.CustomerPatch) (domain.Customer, error) {
	c := adapters.ApplyCustomerPatch(domain.Customer{}, patch)
	if c.Name == "" {
		return domain.Customer{}, fmt.Errorf("%w: cliente is required", ErrInvalidCustomer)
	}
	c.ID = uuid.New()
	c.RegisteredAt = s.now().UTC()

	if err := s.store.Create(ctx, adapters.MapCustomerDomainToStore(c)); err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

func (s *DefaultService) Get(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	row, err := s.store.Get(ctx, id.String())
	if err != nil {
		return domain.Customer{}, err
	}
	return adapters.MapCustomerStoreToDomain(*row)
}

func (s *DefaultService) List(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error) {
	rows, err := s.store.List(ctx, customer.Filter{
		Locality:  filter.Locality,
		Intention: filter.Intention,
		Search:    filter.Search,
	})
	if err != nil {
		return nil, err
	}
	return mapCustomers(rows)
}

// Update applies the fields present in patch. Blank values clear the stored
// field; the name cannot be cleared.
func (s *DefaultService) Update(ctx context.Context, id uuid.UUID, patch domain.CustomerPatch) (domain.Customer, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.Customer{}, fmt.Errorf("%w: cliente cannot be empty", ErrInvalidCustomer)
	}
	if err := s.store.Update(ctx, id.String(), adapters.MapCustomerPatchToColumns(patch)); err != nil {
		return domain.Customer{}, err
	}
	return s.Get(ctx, id)
}

func (s *DefaultService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id.String())
}

func (s *DefaultService) Stats(ctx context.Context) (domain.CustomerStats, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return domain.CustomerStats{}, err
	}
	counts, err := s.store.CountByIntention(ctx)
	if err != nil {
		return domain.CustomerStats{}, err
	}

	stats := domain.CustomerStats{
		Total:       total,
		ByIntention: make([]domain.IntentionCount, 0, len(counts)),
	}
	for _, c := range counts {
		stats.ByIntention = append(stats.ByIntention, domain.IntentionCount{Intention: c.Intention, Count: c.Count})
	}
	return stats, nil
}

func (s *DefaultService) Localities(ctx context.Context) ([]string, error) {
	return s.store.Localities(ctx)
}

func (s *DefaultService) Import(ctx context.Context, r io.Reader) (int, error) {
	parsed, err := spreadsheet.ReadCustomers(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}

	now := s.now().UTC()
	rows := make([]store.Customer, 0, len(parsed))
	for _, c := range parsed {
		c.ID = uuid.New()
		if c.RegisteredAt.IsZero() {
			c.RegisteredAt = now
		}
		rows = append(rows, adapters.MapCustomerDomainToStore(c))
	}

	if err := s.store.BulkInsert(ctx, rows); err != nil {
		return 0, err
	}
	zerolog.Ctx(ctx).Info().Int("customers", len(rows)).Msg("customer workbook imported")
	return len(rows), nil
}

func (s *DefaultService) Export(ctx context.Context, w io.Writer) error {
	rows, err := s.store.All(ctx)
	if err != nil {
		return err
	}
	all, err := mapCustomers(rows)
	if err != nil {
		return err
	}
	return spreadsheet.WriteCustomers(w, all)
}

func (s *DefaultService) BackfillPhone(ctx context.Context, phone string) (int64, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return 0, fmt.Errorf("%w: phone is required", ErrInvalidCustomer)
	}
	return s.store.BackfillPhone(ctx, phone)
}

func mapCustomers(rows []store.Customer) ([]domain.Customer, error) {
	customers := make([]domain.Customer, 0, len(rows))
	for _, row := range rows {
		c, err := adapters.MapCustomerStoreToDomain(row)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, nil
}
