package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/famago/crm-ventas/pkg/models/domain"
	"github.com/famago/crm-ventas/pkg/models/store"
	"github.com/famago/crm-ventas/pkg/pricing"
	"github.com/famago/crm-ventas/pkg/store/duckdb"
	"github.com/famago/crm-ventas/pkg/store/duckdb/product"
)

var fixedNow = time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

func setupService(t *testing.T) *DefaultService {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	s, err := product.NewStore(db)
	require.NoError(t, err)

	svc := NewService(db, s)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func testContext() context.Context {
	logger := zerolog.Nop()
	return logger.WithContext(context.Background())
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestService_Create(t *testing.T) {
	svc := setupService(t)
	ctx := testContext()

	p, err := svc.Create(ctx, domain.ProductInput{Code: " 05001 ", Name: " Caja De Dinero ", BasePrice: price("173673")})
	require.NoError(t, err)
	assert.Equal(t, "05001", p.Code)
	assert.Equal(t, "Caja De Dinero", p.Name)
	assert.True(t, p.Active)
	assert.Equal(t, fixedNow, p.CreatedAt)
	assert.Len(t, p.ReferencePrices, 5)
	assert.Equal(t, "5086.138", p.ReferencePrices["42"].StringFixed(3))

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "173673.00", got.BasePrice.StringFixed(2))
	assert.Equal(t, "1515.692", got.ReferencePrices["220"].StringFixed(3))

	_, err = svc.Create(ctx, domain.ProductInput{Name: "  ", BasePrice: price("10")})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	_, err = svc.Create(ctx, domain.ProductInput{Name: "Gratis", BasePrice: decimal.Zero})
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
}

func TestService_RejectsSubCentPrice(t *testing.T) {
	svc := setupService(t)
	ctx := testContext()

	_, err := svc.Create(ctx, domain.ProductInput{Name: "Tiny", BasePrice: price("0.004")})
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)

	counts, err := svc.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts.Total)

	p, err := svc.Create(ctx, domain.ProductInput{Name: "Centavo", BasePrice: price("0.005")})
	require.NoError(t, err)
	assert.Equal(t, "0.01", p.BasePrice.StringFixed(2))

	tiny := price("0.004")
	_, err = svc.Update(ctx, p.ID, domain.ProductPatch{BasePrice: &tiny})
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.01", got.BasePrice.StringFixed(2))

	_, err = svc.Quote(ctx, p.ID, pricing.PlanCash)
	assert.NoError(t, err)
}

func TestService_GetMissing(t *testing.T) {
	svc := setupService(t)
	_, err := svc.Get(testContext(), uuid.New())
	assert.ErrorIs(t, err, duckdb.ErrNotFound)
}

func TestService_Update(t *testing.T) {
	svc := setupService(t)
	ctx := testContext()

	p, err := svc.Create(ctx, domain.ProductInput{Name: "Anafe", BasePrice: price("100000")})
	require.NoError(t, err)

	newPrice := price("173673")
	updated, err := svc.Update(ctx, p.ID, domain.ProductPatch{BasePrice: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, "173673.00", updated.BasePrice.StringFixed(2))
	assert.Equal(t, "5086.138", updated.ReferencePrices["42"].StringFixed(3))

	name := "Anafe Doble"
	code := "A-2"
	updated, err = svc.Update(ctx, p.ID, domain.ProductPatch{Name: &name, Code: &code})
	require.NoError(t, err)
	assert.Equal(t, "Anafe Doble", updated.Name)
	assert.Equal(t, "A-2", updated.Code)
	assert.Equal(t, "173673.00", updated.BasePrice.StringFixed(2))

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anafe Doble", got.Name)
	assert.Equal(t, "5086.138", got.ReferencePrices["42"].StringFixed(3))

	blank := " "
	_, err = svc.Update(ctx, p.ID, domain.ProductPatch{Name: &blank})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	negative := price("-1")
	_, err = svc.Update(ctx, p.ID, domain.ProductPatch{BasePrice: &negative})
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)

	_, err = svc.Update(ctx, uuid.New(), domain.ProductPatch{Name: &name})
	assert.ErrorIs(t, err, duckdb.ErrNotFound)
}

func TestService_DeleteAndCounts(t *testing.T) {
	svc := setupService(t)
	ctx := testContext()

	a, err := svc.Create(ctx, domain.ProductInput{Name: "A", BasePrice: price("10")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.ProductInput{Name: "B", BasePrice: price("20")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.ErrorIs(t, svc.Delete(ctx, uuid.New()), duckdb.ErrNotFound)

	active, err := svc.List(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "B", active[0].Name)

	all, err := svc.List(ctx, domain.ProductFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	counts, err := svc.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ProductCounts{Total: 2, Active: 1, Inactive: 1}, counts)

	// soft-deleted products can still be read by id
	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestService_Import(t *testing.T) {
	svc := setupService(t)
	ctx := testContext()

	stats, err := svc.Import(ctx, []domain.PriceListItem{
		{Code: "05001", Name: "Caja De Dinero", BasePrice: price("173673")},
		{Name: "Balde Plastico", BasePrice: price("8500")},
		{Name: "Sin precio", BasePrice: decimal.Zero},
	}, true)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportStats{Created: 2, Errors: 1}, stats)

	stats, err = svc.Import(ctx, []domain.PriceListItem{
		{Code: "05001", Name: "Caja De Dinero Renombrada", BasePrice: price("180000")},
		{Name: "BALDE PLASTICO", BasePrice: price("8500.00")},
		{Code: "NEW1", Name: "Pava", BasePrice: price("45000")},
	}, true)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportStats{Created: 1, Updated: 1, Unchanged: 1}, stats)
	assert.Equal(t, 3, stats.Processed())

	products, err := svc.List(ctx, domain.ProductFilter{Search: "caja"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Caja De Dinero", products[0].Name)
	assert.Equal(t, "180000.00", products[0].BasePrice.StringFixed(2))
	assert.Equal(t, "5271.429", products[0].ReferencePrices["42"].StringFixed(3))

	stats, err = svc.Import(ctx, []domain.PriceListItem{
		{Code: "05001", Name: "Caja De Dinero", BasePrice: price("1")},
	}, false)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportStats{Unchanged: 1}, stats)
}

type mockStore struct {
	mock.Mock
	product.Store
}

func (m *mockStore) FindByCodeOrName(ctx context.Context, code, name string) (*store.Product, error) {
	args := m.Called(ctx, code, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Product), args.Error(1)
}

func TestService_ImportCountsStoreErrors(t *testing.T) {
	ms := new(mockStore)
	ms.On("FindByCodeOrName", mock.Anything, "X1", "Roto").Return(nil, errors.New("connection lost"))
	ms.On("FindByCodeOrName", mock.Anything, "X2", "Igual").Return(&store.Product{
		ID:        uuid.NewString(),
		Name:      "Igual",
		BasePrice: "100.00",
	}, nil)

	svc := NewService(nil, ms)
	stats, err := svc.Import(testContext(), []domain.PriceListItem{
		{Code: "X1", Name: "Roto", BasePrice: price("10")},
		{Code: "X2", Name: "Igual", BasePrice: price("100")},
	}, true)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportStats{Unchanged: 1, Errors: 1}, stats)
	ms.AssertExpectations(t)
}

func TestService_ImportCancelled(t *testing.T) {
	svc := setupService(t)
	ctx, cancel := context.WithCancel(testContext())
	cancel()

	_, err := svc.Import(ctx, []domain.PriceListItem{{Name: "A", BasePrice: price("1")}}, true)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_Quote(t *testing.T) {
	svc := setupService(t)
	ctx := testContext()

	p, err := svc.Create(ctx, domain.ProductInput{Code: "TEST001", Name: "Caja De Dinero Acero 5 Divisiones", BasePrice: price("173673")})
	require.NoError(t, err)

	q, err := svc.Quote(ctx, p.ID, pricing.Plan42Days)
	require.NoError(t, err)
	assert.Equal(t, p.ID, q.Product.ID)
	assert.Equal(t, "147930.32", q.Result.Total.StringFixed(2))
	assert.Equal(t, fixedNow, q.CreatedAt)

	cash, err := svc.Quote(ctx, p.ID, pricing.PlanCash)
	require.NoError(t, err)
	assert.Equal(t, "113946.86", cash.Result.Total.StringFixed(2))

	n, err := svc.CountQuotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var breakdown string
	err = svc.db.QueryRowContext(ctx, `SELECT breakdown FROM quotes WHERE id = ?`, q.ID.String()).Scan(&breakdown)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(breakdown), &body))
	assert.Equal(t, "42_dias", body["plan"])
	assert.Equal(t, 147930.32, body["total"])
	assert.Equal(t, "TEST001", body["producto"].(map[string]interface{})["codigo"])

	_, err = svc.Quote(ctx, p.ID, pricing.Plan("99_dias"))
	assert.ErrorIs(t, err, pricing.ErrInvalidPlan)

	_, err = svc.Quote(ctx, uuid.New(), pricing.PlanCash)
	assert.ErrorIs(t, err, duckdb.ErrNotFound)

	n, err = svc.CountQuotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
