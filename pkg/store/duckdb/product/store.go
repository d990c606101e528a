package product

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/famago/crm-ventas/pkg/models/store"
	"github.com/famago/crm-ventas/pkg/store/duckdb"
)

// Store persists products and the quotes computed for them. Products are
// never removed, Deactivate flips the active flag.
type Store interface {
	Create(ctx context.Context, product store.Product) error
	Get(ctx context.Context, id string) (*store.Product, error)
	List(ctx context.Context, search string, includeInactive bool) ([]store.Product, error)
	FindByCodeOrName(ctx context.Context, code, name string) (*store.Product, error)
	Update(ctx context.Context, product store.Product) error
	Deactivate(ctx context.Context, id string, at time.Time) error
	Counts(ctx context.Context) (total, active int64, err error)
	AddQuote(ctx context.Context, quote store.Quote) error
	CountQuotes(ctx context.Context) (int64, error)
}

type productStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &productStore{
		db: db,
	}, nil
}

const selectColumns = `
	SELECT id, code, name, CAST(base_price AS VARCHAR), reference_prices, active, created_at, updated_at
	FROM products`

func (s *productStore) Create(ctx context.Context, product store.Product) error {
	refs, err := json.Marshal(product.ReferencePrices)
	if err != nil {
		return fmt.Errorf("marshal reference prices: %w", err)
	}

	_, err = duckdb.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO products (id, code, name, base_price, reference_prices, active, created_at, updated_at)
		VALUES (?, ?, ?, CAST(? AS DECIMAL(18, 2)), ?, ?, ?, ?)`,
		product.ID,
		product.Code,
		product.Name,
		product.BasePrice,
		string(refs),
		product.Active,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *productStore) Get(ctx context.Context, id string) (*store.Product, error) {
	row := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	return scanProduct(row)
}

func (s *productStore) List(ctx context.Context, search string, includeInactive bool) ([]store.Product, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if !includeInactive {
		conditions = append(conditions, "active")
	}
	if search = strings.TrimSpace(search); search != "" {
		conditions = append(conditions, "(contains(lower(name), lower(?)) OR contains(lower(coalesce(code, '')), lower(?)))")
		args = append(args, search, search)
	}

	query := selectColumns
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name"

	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]store.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// FindByCodeOrName looks a product up by exact code, or by case-insensitive
// name when code is empty.
func (s *productStore) FindByCodeOrName(ctx context.Context, code, name string) (*store.Product, error) {
	var row *sql.Row
	if code != "" {
		row = duckdb.Conn(ctx, s.db).QueryRowContext(ctx, selectColumns+` WHERE code = ? ORDER BY created_at LIMIT 1`, code)
	} else {
		row = duckdb.Conn(ctx, s.db).QueryRowContext(ctx, selectColumns+` WHERE lower(name) = lower(?) ORDER BY created_at LIMIT 1`, name)
	}
	return scanProduct(row)
}

func (s *productStore) Update(ctx context.Context, product store.Product) error {
	refs, err := json.Marshal(product.ReferencePrices)
	if err != nil {
		return fmt.Errorf("marshal reference prices: %w", err)
	}

	res, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, `
		UPDATE products
		SET code = ?, name = ?, base_price = CAST(? AS DECIMAL(18, 2)), reference_prices = ?, updated_at = ?
		WHERE id = ?`,
		product.Code,
		product.Name,
		product.BasePrice,
		string(refs),
		product.UpdatedAt,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return expectAffected(res)
}

func (s *productStore) Deactivate(ctx context.Context, id string, at time.Time) error {
	res, err := duckdb.Conn(ctx, s.db).ExecContext(ctx,
		`UPDATE products SET active = false, updated_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	return expectAffected(res)
}

func (s *productStore) Counts(ctx context.Context) (int64, int64, error) {
	var total, active int64
	err := duckdb.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE active) FROM products`).Scan(&total, &active)
	if err != nil {
		return 0, 0, fmt.Errorf("count products: %w", err)
	}
	return total, active, nil
}

func (s *productStore) AddQuote(ctx context.Context, quote store.Quote) error {
	_, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO quotes (id, product_id, plan, total, breakdown, created_at)
		VALUES (?, ?, ?, CAST(? AS DECIMAL(18, 2)), ?, ?)`,
		quote.ID,
		quote.ProductID,
		quote.Plan,
		quote.Total,
		string(quote.Breakdown),
		quote.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

func (s *productStore) CountQuotes(ctx context.Context) (int64, error) {
	var n int64
	if err := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM quotes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count quotes: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*store.Product, error) {
	var (
		p    store.Product
		refs string
	)
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.BasePrice, &refs, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, duckdb.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}

	p.ReferencePrices = map[string]float64{}
	if refs != "" {
		if err := json.Unmarshal([]byte(refs), &p.ReferencePrices); err != nil {
			return nil, fmt.Errorf("unmarshal reference prices: %w", err)
		}
	}
	return &p, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return duckdb.ErrNotFound
	}
	return nil
}
