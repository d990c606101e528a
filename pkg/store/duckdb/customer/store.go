package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/famago/crm-ventas/pkg/models/store"
	"github.com/famago/crm-ventas/pkg/store/duckdb"
)

type Filter struct {
	Locality  string
	Intention string
	Search    string
}

type IntentionCount struct {
	Intention string
	Count     int64
}

type Store interface {
	Create(ctx context.Context, customer store.Customer) error
	BulkInsert(ctx context.Context, customers []store.Customer) error
	Get(ctx context.Context, id string) (*store.Customer, error)
	List(ctx context.Context, filter Filter) ([]store.Customer, error)
	All(ctx context.Context) ([]store.Customer, error)
	Update(ctx context.Context, id string, changes map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountByIntention(ctx context.Context) ([]IntentionCount, error)
	Localities(ctx context.Context) ([]string, error)
	BackfillPhone(ctx context.Context, phone string) (int64, error)
}

// Columns holds the updatable columns. Update rejects anything else.
var Columns = []string{
	"name", "business_name", "locality", "address", "neighborhood", "dni", "phone",
	"is_customer", "detail", "interest_1", "interest_2", "interest_3", "purchase_count",
	"purchase_intention", "action", "comment", "birth_date", "age",
}

type customerStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &customerStore{
		db: db,
	}, nil
}

const insertQuery = `
	INSERT INTO customers (
		id, registered_at, name, business_name, locality, address, neighborhood, dni, phone,
		is_customer, detail, interest_1, interest_2, interest_3, purchase_count,
		purchase_intention, action, comment, birth_date, age
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectColumns = `
	SELECT id, registered_at, name, business_name, locality, address, neighborhood, dni, phone,
		is_customer, detail, interest_1, interest_2, interest_3, purchase_count,
		purchase_intention, action, comment, birth_date, age
	FROM customers`

func insertArgs(c store.Customer) []interface{} {
	return []interface{}{
		c.ID, c.RegisteredAt, c.Name, c.BusinessName, c.Locality, c.Address, c.Neighborhood, c.DNI, c.Phone,
		c.IsCustomer, c.Detail, c.Interest1, c.Interest2, c.Interest3, c.PurchaseCount,
		c.Intention, c.Action, c.Comment, c.BirthDate, c.Age,
	}
}

func (s *customerStore) Create(ctx context.Context, customer store.Customer) error {
	_, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, insertQuery, insertArgs(customer)...)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// BulkInsert writes all customers or none.
func (s *customerStore) BulkInsert(ctx context.Context, customers []store.Customer) error {
	if len(customers) == 0 {
		return nil
	}

	return duckdb.InTransaction(ctx, s.db, func(ctx context.Context) error {
		stmt, err := duckdb.Conn(ctx, s.db).PrepareContext(ctx, insertQuery)
		if err != nil {
			return fmt.Errorf("prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, c := range customers {
			if _, err := stmt.ExecContext(ctx, insertArgs(c)...); err != nil {
				return fmt.Errorf("insert customer %q: %w", c.Name, err)
			}
		}
		return nil
	})
}

func (s *customerStore) Get(ctx context.Context, id string) (*store.Customer, error) {
	row := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, duckdb.ErrNotFound
	}
	return c, err
}

func (s *customerStore) List(ctx context.Context, filter Filter) ([]store.Customer, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if v := strings.TrimSpace(filter.Locality); v != "" {
		conditions = append(conditions, "contains(lower(coalesce(locality, '')), lower(?))")
		args = append(args, v)
	}
	if v := strings.TrimSpace(filter.Intention); v != "" {
		conditions = append(conditions, "contains(lower(purchase_intention), lower(?))")
		args = append(args, v)
	}
	if v := strings.TrimSpace(filter.Search); v != "" {
		conditions = append(conditions, `(
			contains(lower(name), lower(?))
			OR contains(lower(coalesce(business_name, '')), lower(?))
			OR contains(lower(coalesce(comment, '')), lower(?)))`)
		args = append(args, v, v, v)
	}

	query := selectColumns
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY registered_at DESC"

	return s.query(ctx, query, args...)
}

func (s *customerStore) All(ctx context.Context) ([]store.Customer, error) {
	return s.query(ctx, selectColumns+" ORDER BY registered_at")
}

func (s *customerStore) query(ctx context.Context, query string, args ...interface{}) ([]store.Customer, error) {
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := make([]store.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

// Update sets the given columns on one customer. Keys must come from Columns.
func (s *customerStore) Update(ctx context.Context, id string, changes map[string]interface{}) error {
	if len(changes) == 0 {
		var exists bool
		err := duckdb.Conn(ctx, s.db).QueryRowContext(ctx,
			`SELECT COUNT(*) > 0 FROM customers WHERE id = ?`, id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check customer: %w", err)
		}
		if !exists {
			return duckdb.ErrNotFound
		}
		return nil
	}

	sets := make([]string, 0, len(changes))
	args := make([]interface{}, 0, len(changes)+1)
	// iterate Columns for a stable statement shape
	for _, col := range Columns {
		v, ok := changes[col]
		if !ok {
			continue
		}
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if len(sets) != len(changes) {
		return fmt.Errorf("update customer: unknown column in %v", keys(changes))
	}
	args = append(args, id)

	res, err := duckdb.Conn(ctx, s.db).ExecContext(ctx,
		fmt.Sprintf(`UPDATE customers SET %s WHERE id = ?`, strings.Join(sets, ", ")), args...)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return duckdb.ErrNotFound
	}
	return nil
}

func (s *customerStore) Delete(ctx context.Context, id string) error {
	res, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return duckdb.ErrNotFound
	}
	return nil
}

func (s *customerStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

func (s *customerStore) CountByIntention(ctx context.Context) ([]IntentionCount, error) {
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, `
		SELECT purchase_intention, COUNT(*)
		FROM customers
		GROUP BY purchase_intention
		ORDER BY COUNT(*) DESC, purchase_intention`)
	if err != nil {
		return nil, fmt.Errorf("count by intention: %w", err)
	}
	defer rows.Close()

	counts := make([]IntentionCount, 0)
	for rows.Next() {
		var ic IntentionCount
		if err := rows.Scan(&ic.Intention, &ic.Count); err != nil {
			return nil, fmt.Errorf("scan intention count: %w", err)
		}
		counts = append(counts, ic)
	}
	return counts, rows.Err()
}

func (s *customerStore) Localities(ctx context.Context) ([]string, error) {
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, `
		SELECT DISTINCT locality
		FROM customers
		WHERE locality IS NOT NULL AND locality <> ''
		ORDER BY locality`)
	if err != nil {
		return nil, fmt.Errorf("query localities: %w", err)
	}
	defer rows.Close()

	localities := make([]string, 0)
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, fmt.Errorf("scan locality: %w", err)
		}
		localities = append(localities, l)
	}
	return localities, rows.Err()
}

// BackfillPhone sets phone on every customer without one and returns how
// many rows changed.
func (s *customerStore) BackfillPhone(ctx context.Context, phone string) (int64, error) {
	res, err := duckdb.Conn(ctx, s.db).ExecContext(ctx,
		`UPDATE customers SET phone = ? WHERE phone IS NULL OR phone = ''`, phone)
	if err != nil {
		return 0, fmt.Errorf("backfill phone: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row scanner) (*store.Customer, error) {
	var c store.Customer
	err := row.Scan(
		&c.ID, &c.RegisteredAt, &c.Name, &c.BusinessName, &c.Locality, &c.Address, &c.Neighborhood, &c.DNI, &c.Phone,
		&c.IsCustomer, &c.Detail, &c.Interest1, &c.Interest2, &c.Interest3, &c.PurchaseCount,
		&c.Intention, &c.Action, &c.Comment, &c.BirthDate, &c.Age,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
