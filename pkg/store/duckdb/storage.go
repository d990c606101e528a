package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const CustomersSchema = `
	CREATE TABLE IF NOT EXISTS customers (
		id VARCHAR PRIMARY KEY,
		registered_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		name VARCHAR NOT NULL,
		business_name VARCHAR,
		locality VARCHAR,
		address VARCHAR,
		neighborhood VARCHAR,
		dni VARCHAR,
		phone VARCHAR,
		is_customer VARCHAR,
		detail VARCHAR,
		interest_1 VARCHAR,
		interest_2 VARCHAR,
		interest_3 VARCHAR,
		purchase_count VARCHAR,
		purchase_intention VARCHAR NOT NULL DEFAULT 'POCA',
		action VARCHAR,
		comment VARCHAR,
		birth_date TIMESTAMP,
		age BIGINT
	);
`

const ProductsSchema = `
	CREATE TABLE IF NOT EXISTS products (
		id VARCHAR PRIMARY KEY,
		code VARCHAR,
		name VARCHAR NOT NULL,
		base_price DECIMAL(18, 2) NOT NULL,
		reference_prices VARCHAR NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

const QuotesSchema = `
	CREATE TABLE IF NOT EXISTS quotes (
		id VARCHAR PRIMARY KEY,
		product_id VARCHAR NOT NULL,
		plan VARCHAR NOT NULL,
		total DECIMAL(18, 2) NOT NULL,
		breakdown VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

var bootQueries = []string{
	CustomersSchema,
	ProductsSchema,
	QuotesSchema,
}

// Tables lists the tables created on boot, used by diagnostics.
var Tables = []string{"customers", "products", "quotes"}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
