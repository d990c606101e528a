package store

import (
	"database/sql"
	"time"
)

// Product is the row shape of the products table. Prices travel as their
// decimal string form to keep them exact.
type Product struct {
	ID              string
	Code            sql.NullString
	Name            string
	BasePrice       string
	ReferencePrices map[string]float64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Quote struct {
	ID        string
	ProductID string
	Plan      string
	Total     string
	Breakdown []byte
	CreatedAt time.Time
}
