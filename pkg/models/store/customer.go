package store

import (
	"database/sql"
	"time"
)

// Customer is the row shape of the customers table.
type Customer struct {
	ID            string
	RegisteredAt  time.Time
	Name          string
	BusinessName  sql.NullString
	Locality      sql.NullString
	Address       sql.NullString
	Neighborhood  sql.NullString
	DNI           sql.NullString
	Phone         sql.NullString
	IsCustomer    sql.NullString
	Detail        sql.NullString
	Interest1     sql.NullString
	Interest2     sql.NullString
	Interest3     sql.NullString
	PurchaseCount sql.NullString
	Intention     string
	Action        sql.NullString
	Comment       sql.NullString
	BirthDate     sql.NullTime
	Age           sql.NullInt64
}
