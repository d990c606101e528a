package domain

import (
	"time"

	"github.com/google/uuid"
)

const DefaultIntention = "POCA"

type Customer struct {
	ID            uuid.UUID
	RegisteredAt  time.Time
	Name          string
	BusinessName  string
	Locality      string
	Address       string
	Neighborhood  string
	DNI           string
	Phone         string
	IsCustomer    string
	Detail        string
	Interest1     string
	Interest2     string
	Interest3     string
	PurchaseCount string
	Intention     string // POCA, MEDIA, ALTA ...
	Action        string
	Comment       string
	BirthDate     *time.Time
	Age           *int
}

// CustomerPatch carries a partial update. A nil field is left untouched, a
// pointer to an empty string clears the stored value.
type CustomerPatch struct {
	Name          *string
	BusinessName  *string
	Locality      *string
	Address       *string
	Neighborhood  *string
	DNI           *string
	Phone         *string
	IsCustomer    *string
	Detail        *string
	Interest1     *string
	Interest2     *string
	Interest3     *string
	PurchaseCount *string
	Intention     *string
	Action        *string
	Comment       *string
	BirthDate     *time.Time
	Age           *int
}

type CustomerFilter struct {
	Locality  string
	Intention string
	Search    string // name, business name or comment
}

type IntentionCount struct {
	Intention string
	Count     int64
}

type CustomerStats struct {
	Total       int64
	ByIntention []IntentionCount
}
