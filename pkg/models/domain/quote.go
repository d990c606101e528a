package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/famago/crm-ventas/pkg/pricing"
)

// Quote is a priced plan for a stored product.
type Quote struct {
	ID        uuid.UUID
	Product   Product
	Result    pricing.Result
	CreatedAt time.Time
}
