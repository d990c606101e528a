package adapters

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/famago/crm-ventas/pkg/models/api"
	"github.com/famago/crm-ventas/pkg/models/domain"
	"github.com/famago/crm-ventas/pkg/models/store"
)

const DateLayout = "2006-01-02"

func MapCustomerStoreToDomain(c store.Customer) (domain.Customer, error) {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("customer id %q: %w", c.ID, err)
	}

	res := domain.Customer{
		ID:            id,
		RegisteredAt:  c.RegisteredAt,
		Name:          c.Name,
		BusinessName:  c.BusinessName.String,
		Locality:      c.Locality.String,
		Address:       c.Address.String,
		Neighborhood:  c.Neighborhood.String,
		DNI:           c.DNI.String,
		Phone:         c.Phone.String,
		IsCustomer:    c.IsCustomer.String,
		Detail:        c.Detail.String,
		Interest1:     c.Interest1.String,
		Interest2:     c.Interest2.String,
		Interest3:     c.Interest3.String,
		PurchaseCount: c.PurchaseCount.String,
		Intention:     c.Intention,
		Action:        c.Action.String,
		Comment:       c.Comment.String,
	}
	if c.BirthDate.Valid {
		t := c.BirthDate.Time
		res.BirthDate = &t
	}
	if c.Age.Valid {
		age := int(c.Age.Int64)
		res.Age = &age
	}
	return res, nil
}

func MapCustomerDomainToStore(c domain.Customer) store.Customer {
	res := store.Customer{
		ID:            c.ID.String(),
		RegisteredAt:  c.RegisteredAt,
		Name:          c.Name,
		BusinessName:  nullString(c.BusinessName),
		Locality:      nullString(c.Locality),
		Address:       nullString(c.Address),
		Neighborhood:  nullString(c.Neighborhood),
		DNI:           nullString(c.DNI),
		Phone:         nullString(c.Phone),
		IsCustomer:    nullString(c.IsCustomer),
		Detail:        nullString(c.Detail),
		Interest1:     nullString(c.Interest1),
		Interest2:     nullString(c.Interest2),
		Interest3:     nullString(c.Interest3),
		PurchaseCount: nullString(c.PurchaseCount),
		Intention:     c.Intention,
		Action:        nullString(c.Action),
		Comment:       nullString(c.Comment),
	}
	if c.BirthDate != nil {
		res.BirthDate = sql.NullTime{Time: *c.BirthDate, Valid: true}
	}
	if c.Age != nil {
		res.Age = sql.NullInt64{Int64: int64(*c.Age), Valid: true}
	}
	return res
}

func MapCustomerDomainToApi(c domain.Customer) api.Customer {
	res := api.Customer{
		ID:            c.ID.String(),
		Name:          c.Name,
		BusinessName:  c.BusinessName,
		Locality:      c.Locality,
		Address:       c.Address,
		Neighborhood:  c.Neighborhood,
		DNI:           c.DNI,
		Phone:         c.Phone,
		IsCustomer:    c.IsCustomer,
		Detail:        c.Detail,
		Interest1:     c.Interest1,
		Interest2:     c.Interest2,
		Interest3:     c.Interest3,
		PurchaseCount: c.PurchaseCount,
		Intention:     c.Intention,
		Action:        c.Action,
		Comment:       c.Comment,
		Age:           c.Age,
	}
	if !c.RegisteredAt.IsZero() {
		res.Date = c.RegisteredAt.Format(DateLayout)
	}
	if c.BirthDate != nil {
		res.BirthDate = c.BirthDate.Format(DateLayout)
	}
	if res.Intention == "" {
		res.Intention = domain.DefaultIntention
	}
	return res
}

// MapCustomerRequestToPatch converts a create/update body. The birth date
// must already be validated as YYYY-MM-DD.
func MapCustomerRequestToPatch(r api.CustomerRequest) (domain.CustomerPatch, error) {
	patch := domain.CustomerPatch{
		Name:          trimmed(r.Name),
		BusinessName:  trimmed(r.BusinessName),
		Locality:      trimmed(r.Locality),
		Address:       trimmed(r.Address),
		Neighborhood:  trimmed(r.Neighborhood),
		DNI:           trimmed(r.DNI),
		Phone:         trimmed(r.Phone),
		IsCustomer:    trimmed(r.IsCustomer),
		Detail:        trimmed(r.Detail),
		Interest1:     trimmed(r.Interest1),
		Interest2:     trimmed(r.Interest2),
		Interest3:     trimmed(r.Interest3),
		PurchaseCount: trimmed(r.PurchaseCount),
		Intention:     trimmed(r.Intention),
		Action:        trimmed(r.Action),
		Comment:       trimmed(r.Comment),
		Age:           r.Age.Value,
	}
	if r.BirthDate != "" {
		t, err := time.Parse(DateLayout, strings.TrimSpace(r.BirthDate))
		if err != nil {
			return domain.CustomerPatch{}, fmt.Errorf("fecha_nacimiento: %w", err)
		}
		patch.BirthDate = &t
	}
	return patch, nil
}

// ApplyCustomerPatch builds a new customer from a patch, used on create.
func ApplyCustomerPatch(c domain.Customer, p domain.CustomerPatch) domain.Customer {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&c.Name, p.Name)
	set(&c.BusinessName, p.BusinessName)
	set(&c.Locality, p.Locality)
	set(&c.Address, p.Address)
	set(&c.Neighborhood, p.Neighborhood)
	set(&c.DNI, p.DNI)
	set(&c.Phone, p.Phone)
	set(&c.IsCustomer, p.IsCustomer)
	set(&c.Detail, p.Detail)
	set(&c.Interest1, p.Interest1)
	set(&c.Interest2, p.Interest2)
	set(&c.Interest3, p.Interest3)
	set(&c.PurchaseCount, p.PurchaseCount)
	set(&c.Intention, p.Intention)
	set(&c.Action, p.Action)
	set(&c.Comment, p.Comment)
	if p.BirthDate != nil {
		c.BirthDate = p.BirthDate
	}
	if p.Age != nil {
		c.Age = p.Age
	}
	c.Intention = strings.ToUpper(c.Intention)
	if c.Intention == "" {
		c.Intention = domain.DefaultIntention
	}
	return c
}

// MapCustomerPatchToColumns returns the column changes for a partial update.
// Blank strings become NULL; a blank intention falls back to the default.
func MapCustomerPatchToColumns(p domain.CustomerPatch) map[string]interface{} {
	changes := map[string]interface{}{}
	text := func(col string, v *string) {
		if v == nil {
			return
		}
		if *v == "" {
			changes[col] = nil
			return
		}
		changes[col] = *v
	}
	text("name", p.Name)
	text("business_name", p.BusinessName)
	text("locality", p.Locality)
	text("address", p.Address)
	text("neighborhood", p.Neighborhood)
	text("dni", p.DNI)
	text("phone", p.Phone)
	text("is_customer", p.IsCustomer)
	text("detail", p.Detail)
	text("interest_1", p.Interest1)
	text("interest_2", p.Interest2)
	text("interest_3", p.Interest3)
	text("purchase_count", p.PurchaseCount)
	text("action", p.Action)
	text("comment", p.Comment)
	if p.Intention != nil {
		intention := strings.ToUpper(*p.Intention)
		if intention == "" {
			intention = domain.DefaultIntention
		}
		changes["purchase_intention"] = intention
	}
	if p.BirthDate != nil {
		changes["birth_date"] = *p.BirthDate
	}
	if p.Age != nil {
		changes["age"] = int64(*p.Age)
	}
	return changes
}

func MapCustomerStatsToApi(s domain.CustomerStats) api.CustomerStats {
	res := api.CustomerStats{
		Total:       s.Total,
		ByIntention: make([]api.IntentionCount, 0, len(s.ByIntention)),
	}
	for _, ic := range s.ByIntention {
		res.ByIntention = append(res.ByIntention, api.IntentionCount{Intention: ic.Intention, Count: ic.Count})
	}
	return res
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
