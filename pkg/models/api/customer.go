package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Customer struct {
	ID            string `json:"id"`
	Date          string `json:"fecha"`
	Name          string `json:"cliente"`
	BusinessName  string `json:"nombre_negocio"`
	Locality      string `json:"localidad"`
	Address       string `json:"direccion"`
	Neighborhood  string `json:"barrio"`
	DNI           string `json:"dni"`
	Phone         string `json:"telefono"`
	IsCustomer    string `json:"es_cliente"`
	Detail        string `json:"detalle"`
	Interest1     string `json:"interes_1"`
	Interest2     string `json:"interes_2"`
	Interest3     string `json:"interes_3"`
	PurchaseCount string `json:"cantidad_compras"`
	Intention     string `json:"intencion_comprar"`
	Action        string `json:"accion"`
	Comment       string `json:"comentario"`
	BirthDate     string `json:"fecha_nacimiento"`
	Age           *int   `json:"años"`
}

// CustomerRequest is the body of create and update calls. Absent fields are
// nil; on update they keep their stored value.
type CustomerRequest struct {
	Name          *string `json:"cliente" validate:"omitempty,max=200"`
	BusinessName  *string `json:"nombre_negocio" validate:"omitempty,max=200"`
	Locality      *string `json:"localidad" validate:"omitempty,max=120"`
	Address       *string `json:"direccion"`
	Neighborhood  *string `json:"barrio"`
	DNI           *string `json:"dni" validate:"omitempty,max=20"`
	Phone         *string `json:"telefono" validate:"omitempty,max=40"`
	IsCustomer    *string `json:"es_cliente"`
	Detail        *string `json:"detalle"`
	Interest1     *string `json:"interes_1"`
	Interest2     *string `json:"interes_2"`
	Interest3     *string `json:"interes_3"`
	PurchaseCount *string `json:"cantidad_compras"`
	Intention     *string `json:"intencion_comprar" validate:"omitempty,max=32"`
	Action        *string `json:"accion"`
	Comment       *string `json:"comentario"`
	BirthDate     string  `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
	Age           FlexInt `json:"años"`
}

// FlexInt accepts a JSON number, a numeric string or null. Unparseable
// values are treated as absent.
type FlexInt struct {
	Value *int
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	f.Value = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode age: %w", err)
		}
		raw = strings.TrimSpace(s)
	}
	if raw == "" {
		return nil
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	v := int(n)
	f.Value = &v
	return nil
}

type IntentionCount struct {
	Intention string `json:"intencion"`
	Count     int64  `json:"cantidad"`
}

type CustomerStats struct {
	Total       int64            `json:"total"`
	ByIntention []IntentionCount `json:"por_intencion"`
}
