package api

// QuoteRequest prices a stored product.
type QuoteRequest struct {
	ProductID string `json:"producto_id" validate:"required,uuid"`
	Plan      string `json:"plan" validate:"required"`
}

// PriceQuoteRequest prices a bare amount.
type PriceQuoteRequest struct {
	BasePrice *float64 `json:"precio_base" validate:"required"`
	Plan      string   `json:"plan" validate:"required"`
}

// Breakdown mirrors pricing.Result. Financed-only fields are omitted for cash.
type Breakdown struct {
	Kind                     string   `json:"tipo"`
	Plan                     string   `json:"plan"`
	PlanName                 string   `json:"plan_nombre"`
	BasePrice                float64  `json:"precio_base"`
	DiscountPercent          float64  `json:"descuento_porcentaje"`
	FinalPrice               *float64 `json:"precio_final,omitempty"`
	SurchargePercent         *float64 `json:"recargo_porcentaje,omitempty"`
	PriceWithSurcharge       *float64 `json:"precio_con_recargo,omitempty"`
	DailyPriceBeforeDiscount *float64 `json:"precio_por_dia_sin_descuento,omitempty"`
	DailyPriceFinal          *float64 `json:"precio_por_dia_final,omitempty"`
	Term                     *int     `json:"dias,omitempty"`
	Total                    float64  `json:"total"`
}

type Quote struct {
	ID string `json:"id,omitempty"`
	Breakdown
	Product *ProductRef `json:"producto,omitempty"`
}

type PlanInfo struct {
	ID               string  `json:"id"`
	Name             string  `json:"nombre"`
	Term             int     `json:"dias"`
	DiscountPercent  float64 `json:"descuento_porcentaje"`
	SurchargePercent float64 `json:"recargo_porcentaje"`
}

type ErrorResponse struct {
	Error string   `json:"error"`
	Plans []string `json:"planes_validos,omitempty"`
}
