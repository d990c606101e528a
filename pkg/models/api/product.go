package api

import "time"

type Product struct {
	ID              string             `json:"id"`
	Code            string             `json:"codigo"`
	Name            string             `json:"nombre"`
	BasePrice       float64            `json:"precio_lista"`
	ReferencePrices map[string]float64 `json:"precios_por_dia"`
	Active          bool               `json:"activo"`
	CreatedAt       time.Time          `json:"fecha_creacion"`
	UpdatedAt       time.Time          `json:"fecha_actualizacion"`
}

type ProductRequest struct {
	Code      *string  `json:"codigo" validate:"omitempty,max=64"`
	Name      *string  `json:"nombre" validate:"omitempty,min=1,max=300"`
	BasePrice *float64 `json:"precio_lista"`
}

type ProductRef struct {
	ID   string `json:"id"`
	Code string `json:"codigo"`
	Name string `json:"nombre"`
}

type ImportStats struct {
	Created   int `json:"creados"`
	Updated   int `json:"actualizados"`
	Unchanged int `json:"sin_cambios"`
	Errors    int `json:"errores"`
}

type ImportResponse struct {
	Message        string       `json:"message"`
	Stats          *ImportStats `json:"stats,omitempty"`
	TotalProcessed int          `json:"total_procesados"`
}
