package products

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/famago/crm-ventas/pkg/adapters"
	"github.com/famago/crm-ventas/pkg/handlers/response"
	"github.com/famago/crm-ventas/pkg/importers/pdf"
	"github.com/famago/crm-ventas/pkg/importers/spreadsheet"
	"github.com/famago/crm-ventas/pkg/models/api"
	"github.com/famago/crm-ventas/pkg/models/domain"
	"github.com/famago/crm-ventas/pkg/pricing"
	"github.com/famago/crm-ventas/pkg/services/catalog"
)

type Handler struct {
	catalog        catalog.Service
	maxUploadBytes int64
}

func NewHandler(catalog catalog.Service, maxUploadBytes int64) *Handler {
	return &Handler{
		catalog:        catalog,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/productos", h.List)
	r.Post("/productos", h.Create)
	r.Get("/productos/{id}", h.Get)
	r.Put("/productos/{id}", h.Update)
	r.Delete("/productos/{id}", h.Delete)
	r.Post("/import-productos-excel", h.ImportExcel)
	r.Post("/import-productos-pdf", h.ImportPDF)

	r.Get("/planes", h.Plans)
	r.Post("/calcular", h.Quote)
	r.Post("/calcular/precio", h.QuotePrice)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	includeInactive, _ := strconv.ParseBool(q.Get("incluir_inactivos"))

	list, err := h.catalog.List(r.Context(), domain.ProductFilter{
		Search:          q.Get("search"),
		IncludeInactive: includeInactive,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	res := make([]api.Product, 0, len(list))
	for _, p := range list {
		res = append(res, adapters.MapProductDomainToApi(p))
	}
	response.JSON(w, r, http.StatusOK, res)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.ProductRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	if req.Name == nil || req.BasePrice == nil {
		response.Error(w, r, fmt.Errorf("%w: nombre and precio_lista are required", response.ErrBadRequest))
		return
	}
	price, err := pricing.ParseBasePrice(*req.BasePrice)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	in := domain.ProductInput{Name: *req.Name, BasePrice: price}
	if req.Code != nil {
		in.Code = *req.Code
	}
	p, err := h.catalog.Create(r.Context(), in)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, adapters.MapProductDomainToApi(p))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	p, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, adapters.MapProductDomainToApi(p))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var req api.ProductRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	patch := domain.ProductPatch{Code: req.Code, Name: req.Name}
	if req.BasePrice != nil {
		price, err := pricing.ParseBasePrice(*req.BasePrice)
		if err != nil {
			response.Error(w, r, err)
			return
		}
		patch.BasePrice = &price
	}

	p, err := h.catalog.Update(r.Context(), id, patch)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, adapters.MapProductDomainToApi(p))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if err := h.catalog.Delete(r.Context(), id); err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{"message": "Producto desactivado"})
}

func (h *Handler) ImportExcel(w http.ResponseWriter, r *http.Request) {
	file, header, err := response.Upload(w, r, h.maxUploadBytes, ".xlsx")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	defer file.Close()

	logger := zerolog.Ctx(r.Context()).With().Str("file", header.Filename).Logger()
	items, err := spreadsheet.ReadPriceList(file, logger)
	if err != nil {
		response.Error(w, r, fmt.Errorf("%w: %v", response.ErrBadRequest, err))
		return
	}
	h.importItems(w, r, items)
}

func (h *Handler) ImportPDF(w http.ResponseWriter, r *http.Request) {
	file, header, err := response.Upload(w, r, h.maxUploadBytes, ".pdf")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	defer file.Close()

	logger := zerolog.Ctx(r.Context()).With().Str("file", header.Filename).Logger()
	items, err := pdf.ReadPriceList(file, header.Size, logger)
	if err != nil {
		response.Error(w, r, fmt.Errorf("%w: %v", response.ErrBadRequest, err))
		return
	}
	h.importItems(w, r, items)
}

func (h *Handler) importItems(w http.ResponseWriter, r *http.Request, items []domain.PriceListItem) {
	if len(items) == 0 {
		response.Error(w, r, fmt.Errorf("%w: no products found in file", response.ErrBadRequest))
		return
	}

	updateExisting := true
	if v := r.FormValue("actualizar"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.Error(w, r, fmt.Errorf("%w: actualizar must be true or false", response.ErrBadRequest))
			return
		}
		updateExisting = b
	}

	stats, err := h.catalog.Import(r.Context(), items, updateExisting)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	apiStats := adapters.MapImportStatsDomainToApi(stats)
	response.JSON(w, r, http.StatusOK, api.ImportResponse{
		Message:        "Importación completada",
		Stats:          &apiStats,
		TotalProcessed: len(items),
	})
}

func (h *Handler) Plans(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, adapters.MapPlansToApi(pricing.Plans()))
}

func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req api.QuoteRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	plan, err := pricing.ParsePlan(req.Plan)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	id, err := uuid.Parse(req.ProductID)
	if err != nil {
		response.Error(w, r, fmt.Errorf("%w: invalid producto_id", response.ErrBadRequest))
		return
	}

	q, err := h.catalog.Quote(r.Context(), id, plan)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, adapters.MapQuoteDomainToApi(q))
}

// QuotePrice prices a bare amount without touching the catalog.
func (h *Handler) QuotePrice(w http.ResponseWriter, r *http.Request) {
	var req api.PriceQuoteRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	plan, err := pricing.ParsePlan(req.Plan)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	price, err := pricing.ParseBasePrice(*req.BasePrice)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	result, err := pricing.ComputeFinalPrice(price, plan)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, api.Quote{Breakdown: adapters.MapResultToApi(result)})
}

func productID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid id %q", response.ErrBadRequest, raw)
	}
	return id, nil
}
