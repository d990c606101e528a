package customers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/famago/crm-ventas/pkg/adapters"
	"github.com/famago/crm-ventas/pkg/handlers/response"
	"github.com/famago/crm-ventas/pkg/importers/spreadsheet"
	"github.com/famago/crm-ventas/pkg/models/api"
	"github.com/famago/crm-ventas/pkg/models/domain"
	"github.com/famago/crm-ventas/pkg/services/customers"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	customers      customers.Service
	maxUploadBytes int64
	now            func() time.Time
}

func NewHandler(customers customers.Service, maxUploadBytes int64) *Handler {
	return &Handler{
		customers:      customers,
		maxUploadBytes: maxUploadBytes,
		now:            time.Now,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/clientes", h.List)
	r.Post("/clientes", h.Create)
	r.Get("/clientes/{id}", h.Get)
	r.Put("/clientes/{id}", h.Update)
	r.Delete("/clientes/{id}", h.Delete)
	r.Get("/stats", h.Stats)
	r.Get("/localidades", h.Localities)
	r.Post("/import-excel", h.Import)
	r.Get("/export-excel", h.Export)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.customers.List(r.Context(), domain.CustomerFilter{
		Locality:  q.Get("localidad"),
		Intention: q.Get("intencion"),
		Search:    q.Get("search"),
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	res := make([]api.Customer, 0, len(list))
	for _, c := range list {
		res = append(res, adapters.MapCustomerDomainToApi(c))
	}
	response.JSON(w, r, http.StatusOK, res)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	patch, err := decodePatch(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	c, err := h.customers.Create(r.Context(), patch)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, adapters.MapCustomerDomainToApi(c))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := customerID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	c, err := h.customers.Get(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, adapters.MapCustomerDomainToApi(c))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := customerID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	patch, err := decodePatch(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	c, err := h.customers.Update(r.Context(), id, patch)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, adapters.MapCustomerDomainToApi(c))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := customerID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if err := h.customers.Delete(r.Context(), id); err != nil {
		response.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.customers.Stats(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, adapters.MapCustomerStatsToApi(stats))
}

func (h *Handler) Localities(w http.ResponseWriter, r *http.Request) {
	localities, err := h.customers.Localities(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, localities)
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	file, header, err := response.Upload(w, r, h.maxUploadBytes, ".xlsx")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	defer file.Close()

	n, err := h.customers.Import(r.Context(), file)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().
			Err(err).
			Str("file", header.Filename).
			Msg("customer import failed")
		response.Error(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, api.ImportResponse{
		Message:        fmt.Sprintf("Se importaron %d clientes", n),
		TotalProcessed: n,
	})
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.customers.Export(r.Context(), &buf); err != nil {
		response.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, spreadsheet.ExportFilename(h.now())))
	if _, err := buf.WriteTo(w); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to write customer export")
	}
}

func customerID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid id %q", response.ErrBadRequest, raw)
	}
	return id, nil
}

func decodePatch(r *http.Request) (domain.CustomerPatch, error) {
	var req api.CustomerRequest
	if err := response.Decode(r, &req); err != nil {
		return domain.CustomerPatch{}, err
	}
	patch, err := adapters.MapCustomerRequestToPatch(req)
	if err != nil {
		return domain.CustomerPatch{}, fmt.Errorf("%w: %v", response.ErrBadRequest, err)
	}
	return patch, nil
}
