// Package response holds the JSON plumbing shared by the HTTP handlers.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/famago/crm-ventas/pkg/adapters"
	"github.com/famago/crm-ventas/pkg/models/api"
	"github.com/famago/crm-ventas/pkg/pricing"
	"github.com/famago/crm-ventas/pkg/services/catalog"
	"github.com/famago/crm-ventas/pkg/services/customers"
	"github.com/famago/crm-ventas/pkg/store/duckdb"
)

// ErrBadRequest marks malformed input detected by the HTTP layer.
var ErrBadRequest = errors.New("bad request")

var validate = validator.New(validator.WithRequiredStructEnabled())

const uploadField = "file"

func JSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}

// Error writes err with the status its kind maps to. Unexpected errors are
// logged and reported without detail.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	body := api.ErrorResponse{Error: err.Error()}

	switch {
	case status == http.StatusInternalServerError:
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("request failed")
		body.Error = "internal error"
	case errors.Is(err, pricing.ErrInvalidPlan):
		body.Plans = adapters.PlanIDs()
	}
	JSON(w, r, status, body)
}

func Status(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, duckdb.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, pricing.ErrInvalidInput),
		errors.Is(err, pricing.ErrInvalidPlan),
		errors.Is(err, catalog.ErrInvalidProduct),
		errors.Is(err, customers.ErrInvalidCustomer),
		errors.Is(err, customers.ErrInvalidWorkbook),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads a JSON body into v and validates its struct tags.
func Decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", ErrBadRequest, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

// Upload returns the multipart "file" part. The whole request is capped at
// maxBytes and the file name must end in one of the given extensions.
func Upload(
	w http.ResponseWriter,
	r *http.Request,
	maxBytes int64,
	extensions ...string,
) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, nil, fmt.Errorf("%w: read upload: %v", ErrBadRequest, err)
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: no file provided", ErrBadRequest)
	}
	if header.Filename == "" {
		file.Close()
		return nil, nil, fmt.Errorf("%w: no file selected", ErrBadRequest)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	for _, allowed := range extensions {
		if ext == allowed {
			return file, header, nil
		}
	}
	file.Close()
	return nil, nil, fmt.Errorf("%w: file must be %s", ErrBadRequest, strings.Join(extensions, " or "))
}
