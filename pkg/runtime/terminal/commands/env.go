package commands

import (
	"errors"
	"time"

	"github.com/famago/crm-ventas/pkg/models/domain"
	"github.com/famago/crm-ventas/pkg/services/catalog"
	"github.com/famago/crm-ventas/pkg/services/customers"
)

type Reporter interface {
	Handle(report *domain.Report) error
}

type Services struct {
	Catalog   catalog.Service
	Customers customers.Service
	DBPath    string
}

// Env is filled by the root command before any subcommand runs.
type Env struct {
	Services *Services
	Reporter Reporter
	Now      func() time.Time
}

func (e *Env) services() (*Services, error) {
	if e.Services == nil {
		return nil, errors.New("services are not initialized")
	}
	return e.Services, nil
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}
