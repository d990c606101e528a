package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/famago/crm-ventas/pkg/models/domain"
)

const sampleProducts = 5

type DiagnoseCmd struct {
	env *Env
}

func NewDiagnoseCmd(env *Env) *cobra.Command {
	dc := &DiagnoseCmd{env: env}
	return &cobra.Command{
		Use:   "diagnose",
		Short: "Show database contents and a sample of products",
		Args:  cobra.NoArgs,
		RunE:  dc.run,
	}
}

func (dc *DiagnoseCmd) run(cmd *cobra.Command, _ []string) error {
	svc, err := dc.env.services()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	counts, err := svc.Catalog.Counts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	quotes, err := svc.Catalog.CountQuotes(ctx)
	if err != nil {
		return fmt.Errorf("failed to count quotes: %w", err)
	}
	stats, err := svc.Customers.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute customer stats: %w", err)
	}
	products, err := svc.Catalog.List(ctx, domain.ProductFilter{IncludeInactive: true})
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}
	if len(products) > sampleProducts {
		products = products[:sampleProducts]
	}

	return dc.env.Reporter.Handle(DiagnoseReport(svc.DBPath, counts, quotes, stats, products, dc.env.now()))
}
