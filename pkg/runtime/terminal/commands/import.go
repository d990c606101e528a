package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/famago/crm-ventas/pkg/importers/pdf"
	"github.com/famago/crm-ventas/pkg/importers/spreadsheet"
	"github.com/famago/crm-ventas/pkg/models/domain"
)

type ImportProductsCmd struct {
	env      *Env
	noUpdate bool
}

func NewImportProductsCmd(env *Env) *cobra.Command {
	ic := &ImportProductsCmd{env: env}
	cmd := &cobra.Command{
		Use:   "import-products <file.xlsx|file.pdf>",
		Short: "Import or update products from a price list",
		Args:  cobra.ExactArgs(1),
		RunE:  ic.run,
	}

	cmd.Flags().BoolVar(&ic.noUpdate, "no-update", false, "Only create new products, keep existing prices")

	return cmd
}

func (ic *ImportProductsCmd) run(cmd *cobra.Command, args []string) error {
	svc, err := ic.env.services()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	path := args[0]

	items, err := readPriceList(path, *zerolog.Ctx(ctx))
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no products found in %s", path)
	}

	stats, err := svc.Catalog.Import(ctx, items, !ic.noUpdate)
	if err != nil {
		return fmt.Errorf("failed to import products: %w", err)
	}

	return ic.env.Reporter.Handle(ImportReport(path, len(items), stats, ic.env.now()))
}

func readPriceList(path string, logger zerolog.Logger) ([]domain.PriceListItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open price list: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat price list: %w", err)
		}
		return pdf.ReadPriceList(f, info.Size(), logger)
	case ".xlsx":
		return spreadsheet.ReadPriceList(f, logger)
	default:
		return nil, fmt.Errorf("unsupported price list format %q (expected .xlsx or .pdf)", ext)
	}
}

func ImportReport(source string, found int, stats domain.ImportStats, at time.Time) *domain.Report {
	return &domain.Report{
		Title:       "Product import",
		GeneratedAt: at,
		Sections: []domain.ReportSection{{
			Title: "Summary",
			Summary: map[string]interface{}{
				"Source":         source,
				"Products found": found,
			},
			Details: []domain.ReportDetail{
				{Name: "Created", Value: stats.Created},
				{Name: "Updated", Value: stats.Updated},
				{Name: "Unchanged", Value: stats.Unchanged},
				{Name: "Errors", Value: stats.Errors},
				{Name: "Processed", Value: stats.Processed()},
			},
		}},
	}
}
