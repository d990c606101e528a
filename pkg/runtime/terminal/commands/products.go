package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/famago/crm-ventas/pkg/models/domain"
)

func NewProductsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Product catalog maintenance",
	}
	cmd.AddCommand(newVerifyCmd(env))
	return cmd
}

type VerifyCmd struct {
	env *Env
}

func newVerifyCmd(env *Env) *cobra.Command {
	vc := &VerifyCmd{env: env}
	return &cobra.Command{
		Use:   "verify",
		Short: "List every product and check its cached reference prices",
		Args:  cobra.NoArgs,
		RunE:  vc.run,
	}
}

func (vc *VerifyCmd) run(cmd *cobra.Command, _ []string) error {
	svc, err := vc.env.services()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	counts, err := svc.Catalog.Counts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	products, err := svc.Catalog.List(ctx, domain.ProductFilter{IncludeInactive: true})
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	return vc.env.Reporter.Handle(VerifyReport(counts, products, vc.env.now()))
}
