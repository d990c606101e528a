package commands

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/famago/crm-ventas/pkg/pricing"
)

type QuoteCmd struct {
	env     *Env
	price   float64
	product string
	plan    string
}

func NewQuoteCmd(env *Env) *cobra.Command {
	qc := &QuoteCmd{env: env}
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a product or a list price under the financing plans",
		Args:  cobra.NoArgs,
		RunE:  qc.run,
	}

	cmd.Flags().Float64Var(&qc.price, "price", 0, "List price to quote")
	cmd.Flags().StringVar(&qc.product, "product", "", "ID of a stored product to quote")
	cmd.Flags().StringVar(&qc.plan, "plan", "", "Plan id (e.g. 42_dias); all plans when empty")
	cmd.MarkFlagsMutuallyExclusive("price", "product")
	cmd.MarkFlagsOneRequired("price", "product")

	return cmd
}

func (qc *QuoteCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var plan pricing.Plan
	if qc.plan != "" {
		p, err := pricing.ParsePlan(qc.plan)
		if err != nil {
			return err
		}
		plan = p
	}

	if qc.product == "" {
		base, err := pricing.ParseBasePrice(qc.price)
		if err != nil {
			return err
		}
		results, err := quoteResults(base, plan)
		if err != nil {
			return err
		}
		return qc.env.Reporter.Handle(QuoteReport(fmt.Sprintf("Quote for %s", base.StringFixed(2)), results, qc.env.now()))
	}

	svc, err := qc.env.services()
	if err != nil {
		return err
	}
	id, err := uuid.Parse(qc.product)
	if err != nil {
		return errors.New("product must be a valid id")
	}

	// a single plan is recorded as a quote, all plans are only displayed
	if plan != "" {
		quote, err := svc.Catalog.Quote(ctx, id, plan)
		if err != nil {
			return fmt.Errorf("failed to quote product: %w", err)
		}
		return qc.env.Reporter.Handle(QuoteReport(quote.Product.Name, []pricing.Result{quote.Result}, qc.env.now()))
	}

	p, err := svc.Catalog.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}
	results, err := pricing.QuoteAll(p.BasePrice)
	if err != nil {
		return err
	}
	return qc.env.Reporter.Handle(QuoteReport(p.Name, results, qc.env.now()))
}
