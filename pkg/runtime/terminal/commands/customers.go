package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const defaultPhone = "12345"

func NewCustomersCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Customer data maintenance",
	}
	cmd.AddCommand(newBackfillPhoneCmd(env))
	return cmd
}

type BackfillPhoneCmd struct {
	env   *Env
	phone string
}

func newBackfillPhoneCmd(env *Env) *cobra.Command {
	bc := &BackfillPhoneCmd{env: env}
	cmd := &cobra.Command{
		Use:   "backfill-phone",
		Short: "Set a placeholder phone on customers that have none",
		Args:  cobra.NoArgs,
		RunE:  bc.run,
	}

	cmd.Flags().StringVar(&bc.phone, "phone", defaultPhone, "Phone value to store")

	return cmd
}

func (bc *BackfillPhoneCmd) run(cmd *cobra.Command, _ []string) error {
	svc, err := bc.env.services()
	if err != nil {
		return err
	}
	updated, err := svc.Customers.BackfillPhone(cmd.Context(), bc.phone)
	if err != nil {
		return fmt.Errorf("failed to backfill phones: %w", err)
	}
	stats, err := svc.Customers.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to compute customer stats: %w", err)
	}

	return bc.env.Reporter.Handle(BackfillReport(strings.TrimSpace(bc.phone), updated, stats.Total, bc.env.now()))
}
