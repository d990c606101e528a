package terminal

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/famago/crm-ventas/pkg/runtime/terminal/commands"
	"github.com/famago/crm-ventas/pkg/runtime/terminal/export"
	"github.com/famago/crm-ventas/pkg/services/catalog"
	"github.com/famago/crm-ventas/pkg/services/config"
	"github.com/famago/crm-ventas/pkg/services/customers"
	"github.com/famago/crm-ventas/pkg/store/duckdb"
	"github.com/famago/crm-ventas/pkg/store/duckdb/customer"
	"github.com/famago/crm-ventas/pkg/store/duckdb/product"
)

const (
	FormatTable = "table"
	FormatPlain = "plain"
)

// CLI represents the command-line interface
type CLI struct {
	output     io.Writer
	logger     zerolog.Logger
	env        *commands.Env
	configPath string
	format     string
	db         *sql.DB
	rootCmd    *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	Logger *zerolog.Logger

	// Services skips configuration loading when set.
	Services *commands.Services
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	cli := &CLI{
		output: opts.Output,
		logger: logger,
		env:    &commands.Env{Services: opts.Services},
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// SetArgs overrides os.Args, used by tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "crm",
		Short:             "Sales CRM maintenance tool",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if cli.db != nil {
				return cli.db.Close()
			}
			return nil
		},
	}
	cmd.SetOut(cli.output)

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to a config file (yaml, json or toml)")
	cmd.PersistentFlags().StringVar(&cli.format, "format", FormatTable, "Output format: table or plain")

	cmd.AddCommand(commands.NewImportProductsCmd(cli.env))
	cmd.AddCommand(commands.NewQuoteCmd(cli.env))
	cmd.AddCommand(commands.NewDiagnoseCmd(cli.env))
	cmd.AddCommand(commands.NewProductsCmd(cli.env))
	cmd.AddCommand(commands.NewCustomersCmd(cli.env))

	return cmd
}

func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	switch cli.format {
	case FormatTable:
		cli.env.Reporter = export.NewReporter(cli.output)
	case FormatPlain:
		cli.env.Reporter = NewReporter(cli.output)
	default:
		return fmt.Errorf("unknown format %q (expected %s or %s)", cli.format, FormatTable, FormatPlain)
	}

	cmd.SetContext(cli.logger.WithContext(cmd.Context()))

	if cli.env.Services != nil {
		return nil
	}

	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.LoadConfig(cli.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	services, db, err := NewServices(cfg.Database.Path)
	if err != nil {
		return err
	}
	cli.db = db
	cli.env.Services = services
	return nil
}

// NewServices opens the database at path and wires the services on top of it.
func NewServices(path string) (*commands.Services, *sql.DB, error) {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: path})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	productStore, err := product.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create product store: %w", err)
	}
	customerStore, err := customer.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create customer store: %w", err)
	}

	return &commands.Services{
		Catalog:   catalog.NewService(db, productStore),
		Customers: customers.NewService(customerStore),
		DBPath:    path,
	}, db, nil
}
