package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/famago/crm-ventas/pkg/server"
	"github.com/famago/crm-ventas/pkg/services/catalog"
	"github.com/famago/crm-ventas/pkg/services/config"
	"github.com/famago/crm-ventas/pkg/services/customers"
	"github.com/famago/crm-ventas/pkg/store/duckdb"
	"github.com/famago/crm-ventas/pkg/store/duckdb/customer"
	"github.com/famago/crm-ventas/pkg/store/duckdb/product"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the CRM web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a config file; CRM_* environment variables override it")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := config.LoadDotEnv(); err != nil {
		logger.Warn().Err(err).Msg("failed to load .env file")
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: cfg.Database.Path,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	defer db.Close()

	productStore, err := product.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create product store: %w", err)
	}
	customerStore, err := customer.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create customer store: %w", err)
	}

	logger.Info().
		Str("database", cfg.Database.Path).
		Str("prefix", server.NormalizePrefix(cfg.Server.Prefix)).
		Msg("configuration loaded")

	api := server.NewWebAPI(server.Config{
		Addr:            cfg.Server.Addr(),
		Prefix:          cfg.Server.Prefix,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MaxUploadBytes:  cfg.Server.MaxUploadBytes,
		Dependencies: server.Dependencies{
			Customers: customers.NewService(customerStore),
			Catalog:   catalog.NewService(db, productStore),
			Logger:    logger,
		},
	})

	return api.Start()
}
