package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"mediaportal/backend/internal/bulkedit"
	"mediaportal/backend/internal/config"
	"mediaportal/backend/internal/logging"
	"mediaportal/backend/internal/repository"
	"mediaportal/backend/internal/services"
)

// commandContext carries the lazily-built service handle shared by all
// subcommands.
type commandContext struct {
	tenantFlag string

	logger *logging.Logger
	pool   *pgxpool.Pool
	bulk   *services.BulkService
	tenant string
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{logger: logging.NewLogger()}

	rootCmd := &cobra.Command{
		Use:           "bulkctl",
		Short:         "Headless bulk metadata mutation for the media portal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if ctx.pool != nil {
				ctx.pool.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.tenantFlag, "tenant", "localhost", "Tenant domain to operate in")

	rootCmd.AddCommand(newFieldsCommand(ctx))
	rootCmd.AddCommand(newPreviewCommand(ctx))
	rootCmd.AddCommand(newExecuteCommand(ctx))

	return rootCmd
}

// ensureService connects to the database and wires the bulk edit engine the
// same way the server does.
func (c *commandContext) ensureService(ctx context.Context) error {
	if c.bulk != nil {
		return nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	tenantStore := repository.NewPostgresTenantStore(pool)
	tenant, err := tenantStore.GetTenantByDomain(ctx, c.tenantFlag)
	if err != nil {
		pool.Close()
		return fmt.Errorf("resolve tenant %q: %w", c.tenantFlag, err)
	}

	codec := bulkedit.NewTokenCodec(cfg.Bulk.TokenSigningKey, cfg.TokenTTL())
	engine := bulkedit.NewEngine(
		repository.NewPostgresSchemaStore(pool),
		repository.NewPostgresCollectionStore(pool),
		repository.NewPostgresMetadataStore(pool),
		codec,
		c.logger,
	)

	c.pool = pool
	c.bulk = services.NewBulkService(engine)
	c.tenant = tenant.ID
	return nil
}
