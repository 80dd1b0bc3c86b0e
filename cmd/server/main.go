package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/yukikurage/dropoff-point-api/internal/config"
	"github.com/yukikurage/dropoff-point-api/internal/database"
	"github.com/yukikurage/dropoff-point-api/internal/logging"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "dropoff",
		Short:        "Drop-off point directory API",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serveCommand(), migrateCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads the configuration, connects to the database and brings
// the schema up to date.
func bootstrap(ctx context.Context) (*config.Config, *log.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	logger := logging.New(cfg)

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := database.Migrate(db, logger); err != nil {
		return nil, nil, nil, err
	}

	if err := database.SeedSuperuser(ctx, db, logger, cfg.FirstSuperuserEmail, cfg.FirstSuperuserName); err != nil {
		return nil, nil, nil, fmt.Errorf("seed superuser: %w", err)
	}

	return cfg, logger, db, nil
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, db, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}

			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}
