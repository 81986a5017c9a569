package main

import (
	"github.com/spf13/cobra"

	"github.com/YelzhanWeb/cafebot/internal/adapter/postgres"
	"github.com/YelzhanWeb/cafebot/internal/adapter/sqlite"
	"github.com/YelzhanWeb/cafebot/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the orders, sessions and error_logs tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, lgr, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		switch cfg.Database.Driver {
		case config.DriverPostgres:
			db, err := postgres.Connect(ctx, cfg.Database.DSN())
			if err != nil {
				return err
			}
			defer db.Close()
			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}

		case config.DriverSQLite:
			// Open applies the schema
			store, err := sqlite.Open(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer store.Close()
		}

		lgr.Info("schema_applied", "Database schema is up to date", "migrate", map[string]interface{}{
			"driver": cfg.Database.Driver,
		})
		return nil
	},
}
