package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/socovidiu/loc-solutions-backend/internal/config"
	"github.com/socovidiu/loc-solutions-backend/internal/store"
	"github.com/socovidiu/loc-solutions-backend/pkg/log"
	"github.com/socovidiu/loc-solutions-backend/pkg/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the db",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}

		logger := log.InitLog(zap.NewAtomicLevelAt(zap.InfoLevel))
		defer func() { _ = logger.Sync() }()
		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Named("migration").Info("Migrating the database")
		defer zap.S().Named("migration").Info("Db migrated")

		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Named("migration").Fatalf("initializing data store: %v", err)
		}

		return migrations.MigrateStore(db, cfg.Service.MigrationFolder)
	},
}
