package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apiserver "github.com/socovidiu/loc-solutions-backend/internal/api_server"
	"github.com/socovidiu/loc-solutions-backend/internal/config"
	"github.com/socovidiu/loc-solutions-backend/internal/store"
	"github.com/socovidiu/loc-solutions-backend/pkg/log"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the locportal api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}

		logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
		if err != nil {
			logLvl = zap.NewAtomicLevelAt(zap.InfoLevel)
		}

		logger := log.InitLog(logLvl)
		defer func() { _ = logger.Sync() }()
		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Named("locportal_api").Info("Starting API service")
		defer zap.S().Named("locportal_api").Info("API service stopped")

		zap.S().Named("locportal_api").Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Named("locportal_api").Fatalf("initializing data store: %v", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		listener, err := newListener(cfg.Service.Address)
		if err != nil {
			zap.S().Named("locportal_api").Fatalf("creating listener: %s", err)
		}

		server := apiserver.New(cfg, s, listener)
		if err := server.Run(ctx); err != nil {
			zap.S().Named("locportal_api").Fatalf("Error running server: %s", err)
		}

		return nil
	},
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
