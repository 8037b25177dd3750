package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pisfinance/pis-vault/consumer"
	"github.com/pisfinance/pis-vault/internal/api"
	"github.com/pisfinance/pis-vault/internal/config"
	"github.com/pisfinance/pis-vault/internal/db"
	dbmodel "github.com/pisfinance/pis-vault/internal/db/model"
	"github.com/pisfinance/pis-vault/internal/observability/metrics"
	"github.com/pisfinance/pis-vault/internal/observability/tracing"
	"github.com/pisfinance/pis-vault/internal/queue"
	"github.com/pisfinance/pis-vault/internal/services"
)

const shutdownTimeout = 10 * time.Second

func StartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Starts the PIS vault server",
		Args:  cobra.ExactArgs(0),
		RunE:  startServer,
	}

	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	// load config
	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		return fmt.Errorf("error while loading config file %s: %w", cfgPath, err)
	}

	if cfg.Db.Type == config.DbTypeMongo {
		if err := dbmodel.Setup(ctx, &cfg.Db); err != nil {
			return fmt.Errorf("error while setting up vault db model: %w", err)
		}
	}

	// create new db client
	var dbClient db.DbInterface
	dbClient, err = db.NewFromConfig(ctx, cfg.Db)
	if err != nil {
		return fmt.Errorf("error while creating db client: %w", err)
	}
	dbClient = db.NewDbWithMetrics(dbClient)

	// Create a basic zap logger
	zapLogger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("error while creating zap logger: %w", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	var publisher consumer.EventConsumer
	if cfg.Queue != nil {
		qm, err := queue.NewQueueManager(cfg.Queue, zapLogger)
		if err != nil {
			return fmt.Errorf("failed to initialize queue manager: %w", err)
		}
		defer qm.Shutdown()
		publisher = qm
	} else {
		log.Warn().Msg("no queue configured, vault events are only logged")
	}

	tokens, err := services.BuildLedgers(ctx, &cfg.Ledger)
	if err != nil {
		return fmt.Errorf("error while creating ledgers: %w", err)
	}

	service, err := services.NewService(ctx, cfg, dbClient, tokens, publisher)
	if err != nil {
		return fmt.Errorf("error while creating service: %w", err)
	}

	metrics.Init(&cfg.Metrics)

	if err := service.Start(ctx); err != nil {
		return fmt.Errorf("error while starting service: %w", err)
	}

	server := api.New(&cfg.Server, service)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
