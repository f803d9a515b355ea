package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appmol "github.com/turtacn/molgraph/internal/application/molecule"
	"github.com/turtacn/molgraph/internal/config"
	"github.com/turtacn/molgraph/internal/infrastructure/cache/redis"
	"github.com/turtacn/molgraph/internal/infrastructure/database/postgres"
	"github.com/turtacn/molgraph/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/molgraph/internal/infrastructure/graph/neo4j"
	"github.com/turtacn/molgraph/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/prometheus"
	httpapi "github.com/turtacn/molgraph/internal/interfaces/http"
	"github.com/turtacn/molgraph/internal/interfaces/http/handlers"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the molgraph HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logCfg := cfg.Log
			if opts.logLevel != "" {
				logCfg.Level = opts.logLevel
			}
			logger, err := logging.NewLogger(logging.Config{
				Level:       logCfg.Level,
				Format:      logCfg.Format,
				OutputPaths: logCfg.OutputPaths,
			})
			if err != nil {
				return err
			}
			logging.SetDefault(logger)
			return runServer(cmd.Context(), cfg, logger)
		},
	}
}

// runServer wires the configured infrastructure into the application
// service and hosts the HTTP API until SIGINT/SIGTERM.
func runServer(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	metrics := prometheus.NewMetrics()

	svcOpts := appmol.Options{
		Logger:      logger,
		Metrics:     metrics,
		RingTimeout: cfg.Perception.RingTimeout,
		CacheTTL:    cfg.Redis.DefaultTTL,
	}

	if cfg.Redis.Enabled {
		c := redis.NewCache(cfg.Redis, logger)
		defer c.Close()
		svcOpts.Cache = c
	}
	if cfg.Database.Enabled {
		if err := postgres.Migrate(cfg.Database, logger); err != nil {
			return err
		}
		pool, err := postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer pool.Close()
		svcOpts.Repo = repositories.NewMoleculeRepo(pool, logger)
	}
	if cfg.Kafka.Enabled {
		pub := kafka.NewPublisher(cfg.Kafka, logger)
		defer pub.Close()
		svcOpts.Publisher = pub
	}
	if cfg.Neo4j.Enabled {
		exp, err := neo4j.NewExporter(ctx, cfg.Neo4j, logger)
		if err != nil {
			return err
		}
		defer exp.Close(ctx)
		svcOpts.Exporter = exp
	}

	svc := appmol.NewService(svcOpts)
	router := httpapi.NewRouter(httpapi.RouterConfig{
		Mode:     cfg.Server.Mode,
		Molecule: handlers.NewMoleculeHandler(svc, logger),
		Health:   handlers.NewHealthHandler(Version),
		Logger:   logger,
		Metrics:  metrics,
	})
	server := httpapi.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("signal received, shutting down", logging.String("signal", sig.String()))
		return server.Stop(context.Background())
	case <-ctx.Done():
		return server.Stop(context.Background())
	}
}
