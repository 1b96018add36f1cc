package app

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/hightower888/kennymint-intelligence-sub005/internal/config"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/events"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/httpserver"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/metrics"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/migrations"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/repository"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/service"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/storage/postgres"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/team"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	httpServer *httpserver.Server
	db         *pgxpool.Pool
	svc        *service.Service
	sampler    *metrics.Sampler
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	db, err := postgres.New(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}

	if err := migrations.Run(ctx, cfg.DatabaseURL, logger); err != nil {
		db.Close()
		return nil, err
	}

	model := team.NewModel()
	bus := events.NewBus()
	store := repository.NewPostgres(db)
	svc := service.New(model, store, bus, logger)
	sampler := metrics.NewSampler(metrics.NewTeamSource(model), bus, logger, cfg.MetricsInterval, cfg.MetricsRetention)
	server := httpserver.New(cfg.HTTPPort, logger, svc, sampler)

	bus.SubscribeAll(func(evt events.Event) {
		logger.Debug("event published", zap.String("type", string(evt.Type)))
	})

	return &App{
		cfg:        cfg,
		logger:     logger,
		httpServer: server,
		db:         db,
		svc:        svc,
		sampler:    sampler,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	defer a.db.Close()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	samplerCtx, stopSampler := context.WithCancel(ctx)
	defer stopSampler()
	go a.sampler.Run(samplerCtx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.httpServer.Start()
	}()

	select {
	case <-ctx.Done():
		stopSampler()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()

		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			return err
		}

		return <-errCh
	case err := <-errCh:
		return err
	}
}
