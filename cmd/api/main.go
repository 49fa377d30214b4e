package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/solicitud-service/internal/api/http"
	"github.com/spec-kit/solicitud-service/internal/api/http/handlers"
	"github.com/spec-kit/solicitud-service/internal/auth"
	"github.com/spec-kit/solicitud-service/internal/clock"
	"github.com/spec-kit/solicitud-service/internal/config"
	"github.com/spec-kit/solicitud-service/internal/events"
	"github.com/spec-kit/solicitud-service/internal/jobs"
	"github.com/spec-kit/solicitud-service/internal/notify"
	"github.com/spec-kit/solicitud-service/internal/observability"
	"github.com/spec-kit/solicitud-service/internal/persistence"
	"github.com/spec-kit/solicitud-service/internal/repository"
	"github.com/spec-kit/solicitud-service/internal/repository/memstore"
	"github.com/spec-kit/solicitud-service/internal/sequence"
	"github.com/spec-kit/solicitud-service/internal/service"
	"github.com/spec-kit/solicitud-service/internal/worker"
)

type stores struct {
	tickets  repository.TicketRepository
	catalog  repository.CatalogRepository
	comments repository.TicketCommentRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	repos := newStores(pg)
	sysClock := clock.System()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	var sink interface {
		notify.Notifier
		notify.ReminderSink
	} = notify.NewLogSink(logger)
	if redis.Client != nil {
		sink = notify.NewRedisSink(redis.Client, cfg.Notification.QueueKey, cfg.Notification.ReminderQueueKey)
	}

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  repos.tickets,
		CatalogRepo: repos.catalog,
		CommentRepo: repos.comments,
		Sequence:    sequence.For(pg.PoolHandle(), redis.Client, sysClock, cfg.Sequence.Prefix, cfg.Sequence.Padding),
		Clock:       sysClock,
		Dispatcher:  dispatcher,
		Logger:      logger,
		Metrics:     metrics,
	})
	catalogService := service.NewCatalogService(repos.catalog, sysClock, logger)
	statsService := service.NewStatsService(repos.tickets, sysClock, redis.Client, cfg.Stats.CacheTTL, logger)
	statsService.RegisterHandlers(dispatcher)

	pool, err := worker.NewPool(cfg.Worker.PoolSize, logger)
	if err != nil {
		logger.Fatal("failed to create worker pool", zap.Error(err))
	}
	defer pool.Release()

	worker.StartNotificationWorker(dispatcher, pool, sink, logger)

	reminders := jobs.NewReminderScheduler(repos.tickets, sink, sysClock,
		jobs.WithPool(pool),
		jobs.WithHorizon(cfg.Reminder.Horizon),
		jobs.WithLogger(logger),
		jobs.WithSentHook(metrics.RecordReminders),
	)

	riverClient := startReminders(ctx, cfg, pg, reminders, logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.Issuer)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name, Immutable: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Tickets:        handlers.NewTicketsHandler(ticketService, service.NewAssignmentService(ticketService, repos.catalog, logger)),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Stats:          handlers.NewStatsHandler(statsService, reminders, metrics),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	if riverClient != nil {
		if err := riverClient.Stop(context.Background()); err != nil {
			logger.Warn("river stop", zap.Error(err))
		}
	}
	_ = app.Shutdown()
}

func newStores(pg *persistence.Postgres) stores {
	if pool := pg.PoolHandle(); pool != nil {
		return stores{
			tickets:  repository.NewTicketRepository(pool),
			catalog:  repository.NewCatalogRepository(pool),
			comments: repository.NewTicketCommentRepository(pool),
		}
	}
	mem := memstore.New()
	return stores{tickets: mem, catalog: mem, comments: mem}
}

// startReminders schedules the reminder scan on the job queue when Postgres backs it,
// and on an in-process ticker otherwise.
func startReminders(ctx context.Context, cfg *config.Config, pg *persistence.Postgres, reminders *jobs.ReminderScheduler, logger *zap.Logger) *river.Client[pgx.Tx] {
	if !cfg.Reminder.Enabled {
		logger.Info("reminder job disabled")
		return nil
	}
	pool := pg.PoolHandle()
	if pool == nil {
		go worker.RunEvery(ctx, cfg.Reminder.Interval, logger, "ticket_reminders", func(ctx context.Context) error {
			_, err := reminders.Run(ctx)
			return err
		})
		return nil
	}

	workers := river.NewWorkers()
	periodic := jobs.RegisterReminderJob(workers, reminders, cfg.Reminder.Interval)
	client, err := persistence.NewRiverClient(pool, workers, periodic, cfg.River, logger)
	if err != nil {
		logger.Fatal("failed to create river client", zap.Error(err))
	}
	if err := client.Start(ctx); err != nil {
		logger.Fatal("failed to start river client", zap.Error(err))
	}
	return client
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
