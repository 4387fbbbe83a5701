package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/planner/api/handler"
	"github.com/fastygo/planner/internal/config"
	"github.com/fastygo/planner/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/planner/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/planner/internal/infrastructure/redis"
	"github.com/fastygo/planner/internal/middleware"
	"github.com/fastygo/planner/internal/router"
	"github.com/fastygo/planner/internal/services/lifecycle"
	"github.com/fastygo/planner/pkg/httpcontext"
	"github.com/fastygo/planner/pkg/logger"
	"github.com/fastygo/planner/repository"
	"github.com/fastygo/planner/repository/boltdb"
	"github.com/fastygo/planner/repository/postgres"
	redisRepo "github.com/fastygo/planner/repository/redis"
	"github.com/fastygo/planner/usecase/membership"
	projectUC "github.com/fastygo/planner/usecase/project"
	taskUC "github.com/fastygo/planner/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		File:       cfg.Logger.File,
		MaxSizeMB:  cfg.Logger.MaxSizeMB,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAgeDays: cfg.Logger.MaxAgeDays,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	store, probes := openStore(appCtx, cfg, manager, zapLogger)

	if cfg.Redis.UserCacheTTL > 0 {
		redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis)
		if err != nil {
			zapLogger.Warn("redis unavailable, user cache disabled", zap.Error(err))
		} else {
			manager.Register("redis", lifecycle.Closer(redisClient.Close))
			store.Users = redisRepo.NewUserCache(redisClient, store.Users, cfg.Redis.UserCacheTTL, zapLogger)
			probes = append(probes, monitor.Probe{
				Name:  "redis",
				Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
			})
		}
	}

	mon := monitor.New(cfg.Storage.Driver, cfg.Monitor.Interval, zapLogger, probes...)
	mon.Start()
	manager.Register("monitor", mon.Stop)

	membershipUseCase := membership.New(store, zapLogger)
	projectUseCase := projectUC.New(store, zapLogger)
	taskUseCase := taskUC.New(store, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Project: apiHandler.NewProjectHandler(projectUseCase, ctxAdapter, zapLogger),
		Task:    apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Team:    apiHandler.NewTeamHandler(membershipUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	var metrics *middleware.Metrics
	if cfg.HTTP.EnableMetrics {
		metrics = middleware.NewMetrics(cfg.AppName)
		handlers.Metrics = metrics.Handler()
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	r := router.New(handlers, authMiddleware)

	handler := r.Handler
	if metrics != nil {
		handler = metrics.Wrap(handler)
	}

	server := &fasthttp.Server{
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.Storage.Driver),
		)
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

// openStore connects the configured storage driver and returns its
// repositories with the health probes that cover it.
func openStore(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, zapLogger *zap.Logger) (repository.Store, []monitor.Probe) {
	switch cfg.Storage.Driver {
	case config.StorageBolt:
		boltStore, err := boltdb.Open(cfg.Storage.BoltPath)
		if err != nil {
			zapLogger.Fatal("failed to open bolt store", zap.Error(err))
		}
		manager.Register("bolt", lifecycle.Closer(boltStore.Close))

		if cfg.Storage.SeedFile != "" {
			seed, err := boltdb.LoadSeedFile(cfg.Storage.SeedFile)
			if err != nil {
				zapLogger.Fatal("failed to read seed file", zap.Error(err))
			}
			if err := boltStore.ApplySeed(ctx, seed); err != nil {
				zapLogger.Fatal("failed to apply seed", zap.Error(err))
			}
			zapLogger.Info("seed applied",
				zap.String("file", cfg.Storage.SeedFile),
				zap.Int("users", len(seed.Users)),
				zap.Int("teams", len(seed.Teams)),
			)
		}

		return boltStore.Repositories(), []monitor.Probe{{
			Name:     "bolt",
			Required: true,
			Check:    func(context.Context) error { return boltStore.Ping() },
		}}

	default:
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}

		pool, err := pgInfra.NewPool(ctx, cfg.Database, cfg.AppName, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pgInfra.Close(pool, zapLogger)
			return nil
		})

		return postgres.NewStore(pool), []monitor.Probe{{
			Name:     "postgres",
			Required: true,
			Check:    pool.Ping,
		}}
	}
}
