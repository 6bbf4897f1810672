package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	authorization "carparts/contexts/identity-access/authorization-service"
	authzjwt "carparts/contexts/identity-access/authorization-service/adapters/jwt"
	authzmemory "carparts/contexts/identity-access/authorization-service/adapters/memory"
	authzpostgres "carparts/contexts/identity-access/authorization-service/adapters/postgres"
	authzentities "carparts/contexts/identity-access/authorization-service/domain/entities"
	profile "carparts/contexts/identity-access/profile-service"
	profilememory "carparts/contexts/identity-access/profile-service/adapters/memory"
	profilepostgres "carparts/contexts/identity-access/profile-service/adapters/postgres"
	orders "carparts/contexts/marketplace/order-service"
	ordercache "carparts/contexts/marketplace/order-service/adapters/cache"
	ordermemory "carparts/contexts/marketplace/order-service/adapters/memory"
	orderpostgres "carparts/contexts/marketplace/order-service/adapters/postgres"
	orderworkers "carparts/contexts/marketplace/order-service/application/workers"
	orderports "carparts/contexts/marketplace/order-service/ports"
	parts "carparts/contexts/marketplace/parts-service"
	partsmemory "carparts/contexts/marketplace/parts-service/adapters/memory"
	partspostgres "carparts/contexts/marketplace/parts-service/adapters/postgres"
	identityv1 "carparts/contracts/identity/v1"
	"carparts/internal/app/bridge"
	"carparts/internal/platform/cache"
	"carparts/internal/platform/config"
	"carparts/internal/platform/db"
	"carparts/internal/platform/httpserver"
	"carparts/internal/platform/messaging"
	"carparts/internal/platform/telemetry"

	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server *httpserver.Server
	// relays drain the in-process outboxes when the API runs without postgres.
	relays       []relay
	pollInterval time.Duration
	closers      []func(context.Context) error
	logger       *slog.Logger
}

type WorkerApp struct {
	relays       []relay
	pollInterval time.Duration
	closers      []func(context.Context) error
	logger       *slog.Logger
}

type relay struct {
	name   string
	worker orderworkers.OutboxRelay
}

// runtime carries the infrastructure shared by both processes.
type runtime struct {
	cfg      config.Config
	logger   *slog.Logger
	postgres *db.Postgres
	keyCache orderports.OrderKeyCache
	closers  []func(context.Context) error
}

func BuildAPI(ctx context.Context) (*APIApp, error) {
	rt, err := newRuntime(ctx, "api")
	if err != nil {
		return nil, err
	}
	publisher, err := rt.publisher()
	if err != nil {
		rt.close(ctx)
		return nil, err
	}

	validatorConfig := authzjwt.Config{
		Mode:          authzentities.TokenMode(rt.cfg.JWTMode),
		Secret:        rt.cfg.JWTSecret,
		PublicKeyPEM:  rt.cfg.JWTPublicKey,
		IssuerPrefix:  rt.cfg.JWTIssuerPrefix,
		RequireExpiry: rt.cfg.JWTRequireExp,
	}

	var modules httpserver.Modules
	var relays []relay
	if rt.postgres == nil {
		modules, relays, err = buildMemoryModules(rt, validatorConfig, publisher)
	} else {
		modules, err = buildPostgresModules(ctx, rt, validatorConfig)
	}
	if err != nil {
		rt.close(ctx)
		return nil, err
	}

	server := httpserver.New(modules, rt.logger, httpserver.Options{
		Addr:           rt.cfg.HTTPAddr,
		RateLimitRPS:   rt.cfg.RateLimitRPS,
		RateLimitBurst: rt.cfg.RateLimitBurst,
	})
	return &APIApp{
		server:       server,
		relays:       relays,
		pollInterval: rt.cfg.OutboxPollInterval,
		closers:      rt.closers,
		logger:       rt.logger,
	}, nil
}

func BuildWorker(ctx context.Context) (*WorkerApp, error) {
	rt, err := newRuntime(ctx, "worker")
	if err != nil {
		return nil, err
	}
	if rt.postgres == nil {
		rt.close(ctx)
		return nil, errors.New("DATABASE_URL is required for the outbox worker")
	}
	publisher, err := rt.publisher()
	if err != nil {
		rt.close(ctx)
		return nil, err
	}

	orderRepo := orderpostgres.NewRepository(rt.postgres.DB, rt.logger)
	partsRepo := partspostgres.NewRepository(rt.postgres.DB, rt.logger)
	return &WorkerApp{
		relays: []relay{
			{name: "orders", worker: newRelay(orderRepo, publisher, rt)},
			{name: "parts", worker: newRelay(bridge.PartsOutbox{Outbox: partsRepo}, publisher, rt)},
		},
		pollInterval: rt.cfg.OutboxPollInterval,
		closers:      rt.closers,
		logger:       rt.logger,
	}, nil
}

func newRuntime(ctx context.Context, process string) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := telemetry.NewLogger(os.Stdout, cfg.ServiceName).With("process", process)
	rt := &runtime{cfg: cfg, logger: logger}

	if cfg.OTelEnabled {
		shutdown, err := telemetry.SetupTracer(ctx, cfg.ServiceName+"-"+process, cfg.OTelEndpoint)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, shutdown)
	}

	if cfg.DatabaseURL != "" {
		pg, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			rt.close(ctx)
			return nil, err
		}
		rt.postgres = pg
		rt.closers = append(rt.closers, func(context.Context) error { return pg.Close() })
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory stores",
			"event", "bootstrap_memory_mode",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}

	if cfg.RedisAddr != "" {
		redisCache, closeRedis, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.ServiceName)
		if err != nil {
			rt.close(ctx)
			return nil, err
		}
		rt.keyCache = ordercache.NewOrderKeyCache(redisCache)
		rt.closers = append(rt.closers, func(context.Context) error { return closeRedis() })
	}
	return rt, nil
}

func (rt *runtime) publisher() (orderports.EventPublisher, error) {
	if len(rt.cfg.KafkaBrokers) == 0 {
		return messaging.LogPublisher{Logger: rt.logger}, nil
	}
	kafka, err := messaging.NewKafka(rt.cfg.KafkaBrokers, rt.logger)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, func(context.Context) error { return kafka.Close() })
	return kafka, nil
}

func (rt *runtime) close(ctx context.Context) {
	closeAll(ctx, rt.closers, rt.logger)
}

func buildMemoryModules(
	rt *runtime,
	validatorConfig authzjwt.Config,
	publisher orderports.EventPublisher,
) (httpserver.Modules, []relay, error) {
	users := authzmemory.NewStore()
	validator, err := authzjwt.NewValidator(validatorConfig, users)
	if err != nil {
		return httpserver.Modules{}, nil, err
	}
	authzModule := authorization.NewModule(authorization.Dependencies{
		Users:     users,
		Validator: validator,
		Clock:     users,
		Logger:    rt.logger,
	})
	authzModule.Store = users
	if rt.cfg.SeedAdminEmail != "" {
		admin := users.SeedUser(authzentities.User{
			Name:  "Administrator",
			Email: rt.cfg.SeedAdminEmail,
			Role:  identityv1.RoleAdmin,
		})
		rt.logger.Info("seeded admin user",
			"event", "bootstrap_admin_seeded",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"user_id", admin.UserID,
		)
	}

	catalog := partsmemory.NewStore()
	partsModule := parts.NewModule(parts.Dependencies{
		Repository:  catalog,
		Clock:       catalog,
		IDGenerator: catalog,
		Logger:      rt.logger,
	})
	partsModule.Store = catalog

	orderStore := ordermemory.NewStore(rt.logger)
	var keyCache orderports.OrderKeyCache = orderStore
	if rt.keyCache != nil {
		keyCache = rt.keyCache
	}
	ordersModule := orders.NewModule(orders.Dependencies{
		Orders:      orderStore,
		Outbox:      orderStore,
		KeyCache:    keyCache,
		Publisher:   publisher,
		Clock:       orderStore,
		IDGenerator: orderStore,
		KeyCacheTTL: rt.cfg.IdempotencyCacheTTL,
		TopicPrefix: rt.cfg.KafkaTopicPrefix,
		Logger:      rt.logger,
	})
	ordersModule.Store = orderStore

	profileStore := profilememory.NewStore()
	profileModule := profile.NewModule(profile.Dependencies{
		Repository: profileStore,
		Clock:      profileStore,
		Logger:     rt.logger,
	})
	profileModule.Store = profileStore

	bridge.Connect(bridge.Stores{
		Users:   users,
		Parts:   catalog,
		Orders:  orderStore,
		Profile: profileStore,
	})

	modules := httpserver.Modules{
		Authorization: authzModule,
		Parts:         partsModule,
		Orders:        ordersModule,
		Profile:       profileModule,
	}
	relays := []relay{
		{name: "orders", worker: ordersModule.OutboxRelay},
		{name: "parts", worker: newRelay(bridge.PartsOutbox{Outbox: catalog}, publisher, rt)},
	}
	return modules, relays, nil
}

func buildPostgresModules(ctx context.Context, rt *runtime, validatorConfig authzjwt.Config) (httpserver.Modules, error) {
	gormDB := rt.postgres.DB
	usersRepo := authzpostgres.NewRepository(gormDB, rt.logger)
	partsRepo := partspostgres.NewRepository(gormDB, rt.logger)
	orderRepo := orderpostgres.NewRepository(gormDB, rt.logger)
	profileRepo := profilepostgres.NewRepository(gormDB, rt.logger)

	if rt.cfg.AutoMigrate {
		migrations := []struct {
			name    string
			migrate func(context.Context) error
		}{
			{"users", usersRepo.AutoMigrate},
			{"parts", partsRepo.AutoMigrate},
			{"orders", orderRepo.AutoMigrate},
			{"profile", profileRepo.AutoMigrate},
		}
		for _, migration := range migrations {
			if err := migration.migrate(ctx); err != nil {
				return httpserver.Modules{}, fmt.Errorf("auto-migrate %s: %w", migration.name, err)
			}
		}
	}

	validator, err := authzjwt.NewValidator(validatorConfig, authzpostgres.SystemClock{})
	if err != nil {
		return httpserver.Modules{}, err
	}
	return httpserver.Modules{
		Authorization: authorization.NewModule(authorization.Dependencies{
			Users:     usersRepo,
			Validator: validator,
			Clock:     authzpostgres.SystemClock{},
			Logger:    rt.logger,
		}),
		Parts: parts.NewModule(parts.Dependencies{
			Repository:  partsRepo,
			Clock:       partspostgres.SystemClock{},
			IDGenerator: partspostgres.UUIDGenerator{},
			Logger:      rt.logger,
		}),
		Orders: orders.NewModule(orders.Dependencies{
			Orders:      orderRepo,
			Outbox:      orderRepo,
			KeyCache:    rt.keyCache,
			Clock:       orderpostgres.SystemClock{},
			IDGenerator: orderpostgres.UUIDGenerator{},
			KeyCacheTTL: rt.cfg.IdempotencyCacheTTL,
			TopicPrefix: rt.cfg.KafkaTopicPrefix,
			Logger:      rt.logger,
		}),
		Profile: profile.NewModule(profile.Dependencies{
			Repository: profileRepo,
			Clock:      profilepostgres.SystemClock{},
			Logger:     rt.logger,
		}),
	}, nil
}

func newRelay(outbox orderports.OutboxRepository, publisher orderports.EventPublisher, rt *runtime) orderworkers.OutboxRelay {
	return orderworkers.OutboxRelay{
		Outbox:      outbox,
		Publisher:   publisher,
		Clock:       orderpostgres.SystemClock{},
		TopicPrefix: rt.cfg.KafkaTopicPrefix,
		BatchSize:   100,
		Logger:      rt.logger,
	}
}

func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"in_process_relays", len(a.relays),
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return a.server.Run(groupCtx)
	})
	for _, item := range a.relays {
		item := item
		group.Go(func() error {
			return pollRelay(groupCtx, item, a.pollInterval, a.logger)
		})
	}
	return group.Wait()
}

func (a *APIApp) Close(ctx context.Context) {
	closeAll(ctx, a.closers, a.logger)
}

func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	group, groupCtx := errgroup.WithContext(ctx)
	for _, item := range w.relays {
		item := item
		group.Go(func() error {
			return pollRelay(groupCtx, item, w.pollInterval, w.logger)
		})
	}
	return group.Wait()
}

func (w *WorkerApp) Close(ctx context.Context) {
	closeAll(ctx, w.closers, w.logger)
}

// pollRelay drains one outbox every interval. A failed cycle is logged and
// retried on the next tick so a broker outage does not stop the process.
func pollRelay(ctx context.Context, item relay, interval time.Duration, logger *slog.Logger) error {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := item.worker.RunOnce(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("outbox relay cycle failed",
				"event", "bootstrap_relay_cycle_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"relay", item.name,
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func closeAll(ctx context.Context, closers []func(context.Context) error, logger *slog.Logger) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](ctx); err != nil && logger != nil {
			logger.Warn("shutdown close failed",
				"event", "bootstrap_close_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
	}
}
