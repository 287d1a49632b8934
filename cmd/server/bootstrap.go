package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/roomrental/internal/api"
	"github.com/charlesng35/roomrental/internal/app"
	"github.com/charlesng35/roomrental/internal/app/maintenance"
	"github.com/charlesng35/roomrental/internal/cache"
	"github.com/charlesng35/roomrental/internal/database"
	"github.com/charlesng35/roomrental/internal/handlers"
	"github.com/charlesng35/roomrental/internal/middleware"
	"github.com/charlesng35/roomrental/internal/realtime"
	"github.com/charlesng35/roomrental/internal/services"
	"github.com/charlesng35/roomrental/internal/store"
	"github.com/charlesng35/roomrental/internal/store/gormstore"
	"github.com/charlesng35/roomrental/internal/store/memory"
)

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	Store     store.Store
	DB        *gorm.DB
	Redis     *redis.Client
	Hub       *realtime.Hub
	Services  *services.Registry
	Scheduler *maintenance.Scheduler
	RateStore middleware.RateStore
	Router    *gin.Engine
}

// bootstrapRuntime opens storage and caches, then builds services, jobs and the HTTP router.
// Jobs are not started.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(context.Background(), log)
		}
	}()

	// enable gin debug mode
	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.Store, stack.DB, err = openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	if cfg.Cache.Redis.Enabled {
		if stack.Redis, err = cache.NewRedisClient(ctx, cfg.Cache.RedisClientConfig()); err != nil {
			log.Warn("redis unavailable; falling back to in-process coordination", zap.Error(err))
			stack.Redis = nil
		} else {
			log.Info("redis connected", zap.String("addr", cfg.Cache.Redis.Address))
		}
	}

	var events services.EventPublisher
	if cfg.Realtime.Enabled {
		stack.Hub = realtime.NewHub()
		events = stack.Hub
	}

	stack.Services, err = services.NewRegistry(stack.Store, services.RegistryConfig{
		Events:                   events,
		Actor:                    cfg.Leases.Actor,
		DefaultRenewalNoticeDays: cfg.Leases.DefaultRenewalNoticeDays,
		ExpiringSoonDays:         cfg.Leases.ExpiringSoonDays,
	})
	if err != nil {
		return nil, fmt.Errorf("initialise services: %w", err)
	}

	schedulerOpts := []maintenance.Option{
		maintenance.WithSweepSchedule(cfg.Leases.SweepSchedule),
		maintenance.WithRetentionSchedule(cfg.Notifications.CleanupSchedule),
		maintenance.WithRetention(cfg.Notifications.Retention()),
		maintenance.WithLockTTL(cfg.Leases.SweepLockTTL),
	}
	stack.RateStore = middleware.NewMemoryRateStore()
	if stack.Redis != nil {
		locker, lockErr := cache.NewRedisLocker(stack.Redis)
		if lockErr != nil {
			return nil, fmt.Errorf("initialise sweep lock: %w", lockErr)
		}
		schedulerOpts = append(schedulerOpts, maintenance.WithLocker(locker))

		if stack.RateStore, err = middleware.NewRedisRateStore(stack.Redis); err != nil {
			return nil, fmt.Errorf("initialise rate limiter: %w", err)
		}
	}

	var purger maintenance.NotificationPurger
	if cfg.Notifications.Enabled {
		purger = stack.Services.Notifications
	}
	stack.Scheduler = maintenance.NewScheduler(stack.Services.Leases, purger, schedulerOpts...)

	stack.Router, err = api.NewRouter(api.Dependencies{
		Config:       cfg,
		Services:     stack.Services,
		Hub:          stack.Hub,
		RateStore:    stack.RateStore,
		HealthChecks: healthChecks(stack),
	})
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

func openStore(ctx context.Context, cfg *app.Config, log *zap.Logger) (store.Store, *gorm.DB, error) {
	if cfg.Storage.UsesMemoryStore() {
		st := memory.New()
		if cfg.Storage.Seed {
			if err := database.SeedStore(ctx, st, time.Now()); err != nil {
				return nil, nil, fmt.Errorf("seed memory store: %w", err)
			}
		}
		log.Info("using in-memory store", zap.Bool("seeded", cfg.Storage.Seed))
		return st, nil, nil
	}

	dbCfg := cfg.Storage.DatabaseConfig()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.Storage.Seed {
		err = database.AutoMigrateAndSeed(db, time.Now())
	} else {
		err = database.AutoMigrate(db)
	}
	if err != nil {
		_ = database.Close(db)
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	st, err := gormstore.New(db)
	if err != nil {
		_ = database.Close(db)
		return nil, nil, err
	}

	log.Info("database connected", zap.String("driver", strings.ToLower(strings.TrimSpace(dbCfg.Driver))))
	return st, db, nil
}

func healthChecks(stack *runtimeStack) map[string]handlers.HealthCheck {
	checks := map[string]handlers.HealthCheck{
		"store": stack.Store.Ping,
	}
	if stack.Redis != nil {
		client := stack.Redis
		checks["redis"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	}
	return checks
}

// Shutdown stops background jobs and releases resources.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) {
	if s == nil {
		return
	}

	if s.Scheduler != nil {
		stopCtx := s.Scheduler.Stop()
		select {
		case <-stopCtx.Done():
		case <-ctx.Done():
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.Warn("redis shutdown", zap.Error(err))
		}
	}

	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			log.Warn("failed to close store", zap.Error(err))
		}
	}
}
