package appcontext

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/RoyceAzure/lab/pickup/internal/config"
	"github.com/RoyceAzure/lab/pickup/internal/infra/redis_client"
	"github.com/RoyceAzure/lab/pickup/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/pickup/internal/infra/repository/redis_decorator"
	"github.com/RoyceAzure/lab/pickup/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/pickup/internal/logger"
	"github.com/RoyceAzure/lab/pickup/internal/ratelimit"
	"github.com/RoyceAzure/lab/pickup/internal/service"
	"github.com/RoyceAzure/lab/pickup/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type ApplicationContext struct {
	Cf           *config.Config
	Logger       zerolog.Logger
	Store        *db.UnifiedDBImpl
	Redis        *redis.Client
	Catalog      db.ICatalogRepository
	Limiter      ratelimit.Limiter
	MenuService  service.IMenuService
	OrderService service.IOrderService

	logCloser      io.Closer
	tracerShutdown telemetry.ShutdownFunc
}

func NewApplicationContext(cf *config.Config) (*ApplicationContext, error) {
	app := &ApplicationContext{
		Cf: cf,
	}
	if err := app.Init(); err != nil {
		// 已經建立的資源要釋放
		app.Shutdown(context.Background())
		return nil, err
	}
	return app, nil
}

func (app *ApplicationContext) Init() error {
	steps := []func() error{
		app.setUpLogger,
		app.setUpTracer,
		app.setUpDb,
		app.setUpRedis,
		app.setUpCatalog,
		app.setUpLimiter,
		app.setUpServices,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (app *ApplicationContext) setUpLogger() error {
	l, closer, err := logger.New(app.Cf)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	app.Logger = l
	app.logCloser = closer
	return nil
}

func (app *ApplicationContext) setUpTracer() error {
	shutdown, err := telemetry.InitTracer(app.Cf.ServiceName, app.Cf.TracingEnabled, nil)
	if err != nil {
		return fmt.Errorf("setup tracer: %w", err)
	}
	app.tracerShutdown = shutdown
	return nil
}

func (app *ApplicationContext) setUpDb() error {
	app.Logger.Info().Str("driver", string(app.Cf.DbDriver)).Msg("Start setup database connection")
	conn, err := db.Open(app.Cf)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	app.Store = db.NewUnifiedDB(conn)
	if err := app.Store.InitMigrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	items, err := db.LoadMenuSeed(app.Cf.SeedFile)
	if err != nil {
		return err
	}
	n, err := db.SeedMenuIfEmpty(context.Background(), app.Store, items)
	if err != nil {
		return fmt.Errorf("seed menu: %w", err)
	}
	if n > 0 {
		app.Logger.Info().Int("items", n).Msg("menu seeded")
	}
	app.Logger.Info().Msg("Finish setup database connection")
	return nil
}

// setUpRedis 沒有設定 REDIS_ADDR 時略過
func (app *ApplicationContext) setUpRedis() error {
	if !app.Cf.RedisEnabled() {
		return nil
	}
	client, err := redis_client.GetRedisClient(app.Cf.RedisAddr,
		redis_client.WithPassword(app.Cf.RedisPassword),
		redis_client.WithDB(app.Cf.RedisDB),
	)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	app.Redis = client

	// redis 只是快取與限流, 連不上時照常啟動
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := redis_client.Ping(ctx, client); err != nil {
		app.Logger.Warn().Err(err).Msg("redis unreachable, cache and rate limiter will fall back")
		return nil
	}
	app.Logger.Info().Str("addr", app.Cf.RedisAddr).Msg("redis connected")
	return nil
}

func (app *ApplicationContext) setUpCatalog() error {
	if app.Redis == nil {
		app.Catalog = app.Store
		return nil
	}
	app.Catalog = redis_decorator.NewCacheAsideMenuRepo(
		app.Store,
		redis_repo.NewMenuRedisRepo(app.Redis, app.Cf.ServiceName),
		app.Cf.MenuCacheTTL,
		app.Logger,
	)
	return nil
}

func (app *ApplicationContext) setUpLimiter() error {
	cfg := ratelimit.LimiterConfig{
		Capacity: app.Cf.RateLimitCapacity,
		Rate:     app.Cf.RateLimitPerSecond,
	}
	if app.Redis != nil {
		app.Limiter = ratelimit.NewRedisTokenBucket(app.Redis, cfg, app.Cf.ServiceName+":ratelimit", app.Logger)
		return nil
	}
	app.Limiter = ratelimit.NewTokenBucket(cfg)
	return nil
}

func (app *ApplicationContext) setUpServices() error {
	app.MenuService = service.NewMenuService(app.Catalog, app.Logger)
	app.OrderService = service.NewOrderService(service.NewOrderValidator(app.Catalog), app.Store, app.Logger)
	return nil
}

// Ping 給 /healthz 使用
func (app *ApplicationContext) Ping(ctx context.Context) error {
	sqlDB, err := app.Store.GetDB().DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Shutdown 依建立的反向順序釋放資源, log 最後關閉
func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	var errs []error
	if app.tracerShutdown != nil {
		errs = append(errs, app.tracerShutdown(ctx))
	}
	if app.Redis != nil {
		errs = append(errs, redis_client.CloseAll())
	}
	if app.Store != nil {
		errs = append(errs, app.Store.Close())
	}
	if app.logCloser != nil {
		errs = append(errs, app.logCloser.Close())
	}
	return errors.Join(errs...)
}
