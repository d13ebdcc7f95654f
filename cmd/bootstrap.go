package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-AvailabilityService/internal/app"
	"github.com/m04kA/SMC-AvailabilityService/internal/config"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/locker"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/migrator"
	"github.com/m04kA/SMC-AvailabilityService/internal/timezone"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
)

// runtime общая инфраструктура команд
type runtime struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics
	db      *sql.DB
	wrapped *dbmetrics.DB
	storage app.Storage
	locker  locker.Locker
	zones   *timezone.Resolver

	stopMetricsCh chan struct{}
	closers       []func() error
}

// bootstrap загружает конфигурацию, логгер, хранилище и блокировки
func bootstrap(ctx context.Context, configPath string) (*runtime, error) {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level, cfg.Logs.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	rt := &runtime{
		cfg:           cfg,
		log:           log,
		zones:         timezone.NewResolver(cfg.Scheduling.DefaultTimezone),
		stopMetricsCh: make(chan struct{}),
	}
	rt.closers = append(rt.closers, log.Close)

	// Инициализируем метрики (если включены)
	if cfg.Metrics.Enabled {
		rt.metrics = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	if err := rt.openStorage(ctx); err != nil {
		rt.Close()
		return nil, err
	}

	if err := rt.openLocker(ctx); err != nil {
		rt.Close()
		return nil, err
	}

	return rt, nil
}

func (rt *runtime) openStorage(ctx context.Context) error {
	cfg := rt.cfg

	if cfg.Storage.Driver == config.StorageDriverMemory {
		rt.storage = app.NewMemoryStorage()
		rt.log.Info("Using in-memory storage")
		return nil
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	rt.closers = append(rt.closers, db.Close)

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	rt.log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.MigrationsOnStart {
		m, err := migrator.New(db, rt.log)
		if err != nil {
			return err
		}
		if err := m.Up(ctx); err != nil {
			return err
		}
	}

	rt.db = db
	if cfg.Metrics.Enabled {
		rt.wrapped = dbmetrics.WrapWithDefault(db, rt.metrics, rt.stopMetricsCh)
		rt.log.Info("Database metrics collection started")
	} else {
		rt.wrapped = dbmetrics.Wrap(db, nil)
	}
	rt.storage = app.NewPostgresStorage(rt.wrapped)
	return nil
}

func (rt *runtime) openLocker(ctx context.Context) error {
	cfg := rt.cfg.Locker
	acquireTimeout := time.Duration(cfg.AcquireTimeout) * time.Millisecond

	if cfg.Driver != config.LockerDriverRedis {
		rt.locker = locker.NewLocalLocker(acquireTimeout, rt.metrics)
		rt.log.Info("Using in-process provider locks (acquire timeout=%s)", acquireTimeout)
		return nil
	}

	client, err := locker.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	rt.closers = append(rt.closers, client.Close)

	rt.locker = locker.NewRedisLocker(client, locker.RedisConfig{
		TTL:            time.Duration(cfg.TTL) * time.Millisecond,
		AcquireTimeout: acquireTimeout,
		RetryInterval:  time.Duration(cfg.RetryInterval) * time.Millisecond,
	}, rt.metrics)
	rt.log.Info("Using Redis provider locks (ttl=%dms, acquire timeout=%s)", cfg.TTL, acquireTimeout)
	return nil
}

// newApp собирает сервисы поверх инфраструктуры
func (rt *runtime) newApp(notifier app.Notifier) *app.App {
	return app.New(app.Dependencies{
		Storage:    rt.storage,
		Locker:     rt.locker,
		Zones:      rt.zones,
		Notifier:   notifier,
		Metrics:    rt.metrics,
		Scheduling: rt.cfg.Scheduling,
		Logger:     rt.log,
	})
}

// Close освобождает ресурсы в обратном порядке
func (rt *runtime) Close() {
	close(rt.stopMetricsCh)
	for i := len(rt.closers) - 1; i >= 0; i-- {
		_ = rt.closers[i]()
	}
}
