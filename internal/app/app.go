package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	"github.com/BruksfildServices01/barber-queue/internal/changefeed"
	"github.com/BruksfildServices01/barber-queue/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-queue/internal/db"
	"github.com/BruksfildServices01/barber-queue/internal/infra/repository"
	"github.com/BruksfildServices01/barber-queue/internal/notify"
	"github.com/BruksfildServices01/barber-queue/internal/partition"
	"github.com/BruksfildServices01/barber-queue/internal/timezone"
	ucQueue "github.com/BruksfildServices01/barber-queue/internal/usecase/queue"
)

// App holds the singletons shared by the HTTP API and the operator CLI.
type App struct {
	Config *config.Config
	Log    *slog.Logger
	DB     *gorm.DB

	Locker partition.Locker
	Feed   changefeed.Feed
	Audit  *audit.Dispatcher
	Trail  *audit.Logger
	Engine *ucQueue.Engine
	Relay  *notify.Relay

	redis  *redis.Client
	writer *kafka.Writer
}

// New opens the store and, when configured, redis and kafka.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	db, err := dbpkg.Open(cfg.DBUrl)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
	}

	return Wire(cfg, log, db, rdb), nil
}

// Wire assembles the app around already opened connections. A nil redis
// client selects the in-process locker and feed.
func Wire(cfg *config.Config, log *slog.Logger, db *gorm.DB, rdb *redis.Client) *App {
	a := &App{Config: cfg, Log: log, DB: db, redis: rdb}

	if rdb != nil {
		a.Locker = partition.NewRedisLocker(rdb, cfg.LockTTL, log)
		a.Feed = changefeed.NewRedisFeed(rdb, log)
	} else {
		a.Locker = partition.NewLocalLocker()
		a.Feed = changefeed.NewLocalFeed()
	}

	a.Trail = audit.New(db)
	a.Audit = audit.NewDispatcher(a.Trail, log)

	a.Engine = ucQueue.NewEngine(ucQueue.Deps{
		Repo:       repository.NewQueueGormRepository(db, cfg.Schedule),
		Locker:     a.Locker,
		Feed:       a.Feed,
		Audit:      a.Audit,
		Logger:     log,
		TierRank:   cfg.TierRank,
		MaxRetries: cfg.MaxRetries,
		Now:        timezone.Clock(cfg.Schedule.Location),
	})

	var w notify.Writer
	if len(cfg.KafkaBrokers) > 0 {
		a.writer = notify.NewKafkaWriter(cfg.KafkaBrokers)
		w = a.writer
	}
	a.Relay = notify.NewRelay(db, w, log, notify.RelayConfig{
		Topic:     cfg.IntentTopic,
		PollEvery: cfg.RelayInterval,
		BatchSize: cfg.RelayBatchSize,
	})

	return a
}

func (a *App) Close() {
	a.Audit.Close()
	if a.writer != nil {
		if err := a.writer.Close(); err != nil {
			a.Log.Warn("kafka writer close failed", "err", err)
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
