package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/college-library/library/config"
	"github.com/Astemirdum/college-library/library/internal/handler"
	"github.com/Astemirdum/college-library/library/internal/notify"
	"github.com/Astemirdum/college-library/library/internal/repository"
	"github.com/Astemirdum/college-library/library/internal/server"
	"github.com/Astemirdum/college-library/library/internal/service"
	"github.com/Astemirdum/college-library/library/migrations"
	"github.com/Astemirdum/college-library/pkg/kafka"
	"github.com/Astemirdum/college-library/pkg/logger"
	"github.com/Astemirdum/college-library/pkg/postgres"
)

// deps are the long-lived collaborators shared by every command.
type deps struct {
	log     *zap.Logger
	svc     *service.Service
	pub     notify.Publisher
	dedupe  notify.Deduper
	closers []func()
}

func (d *deps) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func build(ctx context.Context, cfg *config.Config, name string) (*deps, error) {
	log := logger.NewLogger(cfg.Log, name)
	d := &deps{log: log}

	repo, err := newRepository(ctx, cfg, d)
	if err != nil {
		d.close()
		return nil, err
	}

	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			d.close()
			return nil, fmt.Errorf("kafka.NewProducer: %w", err)
		}
		d.closers = append(d.closers, func() {
			if err := producer.Close(); err != nil {
				log.Error("producer close", zap.Error(err))
			}
		})
		d.pub = notify.NewKafkaPublisher(producer, topic(cfg), log)
	} else {
		log.Info("no kafka brokers configured, notifications are only logged")
		d.pub = notify.NewLogPublisher(log)
	}

	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		d.closers = append(d.closers, func() { _ = rdb.Close() })
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, reminders are not deduplicated", zap.Error(err))
		} else {
			d.dedupe = notify.NewRedisDeduper(rdb)
		}
	}

	loc, err := cfg.Notify.Location()
	if err != nil {
		d.close()
		return nil, err
	}
	d.svc = service.NewService(repo, log,
		service.WithPublisher(d.pub),
		service.WithLocation(loc),
	)
	return d, nil
}

func topic(cfg *config.Config) string {
	if cfg.Notify.Topic == "" {
		return kafka.NotificationTopic
	}
	return cfg.Notify.Topic
}

func newRepository(ctx context.Context, cfg *config.Config, d *deps) (repository.Repository, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		d.log.Warn("in-memory storage, data is lost on exit")
		return repository.NewMemory(), nil
	case config.StoragePostgres, "":
		db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
		if err != nil {
			return nil, fmt.Errorf("db init: %w", err)
		}
		d.closers = append(d.closers, db.Close)
		return repository.NewRepository(db, d.log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Run serves the HTTP API, the notification dispatcher and the reminder
// scheduler until SIGINT or SIGTERM.
func Run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	d, err := build(ctx, cfg, "library")
	if err != nil {
		return err
	}
	defer d.close()
	log := d.log

	h := handler.New(d.svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	loc, err := cfg.Notify.Location()
	if err != nil {
		return err
	}
	reminder := notify.NewReminder(d.svc, d.pub, d.dedupe, log)
	scheduler, err := notify.NewScheduler(cfg.Notify.RemindAt, loc, func(ctx context.Context) error {
		_, err := reminder.Run(ctx)
		return err
	}, log)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server start ON: ",
			zap.String("addr",
				net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
		return srv.Run()
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})
	if cfg.Kafka.Enabled() && cfg.Notify.Consume {
		consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.NotificationConsumerGroup)
		if err != nil {
			return fmt.Errorf("kafka.NewConsumer: %w", err)
		}
		dispatcher := notify.NewDispatcher(notify.NewLogMailer(log), log)
		g.Go(func() error {
			return kafka.Consume(gctx, consumer, dispatcher, log, topic(cfg))
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Debug("Graceful shutdown")

		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return srv.Stop(closeCtx)
	})

	if err = g.Wait(); err != nil {
		log.Error("shutdown", zap.Error(err))
		return err
	}
	log.Info("Graceful shutdown finished")
	return nil
}

// RunMigrations applies the embedded migrations and exits.
func RunMigrations(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "migrate")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return err
	}
	db.Close()
	log.Info("migrations applied")
	return nil
}

// RunReminder performs one due-tomorrow scan and exits.
func RunReminder(cfg *config.Config) (int, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := build(ctx, cfg, "remind")
	if err != nil {
		return 0, err
	}
	defer d.close()
	return notify.NewReminder(d.svc, d.pub, d.dedupe, d.log).Run(ctx)
}
