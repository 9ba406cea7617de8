package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/biblioteca-doacoes/internal/config"
	"github.com/iliyamo/biblioteca-doacoes/internal/database"
	"github.com/iliyamo/biblioteca-doacoes/internal/mail"
	"github.com/iliyamo/biblioteca-doacoes/internal/queue"
	"github.com/iliyamo/biblioteca-doacoes/internal/service"
)

// Notification backends.
const (
	backendMemory   = "memory"
	backendRabbitMQ = "rabbitmq"
	backendRedis    = "redis"
)

// newLogger installs a JSON logger in prod and a text logger elsewhere.
func newLogger(env string) *slog.Logger {
	var h slog.Handler
	if strings.EqualFold(env, "prod") || strings.EqualFold(env, "production") {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	l := slog.New(h)
	slog.SetDefault(l)
	return l
}

func dbOptions(cfg config.Config) database.Options {
	return database.Options{
		Driver:     cfg.DBDriver,
		User:       cfg.DBUser,
		Pass:       cfg.DBPass,
		Host:       cfg.DBHost,
		Port:       cfg.DBPort,
		Name:       cfg.DBName,
		SQLitePath: cfg.SQLitePath,
	}
}

func openDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	db, err := database.Open(ctx, dbOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}
	return db, nil
}

// newMailer returns the SMTP mailer, or a log-only one when mail is off.
func newMailer(cfg config.MailConfig, log *slog.Logger) mail.Sender {
	if !cfg.Enabled {
		return mail.LogMailer{Log: log}
	}
	return mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.Server,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.Sender,
		UseTLS:   cfg.UseTLS,
	})
}

// delivery is what pool workers do with a job, plus the broker consumer
// that completes it when the job leaves the process.
type delivery struct {
	handler queue.Handler
	consume func(ctx context.Context, h queue.Handler) error // nil for memory
	redis   *redis.Client
}

func (d delivery) close() {
	if d.redis != nil {
		_ = d.redis.Close()
	}
}

// newDelivery picks the transport for thank-you jobs.  An unreachable Redis
// falls back to sending from the process.
func newDelivery(ctx context.Context, cfg config.NotifyConfig, sender mail.Sender, log *slog.Logger) (delivery, error) {
	switch cfg.Backend {
	case backendMemory, "":
		return delivery{handler: service.MailDelivery(sender)}, nil
	case backendRabbitMQ:
		pub := queue.AMQPPublisher{URL: cfg.RabbitURL}
		return delivery{
			handler: pub.Handle,
			consume: func(ctx context.Context, h queue.Handler) error {
				return queue.ConsumeAMQP(ctx, cfg.RabbitURL, h, log)
			},
		}, nil
	case backendRedis:
		rc := config.NewRedisClient(ctx)
		if rc == nil {
			log.Warn("redis unreachable; sending thank-you mail in process")
			return delivery{handler: service.MailDelivery(sender)}, nil
		}
		q := queue.NewRedisQueue(rc, cfg.RedisKey)
		return delivery{
			handler: q.Handle,
			consume: func(ctx context.Context, h queue.Handler) error {
				return q.Consume(ctx, h, log)
			},
			redis: rc,
		}, nil
	default:
		return delivery{}, fmt.Errorf("unknown NOTIFY_BACKEND %q", cfg.Backend)
	}
}
