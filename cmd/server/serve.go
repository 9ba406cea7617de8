package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/biblioteca-doacoes/internal/config"
	"github.com/iliyamo/biblioteca-doacoes/internal/database"
	"github.com/iliyamo/biblioteca-doacoes/internal/handler"
	"github.com/iliyamo/biblioteca-doacoes/internal/queue"
	"github.com/iliyamo/biblioteca-doacoes/internal/router"
	"github.com/iliyamo/biblioteca-doacoes/internal/service"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load() // Load environment config
	log := newLogger(cfg.Env)

	if cfg.AutoMigrate {
		if err := database.NewMigrator(dbOptions(cfg)).Up(ctx); err != nil {
			return err
		}
	}
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	auth := service.NewAuthService(db, cfg.JWTSecret, cfg.BcryptCost)
	if created, err := auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return err
	} else if created {
		log.Info("default admin created", "username", cfg.AdminUsername)
	}
	if cfg.SeedSampleBooks {
		n, err := service.SeedBooks(ctx, db, service.SampleBooks)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("sample books inserted", "count", n)
		}
	}

	sender := newMailer(cfg.Mail, log)
	dlv, err := newDelivery(ctx, cfg.Notify, sender, log)
	if err != nil {
		return err
	}
	defer dlv.close()

	pool := queue.NewPool(cfg.Notify.Workers, cfg.Notify.Buffer, cfg.Notify.SendTimeout, dlv.handler, log)
	if dlv.consume != nil && cfg.Notify.Consumer {
		go func() {
			if err := dlv.consume(ctx, service.MailDelivery(sender)); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("thank-you consumer stopped", "err", err)
			}
		}()
	}

	e := router.New(router.Handlers{
		Health:    &handler.HealthHandler{DB: db},
		Auth:      handler.NewAuthHandler(auth),
		Books:     handler.NewBookHandler(service.NewBookService(db)),
		Donations: handler.NewDonationHandler(service.NewDonationService(db, service.NewQueueNotifier(pool), log)),
		Stats:     handler.NewStatsHandler(service.NewStatsService(db)),
	}, auth, router.Options{AllowOrigins: cfg.CORSOrigins, Logger: log})

	addr := ":" + cfg.Port // Address string with port
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env, "db", cfg.DBDriver, "notify", cfg.Notify.Backend)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Error("http shutdown", "err", err)
	}
	if err := pool.Close(sctx); err != nil {
		log.Error("notify pool drain", "err", err)
	}
	return nil
}
