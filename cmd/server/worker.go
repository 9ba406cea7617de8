package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/biblioteca-doacoes/internal/config"
	"github.com/iliyamo/biblioteca-doacoes/internal/service"
)

func workerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume thank-you jobs from the broker and send the emails",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg := config.Load()
			log := newLogger(cfg.Env)

			dlv, err := newDelivery(ctx, cfg.Notify, nil, log)
			if err != nil {
				return err
			}
			defer dlv.close()
			if dlv.consume == nil {
				return fmt.Errorf("NOTIFY_BACKEND %q has no broker to consume", cfg.Notify.Backend)
			}

			log.Info("worker started", "backend", cfg.Notify.Backend)
			err = dlv.consume(ctx, service.MailDelivery(newMailer(cfg.Mail, log)))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
