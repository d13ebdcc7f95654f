package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-AvailabilityService/internal/api"
	"github.com/m04kA/SMC-AvailabilityService/internal/app"
	"github.com/m04kA/SMC-AvailabilityService/internal/integrations/webhook"
	"github.com/m04kA/SMC-AvailabilityService/internal/notification"
	"github.com/m04kA/SMC-AvailabilityService/internal/worker/expiry"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(*configPath)
		},
	}
}

func serve(configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg := rt.cfg
	log := rt.log
	log.Info("Starting SMC-AvailabilityService...")

	// Уведомления: webhook через асинхронную очередь или ничего
	var notifier app.Notifier = notification.Nop{}
	var dispatcher *notification.Dispatcher
	if cfg.Notifications.Enabled && cfg.Notifications.WebhookURL != "" {
		timeout := time.Duration(cfg.Notifications.Timeout) * time.Second
		client := webhook.NewClient(cfg.Notifications.WebhookURL, timeout, log)
		dispatcher = notification.NewDispatcher(client, cfg.Notifications.QueueSize, timeout, log)
		dispatcher.Start()
		notifier = dispatcher
		log.Info("Webhook notifications enabled (url=%s, queue=%d)", cfg.Notifications.WebhookURL, cfg.Notifications.QueueSize)
	}

	application := rt.newApp(notifier)

	// Фоновое истечение прошедших слотов
	var worker *expiry.Worker
	if cfg.Worker.ExpiryEnabled {
		worker = expiry.NewWorker(application.Slots, time.Duration(cfg.Worker.ExpiryInterval)*time.Second, log)
		worker.Start(ctx)
	}

	opts := api.RouterOptions{}
	if cfg.Metrics.Enabled {
		opts.MetricsPath = cfg.Metrics.Path
		opts.MetricsHandler = promhttp.Handler()
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}
	if rt.wrapped != nil {
		opts.Health = rt.wrapped
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      application.Router(opts),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения или ошибку сервера
	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serverErr:
		log.Error("Server failed: %v", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if worker != nil {
		worker.Stop()
	}

	if dispatcher != nil {
		if err := dispatcher.Stop(shutdownCtx); err != nil {
			log.Warn("Notification queue was not drained: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
	return nil
}
