package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/YelzhanWeb/cafebot/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/cafebot/internal/adapter/telegram"
	"github.com/YelzhanWeb/cafebot/internal/app/relay"
	"github.com/YelzhanWeb/cafebot/internal/metrics"

	amqpAdapter "github.com/YelzhanWeb/cafebot/internal/adapter/amqp"
	httpAdapter "github.com/YelzhanWeb/cafebot/internal/adapter/http"
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Deliver queued staff notifications to Telegram",
	RunE:  runRelay,
}

func runRelay(cmd *cobra.Command, args []string) error {
	cfg, lgr, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Telegram.Token == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required to relay")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ.URL())
	if err != nil {
		return err
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	tg, err := telegram.NewBot(telegram.Config{
		Token:  cfg.Telegram.Token,
		APIURL: cfg.Telegram.APIURL,
	}, lgr)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	relayService := relay.NewService(tg, metrics.New(reg), lgr)
	handler := amqpAdapter.NewStaffHandler(relayService, lgr)
	consumer := rabbitmq.NewConsumer(mqConn, cfg.Notifications.Prefetch, lgr,
		rabbitmq.WithMaxAttempts(cfg.Notifications.MaxAttempts),
		rabbitmq.WithRetryDelay(cfg.Notifications.RetryDelay),
	)

	// /metrics and /healthz only; the relay has no webhook or admin routes
	if cfg.Notifications.MetricsPort > 0 {
		server := &http.Server{
			Addr:        fmt.Sprintf(":%d", cfg.Notifications.MetricsPort),
			Handler:     httpAdapter.NewRouter(httpAdapter.RouterConfig{Gatherer: reg, Logger: lgr}),
			ReadTimeout: 15 * time.Second,
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				lgr.Error("metrics_server_error", "Metrics server error", "runtime", nil, err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx)
		}()
	}

	lgr.Info("service_started", "Staff notification relay started", "startup", map[string]interface{}{
		"prefetch":     cfg.Notifications.Prefetch,
		"max_attempts": cfg.Notifications.MaxAttempts,
		"metrics_port": cfg.Notifications.MetricsPort,
	})

	err = consumer.ConsumeStaffNotifications(ctx, handler.HandleDelivery)
	lgr.Info("shutdown_initiated", "Shutting down relay", "shutdown", nil)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
