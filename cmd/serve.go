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
	"github.com/YelzhanWeb/cafebot/internal/app/admin"
	"github.com/YelzhanWeb/cafebot/internal/app/dialogue"
	"github.com/YelzhanWeb/cafebot/internal/app/order"
	"github.com/YelzhanWeb/cafebot/internal/config"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"
	"github.com/YelzhanWeb/cafebot/internal/metrics"

	httpAdapter "github.com/YelzhanWeb/cafebot/internal/adapter/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the Telegram webhook, admin endpoint, health and metrics",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, lgr, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Telegram.Token == "" || cfg.Telegram.WebhookSecret == "" {
		return errors.New("TELEGRAM_BOT_TOKEN and TELEGRAM_WEBHOOK_SECRET are required to serve")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}

	st, err := openStorage(ctx, cfg, lgr, true)
	if err != nil {
		return err
	}
	defer st.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	tg, err := telegram.NewBot(telegram.Config{
		Token:     cfg.Telegram.Token,
		APIURL:    cfg.Telegram.APIURL,
		Secret:    cfg.Telegram.WebhookSecret,
		PublicURL: cfg.Telegram.WebhookURL,
	}, lgr)
	if err != nil {
		return err
	}

	// Staff notifications go straight to Telegram or through the relay queue
	var notifier interfaces.StaffNotifier = tg
	if cfg.Notifications.Mode == config.NotifyRabbitMQ {
		mqConn, err := rabbitmq.Connect(cfg.RabbitMQ.URL())
		if err != nil {
			return err
		}
		defer mqConn.Close()
		notifier = rabbitmq.NewStaffNotifier(rabbitmq.NewPublisher(mqConn))

		lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
			"host": cfg.RabbitMQ.Host,
		})
	}

	finalizerOpts := []order.Option{order.WithMetrics(m)}
	if st.checkout != nil {
		finalizerOpts = append(finalizerOpts, order.WithCheckout(st.checkout))
	}
	finalizer := order.NewService(st.orders, st.sessions, notifier, st.errorLog,
		cfg.StaffRecipients(), cfg.App.CafeAddress, lgr, finalizerOpts...)

	engine := dialogue.NewEngine(catalog, dialogue.Cafe{Name: cfg.App.CafeName, Address: cfg.App.CafeAddress})
	dialogueService := dialogue.NewService(engine, st.sessions, finalizer, st.errorLog, lgr,
		dialogue.WithLocker(dialogue.NewUserLocks(st.locker)),
		dialogue.WithLockTTL(cfg.Sessions.LockTTL),
		dialogue.WithMetrics(m),
	)
	adminService := admin.NewService(st.orders, cfg.Telegram.AdminIDs, lgr)

	telegram.NewHandler(dialogueService, adminService, tg, lgr).Register(tg)
	go tg.Start()

	handler := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		Webhook:       tg.Webhook(),
		WebhookSecret: cfg.Telegram.WebhookSecret,
		Admin:         httpAdapter.NewAdminHandler(adminService, lgr),
		AdminToken:    cfg.HTTP.AdminToken,
		Gatherer:      reg,
		Logger:        lgr,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("Cafe bot started on port %d", cfg.HTTP.Port), "startup", map[string]interface{}{
		"port":          cfg.HTTP.Port,
		"driver":        cfg.Database.Driver,
		"sessions":      cfg.Sessions.Backend,
		"notifications": cfg.Notifications.Mode,
	})

	// Graceful shutdown
	go func() {
		<-ctx.Done()

		lgr.Info("shutdown_initiated", "Shutting down cafe bot", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
		tg.Stop()
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
		return err
	}
	return nil
}
