package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/YelzhanWeb/cafebot/internal/adapter/logger"
)

type RouterConfig struct {
	// Webhook receives Telegram updates at /telegram/{WebhookSecret}
	Webhook       http.Handler
	WebhookSecret string
	Admin         *AdminHandler
	AdminToken    string
	Gatherer      prometheus.Gatherer
	Logger        logger.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	if cfg.Webhook != nil {
		r.With(WebhookSecret(cfg.WebhookSecret)).Post("/telegram/{secret}", cfg.Webhook.ServeHTTP)
	}

	if cfg.Admin != nil {
		r.Group(func(r chi.Router) {
			r.Use(AdminAuth(cfg.AdminToken))
			r.Get("/admin/orders", cfg.Admin.RecentOrders)
			r.Get("/admin/orders/{id}", cfg.Admin.GetOrder)
		})
	}

	return r
}
