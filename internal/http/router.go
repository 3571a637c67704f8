package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/sessioncart/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterParams struct {
	Service CartService
	Logger  *logger.Logger
	// Gatherer backs GET /metrics. The route is not mounted when nil.
	Gatherer       prometheus.Gatherer
	RequestTimeout time.Duration
}

func NewRouter(p RouterParams) http.Handler {
	logg := p.Logger
	if logg == nil {
		logg = logger.Nop()
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		requestLogger(logg),
		accessLog(logg),
		middleware.Recoverer,
	)

	r.Get("/healthz", healthHandler)

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	cartHandler := NewCartHandler(p.Service, logg)

	r.Route("/api/cart/{sessionId}", func(r chi.Router) {
		if p.RequestTimeout > 0 {
			r.Use(middleware.Timeout(p.RequestTimeout))
		}

		r.Get("/", cartHandler.GetCart)
		r.Post("/items", cartHandler.AddItem)
		r.Delete("/items/{itemId}", cartHandler.RemoveItem)
		r.Post("/checkout", cartHandler.Checkout)
	})

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
