package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nikolayk812/sessioncart/internal/config"
	"github.com/nikolayk812/sessioncart/internal/events"
	httpapi "github.com/nikolayk812/sessioncart/internal/http"
	"github.com/nikolayk812/sessioncart/internal/logger"
	"github.com/nikolayk812/sessioncart/internal/metrics"
	"github.com/nikolayk812/sessioncart/internal/port"
	"github.com/nikolayk812/sessioncart/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	amqp "github.com/rabbitmq/amqp091-go"
)

const serviceName = "cart-service"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "cart-service stopped with error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openRepository(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer closeRepo()

	var publisher port.CheckoutPublisher
	if cfg.Events.Enabled {
		conn, err := amqp.Dial(cfg.Events.RabbitMQURL)
		if err != nil {
			return err
		}
		defer func() {
			if err := conn.Close(); err != nil {
				logg.Error(context.Background(), "error closing rabbitmq connection", err)
			}
		}()

		rabbit, err := events.NewRabbitPublisher(conn, cfg.Events.Exchange)
		if err != nil {
			return err
		}
		defer func() {
			if err := rabbit.Close(); err != nil {
				logg.Error(context.Background(), "error closing rabbitmq publisher", err)
			}
		}()

		publisher = rabbit
	}

	var (
		cartMetrics *metrics.CartMetrics
		gatherer    prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		cartMetrics = metrics.NewCartMetrics(reg)
		gatherer = reg
	}

	svc, err := service.New(service.Params{
		Repo:      repo,
		Publisher: publisher,
		Metrics:   cartMetrics,
		Logger:    logg,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: cfg.App.Addr(),
		Handler: httpapi.NewRouter(httpapi.RouterParams{
			Service:        svc,
			Logger:         logg,
			Gatherer:       gatherer,
			RequestTimeout: cfg.App.RequestTimeout,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logCtx := logg.WithFields(ctx, map[string]any{
			"addr":    srv.Addr,
			"storage": cfg.Storage.Driver,
			"events":  cfg.Events.Enabled,
		})
		logg.Info(logCtx, "cart-service listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logg.Info(context.Background(), "shutdown signal received")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return nil
}
