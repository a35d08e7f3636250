package app

import (
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	httpapi "github.com/mattf196/henrylabs-takehome/internal/api/http"
	"github.com/mattf196/henrylabs-takehome/internal/config"
	"github.com/mattf196/henrylabs-takehome/internal/correlation"
	eventkafka "github.com/mattf196/henrylabs-takehome/internal/event/kafka"
	"github.com/mattf196/henrylabs-takehome/internal/gateway"
	"github.com/mattf196/henrylabs-takehome/internal/gateway/simulated"
	"github.com/mattf196/henrylabs-takehome/internal/service"
	platformlogging "github.com/mattf196/henrylabs-takehome/platform/logging"
	platformobservability "github.com/mattf196/henrylabs-takehome/platform/observability"
	platformshutdown "github.com/mattf196/henrylabs-takehome/platform/shutdown"
)

// App содержит все зависимости для запуска и корректного shutdown Checkout Service
type App struct {
	logger      *zap.Logger
	httpServer  *http.Server
	shutdownMgr *platformshutdown.Manager
	wg          sync.WaitGroup
}

// Build создаёт и настраивает все зависимости Checkout Service
func Build(cfg config.Config) (*App, error) {
	const op = "app.Build"

	logger, err := platformlogging.New(platformlogging.Config{
		ServiceName: "checkout",
		Env:         string(cfg.AppEnv),
		Level:       os.Getenv("LOG_LEVEL"),
		Format:      os.Getenv("LOG_FORMAT"),
	})
	if err != nil {
		return nil, err
	}

	logger = logger.With(zap.String("op", op))
	logger.Info("Building Checkout service", zap.String("http_addr", cfg.HTTPAddr))

	// Observability: noop если OTEL_ENABLED=false
	otelShutdown, err := platformobservability.Init(context.Background(), platformobservability.Config{
		Enabled:               cfg.OtelEnabled,
		OTLPEndpoint:          cfg.OtelEndpoint,
		SamplingRatio:         cfg.OtelSamplingRatio,
		ServiceName:           "checkout",
		DeploymentEnvironment: string(cfg.AppEnv),
	})
	if err != nil {
		return nil, err
	}

	// Реестр корреляций - единственный общий ресурс между request- и webhook-путями
	registry := correlation.NewRegistry(logger)

	// Publisher событий: Kafka если брокеры настроены, иначе noop
	var publisher service.EventPublisher = service.NoopEventPublisher{}
	var kafkaPublisher *eventkafka.CheckoutEventPublisher
	if cfg.Kafka.Enabled() {
		logger.Info("Checkout events publishing enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
		kafkaPublisher = eventkafka.NewCheckoutEventPublisher(logger, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		publisher = kafkaPublisher
	}

	// Service собирается в два шага: симулятору шлюза нужен webhook sink,
	// а sink - это HandleWebhook самого сервиса
	var checkoutService *service.CheckoutService
	sink := func(event gateway.WebhookEvent) {
		checkoutService.HandleWebhook(context.Background(), event)
	}

	gw := simulated.New(logger, sink, simulated.Options{Seed: cfg.GatewaySeed})

	checkoutService = service.NewCheckoutService(logger, gw, registry, publisher, service.Config{
		WebhookWaitTimeout: cfg.WebhookWaitTimeout,
		MaxAttempts:        cfg.RetryMaxAttempts,
		BaseDelay:          cfg.RetryBaseDelay,
	})

	handler := httpapi.NewHandler(checkoutService, logger)

	readiness := func() bool { return true }
	router := httpapi.NewRouter(handler, cfg.FrontendOrigin, readiness, logger)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownMgr := platformshutdown.New(cfg.ShutdownTimeout, logger)

	// Shutdown выполняется в обратном порядке регистрации:
	// сначала HTTP сервер перестаёт принимать запросы, затем дренируется
	// реестр корреляций, затем закрываются publisher и observability
	shutdownMgr.Add("otel", otelShutdown)
	if kafkaPublisher != nil {
		shutdownMgr.Add("kafka_publisher", platformshutdown.CloseWriter(kafkaPublisher))
	}
	shutdownMgr.Add("correlation_registry", checkoutService.Shutdown)
	shutdownMgr.Add("http_server", platformshutdown.ShutdownHTTPServer(httpServer))

	return &App{
		logger:      logger,
		httpServer:  httpServer,
		shutdownMgr: shutdownMgr,
	}, nil
}

// Run запускает сервис и блокируется до получения сигнала shutdown
func (a *App) Run() error {
	defer platformlogging.Sync(a.logger)

	a.logger.Info("Starting Checkout service", zap.String("addr", a.httpServer.Addr))
	a.logger.Info("Health check available", zap.String("url", "http://"+a.httpServer.Addr+"/health"))

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	a.shutdownMgr.Wait()

	a.wg.Wait()
	a.logger.Info("Checkout service stopped")
	return nil
}
