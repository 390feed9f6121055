package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	redisCache "github.com/aniladanir/pharmacy-messenger-service/internal/cache/redis"
	"github.com/aniladanir/pharmacy-messenger-service/internal/channel"
	"github.com/aniladanir/pharmacy-messenger-service/internal/domain"
	httpHandler "github.com/aniladanir/pharmacy-messenger-service/internal/handler/http"
	"github.com/aniladanir/pharmacy-messenger-service/internal/messaging"
	"github.com/aniladanir/pharmacy-messenger-service/internal/messaging/noop"
	"github.com/aniladanir/pharmacy-messenger-service/internal/messaging/rabbitmq"
	"github.com/aniladanir/pharmacy-messenger-service/internal/observability/metrics"
	"github.com/aniladanir/pharmacy-messenger-service/internal/persistant/postgresql"
	bookingRepo "github.com/aniladanir/pharmacy-messenger-service/internal/repository/booking"
	customerRepo "github.com/aniladanir/pharmacy-messenger-service/internal/repository/customer"
	messageRepo "github.com/aniladanir/pharmacy-messenger-service/internal/repository/message"
	"github.com/aniladanir/pharmacy-messenger-service/internal/scheduler"
	"github.com/aniladanir/pharmacy-messenger-service/internal/service"
	"github.com/aniladanir/pharmacy-messenger-service/internal/thread"
	"github.com/aniladanir/pharmacy-messenger-service/internal/webhook"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var (
	configFile = flag.String("config", "config.json", "config file path")
)

func main() {
	// create root context
	appCtx, appCtxCancel := context.WithCancel(context.Background())
	defer appCtxCancel()

	// listen for terminate signal
	notifyCtx, stop := signal.NotifyContext(appCtx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// parse flags
	flag.Parse()

	// parse config
	config, err := ReadConfigJson(*configFile)
	if err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	// setup logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: config.SlogLevel()}))
	slog.SetDefault(logger)

	// initialize external dependencies
	db, rCache, err := initExternalDependencies(notifyCtx, config)
	if err != nil {
		log.Fatalf("failed to initialize external dependencies: %v", err)
	}

	// populate database with demo data
	if config.SeedDemoData {
		if err := populateDatabase(db); err != nil {
			log.Fatalf("failed to populate db: %v", err)
		}
	}

	// metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	msgMetrics := metrics.NewMessagingMetrics(registry)

	// outbound webhook client shared by the channel, the gateway and the trigger
	webhookClient, err := webhook.NewClient(
		logger.With(slog.String("component", "webhookClient")),
		config.WebhookTimeout,
		&config.MsgMaxRetry,
	)
	if err != nil {
		log.Fatalf("failed to initiate webhook client: %v", err)
	}

	// messaging channel
	var sender channel.Sender
	if config.WhatsAppApiUrl != "" {
		sender = channel.NewWhatsApp(
			config.WhatsAppApiUrl,
			webhookClient,
			rCache,
			logger.With(slog.String("component", "whatsapp")),
		)
	} else {
		logger.Warn("whatsapp api url not configured, messages are only logged")
		sender = channel.NewLog(logger.With(slog.String("component", "logChannel")))
	}

	// repositories
	bookings := bookingRepo.NewBookingRepository(db)
	customers := customerRepo.NewCustomerRepository(db)
	conversation := thread.New(messageRepo.NewMessageRepository(db))

	// notification gateway
	gateway := service.NewNotificationGateway(service.GatewayConfig{
		Channel: sender,
		Thread:  conversation,
		Poster:  webhookClient,
		Metrics: msgMetrics,
		Logger:  logger.With(slog.String("component", "notificationGateway")),
		From:    config.PharmacyNumber,
		Timeout: config.PublishTimeout,
	})
	configureEndpoint(logger, "whatsapp", config.WhatsAppWebhookUrl, gateway.ConfigureEndpoint)

	// workflow trigger
	sched := scheduler.New(logger.With(slog.String("component", "scheduler")))
	trigger := service.NewWorkflowTrigger(service.TriggerConfig{
		Poster:         webhookClient,
		Notifier:       gateway,
		Scheduler:      sched,
		Cache:          rCache,
		NotifyDelay:    config.NotifyDelay,
		PublishTimeout: config.PublishTimeout,
		Metrics:        msgMetrics,
		Logger:         logger.With(slog.String("component", "workflowTrigger")),
	})
	configureEndpoint(logger, "workflow", config.WorkflowWebhookUrl, trigger.ConfigureEndpoint)

	// event bus
	bus := initEventBus(logger, config)

	// booking service
	bookingSvc := service.NewBookingService(service.BookingServiceConfig{
		Bookings:       bookings,
		Customers:      customers,
		Thread:         conversation,
		Gateway:        gateway,
		Workflow:       trigger,
		Bus:            bus,
		Scheduler:      sched,
		PublishTimeout: config.PublishTimeout,
		Metrics:        msgMetrics,
		Logger:         logger.With(slog.String("component", "bookingService")),
		PharmacyNumber: config.PharmacyNumber,
	})

	// init http handler
	httpHandler := httpHandler.NewHttpHandler(
		fmt.Sprintf(":%d", config.HttpPort),
		httpHandler.Services{
			Bookings: bookingSvc,
			Gateway:  gateway,
			Workflow: trigger,
			Metrics:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
			Logger:   logger.With(slog.String("component", "httpHandler")),
		},
	)

	wg := sync.WaitGroup{}
	// run http handler
	wg.Go(func() {
		if err := httpHandler.Run(); err != nil {
			logger.Error("http server encountered with an error and closed", "error", err.Error())
		}
		// cancel app context if http handler fails
		appCtxCancel()
	})

	// graceful shutdown
	wg.Go(func() {
		<-notifyCtx.Done()
		logger.Info("application shutting down...")

		shutDownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()

		// stop taking requests, then let queued events and pending status
		// notifications go out before cancelling the rest
		httpHandler.Shutdown(shutDownCtx)
		waitCtx, waitCancel := context.WithTimeout(shutDownCtx, config.NotifyDelay)
		_ = sched.Wait(waitCtx)
		waitCancel()
		if err := sched.Stop(shutDownCtx); err != nil {
			logger.Error("scheduled tasks did not finish", "error", err.Error())
		}

		bus.Close()
		rCache.Close()
		postgresql.Close(db)
	})

	wg.Wait()
	os.Exit(0)
}

func initExternalDependencies(ctx context.Context, config *Config) (db *gorm.DB, rCache *redisCache.RedisCache, err error) {
	// initialize database
	models := append(bookingRepo.Models(), &domain.Customer{}, &domain.Message{})
	db, err = postgresql.Initialize(config.DbConnString, models)
	if err != nil {
		return
	}

	// initialize cache
	rCache, err = redisCache.NewRedisCache(ctx, config.RedisAddr)

	return
}

func initEventBus(logger *slog.Logger, config *Config) messaging.EventPublisher {
	if config.RabbitUrl == "" {
		return noop.Publisher{}
	}
	pub, err := rabbitmq.NewPublisher(config.RabbitUrl, config.RabbitExchange)
	if err != nil {
		logger.Error("event bus unavailable, events are not mirrored", "error", err.Error())
		return noop.Publisher{}
	}
	logger.Info("mirroring events to rabbitmq", "exchange", config.RabbitExchange)
	return pub
}

func configureEndpoint(logger *slog.Logger, name, url string, configure func(string) error) {
	if url == "" {
		return
	}
	if err := configure(url); err != nil {
		logger.Error("invalid webhook url in config", "webhook", name, "error", err.Error())
	}
}
