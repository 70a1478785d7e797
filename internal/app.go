package internal

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bbbmagic-coder/rabat-property-tracker/internal/adapters/aisearch"
	postgres_adapter "github.com/bbbmagic-coder/rabat-property-tracker/internal/adapters/postgres"
	rabbitmq_adapter "github.com/bbbmagic-coder/rabat-property-tracker/internal/adapters/rabbitmq"
	"github.com/bbbmagic-coder/rabat-property-tracker/internal/adapters/rssfeed"
	"github.com/bbbmagic-coder/rabat-property-tracker/internal/adapters/searchapi"
	"github.com/bbbmagic-coder/rabat-property-tracker/internal/configs"
	"github.com/bbbmagic-coder/rabat-property-tracker/internal/constants"
	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/port"
	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/usecase"
	"github.com/bbbmagic-coder/rabat-property-tracker/pkg/postgres"
	"github.com/bbbmagic-coder/rabat-property-tracker/pkg/rabbitmq/rabbitmq_common"
	"github.com/bbbmagic-coder/rabat-property-tracker/pkg/rabbitmq/rabbitmq_consumer"
	"github.com/bbbmagic-coder/rabat-property-tracker/pkg/rabbitmq/rabbitmq_producer"
)

// App holds every wired component of the tracker.
type App struct {
	config        *configs.AppConfig
	dbPool        *pgxpool.Pool
	eventProducer *rabbitmq_producer.Publisher

	runIngestionUseCase *usecase.RunIngestionUseCase

	runTriggerListener port.EventListenerPort
}

// NewApp is the composition root: every dependency is created and wired here.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	log.Println("Successfully connected to PostgreSQL pool!")

	if err := postgres_adapter.EnsureSchema(context.Background(), dbPool); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	producerCfg := rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		ExchangeName:             constants.ExchangeName,
		ExchangeType:             "direct",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
	}
	eventProducer, err := rabbitmq_producer.NewPublisher(producerCfg)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}
	log.Println("RabbitMQ Event Producer initialized.")

	// Outgoing adapters.
	catalogAdapter, err := postgres_adapter.NewCatalogAdapter(dbPool)
	if err != nil {
		eventProducer.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to create catalog adapter: %w", err)
	}
	runLogRepo, err := postgres_adapter.NewRunLogRepository(dbPool)
	if err != nil {
		eventProducer.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to create run log repository: %w", err)
	}
	propertyEventsAdapter, err := rabbitmq_adapter.NewPropertyEventsQueueAdapter(eventProducer, constants.RoutingKeyPropertyCreated)
	if err != nil {
		eventProducer.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to create property events adapter: %w", err)
	}

	// Source adapters.
	completer := aisearch.NewOpenAICompleter(appConfig.LLM.APIKey, appConfig.LLM.BaseURL, appConfig.LLM.Model)
	sources := []port.SourceAdapterPort{
		aisearch.NewAdapter(completer),
		rssfeed.NewAdapter(appConfig.UserAgent),
	}
	if appConfig.SearchAPI.URL != "" {
		sources = append(sources, searchapi.NewAdapter(appConfig.SearchAPI.URL, appConfig.SearchAPI.Key, appConfig.UserAgent))
	} else {
		log.Println("SEARCH_API_URL not set, search-API source disabled.")
	}
	log.Println("All outgoing adapters initialized.")

	// Use cases.
	resolver := usecase.NewDeveloperResolver(catalogAdapter)
	ingestUseCase := usecase.NewIngestCandidateUseCase(catalogAdapter, resolver, propertyEventsAdapter)
	runUseCase := usecase.NewRunIngestionUseCase(
		sources,
		constants.GetSourceDescriptors(),
		ingestUseCase,
		runLogRepo,
		constants.SourceDelay,
	)
	log.Println("All use cases initialized.")

	// Incoming adapters.
	triggerConsumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:              rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		QueueName:           constants.QueueRunTriggers,
		RoutingKeyForBind:   constants.RoutingKeyRunTriggers,
		ExchangeNameForBind: constants.ExchangeName,
		PrefetchCount:       1,
		DurableQueue:        true,
		ConsumerTag:         "run-trigger-adapter",
		DeclareQueue:        true,
	}
	triggerListener, err := rabbitmq_adapter.NewRunTriggerConsumerAdapter(triggerConsumerCfg, runUseCase)
	if err != nil {
		eventProducer.Close()
		dbPool.Close()
		return nil, err
	}
	log.Println("Run Trigger Listener initialized.")

	return &App{
		config:              appConfig,
		dbPool:              dbPool,
		eventProducer:       eventProducer,
		runIngestionUseCase: runUseCase,
		runTriggerListener:  triggerListener,
	}, nil
}

// startScheduler performs one run at startup, then one per configured
// interval until the context is cancelled.
func (a *App) startScheduler(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	interval := time.Duration(a.config.Search.IntervalMin) * time.Minute
	log.Printf("App: Scheduler started, running every %s.\n", interval)

	runOnce := func() {
		summary, err := a.runIngestionUseCase.Execute(ctx)
		if err != nil {
			log.Printf("App: Scheduled run failed: %v\n", err)
			return
		}
		log.Printf("App: Scheduled run done: %s\n", summary.Message)
	}

	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("App: Scheduler stopped.")
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

// Run starts every component and manages the application lifecycle.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	var wg sync.WaitGroup

	defer func() {
		log.Println("App: Shutdown sequence initiated...")

		log.Println("App: Waiting for background processes to finish...")
		wg.Wait()
		log.Println("App: All background processes finished.")

		if a.runTriggerListener != nil {
			if err := a.runTriggerListener.Close(); err != nil {
				log.Printf("App: Error closing run trigger listener: %v\n", err)
			}
		}
		if a.eventProducer != nil {
			if err := a.eventProducer.Close(); err != nil {
				log.Printf("App: Error closing event producer: %v\n", err)
			}
		}
		if a.dbPool != nil {
			a.dbPool.Close()
			log.Println("App: PostgreSQL pool closed.")
		}
		log.Println("Application shut down gracefully.")
	}()

	log.Println("Application is starting...")

	wg.Add(1)
	go a.startScheduler(appCtx, &wg)

	consumerErrors := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Println("App: Starting Run Trigger Listener...")
		if err := a.runTriggerListener.Start(appCtx); err != nil {
			log.Printf("App: Run Trigger Listener stopped with an unexpected error: %v", err)
			consumerErrors <- fmt.Errorf("run trigger listener error: %w", err)
		} else {
			log.Println("App: Run Trigger Listener stopped gracefully due to context cancellation.")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("Application running. Waiting for signals or consumer error...")
	select {
	case receivedSignal := <-quit:
		log.Printf("App: Received signal: %s. Shutting down...\n", receivedSignal)
	case err := <-consumerErrors:
		log.Printf("App: A critical component failed: %v. Shutting down...\n", err)
	case <-appCtx.Done():
		log.Println("App: Context was cancelled unexpectedly. Shutting down...")
	}

	cancelApp()

	return nil
}
