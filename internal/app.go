package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KvizadSaderah/bg-real-estate-finder/internal/adapters/filestorage"
	logger_adapter "github.com/KvizadSaderah/bg-real-estate-finder/internal/adapters/logger"
	"github.com/KvizadSaderah/bg-real-estate-finder/internal/adapters/luximmofetcher"
	postgres_adapter "github.com/KvizadSaderah/bg-real-estate-finder/internal/adapters/postgres"
	rabbitmq_adapter "github.com/KvizadSaderah/bg-real-estate-finder/internal/adapters/rabbitmq"
	"github.com/KvizadSaderah/bg-real-estate-finder/internal/adapters/sink"
	"github.com/KvizadSaderah/bg-real-estate-finder/internal/configs"
	"github.com/KvizadSaderah/bg-real-estate-finder/internal/constants"
	"github.com/KvizadSaderah/bg-real-estate-finder/internal/contextkeys"
	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/domain"
	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/port"
	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/usecase"
	fluentlogger "github.com/KvizadSaderah/bg-real-estate-finder/pkg/fluent_logger"
	"github.com/KvizadSaderah/bg-real-estate-finder/pkg/postgres"
	"github.com/KvizadSaderah/bg-real-estate-finder/pkg/rabbitmq/rabbitmq_common"
	"github.com/KvizadSaderah/bg-real-estate-finder/pkg/rabbitmq/rabbitmq_producer"
)

// App – структура приложения
type App struct {
	config *configs.AppConfig
	logger port.LoggerPort

	fluentClient  *fluent.Fluent
	dbPool        *pgxpool.Pool
	eventProducer *rabbitmq_producer.Publisher
	listingSink   port.ListingSinkPort

	collectLinksUC    *usecase.CollectLinksUseCase
	processListingsUC *usecase.ProcessListingsUseCase
}

// NewApp создает новый экземпляр приложения.
// Это "Composition Root", где все зависимости создаются и связываются.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogLevel),
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	// Добавляем Fluent Bit логгер, если он включен в конфигурации
	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}
		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			return nil, fmt.Errorf("failed to create fluent logger adapter: %w", err)
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	appLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multilogger: %w", err)
	}

	// 2. ИНИЦИАЛИЗАЦИЯ ИСХОДЯЩИХ АДАПТЕРОВ
	luximmoAdapter := luximmofetcher.NewLuximmoFetcherAdapter(
		appConfig.Scraper.MapBaseURL,
		appConfig.Scraper.PageBaseURL,
		appConfig.Scraper.UserAgent,
		appConfig.Scraper.WorkerCount,
		appConfig.Scraper.RequestTimeout,
		constants.NotFoundTitlePhrases,
		appConfig.Scraper.DebugDir,
	)
	appLogger.Info("Luximmo fetcher adapter initialized.", nil)

	// Файловый приемник обязателен: без выходного артефакта запуск
	// не имеет смысла, это единственная фатальная ошибка настройки.
	fileSink, err := filestorage.NewListingFileSink(appConfig.Scraper.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file sink: %w", err)
	}
	sinks := []port.ListingSinkPort{fileSink}

	// Постоянное хранилище подключается только при заданном DATABASE_URL
	var dbPool *pgxpool.Pool
	if appConfig.Database.URL != "" {
		dbPool, err = postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
		if err != nil {
			_ = fileSink.Close()
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		pgSink, err := postgres_adapter.NewPostgresListingSink(dbPool)
		if err != nil {
			_ = fileSink.Close()
			dbPool.Close()
			return nil, fmt.Errorf("failed to create postgres sink: %w", err)
		}
		sinks = append(sinks, pgSink)
		appLogger.Info("PostgreSQL sink initialized.", nil)
	}

	// Публикация готовых записей в обменник — только при заданном RABBITMQ_URL
	var eventProducer *rabbitmq_producer.Publisher
	if appConfig.RabbitMQ.URL != "" {
		producerCfg := rabbitmq_producer.PublisherConfig{
			Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			ExchangeName:             constants.ExchangeName,
			ExchangeType:             constants.ExchangeType,
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
		}
		eventProducer, err = rabbitmq_producer.NewPublisher(producerCfg)
		if err != nil {
			_ = fileSink.Close()
			if dbPool != nil {
				dbPool.Close()
			}
			return nil, fmt.Errorf("failed to create event producer: %w", err)
		}
		queueSink, err := rabbitmq_adapter.NewRabbitMQProcessedListingQueueAdapter(eventProducer, constants.RoutingKeyProcessedListings)
		if err != nil {
			_ = fileSink.Close()
			if dbPool != nil {
				dbPool.Close()
			}
			_ = eventProducer.Close()
			return nil, fmt.Errorf("failed to create rabbitmq sink: %w", err)
		}
		sinks = append(sinks, queueSink)
		appLogger.Info("RabbitMQ sink initialized.", nil)
	}

	listingSink, err := sink.NewMultiSinkAdapter(sinks...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi sink: %w", err)
	}

	// 3. ИНИЦИАЛИЗАЦИЯ USE CASES
	collectLinksUC := usecase.NewCollectLinksUseCase(luximmoAdapter)
	processListingsUC := usecase.NewProcessListingsUseCase(luximmoAdapter, listingSink, appConfig.Scraper.WorkerCount)
	appLogger.Info("All use cases initialized.", nil)

	return &App{
		config:            appConfig,
		logger:            appLogger,
		fluentClient:      fluentClient,
		dbPool:            dbPool,
		eventProducer:     eventProducer,
		listingSink:       listingSink,
		collectLinksUC:    collectLinksUC,
		processListingsUC: processListingsUC,
	}, nil
}

// Run запускает обе фазы и управляет их жизненным циклом.
// SIGINT/SIGTERM отменяют контекст; обе фазы проверяют отмену на своих
// границах итераций, поэтому все записанное до сигнала остается на диске.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runLogger := a.logger.WithFields(port.Fields{
		"run_id": uuid.NewString(),
	})
	ctx = contextkeys.ContextWithLogger(ctx, runLogger)

	defer func() {
		if err := a.listingSink.Close(); err != nil {
			runLogger.Error("Error closing listing sink", err, nil)
		}
		if a.eventProducer != nil {
			if err := a.eventProducer.Close(); err != nil {
				runLogger.Error("Error closing event producer", err, nil)
			}
		}
		if a.dbPool != nil {
			a.dbPool.Close()
		}
		if a.fluentClient != nil {
			_ = a.fluentClient.Close()
		}
		runLogger.Info("Application shut down gracefully.", nil)
	}()

	runLogger.Info("Application is starting...", port.Fields{
		"output":  a.config.Scraper.OutputPath,
		"workers": a.config.Scraper.WorkerCount,
	})

	bounds := domain.SearchBounds{
		Country: a.config.Scraper.Country,
		Lat1:    a.config.Scraper.Lat1,
		Lat2:    a.config.Scraper.Lat2,
		Lon1:    a.config.Scraper.Lon1,
		Lon2:    a.config.Scraper.Lon2,
	}

	// Фаза 1: сбор ссылок
	links, err := a.collectLinksUC.Execute(ctx, bounds, a.config.Scraper.MaxPages)
	if err != nil {
		return fmt.Errorf("link collection failed: %w", err)
	}

	if ctx.Err() != nil {
		runLogger.Warn("Run interrupted during link collection.", port.Fields{
			"links_collected": len(links),
		})
		return nil
	}

	// Фаза 2: обработка карточек
	stats, err := a.processListingsUC.Execute(ctx, links)
	if err != nil {
		return fmt.Errorf("listing processing failed: %w", err)
	}

	if ctx.Err() != nil {
		runLogger.Warn("Run interrupted during listing processing.", port.Fields{
			"saved": stats.Saved,
		})
		return nil
	}

	runLogger.Info("Run finished.", port.Fields{
		"links_total": stats.Total,
		"saved":       stats.Saved,
		"not_found":   stats.NotFound,
		"failed":      stats.Failed,
	})
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
