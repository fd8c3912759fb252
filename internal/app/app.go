package app

import (
	"context"
	"net/http"
	"time"

	"github.com/iwtcode/bambuService/internal/adapters/handlers"
	"github.com/iwtcode/bambuService/internal/adapters/repositories/memory"
	"github.com/iwtcode/bambuService/internal/adapters/repositories/postgres"
	"github.com/iwtcode/bambuService/internal/config"
	"github.com/iwtcode/bambuService/internal/interfaces"
	"github.com/iwtcode/bambuService/internal/middleware/logging"
	"github.com/iwtcode/bambuService/internal/middleware/swagger"
	"github.com/iwtcode/bambuService/internal/services/bambu_service"
	"github.com/iwtcode/bambuService/internal/services/ftp_service"
	"github.com/iwtcode/bambuService/internal/services/kafka"
	"github.com/iwtcode/bambuService/internal/services/mqtt_service"
	"github.com/iwtcode/bambuService/internal/services/obs_service"
	"github.com/iwtcode/bambuService/internal/usecases"

	"go.uber.org/fx"
)

// New создает новый экземпляр fx.App
func New() *fx.App {
	return fx.New(
		ConfigModule,
		LoggingModule,
		RepositoryModule,
		ProducerModule,
		CompositorModule,
		TransportModule,
		ServiceModule,
		UsecaseModule,
		HttpServerModule,
		// Invoke-функции для запуска фоновых задач и хуков жизненного цикла
		fx.Invoke(InvokeCompositor),
		fx.Invoke(InvokeTelemetry),
	)
}

// --- Модули FX ---

var ConfigModule = fx.Module("config_module",
	fx.Provide(config.LoadConfiguration),
)

func ProvideLogger(cfg *config.AppConfig) *logging.Logger {
	loggerCfg := &logging.Config{
		Enabled:    cfg.Logging.Enable,
		Level:      cfg.Logging.Level,
		LogsDir:    cfg.Logging.LogsDir,
		SavingDays: uint(cfg.Logging.SavingDays),
	}
	return logging.NewLogger(loggerCfg, "BambuServiceApp")
}

var LoggingModule = fx.Module("logging_module",
	fx.Provide(ProvideLogger),
)

// ProvideRepository выбирает хранилище истории заданий: Postgres при
// DB_ENABLE=true, иначе резервное хранилище в памяти.
func ProvideRepository(cfg *config.AppConfig, logger *logging.Logger) (interfaces.PrintJobRepository, error) {
	if cfg.Database.Enable {
		return postgres.NewRepository(cfg, logger)
	}
	logger.Info("Database is disabled, using in-memory job history")
	return memory.NewRepository(), nil
}

var RepositoryModule = fx.Module("repository_module",
	fx.Provide(ProvideRepository),
)

// ProvideProducer выбирает издателя телеметрии: Kafka при KAFKA_ENABLE=true,
// иначе заглушка.
func ProvideProducer(cfg *config.AppConfig) (interfaces.TelemetryPublisher, error) {
	if cfg.Kafka.Enable {
		return kafka.NewKafkaProducer(cfg)
	}
	return kafka.NewNoopProducer(), nil
}

var ProducerModule = fx.Module("producer_module",
	fx.Provide(ProvideProducer),
)

var CompositorModule = fx.Module("compositor_module",
	fx.Provide(
		obs_service.NewObsClient,
		obs_service.NewOverlayRegistry,
	),
)

var TransportModule = fx.Module("transport_module",
	fx.Provide(
		mqtt_service.NewMqttTransport,
		ftp_service.NewFtpStore,
	),
)

// ProvideShutdown оборачивает fx.Shutdowner в функцию остановки приложения.
func ProvideShutdown(sh fx.Shutdowner, logger *logging.Logger) bambu_service.ShutdownFunc {
	return func() {
		if err := sh.Shutdown(); err != nil {
			logger.Error("Failed to request shutdown", "error", err)
		}
	}
}

var ServiceModule = fx.Module("service_module",
	fx.Provide(
		ProvideShutdown,
		bambu_service.NewBambuService,
	),
)

var UsecaseModule = fx.Module("usecases_module",
	fx.Provide(usecases.NewUsecases),
)

func NewSwaggerConfig() *swagger.Config {
	return &swagger.Config{
		Enabled: true,
		Path:    "/swagger",
	}
}

var HttpServerModule = fx.Module("http_server_module",
	fx.Provide(
		NewSwaggerConfig,
		handlers.NewHandler,
		handlers.ProvideRouter,
	),
	fx.Invoke(InvokeHttpServer),
)

// InvokeCompositor подключается к OBS и инициализирует оверлей.
// В режиме дампа сцена логируется и приложение завершается.
func InvokeCompositor(
	lc fx.Lifecycle,
	cfg *config.AppConfig,
	obs interfaces.Compositor,
	svc interfaces.BambuService,
	sh fx.Shutdowner,
	logger *logging.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := obs.Connect(); err != nil {
				logger.Error("FATAL: Failed to connect to OBS. Is OBS Studio running with websocket enabled?", "error", err)
				return err
			}

			if cfg.App.DumpSceneAndExit {
				if err := svc.DumpSceneItems(); err != nil {
					logger.Error("Failed to dump scene items", "error", err)
				}
				return sh.Shutdown()
			}

			if err := svc.InitializeOverlay(); err != nil {
				logger.Error("FATAL: Failed to initialize OBS inputs. Is your OBS Studio setup correctly?", "error", err)
				return err
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return obs.Disconnect()
		},
	})
}

// InvokeTelemetry подключается к принтеру и запускает цикл обработки.
func InvokeTelemetry(
	lc fx.Lifecycle,
	cfg *config.AppConfig,
	transport interfaces.PrinterTransport,
	producer interfaces.TelemetryPublisher,
	svc interfaces.BambuService,
	logger *logging.Logger,
) {
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.App.DumpSceneAndExit {
				return nil
			}
			if err := transport.Connect(); err != nil {
				logger.Error("FATAL: Failed to connect to printer. Check your connection settings.", "error", err)
				return err
			}
			go func() {
				if err := svc.Run(runCtx); err != nil && runCtx.Err() == nil {
					logger.Error("Telemetry loop stopped unexpectedly", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			transport.Disconnect()
			if err := producer.Close(); err != nil {
				logger.Warn("Failed to close telemetry publisher", "error", err)
			}
			return nil
		},
	})
}

// InvokeHttpServer запускает HTTP-сервер.
func InvokeHttpServer(lc fx.Lifecycle, cfg *config.AppConfig, h http.Handler, logger *logging.Logger) {
	serverAddr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("HTTP Server is starting", "address", serverAddr)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("Failed to start server", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}
