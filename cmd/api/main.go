package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"noblejade/internal/api"
	"noblejade/internal/config"
	"noblejade/internal/domain"
	"noblejade/internal/events"
	"noblejade/internal/export"
	"noblejade/internal/google"
	"noblejade/internal/logging"
	"noblejade/internal/metrics"
	"noblejade/internal/models"
	"noblejade/internal/notify"
	"noblejade/internal/repository"
	"noblejade/internal/service"
	"noblejade/internal/store"
	"noblejade/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	if !cfg.API.Enabled {
		logger.Warn().Msg("API is disabled in config, but starting API application. Check your config.")
	}

	recordStore := initStore(cfg, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := seedCalculatorSettings(ctx, recordStore, &logger); err != nil {
		return err
	}

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	bus := events.NewEventBus()
	initTelegram(cfg, bus, &logger)

	syncWorker := initSyncWorker(ctx, cfg, recordStore, redisClient, &logger)

	svc := buildServices(cfg, recordStore, redisClient, bus, syncWorker, &logger)
	httpServer := api.NewHTTPServer(cfg.API, svc, &logger)

	startMetrics(ctx, cfg, &logger)

	return startServers(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

func initStore(cfg *config.Config, logger *zerolog.Logger) store.RecordStore {
	client := store.NewClient(cfg.Store.URL, time.Duration(cfg.Store.TimeoutSeconds)*time.Second, logger)
	if cfg.Store.Token != "" {
		client.SetToken(cfg.Store.Token)
	}
	logger.Info().Str("url", cfg.Store.URL).Msg("record store configured")
	return client
}

// seedCalculatorSettings creates pricing parameters from the seed file
// that are not in the store yet. Existing values are never overwritten.
func seedCalculatorSettings(ctx context.Context, recordStore store.RecordStore, logger *zerolog.Logger) error {
	seedPath := os.Getenv("CALCULATOR_SEED_PATH")
	if seedPath == "" {
		seedPath = "configs/calculator_settings.yaml"
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info().Str("seed_path", seedPath).Msg("no calculator seed file, skipping")
			return nil
		}
		return fmt.Errorf("read calculator seed: %w", err)
	}

	var seed struct {
		Settings []models.CalculatorSetting `yaml:"settings"`
	}
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse calculator seed: %w", err)
	}
	if err := config.ValidateCalculatorSettings(seed.Settings); err != nil {
		return err
	}

	created := 0
	for _, s := range seed.Settings {
		filter := fmt.Sprintf("key = %q", s.Key)
		_, err := recordStore.GetFirst(ctx, models.CollectionCalculatorSettings, filter, store.ListOptions{})
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("check calculator setting %s: %w", s.Key, err)
		}

		_, err = recordStore.Create(ctx, models.CollectionCalculatorSettings, map[string]any{
			"key":         s.Key,
			"label":       s.Label,
			"value":       s.Value,
			"category":    s.Category,
			"description": s.Description,
			"sortOrder":   s.SortOrder,
		})
		if err != nil {
			return fmt.Errorf("seed calculator setting %s: %w", s.Key, err)
		}
		created++
	}

	logger.Info().Int("created", created).Int("total", len(seed.Settings)).Msg("calculator settings seeded")
	return nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

func initTelegram(cfg *config.Config, bus *events.EventBus, logger *zerolog.Logger) {
	if cfg.Telegram.BotToken == "" {
		logger.Info().Msg("telegram notifications disabled")
		return
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, continuing without notifications")
		return
	}
	bot.Debug = cfg.Telegram.Debug

	notifier := notify.NewTelegramNotifier(bot, cfg.Telegram.ChatIDs, logger)
	notifier.Register(bus)
	logger.Info().Str("bot", bot.Self.UserName).Int("chats", len(cfg.Telegram.ChatIDs)).Msg("telegram notifier registered")
}

func initSyncWorker(ctx context.Context, cfg *config.Config, recordStore store.RecordStore, redisClient *redis.Client, logger *zerolog.Logger) *worker.SyncWorker {
	sheetsService := initGoogleSheets(cfg, logger)
	if sheetsService == nil {
		return nil
	}

	retry := worker.RetryPolicy{
		MaxRetries:    cfg.Worker.MaxRetries,
		InitialDelay:  time.Duration(cfg.Worker.InitialDelaySeconds) * time.Second,
		MaxDelay:      time.Duration(cfg.Worker.MaxDelaySeconds) * time.Second,
		BackoffFactor: cfg.Worker.BackoffFactor,
	}

	syncWorker := worker.NewSyncWorker(recordStore, sheetsService, redisClient, retry, logger)
	go syncWorker.Start(ctx)
	return syncWorker
}

func initGoogleSheets(cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if cfg.Google.CredentialsFile == "" || cfg.Google.BookingsSpreadsheetID == "" {
		return nil
	}

	sheetsService, err := google.NewSheetsService(cfg.Google.CredentialsFile, cfg.Google.BookingsSpreadsheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sheetsService.TestConnection(ctx); err != nil {
		logger.Warn().Err(err).Msg("google sheets unreachable, continuing without sheets")
		return nil
	}

	logger.Info().Msg("google sheets connected")
	return sheetsService
}

func buildServices(
	cfg *config.Config,
	recordStore store.RecordStore,
	redisClient *redis.Client,
	bus *events.EventBus,
	syncWorker *worker.SyncWorker,
	logger *zerolog.Logger,
) api.Services {
	var cache repository.KVCache = repository.NewMemoryCache()
	if redisClient != nil {
		cache = repository.NewFailoverCache(
			repository.NewRedisCache(redisClient, "settings"),
			repository.NewMemoryCache(),
			logger,
		)
	}

	var sync domain.SyncWorker = dropSync{logger: logger}
	if syncWorker != nil {
		sync = syncWorker
	}

	svc := api.Services{
		Bookings:  service.NewBookingService(recordStore, bus, sync, logger),
		Progress:  service.NewProgressService(recordStore, bus, logger),
		Quotes:    service.NewQuoteCalculator(recordStore, logger),
		Settings:  service.NewSettingsService(recordStore, cache, logger),
		Dashboard: service.NewDashboardService(recordStore, logger),
		Admin:     service.NewAdminService(recordStore, logger),
		Content:   service.NewContentService(recordStore, logger),
		Referrals: service.NewReferralService(recordStore, logger),
		Exporter:  export.NewExporter(recordStore, logger),
	}
	if syncWorker != nil {
		svc.Sync = syncWorker
	}
	return svc
}

// dropSync stands in when Sheets sync is not configured.
type dropSync struct {
	logger *zerolog.Logger
}

func (d dropSync) EnqueueTask(ctx context.Context, taskType string, bookingID string, booking *models.Booking, status string) error {
	d.logger.Debug().Str("type", taskType).Str("booking_id", bookingID).Msg("sheets sync disabled, task dropped")
	return nil
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServers(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if !cfg.API.HTTP.Enabled {
			return
		}
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
