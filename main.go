package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"sjsage522/upworkscanner/config"
	"sjsage522/upworkscanner/helpers"
	"sjsage522/upworkscanner/internal"
	"sjsage522/upworkscanner/internal/browser"
	"sjsage522/upworkscanner/internal/login"
	"sjsage522/upworkscanner/internal/models"
	"sjsage522/upworkscanner/internal/scanner"
	"sjsage522/upworkscanner/logger"
	"sjsage522/upworkscanner/services/cache"
	"sjsage522/upworkscanner/services/publisher"
	"sjsage522/upworkscanner/services/storage"
	"sjsage522/upworkscanner/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	os.Exit(runMain())
}

func runMain() int {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		return 1
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("run_mode", string(cfg.RunMode)).
		Str("persist_mode", string(cfg.PersistMode)).
		Msg("Starting application")

	// Cancel the run on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, err := browser.NewPlaywrightDriver(ctx, browser.PlaywrightOptions{
		Headless:           cfg.Headless,
		Proxy:              cfg.BrowserProxy,
		ActionTimeout:      cfg.StandardTimeout,
		NavigationInterval: cfg.NavigationInterval,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to start browser")
		return 1
	}
	defer func() {
		if err := driver.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close browser")
		}
	}()

	services := initializeServices(ctx, &cfg)
	defer services.Cleanup()

	if err := run(ctx, &cfg, driver, services); err != nil {
		log.Error().Err(err).Msg("Run failed")
		return 1
	}
	log.Info().Msg("Run completed")
	return 0
}

// run logs driver in and scans the homepage and the profile once
func run(ctx context.Context, cfg *config.Config, driver browser.Driver, services *Services) error {
	session := browser.NewSession(driver, cfg.Credentials, cfg.Site, browser.Timeouts{
		Standard: cfg.StandardTimeout,
		Presence: cfg.PresenceTimeout,
	})

	store := storage.NewStore(cfg.DataDir, cfg.PersistMode)
	deps := internal.Dependencies{
		Publisher: services.Publisher,
		Recorder:  storage.NewRecorder(filepath.Join(cfg.DataDir, "runs")),
		ErrorLog:  helpers.NewLogger(cfg.ErrorLogFile),
	}
	if services.Cache != nil {
		deps.Seen = cache.NewSeenSet(services.Cache, cfg.SeenTTL)
	}

	// nil interfaces stay nil when no debug directory is configured
	var snapshots scanner.Snapshotter
	if cfg.DebugDir != "" {
		debug := storage.NewSnapshotStore(cfg.DebugDir)
		snapshots = debug
		deps.Screenshots = debug
	}

	opts := models.Options{SplitFullName: cfg.SplitFullName, CountryCodes: cfg.CountryCodes}
	scanners := []scanner.Scanner{
		scanner.NewHomepageScanner(store, snapshots),
		scanner.NewProfileScanner(store, snapshots, opts),
	}

	w := worker.NewWorker(session, login.NewFlow(session), scanners, deps, worker.Options{
		Mode: cfg.RunMode,
		Retry: helpers.RetryPolicy{
			Attempts:   cfg.RetryAttempts,
			Delay:      cfg.RetryDelay,
			Multiplier: cfg.RetryMultiplier,
		},
		Environment: cfg.Environment,
	})
	return w.Run(ctx)
}

// Services holds the optional external services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices connects to the configured services. An unreachable
// service is logged and left out of the run.
func initializeServices(ctx context.Context, cfg *config.Config) *Services {
	services := &Services{}

	if cfg.MemcacheAddr != "" {
		mc := cache.NewMemcacheService(cfg.MemcacheAddr)
		if err := mc.Ping(); err != nil {
			logger.Warn("Memcache at %s is not reachable, publishing every listing: %v", cfg.MemcacheAddr, err)
		} else {
			services.Cache = mc
			logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
		}
	}

	if cfg.RedisAddr != "" {
		redisPublisher := publisher.NewRedisPublisher(ctx, publisher.RedisOptions{
			Addr:            cfg.RedisAddr,
			DB:              cfg.RedisDB,
			Stream:          cfg.RedisStream,
			StreamCount:     cfg.RedisStreamCount,
			StreamMaxLength: cfg.RedisStreamMaxLength,
		})
		if err := redisPublisher.Ping(); err != nil {
			logger.Warn("Redis at %s is not reachable, results will not be published: %v", cfg.RedisAddr, err)
			redisPublisher.Close()
		} else {
			services.Publisher = redisPublisher
			logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
				cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
		}
	}

	return services
}
