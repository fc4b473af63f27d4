package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"yt-ingest/chapters"
	"yt-ingest/chunking"
	"yt-ingest/config"
	"yt-ingest/extraction"
	"yt-ingest/handlers"
	"yt-ingest/logger"
	"yt-ingest/providers/generic"
	"yt-ingest/providers/media"
	"yt-ingest/providers/youtube"
	"yt-ingest/ratelimit"
	"yt-ingest/repository/sqlite"
	"yt-ingest/storage"
	"yt-ingest/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.LogDir, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := sqlite.InitDB(cfg.Database.Path, sqlite.DBConfig{
		MaxConnections:     cfg.Database.MaxConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repo, err := sqlite.NewRepository(db)
	if err != nil {
		log.Fatalf("Failed to initialize repository: %v", err)
	}

	validator := validation.NewValidator()
	gate := ratelimit.NewGate("youtube", cfg.RateGate.MinInterval, appLogger)

	metadataProviders := []extraction.MetadataProvider{
		youtube.NewMetadataProvider(cfg.Providers.YouTubeAPIKey, appLogger),
		generic.NewMetadataProvider(cfg.Extraction.MetadataTimeout, appLogger),
	}
	captions := youtube.NewCaptionSource(cfg.Extraction.CaptionTimeout, appLogger)
	downloader := media.NewDownloader(cfg.Providers.YTDLPPath, cfg.AudioDir, appLogger)
	transcriber := media.NewTranscriber(cfg.Providers.WhisperPath, cfg.Providers.WhisperModel, appLogger)

	var store extraction.AudioStore
	if cfg.Storage.Enabled {
		spaces, err := storage.NewSpacesClient(storage.SpacesConfig{
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Region:    cfg.Storage.Region,
			Endpoint:  cfg.Storage.Endpoint,
			Bucket:    cfg.Storage.Bucket,
		})
		if err != nil {
			log.Fatalf("Failed to initialize audio store: %v", err)
		}
		store = spaces
	}

	counter, err := chunking.NewTokenCounter()
	if err != nil {
		appLogger.Warn().Err(err).Msg("Token counter unavailable, falling back to rune counting")
	}
	engineCfg := chunking.Config{
		Gate: chapters.Gate{
			MinChapters: cfg.Chunking.MinChapters,
			MinDuration: cfg.Chunking.MinChapterDuration,
			MinCoverage: cfg.Chunking.MinChapterCoverage,
		},
		ChunkSize: cfg.Chunking.ChunkSize,
		Overlap:   cfg.Chunking.Overlap,
	}
	if counter != nil {
		engineCfg.Counter = counter
	}
	engine := chunking.NewEngine(engineCfg)

	service := extraction.NewService(
		repo,
		validator,
		gate,
		metadataProviders,
		captions,
		downloader,
		transcriber,
		store,
		engine,
		extraction.Config{
			LanguagePriority:  cfg.Extraction.LanguagePriority,
			MaxDuration:       cfg.Extraction.MaxDuration,
			MetadataTimeout:   cfg.Extraction.MetadataTimeout,
			CaptionTimeout:    cfg.Extraction.CaptionTimeout,
			DownloadTimeout:   cfg.Extraction.DownloadTimeout,
			TranscribeTimeout: cfg.Extraction.TranscribeTimeout,
			ArchiveAudio:      cfg.Extraction.ArchiveAudio,
		},
		appLogger,
	)

	queue := extraction.NewJobQueue(service, cfg.Extraction.WorkerCount, cfg.Extraction.QueueSize, appLogger)
	queue.Start()
	defer queue.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		IdleTimeout:           cfg.IdleTimeout,
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: !cfg.Debug,
		StrictRouting:         true,
		CaseSensitive:         true,
		AppName:               "yt-ingest",
	})

	setupMiddleware(app, cfg)

	contentHandler := handlers.NewContentHandler(queue, service)
	app.Post("/api/extract", contentHandler.Extract)
	app.Get("/api/content/:id", contentHandler.GetContent)
	app.Get("/health", handlers.HealthCheck)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-shutdownChan
		appLogger.Info().Msg("Shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			appLogger.Error().Err(err).Msg("Server shutdown error")
		}
	}()

	serverAddr := ":" + cfg.ServerPort
	appLogger.Info().Str("addr", serverAddr).Msg("Server starting")

	if err := app.Listen(serverAddr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

func setupMiddleware(app *fiber.App, cfg *config.Config) {
	app.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.Debug,
	}))

	app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return uuid.New().String()
		},
	}))

	if cfg.RateLimit.Enabled {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit.RequestsPerMinute,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Rate limit exceeded",
				})
			},
		}))
	}

	app.Use(compress.New())
}
