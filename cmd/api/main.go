package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"resumeagent/resume-agent/internal/config"
	"resumeagent/resume-agent/internal/handlers"
	"resumeagent/resume-agent/internal/logger"
	"resumeagent/resume-agent/internal/repositories"
	"resumeagent/resume-agent/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log.Info().Str("env", cfg.Server.Env).Msg("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize database")
	}

	docRepo := repositories.NewDocumentRepository(db)
	analysisRepo := repositories.NewAnalysisRepository(db)
	log.Info().Msg("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal().Err(err).Str("path", cfg.Storage.UploadPath).Msg("❌ Failed to create upload directory")
	}

	pdfParser := services.NewPDFParserService()
	promptBuilder := services.NewPromptBuilder(cfg.Analysis.DefaultPrompt)

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize Gemini AI")
	}
	log.Info().Str("model", geminiService.ModelName()).Msg("✅ Gemini AI initialized successfully")

	// Guideline retrieval is optional
	var guidelines services.GuidelineStore
	if cfg.Qdrant.Enabled {
		qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to initialize Qdrant")
		}

		initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = qdrantService.InitCollection(initCtx)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to initialize Qdrant collection")
		}

		guidelines = qdrantService
		log.Info().Str("collection", cfg.Qdrant.Collection).Msg("✅ Qdrant initialized successfully")
	} else {
		log.Info().Msg("ℹ️ RAG disabled, analyses run without hiring guidelines")
	}

	analyzerService := services.NewAnalyzerService(
		analysisRepo,
		geminiService,
		guidelines,
		pdfParser,
		promptBuilder,
		cfg.Analysis.RetryMaxAttempts,
	)
	log.Info().Msg("✅ Services initialized successfully")

	// Initialize Handlers
	uploadHandler := handlers.NewUploadHandler(
		docRepo,
		storageService,
		analyzerService,
		cfg.Storage.MaxFileSize,
	)
	analysisHandler := handlers.NewAnalysisHandler(analysisRepo)

	// Create Fiber app. Analyses wait on the LLM, so writes get a long timeout.
	app := fiber.New(fiber.Config{
		AppName:      "Resume Agent API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute,
		// Two files plus the multipart envelope.
		BodyLimit:    int(2*cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	handlers.Register(app, uploadHandler, analysisHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("🛑 Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("❌ Server forced to shutdown")
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("🚀 Server starting")
	log.Info().Msgf("📖 Upload endpoint: http://localhost%s/upload", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to start server")
	}
}
