// Command ingest_documents loads hiring guideline PDFs into the Qdrant
// collection used when RAG_ENABLED=true.
//
//	go run ./scripts/ingest_documents.go guidelines/*.pdf
//
// Without arguments every PDF under ./reference_docs is ingested.
package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"resumeagent/resume-agent/internal/config"
	"resumeagent/resume-agent/internal/logger"
	"resumeagent/resume-agent/internal/models"
	"resumeagent/resume-agent/internal/services"
)

const (
	chunkSize    = 1000
	chunkOverlap = 200
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log.Info().Msg("🚀 Starting guideline ingestion...")

	paths := os.Args[1:]
	if len(paths) == 0 {
		var err error
		paths, err = filepath.Glob("./reference_docs/*.pdf")
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to list reference_docs")
		}
	}
	if len(paths) == 0 {
		log.Fatal().Msg("❌ No guideline PDFs given")
	}

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize Gemini")
	}

	store, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize Qdrant")
	}

	ctx := context.Background()
	if err := store.InitCollection(ctx); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize collection")
	}

	pdfParser := services.NewPDFParserService()
	chunker := services.NewTextChunker()

	successCount := 0
	failCount := 0

	for _, path := range paths {
		source := filepath.Base(path)
		docLog := log.With().Str("source", source).Logger()

		if !models.IsPDF(path, "") {
			docLog.Warn().Msg("⚠️ Not a PDF, skipping")
			failCount++
			continue
		}

		content, err := pdfParser.ExtractText(path)
		if err != nil {
			docLog.Error().Err(err).Msg("❌ Failed to extract text")
			failCount++
			continue
		}
		docLog.Info().Int("pages", content.PageCount).Int("chars", len(content.Text)).Msg("📖 Extracted text")

		chunks := chunker.ChunkText(services.CleanText(content.Text), chunkSize, chunkOverlap)
		docLog.Info().Int("chunks", len(chunks)).Msg("✂️ Chunked text")

		stored := 0
		for i, chunk := range chunks {
			embedding, err := geminiService.GenerateEmbedding(ctx, chunk)
			if err != nil {
				docLog.Error().Err(err).Int("chunk", i+1).Msg("❌ Failed to generate embedding")
				continue
			}

			if err := store.UpsertChunk(ctx, source, i, chunk, embedding); err != nil {
				docLog.Error().Err(err).Int("chunk", i+1).Msg("❌ Failed to store chunk")
				continue
			}
			stored++

			if (i+1)%5 == 0 || i == len(chunks)-1 {
				docLog.Info().Msgf("📊 Progress: %d/%d chunks stored", i+1, len(chunks))
			}
		}

		if stored < len(chunks) {
			docLog.Warn().Int("stored", stored).Int("chunks", len(chunks)).Msg("⚠️ Some chunks were not stored")
			failCount++
			continue
		}

		docLog.Info().Msg("✅ Ingested")
		successCount++
	}

	log.Info().Msg(strings.Repeat("=", 60))
	log.Info().Int("successful", successCount).Int("failed", failCount).Msg("📊 Ingestion summary")

	if failCount > 0 {
		log.Warn().Msg("⚠️ Some documents failed to ingest. Please check the logs above.")
		os.Exit(1)
	}

	log.Info().Msg("✅ All documents ingested successfully!")
}
