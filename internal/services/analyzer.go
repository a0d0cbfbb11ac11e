package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"resumeagent/resume-agent/internal/models"
	"resumeagent/resume-agent/internal/repositories"
)

const guidelineResults = 3

type AnalysisRequest struct {
	JobDocument    *models.Document
	ResumeDocument *models.Document
	Prompt         string
	// PromptMissing is set when the upload had no prompt field, as opposed to
	// an empty one. The default prompt is used instead.
	PromptMissing bool
}

type AnalyzerService interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*models.Analysis, error)
}

type analyzerService struct {
	analysisRepo  repositories.AnalysisRepository
	geminiService GeminiService
	guidelines    GuidelineStore
	pdfParser     PDFParserService
	promptBuilder *PromptBuilder
	maxRetries    int
}

// NewAnalyzerService wires the job/resume comparison. guidelines may be nil,
// in which case no retrieved context is added to the system prompt.
func NewAnalyzerService(
	analysisRepo repositories.AnalysisRepository,
	geminiService GeminiService,
	guidelines GuidelineStore,
	pdfParser PDFParserService,
	promptBuilder *PromptBuilder,
	maxRetries int,
) AnalyzerService {
	return &analyzerService{
		analysisRepo:  analysisRepo,
		geminiService: geminiService,
		guidelines:    guidelines,
		pdfParser:     pdfParser,
		promptBuilder: promptBuilder,
		maxRetries:    maxRetries,
	}
}

// Analyze records an analysis, extracts both PDFs, asks the model to summarize
// the resume against the job description and stores the outcome. The returned
// analysis is non-nil whenever the record was created, even on failure.
func (a *analyzerService) Analyze(ctx context.Context, req AnalysisRequest) (*models.Analysis, error) {
	if req.PromptMissing {
		req.Prompt = a.promptBuilder.DefaultPrompt()
	}

	analysis := &models.Analysis{
		ID:               uuid.New(),
		JobDocumentID:    req.JobDocument.ID,
		ResumeDocumentID: req.ResumeDocument.ID,
		Prompt:           req.Prompt,
		Model:            a.geminiService.ModelName(),
		Status:           models.StatusProcessing,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := a.analysisRepo.Create(analysis); err != nil {
		return nil, fmt.Errorf("failed to create analysis: %w", err)
	}

	logger := log.With().Str("analysis_id", analysis.ID.String()).Logger()
	logger.Info().Msg("🔄 Starting analysis")

	output, err := a.run(ctx, req, &logger)
	if err != nil {
		msg := err.Error()
		analysis.Status = models.StatusFailed
		analysis.ErrorMessage = &msg
		if uerr := a.analysisRepo.UpdateError(analysis.ID, msg); uerr != nil {
			logger.Error().Err(uerr).Msg("❌ Failed to record analysis error")
		}
		return analysis, err
	}

	analysis.Status = models.StatusCompleted
	analysis.Output = &output
	if err := a.analysisRepo.UpdateResult(analysis.ID, output); err != nil {
		return analysis, fmt.Errorf("failed to save analysis result: %w", err)
	}

	logger.Info().Int("output_chars", len(output)).Msg("✅ Analysis completed")
	return analysis, nil
}

func (a *analyzerService) run(ctx context.Context, req AnalysisRequest, logger *zerolog.Logger) (string, error) {
	logger.Debug().Msg("📄 Parsing job description...")
	jobContent, err := a.pdfParser.ExtractText(req.JobDocument.FilePath)
	if err != nil {
		return "", fmt.Errorf("failed to parse job description: %w", err)
	}

	logger.Debug().Msg("📄 Parsing resume...")
	resumeContent, err := a.pdfParser.ExtractText(req.ResumeDocument.FilePath)
	if err != nil {
		return "", fmt.Errorf("failed to parse resume: %w", err)
	}

	jobText := CleanText(jobContent.Text)
	resumeText := CleanText(resumeContent.Text)

	guidelines := ""
	if a.guidelines != nil {
		guidelines, err = a.retrieveGuidelines(ctx, jobText)
		if err != nil {
			logger.Warn().Err(err).Msg("⚠️  Continuing without hiring guidelines")
			guidelines = ""
		}
	}

	systemPrompt := a.promptBuilder.BuildSystemPrompt(jobText, guidelines)
	userPrompt := a.promptBuilder.BuildUserPrompt(req.Prompt, resumeText)
	logger.Debug().Int("system_chars", len(systemPrompt)).Int("prompt_chars", len(userPrompt)).Msg("🤖 Calling LLM")

	output, err := a.geminiService.GenerateTextWithRetry(ctx, systemPrompt, userPrompt, a.maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	return output, nil
}

func (a *analyzerService) retrieveGuidelines(ctx context.Context, jobText string) (string, error) {
	embedding, err := a.geminiService.GenerateEmbedding(ctx, jobText)
	if err != nil {
		return "", fmt.Errorf("failed to generate query embedding: %w", err)
	}

	results, err := a.guidelines.SearchSimilar(ctx, embedding, guidelineResults)
	if err != nil {
		return "", err
	}

	return FormatRAGContext(results), nil
}
