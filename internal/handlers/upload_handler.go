package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"resumeagent/resume-agent/internal/models"
	"resumeagent/resume-agent/internal/repositories"
	"resumeagent/resume-agent/internal/services"
)

const (
	FieldJobFile    = "job_file"
	FieldResumeFile = "resume_file"
	FieldPrompt     = "prompt"

	msgUploadSuccessful = "Upload successful"
	msgAnalysisFailed   = "Something went wrong, please try again"
)

type UploadHandler struct {
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	analyzer       services.AnalyzerService
	maxFileSize    int64
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	analyzer services.AnalyzerService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		docRepo:        docRepo,
		storageService: storageService,
		analyzer:       analyzer,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /upload: a job description PDF, a resume PDF and
// a free-text prompt in, the model's summary out.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	jobFile, jobErr := c.FormFile(FieldJobFile)
	resumeFile, resumeErr := c.FormFile(FieldResumeFile)
	prompt, hasPrompt := promptField(c)

	if jobErr != nil || resumeErr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Missing files"})
	}

	log.Info().
		Str("job_file", jobFile.Filename).
		Str("resume_file", resumeFile.Filename).
		Int("prompt_chars", len(prompt)).
		Msg("📥 Upload received")

	// Both files are checked before either is written.
	if err := h.validateFile(jobFile, models.DocumentTypeJob); err != nil {
		return h.storeError(c, err)
	}
	if err := h.validateFile(resumeFile, models.DocumentTypeResume); err != nil {
		return h.storeError(c, err)
	}

	jobDoc, err := h.storeDocument(jobFile, models.DocumentTypeJob)
	if err != nil {
		return h.storeError(c, err)
	}

	resumeDoc, err := h.storeDocument(resumeFile, models.DocumentTypeResume)
	if err != nil {
		h.discardDocument(jobDoc)
		return h.storeError(c, err)
	}

	analysis, err := h.analyzer.Analyze(c.UserContext(), services.AnalysisRequest{
		JobDocument:    jobDoc,
		ResumeDocument: resumeDoc,
		Prompt:         prompt,
		PromptMissing:  !hasPrompt,
	})
	if err != nil {
		log.Error().Err(err).Msg("❌ Analysis failed")
		return c.Status(fiber.StatusInternalServerError).JSON(models.MessageResponse{Message: msgAnalysisFailed})
	}

	return c.Status(fiber.StatusOK).JSON(models.UploadResponse{
		Message:    msgUploadSuccessful,
		LLMOutput:  *analysis.Output,
		AnalysisID: analysis.ID.String(),
	})
}

// promptField reports the prompt and whether the form carried the field at all.
func promptField(c *fiber.Ctx) (string, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		return "", false
	}
	values, ok := form.Value[FieldPrompt]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

type fileTooLargeError struct {
	fileType models.DocumentType
	max      int64
}

func (e *fileTooLargeError) Error() string {
	return fmt.Sprintf("%s file too large. Max size: %d bytes", e.fileType, e.max)
}

func (h *UploadHandler) validateFile(file *multipart.FileHeader, fileType models.DocumentType) error {
	if file.Size > h.maxFileSize {
		return &fileTooLargeError{fileType: fileType, max: h.maxFileSize}
	}
	if !models.IsPDF(file.Filename, file.Header.Get("Content-Type")) {
		return fmt.Errorf("%s %q: %w", fileType, file.Filename, services.ErrInvalidFileType)
	}
	return nil
}

func (h *UploadHandler) storeDocument(file *multipart.FileHeader, fileType models.DocumentType) (*models.Document, error) {
	filename, filePath, err := h.storageService.SaveFile(file, fileType)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		ID:               uuid.New(),
		Filename:         filename,
		OriginalFileName: file.Filename,
		FileType:         fileType,
		MediaType:        file.Header.Get("Content-Type"),
		Size:             file.Size,
		FilePath:         filePath,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.docRepo.Create(doc); err != nil {
		if derr := h.storageService.DeleteFile(filename); derr != nil {
			log.Warn().Err(derr).Str("file", filename).Msg("⚠️  Failed to clean up stored file")
		}
		return nil, fmt.Errorf("failed to save %s document record: %w", fileType, err)
	}

	return doc, nil
}

// discardDocument removes a stored document whose partner upload failed.
func (h *UploadHandler) discardDocument(doc *models.Document) {
	if err := h.docRepo.Delete(doc.ID); err != nil {
		log.Warn().Err(err).Str("document_id", doc.ID.String()).Msg("⚠️  Failed to delete orphaned document record")
	}
	if err := h.storageService.DeleteFile(doc.Filename); err != nil {
		log.Warn().Err(err).Str("file", doc.Filename).Msg("⚠️  Failed to clean up stored file")
	}
}

func (h *UploadHandler) storeError(c *fiber.Ctx, err error) error {
	var tooLarge *fileTooLargeError
	if errors.As(err, &tooLarge) || errors.Is(err, services.ErrInvalidFileType) {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: err.Error()})
	}

	log.Error().Err(err).Msg("❌ Failed to store upload")
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: err.Error()})
}
