package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"resumeagent/resume-agent/internal/models"
	"resumeagent/resume-agent/internal/repositories"
)

type AnalysisHandler struct {
	analysisRepo repositories.AnalysisRepository
}

func NewAnalysisHandler(analysisRepo repositories.AnalysisRepository) *AnalysisHandler {
	return &AnalysisHandler{analysisRepo: analysisRepo}
}

// HandleGetAnalysis handles GET /analyses/:id
func (h *AnalysisHandler) HandleGetAnalysis(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Invalid analysis ID format"})
	}

	analysis, err := h.analysisRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: "Analysis not found"})
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(models.AnalysisResponse{
		ID:           analysis.ID.String(),
		Status:       string(analysis.Status),
		Prompt:       analysis.Prompt,
		Model:        analysis.Model,
		Output:       analysis.Output,
		ErrorMessage: analysis.ErrorMessage,
	})
}
