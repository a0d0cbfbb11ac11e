package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Register wires all HTTP routes onto the given Fiber app. POST /upload
// lives at the root because the upload form posts there directly.
func Register(app *fiber.App, upload *UploadHandler, analysis *AnalysisHandler) {
	app.Post("/upload", upload.HandleUpload)

	api := app.Group("/api/v1")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})
	api.Post("/upload", upload.HandleUpload)
	api.Get("/analyses/:id", analysis.HandleGetAnalysis)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Agent API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /upload",
				"GET /api/v1/analyses/:id",
				"GET /api/v1/health",
			},
		})
	})
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
