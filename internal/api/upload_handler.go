package api

import (
	"io"
	"log/slog"

	"contacts-service/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	uploadService service.UploadService
}

func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadFile runs after UploadFilter has accepted the file.
func (h *UploadHandler) UploadFile(c *fiber.Ctx) error {
	identity, err := IdentityFromContext(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	file, ok := uploadedFile(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file provided"})
	}

	f, err := file.Open()
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Error opening uploaded file", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error uploading file"})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Error reading uploaded file", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error uploading file"})
	}

	contentType := file.Header.Get(fiber.HeaderContentType)
	result, err := h.uploadService.UploadContactPhoto(c.UserContext(), identity.ID, file.Filename, contentType, data)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Error uploading file", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error uploading file"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "File uploaded successfully",
		"url":     result.URL,
		"path":    result.Path,
	})
}
