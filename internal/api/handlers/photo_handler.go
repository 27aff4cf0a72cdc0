package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/autosell-mx/reposting-api/internal/service"
)

type PhotoHandler struct {
	s service.PhotoService
}

func NewPhotoHandler(service service.PhotoService) *PhotoHandler {
	return &PhotoHandler{s: service}
}

func (h *PhotoHandler) UploadPhotos(c *fiber.Ctx) error {
	vehicleID := ParamID(c, "id")

	form, err := c.MultipartForm()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse form",
		})
	}

	files := form.File["files"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No files selected",
		})
	}

	photos, err := h.s.Upload(c.Context(), vehicleID, files)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Vehicle not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(photos)
}

func (h *PhotoHandler) ListPhotos(c *fiber.Ctx) error {
	vehicleID := ParamID(c, "id")

	photos, err := h.s.ListByVehicle(c.Context(), vehicleID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to list photos",
		})
	}

	return c.Status(fiber.StatusOK).JSON(photos)
}
