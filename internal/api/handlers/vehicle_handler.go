package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"github.com/autosell-mx/reposting-api/internal/queue"
	"github.com/autosell-mx/reposting-api/internal/service"
)

type VehicleHandler struct {
	s           service.VehicleService
	AsynqClient *asynq.Client
}

func NewVehicleHandler(service service.VehicleService, asynqClient *asynq.Client) *VehicleHandler {
	return &VehicleHandler{s: service, AsynqClient: asynqClient}
}

func (h *VehicleHandler) GetVehicle(c *fiber.Ctx) error {
	vehicleID := ParamID(c, "id")

	vehicle, err := h.s.Get(c.Context(), vehicleID)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Vehicle not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to get vehicle",
		})
	}

	return c.Status(fiber.StatusOK).JSON(vehicle)
}

func (h *VehicleHandler) ListVehicles(c *fiber.Ctx) error {
	status := c.Query("status")
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	vehicles, err := h.s.List(c.Context(), status, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to list vehicles",
		})
	}

	return c.Status(fiber.StatusOK).JSON(vehicles)
}

// MarkSold updates the vehicle status and queues a sheet sync so the
// inventory spreadsheet follows.
func (h *VehicleHandler) MarkSold(c *fiber.Ctx) error {
	vehicleID := ParamID(c, "id")

	vehicle, err := h.s.MarkSold(c.Context(), vehicleID)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Vehicle not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to mark vehicle as sold",
		})
	}

	err = queue.EnqueueSyncVehicle(h.AsynqClient, queue.SyncVehiclePayload{VehicleID: vehicle.ID})
	if err != nil {
		slog.Error("Error scheduling sheet sync", "error", err)
	}

	return c.Status(fiber.StatusOK).JSON(vehicle)
}

func (h *VehicleHandler) SyncToSheets(c *fiber.Ctx) error {
	err := queue.EnqueueSyncInventory(h.AsynqClient)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to schedule inventory sync",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Inventory sync scheduled",
	})
}
