package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rowanmaple/cropdoc/internal/services"
)

type cropLogPayload struct {
	PlantID   string `json:"plant_id" form:"plant_id"`
	PlantName string `json:"plant_name" form:"plant_name"`
	Status    string `json:"status" form:"status"`
	Notes     string `json:"notes" form:"notes"`
}

func (handler *Handler) CreateCropLog(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := cropLogPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	entry, err := handler.cropLogService.CreateForUser(user.ID, services.CropLogInput{
		PlantID:   payload.PlantID,
		PlantName: payload.PlantName,
		Status:    payload.Status,
		Notes:     payload.Notes,
	})
	if err != nil {
		return cropLogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (handler *Handler) GetCropLogs(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	entries, err := handler.cropLogService.ListForUser(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load crop logs")
	}
	return c.JSON(entries)
}

func (handler *Handler) GetCropLog(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	cropLogID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid crop log id")
	}

	entry, err := handler.cropLogService.FetchForUser(user.ID, cropLogID)
	if err != nil {
		return cropLogError(c, err)
	}
	return c.JSON(entry)
}

func (handler *Handler) UpdateCropLog(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	cropLogID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid crop log id")
	}

	payload := cropLogPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	entry, err := handler.cropLogService.UpdateForUser(user.ID, cropLogID, services.CropLogInput{
		PlantID:   payload.PlantID,
		PlantName: payload.PlantName,
		Status:    payload.Status,
		Notes:     payload.Notes,
	})
	if err != nil {
		return cropLogError(c, err)
	}
	return c.JSON(entry)
}

func (handler *Handler) DeleteCropLog(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	cropLogID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid crop log id")
	}

	if err := handler.cropLogService.DeleteForUser(user.ID, cropLogID); err != nil {
		return cropLogError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// Ownership violations surface as 404 so crop log IDs do not leak across
// accounts.
func cropLogError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrPlantNameRequired):
		return apiError(c, fiber.StatusBadRequest, "plant name is required")
	case errors.Is(err, services.ErrInvalidCropStatus):
		return apiError(c, fiber.StatusBadRequest, "invalid crop status")
	case errors.Is(err, services.ErrCropLogNotFound), errors.Is(err, services.ErrCropLogAccessDenied):
		return apiError(c, fiber.StatusNotFound, "crop log not found")
	default:
		return apiError(c, fiber.StatusInternalServerError, "failed to process crop log")
	}
}
