package api

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rowanmaple/cropdoc/internal/services"
)

type diagnosePayload struct {
	// Image is the single-photo form used by older mobile clients.
	Image     string   `json:"image" form:"image"`
	Images    []string `json:"images" form:"images"`
	Latitude  *float64 `json:"latitude" form:"latitude"`
	Longitude *float64 `json:"longitude" form:"longitude"`
}

func (handler *Handler) DiagnoseCropLog(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	cropLogID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid crop log id")
	}

	payload := diagnosePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	images, err := collectImagePayloads(payload)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "images must be base64-encoded")
	}
	if len(images) == 0 {
		return apiError(c, fiber.StatusBadRequest, "at least one image is required")
	}

	cropLog, err := handler.cropLogService.FetchForUser(user.ID, cropLogID)
	if err != nil {
		return cropLogError(c, err)
	}

	diagnosis, err := handler.diagnosisService.DiagnoseCropLog(c.UserContext(), cropLog, services.DiagnosisInput{
		Images:    images,
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoImagesProvided):
			return apiError(c, fiber.StatusBadRequest, "at least one image is required")
		case errors.Is(err, services.ErrIdentifyFailed):
			return apiError(c, fiber.StatusBadGateway, "plant identification service unavailable")
		case errors.Is(err, services.ErrInvalidAssessment):
			return apiError(c, fiber.StatusBadGateway, "plant identification returned an unusable response")
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to save diagnosis")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(diagnosis)
}

func (handler *Handler) GetCropLogDiagnoses(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	cropLogID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid crop log id")
	}

	cropLog, err := handler.cropLogService.FetchForUser(user.ID, cropLogID)
	if err != nil {
		return cropLogError(c, err)
	}

	diagnoses, err := handler.diagnosisService.ListForCropLog(cropLog.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load diagnoses")
	}
	return c.JSON(diagnoses)
}

func (handler *Handler) GetDiagnosis(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	diagnosisID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid diagnosis id")
	}

	diagnosis, err := handler.diagnosisService.FetchByID(diagnosisID)
	if err != nil {
		if errors.Is(err, services.ErrDiagnosisNotFound) {
			return apiError(c, fiber.StatusNotFound, "diagnosis not found")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to load diagnosis")
	}

	// Ownership runs through the parent crop log.
	if _, err := handler.cropLogService.FetchForUser(user.ID, diagnosis.CropLogID); err != nil {
		return apiError(c, fiber.StatusNotFound, "diagnosis not found")
	}
	return c.JSON(diagnosis)
}

func collectImagePayloads(payload diagnosePayload) ([]string, error) {
	raw := make([]string, 0, len(payload.Images)+1)
	if image := strings.TrimSpace(payload.Image); image != "" {
		raw = append(raw, image)
	}
	for _, image := range payload.Images {
		if image = strings.TrimSpace(image); image != "" {
			raw = append(raw, image)
		}
	}

	images := make([]string, 0, len(raw))
	for _, image := range raw {
		image = stripDataURIPrefix(image)
		if _, err := base64.StdEncoding.DecodeString(image); err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, nil
}

// Mobile clients send either bare base64 or a data URI; the vendor wants
// bare base64.
func stripDataURIPrefix(image string) string {
	if !strings.HasPrefix(image, "data:") {
		return image
	}
	separator := strings.Index(image, ",")
	if separator < 0 {
		return image
	}
	return image[separator+1:]
}
