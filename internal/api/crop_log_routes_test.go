package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rowanmaple/cropdoc/internal/models"
)

func TestCropLogLifecycle(t *testing.T) {
	app := newTestApp(t, &stubIdentifier{})
	token := registerTestUser(t, app, "farmer@example.com")

	response := jsonRequest(t, app, http.MethodPost, "/api/croplogs", token, fiber.Map{
		"plant_id":   "tomato-01",
		"plant_name": "Tomato",
		"notes":      "raised bed",
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected status 201, got %d", response.StatusCode)
	}
	var created models.CropLog
	decodeJSONBody(t, response, &created)
	if created.ID == 0 || created.PlantName != "Tomato" || created.Status != models.CropStatusActive {
		t.Fatalf("unexpected created crop log: %+v", created)
	}

	response = jsonRequest(t, app, http.MethodGet, "/api/croplogs", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("list: expected status 200, got %d", response.StatusCode)
	}
	var listed []models.CropLog
	decodeJSONBody(t, response, &listed)
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("unexpected crop log list: %+v", listed)
	}

	path := fmt.Sprintf("/api/croplogs/%d", created.ID)
	response = jsonRequest(t, app, http.MethodPut, path, token, fiber.Map{
		"plant_name": "Tomato",
		"status":     "harvested",
		"notes":      "pulled in early August",
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("update: expected status 200, got %d", response.StatusCode)
	}
	var updated models.CropLog
	decodeJSONBody(t, response, &updated)
	if updated.Status != models.CropStatusHarvested || updated.Notes != "pulled in early August" {
		t.Fatalf("unexpected updated crop log: %+v", updated)
	}

	response = jsonRequest(t, app, http.MethodDelete, path, token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected status 200, got %d", response.StatusCode)
	}
	response = jsonRequest(t, app, http.MethodGet, path, token, nil)
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete: expected status 404, got %d", response.StatusCode)
	}
}

func TestCropLogValidationErrors(t *testing.T) {
	app := newTestApp(t, &stubIdentifier{})
	token := registerTestUser(t, app, "farmer@example.com")

	response := jsonRequest(t, app, http.MethodPost, "/api/croplogs", token, fiber.Map{
		"plant_name": "   ",
	})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("blank plant name: expected status 400, got %d", response.StatusCode)
	}

	response = jsonRequest(t, app, http.MethodPost, "/api/croplogs", token, fiber.Map{
		"plant_name": "Tomato",
		"status":     "wilted",
	})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad status: expected status 400, got %d", response.StatusCode)
	}

	response = jsonRequest(t, app, http.MethodGet, "/api/croplogs/abc", token, nil)
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-numeric id: expected status 400, got %d", response.StatusCode)
	}
}

func TestCropLogHiddenAcrossAccounts(t *testing.T) {
	app := newTestApp(t, &stubIdentifier{})
	ownerToken := registerTestUser(t, app, "owner@example.com")
	otherToken := registerTestUser(t, app, "other@example.com")

	cropLogID := createTestCropLog(t, app, ownerToken, "Tomato")
	path := fmt.Sprintf("/api/croplogs/%d", cropLogID)

	response := jsonRequest(t, app, http.MethodGet, path, otherToken, nil)
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign get: expected status 404, got %d", response.StatusCode)
	}
	response = jsonRequest(t, app, http.MethodDelete, path, otherToken, nil)
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign delete: expected status 404, got %d", response.StatusCode)
	}

	response = jsonRequest(t, app, http.MethodGet, path, ownerToken, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("owner get after foreign delete attempt: expected status 200, got %d", response.StatusCode)
	}
}
