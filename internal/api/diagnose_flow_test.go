package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rowanmaple/cropdoc/internal/models"
	"github.com/rowanmaple/cropdoc/internal/plantid"
)

func blightAssessment() *plantid.Assessment {
	return &plantid.Assessment{
		DiseaseSuggestions: []plantid.DiseaseSuggestion{
			{
				Name:        "Late blight",
				Probability: 0.87,
				Details: &plantid.DiseaseDetails{
					Description: "Fungal infection.",
					Treatment:   []string{"Remove affected leaves", "Apply copper fungicide"},
				},
				SimilarImages: []plantid.SimilarImage{{URL: "https://img.example/a.jpg"}},
			},
		},
	}
}

func TestDiagnoseCropLogFlow(t *testing.T) {
	identifier := &stubIdentifier{assessment: blightAssessment()}
	app := newTestApp(t, identifier)
	token := registerTestUser(t, app, "farmer@example.com")
	cropLogID := createTestCropLog(t, app, token, "Tomato")

	response := jsonRequest(t, app, http.MethodPost, fmt.Sprintf("/api/croplogs/%d/diagnoses", cropLogID), token, fiber.Map{
		"image":    "data:image/jpeg;base64,aGVsbG8=",
		"latitude": 52.37,
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("diagnose: expected status 201, got %d", response.StatusCode)
	}

	var diagnosis models.Diagnosis
	decodeJSONBody(t, response, &diagnosis)
	if diagnosis.ID == 0 || diagnosis.CropLogID != cropLogID {
		t.Fatalf("unexpected diagnosis record: %+v", diagnosis)
	}
	if diagnosis.PestOrDisease != "Late blight" || diagnosis.ConfidenceLevel != 0.87 {
		t.Fatalf("unexpected diagnosis outcome: %+v", diagnosis)
	}
	if len(diagnosis.Recommendations) != 2 || diagnosis.Recommendations[0] != "Remove affected leaves" {
		t.Fatalf("unexpected recommendations: %v", diagnosis.Recommendations)
	}
	if len(diagnosis.RelatedImages) != 1 || diagnosis.RelatedImages[0] != "https://img.example/a.jpg" {
		t.Fatalf("unexpected related images: %v", diagnosis.RelatedImages)
	}
	if diagnosis.Source != models.DiagnosisSourcePlantID {
		t.Fatalf("unexpected source: %q", diagnosis.Source)
	}
	if diagnosis.Latitude == nil || *diagnosis.Latitude != 52.37 {
		t.Fatalf("latitude not carried: %+v", diagnosis.Latitude)
	}

	// The data URI prefix must be stripped before the vendor call.
	if len(identifier.lastInput.Images) != 1 || identifier.lastInput.Images[0] != "aGVsbG8=" {
		t.Fatalf("unexpected images sent to identifier: %v", identifier.lastInput.Images)
	}

	response = jsonRequest(t, app, http.MethodGet, fmt.Sprintf("/api/croplogs/%d/diagnoses", cropLogID), token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("list diagnoses: expected status 200, got %d", response.StatusCode)
	}
	var listed []models.Diagnosis
	decodeJSONBody(t, response, &listed)
	if len(listed) != 1 || listed[0].ID != diagnosis.ID {
		t.Fatalf("unexpected diagnosis list: %+v", listed)
	}

	response = jsonRequest(t, app, http.MethodGet, fmt.Sprintf("/api/diagnoses/%d", diagnosis.ID), token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("get diagnosis: expected status 200, got %d", response.StatusCode)
	}
	var fetched models.Diagnosis
	decodeJSONBody(t, response, &fetched)
	if fetched.PestOrDisease != "Late blight" {
		t.Fatalf("unexpected fetched diagnosis: %+v", fetched)
	}
}

func TestDiagnoseCropLogInputValidation(t *testing.T) {
	app := newTestApp(t, &stubIdentifier{})
	token := registerTestUser(t, app, "farmer@example.com")
	cropLogID := createTestCropLog(t, app, token, "Tomato")
	path := fmt.Sprintf("/api/croplogs/%d/diagnoses", cropLogID)

	response := jsonRequest(t, app, http.MethodPost, path, token, fiber.Map{})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("no images: expected status 400, got %d", response.StatusCode)
	}

	response = jsonRequest(t, app, http.MethodPost, path, token, fiber.Map{
		"image": "not base64!!!",
	})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad base64: expected status 400, got %d", response.StatusCode)
	}
}

func TestDiagnoseCropLogIdentifierOutage(t *testing.T) {
	app := newTestApp(t, &stubIdentifier{err: errors.New("connection refused")})
	token := registerTestUser(t, app, "farmer@example.com")
	cropLogID := createTestCropLog(t, app, token, "Tomato")

	response := jsonRequest(t, app, http.MethodPost, fmt.Sprintf("/api/croplogs/%d/diagnoses", cropLogID), token, fiber.Map{
		"image": "aGVsbG8=",
	})
	if response.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", response.StatusCode)
	}

	response = jsonRequest(t, app, http.MethodGet, fmt.Sprintf("/api/croplogs/%d/diagnoses", cropLogID), token, nil)
	var listed []models.Diagnosis
	decodeJSONBody(t, response, &listed)
	if len(listed) != 0 {
		t.Fatalf("expected no persisted diagnoses after outage, got %+v", listed)
	}
}

func TestDiagnosisHiddenAcrossAccounts(t *testing.T) {
	app := newTestApp(t, &stubIdentifier{assessment: blightAssessment()})
	ownerToken := registerTestUser(t, app, "owner@example.com")
	otherToken := registerTestUser(t, app, "other@example.com")
	cropLogID := createTestCropLog(t, app, ownerToken, "Tomato")

	response := jsonRequest(t, app, http.MethodPost, fmt.Sprintf("/api/croplogs/%d/diagnoses", cropLogID), ownerToken, fiber.Map{
		"image": "aGVsbG8=",
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("diagnose: expected status 201, got %d", response.StatusCode)
	}
	var diagnosis models.Diagnosis
	decodeJSONBody(t, response, &diagnosis)

	response = jsonRequest(t, app, http.MethodPost, fmt.Sprintf("/api/croplogs/%d/diagnoses", cropLogID), otherToken, fiber.Map{
		"image": "aGVsbG8=",
	})
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign diagnose: expected status 404, got %d", response.StatusCode)
	}

	response = jsonRequest(t, app, http.MethodGet, fmt.Sprintf("/api/diagnoses/%d", diagnosis.ID), otherToken, nil)
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign get diagnosis: expected status 404, got %d", response.StatusCode)
	}
}
