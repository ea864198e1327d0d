package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rowanmaple/cropdoc/internal/db"
	"github.com/rowanmaple/cropdoc/internal/plantid"
	"github.com/rowanmaple/cropdoc/internal/services"
)

// stubIdentifier replaces the vendor client in handler tests.
type stubIdentifier struct {
	assessment *plantid.Assessment
	err        error
	lastInput  plantid.IdentifyRequest
}

func (stub *stubIdentifier) Identify(_ context.Context, request plantid.IdentifyRequest) (*plantid.Assessment, error) {
	stub.lastInput = request
	if stub.err != nil {
		return nil, stub.err
	}
	if stub.assessment == nil {
		return &plantid.Assessment{}, nil
	}
	return stub.assessment, nil
}

func newTestApp(t *testing.T, identifier services.PlantIdentifier) *fiber.App {
	t.Helper()
	return newTestAppWithProxyHosts(t, identifier, nil)
}

func newTestAppWithProxyHosts(t *testing.T, identifier services.PlantIdentifier, proxyHosts []string) *fiber.App {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "cropdoc-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	handler, err := NewHandler(database, "test-secret-key", time.UTC, identifier, proxyHosts)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app
}

func jsonRequest(t *testing.T, app *fiber.App, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("%s %s encode payload: %v", method, path, err)
		}
		body = bytes.NewBuffer(encoded)
	} else {
		body = bytes.NewBuffer(nil)
	}

	request := httptest.NewRequest(method, path, body)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

func decodeJSONBody(t *testing.T, response *http.Response, target any) {
	t.Helper()
	defer response.Body.Close()

	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func registerTestUser(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	response := jsonRequest(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email":    email,
		"password": "growing-strong",
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected status 201, got %d", email, response.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	decodeJSONBody(t, response, &body)
	if body.Token == "" {
		t.Fatalf("register %s: expected a session token", email)
	}
	return body.Token
}

func createTestCropLog(t *testing.T, app *fiber.App, token, plantName string) uint {
	t.Helper()

	response := jsonRequest(t, app, http.MethodPost, "/api/croplogs", token, fiber.Map{
		"plant_name": plantName,
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("create crop log: expected status 201, got %d", response.StatusCode)
	}

	var body struct {
		ID uint `json:"id"`
	}
	decodeJSONBody(t, response, &body)
	if body.ID == 0 {
		t.Fatal("create crop log: expected a non-zero id")
	}
	return body.ID
}
