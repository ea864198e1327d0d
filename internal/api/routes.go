package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Get("/me", handler.AuthRequired, handler.Me)

	cropLogs := api.Group("/croplogs", handler.AuthRequired)
	cropLogs.Post("", handler.CreateCropLog)
	cropLogs.Get("", handler.GetCropLogs)
	cropLogs.Get("/:id", handler.GetCropLog)
	cropLogs.Put("/:id", handler.UpdateCropLog)
	cropLogs.Delete("/:id", handler.DeleteCropLog)
	cropLogs.Post("/:id/diagnoses", handler.DiagnoseCropLog)
	cropLogs.Get("/:id/diagnoses", handler.GetCropLogDiagnoses)

	diagnoses := api.Group("/diagnoses", handler.AuthRequired)
	diagnoses.Get("/:id", handler.GetDiagnosis)

	images := api.Group("/images", handler.AuthRequired)
	images.Get("/proxy", handler.ProxyImage)
}
