package routes

import (
	"github.com/anjiri1684/tutor_marketplace/handlers"
	"github.com/anjiri1684/tutor_marketplace/middleware"
	"github.com/gofiber/fiber/v2"
)

func TeacherRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	teachers := api.Group("/teachers", middleware.Protected())
	teachers.Post("/apply", handlers.ApplyToBeATeacher)
	teachers.Get("/me", handlers.GetMyTeacherProfile)
	teachers.Put("/me", handlers.UpdateMyTeacherProfile)
	teachers.Get("/me/verification", handlers.GetMyVerificationRequest)

	documents := api.Group("/documents", middleware.Protected())
	documents.Post("", handlers.UploadDocument)
	documents.Get("", handlers.GetMyDocuments)
	documents.Put("/:documentId", handlers.ReplaceDocument)
}
