package routes

import (
	"github.com/anjiri1684/tutor_marketplace/handlers"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/teachers", handlers.ListActiveTeachers)
	api.Get("/teachers/:teacherId", handlers.GetTeacherProfile)
	api.Get("/plans", handlers.ListSubscriptionPlans)
	api.Get("/currency/convert", handlers.GetConversionRate)
}
