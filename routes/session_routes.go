package routes

import (
	"github.com/anjiri1684/tutor_marketplace/handlers"
	"github.com/anjiri1684/tutor_marketplace/middleware"
	"github.com/gofiber/fiber/v2"
)

func SessionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	sessions := api.Group("/sessions", middleware.Protected())
	sessions.Post("", handlers.ScheduleSession)
	sessions.Get("", handlers.ListMySessions)
	sessions.Post("/:sessionId/complete", middleware.TeacherRequired(), handlers.CompleteSession)
	sessions.Post("/:sessionId/cancel", handlers.CancelSession)
}
