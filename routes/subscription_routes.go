package routes

import (
	"github.com/anjiri1684/tutor_marketplace/handlers"
	"github.com/anjiri1684/tutor_marketplace/middleware"
	"github.com/gofiber/fiber/v2"
)

func SubscriptionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	subscriptions := api.Group("/subscriptions", middleware.Protected())
	subscriptions.Post("", handlers.Subscribe)
	subscriptions.Get("/me", handlers.GetMySubscription)
	subscriptions.Delete("/me", handlers.CancelMySubscription)
}
