package routes

import (
	"github.com/anjiri1684/tutor_marketplace/handlers"
	"github.com/gofiber/fiber/v2"
)

// Webhook endpoints are unauthenticated; each handler verifies the gateway's
// signature itself.
func WebhookRoutes(app *fiber.App) {
	webhooks := app.Group("/api/v1/webhooks")

	webhooks.Post("/paystack", handlers.HandlePaystackWebhook)
	webhooks.Post("/stripe", handlers.HandleStripeWebhook)
	webhooks.Post("/paypal", handlers.HandlePayPalWebhook)
}
