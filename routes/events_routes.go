package routes

import (
	"github.com/anjiri1684/tutor_marketplace/handlers"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func EventsRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Use("/admin/events", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/admin/events", websocket.New(handlers.ServeAdminEvents))
}
