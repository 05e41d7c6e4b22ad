package routes

import (
	"github.com/anjiri1684/tutor_marketplace/handlers"
	"github.com/anjiri1684/tutor_marketplace/middleware"
	"github.com/gofiber/fiber/v2"
)

func WalletRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	wallet := api.Group("/wallet", middleware.Protected())
	wallet.Get("", handlers.GetMyWallet)
	wallet.Get("/transactions", handlers.GetMyTransactions)
	wallet.Post("/topup", handlers.TopUpWallet)

	payouts := api.Group("/payouts", middleware.Protected())
	payouts.Post("", handlers.RequestPayout)
	payouts.Get("", handlers.GetMyPayoutRequests)
}
