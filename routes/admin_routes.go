package routes

import (
	"github.com/anjiri1684/tutor_marketplace/handlers"
	"github.com/anjiri1684/tutor_marketplace/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/dashboard-analytics", handlers.GetDashboardAnalytics)

	verifications := admin.Group("/verification-requests")
	verifications.Get("", handlers.ListVerificationRequests)
	verifications.Get("/:requestId", handlers.GetVerificationRequest)
	verifications.Post("/:requestId/schedule-call", handlers.ScheduleVerificationCall)
	verifications.Post("/:requestId/start-call", handlers.StartLiveCall)
	verifications.Post("/:requestId/complete-call", handlers.CompleteVerificationCall)
	verifications.Post("/:requestId/approve", handlers.ApproveVerificationRequest)
	verifications.Post("/:requestId/reject", handlers.RejectVerificationRequest)
	verifications.Post("/:requestId/reopen", handlers.ReopenVerificationRequest)

	documents := admin.Group("/documents")
	documents.Post("/:documentId/verify", handlers.VerifyDocument)
	documents.Post("/:documentId/reject", handlers.RejectDocument)

	payouts := admin.Group("/payout-requests")
	payouts.Get("", handlers.ListPayoutRequests)
	payouts.Get("/:payoutId", handlers.GetPayoutRequest)
	payouts.Post("/:payoutId/approve", handlers.ApprovePayout)
	payouts.Post("/:payoutId/reject", handlers.RejectPayout)
	payouts.Post("/:payoutId/mark-paid", handlers.MarkPayoutPaid)
	payouts.Put("/:payoutId/payment-method", handlers.UpdatePayoutPaymentMethod)

	reports := admin.Group("/reports")
	reports.Get("/transactions", handlers.GenerateTransactionReport)

	plans := admin.Group("/plans")
	plans.Post("", handlers.CreateSubscriptionPlan)
	plans.Put("/:planId", handlers.UpdateSubscriptionPlan)
	plans.Delete("/:planId", handlers.DeactivateSubscriptionPlan)

	users := admin.Group("/users")
	users.Get("", handlers.GetAllUsers)
	users.Put("/:userId/status", handlers.ToggleUserStatus)
	users.Delete("/:userId", handlers.AdminDeleteUser)
}
