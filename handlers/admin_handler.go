package handlers

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/anjiri1684/tutor_marketplace/database"
	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/gofiber/fiber/v2"
)

// GetDashboardAnalytics aggregates the numbers the admin dashboard shows on
// load: user counts, workflow queues and money movement over the last 30 days.
func GetDashboardAnalytics(c *fiber.Ctx) error {
	var totalUsers, totalTeachers, pendingVerifications, pendingPayouts int64
	var activeSubscriptions, sessionsLast30Days int64

	database.DB.Model(&models.User{}).Count(&totalUsers)
	database.DB.Model(&models.TeacherProfile{}).Where("status = ?", models.TeacherStatusActive).Count(&totalTeachers)
	database.DB.Model(&models.VerificationRequest{}).Where("status = ?", models.VerificationStatusPending).Count(&pendingVerifications)
	database.DB.Model(&models.PayoutRequest{}).Where("status = ?", models.PayoutStatusPending).Count(&pendingPayouts)
	database.DB.Model(&models.Subscription{}).Where("status = ? AND expires_at > ?", models.SubscriptionStatusActive, time.Now()).Count(&activeSubscriptions)

	since := time.Now().AddDate(0, 0, -30)
	database.DB.Model(&models.Session{}).Where("created_at >= ?", since).Count(&sessionsLast30Days)

	var payoutVolume, subscriptionRevenue, walletLiability float64
	database.DB.Model(&models.PayoutRequest{}).
		Where("status = ? AND processed_at >= ?", models.PayoutStatusCompleted, since).
		Select("COALESCE(SUM(amount), 0)").Scan(&payoutVolume)
	database.DB.Model(&models.Transaction{}).
		Where("type = ? AND created_at >= ?", models.TransactionTypeSubscriptionPayment, since).
		Select("COALESCE(SUM(ABS(amount)), 0)").Scan(&subscriptionRevenue)

	// Sum of all wallet balances: what the platform owes its users.
	database.DB.Model(&models.Wallet{}).
		Select("COALESCE(SUM(balance), 0)").Scan(&walletLiability)

	var recentTransactions []models.Transaction
	database.DB.Order("created_at desc").Limit(10).Find(&recentTransactions)

	return c.JSON(fiber.Map{
		"total_users":                  totalUsers,
		"active_teachers":              totalTeachers,
		"pending_verifications":        pendingVerifications,
		"pending_payouts":              pendingPayouts,
		"active_subscriptions":         activeSubscriptions,
		"sessions_last_30_days":        sessionsLast30Days,
		"payout_volume_30_days":        payoutVolume,
		"subscription_revenue_30_days": subscriptionRevenue,
		"wallet_liability":             walletLiability,
		"recent_transactions":          recentTransactions,
	})
}

func GetAllUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset := (page - 1) * limit

	query := database.DB.Model(&models.User{})
	countQuery := database.DB.Model(&models.User{})

	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", pattern, pattern)
		countQuery = countQuery.Where("full_name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
		countQuery = countQuery.Where("role = ?", role)
	}

	var total int64
	var users []models.User
	countQuery.Count(&total)
	query.Order("created_at desc").Offset(offset).Limit(limit).Find(&users)

	return c.JSON(fiber.Map{
		"data": users,
		"meta": fiber.Map{
			"total":     total,
			"page":      page,
			"last_page": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// ToggleUserStatus flips a user between active and deactivated. Deactivated
// users cannot log in.
func ToggleUserStatus(c *fiber.Ctx) error {
	userID := c.Params("userId")
	adminID := adminIDFromToken(c)

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	if user.ID == adminID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You cannot deactivate your own account"})
	}

	user.IsActive = !user.IsActive
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
	}

	state := "deactivated"
	if user.IsActive {
		state = "activated"
	}
	return c.JSON(fiber.Map{"message": fmt.Sprintf("User %s successfully", state)})
}

// AdminDeleteUser removes an account. Blocked while money or an open payout
// is attached so the financial audit trail stays intact.
func AdminDeleteUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	adminID := adminIDFromToken(c)

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if user.ID == adminID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You cannot delete your own account"})
	}

	var wallet models.Wallet
	if err := database.DB.First(&wallet, "user_id = ?", user.ID).Error; err == nil && wallet.Balance > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "User still has a wallet balance. Pay it out before deleting."})
	}

	var openPayouts int64
	database.DB.Model(&models.PayoutRequest{}).
		Where("user_id = ? AND status IN ?", user.ID, []models.PayoutStatus{models.PayoutStatusPending, models.PayoutStatusApproved, models.PayoutStatusProcessing}).
		Count(&openPayouts)
	if openPayouts > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "User has payout requests in progress"})
	}

	if err := database.DB.Delete(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete user"})
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
