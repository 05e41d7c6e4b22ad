package handlers

import (
	"fmt"
	"time"

	"github.com/anjiri1684/tutor_marketplace/database"
	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/anjiri1684/tutor_marketplace/notifications"
	"github.com/anjiri1684/tutor_marketplace/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlanRequest struct {
	Name             string  `json:"name" validate:"required"`
	Description      string  `json:"description"`
	Price            float64 `json:"price" validate:"required,gt=0"`
	SessionsPerMonth int     `json:"sessions_per_month" validate:"required,gt=0"`
}

func CreateSubscriptionPlan(c *fiber.Ctx) error {
	var req PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	plan := models.SubscriptionPlan{
		Name:             req.Name,
		Price:            req.Price,
		SessionsPerMonth: req.SessionsPerMonth,
	}
	if req.Description != "" {
		plan.Description = &req.Description
	}

	if err := database.DB.Create(&plan).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create plan"})
	}

	return c.Status(fiber.StatusCreated).JSON(plan)
}

func UpdateSubscriptionPlan(c *fiber.Ctx) error {
	planID := c.Params("planId")

	var req PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var plan models.SubscriptionPlan
	if err := database.DB.First(&plan, "id = ?", planID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Plan not found"})
	}

	plan.Name = req.Name
	plan.Price = req.Price
	plan.SessionsPerMonth = req.SessionsPerMonth
	if req.Description != "" {
		plan.Description = &req.Description
	}

	if err := database.DB.Save(&plan).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update plan"})
	}

	return c.JSON(plan)
}

// DeactivateSubscriptionPlan retires a plan from sale. Existing subscriptions
// run to their expiry; plans are never hard-deleted so old subscriptions keep
// a valid reference.
func DeactivateSubscriptionPlan(c *fiber.Ctx) error {
	planID := c.Params("planId")

	var plan models.SubscriptionPlan
	if err := database.DB.First(&plan, "id = ?", planID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Plan not found"})
	}

	plan.IsActive = false
	if err := database.DB.Save(&plan).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate plan"})
	}

	return c.JSON(fiber.Map{"message": "Plan deactivated"})
}

func ListSubscriptionPlans(c *fiber.Ctx) error {
	var plans []models.SubscriptionPlan
	query := database.DB.Order("price asc")

	// Non-admins only see plans that are on sale.
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Find(&plans).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load plans"})
	}

	return c.JSON(plans)
}

type SubscribeRequest struct {
	PlanID string `json:"plan_id" validate:"required,uuid"`
}

// Subscribe charges the plan price from the student's wallet and opens a
// 30-day subscription.
func Subscribe(c *fiber.Ctx) error {
	userID := userIDFromToken(c)

	var req SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	planID, _ := uuid.Parse(req.PlanID)

	var plan models.SubscriptionPlan
	if err := database.DB.First(&plan, "id = ? AND is_active = ?", planID, true).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Plan not found or no longer available"})
	}

	var activeCount int64
	database.DB.Model(&models.Subscription{}).
		Where("user_id = ? AND status = ? AND expires_at > ?", userID, models.SubscriptionStatusActive, time.Now()).
		Count(&activeCount)
	if activeCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You already have an active subscription"})
	}

	var subscription models.Subscription
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := services.ApplyWalletEntry(tx, services.WalletEntry{
			UserID:      userID,
			Amount:      -plan.Price,
			Type:        models.TransactionTypeSubscriptionPayment,
			Description: fmt.Sprintf("Subscription to %s plan", plan.Name),
		}); err != nil {
			return err
		}

		now := time.Now()
		subscription = models.Subscription{
			UserID:    userID,
			PlanID:    plan.ID,
			StartsAt:  now,
			ExpiresAt: now.AddDate(0, 0, 30),
		}
		return tx.Create(&subscription).Error
	})
	if err != nil {
		return workflowError(c, err)
	}

	var user models.User
	database.DB.First(&user, "id = ?", userID)
	go notifications.SendEmail(
		user.FullName,
		user.Email,
		"Subscription Confirmed",
		fmt.Sprintf("<h1>You're Subscribed!</h1><p>Your %s plan is active until %s.</p>", plan.Name, subscription.ExpiresAt.Format("January 2, 2006")),
	)

	return c.Status(fiber.StatusCreated).JSON(subscription)
}

func GetMySubscription(c *fiber.Ctx) error {
	userID := userIDFromToken(c)

	var subscription models.Subscription
	if err := database.DB.Preload("Plan").
		Where("user_id = ? AND status = ? AND expires_at > ?", userID, models.SubscriptionStatusActive, time.Now()).
		Order("expires_at desc").First(&subscription).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No active subscription"})
	}

	return c.JSON(subscription)
}

func CancelMySubscription(c *fiber.Ctx) error {
	userID := userIDFromToken(c)

	var subscription models.Subscription
	if err := database.DB.
		Where("user_id = ? AND status = ?", userID, models.SubscriptionStatusActive).
		Order("expires_at desc").First(&subscription).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No active subscription"})
	}

	// No refund: the subscription stays usable until its paid-through date.
	subscription.Status = models.SubscriptionStatusCancelled
	if err := database.DB.Save(&subscription).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel subscription"})
	}

	return c.JSON(subscription)
}
