package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/anjiri1684/tutor_marketplace/database"
	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/anjiri1684/tutor_marketplace/notifications"
	"github.com/anjiri1684/tutor_marketplace/payments"
	"github.com/anjiri1684/tutor_marketplace/services"
	"github.com/anjiri1684/tutor_marketplace/utils"
	"github.com/anjiri1684/tutor_marketplace/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func userIDFromToken(c *fiber.Ctx) uuid.UUID {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	return userID
}

func GetMyWallet(c *fiber.Ctx) error {
	userID := userIDFromToken(c)

	var wallet models.Wallet
	if err := database.DB.First(&wallet, "user_id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Wallet not found"})
	}

	return c.JSON(wallet)
}

func GetMyTransactions(c *fiber.Ctx) error {
	userID := userIDFromToken(c)
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset := (page - 1) * limit

	var wallet models.Wallet
	if err := database.DB.First(&wallet, "user_id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Wallet not found"})
	}

	var total int64
	var transactions []models.Transaction
	database.DB.Model(&models.Transaction{}).Where("wallet_id = ?", wallet.ID).Count(&total)
	database.DB.Where("wallet_id = ?", wallet.ID).Order("created_at desc").Offset(offset).Limit(limit).Find(&transactions)

	return c.JSON(fiber.Map{
		"data": transactions,
		"meta": fiber.Map{
			"total":     total,
			"page":      page,
			"last_page": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

type RequestPayoutBody struct {
	Amount         float64         `json:"amount" validate:"required,gt=0"`
	PaymentMethod  string          `json:"payment_method" validate:"required,oneof=bank_transfer paystack stripe paypal"`
	PaymentDetails json.RawMessage `json:"payment_details" validate:"required"`
}

// RequestPayout opens a pending payout request. The balance is only checked
// here, not reserved: the actual debit happens when an admin approves.
func RequestPayout(c *fiber.Ctx) error {
	userID := userIDFromToken(c)

	var req RequestPayoutBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var wallet models.Wallet
	if err := database.DB.First(&wallet, "user_id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Wallet not found"})
	}
	if req.Amount > wallet.Balance {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fmt.Sprintf("Insufficient balance: you have %.2f %s available", wallet.Balance, wallet.Currency),
		})
	}

	var pendingCount int64
	database.DB.Model(&models.PayoutRequest{}).
		Where("user_id = ? AND status IN ?", userID, []models.PayoutStatus{models.PayoutStatusPending, models.PayoutStatusApproved, models.PayoutStatusProcessing}).
		Count(&pendingCount)
	if pendingCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You already have a payout request in progress"})
	}

	payout := services.NewPayoutRequest(userID, req.Amount, wallet.Currency, models.PayoutMethod(req.PaymentMethod), datatypes.JSON(req.PaymentDetails))
	if err := database.DB.Create(&payout).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create payout request"})
	}

	var user models.User
	database.DB.First(&user, "id = ?", userID)

	go notifications.SendAdminEmail(
		"New Payout Request",
		fmt.Sprintf("<h1>Payout Request</h1><p>%s requested a payout of %.2f %s via %s.</p>", user.FullName, payout.Amount, payout.Currency, payout.PaymentMethod),
	)
	websocket.PublishEvent("payout_requested", fmt.Sprintf("%s requested a payout of %.2f %s", user.FullName, payout.Amount, payout.Currency), payout.ID.String())

	return c.Status(fiber.StatusCreated).JSON(payout)
}

func GetMyPayoutRequests(c *fiber.Ctx) error {
	userID := userIDFromToken(c)

	var payouts []models.PayoutRequest
	if err := database.DB.Where("user_id = ?", userID).Order("requested_at desc").Find(&payouts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load payout requests"})
	}

	return c.JSON(payouts)
}

type TopUpRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// TopUpWallet starts a Paystack checkout; the wallet is only credited when
// the charge.success webhook arrives with a matching reference.
func TopUpWallet(c *fiber.Ctx) error {
	userID := userIDFromToken(c)

	var req TopUpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	reference, err := utils.GenerateTransactionReference()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate reference"})
	}

	checkout, err := payments.InitializePaystackTransaction(user.Email, req.Amount, "USD", reference)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to initialize payment"})
	}

	return c.JSON(checkout)
}

// GetConversionRate shows a USD amount in another currency, so teachers can
// preview what a payout is worth locally.
func GetConversionRate(c *fiber.Ctx) error {
	currency := c.Query("currency")
	if currency == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "currency query parameter is required"})
	}

	amount, err := strconv.ParseFloat(c.Query("amount", "1"), 64)
	if err != nil || amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "amount must be a positive number"})
	}

	converted, err := services.ConvertUSD(amount, currency)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"amount_usd": amount,
		"currency":   currency,
		"converted":  converted,
	})
}
