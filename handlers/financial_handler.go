package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/anjiri1684/tutor_marketplace/database"
	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/anjiri1684/tutor_marketplace/notifications"
	"github.com/anjiri1684/tutor_marketplace/payments"
	"github.com/anjiri1684/tutor_marketplace/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func adminIDFromToken(c *fiber.Ctx) uuid.UUID {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	adminID, _ := uuid.Parse(claims["user_id"].(string))
	return adminID
}

func ListPayoutRequests(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset := (page - 1) * limit

	query := database.DB.Model(&models.PayoutRequest{})
	countQuery := database.DB.Model(&models.PayoutRequest{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
		countQuery = countQuery.Where("status = ?", status)
	}

	var total int64
	var payouts []models.PayoutRequest
	countQuery.Count(&total)
	query.Order("requested_at desc").Offset(offset).Limit(limit).Preload("User").Find(&payouts)

	return c.JSON(fiber.Map{
		"data": payouts,
		"meta": fiber.Map{
			"total":     total,
			"page":      page,
			"last_page": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func GetPayoutRequest(c *fiber.Ctx) error {
	payoutID := c.Params("payoutId")

	var payout models.PayoutRequest
	if err := database.DB.Preload("User").First(&payout, "id = ?", payoutID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payout request not found"})
	}

	return c.JSON(payout)
}

type ApprovePayoutRequestBody struct {
	AdminNotes string `json:"admin_notes"`
}

// bankDetails is the shape of the payment details snapshot for gateway
// payouts. Only the fields the chosen gateway needs have to be present.
type bankDetails struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code"`
	PayPalEmail   string `json:"paypal_email"`
}

// ApprovePayout debits the teacher's wallet and, for gateway methods, fires
// the transfer. A gateway failure after the debit refunds immediately so the
// wallet never loses money to a failed transfer.
func ApprovePayout(c *fiber.Ctx) error {
	payoutID := c.Params("payoutId")
	adminID := adminIDFromToken(c)

	var req ApprovePayoutRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	var payout models.PayoutRequest
	if err := database.DB.Preload("User").First(&payout, "id = ?", payoutID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payout request not found"})
	}

	if err := services.ApprovePayout(database.DB, &payout, adminID, req.AdminNotes); err != nil {
		return workflowError(c, err)
	}

	if payout.PaymentMethod != models.PayoutMethodBankTransfer {
		var details bankDetails
		if err := json.Unmarshal(payout.PaymentDetails, &details); err != nil {
			rollbackPayout(&payout, adminID, "Stored payment details could not be read")
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Stored payment details are invalid"})
		}

		transferID, err := initiateGatewayTransfer(payout, details)
		if err != nil {
			rollbackPayout(&payout, adminID, fmt.Sprintf("Gateway transfer could not be started: %v", err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Payout approved but the gateway transfer failed. Funds were returned to the wallet."})
		}

		payout.Status = models.PayoutStatusProcessing
		payout.GatewayTransferID = &transferID
		if err := database.DB.Save(&payout).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update payout request"})
		}
	}

	go notifications.SendEmail(
		payout.User.FullName,
		payout.User.Email,
		"Your Payout has been Approved",
		fmt.Sprintf("<h1>Payout Approved</h1><p>Your payout request of %.2f %s has been approved and is on its way.</p>", payout.Amount, payout.Currency),
	)

	return c.JSON(payout)
}

// rollbackPayout undoes an approval whose gateway leg failed.
func rollbackPayout(payout *models.PayoutRequest, adminID uuid.UUID, reason string) {
	if err := services.RejectPayout(database.DB, payout, adminID, reason); err != nil {
		log.Printf("🔥 Failed to roll back payout %s after gateway failure: %v", payout.ID, err)
	}
}

func initiateGatewayTransfer(payout models.PayoutRequest, details bankDetails) (string, error) {
	reason := fmt.Sprintf("Tutor payout %s", payout.ID)

	switch payout.PaymentMethod {
	case models.PayoutMethodPaystack:
		recipientCode, err := payments.CreatePaystackRecipient(details.AccountName, details.AccountNumber, details.BankCode, payout.Currency)
		if err != nil {
			return "", err
		}
		transfer, err := payments.InitiatePaystackTransfer(recipientCode, payout.Amount, payout.Currency, reason)
		if err != nil {
			return "", err
		}
		return transfer.TransferCode, nil

	case models.PayoutMethodStripe:
		stripePayout, err := payments.CreateStripePayout(payout.Amount, payout.Currency, reason)
		if err != nil {
			return "", err
		}
		return stripePayout.ID, nil

	case models.PayoutMethodPayPal:
		batch, err := payments.CreatePayPalPayout(details.PayPalEmail, payout.Amount, payout.Currency, reason)
		if err != nil {
			return "", err
		}
		return batch.BatchHeader.PayoutBatchID, nil
	}

	return "", fmt.Errorf("unsupported gateway method: %s", payout.PaymentMethod)
}

type RejectPayoutRequestBody struct {
	Reason string `json:"reason" validate:"required"`
}

func RejectPayout(c *fiber.Ctx) error {
	payoutID := c.Params("payoutId")
	adminID := adminIDFromToken(c)

	var req RejectPayoutRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var payout models.PayoutRequest
	if err := database.DB.Preload("User").First(&payout, "id = ?", payoutID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payout request not found"})
	}

	if err := services.RejectPayout(database.DB, &payout, adminID, req.Reason); err != nil {
		return workflowError(c, err)
	}

	go notifications.SendEmail(
		payout.User.FullName,
		payout.User.Email,
		"Update on Your Payout Request",
		fmt.Sprintf("<h1>Payout Rejected</h1><p>Your payout request of %.2f %s was rejected.</p><p><b>Reason:</b> %s</p>", payout.Amount, payout.Currency, req.Reason),
	)

	return c.JSON(payout)
}

// MarkPayoutPaid closes out a bank-transfer payout the admin settled manually,
// then generates the PDF receipt in the background.
func MarkPayoutPaid(c *fiber.Ctx) error {
	payoutID := c.Params("payoutId")
	adminID := adminIDFromToken(c)

	var payout models.PayoutRequest
	if err := database.DB.Preload("User").First(&payout, "id = ?", payoutID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payout request not found"})
	}

	if err := services.MarkPayoutPaid(database.DB, &payout, adminID); err != nil {
		return workflowError(c, err)
	}

	go services.GeneratePayoutReceipt(payout.ID)

	go notifications.SendEmail(
		payout.User.FullName,
		payout.User.Email,
		"Your Payout has been Sent",
		fmt.Sprintf("<h1>Payout Completed</h1><p>Your payout of %.2f %s has been sent. A receipt will be available shortly.</p>", payout.Amount, payout.Currency),
	)

	return c.JSON(payout)
}

type UpdatePayoutMethodRequest struct {
	PaymentMethod  string          `json:"payment_method" validate:"required,oneof=bank_transfer paystack stripe paypal"`
	PaymentDetails json.RawMessage `json:"payment_details" validate:"required"`
}

// UpdatePayoutPaymentMethod replaces the destination snapshot on a pending
// payout, for when the teacher's original details turn out to be wrong.
func UpdatePayoutPaymentMethod(c *fiber.Ctx) error {
	payoutID := c.Params("payoutId")

	var req UpdatePayoutMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var payout models.PayoutRequest
	if err := database.DB.First(&payout, "id = ?", payoutID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payout request not found"})
	}

	if err := services.CanUpdatePayoutMethod(payout); err != nil {
		return workflowError(c, err)
	}

	payout.PaymentMethod = models.PayoutMethod(req.PaymentMethod)
	payout.PaymentDetails = []byte(req.PaymentDetails)
	if err := database.DB.Save(&payout).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update payout request"})
	}

	return c.JSON(payout)
}

// GenerateTransactionReport streams a CSV of transactions in a date range.
func GenerateTransactionReport(c *fiber.Ctx) error {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	query := database.DB.Preload("Wallet").Order("created_at asc")
	if startDate != "" {
		start, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_date must be YYYY-MM-DD"})
		}
		query = query.Where("created_at >= ?", start)
	}
	if endDate != "" {
		end, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_date must be YYYY-MM-DD"})
		}
		query = query.Where("created_at < ?", end.AddDate(0, 0, 1))
	}

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load transactions"})
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", "attachment; filename=transactions.csv")

	writer := csv.NewWriter(c)
	writer.Write([]string{"Reference", "Date", "Type", "Amount", "Currency", "Description", "Wallet User ID"})
	for _, txn := range transactions {
		writer.Write([]string{
			txn.Reference,
			txn.CreatedAt.Format(time.RFC3339),
			string(txn.Type),
			strconv.FormatFloat(txn.Amount, 'f', 2, 64),
			txn.Currency,
			txn.Description,
			txn.Wallet.UserID.String(),
		})
	}
	writer.Flush()

	return nil
}
