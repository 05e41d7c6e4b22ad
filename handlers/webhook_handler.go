package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	config "github.com/anjiri1684/tutor_marketplace/configs"
	"github.com/anjiri1684/tutor_marketplace/database"
	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/anjiri1684/tutor_marketplace/notifications"
	"github.com/anjiri1684/tutor_marketplace/payments"
	"github.com/anjiri1684/tutor_marketplace/services"
	"github.com/anjiri1684/tutor_marketplace/websocket"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Webhooks are the source of truth for gateway outcomes. Every handler
// verifies the gateway's signature before touching any state, and every
// balance change is idempotent because redeliveries are routine.

type paystackEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference    string `json:"reference"`
		TransferCode string `json:"transfer_code"`
		Amount       int64  `json:"amount"`
		Currency     string `json:"currency"`
		Reason       string `json:"reason"`
		Customer     struct {
			Email string `json:"email"`
		} `json:"customer"`
	} `json:"data"`
}

func HandlePaystackWebhook(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get("x-paystack-signature")

	if !payments.VerifyPaystackSignature(config.Config("PAYSTACK_SECRET_KEY"), body, signature) {
		log.Println("⚠️ Paystack webhook rejected: bad signature")
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var event paystackEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	switch event.Event {
	case "charge.success":
		creditTopUp(event.Data.Customer.Email, float64(event.Data.Amount)/100, event.Data.Reference)
	case "transfer.success":
		settlePayout(event.Data.TransferCode)
	case "transfer.failed", "transfer.reversed":
		failPayout(event.Data.TransferCode, event.Event)
	}

	// Always 200 for recognized signatures so the gateway stops retrying.
	return c.SendStatus(fiber.StatusOK)
}

type stripeEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID             string `json:"id"`
			FailureMessage string `json:"failure_message"`
		} `json:"object"`
	} `json:"data"`
}

func HandleStripeWebhook(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get("Stripe-Signature")

	if !payments.VerifyStripeSignature(config.Config("STRIPE_WEBHOOK_SECRET"), body, signature, time.Now()) {
		log.Println("⚠️ Stripe webhook rejected: bad signature")
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var event stripeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	switch event.Type {
	case "payout.paid":
		settlePayout(event.Data.Object.ID)
	case "payout.failed":
		reason := event.Data.Object.FailureMessage
		if reason == "" {
			reason = "payout.failed"
		}
		failPayout(event.Data.Object.ID, reason)
	}

	return c.SendStatus(fiber.StatusOK)
}

type paypalEvent struct {
	EventType string `json:"event_type"`
	Resource  struct {
		BatchHeader struct {
			PayoutBatchID string `json:"payout_batch_id"`
		} `json:"batch_header"`
	} `json:"resource"`
}

func HandlePayPalWebhook(c *fiber.Ctx) error {
	body := c.Body()

	headers := map[string]string{
		"Paypal-Auth-Algo":         c.Get("Paypal-Auth-Algo"),
		"Paypal-Cert-Url":          c.Get("Paypal-Cert-Url"),
		"Paypal-Transmission-Id":   c.Get("Paypal-Transmission-Id"),
		"Paypal-Transmission-Sig":  c.Get("Paypal-Transmission-Sig"),
		"Paypal-Transmission-Time": c.Get("Paypal-Transmission-Time"),
	}

	verified, err := payments.VerifyPayPalWebhook(headers, json.RawMessage(body))
	if err != nil || !verified {
		log.Println("⚠️ PayPal webhook rejected:", err)
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var event paypalEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	switch event.EventType {
	case "PAYMENT.PAYOUTSBATCH.SUCCESS":
		settlePayout(event.Resource.BatchHeader.PayoutBatchID)
	case "PAYMENT.PAYOUTSBATCH.DENIED":
		failPayout(event.Resource.BatchHeader.PayoutBatchID, event.EventType)
	}

	return c.SendStatus(fiber.StatusOK)
}

// creditTopUp credits a wallet for a confirmed checkout. The gateway
// reference guards against double-crediting a redelivered event.
func creditTopUp(email string, amount float64, reference string) {
	if email == "" || reference == "" || amount <= 0 {
		return
	}

	var user models.User
	if err := database.DB.First(&user, "email = ?", email).Error; err != nil {
		log.Println("⚠️ Top-up webhook for unknown email:", email)
		return
	}

	description := fmt.Sprintf("Wallet top-up %s", reference)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var existing int64
		tx.Model(&models.Transaction{}).
			Where("type = ? AND description = ?", models.TransactionTypeWalletTopup, description).
			Count(&existing)
		if existing > 0 {
			return nil
		}

		_, err := services.ApplyWalletEntry(tx, services.WalletEntry{
			UserID:      user.ID,
			Amount:      amount,
			Type:        models.TransactionTypeWalletTopup,
			Description: description,
		})
		return err
	})
	if err != nil {
		log.Println("🔥 Failed to credit top-up:", err)
		return
	}

	go notifications.SendEmail(
		user.FullName,
		user.Email,
		"Wallet Top-Up Confirmed",
		fmt.Sprintf("<h1>Top-Up Received</h1><p>%.2f has been added to your wallet.</p>", amount),
	)
}

func settlePayout(transferID string) {
	payout, ok := payoutByTransferID(transferID)
	if !ok {
		return
	}

	if err := services.CompletePayoutFromGateway(database.DB, &payout); err != nil {
		log.Printf("🔥 Failed to complete payout %s: %v", payout.ID, err)
		return
	}

	go services.GeneratePayoutReceipt(payout.ID)
	websocket.PublishEvent("payout_completed", fmt.Sprintf("Payout of %.2f %s was delivered", payout.Amount, payout.Currency), payout.ID.String())

	go notifications.SendEmail(
		payout.User.FullName,
		payout.User.Email,
		"Your Payout has been Sent",
		fmt.Sprintf("<h1>Payout Completed</h1><p>Your payout of %.2f %s has been delivered. A receipt will be available shortly.</p>", payout.Amount, payout.Currency),
	)
}

func failPayout(transferID, reason string) {
	payout, ok := payoutByTransferID(transferID)
	if !ok {
		return
	}

	if err := services.FailPayoutFromGateway(database.DB, &payout, reason); err != nil {
		log.Printf("🔥 Failed to record payout failure %s: %v", payout.ID, err)
		return
	}

	websocket.PublishEvent("payout_failed", fmt.Sprintf("Gateway transfer failed for payout %s", payout.ID), payout.ID.String())

	go notifications.SendEmail(
		payout.User.FullName,
		payout.User.Email,
		"Problem with Your Payout",
		fmt.Sprintf("<h1>Payout Failed</h1><p>The transfer for your payout of %.2f %s failed and the funds have been returned to your wallet. Please check your payment details and try again.</p>", payout.Amount, payout.Currency),
	)
}

func payoutByTransferID(transferID string) (models.PayoutRequest, bool) {
	var payout models.PayoutRequest
	if transferID == "" {
		return payout, false
	}
	if err := database.DB.Preload("User").First(&payout, "gateway_transfer_id = ?", transferID).Error; err != nil {
		log.Println("⚠️ Webhook for unknown transfer:", transferID)
		return payout, false
	}
	return payout, true
}
