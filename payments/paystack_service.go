package payments

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	config "github.com/anjiri1684/tutor_marketplace/configs"
)

const paystackBaseURL = "https://api.paystack.co"

type paystackResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type PaystackCheckout struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type PaystackTransfer struct {
	TransferCode string `json:"transfer_code"`
	Status       string `json:"status"`
}

func paystackPost(path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Paystack payload: %v", err)
	}

	req, err := http.NewRequest("POST", paystackBaseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create Paystack request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+config.Config("PAYSTACK_SECRET_KEY"))

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send Paystack request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Paystack response: %v", err)
	}

	var envelope paystackResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("failed to unmarshal Paystack response: %v", err)
	}
	if !envelope.Status {
		log.Printf("Paystack API error on %s: %s", path, envelope.Message)
		return fmt.Errorf("Paystack API error: %s", envelope.Message)
	}

	if out != nil {
		return json.Unmarshal(envelope.Data, out)
	}
	return nil
}

// InitializePaystackTransaction starts a hosted checkout for a wallet top-up.
// Amount is sent in the currency's subunit.
func InitializePaystackTransaction(email string, amount float64, currency, reference string) (*PaystackCheckout, error) {
	callbackURL := config.Config("WEBHOOK_BASE_URL") + "/api/v1/wallet/topup/callback"

	payload := map[string]interface{}{
		"email":        email,
		"amount":       int64(amount * 100),
		"currency":     currency,
		"reference":    reference,
		"callback_url": callbackURL,
	}

	var checkout PaystackCheckout
	if err := paystackPost("/transaction/initialize", payload, &checkout); err != nil {
		return nil, err
	}

	log.Println("✅ Paystack checkout initialized for reference:", reference)
	return &checkout, nil
}

// CreatePaystackRecipient registers the payout destination and returns its
// recipient code.
func CreatePaystackRecipient(name, accountNumber, bankCode, currency string) (string, error) {
	payload := map[string]string{
		"type":           "nuban",
		"name":           name,
		"account_number": accountNumber,
		"bank_code":      bankCode,
		"currency":       currency,
	}

	var recipient struct {
		RecipientCode string `json:"recipient_code"`
	}
	if err := paystackPost("/transferrecipient", payload, &recipient); err != nil {
		return "", err
	}
	return recipient.RecipientCode, nil
}

// InitiatePaystackTransfer sends a payout to a previously created recipient.
// The returned transfer code is stored on the payout request so the webhook
// can correlate the outcome.
func InitiatePaystackTransfer(recipientCode string, amount float64, currency, reason string) (*PaystackTransfer, error) {
	payload := map[string]interface{}{
		"source":    "balance",
		"amount":    int64(amount * 100),
		"currency":  currency,
		"recipient": recipientCode,
		"reason":    reason,
	}

	var transfer PaystackTransfer
	if err := paystackPost("/transfer", payload, &transfer); err != nil {
		return nil, err
	}

	log.Println("✅ Paystack transfer initiated:", transfer.TransferCode)
	return &transfer, nil
}

// VerifyPaystackSignature checks the x-paystack-signature header: an
// HMAC-SHA512 of the raw request body keyed with the secret key.
func VerifyPaystackSignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
