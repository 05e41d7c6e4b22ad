package payments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	config "github.com/anjiri1684/tutor_marketplace/configs"
)

type PayPalPayoutBatch struct {
	BatchHeader struct {
		PayoutBatchID string `json:"payout_batch_id"`
		BatchStatus   string `json:"batch_status"`
	} `json:"batch_header"`
}

// CreatePayPalPayout sends a single-item payout batch to the recipient's
// PayPal email. The batch id is stored on the payout request for webhook
// correlation.
func CreatePayPalPayout(receiverEmail string, amount float64, currency, note string) (*PayPalPayoutBatch, error) {
	accessToken, err := GetPayPalAccessToken()
	if err != nil {
		return nil, err
	}

	apiBase := config.Config("PAYPAL_API_BASE_URL")

	payload := map[string]interface{}{
		"sender_batch_header": map[string]string{
			"email_subject": "You have a payout from Tutor Marketplace",
		},
		"items": []map[string]interface{}{
			{
				"recipient_type": "EMAIL",
				"receiver":       receiverEmail,
				"note":           note,
				"amount": map[string]string{
					"value":    fmt.Sprintf("%.2f", amount),
					"currency": currency,
				},
			},
		},
	}
	body, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", fmt.Sprintf("%s/v1/payments/payouts", apiBase), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to create payout: %s", string(respBody))
	}

	var batch PayPalPayoutBatch
	json.NewDecoder(resp.Body).Decode(&batch)
	return &batch, nil
}

// VerifyPayPalWebhook asks PayPal to confirm the transmission headers match
// the delivered event body.
func VerifyPayPalWebhook(headers map[string]string, event json.RawMessage) (bool, error) {
	accessToken, err := GetPayPalAccessToken()
	if err != nil {
		return false, err
	}

	apiBase := config.Config("PAYPAL_API_BASE_URL")

	payload := map[string]interface{}{
		"auth_algo":         headers["Paypal-Auth-Algo"],
		"cert_url":          headers["Paypal-Cert-Url"],
		"transmission_id":   headers["Paypal-Transmission-Id"],
		"transmission_sig":  headers["Paypal-Transmission-Sig"],
		"transmission_time": headers["Paypal-Transmission-Time"],
		"webhook_id":        config.Config("PAYPAL_WEBHOOK_ID"),
		"webhook_event":     event,
	}
	body, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", fmt.Sprintf("%s/v1/notifications/verify-webhook-signature", apiBase), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("failed to verify webhook: %s", string(respBody))
	}

	var result struct {
		VerificationStatus string `json:"verification_status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, err
	}

	return result.VerificationStatus == "SUCCESS", nil
}
