package payments

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	config "github.com/anjiri1684/tutor_marketplace/configs"
)

const stripeBaseURL = "https://api.stripe.com/v1"

// Stripe webhook signatures are valid for this long after the timestamp in
// the header.
const stripeSignatureTolerance = 5 * time.Minute

type StripePayout struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateStripePayout moves funds from the platform balance to the connected
// account's bank. Amount is sent in the smallest currency unit.
func CreateStripePayout(amount float64, currency, description string) (*StripePayout, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(int64(amount*100), 10))
	form.Set("currency", strings.ToLower(currency))
	form.Set("description", description)

	req, err := http.NewRequest("POST", stripeBaseURL+"/payouts", bytes.NewBufferString(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create Stripe request: %v", err)
	}
	req.SetBasicAuth(config.Config("STRIPE_SECRET_KEY"), "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send Stripe request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Stripe response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("Stripe API error: %s", string(respBody))
		return nil, fmt.Errorf("Stripe API returned non-200 status: %d", resp.StatusCode)
	}

	var payout StripePayout
	if err := json.Unmarshal(respBody, &payout); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Stripe response: %v", err)
	}

	log.Println("✅ Stripe payout created:", payout.ID)
	return &payout, nil
}

// VerifyStripeSignature validates a Stripe-Signature header of the form
// "t=<timestamp>,v1=<hmac>,...": HMAC-SHA256 over "<timestamp>.<body>" keyed
// with the webhook signing secret, with a freshness check on the timestamp.
func VerifyStripeSignature(secret string, body []byte, header string, now time.Time) bool {
	if secret == "" || header == "" {
		return false
	}

	var timestamp string
	var candidates []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			candidates = append(candidates, kv[1])
		}
	}
	if timestamp == "" || len(candidates) == 0 {
		return false
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	if now.Sub(time.Unix(ts, 0)) > stripeSignatureTolerance {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, candidate := range candidates {
		if hmac.Equal([]byte(expected), []byte(candidate)) {
			return true
		}
	}
	return false
}
