package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"testing"
	"time"
)

func paystackSign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaystackSignature(t *testing.T) {
	secret := "sk_test_secret"
	body := []byte(`{"event":"charge.success","data":{"reference":"TXN-ABC123"}}`)
	valid := paystackSign(secret, body)

	tests := []struct {
		name      string
		secret    string
		body      []byte
		signature string
		want      bool
	}{
		{"valid signature", secret, body, valid, true},
		{"wrong secret", "sk_other", body, valid, false},
		{"tampered body", secret, []byte(`{"event":"charge.success","data":{"reference":"TXN-XYZ999"}}`), valid, false},
		{"empty signature", secret, body, "", false},
		{"empty secret", "", body, valid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyPaystackSignature(tt.secret, tt.body, tt.signature); got != tt.want {
				t.Errorf("VerifyPaystackSignature() = %v, want %v", got, tt.want)
			}
		})
	}
}

func stripeHeader(secret string, body []byte, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), body)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyStripeSignature(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"type":"payout.paid","data":{"object":{"id":"po_123"}}}`)
	now := time.Now()

	tests := []struct {
		name   string
		header string
		at     time.Time
		want   bool
	}{
		{"valid and fresh", stripeHeader(secret, body, now), now, true},
		{"just inside tolerance", stripeHeader(secret, body, now.Add(-4*time.Minute)), now, true},
		{"expired timestamp", stripeHeader(secret, body, now.Add(-10*time.Minute)), now, false},
		{"wrong secret", stripeHeader("whsec_other", body, now), now, false},
		{"malformed header", "not-a-signature", now, false},
		{"missing v1 part", fmt.Sprintf("t=%d", now.Unix()), now, false},
		{"empty header", "", now, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyStripeSignature(secret, body, tt.header, tt.at); got != tt.want {
				t.Errorf("VerifyStripeSignature() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifyStripeSignatureTamperedBody(t *testing.T) {
	secret := "whsec_test"
	now := time.Now()
	header := stripeHeader(secret, []byte(`{"amount":100}`), now)

	if VerifyStripeSignature(secret, []byte(`{"amount":10000}`), header, now) {
		t.Error("signature over a different body must not verify")
	}
}
