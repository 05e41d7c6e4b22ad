package services

import (
	"errors"
	"testing"
	"time"

	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func payout(status models.PayoutStatus) models.PayoutRequest {
	return models.PayoutRequest{Status: status, Amount: 100, Currency: "USD"}
}

func TestPayoutTransitions(t *testing.T) {
	tests := []struct {
		name    string
		check   func(models.PayoutRequest) error
		status  models.PayoutStatus
		wantErr bool
	}{
		{"approve pending", CanApprovePayout, models.PayoutStatusPending, false},
		{"approve twice", CanApprovePayout, models.PayoutStatusApproved, true},
		{"approve completed", CanApprovePayout, models.PayoutStatusCompleted, true},
		{"approve rejected", CanApprovePayout, models.PayoutStatusRejected, true},

		{"reject pending", CanRejectPayout, models.PayoutStatusPending, false},
		{"reject approved", CanRejectPayout, models.PayoutStatusApproved, false},
		{"reject processing", CanRejectPayout, models.PayoutStatusProcessing, true},
		{"reject completed", CanRejectPayout, models.PayoutStatusCompleted, true},
		{"reject twice", CanRejectPayout, models.PayoutStatusRejected, true},

		{"mark paid approved", CanMarkPayoutPaid, models.PayoutStatusApproved, false},
		{"mark paid processing", CanMarkPayoutPaid, models.PayoutStatusProcessing, false},
		{"mark paid pending", CanMarkPayoutPaid, models.PayoutStatusPending, true},
		{"mark paid completed", CanMarkPayoutPaid, models.PayoutStatusCompleted, true},

		{"change method pending", CanUpdatePayoutMethod, models.PayoutStatusPending, false},
		{"change method approved", CanUpdatePayoutMethod, models.PayoutStatusApproved, true},
		{"change method completed", CanUpdatePayoutMethod, models.PayoutStatusCompleted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(payout(tt.status))
			if (err != nil) != tt.wantErr {
				t.Errorf("got err = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil {
				var invalid *InvalidStateError
				if !errors.As(err, &invalid) {
					t.Errorf("expected InvalidStateError, got %T", err)
				}
			}
		})
	}
}

// The refund decision depends only on whether the debit already happened:
// pending payouts were never debited, everything past approval was.
func TestPayoutDebited(t *testing.T) {
	tests := []struct {
		status models.PayoutStatus
		want   bool
	}{
		{models.PayoutStatusPending, false},
		{models.PayoutStatusRejected, false},
		{models.PayoutStatusApproved, true},
		{models.PayoutStatusProcessing, true},
		{models.PayoutStatusCompleted, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := payoutDebited(payout(tt.status)); got != tt.want {
				t.Errorf("payoutDebited(%s) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestNewPayoutRequest(t *testing.T) {
	userID := uuid.New()
	details := datatypes.JSON(`{"account_number":"0123456789","bank_code":"044"}`)

	before := time.Now()
	p := NewPayoutRequest(userID, 250, "USD", models.PayoutMethodPaystack, details)
	after := time.Now()

	if p.Status != models.PayoutStatusPending {
		t.Errorf("status = %s, want pending", p.Status)
	}
	if p.RequestedAt.Before(before) || p.RequestedAt.After(after) {
		t.Errorf("requested_at = %v, want the creation time", p.RequestedAt)
	}
	if p.RequestedAt.IsZero() {
		t.Error("requested_at must never be the zero time")
	}
	if p.UserID != userID || p.Amount != 250 || p.Currency != "USD" || p.PaymentMethod != models.PayoutMethodPaystack {
		t.Error("request fields should carry over unchanged")
	}
	if string(p.PaymentDetails) != string(details) {
		t.Error("payment details snapshot should carry over unchanged")
	}
}

func TestInsufficientBalanceError(t *testing.T) {
	err := &InsufficientBalanceError{Available: 50, Requested: 100}
	if err.Error() == "" {
		t.Fatal("expected a descriptive message")
	}

	var target *InsufficientBalanceError
	if !errors.As(error(err), &target) {
		t.Error("errors.As should match InsufficientBalanceError")
	}
}
