package services

import (
	"fmt"
	"time"

	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payout workflow: pending -> approved -> processing -> completed
//                  pending|approved -> rejected
//
// Funds are debited at approval time, not when the request is created;
// request creation only checks the balance covers the amount. Rejecting a
// payout that was already approved refunds exactly the debited amount, so
// approve-then-reject leaves the balance where it started.

// NewPayoutRequest builds a pending payout with its request time stamped, so
// list ordering and the stale-payout digest see when it was actually opened.
func NewPayoutRequest(userID uuid.UUID, amount float64, currency string, method models.PayoutMethod, details datatypes.JSON) models.PayoutRequest {
	return models.PayoutRequest{
		UserID:         userID,
		Amount:         amount,
		Currency:       currency,
		PaymentMethod:  method,
		PaymentDetails: details,
		Status:         models.PayoutStatusPending,
		RequestedAt:    time.Now(),
	}
}

func CanApprovePayout(p models.PayoutRequest) error {
	if p.Status != models.PayoutStatusPending {
		return &InvalidStateError{Action: "approve payout", Reason: fmt.Sprintf("payout is %s, only pending payouts can be approved", p.Status)}
	}
	return nil
}

func CanRejectPayout(p models.PayoutRequest) error {
	if p.Status != models.PayoutStatusPending && p.Status != models.PayoutStatusApproved {
		return &InvalidStateError{Action: "reject payout", Reason: fmt.Sprintf("payout is %s, only pending or approved payouts can be rejected", p.Status)}
	}
	return nil
}

func CanMarkPayoutPaid(p models.PayoutRequest) error {
	if p.Status != models.PayoutStatusApproved && p.Status != models.PayoutStatusProcessing {
		return &InvalidStateError{Action: "mark payout paid", Reason: fmt.Sprintf("payout is %s, only approved or processing payouts can be marked paid", p.Status)}
	}
	return nil
}

func CanUpdatePayoutMethod(p models.PayoutRequest) error {
	if p.Status != models.PayoutStatusPending {
		return &InvalidStateError{Action: "update payment method", Reason: "payment details can only be changed while the payout is pending"}
	}
	return nil
}

// payoutDebited reports whether the wallet has been debited for this payout.
func payoutDebited(p models.PayoutRequest) bool {
	switch p.Status {
	case models.PayoutStatusApproved, models.PayoutStatusProcessing, models.PayoutStatusCompleted:
		return true
	}
	return false
}

// ApprovePayout debits the wallet and moves the request to approved. The
// debit, audit row and status change commit or roll back together.
func ApprovePayout(db *gorm.DB, payout *models.PayoutRequest, adminID uuid.UUID, notes string) error {
	if err := CanApprovePayout(*payout); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := ApplyWalletEntry(tx, WalletEntry{
			UserID:          payout.UserID,
			Amount:          -payout.Amount,
			Type:            models.TransactionTypePayoutDebit,
			Description:     fmt.Sprintf("Payout of %.2f %s approved", payout.Amount, payout.Currency),
			PayoutRequestID: &payout.ID,
		}); err != nil {
			return err
		}

		now := time.Now()
		payout.Status = models.PayoutStatusApproved
		payout.ProcessedAt = &now
		payout.ProcessedBy = &adminID
		if notes != "" {
			payout.AdminNotes = &notes
		}
		return tx.Save(payout).Error
	})
}

// RejectPayout records the rejection and refunds the wallet if the payout had
// already been debited. Rejecting a still-pending payout touches no balance.
func RejectPayout(db *gorm.DB, payout *models.PayoutRequest, adminID uuid.UUID, reason string) error {
	if err := CanRejectPayout(*payout); err != nil {
		return err
	}

	refund := payoutDebited(*payout)

	return db.Transaction(func(tx *gorm.DB) error {
		if refund {
			if _, err := ApplyWalletEntry(tx, WalletEntry{
				UserID:          payout.UserID,
				Amount:          payout.Amount,
				Type:            models.TransactionTypePayoutRefund,
				Description:     fmt.Sprintf("Payout of %.2f %s rejected, funds returned", payout.Amount, payout.Currency),
				PayoutRequestID: &payout.ID,
			}); err != nil {
				return err
			}
		}

		now := time.Now()
		payout.Status = models.PayoutStatusRejected
		payout.ProcessedAt = &now
		payout.ProcessedBy = &adminID
		payout.AdminNotes = &reason
		return tx.Save(payout).Error
	})
}

// MarkPayoutPaid finalizes a payout that was settled outside a gateway
// webhook (bank transfers, or an admin confirming manually). No balance
// change, the debit happened at approval.
func MarkPayoutPaid(db *gorm.DB, payout *models.PayoutRequest, adminID uuid.UUID) error {
	if err := CanMarkPayoutPaid(*payout); err != nil {
		return err
	}

	now := time.Now()
	payout.Status = models.PayoutStatusCompleted
	payout.ProcessedAt = &now
	payout.ProcessedBy = &adminID
	return db.Save(payout).Error
}

// CompletePayoutFromGateway finalizes a payout on a successful transfer
// webhook. Idempotent: a repeated delivery for a completed payout is a no-op.
func CompletePayoutFromGateway(db *gorm.DB, payout *models.PayoutRequest) error {
	if payout.Status == models.PayoutStatusCompleted {
		return nil
	}
	if payout.Status != models.PayoutStatusApproved && payout.Status != models.PayoutStatusProcessing {
		return &InvalidStateError{Action: "complete payout", Reason: fmt.Sprintf("payout is %s", payout.Status)}
	}

	now := time.Now()
	payout.Status = models.PayoutStatusCompleted
	payout.ProcessedAt = &now
	return db.Save(payout).Error
}

// FailPayoutFromGateway handles transfer.failed / reversed webhooks: the
// debited amount goes back to the wallet and the payout ends rejected with an
// explanatory note, keeping the audit trail linear.
func FailPayoutFromGateway(db *gorm.DB, payout *models.PayoutRequest, gatewayReason string) error {
	if payout.Status != models.PayoutStatusApproved && payout.Status != models.PayoutStatusProcessing {
		return &InvalidStateError{Action: "fail payout", Reason: fmt.Sprintf("payout is %s", payout.Status)}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := ApplyWalletEntry(tx, WalletEntry{
			UserID:          payout.UserID,
			Amount:          payout.Amount,
			Type:            models.TransactionTypePayoutRefund,
			Description:     fmt.Sprintf("Gateway transfer failed, %.2f %s returned", payout.Amount, payout.Currency),
			PayoutRequestID: &payout.ID,
		}); err != nil {
			return err
		}

		now := time.Now()
		note := fmt.Sprintf("Gateway transfer failed: %s", gatewayReason)
		payout.Status = models.PayoutStatusRejected
		payout.ProcessedAt = &now
		payout.AdminNotes = &note
		return tx.Save(payout).Error
	})
}
