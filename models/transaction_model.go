package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypePayoutDebit         TransactionType = "payout_debit"
	TransactionTypePayoutRefund        TransactionType = "payout_refund"
	TransactionTypeSessionEarning      TransactionType = "session_earning"
	TransactionTypeSubscriptionPayment TransactionType = "subscription_payment"
	TransactionTypeWalletTopup         TransactionType = "wallet_topup"
)

// Transaction is an append-only audit record of a balance-affecting event.
// Rows are only ever created, inside the same DB transaction as the wallet
// mutation they describe.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	WalletID    uuid.UUID       `gorm:"not null;index" json:"wallet_id"`
	Type        TransactionType `gorm:"size:30;not null" json:"type"`
	Amount      float64         `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency    string          `gorm:"size:3;not null;default:'USD'" json:"currency"`
	Reference   string          `gorm:"size:40;not null;unique" json:"reference"`
	Description string          `gorm:"size:255" json:"description"`

	PayoutRequestID *uuid.UUID `gorm:"index" json:"payout_request_id,omitempty"`
	SessionID       *uuid.UUID `gorm:"index" json:"session_id,omitempty"`

	Wallet Wallet `gorm:"foreignkey:WalletID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
