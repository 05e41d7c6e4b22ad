package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "pending"
	PayoutStatusApproved   PayoutStatus = "approved"
	PayoutStatusRejected   PayoutStatus = "rejected"
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusCompleted  PayoutStatus = "completed"
)

type PayoutMethod string

const (
	PayoutMethodBankTransfer PayoutMethod = "bank_transfer"
	PayoutMethodPaystack     PayoutMethod = "paystack"
	PayoutMethodStripe       PayoutMethod = "stripe"
	PayoutMethodPayPal       PayoutMethod = "paypal"
)

type PayoutRequest struct {
	ID            uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID        uuid.UUID    `gorm:"not null;index" json:"user_id"`
	Amount        float64      `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency      string       `gorm:"size:3;not null;default:'USD'" json:"currency"`
	PaymentMethod PayoutMethod `gorm:"size:20;not null" json:"payment_method"`

	// Snapshot of the destination details at request time; edits to the
	// user's stored payment methods never touch this.
	PaymentDetails datatypes.JSON `gorm:"type:jsonb" json:"payment_details"`

	Status            PayoutStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	RequestedAt       time.Time    `gorm:"not null;autoCreateTime" json:"requested_at"`
	ProcessedAt       *time.Time   `json:"processed_at,omitempty"`
	ProcessedBy       *uuid.UUID   `json:"processed_by,omitempty"`
	AdminNotes        *string      `gorm:"type:text" json:"admin_notes,omitempty"`
	GatewayTransferID *string      `gorm:"size:255;index" json:"gateway_transfer_id,omitempty"`
	ReceiptURL        *string      `gorm:"size:512" json:"receipt_url,omitempty"`

	User User `gorm:"foreignkey:UserID" json:"user"`
}
