package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentType string

const (
	DocumentTypeIDVerification DocumentType = "id_verification"
	DocumentTypeCertificate    DocumentType = "certificate"
	DocumentTypeResume         DocumentType = "resume"
)

type DocumentSide string

const (
	DocumentSideFront DocumentSide = "front"
	DocumentSideBack  DocumentSide = "back"
)

type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusVerified DocumentStatus = "verified"
	DocumentStatusRejected DocumentStatus = "rejected"
)

type Document struct {
	ID                    uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	VerificationRequestID uuid.UUID      `gorm:"not null;index" json:"verification_request_id"`
	Type                  DocumentType   `gorm:"size:30;not null" json:"type"`
	Side                  *DocumentSide  `gorm:"size:10" json:"side,omitempty"`
	Status                DocumentStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	FileURL               string         `gorm:"size:512;not null" json:"file_url"`

	RejectionReason          *string `gorm:"type:text" json:"rejection_reason,omitempty"`
	ResubmissionInstructions *string `gorm:"type:text" json:"resubmission_instructions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
