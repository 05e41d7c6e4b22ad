package models

import (
	"time"

	"github.com/google/uuid"
)

type VerificationStatus string

const (
	VerificationStatusPending   VerificationStatus = "pending"
	VerificationStatusLiveVideo VerificationStatus = "live_video"
	VerificationStatusVerified  VerificationStatus = "verified"
	VerificationStatusRejected  VerificationStatus = "rejected"
)

type VideoStatus string

const (
	VideoStatusNotScheduled VideoStatus = "not_scheduled"
	VideoStatusScheduled    VideoStatus = "scheduled"
	VideoStatusPassed       VideoStatus = "passed"
	VideoStatusFailed       VideoStatus = "failed"
)

type VerificationRequest struct {
	ID              uuid.UUID          `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TeacherID       uuid.UUID          `gorm:"not null;index" json:"teacher_id"`
	Status          VerificationStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	VideoStatus     VideoStatus        `gorm:"size:20;not null;default:'not_scheduled'" json:"video_status"`
	RejectionReason *string            `gorm:"type:text" json:"rejection_reason"`

	Documents []Document         `gorm:"foreignkey:VerificationRequestID" json:"documents,omitempty"`
	Calls     []VerificationCall `gorm:"foreignkey:VerificationRequestID" json:"calls,omitempty"`
	Teacher   User               `gorm:"foreignkey:TeacherID" json:"teacher"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
