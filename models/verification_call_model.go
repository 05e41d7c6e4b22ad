package models

import (
	"time"

	"github.com/google/uuid"
)

type CallPlatform string

const (
	CallPlatformZoom       CallPlatform = "zoom"
	CallPlatformGoogleMeet CallPlatform = "google_meet"
	CallPlatformOther      CallPlatform = "other"
)

type CallStatus string

const (
	CallStatusScheduled  CallStatus = "scheduled"
	CallStatusInProgress CallStatus = "in_progress"
	CallStatusCompleted  CallStatus = "completed"
	CallStatusMissed     CallStatus = "missed"
	CallStatusCancelled  CallStatus = "cancelled"
)

type VerificationCall struct {
	ID                    uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	VerificationRequestID uuid.UUID    `gorm:"not null;index" json:"verification_request_id"`
	ScheduledAt           time.Time    `gorm:"not null" json:"scheduled_at"`
	Platform              CallPlatform `gorm:"size:20;not null" json:"platform"`
	MeetingLink           *string      `gorm:"size:512" json:"meeting_link,omitempty"`
	Notes                 *string      `gorm:"type:text" json:"notes,omitempty"`
	Status                CallStatus   `gorm:"size:20;not null;default:'scheduled'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
