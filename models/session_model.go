package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

type Session struct {
	ID              uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TeacherID       uuid.UUID     `gorm:"not null;index" json:"teacher_id"`
	StudentID       uuid.UUID     `gorm:"not null;index" json:"student_id"`
	ScheduledAt     time.Time     `gorm:"not null" json:"scheduled_at"`
	DurationMinutes int           `gorm:"not null;default:60" json:"duration_minutes"`
	Price           float64       `gorm:"type:numeric(10,2);not null" json:"price"`
	Currency        string        `gorm:"size:3;default:'USD'" json:"currency"`
	Status          SessionStatus `gorm:"size:20;not null;default:'scheduled'" json:"status"`
	MeetingLink     *string       `gorm:"size:512" json:"meeting_link,omitempty"`

	Teacher User `gorm:"foreignkey:TeacherID" json:"teacher"`
	Student User `gorm:"foreignkey:StudentID" json:"student"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
