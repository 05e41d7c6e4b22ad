package models

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

type Subscription struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID          `gorm:"not null;index" json:"user_id"`
	PlanID    uuid.UUID          `gorm:"not null" json:"plan_id"`
	Status    SubscriptionStatus `gorm:"size:20;not null;default:'active'" json:"status"`
	StartsAt  time.Time          `gorm:"not null" json:"starts_at"`
	ExpiresAt time.Time          `gorm:"not null" json:"expires_at"`

	Plan SubscriptionPlan `gorm:"foreignkey:PlanID" json:"plan"`
	User User             `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
