package models

import (
	"time"

	"github.com/google/uuid"
)

type Wallet struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID   uuid.UUID `gorm:"not null;unique" json:"user_id"`
	Balance  float64   `gorm:"type:numeric(10,2);not null;default:0.00" json:"balance"`
	Currency string    `gorm:"size:3;not null;default:'USD'" json:"currency"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
