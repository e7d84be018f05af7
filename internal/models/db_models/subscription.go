package db_models

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubStatusPending   SubscriptionStatus = "pending"
	SubStatusPaid      SubscriptionStatus = "paid"
	SubStatusExpired   SubscriptionStatus = "expired"
	SubStatusCancelled SubscriptionStatus = "cancelled"
)

type Subscription struct {
	BaseModel
	UserID uuid.UUID          `gorm:"type:uuid;index;not null"`
	Plan   string             `gorm:"not null"`
	Amount int64              `gorm:"not null"`
	Status SubscriptionStatus `gorm:"not null;default:pending"`

	StartsAt  *time.Time
	ExpiresAt *time.Time
}
