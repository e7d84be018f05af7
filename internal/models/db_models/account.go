package db_models

import (
	"time"

	"github.com/google/uuid"
)

type Credential struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
}

type ProfileStatus string

const (
	ProfileStatusNone      ProfileStatus = "none"
	ProfileStatusActive    ProfileStatus = "active"
	ProfileStatusExpired   ProfileStatus = "expired"
	ProfileStatusCancelled ProfileStatus = "cancelled"
)

// User is the profile behind a credential. The Subscription* columns are a
// snapshot of the latest paid subscription, kept in sync on every
// subscription state change.
type User struct {
	BaseModel
	CredentialID          uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Name                  string    `gorm:"not null"`
	CPF                   *string   `gorm:"column:cpf"`
	SubscriptionPlan      *string
	SubscriptionExpiresAt *time.Time
	SubscriptionStatus    ProfileStatus `gorm:"not null;default:none"`
}
