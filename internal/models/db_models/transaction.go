package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PixStatus mirrors the gateway's charge status verbatim.
type PixStatus string

const (
	PixPending   PixStatus = "PENDING"
	PixPaid      PixStatus = "PAID"
	PixExpired   PixStatus = "EXPIRED"
	PixCancelled PixStatus = "CANCELLED"
	PixRefunded  PixStatus = "REFUNDED"
)

func (s PixStatus) Valid() bool {
	switch s {
	case PixPending, PixPaid, PixExpired, PixCancelled, PixRefunded:
		return true
	}
	return false
}

type PixTransaction struct {
	BaseModel
	SubscriptionID uuid.UUID `gorm:"type:uuid;index;not null"`
	AbacatePayID   string    `gorm:"column:abacate_pay_id;uniqueIndex;not null"`
	Amount         int64     `gorm:"not null"`
	Status         PixStatus `gorm:"not null;default:PENDING"`
	BrCode         string
	QRCodeBase64   string `gorm:"column:qr_code_base64"`
	ExpiresAt      *time.Time
	PaidAt         *time.Time

	GatewayPayload datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	Subscription *Subscription `gorm:"foreignKey:SubscriptionID"`
}

// WebhookEvent records every webhook accepted past authentication.
type WebhookEvent struct {
	BaseModel
	AbacatePayID      string `gorm:"column:abacate_pay_id;index;not null"`
	Status            string `gorm:"not null"`
	SignatureVerified bool   `gorm:"not null;default:false"`
	Action            string `gorm:"not null"`

	Payload datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
