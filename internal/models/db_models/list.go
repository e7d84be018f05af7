package db_models

import (
	"time"

	"github.com/google/uuid"
)

type ListStatus string

const (
	ListStatusActive   ListStatus = "active"
	ListStatusArchived ListStatus = "archived"
)

type List struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Location    string    `gorm:"not null"`
	Description *string
	EventDate   time.Time  `gorm:"not null"`
	Status      ListStatus `gorm:"not null;default:active"`
	UpdatedBy   *uuid.UUID `gorm:"type:uuid"`

	Items []Item `gorm:"foreignKey:ListID"`
}

// Item is a product of a list, split into parcels of PortionSize each.
type Item struct {
	BaseModel
	ListID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"not null"`
	PortionSize float64   `gorm:"type:numeric(12,3);not null"`
	UnitType    string    `gorm:"not null"`
	Position    int       `gorm:"not null"`

	Parcels []Parcel `gorm:"foreignKey:ItemID"`
}

// Parcel is one claimable share of an item. The member fields are either
// all set or all nil.
type Parcel struct {
	BaseModel
	ItemID       uuid.UUID `gorm:"type:uuid;index;not null"`
	ListID       uuid.UUID `gorm:"type:uuid;index;not null"`
	Position     int       `gorm:"not null"`
	MemberName   *string
	MemberCPF    *string `gorm:"column:member_cpf"`
	RegisteredAt *time.Time
}

func (p *Parcel) Claimed() bool {
	return p.MemberName != nil
}
