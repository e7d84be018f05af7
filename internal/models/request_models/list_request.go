package request_models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EditModeContinue = "continue"
	EditModeReset    = "reset"
)

// ItemSpec describes an item by its total quantity; the server splits it
// into ceil(total/portion) parcels.
type ItemSpec struct {
	ID                 *uuid.UUID `json:"id,omitempty"`
	ItemName           string     `json:"item_name" binding:"required,min=1,max=120"`
	QuantityTotal      float64    `json:"quantity_total" binding:"gt=0,lte=1000000000"`
	UnitType           string     `json:"unit_type" binding:"required,max=30"`
	QuantityPerPortion float64    `json:"quantity_per_portion" binding:"gt=0,lte=999999999"`
}

type CreateListRequest struct {
	Location    string     `json:"location" binding:"required,min=1,max=255"`
	Description *string    `json:"description" binding:"omitempty,max=1000"`
	EventDate   time.Time  `json:"event_date" binding:"required"`
	Items       []ItemSpec `json:"items" binding:"required,max=100,dive"`
}

type CreateFromTemplateRequest struct {
	TemplateListID uuid.UUID `json:"template_list_id" binding:"required"`
}

// EditListRequest leaves a field unchanged when it is omitted. Mode
// defaults to continue.
type EditListRequest struct {
	Mode        string     `json:"mode" binding:"omitempty,oneof=continue reset"`
	Location    *string    `json:"location" binding:"omitempty,min=1,max=255"`
	Description *string    `json:"description" binding:"omitempty,max=1000"`
	EventDate   *time.Time `json:"event_date"`
	Items       []ItemSpec `json:"items" binding:"omitempty,max=100,dive"`
}

type RegisterMemberRequest struct {
	ItemID uuid.UUID `json:"item_id" binding:"required"`
	Name   string    `json:"name" binding:"required,min=1,max=120"`
	CPF    string    `json:"cpf" binding:"required,cpf"`
}
